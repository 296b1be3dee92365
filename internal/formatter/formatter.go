// package formatter renders Spotify responses as plain text, CSV or JSON for the terminal
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/desertthunder/aerial/internal/spotify"
)

// FormatDuration renders milliseconds as m:ss, or h:mm:ss past an hour.
func FormatDuration(ms int) string {
	total := ms / 1000
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// YesNo renders a boolean flag for humans.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n")
}

func Track(t spotify.Track) string {
	return lines(
		fmt.Sprintf("Name: %s", t.Name),
		fmt.Sprintf("Album: %s (ID = %s)", t.Album.Name, t.Album.ID),
		fmt.Sprintf("Artist(s): %s", t.ArtistNames()),
		fmt.Sprintf("ID: %s", t.ID),
	)
}

func Album(a spotify.Album) string {
	return lines(
		fmt.Sprintf("Name: %s", a.Name),
		fmt.Sprintf("Album: %s", a.AlbumType),
		fmt.Sprintf("Length: %d Tracks", a.TotalTracks),
		fmt.Sprintf("Artist(s): %s", a.ArtistNames()),
		fmt.Sprintf("Release Date: %s", a.ReleaseDate),
		fmt.Sprintf("ID: %s", a.ID),
	)
}

func Artist(a spotify.Artist) string {
	return lines(
		fmt.Sprintf("Name: %s", a.Name),
		fmt.Sprintf("Genres: %s", strings.Join(a.Genres, ", ")),
		fmt.Sprintf("ID: %s", a.ID),
	)
}

func Playlist(p spotify.Playlist) string {
	return lines(
		fmt.Sprintf("Name: %s", p.Name),
		fmt.Sprintf("Description: %s", p.Description),
		fmt.Sprintf("ID: %s", p.ID),
		fmt.Sprintf("Public: %s", YesNo(p.Public)),
	)
}

func Context(c spotify.Context) string {
	urls := make([]string, 0, len(c.ExternalURLs))
	for _, k := range slices.Sorted(maps.Keys(c.ExternalURLs)) {
		urls = append(urls, k+"="+c.ExternalURLs[k])
	}

	return lines(
		fmt.Sprintf("URI: %s", c.URI),
		fmt.Sprintf("Href: %s", c.Href),
		fmt.Sprintf("External URLs: %s", strings.Join(urls, ", ")),
		fmt.Sprintf("Context Type: %s", c.Type),
	)
}

// CurrentlyPlaying renders the track and, when present, the context it plays from.
func CurrentlyPlaying(c spotify.CurrentlyPlaying) string {
	track := "No track information available"
	if c.Item != nil {
		track = Track(*c.Item)
	}

	context := "No context information available"
	if c.Context != nil {
		context = "CONTEXT:\n" + Context(*c.Context)
	}

	return track + "\n\n" + context
}

func Device(d spotify.Device) string {
	id := "(restricted)"
	if d.ID != nil {
		id = *d.ID
	}

	active := ""
	if d.IsActive {
		active = " *"
	}
	return fmt.Sprintf("%s [%s] %s%s", d.Name, d.Type, id, active)
}

func Devices(ds []spotify.Device) string {
	if len(ds) == 0 {
		return "No devices available"
	}

	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = Device(d)
	}
	return strings.Join(out, "\n")
}

// PlaybackState is a one-line summary of the active device.
func PlaybackState(s spotify.PlaybackState) string {
	summary := fmt.Sprintf("%s on %s", spotify.PlayingState(s.IsPlaying), s.Device.Name)
	if s.Item != nil {
		summary += fmt.Sprintf(": %s - %s", s.Item.ArtistNames(), s.Item.Name)
	}
	return summary
}

func joinBlocks[T any](items []T, render func(T) string) string {
	if len(items) == 0 {
		return "No search results returned"
	}

	blocks := make([]string, len(items))
	for i, item := range items {
		blocks[i] = render(item)
	}
	return strings.Join(blocks, "\n\n")
}

// SearchResults renders the page matching t.
func SearchResults(res spotify.SearchResults, t spotify.SearchType) string {
	switch t {
	case spotify.SearchAlbum:
		if res.Albums == nil {
			return "No search results returned"
		}
		return joinBlocks(res.Albums.Items, Album)
	case spotify.SearchArtist:
		if res.Artists == nil {
			return "No search results returned"
		}
		return joinBlocks(res.Artists.Items, Artist)
	case spotify.SearchPlaylist:
		if res.Playlists == nil {
			return "No search results returned"
		}
		return joinBlocks(res.Playlists.Items, Playlist)
	default:
		if res.Tracks == nil {
			return "No search results returned"
		}
		return joinBlocks(res.Tracks.Items, Track)
	}
}

// TrackList renders a numbered "artist - title [duration]" list.
func TrackList(tracks []spotify.Track) string {
	var buf bytes.Buffer
	for i, t := range tracks {
		fmt.Fprintf(&buf, "%d. %s - %s [%s]\n", i+1, t.ArtistNames(), t.Name, FormatDuration(t.DurationMS))
	}
	return buf.String()
}

// TracksToCSV converts tracks to CSV with columns: ID, Title, Artist, Album, Duration
func TracksToCSV(tracks []spotify.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Duration"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			track.ID,
			track.Name,
			track.ArtistNames(),
			track.Album.Name,
			strconv.Itoa(track.DurationMS / 1000),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// MarshalJSON encodes v, indented when pretty is set.
func MarshalJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
