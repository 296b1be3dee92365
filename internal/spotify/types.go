package spotify

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/desertthunder/aerial/internal/shared"
)

// SimplifiedArtist is the artist stub embedded in tracks and albums.
type SimplifiedArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Artist represents a Spotify artist.
type Artist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
	URI    string   `json:"uri"`
}

// Album represents a simplified Spotify album.
type Album struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name"`
	AlbumType            string             `json:"album_type"`
	TotalTracks          int                `json:"total_tracks"`
	Artists              []SimplifiedArtist `json:"artists"`
	ReleaseDate          string             `json:"release_date"`
	ReleaseDatePrecision string             `json:"release_date_precision"`
	URI                  string             `json:"uri"`
}

// Track represents a Spotify track.
type Track struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Album      Album              `json:"album"`
	Artists    []SimplifiedArtist `json:"artists"`
	DurationMS int                `json:"duration_ms"`
	URI        string             `json:"uri"`
}

// ArtistNames joins the track's artist names with ", ".
func (t Track) ArtistNames() string {
	return joinArtists(t.Artists)
}

// ArtistNames joins the album's artist names with ", ".
func (a Album) ArtistNames() string {
	return joinArtists(a.Artists)
}

func joinArtists(artists []SimplifiedArtist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

type owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Playlist represents a simplified Spotify playlist.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
	Owner       owner  `json:"owner"`
	URI         string `json:"uri"`
}

// Context is the album, playlist or artist a track is being played from.
type Context struct {
	Type         string            `json:"type"`
	URI          string            `json:"uri"`
	Href         string            `json:"href"`
	ExternalURLs map[string]string `json:"external_urls"`
}

// Device is a Spotify Connect device.
type Device struct {
	ID            *string `json:"id"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	IsActive      bool    `json:"is_active"`
	VolumePercent *int    `json:"volume_percent"`
}

// PlaybackState is the body of GET me/player.
type PlaybackState struct {
	Device       Device `json:"device"`
	IsPlaying    bool   `json:"is_playing"`
	ShuffleState bool   `json:"shuffle_state"`
	RepeatState  string `json:"repeat_state"`
	ProgressMS   int    `json:"progress_ms"`
	Item         *Track `json:"item"`
}

// CurrentlyPlaying is the body of GET me/player/currently-playing.
type CurrentlyPlaying struct {
	Item      *Track   `json:"item"`
	Context   *Context `json:"context"`
	IsPlaying bool     `json:"is_playing"`
}

// Page is a Spotify paging object. Null entries in items are dropped while decoding.
type Page[T any] struct {
	Href     string  `json:"href"`
	Items    []T     `json:"items"`
	Total    int     `json:"total"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

func (p *Page[T]) UnmarshalJSON(data []byte) error {
	var raw struct {
		Href     string  `json:"href"`
		Items    []*T    `json:"items"`
		Total    int     `json:"total"`
		Limit    int     `json:"limit"`
		Offset   int     `json:"offset"`
		Next     *string `json:"next"`
		Previous *string `json:"previous"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	items := make([]T, 0, len(raw.Items))
	for _, item := range raw.Items {
		if item != nil {
			items = append(items, *item)
		}
	}

	*p = Page[T]{
		Href:     raw.Href,
		Items:    items,
		Total:    raw.Total,
		Limit:    raw.Limit,
		Offset:   raw.Offset,
		Next:     raw.Next,
		Previous: raw.Previous,
	}
	return nil
}

// SearchResults is the body of GET search. Only the pages for the requested types are set.
type SearchResults struct {
	Tracks    *Page[Track]    `json:"tracks"`
	Albums    *Page[Album]    `json:"albums"`
	Artists   *Page[Artist]   `json:"artists"`
	Playlists *Page[Playlist] `json:"playlists"`
}

// DeviceList is the body of GET me/player/devices.
type DeviceList struct {
	Devices []Device `json:"devices"`
}

// PlayingState is whether the active device is playing or paused.
type PlayingState bool

const (
	Paused  PlayingState = false
	Playing PlayingState = true
)

func (s PlayingState) String() string {
	if s == Playing {
		return "playing"
	}
	return "paused"
}

// SearchType is the kind of item a search returns.
type SearchType string

const (
	SearchTrack    SearchType = "track"
	SearchAlbum    SearchType = "album"
	SearchArtist   SearchType = "artist"
	SearchPlaylist SearchType = "playlist"
)

// SearchTypes lists the accepted search types.
var SearchTypes = []SearchType{SearchTrack, SearchAlbum, SearchArtist, SearchPlaylist}

// ParseSearchType validates s. An empty string means [SearchTrack].
func ParseSearchType(s string) (SearchType, error) {
	if s == "" {
		return SearchTrack, nil
	}
	for _, t := range SearchTypes {
		if string(t) == strings.ToLower(s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: search type %q (want track, album, artist or playlist)", shared.ErrInvalidArgument, s)
}

// TimeRange is the window used to compute a user's top items.
type TimeRange string

const (
	ShortTerm  TimeRange = "short_term"  // about 4 weeks
	MediumTerm TimeRange = "medium_term" // about 6 months
	LongTerm   TimeRange = "long_term"   // about 1 year
)

// ParseTimeRange accepts short, medium or long, or the API names. An empty string means [MediumTerm].
func ParseTimeRange(s string) (TimeRange, error) {
	switch strings.ToLower(s) {
	case "", "medium", string(MediumTerm):
		return MediumTerm, nil
	case "short", string(ShortTerm):
		return ShortTerm, nil
	case "long", string(LongTerm):
		return LongTerm, nil
	default:
		return "", fmt.Errorf("%w: time range %q (want short, medium or long)", shared.ErrInvalidArgument, s)
	}
}
