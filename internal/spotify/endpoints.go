package spotify

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/desertthunder/aerial/internal/api"
	"github.com/desertthunder/aerial/internal/shared"
)

// MaxSaveTracks is the most ids PUT me/tracks accepts per call.
const MaxSaveTracks = 50

func Pause() api.Spec[api.NoResponse] {
	return api.Spec[api.NoResponse]{Method: http.MethodPut, Path: "me/player/pause"}
}

func Resume() api.Spec[api.NoResponse] {
	return api.Spec[api.NoResponse]{Method: http.MethodPut, Path: "me/player/play"}
}

func Next() api.Spec[api.NoResponse] {
	return api.Spec[api.NoResponse]{Method: http.MethodPost, Path: "me/player/next"}
}

func Previous() api.Spec[api.NoResponse] {
	return api.Spec[api.NoResponse]{Method: http.MethodPost, Path: "me/player/previous"}
}

func Shuffle(state bool) api.Spec[api.NoResponse] {
	return api.Spec[api.NoResponse]{
		Method: http.MethodPut,
		Path:   "me/player/shuffle",
		Query:  map[string]string{"state": strconv.FormatBool(state)},
	}
}

// PlayBody is the JSON body of PUT me/player/play.
type PlayBody struct {
	URIs       []string    `json:"uris,omitempty"`
	ContextURI string      `json:"context_uri,omitempty"`
	Offset     *PlayOffset `json:"offset,omitempty"`
}

type PlayOffset struct {
	URI string `json:"uri"`
}

// PlayTarget selects what to play: a single track, a context such as "album:ID" or
// "playlist:ID", or a track inside a context.
type PlayTarget struct {
	TrackID string
	Context string
}

var contextKinds = []string{"album", "playlist", "artist"}

// Body builds the play request body for t.
func (t PlayTarget) Body() (PlayBody, error) {
	switch {
	case t.Context != "":
		kind, id, ok := strings.Cut(t.Context, ":")
		if !ok || id == "" || !isContextKind(kind) {
			return PlayBody{}, fmt.Errorf("%w: context %q (want album:<id>, playlist:<id> or artist:<id>)", shared.ErrInvalidArgument, t.Context)
		}

		body := PlayBody{ContextURI: "spotify:" + t.Context}
		if t.TrackID != "" {
			body.Offset = &PlayOffset{URI: TrackURI(t.TrackID)}
		}
		return body, nil
	case t.TrackID != "":
		return PlayBody{URIs: []string{TrackURI(t.TrackID)}}, nil
	default:
		return PlayBody{}, fmt.Errorf("%w: a track id or a context is required", shared.ErrMissingArgument)
	}
}

func isContextKind(kind string) bool {
	for _, k := range contextKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// TrackURI returns the spotify:track URI for id.
func TrackURI(id string) string {
	return "spotify:track:" + id
}

func Play(target PlayTarget) (api.Spec[api.NoResponse], error) {
	body, err := target.Body()
	if err != nil {
		return api.Spec[api.NoResponse]{}, err
	}
	return api.Spec[api.NoResponse]{Method: http.MethodPut, Path: "me/player/play", Body: body}, nil
}

// GetPlaybackState answers with 204 when no device is active, hence the optional response.
func GetPlaybackState() api.Spec[api.Optional[PlaybackState]] {
	return api.Spec[api.Optional[PlaybackState]]{Method: http.MethodGet, Path: "me/player"}
}

func GetCurrentlyPlaying() api.Spec[api.Optional[CurrentlyPlaying]] {
	return api.Spec[api.Optional[CurrentlyPlaying]]{Method: http.MethodGet, Path: "me/player/currently-playing"}
}

func GetDevices() api.Spec[DeviceList] {
	return api.Spec[DeviceList]{Method: http.MethodGet, Path: "me/player/devices"}
}

func Search(query string, types ...SearchType) api.Spec[SearchResults] {
	if len(types) == 0 {
		types = []SearchType{SearchTrack}
	}

	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}

	return api.Spec[SearchResults]{
		Method: http.MethodGet,
		Path:   "search",
		Query:  map[string]string{"q": query, "type": strings.Join(names, ",")},
	}
}

func SaveTracks(ids []string) (api.Spec[api.NoResponse], error) {
	if len(ids) == 0 {
		return api.Spec[api.NoResponse]{}, fmt.Errorf("%w: at least one track id", shared.ErrMissingArgument)
	}
	if len(ids) > MaxSaveTracks {
		return api.Spec[api.NoResponse]{}, fmt.Errorf("%w: at most %d track ids per call, got %d", shared.ErrInvalidArgument, MaxSaveTracks, len(ids))
	}

	return api.Spec[api.NoResponse]{
		Method: http.MethodPut,
		Path:   "me/tracks",
		Body:   map[string][]string{"ids": ids},
	}, nil
}

func GetTopTracks(r TimeRange) api.Spec[Page[Track]] {
	return api.Spec[Page[Track]]{
		Method: http.MethodGet,
		Path:   "me/top/tracks",
		Query:  map[string]string{"time_range": string(r)},
	}
}
