package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/desertthunder/aerial/internal/api"
)

var ErrNoActiveDevice = fmt.Errorf("there is no active Spotify device")

// UnwantedStateError is returned when a command would not change the playing state.
type UnwantedStateError struct {
	State PlayingState
}

func (e *UnwantedStateError) Error() string {
	return fmt.Sprintf("action can't be performed when music is %s", e.State)
}

// Player sends playback commands through a dispatcher.
type Player struct {
	d *api.Dispatcher
}

func NewPlayer(d *api.Dispatcher) *Player {
	return &Player{d: d}
}

// PlaybackState returns the current playback state and false when no device is active.
func (p *Player) PlaybackState(ctx context.Context) (PlaybackState, bool, error) {
	res, err := api.Dispatch(ctx, p.d, GetPlaybackState())
	if err != nil {
		return PlaybackState{}, false, classify(err)
	}
	state, ok := res.Get()
	return state, ok, nil
}

func (p *Player) playingState(ctx context.Context) (PlayingState, error) {
	state, ok, err := p.PlaybackState(ctx)
	if err != nil {
		return Paused, err
	}
	if !ok {
		return Paused, ErrNoActiveDevice
	}
	return PlayingState(state.IsPlaying), nil
}

func (p *Player) verifyActiveDevice(ctx context.Context) error {
	_, err := p.playingState(ctx)
	return err
}

func (p *Player) verifyPlayingState(ctx context.Context, want PlayingState) error {
	state, err := p.playingState(ctx)
	if err != nil {
		return err
	}
	if state != want {
		return &UnwantedStateError{State: state}
	}
	return nil
}

// Toggle pauses when playing and resumes otherwise, returning the new state.
func (p *Player) Toggle(ctx context.Context) (PlayingState, error) {
	state, err := p.playingState(ctx)
	if err != nil {
		return Paused, err
	}

	if state == Playing {
		return Paused, p.send(ctx, Pause())
	}
	return Playing, p.send(ctx, Resume())
}

// Pause fails with [*UnwantedStateError] when already paused.
func (p *Player) Pause(ctx context.Context) error {
	if err := p.verifyPlayingState(ctx, Playing); err != nil {
		return err
	}
	return p.send(ctx, Pause())
}

// Resume fails with [*UnwantedStateError] when already playing.
func (p *Player) Resume(ctx context.Context) error {
	if err := p.verifyPlayingState(ctx, Paused); err != nil {
		return err
	}
	return p.send(ctx, Resume())
}

func (p *Player) Play(ctx context.Context, target PlayTarget) error {
	spec, err := Play(target)
	if err != nil {
		return err
	}
	if err := p.verifyActiveDevice(ctx); err != nil {
		return err
	}
	return p.send(ctx, spec)
}

func (p *Player) Next(ctx context.Context) error {
	if err := p.verifyActiveDevice(ctx); err != nil {
		return err
	}
	return p.send(ctx, Next())
}

func (p *Player) Previous(ctx context.Context) error {
	if err := p.verifyActiveDevice(ctx); err != nil {
		return err
	}
	return p.send(ctx, Previous())
}

func (p *Player) SetShuffle(ctx context.Context, state bool) error {
	if err := p.verifyActiveDevice(ctx); err != nil {
		return err
	}
	return p.send(ctx, Shuffle(state))
}

// CurrentTrack returns what is playing; false means the device is idle.
func (p *Player) CurrentTrack(ctx context.Context) (CurrentlyPlaying, bool, error) {
	if err := p.verifyActiveDevice(ctx); err != nil {
		return CurrentlyPlaying{}, false, err
	}

	res, err := api.Dispatch(ctx, p.d, GetCurrentlyPlaying())
	if err != nil {
		return CurrentlyPlaying{}, false, classify(err)
	}

	cur, ok := res.Get()
	if !ok || cur.Item == nil {
		return cur, false, nil
	}
	return cur, true, nil
}

func (p *Player) Devices(ctx context.Context) ([]Device, error) {
	res, err := api.Dispatch(ctx, p.d, GetDevices())
	if err != nil {
		return nil, classify(err)
	}
	return res.Devices, nil
}

func (p *Player) Search(ctx context.Context, query string, t SearchType) (SearchResults, error) {
	res, err := api.Dispatch(ctx, p.d, Search(query, t))
	if err != nil {
		return SearchResults{}, classify(err)
	}
	return res, nil
}

func (p *Player) SaveTracks(ctx context.Context, ids []string) error {
	spec, err := SaveTracks(ids)
	if err != nil {
		return err
	}
	return p.send(ctx, spec)
}

func (p *Player) TopTracks(ctx context.Context, r TimeRange) (Page[Track], error) {
	res, err := api.Dispatch(ctx, p.d, GetTopTracks(r))
	if err != nil {
		return Page[Track]{}, classify(err)
	}
	return res, nil
}

func (p *Player) send(ctx context.Context, spec api.Spec[api.NoResponse]) error {
	_, err := api.Dispatch(ctx, p.d, spec)
	return classify(err)
}

// classify maps a 404 NO_ACTIVE_DEVICE response onto [ErrNoActiveDevice], keeping the status error
// in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var statusErr *api.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound && statusErr.HasReason("NO_ACTIVE_DEVICE") {
		return fmt.Errorf("%w: %w", ErrNoActiveDevice, err)
	}
	return err
}
