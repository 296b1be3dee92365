package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/aerial/internal/spotify"
)

type fakeRemote struct {
	state   spotify.PlaybackState
	active  bool
	err     error
	calls   []string
	results spotify.SearchResults
	played  spotify.PlayTarget
}

func (f *fakeRemote) record(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeRemote) PlaybackState(context.Context) (spotify.PlaybackState, bool, error) {
	return f.state, f.active, f.record("state")
}

func (f *fakeRemote) Toggle(context.Context) (spotify.PlayingState, error) {
	f.state.IsPlaying = !f.state.IsPlaying
	return spotify.PlayingState(f.state.IsPlaying), f.record("toggle")
}

func (f *fakeRemote) Next(context.Context) error     { return f.record("next") }
func (f *fakeRemote) Previous(context.Context) error { return f.record("prev") }

func (f *fakeRemote) SetShuffle(_ context.Context, state bool) error {
	return f.record(fmt.Sprintf("shuffle=%t", state))
}

func (f *fakeRemote) Search(_ context.Context, q string, _ spotify.SearchType) (spotify.SearchResults, error) {
	return f.results, f.record("search=" + q)
}

func (f *fakeRemote) Play(_ context.Context, target spotify.PlayTarget) error {
	f.played = target
	return f.record("play")
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drive sends msg to the model and feeds every resulting command's message back in.
func drive(t *testing.T, m *Model, msg tea.Msg) *Model {
	t.Helper()
	for msg != nil {
		next, cmd := m.Update(msg)
		m = next.(*Model)
		if cmd == nil {
			return m
		}
		out := cmd()
		if _, ok := out.(Msg); !ok {
			return m
		}
		msg = out
	}
	return m
}

func playing() spotify.PlaybackState {
	return spotify.PlaybackState{
		Device:    spotify.Device{Name: "Desk"},
		IsPlaying: true,
		Item: &spotify.Track{
			Name:       "One More Time",
			DurationMS: 320000,
			Artists:    []spotify.SimplifiedArtist{{Name: "Daft Punk"}},
		},
	}
}

func TestModel(t *testing.T) {
	t.Run("Init", func(t *testing.T) {
		t.Run("loads the playback state", func(t *testing.T) {
			remote := &fakeRemote{state: playing(), active: true}
			m := NewModel(context.Background(), remote)
			m = drive(t, m, m.Init()())

			view := m.View()
			if !strings.Contains(view, "playing on Desk: Daft Punk - One More Time") {
				t.Errorf("view missing playback summary:\n%s", view)
			}
		})

		t.Run("reports an idle player", func(t *testing.T) {
			m := NewModel(context.Background(), &fakeRemote{})
			m = drive(t, m, m.Init()())

			if !strings.Contains(m.View(), "Nothing is playing") {
				t.Errorf("expected idle message, got:\n%s", m.View())
			}
		})

		t.Run("reports a missing device", func(t *testing.T) {
			m := NewModel(context.Background(), &fakeRemote{err: spotify.ErrNoActiveDevice})
			m = drive(t, m, m.Init()())

			if !strings.Contains(m.View(), "No active device") {
				t.Errorf("expected device warning, got:\n%s", m.View())
			}
		})
	})

	t.Run("Controls", func(t *testing.T) {
		tests := []struct {
			name   string
			key    tea.KeyMsg
			want   string
			status string
		}{
			{name: "space toggles", key: tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, want: "toggle", status: "Playback paused"},
			{name: "n skips", key: runes("n"), want: "next", status: "Skipped to next track"},
			{name: "p goes back", key: runes("p"), want: "prev", status: "Skipped to previous track"},
			{name: "s flips shuffle", key: runes("s"), want: "shuffle=true", status: "Shuffle yes"},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				remote := &fakeRemote{state: playing(), active: true}
				m := NewModel(context.Background(), remote)
				m = drive(t, m, tc.key)

				if len(remote.calls) != 2 || remote.calls[0] != tc.want || remote.calls[1] != "state" {
					t.Fatalf("expected [%s state], got %v", tc.want, remote.calls)
				}
				if !strings.Contains(m.View(), tc.status) {
					t.Errorf("expected status %q in view:\n%s", tc.status, m.View())
				}
			})
		}

		t.Run("failed command keeps the error and skips the refresh", func(t *testing.T) {
			remote := &fakeRemote{err: errors.New("boom")}
			m := NewModel(context.Background(), remote)
			m = drive(t, m, runes("n"))

			if len(remote.calls) != 1 {
				t.Errorf("expected a single call, got %v", remote.calls)
			}
			if !strings.Contains(m.View(), "Error: boom") {
				t.Errorf("expected error in view:\n%s", m.View())
			}
		})

		t.Run("q quits", func(t *testing.T) {
			m := NewModel(context.Background(), &fakeRemote{})
			_, cmd := m.Update(runes("q"))
			if cmd == nil {
				t.Fatal("expected quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("expected tea.QuitMsg")
			}
		})
	})

	t.Run("Search", func(t *testing.T) {
		remote := &fakeRemote{
			state:  playing(),
			active: true,
			results: spotify.SearchResults{Tracks: &spotify.Page[spotify.Track]{Items: []spotify.Track{
				{ID: "abc", Name: "Digital Love", Artists: []spotify.SimplifiedArtist{{Name: "Daft Punk"}}},
			}}},
		}
		m := NewModel(context.Background(), remote)
		m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})

		next, _ := m.Update(runes("/"))
		m = next.(*Model)
		if m.view != SearchView {
			t.Fatalf("expected search view, got %v", m.view)
		}

		for _, r := range "daft" {
			next, _ = m.Update(runes(string(r)))
			m = next.(*Model)
		}
		m = drive(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		if m.view != ResultsView {
			t.Fatalf("expected results view, got %v", m.view)
		}
		if remote.calls[0] != "search=daft" {
			t.Errorf("expected search=daft, got %v", remote.calls)
		}

		m = drive(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		if m.view != RemoteView {
			t.Errorf("expected remote view after play, got %v", m.view)
		}
		if remote.played.TrackID != "abc" {
			t.Errorf("expected track abc to play, got %+v", remote.played)
		}
		if !strings.Contains(m.View(), "Playing Daft Punk - Digital Love") {
			t.Errorf("expected play status in view:\n%s", m.View())
		}
	})

	t.Run("empty search returns to the remote", func(t *testing.T) {
		m := NewModel(context.Background(), &fakeRemote{})
		m.view = SearchView
		m.query.SetValue("nothing")
		m = drive(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		if m.view != RemoteView {
			t.Errorf("expected remote view, got %v", m.view)
		}
		if !strings.Contains(m.View(), "no tracks found") {
			t.Errorf("expected error in view:\n%s", m.View())
		}
	})
}
