package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/aerial/internal/formatter"
	"github.com/desertthunder/aerial/internal/spotify"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	RemoteView ViewState = iota
	SearchView
	ResultsView
)

// Remote is the subset of [spotify.Player] the TUI drives.
type Remote interface {
	PlaybackState(ctx context.Context) (spotify.PlaybackState, bool, error)
	Toggle(ctx context.Context) (spotify.PlayingState, error)
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	SetShuffle(ctx context.Context, state bool) error
	Search(ctx context.Context, query string, t spotify.SearchType) (spotify.SearchResults, error)
	Play(ctx context.Context, target spotify.PlayTarget) error
}

var _ Remote = (*spotify.Player)(nil)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	remote  Remote
	width   int
	height  int
	state   spotify.PlaybackState
	active  bool
	status  string
	err     error
	query   textinput.Model
	results list.Model
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model over the given remote.
func NewModel(ctx context.Context, remote Remote) *Model {
	ti := textinput.New()
	ti.Placeholder = "artist, track or album"
	ti.CharLimit = 120

	return &Model{
		ctx:     ctx,
		view:    RemoteView,
		remote:  remote,
		query:   ti,
		results: list.New(nil, list.NewDefaultDelegate(), 0, 0),
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init fetches the current playback state.
func (m *Model) Init() tea.Cmd {
	return m.fetchState()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case RemoteView:
			return m.handleRemoteKeys(msg)
		case SearchView:
			return m.handleSearchKeys(msg)
		case ResultsView:
			return m.handleResultsKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgStateFetched:
		data := msg.data.(stateFetched)
		m.err = data.err
		if data.err == nil {
			m.state = data.state
			m.active = data.active
		}
		return m, nil

	case MsgCommandDone:
		data := msg.data.(commandDone)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		m.status = data.action
		return m, m.fetchState()

	case MsgSearchDone:
		data := msg.data.(searchDone)
		if data.err != nil {
			m.err = data.err
			m.view = RemoteView
			return m, nil
		}
		items := make([]list.Item, len(data.tracks))
		for i, t := range data.tracks {
			items[i] = trackItem{track: t}
		}
		m.results.SetItems(items)
		m.results.Title = fmt.Sprintf("Results for '%s'", data.query)
		m.view = ResultsView
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SearchView:
		return m.renderSearch()
	case ResultsView:
		return m.renderResults()
	default:
		return m.renderRemote()
	}
}

func (m *Model) handleRemoteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggle):
		return m, m.toggle()
	case key.Matches(msg, m.keys.next):
		return m, m.run("Skipped to next track", m.remote.Next)
	case key.Matches(msg, m.keys.prev):
		return m, m.run("Skipped to previous track", m.remote.Previous)
	case key.Matches(msg, m.keys.shuffle):
		return m, m.shuffle(!m.state.ShuffleState)
	case key.Matches(msg, m.keys.refresh):
		return m, m.fetchState()
	case key.Matches(msg, m.keys.search):
		m.view = SearchView
		m.query.SetValue("")
		return m, m.query.Focus()
	}
	return m, nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.query.Blur()
		m.view = RemoteView
		return m, nil
	case tea.KeyEnter:
		q := m.query.Value()
		if q == "" {
			return m, nil
		}
		m.query.Blur()
		return m, m.search(q)
	}

	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	return m, cmd
}

func (m *Model) handleResultsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.results.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = RemoteView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.results.SelectedItem().(trackItem); ok {
			m.view = RemoteView
			return m, m.play(item.track)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) fetchState() tea.Cmd {
	return func() tea.Msg {
		state, active, err := m.remote.PlaybackState(m.ctx)
		return stateFetchedMsg(state, active, err)
	}
}

func (m *Model) run(action string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return commandDoneMsg(action, fn(m.ctx))
	}
}

func (m *Model) toggle() tea.Cmd {
	return func() tea.Msg {
		state, err := m.remote.Toggle(m.ctx)
		return commandDoneMsg(fmt.Sprintf("Playback %s", state), err)
	}
}

func (m *Model) shuffle(state bool) tea.Cmd {
	return m.run(fmt.Sprintf("Shuffle %s", formatter.YesNo(state)), func(ctx context.Context) error {
		return m.remote.SetShuffle(ctx, state)
	})
}

func (m *Model) play(t spotify.Track) tea.Cmd {
	return m.run(fmt.Sprintf("Playing %s - %s", t.ArtistNames(), t.Name), func(ctx context.Context) error {
		return m.remote.Play(ctx, spotify.PlayTarget{TrackID: t.ID})
	})
}

func (m *Model) search(q string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.remote.Search(m.ctx, q, spotify.SearchTrack)
		if err != nil {
			return searchDoneMsg(q, nil, err)
		}
		if res.Tracks == nil || len(res.Tracks.Items) == 0 {
			return searchDoneMsg(q, nil, errors.New("no tracks found"))
		}
		return searchDoneMsg(q, res.Tracks.Items, nil)
	}
}

func (m *Model) renderRemote() string {
	title := styles.title.Render("aerial")

	var body string
	switch {
	case errors.Is(m.err, spotify.ErrNoActiveDevice):
		body = styles.warn.Render("No active device. Start playback in a Spotify app, then press r.")
	case m.err != nil:
		body = styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	case !m.active:
		body = styles.warn.Render("Nothing is playing")
	default:
		body = formatter.PlaybackState(m.state)
		if m.state.Item != nil {
			body += fmt.Sprintf("\n%s / %s", formatter.FormatDuration(m.state.ProgressMS), formatter.FormatDuration(m.state.Item.DurationMS))
		}
		body += fmt.Sprintf("\nShuffle: %s", formatter.YesNo(m.state.ShuffleState))
	}

	var status string
	if m.status != "" && m.err == nil {
		status = "\n\n" + styles.ok.Render(m.status)
	}

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, body, status, m.help.FullHelpView(m.keys.FullHelp()))
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("Search tracks")
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back})
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.query.View(), helpView)
}

func (m *Model) renderResults() string {
	playKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play"))
	helpView := m.help.ShortHelpView([]key.Binding{playKey, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.results.View(), helpView)
}
