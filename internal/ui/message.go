package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/aerial/internal/spotify"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgStateFetched MsgKind = iota
	MsgCommandDone
	MsgSearchDone
)

type stateFetched struct {
	state  spotify.PlaybackState
	active bool
	err    error
}

type commandDone struct {
	action string
	err    error
}

type searchDone struct {
	query  string
	tracks []spotify.Track
	err    error
}

// stateFetchedMsg is the constructor for [MsgStateFetched]
func stateFetchedMsg(state spotify.PlaybackState, active bool, err error) Msg {
	return Msg{kind: MsgStateFetched, data: stateFetched{state, active, err}}
}

// commandDoneMsg is the constructor for [MsgCommandDone]
func commandDoneMsg(action string, err error) Msg {
	return Msg{kind: MsgCommandDone, data: commandDone{action, err}}
}

// searchDoneMsg is the constructor for [MsgSearchDone]
func searchDoneMsg(query string, tracks []spotify.Track, err error) Msg {
	return Msg{kind: MsgSearchDone, data: searchDone{query, tracks, err}}
}
