// Package ui implements an interactive playback remote using bubbletea's Elm architecture.
//
// The TUI has three views:
//  1. [RemoteView] : Now playing, with playback controls
//  2. [SearchView] : Query input for a track search
//  3. [ResultsView] : Search results; selecting a track plays it
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Every Spotify call runs inside a [tea.Cmd] so the frame never blocks on the network.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
