package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/spotify-mcp/internal/views"
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
	MsgSearchDone MsgKind = iota
	MsgActionDone
	MsgNowPlaying
)

type searchResult struct {
	query  string
	tracks []*views.Track
	err    error
}

type actionResult struct {
	status string
	err    error
}

type nowPlayingResult struct {
	track *views.Track
	err   error
}

// searchDoneMsg is the constructor for [MsgSearchDone]
func searchDoneMsg(query string, tracks []*views.Track, err error) Msg {
	return Msg{kind: MsgSearchDone, data: searchResult{query, tracks, err}}
}

// actionDoneMsg is the constructor for [MsgActionDone]
func actionDoneMsg(status string, err error) Msg {
	return Msg{kind: MsgActionDone, data: actionResult{status, err}}
}

// nowPlayingMsg is the constructor for [MsgNowPlaying]
func nowPlayingMsg(track *views.Track, err error) Msg {
	return Msg{kind: MsgNowPlaying, data: nowPlayingResult{track, err}}
}
