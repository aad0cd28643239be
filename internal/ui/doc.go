// Package ui implements an interactive terminal player using bubbletea's Elm architecture.
//
// The TUI has two views:
//  1. [SearchView] : type a query into a text input and press enter
//  2. [ResultsView] : browse matching tracks and control playback
//
// In the results view enter plays the selected track, space pauses, n skips to the next track,
// / starts a new search and q quits. A now-playing line is refreshed after each action.
//
// Work that talks to Spotify runs in tea.Cmd functions and reports back through the Msg union type,
// so the model never blocks. Help is rendered with charmbracelet/bubbles/help.
package ui
