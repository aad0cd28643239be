package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	submit key.Binding
	play   key.Binding
	pause  key.Binding
	skip   key.Binding
	search key.Binding
	cancel key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		play:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		pause:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		skip:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.play, k.pause, k.skip, k.search, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.play},
		{k.pause, k.skip},
		{k.search, k.quit},
	}
}
