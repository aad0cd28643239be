package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/spotify-mcp/internal/formatter"
	"github.com/desertthunder/spotify-mcp/internal/views"
)

var _ list.Item = trackItem{}

// trackItem wraps [views.Track] to implement [list.Item].
type trackItem struct {
	track *views.Track
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string       { return i.track.Name }
func (i trackItem) Description() string {
	desc := formatter.Credits(i.track.Credits())
	if i.track.Album != nil {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album.Name)
	}
	return desc
}

func (i trackItem) URI() string { return "spotify:track:" + i.track.ID }

func newTrackList(title string, tracks []*views.Track, width, height int) list.Model {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{track: t}
	}

	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}
