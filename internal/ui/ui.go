package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/spotify-mcp/internal/formatter"
	"github.com/desertthunder/spotify-mcp/internal/search"
	"github.com/desertthunder/spotify-mcp/internal/services"
	"github.com/desertthunder/spotify-mcp/internal/views"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SearchView ViewState = iota
	ResultsView
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	defaultLimit  = 10
)

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	player     *services.Player
	limit      int
	width      int
	height     int
	input      textinput.Model
	results    list.Model
	searching  bool
	nowPlaying string
	status     string
	err        error
	help       help.Model
	keys       keyMap
}

// NewModel creates a TUI model that searches for up to limit tracks per query.
func NewModel(ctx context.Context, player *services.Player, limit int) *Model {
	if limit < 1 {
		limit = defaultLimit
	}

	input := textinput.New()
	input.Placeholder = "artist, track or album"
	input.Prompt = "> "
	input.CharLimit = 256
	input.Focus()

	return &Model{
		ctx:        ctx,
		view:       SearchView,
		player:     player,
		limit:      limit,
		width:      defaultWidth,
		height:     defaultHeight,
		input:      input,
		nowPlaying: formatter.NowPlaying(nil),
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init starts the cursor blinking and loads the current track.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.refresh())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 8
		if m.view == ResultsView {
			m.results.SetSize(m.listSize())
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SearchView:
			return m.handleSearchKeys(msg)
		case ResultsView:
			return m.handleResultsKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateView(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("spotify-mcp"))
	b.WriteString("\n")
	b.WriteString(styles.playing.Render("♪ " + m.nowPlaying))
	b.WriteString("\n\n")

	switch m.view {
	case SearchView:
		b.WriteString(m.renderSearch())
	case ResultsView:
		b.WriteString(m.results.View())
	}

	b.WriteString("\n\n")
	switch {
	case m.err != nil:
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(styles.ok.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.renderHelp())
	return b.String()
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancel):
		return m, tea.Quit
	case key.Matches(msg, m.keys.submit):
		query := strings.TrimSpace(m.input.Value())
		if query == "" || m.searching {
			return m, nil
		}
		m.searching = true
		m.err = nil
		m.status = ""
		return m, m.search(query)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleResultsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		m.view = SearchView
		m.status = ""
		m.err = nil
		m.input.Reset()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.play):
		if item, ok := m.results.SelectedItem().(trackItem); ok {
			return m, m.play(item)
		}
		return m, nil
	case key.Matches(msg, m.keys.pause):
		return m, m.action("Playback paused.", m.player.Pause)
	case key.Matches(msg, m.keys.skip):
		return m, m.action("Skipped to next track.", func(ctx context.Context) error {
			return m.player.Skip(ctx, 1)
		})
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSearchDone:
		res := msg.data.(searchResult)
		m.searching = false
		if res.err != nil {
			m.err = res.err
			return m, nil
		}
		width, height := m.listSize()
		m.results = newTrackList(fmt.Sprintf("Results for '%s'", res.query), res.tracks, width, height)
		m.view = ResultsView
		m.input.Blur()
		m.status = fmt.Sprintf("%d tracks found", len(res.tracks))
		return m, nil

	case MsgActionDone:
		res := msg.data.(actionResult)
		m.err = res.err
		if res.err == nil {
			m.status = res.status
		}
		return m, m.refresh()

	case MsgNowPlaying:
		res := msg.data.(nowPlayingResult)
		if res.err != nil {
			m.nowPlaying = styles.warn.Render("playback state unavailable")
			return m, nil
		}
		m.nowPlaying = formatter.NowPlaying(res.track)
		return m, nil
	}
	return m, nil
}

func (m *Model) updateView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case SearchView:
		m.input, cmd = m.input.Update(msg)
	case ResultsView:
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

func (m *Model) search(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := m.player.Search(m.ctx, query, search.Filters{}, "track", m.limit)
		if err != nil {
			return searchDoneMsg(query, nil, err)
		}

		items, _ := results.Get("tracks")
		tracks := make([]*views.Track, 0, len(items))
		for _, item := range items {
			if t, ok := item.(*views.Track); ok {
				tracks = append(tracks, t)
			}
		}
		return searchDoneMsg(query, tracks, nil)
	}
}

func (m *Model) play(item trackItem) tea.Cmd {
	return m.action("Playing "+formatter.TrackLine(item.track), func(ctx context.Context) error {
		return m.player.Start(ctx, item.URI())
	})
}

func (m *Model) action(status string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg(status, fn(m.ctx))
	}
}

func (m *Model) refresh() tea.Cmd {
	return func() tea.Msg {
		track, err := m.player.CurrentTrack(m.ctx)
		return nowPlayingMsg(track, err)
	}
}

func (m *Model) listSize() (int, int) {
	return max(m.width-4, 20), max(m.height-10, 5)
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("Search tracks")
	body := m.input.View()
	if m.searching {
		body += "\n" + styles.help.Render("Searching...")
	}
	return fmt.Sprintf("%s\n%s", title, body)
}

func (m *Model) renderHelp() string {
	if m.view == SearchView {
		return m.help.ShortHelpView([]key.Binding{m.keys.submit, m.keys.cancel})
	}
	return m.help.View(m.keys)
}

// Run starts the TUI on the alternate screen and blocks until the user quits.
func Run(ctx context.Context, player *services.Player, limit int) error {
	p := tea.NewProgram(NewModel(ctx, player, limit), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
