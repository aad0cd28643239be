package tools

import (
	"context"
	"encoding/json"
	"net/url"
	"slices"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/desertthunder/spotify-mcp/internal/models"
	"github.com/desertthunder/spotify-mcp/internal/services"
	"github.com/desertthunder/spotify-mcp/internal/shared"
	tu "github.com/desertthunder/spotify-mcp/internal/testing"
)

type session struct {
	*mcp.ClientSession
	d *Dispatcher
}

// connect serves the tools over an in-memory transport and returns a connected client.
func connect(t *testing.T, api *tu.MockAPI, opts ...Option) *session {
	t.Helper()
	ctx := context.Background()

	d, err := NewDispatcher(services.NewPlayer(api, nil), opts...)
	if err != nil {
		t.Fatalf("failed to create dispatcher: %v", err)
	}
	s := NewServer(d, ServerInfo{Name: "spotify-mcp", Version: "test"}, nil)

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	ss, err := s.MCP().Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("failed to connect server: %v", err)
	}
	t.Cleanup(func() { ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("failed to connect client: %v", err)
	}
	t.Cleanup(func() { cs.Close() })

	return &session{ClientSession: cs, d: d}
}

func (s *session) call(name string, args map[string]any) (*mcp.CallToolResult, error) {
	if args == nil {
		args = map[string]any{}
	}
	return s.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
}

func text(r *mcp.CallToolResult) string {
	if r == nil {
		return ""
	}
	parts := make([]string, 0, len(r.Content))
	for _, c := range r.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// rejected reports whether a call failed, either at argument validation or in-band.
func rejected(r *mcp.CallToolResult, err error) bool {
	return err != nil || r.IsError
}

func TestRegistry(t *testing.T) {
	cs := connect(t, tu.NewMockAPI())

	var names []string
	for _, tool := range cs.d.Tools() {
		names = append(names, tool.Name)
	}
	want := []string{"SpotifyPlayback", "SpotifySearch", "SpotifyQueue", "SpotifyGetInfo", "SpotifyAuth"}
	if !slices.Equal(names, want) {
		t.Errorf("tools = %v, want %v", names, want)
	}

	res, err := cs.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("failed to list tools: %v", err)
	}

	required := map[string]string{
		ToolPlayback: `"action"`,
		ToolSearch:   `"query"`,
		ToolQueue:    `"action"`,
		ToolGetInfo:  `"item_uri"`,
		ToolAuth:     `"action"`,
	}
	var listed []string
	for _, tool := range res.Tools {
		listed = append(listed, tool.Name)

		schema, err := json.Marshal(tool.InputSchema)
		if err != nil {
			t.Fatalf("failed to encode schema: %v", err)
		}
		if !strings.Contains(string(schema), `"type":"object"`) {
			t.Errorf("%s schema should be an object: %s", tool.Name, schema)
		}
		if !strings.Contains(string(schema), `"required":[`+required[tool.Name]+`]`) {
			t.Errorf("%s schema should require %s: %s", tool.Name, required[tool.Name], schema)
		}
	}
	slices.Sort(listed)
	slices.Sort(want)
	if !slices.Equal(listed, want) {
		t.Errorf("listed tools = %v, want %v", listed, want)
	}
}

func TestDispatch(t *testing.T) {
	t.Run("Unknown Tool", func(t *testing.T) {
		if _, err := connect(t, tu.NewMockAPI()).call("SpotifyLyrics", nil); err == nil {
			t.Error("expected an error for an unknown tool")
		}
	})

	t.Run("Not Authenticated", func(t *testing.T) {
		api := tu.NewMockAPI()
		api.SetAuthenticated(false)
		cs := connect(t, api)

		calls := map[string]map[string]any{
			ToolPlayback: {"action": "get"},
			ToolSearch:   {"query": "x"},
			ToolQueue:    {"action": "get"},
			ToolGetInfo:  {"item_uri": "spotify:track:t1"},
		}
		for name, args := range calls {
			r, err := cs.call(name, args)
			if err != nil || r.IsError || !strings.Contains(text(r), "SpotifyAuth") {
				t.Errorf("%s: expected login hint, got %+v %v", name, r, err)
			}
		}
		if len(api.Called()) != 0 {
			t.Errorf("no API calls should be made, got %v", api.Called())
		}

		r, err := cs.call(ToolAuth, map[string]any{"action": "get_url"})
		if err != nil || r.IsError || !strings.Contains(text(r), "state="+cs.d.State()) {
			t.Errorf("auth tool should work while logged out, got %+v %v", r, err)
		}
	})

	t.Run("Upstream Error", func(t *testing.T) {
		api := tu.NewMockAPI()
		api.Fail = shared.ErrUpstream
		r, err := connect(t, api).call(ToolQueue, map[string]any{"action": "get"})
		if err != nil || !r.IsError || !strings.HasPrefix(text(r), "An error occurred with the Spotify Client") {
			t.Errorf("unexpected result %+v %v", r, err)
		}
	})

	t.Run("Expired Login", func(t *testing.T) {
		api := tu.NewMockAPI()
		api.Valid = false
		api.RefreshErr = shared.ErrRefreshFailed
		r, err := connect(t, api).call(ToolPlayback, map[string]any{"action": "pause"})
		if err != nil || !r.IsError || !strings.Contains(text(r), "authentication required") {
			t.Errorf("unexpected result %+v %v", r, err)
		}
	})
}

func TestPlaybackTool(t *testing.T) {
	t.Run("Get Without Track", func(t *testing.T) {
		r, err := connect(t, tu.NewMockAPI()).call(ToolPlayback, map[string]any{"action": "get"})
		if err != nil || r.IsError || text(r) != "No track playing." {
			t.Errorf("unexpected result %+v %v", r, err)
		}
	})

	t.Run("Get Current Track", func(t *testing.T) {
		api := tu.NewMockAPI()
		api.Playing = &models.CurrentlyPlaying{IsPlaying: true, CurrentlyPlayingType: "track", Item: tu.Track("t1", "Song", "Band")}

		r, err := connect(t, api).call(ToolPlayback, map[string]any{"action": "get"})
		if err != nil || r.IsError {
			t.Fatalf("unexpected error result %+v %v", r, err)
		}
		for _, want := range []string{`"name": "Song"`, `"is_playing": true`, `"artist": "Band"`} {
			if !strings.Contains(text(r), want) {
				t.Errorf("expected %s in %s", want, text(r))
			}
		}
	})

	tests := []struct {
		name     string
		args     map[string]any
		wantText string
		wantCall string
		wantErr  bool
	}{
		{
			name:     "Start",
			args:     map[string]any{"action": "start", "spotify_uri": "spotify:album:al1"},
			wantText: "Playback starting.",
			wantCall: "start_playback spotify:album:al1 device=",
		},
		{
			name:     "Resume",
			args:     map[string]any{"action": "start"},
			wantText: "Playback starting.",
			wantCall: "start_playback  device=",
		},
		{
			name:     "Pause",
			args:     map[string]any{"action": "pause"},
			wantText: "Playback paused.",
			wantCall: "pause_playback device=",
		},
		{
			name:     "Skip Default",
			args:     map[string]any{"action": "skip"},
			wantText: "Skipped to next track.",
			wantCall: "skip_track 1 device=",
		},
		{
			name:     "Skip Count",
			args:     map[string]any{"action": "skip", "num_skips": 3},
			wantText: "Skipped to next track.",
			wantCall: "skip_track 3 device=",
		},
		{name: "Skip Zero", args: map[string]any{"action": "skip", "num_skips": 0}, wantErr: true},
		{name: "Skip Fraction", args: map[string]any{"action": "skip", "num_skips": 1.5}, wantErr: true},
		{name: "Unknown Action", args: map[string]any{"action": "rewind"}, wantErr: true},
		{name: "Empty Action", args: map[string]any{"action": " "}, wantErr: true},
		{name: "Missing Action", args: map[string]any{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := tu.NewMockAPI()
			r, err := connect(t, api).call(ToolPlayback, tt.args)

			if tt.wantErr {
				if !rejected(r, err) {
					t.Errorf("expected the call to be rejected, got %+v", r)
				}
				return
			}
			if err != nil || r.IsError || text(r) != tt.wantText {
				t.Errorf("result = %+v %v, want %q", r, err, tt.wantText)
			}
			if calls := api.Called(); len(calls) == 0 || calls[len(calls)-1] != tt.wantCall {
				t.Errorf("calls = %q, want last %q", calls, tt.wantCall)
			}
		})
	}
}

func TestSearchTool(t *testing.T) {
	t.Run("Filters And Limit", func(t *testing.T) {
		api := tu.NewMockAPI()
		api.SearchResult = &models.SearchResponse{Tracks: tu.Page(tu.Track("t1", "Song", "Band"))}

		r, err := connect(t, api).call(ToolSearch, map[string]any{
			"query":      "love",
			"limit":      3,
			"artist":     "Band",
			"year_start": 2000,
			"year_end":   2010,
			"hipster":    true,
		})
		if err != nil || r.IsError {
			t.Fatalf("unexpected error result %+v %v", r, err)
		}

		decoded, err := url.PathUnescape(api.LastQuery)
		if err != nil {
			t.Fatalf("query should be percent-encoded: %v", err)
		}
		if decoded != "love artist:Band year:2000-2010 tag:hipster" {
			t.Errorf("unexpected query %q", decoded)
		}
		if api.LastSelector != "track" || api.LastLimit != 3 {
			t.Errorf("expected default type and explicit limit, got %q %d", api.LastSelector, api.LastLimit)
		}
		if !strings.Contains(text(r), `"tracks"`) {
			t.Errorf("expected tracks in %s", text(r))
		}
	})

	t.Run("Default Limit", func(t *testing.T) {
		api := tu.NewMockAPI()
		cs := connect(t, api, WithDefaultLimit(7))
		if _, err := cs.call(ToolSearch, map[string]any{"query": "x", "qtype": "album"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if api.LastLimit != 7 || api.LastSelector != "album" {
			t.Errorf("unexpected limit %d selector %q", api.LastLimit, api.LastSelector)
		}
	})

	t.Run("In-Band Failures", func(t *testing.T) {
		tests := []struct {
			name string
			args map[string]any
			want string
		}{
			{name: "Blank Query", args: map[string]any{"query": "  "}, want: "missing required argument"},
			{name: "Unknown Category", args: map[string]any{"query": "x", "qtype": "track,podcast"}, want: "unknown search category"},
			{name: "Half Year Range", args: map[string]any{"query": "x", "year_start": 2000}, want: "year_start and year_end"},
			{name: "Zero Limit", args: map[string]any{"query": "x", "limit": 0}, want: "limit must be at least 1"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				r, err := connect(t, tu.NewMockAPI()).call(ToolSearch, tt.args)
				if err != nil || !r.IsError || !strings.Contains(text(r), tt.want) {
					t.Errorf("expected error containing %q, got %+v %v", tt.want, r, err)
				}
			})
		}
	})

	t.Run("Invalid Arguments", func(t *testing.T) {
		tests := []struct {
			name string
			args map[string]any
		}{
			{name: "Missing Query", args: map[string]any{}},
			{name: "Bad Limit", args: map[string]any{"query": "x", "limit": "many"}},
			{name: "Bad Flag", args: map[string]any{"query": "x", "new": "sometimes"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				api := tu.NewMockAPI()
				if _, err := connect(t, api).call(ToolSearch, tt.args); err == nil {
					t.Error("expected the arguments to fail validation")
				}
				if api.LastQuery != "" {
					t.Errorf("no search should be sent, got %q", api.LastQuery)
				}
			})
		}
	})
}

func TestQueueTool(t *testing.T) {
	t.Run("Add", func(t *testing.T) {
		cs := connect(t, tu.NewMockAPI())

		r, err := cs.call(ToolQueue, map[string]any{"action": "add"})
		if err != nil || !r.IsError || text(r) != "track_id is required for add action" {
			t.Errorf("unexpected result %+v %v", r, err)
		}

		r, err = cs.call(ToolQueue, map[string]any{"action": "add", "track_id": "t1"})
		if err != nil || r.IsError || text(r) != "Track added to queue." {
			t.Errorf("unexpected result %+v %v", r, err)
		}
	})

	t.Run("Get", func(t *testing.T) {
		api := tu.NewMockAPI()
		api.QueueResult = &models.Queue{CurrentlyPlaying: tu.Track("t1", "Now", "A"), Queue: []*models.Track{tu.Track("t2", "Next", "B")}}

		r, err := connect(t, api).call(ToolQueue, map[string]any{"action": "get"})
		if err != nil || r.IsError || !strings.Contains(text(r), `"currently_playing"`) || !strings.Contains(text(r), `"Next"`) {
			t.Errorf("unexpected result %+v %v", r, err)
		}
	})

	t.Run("Unknown Action", func(t *testing.T) {
		r, err := connect(t, tu.NewMockAPI()).call(ToolQueue, map[string]any{"action": "remove"})
		if err != nil || !r.IsError || !strings.HasPrefix(text(r), "Unknown queue action: remove") {
			t.Errorf("unexpected result %+v %v", r, err)
		}
	})
}

func TestGetInfoTool(t *testing.T) {
	api := tu.NewMockAPI()
	api.Items["album:al1"] = tu.Album("al1", "Record", "Band")
	cs := connect(t, api)

	r, err := cs.call(ToolGetInfo, map[string]any{"item_uri": "spotify:album:al1"})
	if err != nil || r.IsError || !strings.Contains(text(r), `"Record"`) {
		t.Errorf("unexpected result %+v %v", r, err)
	}

	r, err = cs.call(ToolGetInfo, map[string]any{"item_uri": "album:al1"})
	if err != nil || !r.IsError || !strings.Contains(text(r), "invalid item uri") {
		t.Errorf("unexpected result %+v %v", r, err)
	}

	if r, err := cs.call(ToolGetInfo, nil); !rejected(r, err) {
		t.Errorf("expected the call to be rejected, got %+v", r)
	}
}

func TestAuthTool(t *testing.T) {
	api := tu.NewMockAPI()
	api.SetAuthenticated(false)
	cs := connect(t, api)

	r, err := cs.call(ToolAuth, map[string]any{"action": "handle_callback"})
	if err != nil || !r.IsError || !strings.Contains(text(r), "Authorization code is required") {
		t.Errorf("unexpected result %+v %v", r, err)
	}

	r, err = cs.call(ToolAuth, map[string]any{"action": "handle_callback", "code": "abc"})
	if err != nil || r.IsError || !strings.HasPrefix(text(r), "Authentication successful") {
		t.Errorf("unexpected result %+v %v", r, err)
	}
	if !api.Authenticated() {
		t.Error("callback should log the client in")
	}

	r, err = cs.call(ToolAuth, map[string]any{"action": "logout"})
	if err != nil || !r.IsError || !strings.HasPrefix(text(r), "Unknown auth action: logout") {
		t.Errorf("unexpected result %+v %v", r, err)
	}
}
