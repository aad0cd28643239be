package tools

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/desertthunder/spotify-mcp/internal/services"
	"github.com/desertthunder/spotify-mcp/internal/shared"
)

const (
	ToolPlayback = "SpotifyPlayback"
	ToolSearch   = "SpotifySearch"
	ToolQueue    = "SpotifyQueue"
	ToolGetInfo  = "SpotifyGetInfo"
	ToolAuth     = "SpotifyAuth"

	defaultLimit = 10

	authRequired = "Spotify authentication required. Please use SpotifyAuth tool with 'get_url' action, then follow the URL to authorize."
)

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

func errorResult(text string) *mcp.CallToolResult {
	r := textResult(text)
	r.IsError = true
	return r
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return textResult(string(data)), nil
}

// Option configures a [Dispatcher].
type Option func(*Dispatcher)

// WithDefaultLimit sets the search limit used when a call omits one.
func WithDefaultLimit(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.limit = n
		}
	}
}

// WithLogger sets the dispatcher's logger.
func WithLogger(l *log.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// Dispatcher binds the tools to a [services.Player].
type Dispatcher struct {
	player *services.Player
	logger *log.Logger
	limit  int
	state  string
}

// NewDispatcher builds the tool set over player.
func NewDispatcher(player *services.Player, opts ...Option) (*Dispatcher, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, err
	}

	d := &Dispatcher{player: player, limit: defaultLimit, state: state}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = log.New(io.Discard)
	}
	return d, nil
}

// Tools describes the tools in their fixed order. Input schemas are inferred at registration.
func (d *Dispatcher) Tools() []*mcp.Tool {
	return []*mcp.Tool{
		{
			Name: ToolPlayback,
			Description: "Manages the current playback with the following actions:\n" +
				"- get: Get information about user's current track.\n" +
				"- start: Starts playing new item or resumes current playback if called with no uri.\n" +
				"- pause: Pauses current playback.\n" +
				"- skip: Skips current track.",
		},
		{
			Name: ToolSearch,
			Description: fmt.Sprintf("Search for tracks, albums, artists, playlists, shows, episodes or audiobooks on Spotify. "+
				"Returns up to %d items per category unless limit is given.", d.limit),
		},
		{
			Name:        ToolQueue,
			Description: "Manage the playback queue - get the queue or add tracks.",
		},
		{
			Name:        ToolGetInfo,
			Description: "Get detailed information about a Spotify item (track, album, artist, playlist, show, episode or audiobook).",
		},
		{
			Name: ToolAuth,
			Description: "Manage Spotify OAuth authentication. Use this tool to get a login URL and handle authorization.\n" +
				"- get_url: Generate a Spotify authorization URL to login\n" +
				"- handle_callback: Process the authorization code after successful login",
		},
	}
}

// Register adds every tool to s. All but SpotifyAuth require a stored login.
func (d *Dispatcher) Register(s *mcp.Server) {
	tools := d.Tools()
	mcp.AddTool(s, tools[0], handle(d, tools[0].Name, true, d.playback))
	mcp.AddTool(s, tools[1], handle(d, tools[1].Name, true, d.search))
	mcp.AddTool(s, tools[2], handle(d, tools[2].Name, true, d.queue))
	mcp.AddTool(s, tools[3], handle(d, tools[3].Name, true, d.getInfo))
	mcp.AddTool(s, tools[4], handle(d, tools[4].Name, false, d.auth))
}

// State returns the OAuth state embedded in login URLs produced by the auth tool.
func (d *Dispatcher) State() string { return d.state }

// handle adapts fn to the SDK. A missing login or a handler error is reported in-band with IsError set;
// argument validation failures stay protocol errors.
func handle[In any](d *Dispatcher, name string, guarded bool, fn func(context.Context, In) (*mcp.CallToolResult, error)) mcp.ToolHandlerFor[In, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
		logger := shared.WithLogger(d.logger, "tool", name)
		logger.Info("tool called", "args", in)

		if guarded && !d.player.API().Authenticated() {
			logger.Warn("not authenticated")
			return textResult(authRequired), nil, nil
		}

		result, err := fn(ctx, in)
		if err != nil {
			logger.Error("tool failed", "err", err)
			return failure(err), nil, nil
		}
		return result, nil, nil
	}
}

func failure(err error) *mcp.CallToolResult {
	switch {
	case services.IsAuthError(err):
		return errorResult(fmt.Sprintf("%s (%v)", authRequired, err))
	case errors.Is(err, shared.ErrUpstream):
		return errorResult("An error occurred with the Spotify Client: " + err.Error())
	default:
		return errorResult("Error: " + err.Error())
	}
}
