package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/desertthunder/spotify-mcp/internal/search"
	"github.com/desertthunder/spotify-mcp/internal/shared"
)

func (d *Dispatcher) playback(ctx context.Context, args PlaybackArgs) (*mcp.CallToolResult, error) {
	switch action := strings.TrimSpace(args.Action); action {
	case "get":
		track, err := d.player.CurrentTrack(ctx)
		if err != nil {
			return nil, err
		}
		if track == nil {
			return textResult("No track playing."), nil
		}
		return jsonResult(track)
	case "start":
		if err := d.player.Start(ctx, strings.TrimSpace(args.SpotifyURI)); err != nil {
			return nil, err
		}
		return textResult("Playback starting."), nil
	case "pause":
		if err := d.player.Pause(ctx); err != nil {
			return nil, err
		}
		return textResult("Playback paused."), nil
	case "skip":
		n := 1
		if args.NumSkips != nil {
			n = *args.NumSkips
		}
		if n < 1 {
			return nil, fmt.Errorf("%w: num_skips must be at least 1", shared.ErrInvalidArgument)
		}
		if err := d.player.Skip(ctx, n); err != nil {
			return nil, err
		}
		return textResult("Skipped to next track."), nil
	case "":
		return nil, fmt.Errorf("%w: action", shared.ErrMissingArgument)
	default:
		return errorResult(fmt.Sprintf("Unknown playback action: %s. Supported actions are: get, start, pause, skip.", action)), nil
	}
}

func (d *Dispatcher) search(ctx context.Context, args SearchArgs) (*mcp.CallToolResult, error) {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return nil, fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}
	qtype := strings.TrimSpace(args.QType)
	if qtype == "" {
		qtype = "track"
	}
	limit := d.limit
	if args.Limit != nil {
		limit = *args.Limit
	}
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be at least 1", shared.ErrInvalidArgument)
	}

	filters, err := searchFilters(args)
	if err != nil {
		return nil, err
	}

	results, err := d.player.Search(ctx, query, filters, qtype, limit)
	if err != nil {
		return nil, err
	}
	return jsonResult(results)
}

func searchFilters(args SearchArgs) (search.Filters, error) {
	f := search.Filters{
		Artist:  strings.TrimSpace(args.Artist),
		Track:   strings.TrimSpace(args.Track),
		Album:   strings.TrimSpace(args.Album),
		Year:    strings.TrimSpace(args.Year),
		Genre:   strings.TrimSpace(args.Genre),
		Hipster: args.Hipster,
		New:     args.New,
	}
	switch {
	case args.YearStart == nil && args.YearEnd == nil:
	case args.YearStart == nil || args.YearEnd == nil:
		return f, fmt.Errorf("%w: year_start and year_end must be given together", shared.ErrInvalidArgument)
	default:
		f.YearRange = &search.YearRange{Start: *args.YearStart, End: *args.YearEnd}
	}
	return f, nil
}

func (d *Dispatcher) queue(ctx context.Context, args QueueArgs) (*mcp.CallToolResult, error) {
	switch action := strings.TrimSpace(args.Action); action {
	case "add":
		trackID := strings.TrimSpace(args.TrackID)
		if trackID == "" {
			return errorResult("track_id is required for add action"), nil
		}
		if err := d.player.AddToQueue(ctx, trackID); err != nil {
			return nil, err
		}
		return textResult("Track added to queue."), nil
	case "get":
		q, err := d.player.Queue(ctx)
		if err != nil {
			return nil, err
		}
		return jsonResult(q)
	case "":
		return nil, fmt.Errorf("%w: action", shared.ErrMissingArgument)
	default:
		return errorResult(fmt.Sprintf("Unknown queue action: %s. Supported actions are: add, get.", action)), nil
	}
}

func (d *Dispatcher) getInfo(ctx context.Context, args GetInfoArgs) (*mcp.CallToolResult, error) {
	uri := strings.TrimSpace(args.ItemURI)
	if uri == "" {
		return nil, fmt.Errorf("%w: item_uri", shared.ErrMissingArgument)
	}
	info, err := d.player.Info(ctx, uri)
	if err != nil {
		return nil, err
	}
	return jsonResult(info)
}

func (d *Dispatcher) auth(ctx context.Context, args AuthArgs) (*mcp.CallToolResult, error) {
	switch action := strings.TrimSpace(args.Action); action {
	case "get_url":
		url := d.player.API().AuthURL(d.state)
		d.logger.Info("auth URL generated", "tool", ToolAuth)
		return textResult("Please use this Spotify Authentication URL to authorize the application: " + url), nil
	case "handle_callback":
		code := strings.TrimSpace(args.Code)
		if code == "" {
			return errorResult("Error: Authorization code is required for callback handling."), nil
		}
		if err := d.player.API().HandleCallback(ctx, code); err != nil {
			return errorResult("Authentication error: " + err.Error()), nil
		}
		return textResult("Authentication successful! You can now use Spotify functions."), nil
	case "":
		return nil, fmt.Errorf("%w: action", shared.ErrMissingArgument)
	default:
		return errorResult(fmt.Sprintf("Unknown auth action: %s. Supported actions are: get_url, handle_callback.", action)), nil
	}
}
