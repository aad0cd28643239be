package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotify-mcp/internal/formatter"
	"github.com/desertthunder/spotify-mcp/internal/search"
	"github.com/desertthunder/spotify-mcp/internal/shared"
)

func text(s string) func() ([]byte, error) {
	return func() ([]byte, error) { return []byte(s + "\n"), nil }
}

// PlaybackGet shows the current track.
func (r *Runner) PlaybackGet(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	track, err := r.player.CurrentTrack(ctx)
	if err != nil {
		return hint(err)
	}
	return r.render(cmd, track, text(formatter.NowPlaying(track)), nil)
}

// PlaybackStart plays --uri, or resumes playback without one.
func (r *Runner) PlaybackStart(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	uri := strings.TrimSpace(cmd.String("uri"))
	r.logger.Debug("starting playback", "uri", uri)
	if err := r.player.Start(ctx, uri); err != nil {
		return hint(err)
	}
	return r.writePlain("Playback starting.\n")
}

// PlaybackPause pauses playback.
func (r *Runner) PlaybackPause(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	if err := r.player.Pause(ctx); err != nil {
		return hint(err)
	}
	return r.writePlain("Playback paused.\n")
}

// PlaybackSkip skips --count tracks.
func (r *Runner) PlaybackSkip(ctx context.Context, cmd *cli.Command) error {
	count := cmd.Int("count")
	if count < 1 {
		return fmt.Errorf("%w: --count must be at least 1", shared.ErrInvalidFlag)
	}
	if err := r.connect(ctx); err != nil {
		return err
	}

	if err := r.player.Skip(ctx, count); err != nil {
		return hint(err)
	}
	return r.writePlain("Skipped to next track.\n")
}

// QueueGet shows the current track and what plays next.
func (r *Runner) QueueGet(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	q, err := r.player.Queue(ctx)
	if err != nil {
		return hint(err)
	}
	return r.render(cmd, q,
		func() ([]byte, error) { return formatter.Queue(q), nil },
		func() ([]byte, error) { return formatter.TracksToCSV(q.Queue) },
	)
}

// QueueAdd appends --track to the queue.
func (r *Runner) QueueAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	if err := r.player.AddToQueue(ctx, strings.TrimSpace(cmd.String("track"))); err != nil {
		return hint(err)
	}
	return r.writePlain("Track added to queue.\n")
}

// Search runs the query argument through the catalog with the field filters from flags.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	filters, err := searchFilters(cmd)
	if err != nil {
		return err
	}

	limit := cmd.Int("limit")
	if !cmd.IsSet("limit") {
		limit = r.config.Search.DefaultLimit
	}
	if limit < 1 {
		return fmt.Errorf("%w: --limit must be at least 1", shared.ErrInvalidFlag)
	}

	if err := r.connect(ctx); err != nil {
		return err
	}

	results, err := r.player.Search(ctx, query, filters, cmd.String("type"), limit)
	if err != nil {
		return hint(err)
	}
	return r.render(cmd, results,
		func() ([]byte, error) { return formatter.Results(results) },
		func() ([]byte, error) { return formatter.ResultsToCSV(results) },
	)
}

func searchFilters(cmd *cli.Command) (search.Filters, error) {
	filters := search.Filters{
		Artist:  strings.TrimSpace(cmd.String("artist")),
		Track:   strings.TrimSpace(cmd.String("track")),
		Album:   strings.TrimSpace(cmd.String("album")),
		Year:    strings.TrimSpace(cmd.String("year")),
		Genre:   strings.TrimSpace(cmd.String("genre")),
		Hipster: cmd.Bool("hipster"),
		New:     cmd.Bool("new"),
	}

	if raw := strings.TrimSpace(cmd.String("year-range")); raw != "" {
		yr, err := search.ParseYearRange(raw)
		if err != nil {
			return filters, err
		}
		filters.YearRange = yr
	}
	return filters, nil
}

// Info shows the detailed view of the item named by the uri argument.
func (r *Runner) Info(ctx context.Context, cmd *cli.Command) error {
	uri := strings.TrimSpace(cmd.StringArg("uri"))
	if uri == "" {
		return fmt.Errorf("%w: uri", shared.ErrMissingArgument)
	}
	if err := r.connect(ctx); err != nil {
		return err
	}

	item, err := r.player.Info(ctx, uri)
	if err != nil {
		return hint(err)
	}
	return r.render(cmd, item, func() ([]byte, error) { return formatter.Info(item) }, nil)
}
