package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/desertthunder/spotify-mcp/internal/ui"
)

// TUI launches the interactive terminal player.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/spotify-mcp-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.logger = fileLogger

	if err := r.connect(ctx); err != nil {
		return err
	}
	if !r.session.Authenticated() {
		return fmt.Errorf("%w: run `spotify-mcp auth login` first", shared.ErrNotAuthenticated)
	}

	return ui.Run(ctx, r.player, r.config.Search.DefaultLimit)
}
