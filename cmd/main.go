package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotify-mcp/internal/shared"
)

const version = "0.1.0"

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "spotify-mcp",
		Usage:    "Control Spotify from a tool server, the terminal or a TUI",
		Version:  version,
		Flags:    rootFlags(),
		Before:   r.load,
		After:    r.close,
		Commands: r.register(),
	}
}

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(runner).Run(ctx, os.Args); err != nil {
		stop()
		logger.Fatalf("application error: %v", err)
	}
}
