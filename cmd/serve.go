package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/desertthunder/spotify-mcp/internal/tools"
)

const shutdownTimeout = 5 * time.Second

// Serve exposes the Spotify tools over stdio, or over HTTP when --http is given.
//
// In stdio mode stdout carries protocol messages only; logs go to stderr.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	logger := shared.WithLogger(r.logger, "component", "tools")
	dispatcher, err := tools.NewDispatcher(r.player,
		tools.WithDefaultLimit(r.config.Search.DefaultLimit),
		tools.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	root := cmd.Root()
	srv := tools.NewServer(dispatcher, tools.ServerInfo{Name: root.Name, Version: root.Version}, logger)

	if cmd.IsSet("http") {
		addr := cmd.String("http")
		if addr == "" {
			addr = r.config.Tools.HTTPAddr
		}
		return r.serveHTTP(ctx, srv, addr)
	}

	r.logger.Info("serving tools on stdio", "tools", len(dispatcher.Tools()), "authenticated", r.session.Authenticated())
	done := make(chan error, 1)
	go func() { done <- srv.ServeStdio(ctx, r.input, r.output) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return nil
	}
}

func (r *Runner) serveHTTP(ctx context.Context, srv *tools.Server, addr string) error {
	e := tools.NewHTTPServer(srv, shared.WithLogger(r.logger, "component", "http"))

	errc := make(chan error, 1)
	go func() { errc <- e.Start(addr) }()
	r.logger.Info("serving tools over HTTP", "addr", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down http server: %w", err)
		}
		return nil
	}
}
