package main

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotify-mcp/internal/server"
	"github.com/desertthunder/spotify-mcp/internal/shared"
)

type authStatus struct {
	Authenticated bool       `json:"authenticated"`
	Valid         bool       `json:"valid"`
	Username      string     `json:"username,omitempty"`
	Scope         string     `json:"scope,omitempty"`
	Expiry        *time.Time `json:"expiry,omitempty"`
}

// AuthLogin runs the browser login: a local server receives Spotify's redirect and completes the code exchange.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	state, err := shared.GenerateState()
	if err != nil {
		return err
	}

	redirect, err := url.Parse(r.config.Credentials.Spotify.RedirectURI)
	if err != nil {
		return fmt.Errorf("%w: redirect_uri: %v", shared.ErrInvalidConfig, err)
	}

	handler := server.NewOAuthHandler(r.session.HandleCallback, state, redirect.Path)
	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	callbacks := server.NewCallbackServer(addr, handler, shared.WithLogger(r.logger, "component", "oauth"))
	authURL := r.session.AuthURL(state)

	if cmd.Bool("no-browser") {
		r.writePlain("Open this URL in your browser:\n%s\n\n", authURL)
	} else {
		r.writePlain("→ Opening browser for Spotify authorization...\n")
		if err := r.openBrowser(authURL); err != nil {
			r.logger.Warn("failed to open browser automatically", "error", err)
			r.writePlainln("⚠ Could not open browser automatically.")
			r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
		}
	}

	timeout := cmd.Duration("timeout")
	if timeout <= 0 {
		timeout = loginTimeout
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	title := fmt.Sprintf("Waiting for authorization on %s (%s timeout)...", addr, timeout)
	if err := r.wait(waitCtx, title, callbacks.Wait); err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	return r.writePlain("✓ Authentication successful! You can now use Spotify functions.\n")
}

// AuthURL prints the authorization URL for completing login elsewhere.
func (r *Runner) AuthURL(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	state, err := shared.GenerateState()
	if err != nil {
		return err
	}
	authURL := r.session.AuthURL(state)

	return r.render(cmd, map[string]string{"url": authURL, "state": state}, func() ([]byte, error) {
		return []byte(authURL + "\n"), nil
	}, nil)
}

// AuthCallback completes login with a code copied from the redirect URL.
func (r *Runner) AuthCallback(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	code := cmd.String("code")
	if code == "" {
		return fmt.Errorf("%w: --code", shared.ErrMissingArgument)
	}
	if err := r.session.HandleCallback(ctx, code); err != nil {
		return err
	}
	return r.writePlain("✓ Authentication successful! You can now use Spotify functions.\n")
}

// AuthStatus reports whether a token is saved, whether it is still valid and whom it belongs to.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	status := authStatus{Authenticated: r.session.Authenticated()}
	if tok := r.session.CurrentToken(); tok != nil {
		status.Valid = tok.Valid()
		if !tok.Expiry.IsZero() {
			expiry := tok.Expiry
			status.Expiry = &expiry
		}
		if scope, ok := tok.Extra("scope").(string); ok {
			status.Scope = scope
		}
	}
	if status.Authenticated {
		name, err := r.session.Username(ctx)
		if err != nil {
			r.logger.Warn("failed to look up current user", "error", err)
		}
		status.Username = name
	}

	return r.render(cmd, status, func() ([]byte, error) {
		if !status.Authenticated {
			return []byte("✗ Not authenticated. Run `spotify-mcp auth login`.\n"), nil
		}

		text := "✓ Authenticated"
		if status.Username != "" {
			text += " as " + status.Username
		}
		text += "\n"
		if status.Expiry != nil {
			state := "valid"
			if !status.Valid {
				state = "expired, refreshed on next use"
			}
			text += fmt.Sprintf("Access token: %s (expires %s)\n", state, status.Expiry.Local().Format(time.RFC1123))
		}
		if status.Scope != "" {
			text += "Scopes: " + status.Scope + "\n"
		}
		return []byte(text), nil
	}, nil)
}

// AuthLogout forgets the held token and deletes the saved one.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}
	if err := r.session.Logout(ctx); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	return r.writePlain("✓ Logged out\n")
}
