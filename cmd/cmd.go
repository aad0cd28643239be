// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

const loginTimeout = 2 * time.Minute

// rootFlags are inherited by every subcommand.
func rootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.StringFlag{
			Name:  "env",
			Usage: "Optional dotenv file with SPOTIFY_* variables",
			Value: ".env",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: json, yaml, plain or csv",
			Value:   "plain",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Override the configured log level (debug, info, warn, error)",
		},
	}
}

// serveCommand runs the tool server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the Spotify tools over MCP (stdio by default)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "http",
				Usage: "Serve MCP over streamable HTTP on this address instead of stdio",
			},
		},
		Action: r.Serve,
	}
}

// authCommand handles the Spotify login.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in through the browser using a local callback server",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the browser callback",
						Value: loginTimeout,
					},
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the authorization URL instead of opening a browser",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "url",
				Usage:  "Print the authorization URL",
				Action: r.AuthURL,
			},
			{
				Name:  "callback",
				Usage: "Complete login with an authorization code",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "code",
						Usage:    "Authorization code from the redirect URL",
						Required: true,
					},
				},
				Action: r.AuthCallback,
			},
			{
				Name:   "status",
				Usage:  "Show the saved login",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Forget the saved login",
				Action: r.AuthLogout,
			},
		},
	}
}

// playbackCommand controls the active player.
func playbackCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playback",
		Aliases: []string{"play"},
		Usage:   "Control Spotify playback",
		Commands: []*cli.Command{
			{
				Name:   "get",
				Usage:  "Show the current track",
				Action: r.PlaybackGet,
			},
			{
				Name:  "start",
				Usage: "Play an item, or resume playback",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "uri",
						Usage: "Spotify URI to play, e.g. spotify:track:<id>",
					},
				},
				Action: r.PlaybackStart,
			},
			{
				Name:   "pause",
				Usage:  "Pause playback",
				Action: r.PlaybackPause,
			},
			{
				Name:  "skip",
				Usage: "Skip to the next track",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"n"},
						Usage:   "Number of tracks to skip",
						Value:   1,
					},
				},
				Action: r.PlaybackSkip,
			},
		},
	}
}

// queueCommand manages the playback queue.
func queueCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "queue",
		Usage: "Show or extend the playback queue",
		Commands: []*cli.Command{
			{
				Name:   "get",
				Usage:  "Show the queue",
				Action: r.QueueGet,
			},
			{
				Name:  "add",
				Usage: "Add a track to the queue",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "track",
						Aliases:  []string{"t"},
						Usage:    "Track ID to enqueue",
						Required: true,
					},
				},
				Action: r.QueueAdd,
			},
		},
	}
}

// searchCommand runs a catalog search.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the Spotify catalog",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "type",
				Usage: "Comma-separated categories: track, artist, album, playlist, show, episode, audiobook",
				Value: "track",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Maximum results per category (defaults to search.default_limit)",
			},
			&cli.StringFlag{Name: "artist", Usage: "Only match this artist"},
			&cli.StringFlag{Name: "track", Usage: "Only match this track name"},
			&cli.StringFlag{Name: "album", Usage: "Only match this album"},
			&cli.StringFlag{Name: "year", Usage: "Only match this release year"},
			&cli.StringFlag{Name: "year-range", Usage: "Only match releases between START-END"},
			&cli.StringFlag{Name: "genre", Usage: "Only match this genre"},
			&cli.BoolFlag{Name: "hipster", Usage: "Only albums with the lowest 10% popularity"},
			&cli.BoolFlag{Name: "new", Usage: "Only albums released in the past two weeks"},
		},
		Action: r.Search,
	}
}

// infoCommand describes one catalog item.
func infoCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Show details for a Spotify URI",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "uri"},
		},
		Action: r.Info,
	}
}

// setupCommand handles setup operations for the config file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write an example config file",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Search and play tracks in an interactive terminal UI",
		Action:  r.TUI,
	}
}
