package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"

	"github.com/desertthunder/spotify-mcp/internal/repositories"
	"github.com/desertthunder/spotify-mcp/internal/services"
	"github.com/desertthunder/spotify-mcp/internal/shared"
)

// Session is the Spotify client plus the login state the auth commands manage.
// [*services.SpotifyService] implements it.
type Session interface {
	services.API
	CurrentToken() *oauth2.Token
	Logout(ctx context.Context) error
}

var _ Session = (*services.SpotifyService)(nil)

// waitFunc runs fn while telling the user what is happening.
type waitFunc func(ctx context.Context, title string, fn func(context.Context) error) error

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	session     Session
	player      *services.Player
	db          *sql.DB
	logger      *log.Logger
	output      io.Writer
	input       io.Reader
	openBrowser func(url string) error
	wait        waitFunc
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config
	ConfigPath  string
	Session     Session
	Logger      *log.Logger
	Output      io.Writer
	Input       io.Reader
	OpenBrowser func(url string) error
}

// NewRunner creates a new Runner with the provided configuration.
//
// Without a Session the Spotify client is built on first use from the loaded config.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}

	r := &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		logger:      opts.Logger,
		output:      opts.Output,
		input:       opts.Input,
		openBrowser: opts.OpenBrowser,
		wait:        spin,
	}
	if opts.Session != nil {
		r.setSession(opts.Session)
	}
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, authCommand, playbackCommand, queueCommand, searchCommand, infoCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) setSession(s Session) {
	r.session = s
	r.player = services.NewPlayer(s, shared.WithLogger(r.logger, "component", "player"))
}

// load reads the config file named by --config, applies the environment and sets the log level.
func (r *Runner) load(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
		config, err := r.loadConfig(path)
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	if err := r.config.ApplyEnv(cmd.String("env")); err != nil {
		return ctx, err
	}

	level := r.config.Log.Level
	if cmd.IsSet("log-level") {
		level = cmd.String("log-level")
	}
	ll, err := shared.ParseLevel(level)
	if err != nil {
		return ctx, err
	}
	shared.SetLogLevel(r.logger, ll)
	return ctx, nil
}

// loadConfig falls back to the defaults without credentials when no file exists at path.
func (r *Runner) loadConfig(path string) (*shared.Config, error) {
	if _, err := os.Stat(path); err != nil {
		r.logger.Debug("config file not found, using defaults", "path", path)
		config := shared.DefaultConfig()
		config.Credentials = shared.CredentialsConfig{}
		return config, nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return config, nil
}

// connect opens the token database and builds the Spotify client, restoring any saved login.
func (r *Runner) connect(ctx context.Context) error {
	if r.session != nil {
		return nil
	}

	creds := r.config.Credentials.Spotify
	if !creds.Valid() {
		return fmt.Errorf("%w: set client_id and client_secret in %s or export %s and %s",
			shared.ErrMissingCredentials, r.configPath, shared.EnvClientID, shared.EnvClientSecret)
	}

	db, err := shared.OpenDatabase(ctx, r.config.Database)
	if err != nil {
		return err
	}
	if err := shared.RunMigrationsContext(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	store := repositories.NewTokenStore(repositories.NewTokenRepository(db), services.TokenProvider)
	svc, err := services.NewSpotifyService(creds,
		services.WithTokenStore(store),
		services.WithMarket(r.config.Search.Market),
		services.WithRateLimit(r.config.Search.RateLimit),
		services.WithServiceLogger(shared.WithLogger(r.logger, "component", "spotify")),
	)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to create Spotify service: %w", err)
	}
	if err := svc.Restore(ctx); err != nil {
		db.Close()
		return err
	}

	r.db = db
	r.setSession(svc)
	return nil
}

// close releases the token database.
func (r *Runner) close(context.Context, *cli.Command) error {
	if r.db == nil {
		return nil
	}
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	r.db = nil
	return nil
}

// render writes v in the format named by --format. plain and csv produce the text renditions;
// a nil csv means the command has no tabular form.
func (r *Runner) render(cmd *cli.Command, v any, plain, csv func() ([]byte, error)) error {
	format := cmd.String("format")
	switch format {
	case "json":
		return r.writeJSON(v, cmd.Bool("pretty"))
	case "yaml":
		return r.writeYAML(v)
	case "", "plain":
		return r.writeRendered(plain)
	case "csv":
		if csv == nil {
			return fmt.Errorf("%w: --format csv is not supported by %s", shared.ErrInvalidFlag, cmd.Name)
		}
		return r.writeRendered(csv)
	default:
		return fmt.Errorf("%w: unknown format %q (json, yaml, plain, csv)", shared.ErrInvalidFlag, format)
	}
}

func (r *Runner) writeRendered(fn func() ([]byte, error)) error {
	data, err := fn()
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

// writeYAML goes through JSON so field names and key order match the JSON output.
func (r *Runner) writeYAML(data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return fmt.Errorf("failed to convert to YAML: %w", err)
	}
	blockStyle(&node)

	output, err := yaml.Marshal(&node)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// blockStyle clears the flow and quoting styles inherited from the JSON source.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// hint points the user at the login command when err is an authentication failure.
func hint(err error) error {
	if err != nil && services.IsAuthError(err) {
		return fmt.Errorf("%w (run `spotify-mcp auth login`)", err)
	}
	return err
}

func spin(ctx context.Context, title string, fn func(context.Context) error) error {
	return spinner.New().Title(title).Context(ctx).ActionWithErr(fn).Run()
}
