package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/aerial/internal/api"
	"github.com/desertthunder/aerial/internal/auth"
	"github.com/desertthunder/aerial/internal/cache"
	"github.com/desertthunder/aerial/internal/formatter"
	"github.com/desertthunder/aerial/internal/repositories"
	"github.com/desertthunder/aerial/internal/shared"
	"github.com/desertthunder/aerial/internal/spotify"
	"github.com/desertthunder/aerial/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	store      cache.Store
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	browser    shared.BrowserOpener
	listen     auth.Listener
	now        func() time.Time
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Config is loaded from the --config flag in [Runner.Before]. A nil Store is opened from
// the cache section of the config, and a nil HTTPClient is built from the api section.
type RunnerOpts struct {
	Config     *shared.Config
	Store      cache.Store
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Browser    shared.BrowserOpener
	Listen     auth.Listener
	Now        func() time.Time
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Runner{
		config:     opts.Config,
		store:      opts.Store,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		browser:    opts.Browser,
		listen:     opts.Listen,
		now:        opts.Now,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, musicCommand, toolsSpecCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before applies the global flags and loads the configuration.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	if r.config != nil {
		return ctx, nil
	}
	return ctx, r.loadConfig(cmd.String("config"))
}

// loadConfig reads the config file at path, falling back to defaults when it is missing, then
// applies environment overrides.
func (r *Runner) loadConfig(path string) error {
	config, err := shared.LoadConfig(path)
	switch {
	case errors.Is(err, shared.ErrMissingConfig):
		r.logger.Warn("config file not found, using defaults", "path", path)
		config = shared.DefaultConfig()
	case err != nil:
		return err
	}

	if err := config.ApplyEnv(); err != nil {
		return err
	}
	r.config = config
	return nil
}

func (r *Runner) client() *http.Client {
	if r.httpClient == nil {
		timeout := time.Duration(r.config.API.TimeoutSeconds) * time.Second
		r.httpClient = api.NewHTTPClient(timeout, r.config.API.RequestsPerSecond)
	}
	return r.httpClient
}

// openStore returns the configured token store and a func releasing it.
func (r *Runner) openStore() (cache.Store, func(), error) {
	if r.store != nil {
		return r.store, func() {}, nil
	}

	path := shared.ExpandHome(r.config.Cache.Path)
	switch r.config.Cache.Backend {
	case "", "file":
		return cache.NewFileStore(path, r.logger), func() {}, nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", shared.ErrCacheRead, err)
		}
		db, err := shared.OpenMigrated(path)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", shared.ErrCacheRead, err)
		}
		return repositories.NewTokenRepository(db), func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown cache backend %q", shared.ErrInvalidConfig, r.config.Cache.Backend)
	}
}

// withCache loads the token cache once, runs fn, and saves the cache only when fn succeeds
// and changed it.
func (r *Runner) withCache(fn func(c *cache.Cache) error) error {
	store, release, err := r.openStore()
	if err != nil {
		return err
	}
	defer release()

	c, err := store.Load()
	if err != nil {
		return err
	}

	if err := fn(c); err != nil {
		return err
	}

	if !c.Dirty() {
		return nil
	}
	r.logger.Debug("saving token cache", "entries", len(c.Names()))
	return store.Save(c)
}

// flow builds the authorization flow. Missing credentials fail here, before any network call.
func (r *Runner) flow() (*auth.Flow, error) {
	clientID, clientSecret, err := r.config.SpotifyCredentials()
	if err != nil {
		return nil, err
	}

	sp := r.config.Credentials.Spotify
	return auth.NewFlow(auth.FlowOpts{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		AuthURL:      sp.AuthURL,
		Port:         r.config.Server.Port,
		Scopes:       sp.Scopes,
		Browser:      r.browser,
		Listen:       r.listen,
		HTTPClient:   r.client(),
		Logger:       r.logger,
		Now:          r.now,
	}), nil
}

// withPlayer resolves an authenticated session from the cache and hands fn a player bound to it.
func (r *Runner) withPlayer(ctx context.Context, fn func(ctx context.Context, p *spotify.Player) error) error {
	flow, err := r.flow()
	if err != nil {
		return err
	}

	return r.withCache(func(c *cache.Cache) error {
		session, err := auth.NewSession(ctx, c, flow, r.now)
		if err != nil {
			return err
		}
		if session.Refreshed() {
			r.logger.Debug("access token refreshed", "expires_at", session.Token().ExpiresAt())
		}

		logger := shared.WithLogger(r.logger, "integration", auth.Integration)
		d := api.NewDispatcher(r.config.Credentials.Spotify.APIURL, session, r.client(), logger)
		return fn(ctx, spotify.NewPlayer(d))
	})
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := formatter.MarshalJSON(data, pretty)
	if err != nil {
		return err
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	return r.writePlain(format+"\n", args...)
}

// success writes a status line in the success style.
func (r *Runner) success(format string, args ...any) error {
	return r.writePlainln("%s", ui.Success(fmt.Sprintf(format, args...)))
}

// warn writes a status line in the warning style.
func (r *Runner) warn(format string, args ...any) error {
	return r.writePlainln("%s", ui.Warning(fmt.Sprintf(format, args...)))
}
