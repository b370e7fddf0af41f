package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotstats/internal/repositories"
	"github.com/desertthunder/spotstats/internal/services"
	"github.com/desertthunder/spotstats/internal/shared"
	"github.com/desertthunder/spotstats/internal/tasks"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The catalog client and mirror handles are created on first use and released by [Runner.Close].
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer

	catalog  services.Catalog
	db       *sqlx.DB
	fallback *sqlx.DB

	ownsDB       bool
	ownsFallback bool
}

// RunnerOpts contains configuration options for creating a Runner.
//
// When Config is set, the config file and environment are not read.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.Catalog
	DB         *sqlx.DB
	Fallback   *sqlx.DB
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		catalog:    opts.Catalog,
		db:         opts.DB,
		fallback:   opts.Fallback,
	}
}

// SetLogger replaces the runner's logger, e.g. to keep log output away from the TUI.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// before loads configuration for every command: the TOML file when present, then .env, then the environment.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if r.config != nil {
		return ctx, nil
	}

	if r.configPath == "" {
		r.configPath = cmd.String("config")
	}

	config, err := loadConfig(r.configPath, cmd.String("env-file"), r.logger)
	if err != nil {
		return ctx, err
	}
	r.config = config
	return ctx, nil
}

func loadConfig(path, envFile string, logger *log.Logger) (*shared.Config, error) {
	config := shared.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if config, err = shared.LoadConfig(path); err != nil {
			return nil, err
		}
		logger.Debug("loaded config", "path", path)
	} else {
		logger.Debug("config file not found, using defaults", "path", path)
	}

	if envFile != "" {
		if err := shared.LoadEnv(envFile); err != nil {
			return nil, err
		}
	}
	config.ApplyEnv()
	return config, nil
}

// statsEngine returns an engine over the configured catalog, creating the catalog client on first use.
func (r *Runner) statsEngine() (*tasks.StatsEngine, error) {
	if r.catalog == nil {
		if err := r.config.Validate(); err != nil {
			return nil, err
		}

		svc, err := services.NewSpotifyService(r.config.Credentials.Spotify, r.httpClient, r.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Spotify service: %w", err)
		}
		r.catalog = svc
	}
	return tasks.NewStatsEngine(r.catalog, r.logger), nil
}

// mirrorRepository returns a repository over the mirror store for the configured user.
//
// Handles are opened lazily so an unreachable mirror degrades reads instead of failing the command.
func (r *Runner) mirrorRepository() (*repositories.MirrorRepository, error) {
	userID := r.config.Credentials.Spotify.UserID
	if userID == "" {
		return nil, fmt.Errorf("%w: spotify user_id", shared.ErrMissingCredentials)
	}

	if r.db == nil {
		db, err := r.openDatabase(r.config.Database.URL)
		if err != nil {
			return nil, err
		}
		r.db = db
		r.ownsDB = true
	}

	if url := r.config.Database.FallbackURL; r.fallback == nil && url != "" && url != r.config.Database.URL {
		fallback, err := r.openDatabase(url)
		if err != nil {
			return nil, err
		}
		r.fallback = fallback
		r.ownsFallback = true
	}

	return repositories.NewMirrorRepository(r.db, r.fallback, userID, r.logger), nil
}

func (r *Runner) openDatabase(url string) (*sqlx.DB, error) {
	db, err := shared.OpenDatabase(url)
	if err != nil {
		return nil, err
	}
	if url != ":memory:" {
		shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	}
	r.logger.Debug("opened mirror database", "url", url)
	return db, nil
}

// Close releases mirror handles the runner opened.
func (r *Runner) Close() {
	if r.ownsDB && r.db != nil {
		r.db.Close()
		r.db, r.ownsDB = nil, false
	}
	if r.ownsFallback && r.fallback != nil {
		r.fallback.Close()
		r.fallback, r.ownsFallback = nil, false
	}
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

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
