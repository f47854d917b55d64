// Package app provides the application context and dependency management
// for the sheetsync CLI. It centralizes configuration, dependency injection
// and lifecycle management of the workbook, the mapping store and the source.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/appcontext"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/config"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/metrics"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/sources/fixture"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/sources/httpapi"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/store/postgres"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/store/yamlfile"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/transport"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/workbook"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/errors"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/mapping"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/sources"
	syncer "github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/sync"
)

// App represents the sheetsync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config
	viper  *viper.Viper

	// Logger
	logger *zerolog.Logger

	// Run dependencies (lazy-initialized on the first Service call)
	mu       sync.Mutex
	settings *config.Settings
	book     *workbook.Workbook
	table    mapping.Table
	pg       *postgres.Table
	source   sources.Source
	metrics  *metrics.Metrics
}

var _ appcontext.Interface = (*App)(nil)

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		viper:   viper.New(),
	}

	cfg, err := LoadConfig(app.viper)
	if err != nil {
		return nil, err
	}
	app.config = cfg

	logger := NewLogger(cfg)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Viper returns the viper instance the settings are read from.
func (a *App) Viper() *viper.Viper {
	return a.viper
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the --format value, empty for auto-detection.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Settings returns the validated run settings.
func (a *App) Settings() (*config.Settings, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loadSettings()
}

// Service returns a sync service over the configured workbook, mapping store
// and source. The dependencies are created once and shared by every service.
func (a *App) Service(ctx context.Context, opts ...syncer.Option) (*syncer.Service, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.initialize(ctx); err != nil {
		return nil, err
	}

	base := []syncer.Option{
		syncer.WithLogger(*a.logger),
		syncer.WithDryRun(a.settings.DryRun),
	}
	if a.metrics != nil {
		base = append(base, syncer.WithMetrics(a.metrics))
	}
	return syncer.New(mapping.NewStore(a.table), a.book, a.source, append(base, opts...)...)
}

// Shutdown writes the metrics file and releases the workbook and the
// database pool.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var errs []error
	if a.metrics != nil && a.settings != nil {
		if err := a.metrics.WriteFile(a.settings.MetricsFile); err != nil {
			errs = append(errs, err)
		}
	}
	if a.pg != nil {
		a.pg.Close()
		a.pg = nil
	}
	if a.book != nil {
		if err := a.book.Close(); err != nil {
			errs = append(errs, err)
		}
		a.book = nil
	}
	return errors.Join(errs...)
}

func (a *App) loadSettings() (*config.Settings, error) {
	if a.settings != nil {
		return a.settings, nil
	}
	settings := config.FromViper(a.viper)
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	a.settings = settings
	return settings, nil
}

// initialize creates the run dependencies from the settings. It must be
// called with a.mu held.
func (a *App) initialize(ctx context.Context) error {
	if a.book != nil {
		return nil
	}
	settings, err := a.loadSettings()
	if err != nil {
		return err
	}

	book, err := workbook.Open(settings.Workbook)
	if err != nil {
		return err
	}

	table, err := a.openTable(ctx, settings, book)
	if err != nil {
		_ = book.Close()
		return err
	}

	if settings.MetricsFile != "" && a.metrics == nil {
		m, err := metrics.New()
		if err != nil {
			_ = book.Close()
			return err
		}
		a.metrics = m
	}

	if a.source == nil {
		a.source = a.openSource(settings)
	}

	a.book = book
	a.table = table

	a.logger.Debug().
		Str("workbook", settings.Workbook).
		Str("mapping_store", settings.MappingStore).
		Str("source", settings.Source).
		Msg("Initialized run dependencies")
	return nil
}

func (a *App) openTable(ctx context.Context, settings *config.Settings, book *workbook.Workbook) (mapping.Table, error) {
	switch settings.MappingStore {
	case config.StoreYAML:
		return yamlfile.New(settings.MappingFile), nil
	case config.StorePostgres:
		pg, err := postgres.Open(ctx, settings.PostgresDSN)
		if err != nil {
			return nil, errors.WrapStoreIO("open", "postgres", err)
		}
		a.pg = pg
		return pg, nil
	case config.StoreMemory:
		return mapping.NewMemoryTable(), nil
	default:
		return book.MappingSheet(), nil
	}
}

func (a *App) openSource(settings *config.Settings) sources.Source {
	if settings.Source == config.SourceFixture {
		return fixture.New(settings.FixtureDir)
	}

	api := settings.API
	client := transport.New(
		transport.NewAuthenticator(api.AuthScheme, api.AuthHeader),
		transport.WithAPIKey(settings.APIKey(a.viper)),
		transport.WithTimeout(api.Timeout),
		transport.WithRateLimit(api.RatePerSecond, api.Burst),
		transport.WithUserAgent("sheetsync/"+a.version),
	)
	return httpapi.New(api.BaseURL, client,
		httpapi.WithEndpoints(settings.Resources),
		httpapi.WithMaxPages(api.MaxPages),
	)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithSource sets the data source instead of the configured one (useful for testing).
func WithSource(src sources.Source) Option {
	return func(a *App) error {
		a.source = src
		return nil
	}
}

// WithSetting overrides a single configuration key.
func WithSetting(key string, value any) Option {
	return func(a *App) error {
		a.viper.Set(key, value)
		return nil
	}
}
