// Package ephemeris assembles the astronomical event provider selected by
// configuration.
package ephemeris

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zapponejosh/neoteran-api/internal/astro"
	"github.com/zapponejosh/neoteran-api/internal/config"
	"github.com/zapponejosh/neoteran-api/internal/database"
)

// Source is an opened event provider plus the resources behind it.
type Source struct {
	Provider astro.Provider

	// Name is "analytic" or "database".
	Name string

	// DB is the event store, nil for the analytic source.
	DB *database.DB

	// Cache wraps the underlying provider, nil when caching is disabled.
	Cache *astro.CachedProvider
}

// Options selects and tunes a source.
type Options struct {
	Source       string // config.SourceAnalytic or config.SourceDatabase
	DatabasePath string
	CacheSize    int // 0 disables caching
}

// OptionsFromConfig extracts source options from application config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Source:       cfg.EphemerisSource,
		DatabasePath: cfg.DatabasePath,
		CacheSize:    cfg.CacheSize,
	}
}

// Open builds the provider described by opts. The caller must Close the
// returned source.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (*Source, error) {
	if logger == nil {
		logger = slog.Default()
	}

	src := &Source{Name: opts.Source}

	switch opts.Source {
	case config.SourceAnalytic, "":
		src.Name = config.SourceAnalytic
		src.Provider = astro.NewAnalytic()

	case config.SourceDatabase:
		db, err := database.Open(database.DefaultConfig(opts.DatabasePath), logger)
		if err != nil {
			return nil, fmt.Errorf("open event store: %w", err)
		}
		if _, err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate event store: %w", err)
		}

		counts, err := db.CountEvents(ctx)
		if err != nil {
			db.Close()
			return nil, err
		}
		if counts.Total() == 0 {
			logger.Warn("event store is empty, conversions will fail until events are imported",
				slog.String("path", opts.DatabasePath),
			)
		}

		src.DB = db
		src.Provider = db

	default:
		return nil, fmt.Errorf("unknown ephemeris source %q", opts.Source)
	}

	if opts.CacheSize > 0 {
		src.Cache = astro.NewCachedProvider(src.Provider, opts.CacheSize)
		src.Provider = src.Cache
	}

	logger.Info("ephemeris ready",
		slog.String("source", src.Name),
		slog.Int("cache_size", opts.CacheSize),
	)

	return src, nil
}

// Health checks the resources behind the source.
func (s *Source) Health(ctx context.Context) error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Health(ctx)
}

// Close releases the event store, if any.
func (s *Source) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
