// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// Fields are populated from environment variables.
type Config struct {
	// Server settings
	Port            int    // HTTP port to listen on
	Env             string // development, staging, production
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration // grace period for in-flight requests

	// Astronomical events
	EphemerisSource string // analytic or database
	DatabasePath    string // SQLite event store, used by the database source
	CacheSize       int    // cached event windows; 0 disables the cache

	// Rate limiting, per client
	RateLimitRPS   float64
	RateLimitBurst int

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Ephemeris sources
const (
	SourceAnalytic = "analytic"
	SourceDatabase = "database"
)

// Load reads configuration from the environment, after merging a .env file
// when one is present. Malformed numbers and durations are errors rather
// than silently replaced by defaults.
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	env := &envReader{}
	cfg := &Config{
		Port:            env.int("PORT", 8080),
		Env:             env.string("ENV", EnvDevelopment),
		WriteTimeout:    env.duration("WRITE_TIMEOUT", 30*time.Second),
		ShutdownTimeout: env.duration("SHUTDOWN_TIMEOUT", 10*time.Second),

		EphemerisSource: env.string("EPHEMERIS_SOURCE", SourceAnalytic),
		DatabasePath:    env.string("DATABASE_PATH", "./data/neoteran.db"),
		CacheSize:       env.int("CACHE_SIZE", 512),

		RateLimitRPS:   env.float("RATE_LIMIT_RPS", 10),
		RateLimitBurst: env.int("RATE_LIMIT_BURST", 20),

		LogLevel:  env.string("LOG_LEVEL", "info"),
		LogFormat: env.string("LOG_FORMAT", "text"),
	}

	if err := errors.Join(env.err(), cfg.Validate()); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that every setting is in range. All problems are reported
// together.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, staging, production; got %q", c.Env))
	}

	if c.WriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("WRITE_TIMEOUT must be positive, got %s", c.WriteTimeout))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout))
	}

	switch c.EphemerisSource {
	case SourceAnalytic:
	case SourceDatabase:
		if c.DatabasePath == "" {
			errs = append(errs, errors.New("DATABASE_PATH is required when EPHEMERIS_SOURCE=database"))
		}
	default:
		errs = append(errs, fmt.Errorf("EPHEMERIS_SOURCE must be one of: analytic, database; got %q", c.EphemerisSource))
	}

	if c.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("CACHE_SIZE must not be negative, got %d", c.CacheSize))
	}

	if c.RateLimitRPS <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS must be positive, got %g", c.RateLimitRPS))
	}
	if c.RateLimitBurst < 1 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST must be at least 1, got %d", c.RateLimitBurst))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// UsesDatabase reports whether events are served from the SQLite store.
func (c *Config) UsesDatabase() bool {
	return c.EphemerisSource == SourceDatabase
}

// envReader reads typed variables, remembering every parse failure.
type envReader struct {
	errs []error
}

func (e *envReader) string(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (e *envReader) int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %q is not an integer", key, v))
		return def
	}
	return n
}

func (e *envReader) float(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %q is not a number", key, v))
		return def
	}
	return f
}

// duration accepts Go durations ("45s", "2m").
func (e *envReader) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %q is not a duration", key, v))
		return def
	}
	return d
}

func (e *envReader) err() error {
	return errors.Join(e.errs...)
}
