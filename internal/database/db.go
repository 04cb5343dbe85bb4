// Package database stores precomputed lunar phase and solar season events in
// SQLite and serves them as an astronomical event provider.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// =============================================================================
// Database Connection
// =============================================================================

// DB is an open event store.
type DB struct {
	*sql.DB
	logger *slog.Logger
	path   string
}

// Config holds event store connection options.
type Config struct {
	Path         string        // SQLite file, or ":memory:"
	BusyTimeout  time.Duration // how long a locked database is retried
	MaxOpenConns int           // SQLite serialises writers; 1 avoids "database is locked"

	// ConnMaxLifetime recycles connections. Zero keeps them forever, which
	// an in-memory database requires.
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns the settings used by the server and the importer.
func DefaultConfig(path string) Config {
	cfg := Config{
		Path:            path,
		BusyTimeout:     5 * time.Second,
		MaxOpenConns:    1,
		ConnMaxLifetime: time.Hour,
	}
	if cfg.inMemory() {
		cfg.ConnMaxLifetime = 0
	}
	return cfg
}

func (c Config) inMemory() bool {
	return c.Path == ":memory:"
}

// dsn builds the go-sqlite3 connection string. File databases run in WAL
// mode so API reads proceed while an import writes.
func (c Config) dsn() string {
	params := url.Values{}
	params.Set("_busy_timeout", fmt.Sprint(c.BusyTimeout.Milliseconds()))
	params.Set("_foreign_keys", "ON")
	if !c.inMemory() {
		params.Set("_journal_mode", "WAL")
	}
	return c.Path + "?" + params.Encode()
}

// Open connects to the event store, creating its directory if needed.
// Call Migrate before use and Close when done.
func Open(cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("open database: empty path")
	}
	if cfg.MaxOpenConns < 1 {
		cfg.MaxOpenConns = 1
	}

	if !cfg.inMemory() {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	sqlDB, err := sql.Open("sqlite3", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("event store opened", slog.String("path", cfg.Path))

	return &DB{DB: sqlDB, logger: logger, path: cfg.Path}, nil
}

// Close closes the event store.
func (db *DB) Close() error {
	db.logger.Debug("closing event store", slog.String("path", db.path))
	return db.DB.Close()
}

// Health verifies the connection and that every migration has been applied.
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	version, err := db.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("database health: %w", err)
	}
	if latest := latestVersion(); version != latest {
		return fmt.Errorf("database health: schema at version %d, want %d", version, latest)
	}
	return nil
}

// SchemaVersion returns the highest applied migration, 0 for a fresh file.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var version sql.NullInt64
	err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&version)
	if err != nil {
		// schema_migrations does not exist until the first Migrate.
		if isNoSuchTable(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("query schema version: %w", err)
	}
	return int(version.Int64), nil
}

// =============================================================================
// Migrations
// =============================================================================

const createMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL DEFAULT (datetime('now'))
)`

// Migrate applies pending migrations in version order inside one
// transaction and returns how many ran. Migrations only move forward.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	count := 0
	err := db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx, createMigrationsTable); err != nil {
			return fmt.Errorf("create schema_migrations table: %w", err)
		}

		applied, err := tx.appliedVersions(ctx)
		if err != nil {
			return err
		}

		for _, version := range migrationVersions() {
			if applied[version] {
				continue
			}

			db.logger.InfoContext(ctx, "applying migration", slog.Int("version", version))

			if _, err := tx.ExecContext(ctx, migrationsSQL[version]); err != nil {
				return fmt.Errorf("execute migration %d: %w", version, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
				return fmt.Errorf("record migration %d: %w", version, err)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	db.logger.DebugContext(ctx, "migrations complete",
		slog.Int("applied", count),
		slog.Int("total", len(migrationsSQL)),
	)
	return count, nil
}

func (tx *Tx) appliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := tx.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scan migration version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func isNoSuchTable(err error) bool {
	return strings.Contains(err.Error(), "no such table")
}

func migrationVersions() []int {
	versions := make([]int, 0, len(migrationsSQL))
	for v := range migrationsSQL {
		versions = append(versions, v)
	}
	sort.Ints(versions)
	return versions
}

func latestVersion() int {
	versions := migrationVersions()
	if len(versions) == 0 {
		return 0
	}
	return versions[len(versions)-1]
}

// =============================================================================
// Transaction Helpers
// =============================================================================

// Tx is an event store transaction. Writes happen only through Tx.
type Tx struct {
	*sql.Tx
}

// WithTx runs fn in a transaction, committing when it returns nil and
// rolling back on error or panic.
//
//	err := db.WithTx(ctx, func(tx *database.Tx) error {
//	    _, err := tx.InsertPhaseEvents(ctx, phases)
//	    return err
//	})
func (db *DB) WithTx(ctx context.Context, fn func(*Tx) error) error {
	sqlTx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	tx := &Tx{sqlTx}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
