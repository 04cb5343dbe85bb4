package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zapponejosh/neoteran-api/internal/astro"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrNotFound is returned when a requested record doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidEvent is returned when an event carries an unknown kind.
	ErrInvalidEvent = errors.New("invalid event")
)

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}

// DB serves stored events to the calendar.
var _ astro.Provider = (*DB)(nil)

// =============================================================================
// Event Reads
// =============================================================================

// LunarPhaseEvents returns stored phase events with start <= instant < end,
// ordered by instant.
func (db *DB) LunarPhaseEvents(ctx context.Context, start, end time.Time) ([]astro.PhaseEvent, error) {
	query := `
		SELECT instant, phase
		FROM lunar_phases
		WHERE instant >= ? AND instant < ?
		ORDER BY instant ASC
	`

	rows, err := db.QueryContext(ctx, query, toMillis(start), toMillis(end))
	if err != nil {
		return nil, fmt.Errorf("query lunar phases: %w", err)
	}
	defer rows.Close()

	var events []astro.PhaseEvent
	for rows.Next() {
		var ms int64
		var name string
		if err := rows.Scan(&ms, &name); err != nil {
			return nil, fmt.Errorf("scan lunar phase row: %w", err)
		}
		phase, err := astro.ParsePhase(name)
		if err != nil {
			return nil, fmt.Errorf("lunar phase at %d: %w", ms, err)
		}
		events = append(events, astro.PhaseEvent{Time: fromMillis(ms), Phase: phase})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lunar phase rows: %w", err)
	}

	return events, nil
}

// SolarSeasonEvents returns stored season events with start <= instant < end,
// ordered by instant.
func (db *DB) SolarSeasonEvents(ctx context.Context, start, end time.Time) ([]astro.SeasonEvent, error) {
	query := `
		SELECT instant, season
		FROM solar_seasons
		WHERE instant >= ? AND instant < ?
		ORDER BY instant ASC
	`

	rows, err := db.QueryContext(ctx, query, toMillis(start), toMillis(end))
	if err != nil {
		return nil, fmt.Errorf("query solar seasons: %w", err)
	}
	defer rows.Close()

	var events []astro.SeasonEvent
	for rows.Next() {
		var ms int64
		var name string
		if err := rows.Scan(&ms, &name); err != nil {
			return nil, fmt.Errorf("scan solar season row: %w", err)
		}
		season, err := astro.ParseSeason(name)
		if err != nil {
			return nil, fmt.Errorf("solar season at %d: %w", ms, err)
		}
		events = append(events, astro.SeasonEvent{Time: fromMillis(ms), Season: season})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate solar season rows: %w", err)
	}

	return events, nil
}

// =============================================================================
// Event Writes
// =============================================================================

// InsertPhaseEvents stores phase events, skipping any already present.
// Returns the number of rows inserted.
//
// This is IDEMPOTENT - re-importing the same export inserts nothing.
func (tx *Tx) InsertPhaseEvents(ctx context.Context, events []astro.PhaseEvent) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO lunar_phases (instant, phase) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare phase insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, e := range events {
		if !e.Phase.IsValid() {
			return inserted, fmt.Errorf("%w: phase %d at %s", ErrInvalidEvent, int(e.Phase), e.Time.UTC().Format(time.RFC3339))
		}
		res, err := stmt.ExecContext(ctx, toMillis(e.Time), e.Phase.String())
		if err != nil {
			return inserted, fmt.Errorf("insert phase event: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("check rows affected: %w", err)
		}
		inserted += int(n)
	}

	return inserted, nil
}

// InsertSeasonEvents stores season events, skipping any already present.
// Returns the number of rows inserted.
func (tx *Tx) InsertSeasonEvents(ctx context.Context, events []astro.SeasonEvent) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO solar_seasons (instant, season) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare season insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, e := range events {
		if !e.Season.IsValid() {
			return inserted, fmt.Errorf("%w: season %d at %s", ErrInvalidEvent, int(e.Season), e.Time.UTC().Format(time.RFC3339))
		}
		res, err := stmt.ExecContext(ctx, toMillis(e.Time), e.Season.String())
		if err != nil {
			return inserted, fmt.Errorf("insert season event: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("check rows affected: %w", err)
		}
		inserted += int(n)
	}

	return inserted, nil
}

// RecordImport appends a row to the import log.
func (tx *Tx) RecordImport(ctx context.Context, source string, phases, seasons int) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO import_log (source, phases_inserted, seasons_inserted) VALUES (?, ?, ?)`,
		source, phases, seasons,
	)
	if err != nil {
		return fmt.Errorf("record import: %w", err)
	}
	return nil
}

// =============================================================================
// Statistics
// =============================================================================

// CountEvents returns the number of stored events per table.
//
// Used by the health check and the import summary.
func (db *DB) CountEvents(ctx context.Context) (*EventCounts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM lunar_phases) AS phases,
			(SELECT COUNT(*) FROM solar_seasons) AS seasons
	`

	var counts EventCounts
	if err := db.QueryRowContext(ctx, query).Scan(&counts.Phases, &counts.Seasons); err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	return &counts, nil
}

// EventCoverage returns the earliest and latest stored instant per table.
func (db *DB) EventCoverage(ctx context.Context) (*Coverage, error) {
	var cov Coverage

	for _, table := range []struct {
		name string
		dest *EventCoverage
	}{
		{"lunar_phases", &cov.Phases},
		{"solar_seasons", &cov.Seasons},
	} {
		// Table names come from the fixed list above.
		query := fmt.Sprintf(`SELECT COUNT(*), MIN(instant), MAX(instant) FROM %s`, table.name)

		var first, last sql.NullInt64
		if err := db.QueryRowContext(ctx, query).Scan(&table.dest.Count, &first, &last); err != nil {
			return nil, fmt.Errorf("query %s coverage: %w", table.name, err)
		}
		table.dest.First = nullMillis(first)
		table.dest.Last = nullMillis(last)
	}

	return &cov, nil
}

// LastImport returns the most recent import log entry.
// Returns ErrNotFound if nothing has been imported.
func (db *DB) LastImport(ctx context.Context) (*ImportRecord, error) {
	query := `
		SELECT id, source, phases_inserted, seasons_inserted, imported_at
		FROM import_log
		ORDER BY id DESC
		LIMIT 1
	`

	var rec ImportRecord
	var importedAt string
	err := db.QueryRowContext(ctx, query).Scan(
		&rec.ID,
		&rec.Source,
		&rec.PhasesInserted,
		&rec.SeasonsInserted,
		&importedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query last import: %w", err)
	}

	// SQLite datetime('now') format, always UTC
	if t, err := time.Parse("2006-01-02 15:04:05", importedAt); err == nil {
		rec.ImportedAt = t
	}

	return &rec, nil
}
