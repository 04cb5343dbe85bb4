package database

// migrationsSQL contains all database migrations.
// Migrations are applied in order by version number.
var migrationsSQL = map[int]string{
	1: migrationV1EventTables,
	2: migrationV2ImportLog,
}

// migrationV1EventTables creates the two event tables.
//
// Instants are stored as INTEGER milliseconds since the Unix epoch (UTC) so
// that range scans compare numbers, not strings. Each (instant, kind) pair is
// unique; re-importing the same ephemeris export is a no-op.
const migrationV1EventTables = `
-- ============================================================================
-- Table: lunar_phases
-- ============================================================================
CREATE TABLE IF NOT EXISTS lunar_phases (
    id INTEGER PRIMARY KEY AUTOINCREMENT,

    -- UTC instant, unix milliseconds
    instant INTEGER NOT NULL,

    phase TEXT NOT NULL CHECK (phase IN (
        'new',
        'first-quarter',
        'full',
        'last-quarter'
    )),

    created_at TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE (instant, phase)
);

CREATE INDEX IF NOT EXISTS idx_lunar_phases_instant
    ON lunar_phases(instant);

-- ============================================================================
-- Table: solar_seasons
-- ============================================================================
CREATE TABLE IF NOT EXISTS solar_seasons (
    id INTEGER PRIMARY KEY AUTOINCREMENT,

    -- UTC instant, unix milliseconds
    instant INTEGER NOT NULL,

    season TEXT NOT NULL CHECK (season IN (
        'vernal-equinox',
        'summer-solstice',
        'autumnal-equinox',
        'winter-solstice'
    )),

    created_at TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE (instant, season)
);

CREATE INDEX IF NOT EXISTS idx_solar_seasons_instant
    ON solar_seasons(instant);
`

// migrationV2ImportLog records each import run so coverage can be traced
// back to its source.
const migrationV2ImportLog = `
CREATE TABLE IF NOT EXISTS import_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,

    -- CSV path, or "analytic" for generated events
    source TEXT NOT NULL,

    phases_inserted INTEGER NOT NULL DEFAULT 0,
    seasons_inserted INTEGER NOT NULL DEFAULT 0,

    imported_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`
