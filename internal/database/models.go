package database

import (
	"database/sql"
	"time"
)

// EventCounts holds the number of stored events per table.
type EventCounts struct {
	Phases  int `json:"phases"`
	Seasons int `json:"seasons"`
}

// Total returns the number of stored events.
func (c EventCounts) Total() int {
	return c.Phases + c.Seasons
}

// EventCoverage describes the instants spanned by the stored events of one
// kind. First and Last are nil when the table is empty.
type EventCoverage struct {
	Count int        `json:"count"`
	First *time.Time `json:"first,omitempty"`
	Last  *time.Time `json:"last,omitempty"`
}

// Coverage reports the spans of both event tables.
type Coverage struct {
	Phases  EventCoverage `json:"phases"`
	Seasons EventCoverage `json:"seasons"`
}

// Covers reports whether both tables hold events spanning [start, end].
func (c Coverage) Covers(start, end time.Time) bool {
	return c.Phases.covers(start, end) && c.Seasons.covers(start, end)
}

func (c EventCoverage) covers(start, end time.Time) bool {
	if c.First == nil || c.Last == nil {
		return false
	}
	return !c.First.After(start) && !c.Last.Before(end)
}

// ImportRecord is one row of the import log.
type ImportRecord struct {
	ID              int64     `json:"id"`
	Source          string    `json:"source"`
	PhasesInserted  int       `json:"phases_inserted"`
	SeasonsInserted int       `json:"seasons_inserted"`
	ImportedAt      time.Time `json:"imported_at"`
}

// -----------------------------------------------------------------
// Instant encoding
// -----------------------------------------------------------------

// toMillis encodes an instant for storage.
func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

// fromMillis decodes a stored instant.
func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// nullMillis decodes an aggregate that may be NULL on an empty table.
func nullMillis(ms sql.NullInt64) *time.Time {
	if !ms.Valid {
		return nil
	}
	t := fromMillis(ms.Int64)
	return &t
}
