package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/zapponejosh/neoteran-api/internal/astro"
)

const (
	// Roster lengths: the year's conjunctions plus the first of the next year.
	OrdinaryRosterLen = 13
	LeapRosterLen     = 14

	matchTolerance = time.Hour
	// enumeration starts just after C01 so it is not listed twice.
	enumerationGap = time.Minute
)

// Roster lists the conjunctions of one Neoteran year in order. The first
// entry governs month 01; the last is the first conjunction of the next year.
type Roster struct {
	Anchor       time.Time
	Conjunctions []time.Time
}

// Len returns the number of entries, 13 for an ordinary year and 14 for a
// leap year.
func (r Roster) Len() int {
	return len(r.Conjunctions)
}

// IsLeap reports whether the year has an intercalary month.
func (r Roster) IsLeap() bool {
	return r.Len() == LeapRosterLen
}

// ID returns the identifier of entry i: "C01".."C13", or "N01" for the last.
func (r Roster) ID(i int) string {
	if i == r.Len()-1 {
		return "N01"
	}
	return fmt.Sprintf("C%02d", i+1)
}

// Find returns the index of the entry within an hour of conj.
func (r Roster) Find(conj time.Time) (int, bool) {
	for i, c := range r.Conjunctions {
		if absDuration(c.Sub(conj)) < matchTolerance {
			return i, true
		}
	}
	return -1, false
}

// Ordinal returns the month number that conj governs. A match on the final
// N01 entry is month 1 of the next year.
//
// When conj matches no entry the ordinal is estimated from the days elapsed
// since C01 and exact is false. The estimate is an approximation; callers
// must surface it as such.
func (r Roster) Ordinal(conj time.Time) (ordinal int, exact bool) {
	if i, ok := r.Find(conj); ok {
		if i == r.Len()-1 {
			return 1, true
		}
		return i + 1, true
	}

	if r.Len() == 0 {
		return 1, false
	}
	days := floorDays(conj.Sub(r.Conjunctions[0]))
	ordinal = days/28 + 1
	return min(max(ordinal, 1), 13), false
}

// landmarkID returns the "Cnn" identifier matching conj, or "" when conj is
// not one of the year's own entries.
func (r Roster) landmarkID(conj time.Time) string {
	i, ok := r.Find(conj)
	if !ok || i == r.Len()-1 {
		return ""
	}
	return r.ID(i)
}

// EnumerateYear lists the conjunctions of the year anchored at anchor, from
// the conjunction governing the anchor up to next year's descendant equinox.
func (c *Converter) EnumerateYear(ctx context.Context, anchor time.Time) (Roster, error) {
	first, err := c.GoverningConjunction(ctx, anchor)
	if err != nil {
		return Roster{}, fmt.Errorf("first conjunction of year: %w", err)
	}

	nextEquinox, err := c.seasonInYear(ctx, anchor.UTC().Year()+1, astro.SeasonAutumnalEquinox)
	if err != nil {
		return Roster{}, err
	}

	events, err := c.provider.LunarPhaseEvents(ctx, first.Add(enumerationGap), nextEquinox)
	if err != nil {
		return Roster{}, fmt.Errorf("lunar phases %s..%s: %w", formatInstant(first), formatInstant(nextEquinox), err)
	}

	roster := Roster{
		Anchor:       anchor,
		Conjunctions: append([]time.Time{first}, astro.NewMoons(events)...),
	}
	if n := roster.Len(); n != OrdinaryRosterLen && n != LeapRosterLen {
		return Roster{}, fmt.Errorf("%w: year anchored at %s has %d conjunctions",
			ErrInvalidRoster, formatInstant(anchor), n)
	}
	return roster, nil
}

// seasonInYear returns the first occurrence of season in a civil year.
func (c *Converter) seasonInYear(ctx context.Context, year int, season astro.Season) (time.Time, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	events, err := c.provider.SolarSeasonEvents(ctx, start, start.AddDate(1, 0, 0))
	if err != nil {
		return time.Time{}, fmt.Errorf("solar seasons in %d: %w", year, err)
	}
	times := astro.SeasonTimes(events, season)
	if len(times) == 0 {
		return time.Time{}, fmt.Errorf("%w: no %s in %d", ErrAnchorNotFound, season, year)
	}
	return times[0], nil
}
