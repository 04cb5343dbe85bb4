package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/zapponejosh/neoteran-api/internal/astro"
)

// Search window around a reference instant for candidate conjunctions.
const (
	conjunctionLookBehind = 60 * 24 * time.Hour
	conjunctionLookAhead  = 40 * 24 * time.Hour
)

// GoverningConjunction returns the conjunction that opens the lunar month
// containing ref.
//
// Of the two most recent conjunctions before ref, the later one governs
// unless its month has not opened yet under the 09:00/15:00 rule:
//
//   - it fell on an earlier civil day, no more than 15h before ref's
//     midnight, and ref is no later than 15:00; or
//   - it fell on ref's civil day and ref is 09:00 or later.
//
// In either case the earlier conjunction governs.
func (c *Converter) GoverningConjunction(ctx context.Context, ref time.Time) (time.Time, error) {
	ref = ref.UTC()

	events, err := c.provider.LunarPhaseEvents(ctx, ref.Add(-conjunctionLookBehind), ref.Add(conjunctionLookAhead))
	if err != nil {
		return time.Time{}, fmt.Errorf("lunar phases near %s: %w", formatInstant(ref), err)
	}

	var candidates []time.Time
	for _, conj := range astro.NewMoons(events) {
		if conj.Before(ref) {
			candidates = append(candidates, conj)
		}
	}
	if len(candidates) < 2 {
		return time.Time{}, fmt.Errorf("%w: %d conjunctions before %s",
			ErrInsufficientData, len(candidates), formatInstant(ref))
	}

	latest := candidates[len(candidates)-1]
	previous := candidates[len(candidates)-2]

	refDate := midnight(ref)
	latestDate := midnight(latest)
	sinceLatest := refDate.Sub(latest)
	sinceMidnight := ref.Sub(refDate)

	notYetOpened := (latestDate.Before(refDate) && sinceLatest <= 15*time.Hour && sinceMidnight <= 15*time.Hour) ||
		(latestDate.Equal(refDate) && sinceMidnight >= 9*time.Hour)

	if notYetOpened {
		return previous, nil
	}
	return latest, nil
}

// nextConjunction returns the first conjunction in [from, until).
func (c *Converter) nextConjunction(ctx context.Context, from, until time.Time) (time.Time, error) {
	events, err := c.provider.LunarPhaseEvents(ctx, from, until)
	if err != nil {
		return time.Time{}, fmt.Errorf("lunar phases after %s: %w", formatInstant(from), err)
	}
	moons := astro.NewMoons(events)
	if len(moons) == 0 {
		return time.Time{}, fmt.Errorf("%w: no conjunction between %s and %s",
			ErrInsufficientData, formatInstant(from), formatInstant(until))
	}
	return moons[0], nil
}

// midnight truncates t to 00:00 UTC of its civil day.
func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
