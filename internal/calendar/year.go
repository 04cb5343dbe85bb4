package calendar

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/zapponejosh/neoteran-api/internal/astro"
)

// Era marks whether a date precedes or follows the epoch boundary.
type Era string

const (
	EraAR Era = "AR"
	EraER Era = "ER"
)

var (
	// EpochBoundary is the first instant of the ER era.
	EpochBoundary = time.Date(2020, time.September, 18, 15, 0, 0, 0, time.UTC)

	// EpochalAnchor is the reference point from which anchor years are
	// counted.
	EpochalAnchor = time.Date(2020, time.September, 22, 0, 0, 0, 0, time.UTC)
)

const (
	anchorSearchWindow = 370 * 24 * time.Hour
	countMargin        = 10 * 24 * time.Hour
	sameInstant        = time.Second
)

// YearContext identifies the Neoteran year a month belongs to.
type YearContext struct {
	BaseEquinox time.Time // descendant equinox anchoring the year
	Number      int       // count of anchor years, always positive
	Era         Era
}

// EraOf returns the era an instant belongs to.
func EraOf(t time.Time) Era {
	if t.Before(EpochBoundary) {
		return EraAR
	}
	return EraER
}

// ResolveYearAnchor finds the descendant equinox anchoring the year that
// contains span. The later of the two equinoxes around span.Start anchors the
// year only if it falls before the month ends.
func (c *Converter) ResolveYearAnchor(ctx context.Context, span MonthSpan) (time.Time, error) {
	events, err := c.provider.SolarSeasonEvents(ctx, span.Start.Add(-anchorSearchWindow), span.Start.Add(anchorSearchWindow))
	if err != nil {
		return time.Time{}, fmt.Errorf("solar seasons near %s: %w", formatInstant(span.Start), err)
	}

	var before, after time.Time
	for _, eq := range astro.SeasonTimes(events, astro.SeasonAutumnalEquinox) {
		if eq.Before(span.Start) {
			before = eq
		} else if eq.After(span.Start) && after.IsZero() {
			after = eq
		}
	}
	if before.IsZero() || after.IsZero() {
		return time.Time{}, fmt.Errorf("%w: need descendant equinoxes on both sides of %s",
			ErrAnchorNotFound, formatInstant(span.Start))
	}

	if after.Before(span.End) {
		return after, nil
	}
	return before, nil
}

// YearNumber counts the descendant equinoxes between the epochal anchor and
// anchor, both ends inclusive. The count is the magnitude of the year number
// in either era.
func (c *Converter) YearNumber(ctx context.Context, anchor time.Time) (int, error) {
	lo, hi := EpochalAnchor, anchor
	if hi.Before(lo) {
		lo, hi = hi, lo
	}

	events, err := c.provider.SolarSeasonEvents(ctx, lo.Add(-countMargin), hi.Add(countMargin))
	if err != nil {
		return 0, fmt.Errorf("solar seasons %s..%s: %w", formatInstant(lo), formatInstant(hi), err)
	}

	var counted []time.Time
	hasAnchor := false
	for _, eq := range astro.SeasonTimes(events, astro.SeasonAutumnalEquinox) {
		if eq.Before(lo) || eq.After(hi) {
			continue
		}
		counted = append(counted, eq)
		if absDuration(eq.Sub(anchor)) < sameInstant {
			hasAnchor = true
		}
	}
	if !hasAnchor {
		counted = append(counted, anchor)
	}

	return len(dedupeSorted(counted)), nil
}

// YearContext resolves the anchor, number and era for the month span that
// contains query.
func (c *Converter) YearContext(ctx context.Context, query time.Time, span MonthSpan) (YearContext, error) {
	anchor, err := c.ResolveYearAnchor(ctx, span)
	if err != nil {
		return YearContext{}, err
	}
	number, err := c.YearNumber(ctx, anchor)
	if err != nil {
		return YearContext{}, err
	}
	return YearContext{
		BaseEquinox: anchor,
		Number:      number,
		Era:         EraOf(query),
	}, nil
}

// dedupeSorted sorts instants and drops any within a second of the previous.
func dedupeSorted(ts []time.Time) []time.Time {
	sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
	out := ts[:0]
	for _, t := range ts {
		if len(out) > 0 && t.Sub(out[len(out)-1]) < sameInstant {
			continue
		}
		out = append(out, t)
	}
	return out
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
