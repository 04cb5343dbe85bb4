package calendar

import (
	"context"
	"time"
)

// Month boundary rule: a conjunction at or before 09:00 UTC opens its month
// at 15:00 UTC the same civil day, a later one at 15:00 UTC the next day.
const (
	boundaryThreshold = 9 * time.Hour
	boundaryHour      = 15 * time.Hour

	// nextConjunction search window relative to a month start.
	monthEndSearchFrom  = 24 * time.Hour
	monthEndSearchUntil = 35 * 24 * time.Hour
)

// MonthSpan is the closed interval of one Neoteran month.
type MonthSpan struct {
	Conjunction time.Time // governing conjunction
	Start       time.Time // always 15:00:00 UTC
	End         time.Time // one second before the next month's start
}

// Contains reports whether t falls within the span.
func (s MonthSpan) Contains(t time.Time) bool {
	return !t.Before(s.Start) && !t.After(s.End)
}

// MonthStart returns the instant the month opened by conj begins.
func MonthStart(conj time.Time) time.Time {
	day := midnight(conj)
	if conj.UTC().Sub(day) <= boundaryThreshold {
		return day.Add(boundaryHour)
	}
	return day.Add(24*time.Hour + boundaryHour)
}

// MonthEnd returns the last second of the month that next's month follows.
func MonthEnd(next time.Time) time.Time {
	return MonthStart(next).Add(-time.Second)
}

// MonthSpan resolves the span of the month opened by conj, locating the
// following conjunction to close it.
func (c *Converter) MonthSpan(ctx context.Context, conj time.Time) (MonthSpan, error) {
	start := MonthStart(conj)
	next, err := c.nextConjunction(ctx, start.Add(monthEndSearchFrom), start.Add(monthEndSearchUntil))
	if err != nil {
		return MonthSpan{}, err
	}
	return MonthSpan{
		Conjunction: conj.UTC(),
		Start:       start,
		End:         MonthEnd(next),
	}, nil
}

// DayOfMonth returns the 1-based day of t within a month starting at start.
// Days are counted in whole 24-hour periods, floored.
func DayOfMonth(t, start time.Time) int {
	return floorDays(t.Sub(start)) + 1
}

func floorDays(d time.Duration) int {
	days := d / (24 * time.Hour)
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return int(days)
}
