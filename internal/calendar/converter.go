// Package calendar converts civil UTC instants into Neoteran lunisolar dates.
//
// Months open at 15:00 UTC after a true conjunction, years are anchored to
// the September (descendant) equinox and counted from the 2020 epoch, and a
// year of 14 conjunctions carries one intercalary month whose position is
// classified from the solar landmarks of that year.
//
// All astronomical input comes from an astro.Provider. A Converter keeps no
// state between calls, so one Converter may serve concurrent conversions.
package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zapponejosh/neoteran-api/internal/astro"
)

// Converter resolves civil instants to Neoteran dates.
type Converter struct {
	provider astro.Provider
	logger   *slog.Logger
}

// NewConverter creates a converter over provider.
func NewConverter(provider astro.Provider, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{provider: provider, logger: logger}
}

// Conversion is a converted date together with the values it was derived
// from.
type Conversion struct {
	Input     time.Time
	Date      Date
	Month     MonthSpan
	Year      YearContext
	Ordinal   int
	Leap      bool
	Pattern   Pattern
	Estimated bool // ordinal was estimated; see Roster.Ordinal
}

// ConvertCivil converts a civil UTC date and time given by its fields.
func (c *Converter) ConvertCivil(ctx context.Context, year int, month time.Month, day, hour, minute int) (*Conversion, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month %d", ErrInvalidInput, int(month))
	}
	if last := daysIn(year, month); day < 1 || day > last {
		return nil, fmt.Errorf("%w: day %d (month has %d days)", ErrInvalidInput, day, last)
	}
	if hour < 0 || hour > 23 {
		return nil, fmt.Errorf("%w: hour %d", ErrInvalidInput, hour)
	}
	if minute < 0 || minute > 59 {
		return nil, fmt.Errorf("%w: minute %d", ErrInvalidInput, minute)
	}
	return c.Convert(ctx, time.Date(year, month, day, hour, minute, 0, 0, time.UTC))
}

// Convert converts an instant to its Neoteran date.
func (c *Converter) Convert(ctx context.Context, t time.Time) (*Conversion, error) {
	t = t.UTC()

	conj, err := c.GoverningConjunction(ctx, t)
	if err != nil {
		return nil, err
	}

	span, err := c.MonthSpan(ctx, conj)
	if err != nil {
		return nil, err
	}
	day := DayOfMonth(t, span.Start)

	c.logger.DebugContext(ctx, "month resolved",
		slog.String("input", formatInstant(t)),
		slog.String("conjunction", formatInstant(conj)),
		slog.String("month_start", formatInstant(span.Start)),
		slog.String("month_end", formatInstant(span.End)),
		slog.Int("day", day),
	)

	year, err := c.YearContext(ctx, t, span)
	if err != nil {
		return nil, err
	}

	roster, err := c.EnumerateYear(ctx, year.BaseEquinox)
	if err != nil {
		return nil, err
	}

	ordinal, exact := roster.Ordinal(conj)
	if !exact {
		c.logger.WarnContext(ctx, "conjunction not in year roster, ordinal estimated",
			slog.String("conjunction", formatInstant(conj)),
			slog.String("anchor", formatInstant(year.BaseEquinox)),
			slog.Int("estimated_ordinal", ordinal),
		)
	}

	code, pattern, err := c.MonthCode(ctx, ordinal, roster)
	if err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "year resolved",
		slog.String("base_equinox", formatInstant(year.BaseEquinox)),
		slog.Int("year", year.Number),
		slog.Int("conjunctions", roster.Len()),
		slog.Int("ordinal", ordinal),
		slog.String("pattern", pattern.String()),
	)

	return &Conversion{
		Input: t,
		Date: Date{
			Day:       day,
			MonthCode: code,
			Year:      year.Number,
			Era:       year.Era,
		},
		Month:     span,
		Year:      year,
		Ordinal:   ordinal,
		Leap:      roster.IsLeap(),
		Pattern:   pattern,
		Estimated: !exact,
	}, nil
}

// YearMonth is one month of a Neoteran year.
type YearMonth struct {
	Ordinal     int
	Code        string
	Conjunction time.Time
	Start       time.Time
	End         time.Time
}

// YearCalendar lists the months of one Neoteran year.
type YearCalendar struct {
	BaseEquinox time.Time
	Number      int
	Era         Era
	Leap        bool
	Pattern     Pattern
	Months      []YearMonth
}

// Year returns the calendar of the Neoteran year containing t.
func (c *Converter) Year(ctx context.Context, t time.Time) (*YearCalendar, error) {
	t = t.UTC()

	conj, err := c.GoverningConjunction(ctx, t)
	if err != nil {
		return nil, err
	}
	span, err := c.MonthSpan(ctx, conj)
	if err != nil {
		return nil, err
	}
	anchor, err := c.ResolveYearAnchor(ctx, span)
	if err != nil {
		return nil, err
	}
	number, err := c.YearNumber(ctx, anchor)
	if err != nil {
		return nil, err
	}
	roster, err := c.EnumerateYear(ctx, anchor)
	if err != nil {
		return nil, err
	}
	pattern, err := c.LeapPattern(ctx, roster)
	if err != nil {
		return nil, err
	}

	months := make([]YearMonth, 0, roster.Len()-1)
	for i := 0; i < roster.Len()-1; i++ {
		code, err := pattern.MonthCode(i + 1)
		if err != nil {
			return nil, err
		}
		months = append(months, YearMonth{
			Ordinal:     i + 1,
			Code:        code,
			Conjunction: roster.Conjunctions[i],
			Start:       MonthStart(roster.Conjunctions[i]),
			End:         MonthEnd(roster.Conjunctions[i+1]),
		})
	}

	return &YearCalendar{
		BaseEquinox: anchor,
		Number:      number,
		Era:         EraOf(months[0].Start),
		Leap:        roster.IsLeap(),
		Pattern:     pattern,
		Months:      months,
	}, nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
