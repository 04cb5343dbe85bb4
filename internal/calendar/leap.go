package calendar

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zapponejosh/neoteran-api/internal/astro"
)

// Pattern identifies where a leap year places its intercalary month.
type Pattern int

const (
	PatternNone Pattern = iota // ordinary year, or leap months 1-3
	Pattern1
	Pattern2
	Pattern3
	Pattern4
)

func (p Pattern) String() string {
	if p == PatternNone {
		return "none"
	}
	return fmt.Sprintf("pattern %d", int(p))
}

// Landmarks holds the roster identifiers of the conjunctions governing the
// southern solstice, ascendant equinox and northern solstice of a leap year.
// An empty identifier means the landmark fell outside the year's C entries.
type Landmarks struct {
	Southern  string
	Ascendant string
	Northern  string
}

// MatchPattern classifies landmark identifiers into one of the four known
// intercalation patterns.
func MatchPattern(l Landmarks) (Pattern, error) {
	switch {
	case l.Southern == "C04" && l.Ascendant == "C07" && l.Northern == "C10":
		return Pattern1, nil
	case l.Southern == "C04" && l.Ascendant == "C07" && l.Northern == "C11":
		return Pattern2, nil
	case l.Southern == "C04" && l.Ascendant == "C08":
		return Pattern3, nil
	case l.Southern == "C05":
		return Pattern4, nil
	}
	return PatternNone, fmt.Errorf("%w: southern=%q ascendant=%q northern=%q",
		ErrPatternNotRecognized, l.Southern, l.Ascendant, l.Northern)
}

// leapMonthCodes maps ordinals 4..13 of a leap year to month codes, per
// pattern. Exactly one entry per pattern carries the intercalary "S" suffix.
var leapMonthCodes = map[Pattern][10]string{
	Pattern1: {"04C", "05C", "06C", "07C", "08C", "09C", "10C", "11C", "12C", "12S"},
	Pattern2: {"04C", "05C", "06C", "07C", "08C", "09C", "09S", "10C", "11C", "12C"},
	Pattern3: {"04C", "05C", "06C", "06S", "07C", "08C", "09C", "10C", "11C", "12C"},
	Pattern4: {"03S", "04C", "05C", "06C", "07C", "08C", "09C", "10C", "11C", "12C"},
}

// StandardCode returns the common month code for an ordinal, e.g. "05C".
func StandardCode(ordinal int) string {
	return fmt.Sprintf("%02dC", ordinal)
}

// MonthCode returns the code of month ordinal under pattern p. Ordinals 1-3
// and every ordinal of PatternNone use the standard code.
func (p Pattern) MonthCode(ordinal int) (string, error) {
	if p == PatternNone || ordinal <= 3 {
		return StandardCode(ordinal), nil
	}
	table, ok := leapMonthCodes[p]
	if !ok {
		return "", fmt.Errorf("%w: unknown pattern %d", ErrPatternNotRecognized, int(p))
	}
	if ordinal > 13 {
		return "", fmt.Errorf("%w: ordinal %d out of range", ErrInvalidRoster, ordinal)
	}
	return table[ordinal-4], nil
}

// LeapLandmarks locates the roster identifiers of the three solar landmarks
// of a leap year: the southern (December) solstice of the anchor's civil
// year, then the ascendant (March) equinox and northern (June) solstice of
// the following year.
func (c *Converter) LeapLandmarks(ctx context.Context, roster Roster) (Landmarks, error) {
	year := roster.Anchor.UTC().Year()

	ids := make([]string, 0, 3)
	for _, lm := range []struct {
		year   int
		season astro.Season
	}{
		{year, astro.SeasonWinterSolstice},
		{year + 1, astro.SeasonVernalEquinox},
		{year + 1, astro.SeasonSummerSolstice},
	} {
		at, err := c.seasonInYear(ctx, lm.year, lm.season)
		if err != nil {
			return Landmarks{}, err
		}
		conj, err := c.GoverningConjunction(ctx, at)
		if err != nil {
			return Landmarks{}, fmt.Errorf("conjunction for %s %d: %w", lm.season, lm.year, err)
		}
		ids = append(ids, roster.landmarkID(conj))
	}

	return Landmarks{Southern: ids[0], Ascendant: ids[1], Northern: ids[2]}, nil
}

// LeapPattern classifies a roster. Ordinary years are PatternNone.
func (c *Converter) LeapPattern(ctx context.Context, roster Roster) (Pattern, error) {
	if !roster.IsLeap() {
		return PatternNone, nil
	}
	landmarks, err := c.LeapLandmarks(ctx, roster)
	if err != nil {
		return PatternNone, err
	}
	c.logger.DebugContext(ctx, "leap year landmarks",
		slog.String("anchor", formatInstant(roster.Anchor)),
		slog.String("landmarks", landmarkSummary(landmarks)),
	)
	return MatchPattern(landmarks)
}

// MonthCode returns the month code of ordinal within roster's year. Solar
// landmarks are only consulted for months 4 and later of a leap year.
func (c *Converter) MonthCode(ctx context.Context, ordinal int, roster Roster) (string, Pattern, error) {
	if !roster.IsLeap() || ordinal <= 3 {
		return StandardCode(ordinal), PatternNone, nil
	}
	pattern, err := c.LeapPattern(ctx, roster)
	if err != nil {
		return "", PatternNone, err
	}
	code, err := pattern.MonthCode(ordinal)
	if err != nil {
		return "", pattern, err
	}
	return code, pattern, nil
}

// landmarkSummary renders landmarks as "C04/C07/C10" for logs.
func landmarkSummary(l Landmarks) string {
	return fmt.Sprintf("%s/%s/%s", orDash(l.Southern), orDash(l.Ascendant), orDash(l.Northern))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
