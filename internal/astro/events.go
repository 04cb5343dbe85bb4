// Package astro supplies the astronomical events the Neoteran calendar is
// built on: lunar phase instants and the four solar season markers.
//
// The calendar only talks to the Provider interface. Implementations in this
// package compute events analytically or serve them from memory; the
// database package serves imported events from SQLite.
package astro

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Phase identifies one of the four principal lunar phases.
type Phase int

const (
	PhaseNew Phase = iota
	PhaseFirstQuarter
	PhaseFull
	PhaseLastQuarter
)

var phaseNames = [...]string{"new", "first-quarter", "full", "last-quarter"}

func (p Phase) String() string {
	if p < PhaseNew || p > PhaseLastQuarter {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// IsValid reports whether p is one of the four known phases.
func (p Phase) IsValid() bool {
	return p >= PhaseNew && p <= PhaseLastQuarter
}

// ParsePhase converts a phase name ("new", "full", ...) to a Phase.
func ParsePhase(s string) (Phase, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range phaseNames {
		if n == name {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("unknown lunar phase %q", s)
}

// Season identifies an equinox or solstice. Names follow the northern
// hemisphere convention; the autumnal equinox is the September (descendant)
// equinox.
type Season int

const (
	SeasonVernalEquinox Season = iota
	SeasonSummerSolstice
	SeasonAutumnalEquinox
	SeasonWinterSolstice
)

var seasonNames = [...]string{"vernal-equinox", "summer-solstice", "autumnal-equinox", "winter-solstice"}

func (s Season) String() string {
	if s < SeasonVernalEquinox || s > SeasonWinterSolstice {
		return fmt.Sprintf("season(%d)", int(s))
	}
	return seasonNames[s]
}

// IsValid reports whether s is one of the four known season markers.
func (s Season) IsValid() bool {
	return s >= SeasonVernalEquinox && s <= SeasonWinterSolstice
}

// ParseSeason converts a season name ("autumnal-equinox", ...) to a Season.
func ParseSeason(s string) (Season, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range seasonNames {
		if n == name {
			return Season(i), nil
		}
	}
	return 0, fmt.Errorf("unknown solar season %q", s)
}

// PhaseEvent is the instant a lunar phase occurs.
type PhaseEvent struct {
	Time  time.Time
	Phase Phase
}

// SeasonEvent is the instant of an equinox or solstice.
type SeasonEvent struct {
	Time   time.Time
	Season Season
}

// Provider returns astronomical events within the half-open range
// [start, end).
//
// Results must be strictly ordered by time, contain no duplicate instants for
// the same tag, and cover the whole range without gaps. Implementations must
// be safe for concurrent use.
type Provider interface {
	LunarPhaseEvents(ctx context.Context, start, end time.Time) ([]PhaseEvent, error)
	SolarSeasonEvents(ctx context.Context, start, end time.Time) ([]SeasonEvent, error)
}

// NewMoons filters events down to conjunction instants.
func NewMoons(events []PhaseEvent) []time.Time {
	var out []time.Time
	for _, e := range events {
		if e.Phase == PhaseNew {
			out = append(out, e.Time)
		}
	}
	return out
}

// SeasonTimes filters events down to the instants of one season marker.
func SeasonTimes(events []SeasonEvent, season Season) []time.Time {
	var out []time.Time
	for _, e := range events {
		if e.Season == season {
			out = append(out, e.Time)
		}
	}
	return out
}

// inRange reports whether t lies in [start, end).
func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
