package astro

import (
	"context"
	"sort"
	"time"
)

// Static serves a fixed set of events from memory. It is useful for tests
// and for small precomputed tables.
type Static struct {
	phases  []PhaseEvent
	seasons []SeasonEvent
}

// NewStatic copies and sorts the given events.
func NewStatic(phases []PhaseEvent, seasons []SeasonEvent) *Static {
	p := append([]PhaseEvent(nil), phases...)
	s := append([]SeasonEvent(nil), seasons...)
	for i := range p {
		p[i].Time = p[i].Time.UTC()
	}
	for i := range s {
		s[i].Time = s[i].Time.UTC()
	}
	sort.SliceStable(p, func(i, j int) bool { return p[i].Time.Before(p[j].Time) })
	sort.SliceStable(s, func(i, j int) bool { return s[i].Time.Before(s[j].Time) })
	return &Static{phases: p, seasons: s}
}

// LunarPhaseEvents implements Provider.
func (s *Static) LunarPhaseEvents(ctx context.Context, start, end time.Time) ([]PhaseEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []PhaseEvent
	for _, e := range s.phases {
		if inRange(e.Time, start, end) {
			out = append(out, e)
		}
	}
	return out, nil
}

// SolarSeasonEvents implements Provider.
func (s *Static) SolarSeasonEvents(ctx context.Context, start, end time.Time) ([]SeasonEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []SeasonEvent
	for _, e := range s.seasons {
		if inRange(e.Time, start, end) {
			out = append(out, e)
		}
	}
	return out, nil
}
