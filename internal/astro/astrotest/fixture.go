// Package astrotest provides deterministic astronomical fixtures for tests.
package astrotest

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/zapponejosh/neoteran-api/internal/astro"
)

// NewMoons lists the conjunctions (UTC, minute precision) from mid 2019 to
// the end of 2023.
var NewMoons = []string{
	"2019-07-02T19:16", "2019-07-31T03:12", "2019-08-30T10:37", "2019-09-28T18:26",
	"2019-10-28T03:38", "2019-11-26T15:06", "2019-12-26T05:13",
	"2020-01-24T21:42", "2020-02-23T15:32", "2020-03-24T09:28", "2020-04-23T02:26",
	"2020-05-22T17:39", "2020-06-21T06:41", "2020-07-20T17:33", "2020-08-19T02:41",
	"2020-09-17T11:00", "2020-10-16T19:31", "2020-11-15T05:07", "2020-12-14T16:17",
	"2021-01-13T05:00", "2021-02-11T19:06", "2021-03-13T10:21", "2021-04-12T02:31",
	"2021-05-11T19:00", "2021-06-10T10:53", "2021-07-10T01:17", "2021-08-08T13:50",
	"2021-09-07T00:52", "2021-10-06T11:05", "2021-11-04T21:14", "2021-12-04T07:43",
	"2022-01-02T18:33", "2022-02-01T05:46", "2022-03-02T17:35", "2022-04-01T06:24",
	"2022-04-30T20:28", "2022-05-30T11:30", "2022-06-29T02:52", "2022-07-28T17:55",
	"2022-08-27T08:17", "2022-09-25T21:55", "2022-10-25T10:49", "2022-11-23T22:57",
	"2022-12-23T10:17",
	"2023-01-21T20:53", "2023-02-20T07:06", "2023-03-21T17:23", "2023-04-20T04:12",
	"2023-05-19T15:53", "2023-06-18T04:37", "2023-07-17T18:32", "2023-08-16T09:38",
	"2023-09-15T01:40", "2023-10-14T17:55", "2023-11-13T09:27", "2023-12-12T23:32",
}

// Seasons lists equinoxes and solstices from 2019 to 2023.
var Seasons = []struct {
	At     string
	Season astro.Season
}{
	{"2019-03-20T21:58", astro.SeasonVernalEquinox},
	{"2019-06-21T15:54", astro.SeasonSummerSolstice},
	{"2019-09-23T07:50", astro.SeasonAutumnalEquinox},
	{"2019-12-22T04:19", astro.SeasonWinterSolstice},
	{"2020-03-20T03:50", astro.SeasonVernalEquinox},
	{"2020-06-20T21:43", astro.SeasonSummerSolstice},
	{"2020-09-22T13:31", astro.SeasonAutumnalEquinox},
	{"2020-12-21T10:02", astro.SeasonWinterSolstice},
	{"2021-03-20T09:37", astro.SeasonVernalEquinox},
	{"2021-06-21T03:32", astro.SeasonSummerSolstice},
	{"2021-09-22T19:21", astro.SeasonAutumnalEquinox},
	{"2021-12-21T15:59", astro.SeasonWinterSolstice},
	{"2022-03-20T15:33", astro.SeasonVernalEquinox},
	{"2022-06-21T09:13", astro.SeasonSummerSolstice},
	{"2022-09-23T01:03", astro.SeasonAutumnalEquinox},
	{"2022-12-21T21:48", astro.SeasonWinterSolstice},
	{"2023-03-20T21:24", astro.SeasonVernalEquinox},
	{"2023-06-21T14:57", astro.SeasonSummerSolstice},
	{"2023-09-23T06:50", astro.SeasonAutumnalEquinox},
	{"2023-12-22T03:27", astro.SeasonWinterSolstice},
}

// MustTime parses "2006-01-02T15:04" or RFC 3339 as UTC, panicking on error.
func MustTime(s string) time.Time {
	if t, err := time.Parse("2006-01-02T15:04", s); err == nil {
		return t.UTC()
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

// Provider returns a static provider over the fixture events.
func Provider() *astro.Static {
	var phases []astro.PhaseEvent
	for _, s := range NewMoons {
		phases = append(phases, astro.PhaseEvent{Time: MustTime(s), Phase: astro.PhaseNew})
	}
	var seasons []astro.SeasonEvent
	for _, s := range Seasons {
		seasons = append(seasons, astro.SeasonEvent{Time: MustTime(s.At), Season: s.Season})
	}
	return astro.NewStatic(phases, seasons)
}

// Counting wraps a provider and counts upstream calls.
type Counting struct {
	Next        astro.Provider
	PhaseCalls  atomic.Int64
	SeasonCalls atomic.Int64
}

// LunarPhaseEvents implements astro.Provider.
func (c *Counting) LunarPhaseEvents(ctx context.Context, start, end time.Time) ([]astro.PhaseEvent, error) {
	c.PhaseCalls.Add(1)
	return c.Next.LunarPhaseEvents(ctx, start, end)
}

// SolarSeasonEvents implements astro.Provider.
func (c *Counting) SolarSeasonEvents(ctx context.Context, start, end time.Time) ([]astro.SeasonEvent, error) {
	c.SeasonCalls.Add(1)
	return c.Next.SolarSeasonEvents(ctx, start, end)
}
