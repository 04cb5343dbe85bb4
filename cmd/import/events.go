package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/zapponejosh/neoteran-api/internal/astro"
)

// Event kinds accepted in the CSV kind column.
const (
	kindPhase  = "phase"
	kindSeason = "season"
)

// eventSet holds the events collected from one source.
type eventSet struct {
	phases  []astro.PhaseEvent
	seasons []astro.SeasonEvent
}

// readEventsFile opens path and parses it with parseEvents.
func readEventsFile(path string) (*eventSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open CSV: %w", err)
	}
	defer file.Close()

	return parseEvents(file)
}

// parseEvents reads rows of the form instant,kind,tag. Instants are RFC 3339.
// An optional header row and lines starting with '#' are skipped.
func parseEvents(r io.Reader) (*eventSet, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	set := &eventSet{}
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read CSV: %w", err)
		}

		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "instant") {
			continue
		}

		if err := set.add(record); err != nil {
			row, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
	}

	set.sort()
	return set, nil
}

func (s *eventSet) add(record []string) error {
	instant, err := time.Parse(time.RFC3339, strings.TrimSpace(record[0]))
	if err != nil {
		return fmt.Errorf("invalid instant %q: %w", record[0], err)
	}
	instant = instant.UTC()

	kind := strings.ToLower(strings.TrimSpace(record[1]))
	tag := strings.TrimSpace(record[2])

	switch kind {
	case kindPhase:
		phase, err := astro.ParsePhase(tag)
		if err != nil {
			return err
		}
		s.phases = append(s.phases, astro.PhaseEvent{Time: instant, Phase: phase})
	case kindSeason:
		season, err := astro.ParseSeason(tag)
		if err != nil {
			return err
		}
		s.seasons = append(s.seasons, astro.SeasonEvent{Time: instant, Season: season})
	default:
		return fmt.Errorf("unknown event kind %q", record[1])
	}
	return nil
}

func (s *eventSet) sort() {
	sort.SliceStable(s.phases, func(i, j int) bool {
		return s.phases[i].Time.Before(s.phases[j].Time)
	})
	sort.SliceStable(s.seasons, func(i, j int) bool {
		return s.seasons[i].Time.Before(s.seasons[j].Time)
	})
}

// generateEvents asks the provider for every event from January 1 of from
// up to, but not including, January 1 of to+1.
func generateEvents(ctx context.Context, p astro.Provider, from, to int) (*eventSet, error) {
	start := time.Date(from, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(to+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	phases, err := p.LunarPhaseEvents(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("generate phases: %w", err)
	}
	seasons, err := p.SolarSeasonEvents(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("generate seasons: %w", err)
	}

	return &eventSet{phases: phases, seasons: seasons}, nil
}
