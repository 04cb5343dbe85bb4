package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/zapponejosh/neoteran-api/internal/calendar"
	"github.com/zapponejosh/neoteran-api/internal/config"
	"github.com/zapponejosh/neoteran-api/internal/ephemeris"
)

// This script generates boundary instants for every month of a Neoteran
// year, with the date each converts to, to check month and year transitions
// against an independent reference.

func main() {
	date := flag.String("date", time.Now().UTC().Format("2006-01-02"), "Any date within the Neoteran year to generate")
	source := flag.String("source", config.SourceAnalytic, "Ephemeris source: analytic or database")
	dbPath := flag.String("db", "./data/neoteran.db", "Path to SQLite event store (database source)")
	csvPath := flag.String("csv", "", "Also write samples to this CSV file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if err := run(context.Background(), *date, *source, *dbPath, *csvPath, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, date, source, dbPath, csvPath string, logger *slog.Logger) error {
	t, err := calendar.ParseInstant(date)
	if err != nil {
		return err
	}

	src, err := ephemeris.Open(ctx, ephemeris.Options{Source: source, DatabasePath: dbPath, CacheSize: 128}, logger)
	if err != nil {
		return err
	}
	defer src.Close()

	conv := calendar.NewConverter(src.Provider, logger)

	year, samples, err := generateSamples(ctx, conv, t)
	if err != nil {
		return err
	}

	printSamples(os.Stdout, year, samples)

	if csvPath != "" {
		file, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("create CSV: %w", err)
		}
		defer file.Close()
		if err := writeCSV(file, samples); err != nil {
			return err
		}
		fmt.Printf("\nSamples written to: %s\n", csvPath)
	}
	return nil
}

// sample is one probe instant and its conversion.
type sample struct {
	instant time.Time
	month   string
	note    string
	date    string
	err     error
}

// generateSamples converts the boundary instants of every month in the year
// containing t.
func generateSamples(ctx context.Context, conv *calendar.Converter, t time.Time) (*calendar.YearCalendar, []sample, error) {
	year, err := conv.Year(ctx, t)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve year: %w", err)
	}

	var samples []sample
	probe := func(at time.Time, month, note string) {
		s := sample{instant: at, month: month, note: note}
		if c, err := conv.Convert(ctx, at); err != nil {
			s.err = err
		} else {
			s.date = c.Date.String()
		}
		samples = append(samples, s)
	}

	// ==========================================================================
	// KEY DATES
	// ==========================================================================
	probe(year.BaseEquinox, "", "base equinox")

	// ==========================================================================
	// MONTH BOUNDARIES
	// ==========================================================================
	for _, m := range year.Months {
		probe(m.Start.Add(-time.Second), m.Code, "last second before start")
		probe(m.Start, m.Code, "start")
		probe(m.Start.Add(24*time.Hour-time.Second), m.Code, "end of day 1")
		probe(m.Start.Add(24*time.Hour), m.Code, "start of day 2")
		probe(m.End, m.Code, "end")
	}

	return year, samples, nil
}

func printSamples(w io.Writer, year *calendar.YearCalendar, samples []sample) {
	fmt.Fprintf(w, "=== Neoteran Date Generator for %04d %s ===\n\n", year.Number, year.Era)

	fmt.Fprintln(w, "Key Dates:")
	fmt.Fprintf(w, "  Base Equinox:    %s\n", formatInstant(year.BaseEquinox))
	fmt.Fprintf(w, "  First Month:     %s\n", formatInstant(year.Months[0].Start))
	fmt.Fprintf(w, "  Last Month Ends: %s\n", formatInstant(year.Months[len(year.Months)-1].End))
	if year.Leap {
		fmt.Fprintf(w, "  Leap Year:       %s\n", year.Pattern)
	}
	fmt.Fprintln(w)

	failures := 0
	current := "-"
	for _, s := range samples {
		if s.month != current {
			current = s.month
			if current != "" {
				fmt.Fprintf(w, "\n%s:\n", current)
			}
		}
		result := s.date
		if s.err != nil {
			result = "ERROR: " + s.err.Error()
			failures++
		}
		fmt.Fprintf(w, "  %s  %-16s  %s\n", formatInstant(s.instant), result, s.note)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Summary ===")
	fmt.Fprintf(w, "Months:   %d\n", len(year.Months))
	fmt.Fprintf(w, "Samples:  %d\n", len(samples))
	fmt.Fprintf(w, "Failures: %d\n", failures)
}

func writeCSV(w io.Writer, samples []sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"instant", "month", "date", "note"}); err != nil {
		return err
	}
	for _, s := range samples {
		date := s.date
		if s.err != nil {
			date = ""
		}
		if err := cw.Write([]string{formatInstant(s.instant), s.month, date, s.note}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
