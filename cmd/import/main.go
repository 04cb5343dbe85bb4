// Command import loads lunar phase and solar season events into the SQLite
// event store.
//
// Usage:
//
//	go run ./cmd/import -csv data/events.csv -db data/neoteran.db
//	go run ./cmd/import -generate -from 1990 -to 2060 -db data/neoteran.db
//
// This tool:
// 1. Reads events from a CSV export, or generates them analytically
// 2. Creates/opens the SQLite database
// 3. Runs migrations to ensure schema is current
// 4. Inserts all events in a single transaction
//
// The import is idempotent - events already stored are skipped.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/zapponejosh/neoteran-api/internal/astro"
	"github.com/zapponejosh/neoteran-api/internal/database"
)

func main() {
	// Parse command line flags
	csvPath := flag.String("csv", "", "Path to events CSV (instant,kind,tag)")
	generate := flag.Bool("generate", false, "Generate events from the analytic provider instead of reading a CSV")
	fromYear := flag.Int("from", 1990, "First civil year to generate")
	toYear := flag.Int("to", 2060, "Last civil year to generate")
	dbPath := flag.String("db", "data/neoteran.db", "Path to SQLite database")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	// Setup logger
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	opts := options{
		csvPath:  *csvPath,
		generate: *generate,
		fromYear: *fromYear,
		toYear:   *toYear,
		dbPath:   *dbPath,
	}

	// Run import
	if err := run(context.Background(), opts, logger); err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("import complete")
}

type options struct {
	csvPath  string
	generate bool
	fromYear int
	toYear   int
	dbPath   string
}

func (o options) validate() error {
	switch {
	case o.generate && o.csvPath != "":
		return fmt.Errorf("use either -csv or -generate, not both")
	case !o.generate && o.csvPath == "":
		return fmt.Errorf("one of -csv or -generate is required")
	case o.generate && o.fromYear > o.toYear:
		return fmt.Errorf("-from %d is after -to %d", o.fromYear, o.toYear)
	}
	return nil
}

func run(ctx context.Context, opts options, logger *slog.Logger) error {
	if err := opts.validate(); err != nil {
		return err
	}
	startTime := time.Now()

	// =========================================================================
	// Step 1: Collect events
	// =========================================================================
	var (
		events *eventSet
		source string
		err    error
	)
	if opts.generate {
		logger.Info("generating events",
			slog.Int("from", opts.fromYear),
			slog.Int("to", opts.toYear),
		)
		events, err = generateEvents(ctx, astro.NewAnalytic(), opts.fromYear, opts.toYear)
		source = fmt.Sprintf("analytic %d-%d", opts.fromYear, opts.toYear)
	} else {
		logger.Info("reading CSV file", slog.String("path", opts.csvPath))
		events, err = readEventsFile(opts.csvPath)
		source = opts.csvPath
	}
	if err != nil {
		return err
	}

	logger.Info("events collected",
		slog.Int("phases", len(events.phases)),
		slog.Int("seasons", len(events.seasons)),
	)

	// =========================================================================
	// Step 2: Open database and run migrations
	// =========================================================================
	logger.Info("opening database", slog.String("path", opts.dbPath))

	db, err := database.Open(database.DefaultConfig(opts.dbPath), logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations complete", slog.Int("applied", migrated))

	// =========================================================================
	// Step 3: Import events in a transaction
	// =========================================================================
	var stats importStats
	err = db.WithTx(ctx, func(tx *database.Tx) error {
		if stats.phases, err = tx.InsertPhaseEvents(ctx, events.phases); err != nil {
			return err
		}
		if stats.seasons, err = tx.InsertSeasonEvents(ctx, events.seasons); err != nil {
			return err
		}
		return tx.RecordImport(ctx, source, stats.phases, stats.seasons)
	})
	if err != nil {
		return fmt.Errorf("import events: %w", err)
	}

	// =========================================================================
	// Step 4: Verify import
	// =========================================================================
	cov, err := db.EventCoverage(ctx)
	if err != nil {
		return fmt.Errorf("event coverage: %w", err)
	}

	elapsed := time.Since(startTime)

	logger.Info("import verified",
		slog.Int("phases_total", cov.Phases.Count),
		slog.Int("seasons_total", cov.Seasons.Count),
		slog.Duration("elapsed", elapsed),
	)

	// Print summary
	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("Source:              %s\n", source)
	fmt.Printf("Phases inserted:     %d (skipped %d)\n", stats.phases, len(events.phases)-stats.phases)
	fmt.Printf("Seasons inserted:    %d (skipped %d)\n", stats.seasons, len(events.seasons)-stats.seasons)
	fmt.Printf("Phases stored:       %d  %s\n", cov.Phases.Count, span(cov.Phases))
	fmt.Printf("Seasons stored:      %d  %s\n", cov.Seasons.Count, span(cov.Seasons))
	fmt.Printf("Time elapsed:        %v\n", elapsed.Round(time.Millisecond))

	return nil
}

// importStats tracks rows actually inserted.
type importStats struct {
	phases  int
	seasons int
}

func span(c database.EventCoverage) string {
	if c.First == nil {
		return ""
	}
	return fmt.Sprintf("%s .. %s", c.First.Format(time.RFC3339), c.Last.Format(time.RFC3339))
}
