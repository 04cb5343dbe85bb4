// Command neoteran converts instants to Neoteran calendar dates from the
// command line.
//
// Usage:
//
//	neoteran convert 2024-01-11T05:00
//	neoteran convert --year 2024 --month 1 --day 11 --hour 5 --minute 0
//	neoteran year 2024-01-11
//	neoteran --source database --db data/neoteran.db convert
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/neoteran-api/internal/calendar"
	"github.com/zapponejosh/neoteran-api/internal/config"
	"github.com/zapponejosh/neoteran-api/internal/ephemeris"
	"github.com/zapponejosh/neoteran-api/internal/logger"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	source  string
	dbPath  string
	format  string
	verbose bool
}

// openSourceFunc opens the ephemeris for a command. Tests replace it.
type openSourceFunc func(ctx context.Context, opts ephemeris.Options, log *slog.Logger) (*ephemeris.Source, error)

func main() {
	if err := newRootCmd(ephemeris.Open).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(open openSourceFunc) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "neoteran",
		Short: "Neoteran calendar converter",
		Long: `neoteran converts UTC instants to dates in the Neoteran lunisolar calendar.

Dates are printed as DD|MCC|YYYY EE: day of month, month code (C for a
standard month, S for the intercalary month), year number and era.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.source, "source", config.SourceAnalytic, "Ephemeris source: analytic or database")
	flags.StringVar(&opts.dbPath, "db", "./data/neoteran.db", "Path to the SQLite event store (database source)")
	flags.StringVar(&opts.format, "format", "human", "Output format (human, json)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log intermediate values to stderr")

	root.AddCommand(
		newConvertCmd(opts, open),
		newYearCmd(opts, open),
	)
	return root
}

// session is an opened converter for the lifetime of one command.
type session struct {
	converter *calendar.Converter
	source    *ephemeris.Source
	log       *slog.Logger
}

func (o *globalOptions) validate() error {
	switch o.format {
	case "human", "json":
	default:
		return fmt.Errorf("unknown format %q (expected human or json)", o.format)
	}
	switch o.source {
	case config.SourceAnalytic, config.SourceDatabase:
	default:
		return fmt.Errorf("unknown source %q (expected %s or %s)", o.source, config.SourceAnalytic, config.SourceDatabase)
	}
	return nil
}

func (o *globalOptions) open(ctx context.Context, open openSourceFunc, stderr io.Writer) (*session, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}

	level := "warn"
	if o.verbose {
		level = "debug"
	}
	log := logger.New(stderr, level, "text")

	src, err := open(ctx, ephemeris.Options{
		Source:       o.source,
		DatabasePath: o.dbPath,
		CacheSize:    astroCacheSize,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("open ephemeris: %w", err)
	}

	return &session{
		converter: calendar.NewConverter(src.Provider, log),
		source:    src,
		log:       log,
	}, nil
}

func (s *session) Close() error {
	return s.source.Close()
}

// astroCacheSize bounds the provider cache for a single CLI run.
const astroCacheSize = 64
