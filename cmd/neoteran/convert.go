package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/neoteran-api/internal/api"
	"github.com/zapponejosh/neoteran-api/internal/calendar"
)

// civilFlags are the component flags of convert.
type civilFlags struct {
	year, month, day, hour, minute int
}

func newConvertCmd(opts *globalOptions, open openSourceFunc) *cobra.Command {
	var civil civilFlags

	cmd := &cobra.Command{
		Use:   "convert [datetime]",
		Short: "Convert a UTC instant to a Neoteran date",
		Long: `Convert a UTC instant to a Neoteran date.

The instant is given as YYYY-MM-DD or YYYY-MM-DDTHH:MM, or with the
--year/--month/--day/--hour/--minute flags. Without either, the current
instant is converted.`,
		Example: `  neoteran convert 2024-01-11T05:00
  neoteran convert --year 2024 --month 1 --day 11 --hour 5 --minute 0`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			componentsSet := cmd.Flags().Changed("year") || cmd.Flags().Changed("month") || cmd.Flags().Changed("day")
			if componentsSet && len(args) > 0 {
				return errors.New("give either a datetime argument or --year/--month/--day, not both")
			}
			if componentsSet && !(cmd.Flags().Changed("year") && cmd.Flags().Changed("month") && cmd.Flags().Changed("day")) {
				return errors.New("--year, --month and --day must be given together")
			}

			ctx := cmd.Context()
			sess, err := opts.open(ctx, open, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.Close()

			var conv *calendar.Conversion
			switch {
			case componentsSet:
				conv, err = sess.converter.ConvertCivil(ctx, civil.year, time.Month(civil.month), civil.day, civil.hour, civil.minute)
			case len(args) == 1:
				var t time.Time
				if t, err = calendar.ParseInstant(args[0]); err != nil {
					return err
				}
				conv, err = sess.converter.Convert(ctx, t)
			default:
				conv, err = sess.converter.Convert(ctx, time.Now())
			}
			if err != nil {
				return explain(err)
			}

			if opts.format == "json" {
				return writeJSON(cmd.OutOrStdout(), api.NewConversionResponse(conv))
			}
			printConversion(cmd.OutOrStdout(), conv)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&civil.year, "year", 0, "Civil year")
	f.IntVar(&civil.month, "month", 0, "Civil month (1-12)")
	f.IntVar(&civil.day, "day", 0, "Day of month")
	f.IntVar(&civil.hour, "hour", 0, "Hour, UTC (0-23)")
	f.IntVar(&civil.minute, "minute", 0, "Minute (0-59)")

	return cmd
}

func printConversion(w io.Writer, c *calendar.Conversion) {
	fmt.Fprintln(w, c.Date.String())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Input (UTC):        %s\n", c.Input.Format(time.RFC3339))
	fmt.Fprintf(w, "Conjunction:        %s\n", c.Month.Conjunction.Format(time.RFC3339))
	fmt.Fprintf(w, "Month:              %s .. %s\n", c.Month.Start.Format(time.RFC3339), c.Month.End.Format(time.RFC3339))
	fmt.Fprintf(w, "Base equinox:       %s\n", c.Year.BaseEquinox.Format(time.RFC3339))
	fmt.Fprintf(w, "Month ordinal:      %d\n", c.Ordinal)
	if c.Leap {
		fmt.Fprintf(w, "Leap year:          yes (%s)\n", c.Pattern)
	} else {
		fmt.Fprintln(w, "Leap year:          no")
	}
	if c.Date.IsIntercalary() {
		fmt.Fprintln(w, "Intercalary month:  yes")
	}
	if c.Estimated {
		fmt.Fprintln(w, "Note: month ordinal estimated from elapsed time")
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// explain adds a hint to calendar errors a user can act on.
func explain(err error) error {
	switch {
	case calendar.IsInsufficientData(err):
		return fmt.Errorf("%w (import more events or use --source analytic)", err)
	case calendar.IsAnchorNotFound(err):
		return fmt.Errorf("%w (no equinox within range of this date)", err)
	default:
		return err
	}
}
