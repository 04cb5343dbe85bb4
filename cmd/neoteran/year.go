package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/neoteran-api/internal/api"
	"github.com/zapponejosh/neoteran-api/internal/calendar"
)

func newYearCmd(opts *globalOptions, open openSourceFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "year [datetime]",
		Short: "List the months of the Neoteran year containing an instant",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := time.Now().UTC()
			if len(args) == 1 {
				var err error
				if t, err = calendar.ParseInstant(args[0]); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			sess, err := opts.open(ctx, open, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.Close()

			year, err := sess.converter.Year(ctx, t)
			if err != nil {
				return explain(err)
			}

			if opts.format == "json" {
				return writeJSON(cmd.OutOrStdout(), api.NewYearResponse(year))
			}
			return printYear(cmd.OutOrStdout(), year)
		},
	}
}

func printYear(w io.Writer, y *calendar.YearCalendar) error {
	fmt.Fprintf(w, "Year %04d %s", y.Number, y.Era)
	if y.Leap {
		fmt.Fprintf(w, "  leap, %s", y.Pattern)
	}
	fmt.Fprintf(w, "\nBase equinox: %s\n\n", y.BaseEquinox.Format(time.RFC3339))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCODE\tCONJUNCTION\tSTART\tEND")
	for _, m := range y.Months {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			m.Ordinal,
			m.Code,
			m.Conjunction.Format(time.RFC3339),
			m.Start.Format(time.RFC3339),
			m.End.Format(time.RFC3339),
		)
	}
	return tw.Flush()
}
