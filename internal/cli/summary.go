package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/liftbook/internal/core/aggregate"
	"github.com/comitanigiacomo/liftbook/internal/core/domain"
)

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the dashboard summary of a user's training history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			today, err := opts.todayDate()
			if err != nil {
				return err
			}

			src, err := openSource(ctx, opts)
			if err != nil {
				return err
			}
			defer src.close()

			ms, err := src.measurements.List(ctx, src.userID, domain.KindLift, domain.MeasurementFilter{})
			if err != nil {
				return fmt.Errorf("failed to load lifts: %w", err)
			}

			summary := aggregate.Summarize(ms, today)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}

			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	return cmd
}

func printSummary(out io.Writer, s aggregate.Summary) {
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(out, "%s %s\n", boldCyan("Summary for"), boldCyan(s.ComputedFor.String()))

	if s.TotalSessions == 0 {
		fmt.Fprintln(out, yellow("  No lifts logged yet."))
		return
	}

	today := "no"
	if s.WorkedOutToday {
		today = green("yes")
	}
	last := "-"
	if s.LastWorkout != nil {
		last = s.LastWorkout.String()
	}

	fmt.Fprintf(out, "  Sessions:        %d\n", s.TotalSessions)
	fmt.Fprintf(out, "  Lifts tracked:   %d\n", s.SeriesCount)
	fmt.Fprintf(out, "  Last workout:    %s\n", last)
	fmt.Fprintf(out, "  Trained today:   %s\n", today)
	fmt.Fprintf(out, "  Current streak:  %d days\n", s.CurrentStreak)
	fmt.Fprintf(out, "  Longest streak:  %d days\n", s.LongestStreak)

	if s.MostImproved != nil {
		fmt.Fprintf(out, "  Most improved:   %s (%s)\n", s.MostImproved.Series, green(signed(s.MostImproved.Delta)))
	}
	if s.LeastImproved != nil && !s.SingleSeries {
		fmt.Fprintf(out, "  Least improved:  %s (%s)\n", s.LeastImproved.Series, red(signed(s.LeastImproved.Delta)))
	}
}

func signed(v float64) string {
	return fmt.Sprintf("%+g", v)
}
