package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/liftbook/internal/core/aggregate"
	"github.com/comitanigiacomo/liftbook/internal/core/domain"
)

type chartOptions struct {
	series []string
	start  string
	end    string
	metric string
	volume string
}

func newChartCmd(opts *rootOptions) *cobra.Command {
	co := &chartOptions{}

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Print the date x lift progress table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			metric, err := aggregate.ParseMetric(co.metric)
			if err != nil {
				return err
			}
			mode, err := aggregate.ParseVolumeMode(co.volume)
			if err != nil {
				return err
			}
			sel, err := co.selection()
			if err != nil {
				return err
			}

			src, err := openSource(ctx, opts)
			if err != nil {
				return err
			}
			defer src.close()

			ms, err := src.measurements.List(ctx, src.userID, domain.KindLift, domain.MeasurementFilter{
				Series: sel.Series,
				From:   sel.Range.Start,
				To:     sel.Range.End,
			})
			if err != nil {
				return fmt.Errorf("failed to load lifts: %w", err)
			}

			table := aggregate.BuildTable(aggregate.Filter(ms, sel), mode)
			return printTable(cmd.OutOrStdout(), table, metric)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVarP(&co.series, "series", "s", nil, "Only these lifts (repeatable or comma separated)")
	flags.StringVar(&co.start, "start", "", "First date (YYYY-MM-DD)")
	flags.StringVar(&co.end, "end", "", "Last date (YYYY-MM-DD)")
	flags.StringVarP(&co.metric, "metric", "m", "weight", "weight, reps or volume")
	flags.StringVar(&co.volume, "volume", "total", "total or average")
	return cmd
}

func (co *chartOptions) selection() (aggregate.Selection, error) {
	var sel aggregate.Selection
	for _, s := range co.series {
		if name := domain.NormalizeName(s); name != "" {
			sel.Series = append(sel.Series, name)
		}
	}

	for _, p := range []struct {
		raw string
		dst **domain.Date
	}{{co.start, &sel.Range.Start}, {co.end, &sel.Range.End}} {
		if p.raw == "" {
			continue
		}
		d, err := domain.ParseDate(p.raw)
		if err != nil {
			return sel, err
		}
		*p.dst = &d
	}

	if sel.Range.Start != nil && sel.Range.End != nil && sel.Range.Start.After(*sel.Range.End) {
		return sel, fmt.Errorf("start %s is after end %s", sel.Range.Start, sel.Range.End)
	}
	return sel, nil
}

// printTable writes one row per date. Lifts not performed that day show "-".
func printTable(out io.Writer, t *aggregate.Table, metric aggregate.Metric) error {
	if len(t.Rows) == 0 {
		fmt.Fprintln(out, color.YellowString("No lifts in range."))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "DATE\t%s\n", strings.Join(t.Series, "\t"))

	for _, r := range t.Rows {
		cells := make([]string, len(t.Series))
		for i, c := range r.Cells {
			cells[i] = "-"
			if v := c.Metric(metric, t.Mode); v != nil {
				cells[i] = fmt.Sprintf("%g", *v)
			}
		}
		fmt.Fprintf(w, "%s\t%s\n", r.Date, strings.Join(cells, "\t"))
	}
	return w.Flush()
}
