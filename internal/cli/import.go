package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/liftbook/internal/adapters/repository"
	"github.com/comitanigiacomo/liftbook/internal/core/domain"
	"github.com/comitanigiacomo/liftbook/internal/core/services"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import lifts and bodyweight readings from a TOML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := readImportFile(args[0])
			if err != nil {
				return err
			}

			today, err := opts.todayDate()
			if err != nil {
				return err
			}

			var src *source
			if dryRun {
				src = &source{userID: localUser, measurements: repository.NewInMemoryMeasurementRepository(), close: func() {}}
			} else {
				if opts.dsn == "" {
					return errors.New("--dsn is required unless --dry-run is set")
				}
				if src, err = openDBSource(ctx, opts.dsn, opts.user); err != nil {
					return err
				}
			}
			defer src.close()

			lifts, readings, err := importInto(ctx, src, f, func() domain.Date { return today })
			if err != nil {
				return err
			}

			verb := "Imported"
			if dryRun {
				verb = "Validated"
			}
			green := color.New(color.FgGreen, color.Bold).SprintFunc()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %d lifts and %d bodyweight readings\n", green("✔"), verb, lifts, readings)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the file without writing to the database")
	return cmd
}

// importInto stores every lift in one batch, so a single invalid set
// aborts the lift import. Bodyweight readings are upserted per day.
func importInto(ctx context.Context, src *source, f *importFile, clock services.Clock) (int, int, error) {
	inputs := make([]services.CreateLiftInput, 0, len(f.Lifts))
	for _, l := range f.Lifts {
		inputs = append(inputs, services.CreateLiftInput{
			Name:   l.Name,
			Weight: l.Weight,
			Reps:   l.Reps,
			Date:   datePtr(l.Date),
		})
	}

	if len(inputs) > 0 {
		lifts := services.NewLiftService(src.measurements, nil, clock)
		if _, err := lifts.CreateBatch(ctx, src.userID, inputs); err != nil {
			return 0, 0, fmt.Errorf("import lifts: %w", err)
		}
	}

	health := services.NewHealthService(src.measurements, clock)
	for i, b := range f.Bodyweight {
		_, err := health.Log(ctx, services.LogBodyweightInput{
			UserID: src.userID,
			Weight: b.Weight,
			Unit:   b.Unit,
			Date:   datePtr(b.Date),
			Notes:  b.Notes,
		})
		if err != nil {
			return len(inputs), i, fmt.Errorf("bodyweight %d: %w", i+1, err)
		}
	}

	return len(inputs), len(f.Bodyweight), nil
}

func datePtr(d domain.Date) *domain.Date {
	if d.IsZero() {
		return nil
	}
	return &d
}
