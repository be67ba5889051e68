// Package cli implements liftctl, the operator command line for liftbook.
package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/liftbook/internal/core/domain"
)

type rootOptions struct {
	dsn   string
	file  string
	user  string
	today string
}

// NewRootCmd builds the command tree. Output goes to the command's out
// writer so tests can capture it.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "liftctl",
		Short:         "Inspect and import liftbook training data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.dsn, "dsn", os.Getenv("LIFTBOOK_DSN"), "Postgres connection string (default $LIFTBOOK_DSN)")
	flags.StringVarP(&opts.file, "file", "f", "", "Read lifts from a TOML file instead of the database")
	flags.StringVarP(&opts.user, "user", "u", "", "User id or email (database mode)")
	flags.StringVar(&opts.today, "today", "", "Pretend today is this date (YYYY-MM-DD)")

	root.AddCommand(
		newNormalizeCmd(),
		newImportCmd(opts),
		newSummaryCmd(opts),
		newChartCmd(opts),
	)
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}

func (o *rootOptions) todayDate() (domain.Date, error) {
	if o.today == "" {
		return domain.Today(time.Local), nil
	}
	return domain.ParseDate(o.today)
}
