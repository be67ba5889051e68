package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/liftbook/internal/core/domain"
)

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [name...]",
		Short: "Show how lift names will be stored",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			dim := color.New(color.Faint).SprintFunc()
			bold := color.New(color.Bold).SprintFunc()

			for _, raw := range args {
				name := domain.NormalizeName(raw)
				if name == "" {
					name = dim("(empty)")
				}
				fmt.Fprintf(out, "%s %s %s\n", strings.TrimSpace(raw), dim("->"), bold(name))
			}
			return nil
		},
	}
}
