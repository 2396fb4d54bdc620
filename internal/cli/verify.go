package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/obiente/translate/govoice/internal/models"
)

var errModelsMissing = errors.New("some models are missing, run setup")

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that the configured speech models exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		missing := 0
		for _, c := range models.Verify(cfg.ModelPaths()) {
			mark := "ok"
			if !c.Installed {
				mark = "missing"
				missing++
			}
			fmt.Fprintf(out, "%-9s %-8s %s\n", c.ID, mark, c.Path)
		}
		if missing > 0 {
			return errModelsMissing
		}
		return nil
	},
}
