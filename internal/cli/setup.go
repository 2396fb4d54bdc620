package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/obiente/translate/govoice/internal/models"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Download offline speech models",
	Long: `Download offline speech models into --model-dir.

Models already present are skipped. Available ids:
  vosk-en   small English Vosk model
  vosk-zh   small Chinese Vosk model
  whisper   whisper.cpp base model`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		only, _ := cmd.Flags().GetStringSlice("only")

		entries, err := models.Lookup(only)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Installing %s into %s:\n", english.Plural(len(entries), "model", ""), cfg.ModelDir)
		for _, e := range entries {
			fmt.Fprintf(out, "  %-9s %s (%s)\n", e.ID, e.Description, e.Size)
		}
		if !yes && !confirm(cmd, "Continue?") {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}

		in := models.NewInstaller(cfg.ModelDir)
		for _, e := range entries {
			path, err := in.Install(cmd.Context(), e)
			if err != nil {
				return fmt.Errorf("install %s: %w", e.ID, err)
			}
			fmt.Fprintf(out, "  %-9s %s\n", e.ID, path)
		}
		return nil
	},
}

func init() {
	setupCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	setupCmd.Flags().StringSlice("only", nil, "comma separated model ids to install")
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
