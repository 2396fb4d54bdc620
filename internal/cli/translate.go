package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/obiente/translate/govoice/internal/lang"
	"github.com/obiente/translate/govoice/internal/pipeline"
)

var translateCmd = &cobra.Command{
	Use:   "translate TEXT...",
	Short: "Translate text once and print the result",
	Example: `  govoice translate 你好世界
  govoice translate --direction en-zh "good morning"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := directionFlag(cmd)
		if err != nil {
			return err
		}
		c := cfg
		c.RecognitionBackends = nil
		c.TTSEnabled = false
		svc, err := pipeline.Build(cmd.Context(), c)
		if err != nil {
			return err
		}
		defer svc.Close()

		res := svc.TranslateText(cmd.Context(), pipeline.TextRequest{
			Text:       strings.Join(args, " "),
			SourceLang: d.Source(),
			TargetLang: d.Target(),
		})
		if res.Error != "" {
			return fmt.Errorf("%s", res.Error)
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Translated)
		return nil
	},
}

func init() {
	translateCmd.Flags().StringP("direction", "d", string(lang.DefaultDirection), "zh-en or en-zh")
}

func directionFlag(cmd *cobra.Command) (lang.Direction, error) {
	s, _ := cmd.Flags().GetString("direction")
	return lang.ParseDirection(s)
}
