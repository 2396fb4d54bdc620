package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/obiente/translate/govoice/internal/lang"
	"github.com/obiente/translate/govoice/internal/listener"
	"github.com/obiente/translate/govoice/internal/pipeline"
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Translate speech from the microphone until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		d, err := directionFlag(cmd)
		if err != nil {
			return err
		}
		mic, err := listener.OpenMicrophone()
		if err != nil {
			return err
		}
		defer mic.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		c := cfg
		c.TTSEnabled = false
		svc, err := pipeline.Build(ctx, c)
		if err != nil {
			return err
		}
		defer svc.Close()
		if !svc.SpeechReady() {
			return fmt.Errorf("no speech recognizer available, check RECOGNITION_BACKENDS and run verify")
		}

		out := cmd.OutOrStdout()
		l := listener.New(mic, svc, listener.Options{Direction: d})
		fmt.Fprintf(out, "Listening (%s to %s), Ctrl+C to stop.\n", lang.Name(d.Source()), lang.Name(d.Target()))
		err = l.Start(ctx, func(original, translated string) {
			if original != "" {
				fmt.Fprintf(out, "%s: %s\n", d.Source(), original)
			}
			fmt.Fprintf(out, "%s: %s\n\n", d.Target(), translated)
		})
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			l.Stop()
		case <-l.Done():
		}
		<-l.Done()
		log.Info().Msg("listener stopped")
		return nil
	},
}

func init() {
	listenCmd.Flags().StringP("direction", "d", string(lang.DefaultDirection), "zh-en or en-zh")
}
