// Package cli wires configuration, logging and the pipeline into cobra commands.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/obiente/translate/govoice/internal/config"
)

var (
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "govoice",
	Short: "Chinese/English voice and text translator",
	Long: `Chinese/English voice and text translator.

Without a subcommand the web server is started (same as "serve").
Settings come from flags, then environment variables, then --config,
then a .env file in the working directory.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runServe,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "console", "log format (console or json)")
	pf.String("model-dir", "./models", "directory holding speech models")
	addServeFlags(rootCmd)

	rootCmd.AddCommand(serveCmd, setupCmd, verifyCmd, translateCmd, listenCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"log-level":  "log_level",
	"log-format": "log_format",
	"model-dir":  "model_dir",
	"port":       "port",
	"cache-dir":  "cache_dir",
	"tts":        "tts_enabled",
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	v, err := config.New(cfgFile)
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	if cfg, err = config.Load(v); err != nil {
		return err
	}
	setupLogging(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	return nil
}

// bindFlags lets explicitly set flags override every other source.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}
