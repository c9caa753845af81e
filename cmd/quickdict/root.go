package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/quickdict/internal/app"
	"github.com/heartmarshall/quickdict/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "quickdict",
	Short: "Look up English words as you type",
	Long: `quickdict looks words up in the free dictionary API while you type,
showing definitions, examples, synonyms and a playable pronunciation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default $CONFIG_PATH or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// loadConfig reads the config file named by --config, falling back to
// CONFIG_PATH.
func loadConfig() (*config.Config, error) {
	load := config.Load
	if cfgFile != "" {
		load = func() (*config.Config, error) { return config.LoadFile(cfgFile) }
	}
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// setup loads config and builds the logger and the app. The returned func
// closes the log file.
func setup() (*app.App, *slog.Logger, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	return build(cfg)
}

func build(cfg *config.Config) (*app.App, *slog.Logger, func(), error) {
	logger, closeLog, err := app.NewLogger(cfg.Log)
	if err != nil {
		return nil, nil, nil, err
	}
	return app.New(cfg, logger), logger, closeLog, nil
}
