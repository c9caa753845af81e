package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/quickdict/internal/tui"
)

var tuiLogFile string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Search interactively in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-file") || cfg.Log.File == "" {
			cfg.Log.File = tuiLogFile
		}

		a, _, closeLog, err := build(cfg)
		if err != nil {
			return err
		}
		defer closeLog()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sess := a.NewSession("tui")
		defer sess.Close()

		return tui.Run(ctx, sess)
	},
}

func init() {
	tuiCmd.Flags().StringVar(&tuiLogFile, "log-file", filepath.Join(os.TempDir(), "quickdict.log"), "log destination while the UI owns the terminal")
	rootCmd.AddCommand(tuiCmd)
}
