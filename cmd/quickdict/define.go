package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/quickdict/internal/domain"
	"github.com/heartmarshall/quickdict/internal/render"
)

var playAudio bool

var defineCmd = &cobra.Command{
	Use:   "define <word>",
	Short: "Look up one word and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !verbose {
			cfg.Log.Level = "warn"
		}

		a, _, closeLog, err := build(cfg)
		if err != nil {
			return err
		}
		defer closeLog()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sess := a.NewSession("cli")
		defer sess.Close()

		st, err := sess.Commit(ctx, args[0])
		if err != nil {
			return errors.New(domain.StatusMessage(err))
		}
		if !st.HasData() {
			return errors.New("nothing to look up")
		}

		render.WriteText(cmd.OutOrStdout(), st)

		if playAudio {
			return sess.Play(ctx)
		}
		return nil
	},
}

func init() {
	defineCmd.Flags().BoolVarP(&playAudio, "play", "p", false, "play the pronunciation after printing")
	rootCmd.AddCommand(defineCmd)
}
