package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/quickdict/internal/app"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of quickdict",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "quickdict %s\n", app.BuildVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
