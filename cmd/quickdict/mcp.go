package main

import (
	"github.com/spf13/cobra"

	"github.com/heartmarshall/quickdict/internal/app"
	"github.com/heartmarshall/quickdict/internal/transport/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve dictionary tools over MCP on stdio",
	Long: `Starts a Model Context Protocol server on stdin/stdout exposing the
lookup_word and check_word tools. Logs go to stderr or the configured file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, logger, closeLog, err := setup()
		if err != nil {
			return err
		}
		defer closeLog()

		return mcp.NewServer(a.Factory(), app.Version, logger).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
