// Command quickdict looks up English words in the free dictionary API.
//
// Subcommands run it as an HTTP/WebSocket server, an interactive terminal UI,
// an MCP tool server on stdio, or a one-shot lookup.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
