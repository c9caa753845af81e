// Package mcp exposes dictionary lookups as Model Context Protocol tools.
package mcp

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"

	"github.com/heartmarshall/quickdict/internal/service/lookup"
)

// Server wraps an MCP server with the lookup tools.
type Server struct {
	newSession lookup.SessionFactory
	log        *slog.Logger
	mcp        *server.MCPServer
}

// NewServer creates the MCP server. Every tool call runs in its own
// short-lived session built by factory.
func NewServer(factory lookup.SessionFactory, version string, logger *slog.Logger) *Server {
	s := &Server{
		newSession: factory,
		log:        logger.With("transport", "mcp"),
	}

	s.mcp = server.NewMCPServer(
		"quickdict",
		version,
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(lookupWordTool, s.handleLookupWord)
	s.mcp.AddTool(checkWordTool, s.handleCheckWord)

	return s
}

// Serve runs the server on stdio. Stdout carries protocol messages, so
// logging must go elsewhere.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) session() *lookup.Session {
	return s.newSession("mcp-" + uuid.NewString())
}
