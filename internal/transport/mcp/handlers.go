package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/heartmarshall/quickdict/internal/domain"
	"github.com/heartmarshall/quickdict/internal/render"
)

// handleLookupWord runs one lookup and renders the resulting state.
// Rejected input and lookup failures come back as tool errors carrying the
// user-facing status message.
func (s *Server) handleLookupWord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	word, err := request.RequireString("word")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: word"), nil
	}
	if domain.ValidateQuery(word).Kind == domain.QueryEmpty {
		return mcp.NewToolResultError("nothing to look up"), nil
	}

	sess := s.session()
	defer sess.Close()

	st, err := sess.Commit(ctx, word)
	if err != nil {
		s.log.DebugContext(ctx, "lookup_word failed", slog.String("word", word), slog.String("error", err.Error()))
		return mcp.NewToolResultError(domain.StatusMessage(err)), nil
	}
	if !st.HasData() {
		return mcp.NewToolResultError(domain.MsgNotFound), nil
	}

	return mcp.NewToolResultText(render.Text(st)), nil
}

func (s *Server) handleCheckWord(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: text"), nil
	}

	res := domain.ValidateQuery(text)
	switch res.Kind {
	case domain.QueryValid:
		return mcp.NewToolResultText(fmt.Sprintf("valid: %q", res.Query)), nil
	case domain.QueryEmpty:
		return mcp.NewToolResultText("empty: nothing to look up"), nil
	default:
		return mcp.NewToolResultText("invalid: " + res.Message), nil
	}
}
