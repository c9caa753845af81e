package mcp

import "github.com/mark3labs/mcp-go/mcp"

var lookupWordTool = mcp.NewTool("lookup_word",
	mcp.WithDescription("Look up an English word in the Free Dictionary API. Returns pronunciation, parts of speech, definitions, examples and synonyms."),
	mcp.WithString("word",
		mcp.Required(),
		mcp.Description("A single English word, letters only"),
	),
)

var checkWordTool = mcp.NewTool("check_word",
	mcp.WithDescription("Check whether text is a valid lookup query (one word, letters only) without calling the dictionary."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("Text to validate"),
	),
)
