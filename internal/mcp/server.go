package mcp

import (
	"log/slog"

	"github.com/confluencetools/confluence-session/internal/confluence"
	"github.com/confluencetools/confluence-session/internal/state"

	"github.com/mark3labs/mcp-go/server"
)

// Dependencies bundles what the MCP server needs at construction time.
type Dependencies struct {
	Session *confluence.Session
	Cache   *state.Cache
	BaseURL string
	Logger  *slog.Logger
}

// NewServer builds an MCP server exposing the Confluence session tools.
func NewServer(deps Dependencies) *server.MCPServer {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	srv := server.NewMCPServer(
		"Confluence Session",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithInstructions("Tools for Confluence page, space and attachment operations."),
		server.WithRecovery(),
	)

	if deps.Cache == nil {
		deps.Cache = state.NewCache()
	}

	if deps.Session != nil {
		NewConfluenceTools(srv, deps.Session, deps.Cache, deps.BaseURL)
	}

	return srv
}
