package commands

import (
	"github.com/spf13/cobra"

	"github.com/mark3labs/mcp-go/server"

	mcpserver "github.com/confluencetools/confluence-session/internal/mcp"
	"github.com/confluencetools/confluence-session/internal/state"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP stdio server exposing session tools",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	sess, cfg, logger, err := openSession(cmd.Context())
	if err != nil {
		return err
	}

	srv := mcpserver.NewServer(mcpserver.Dependencies{
		Session: sess,
		Cache:   state.NewCache(),
		BaseURL: siteBaseURL(sess, cfg),
		Logger:  logger,
	})

	return server.ServeStdio(srv)
}
