package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/confluencetools/confluence-session/internal/config"
	"github.com/confluencetools/confluence-session/internal/confluence"
	"github.com/confluencetools/confluence-session/internal/rpc"
	"github.com/confluencetools/confluence-session/pkg/logging"
)

var configFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "confluence-session",
	Short: "Authenticated session tooling for the Confluence remote API",
	Long: `confluence-session opens an authenticated session against a Confluence
server's remote API and exposes page, space and attachment operations,
hiding the compatibility split introduced by Confluence 4.0.`,
	Example: `  confluence-session page DOCS "Release Notes"
  confluence-session attach 425986 ./report.html --comment "nightly build"
  confluence-session serve`,
	SilenceUsage: true,
}

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to configuration file or directory")
}

// openSession loads the configuration, builds the remote service and performs
// the login handshake.
func openSession(ctx context.Context) (*confluence.Session, *config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, nil, err
	}

	logger := logging.New(cfg.Server.LogLevel)

	var opts []rpc.Option
	if cfg.Confluence.HeaderAuth {
		opts = append(opts, rpc.WithBasicAuth(cfg.Confluence.Username, cfg.Confluence.Password))
	}

	client, err := rpc.NewClient(cfg.Confluence.Site, opts...)
	if err != nil {
		return nil, nil, nil, err
	}

	sess, err := confluence.Login(ctx, rpc.NewService(client), cfg.Confluence.Username, cfg.Confluence.Password)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("login to %s: %w", cfg.Confluence.Site, err)
	}

	logger.Debug("session established",
		slog.Int("major_version", sess.ServerInfo().MajorVersion),
		slog.Bool("version4", sess.IsVersion4()))

	return sess, cfg, logger, nil
}

// siteBaseURL prefers the server's self-reported base URL over the configured
// site.
func siteBaseURL(sess *confluence.Session, cfg *config.Config) string {
	if base := sess.ServerInfo().BaseURL; base != "" {
		return base
	}
	return cfg.Confluence.Site
}
