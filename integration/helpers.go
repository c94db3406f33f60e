package integration

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/confluencetools/confluence-session/internal/confluence"
	"github.com/confluencetools/confluence-session/internal/rpc"
)

// requireIntegration skips the test unless CONFLUENCE_INTEGRATION is set.
func requireIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("CONFLUENCE_INTEGRATION") == "" {
		t.Skip("CONFLUENCE_INTEGRATION not set; skipping integration tests")
	}
}

// ensureHTTPS adds an https:// prefix when the scheme is missing.
func ensureHTTPS(site string) string {
	trimmed := strings.TrimSpace(site)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return strings.TrimRight(trimmed, "/")
	}
	return "https://" + strings.TrimRight(trimmed, "/")
}

// setupSession logs in against a live server using CONFLUENCE_SITE,
// CONFLUENCE_USERNAME and CONFLUENCE_PASSWORD. The test is skipped when any
// of them is missing.
func setupSession(t *testing.T) (*confluence.Session, string) {
	t.Helper()

	site := ensureHTTPS(os.Getenv("CONFLUENCE_SITE"))
	if site == "" {
		t.Skip("CONFLUENCE_SITE not set")
	}

	username := os.Getenv("CONFLUENCE_USERNAME")
	password := os.Getenv("CONFLUENCE_PASSWORD")
	if username == "" || password == "" {
		t.Skip("Confluence credentials not provided")
	}

	client, err := rpc.NewClient(site)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	sess, err := confluence.Login(context.Background(), rpc.NewService(client), username, password)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	return sess, site
}
