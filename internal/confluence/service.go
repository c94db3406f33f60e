package confluence

import "context"

// Service is the remote Confluence v1 API contract. Every method except Login
// takes the authentication token obtained from Login as its first argument.
//
// Implementations perform a single blocking round trip per call; retry policy,
// if any, belongs to the caller.
type Service interface {
	// Login exchanges credentials for an authentication token.
	Login(ctx context.Context, username, password string) (string, error)

	// GetServerInfo returns the server's version descriptor.
	GetServerInfo(ctx context.Context, token string) (ServerInfo, error)

	// GetSpace looks up a space by key.
	GetSpace(ctx context.Context, token, spaceKey string) (*Space, error)

	// GetPage fetches a full page by space and title. Broken on Confluence
	// 4.0+ servers; the Session guards it.
	GetPage(ctx context.Context, token, spaceKey, pageKey string) (*Page, error)

	// GetPageSummary fetches a page without content. Only available on
	// Confluence 4.0+ servers.
	GetPageSummary(ctx context.Context, token, spaceKey, pageKey string) (*PageSummary, error)

	// StorePage creates or replaces a page and returns the canonical stored
	// record.
	StorePage(ctx context.Context, token string, page Page) (*Page, error)

	// UpdatePage updates an existing page with history options.
	UpdatePage(ctx context.Context, token string, page Page, options PageUpdateOptions) (*Page, error)

	// GetAttachments lists attachment metadata for a page.
	GetAttachments(ctx context.Context, token string, pageID int64) ([]Attachment, error)

	// AddAttachment uploads the payload with its metadata record and returns
	// the server-assigned record. The full byte array is required up front;
	// the remote contract has no streaming upload.
	AddAttachment(ctx context.Context, token string, att Attachment, data []byte) (*Attachment, error)
}
