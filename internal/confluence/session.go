package confluence

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnsupportedVersion is returned when a caller invokes an operation that
// the remote server's major version no longer supports. It is raised locally,
// before any remote call is attempted.
var ErrUnsupportedVersion = errors.New("confluence: operation not supported on Confluence 4.0 and newer")

// Session is an authenticated connection to a Confluence server. It threads
// the login token through every remote call and hides the compatibility split
// introduced by the 4.0 server line.
//
// All fields are immutable after construction, so a single Session is safe
// for concurrent use without additional locking.
type Session struct {
	service Service
	token   string
	info    ServerInfo
}

// NewSession wraps an already-authenticated token and server descriptor.
func NewSession(service Service, token string, info ServerInfo) *Session {
	return &Session{service: service, token: token, info: info}
}

// Login performs the remote login handshake, snapshots the server descriptor
// with the fresh token and returns the resulting Session.
func Login(ctx context.Context, service Service, username, password string) (*Session, error) {
	token, err := service.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("confluence: login: %w", err)
	}

	info, err := service.GetServerInfo(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("confluence: server info: %w", err)
	}

	return NewSession(service, token, info), nil
}

// ServerInfo returns the descriptor snapshot taken at login. It never calls
// the remote service.
func (s *Session) ServerInfo() ServerInfo {
	return s.info
}

// IsVersion4 reports whether the server is 4.0 or newer.
func (s *Session) IsVersion4() bool {
	return s.info.MajorVersion >= 4
}

// GetSpace looks up a space by key.
func (s *Session) GetSpace(ctx context.Context, spaceKey string) (*Space, error) {
	return s.service.GetSpace(ctx, s.token, spaceKey)
}

// GetPage fetches a full page by space and title.
//
// Deprecated: the underlying remote operation is broken on Confluence 4.0 and
// newer; calling this against such a server fails with ErrUnsupportedVersion
// without attempting a remote call. Use GetPageSummary instead.
func (s *Session) GetPage(ctx context.Context, spaceKey, pageKey string) (*Page, error) {
	if s.IsVersion4() {
		return nil, fmt.Errorf("getPage %s/%s: %w", spaceKey, pageKey, ErrUnsupportedVersion)
	}

	return s.service.GetPage(ctx, s.token, spaceKey, pageKey)
}

// GetPageSummary bridges the version split around page retrieval. Servers
// older than 4.0 never shipped the dedicated summary operation, so the full
// page is fetched and projected down; 4.0 and newer use the summary operation
// directly. Callers should prefer this over GetPage.
func (s *Session) GetPageSummary(ctx context.Context, spaceKey, pageKey string) (*PageSummary, error) {
	if !s.IsVersion4() {
		page, err := s.GetPage(ctx, spaceKey, pageKey)
		if err != nil {
			return nil, err
		}
		summary := page.Summary()
		return &summary, nil
	}

	return s.service.GetPageSummary(ctx, s.token, spaceKey, pageKey)
}

// StorePage creates or replaces a page and returns the canonical stored
// record.
func (s *Session) StorePage(ctx context.Context, page Page) (*Page, error) {
	return s.service.StorePage(ctx, s.token, page)
}

// UpdatePage updates an existing page with the given history options.
func (s *Session) UpdatePage(ctx context.Context, page Page, options PageUpdateOptions) (*Page, error) {
	return s.service.UpdatePage(ctx, s.token, page, options)
}

// GetAttachments lists all attachment metadata for a page. The slice is empty
// when the page has no attachments.
func (s *Session) GetAttachments(ctx context.Context, pageID int64) ([]Attachment, error) {
	return s.service.GetAttachments(ctx, s.token, pageID)
}
