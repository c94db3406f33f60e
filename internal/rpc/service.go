package rpc

import (
	"context"
	"encoding/base64"

	"github.com/confluencetools/confluence-session/internal/confluence"
)

// Service exposes the Confluence v1 remote API over a JSON-RPC client. Each
// method maps one-to-one onto a remote operation, with the caller's
// authentication token as the first positional parameter.
type Service struct {
	client *Client
}

// NewService constructs a Service around the given client.
func NewService(client *Client) *Service {
	return &Service{client: client}
}

var _ confluence.Service = (*Service)(nil)

// Login exchanges credentials for an authentication token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	var token string
	if err := s.client.Call(ctx, "login", []any{username, password}, &token); err != nil {
		return "", err
	}
	return token, nil
}

// GetServerInfo returns the server's version descriptor.
func (s *Service) GetServerInfo(ctx context.Context, token string) (confluence.ServerInfo, error) {
	var info confluence.ServerInfo
	if err := s.client.Call(ctx, "getServerInfo", []any{token}, &info); err != nil {
		return confluence.ServerInfo{}, err
	}
	return info, nil
}

// GetSpace looks up a space by key.
func (s *Service) GetSpace(ctx context.Context, token, spaceKey string) (*confluence.Space, error) {
	var space confluence.Space
	if err := s.client.Call(ctx, "getSpace", []any{token, spaceKey}, &space); err != nil {
		return nil, err
	}
	return &space, nil
}

// GetPage fetches a full page by space and title.
func (s *Service) GetPage(ctx context.Context, token, spaceKey, pageKey string) (*confluence.Page, error) {
	var page confluence.Page
	if err := s.client.Call(ctx, "getPage", []any{token, spaceKey, pageKey}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPageSummary fetches a page without its content.
func (s *Service) GetPageSummary(ctx context.Context, token, spaceKey, pageKey string) (*confluence.PageSummary, error) {
	var summary confluence.PageSummary
	if err := s.client.Call(ctx, "getPageSummary", []any{token, spaceKey, pageKey}, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// StorePage creates or replaces a page.
func (s *Service) StorePage(ctx context.Context, token string, page confluence.Page) (*confluence.Page, error) {
	var stored confluence.Page
	if err := s.client.Call(ctx, "storePage", []any{token, page}, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// UpdatePage updates an existing page with history options.
func (s *Service) UpdatePage(ctx context.Context, token string, page confluence.Page, options confluence.PageUpdateOptions) (*confluence.Page, error) {
	var updated confluence.Page
	if err := s.client.Call(ctx, "updatePage", []any{token, page, options}, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// GetAttachments lists attachment metadata for a page.
func (s *Service) GetAttachments(ctx context.Context, token string, pageID int64) ([]confluence.Attachment, error) {
	var attachments []confluence.Attachment
	if err := s.client.Call(ctx, "getAttachments", []any{token, pageID}, &attachments); err != nil {
		return nil, err
	}
	return attachments, nil
}

// AddAttachment uploads the payload with its metadata record. The byte array
// travels base64-encoded as the final positional parameter.
func (s *Service) AddAttachment(ctx context.Context, token string, att confluence.Attachment, data []byte) (*confluence.Attachment, error) {
	encoded := base64.StdEncoding.EncodeToString(data)

	var stored confluence.Attachment
	if err := s.client.Call(ctx, "addAttachment", []any{token, att, encoded}, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}
