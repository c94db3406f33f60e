package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/confluencetools/confluence-session/internal/confluence"
	"github.com/confluencetools/confluence-session/internal/state"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ConfluenceTools wires the authenticated session into MCP tools.
type ConfluenceTools struct {
	session *confluence.Session
	cache   *state.Cache
	baseURL string
}

// NewConfluenceTools registers the session tools on the server.
func NewConfluenceTools(s *server.MCPServer, session *confluence.Session, cache *state.Cache, baseURL string) *ConfluenceTools {
	ct := &ConfluenceTools{
		session: session,
		cache:   cache,
		baseURL: strings.TrimRight(baseURL, "/"),
	}

	s.AddTool(
		mcp.NewTool(
			"confluence.server_info",
			mcp.WithDescription("Describe the connected Confluence server version"),
			mcp.WithInputSchema[ServerInfoArgs](),
			mcp.WithOutputSchema[ServerInfoResult](),
		),
		mcp.NewTypedToolHandler(ct.handleServerInfo),
	)

	s.AddTool(
		mcp.NewTool(
			"confluence.get_space",
			mcp.WithDescription("Look up a Confluence space by key"),
			mcp.WithInputSchema[GetSpaceArgs](),
			mcp.WithOutputSchema[SpaceResult](),
		),
		mcp.NewTypedToolHandler(ct.handleGetSpace),
	)

	s.AddTool(
		mcp.NewTool(
			"confluence.get_page_summary",
			mcp.WithDescription("Fetch a page summary by space key and title"),
			mcp.WithInputSchema[GetPageSummaryArgs](),
			mcp.WithOutputSchema[PageSummaryResult](),
		),
		mcp.NewTypedToolHandler(ct.handleGetPageSummary),
	)

	s.AddTool(
		mcp.NewTool(
			"confluence.store_page",
			mcp.WithDescription("Create or replace a Confluence page"),
			mcp.WithInputSchema[StorePageArgs](),
			mcp.WithOutputSchema[PageResult](),
		),
		mcp.NewTypedToolHandler(ct.handleStorePage),
	)

	s.AddTool(
		mcp.NewTool(
			"confluence.update_page",
			mcp.WithDescription("Update an existing Confluence page with history options"),
			mcp.WithInputSchema[UpdatePageArgs](),
			mcp.WithOutputSchema[PageResult](),
		),
		mcp.NewTypedToolHandler(ct.handleUpdatePage),
	)

	s.AddTool(
		mcp.NewTool(
			"confluence.list_attachments",
			mcp.WithDescription("List attachment metadata for a page"),
			mcp.WithInputSchema[ListAttachmentsArgs](),
			mcp.WithOutputSchema[AttachmentsResult](),
		),
		mcp.NewTypedToolHandler(ct.handleListAttachments),
	)

	s.AddTool(
		mcp.NewTool(
			"confluence.add_attachment",
			mcp.WithDescription("Upload a local file as a page attachment"),
			mcp.WithInputSchema[AddAttachmentArgs](),
			mcp.WithOutputSchema[AttachmentResult](),
		),
		mcp.NewTypedToolHandler(ct.handleAddAttachment),
	)

	return ct
}

// ServerInfoArgs takes no parameters.
type ServerInfoArgs struct{}

// ServerInfoResult reports the cached server descriptor.
type ServerInfoResult struct {
	MajorVersion int    `json:"majorVersion"`
	MinorVersion int    `json:"minorVersion"`
	PatchLevel   int    `json:"patchLevel"`
	BuildID      string `json:"buildId,omitempty"`
	BaseURL      string `json:"baseUrl,omitempty"`
	Version4     bool   `json:"version4"`
}

func (c *ConfluenceTools) handleServerInfo(_ context.Context, _ mcp.CallToolRequest, _ ServerInfoArgs) (*mcp.CallToolResult, error) {
	info := c.session.ServerInfo()

	result := ServerInfoResult{
		MajorVersion: info.MajorVersion,
		MinorVersion: info.MinorVersion,
		PatchLevel:   info.PatchLevel,
		BuildID:      info.BuildID,
		BaseURL:      info.BaseURL,
		Version4:     c.session.IsVersion4(),
	}

	fallback := fmt.Sprintf("Confluence %d.%d.%d", info.MajorVersion, info.MinorVersion, info.PatchLevel)
	return mcp.NewToolResultStructured(result, fallback), nil
}

// GetSpaceArgs parameters for the space lookup.
type GetSpaceArgs struct {
	Key string `json:"key" jsonschema:"required" jsonschema_description:"Space key"`
}

// SpaceResult models a space.
type SpaceResult struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
	URL  string `json:"url,omitempty"`
}

func (c *ConfluenceTools) handleGetSpace(ctx context.Context, _ mcp.CallToolRequest, args GetSpaceArgs) (*mcp.CallToolResult, error) {
	if strings.TrimSpace(args.Key) == "" {
		return mcp.NewToolResultError("space key must not be empty"), nil
	}

	space, err := c.session.GetSpace(ctx, args.Key)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("confluence get space failed", err), nil
	}

	c.cache.SetLastSpaceKey(space.Key)

	result := SpaceResult{Key: space.Key, Name: space.Name, Type: space.Type, URL: space.URL}
	fallback := fmt.Sprintf("Space %s (%s)", space.Key, space.Name)
	return mcp.NewToolResultStructured(result, fallback), nil
}

// GetPageSummaryArgs parameters for the summary fetch.
type GetPageSummaryArgs struct {
	SpaceKey string `json:"spaceKey" jsonschema:"required" jsonschema_description:"Space key"`
	Title    string `json:"title" jsonschema:"required" jsonschema_description:"Page title"`
}

// PageSummaryResult models a page summary.
type PageSummaryResult struct {
	ID       int64  `json:"id"`
	Space    string `json:"space"`
	Title    string `json:"title"`
	ParentID int64  `json:"parentId,omitempty"`
	URL      string `json:"url,omitempty"`
}

func (c *ConfluenceTools) handleGetPageSummary(ctx context.Context, _ mcp.CallToolRequest, args GetPageSummaryArgs) (*mcp.CallToolResult, error) {
	summary, err := c.session.GetPageSummary(ctx, args.SpaceKey, args.Title)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("confluence get page summary failed", err), nil
	}

	c.cache.RememberPage(state.PageRef{ID: summary.ID, Space: summary.Space, Title: summary.Title})
	c.cache.SetLastSpaceKey(summary.Space)

	result := PageSummaryResult{
		ID:       summary.ID,
		Space:    summary.Space,
		Title:    summary.Title,
		ParentID: summary.ParentID,
		URL:      summary.URL,
	}

	fallback := fmt.Sprintf("Page %s/%s (id %d)", summary.Space, summary.Title, summary.ID)
	return mcp.NewToolResultStructured(result, fallback), nil
}

// StorePageArgs parameters for page creation/replacement.
type StorePageArgs struct {
	SpaceKey string `json:"spaceKey" jsonschema:"required" jsonschema_description:"Space key"`
	Title    string `json:"title" jsonschema:"required" jsonschema_description:"Page title"`
	Content  string `json:"content" jsonschema:"required" jsonschema_description:"Page content in wiki markup"`
	ParentID int64  `json:"parentId,omitempty" jsonschema_description:"Parent page ID"`
}

// PageResult response for store/update.
type PageResult struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Version int    `json:"version"`
	URL     string `json:"url,omitempty"`
}

func (c *ConfluenceTools) handleStorePage(ctx context.Context, _ mcp.CallToolRequest, args StorePageArgs) (*mcp.CallToolResult, error) {
	stored, err := c.session.StorePage(ctx, confluence.Page{
		Space:    args.SpaceKey,
		Title:    args.Title,
		Content:  args.Content,
		ParentID: args.ParentID,
	})
	if err != nil {
		return mcp.NewToolResultErrorFromErr("confluence store page failed", err), nil
	}

	c.cache.RememberPage(state.PageRef{ID: stored.ID, Space: stored.Space, Title: stored.Title, Version: stored.Version})

	result := PageResult{ID: stored.ID, Title: stored.Title, Version: stored.Version, URL: stored.URL}
	fallback := fmt.Sprintf("Stored page %s (id %d)", stored.Title, stored.ID)
	return mcp.NewToolResultStructured(result, fallback), nil
}

// UpdatePageArgs parameters for page update. PageID may be omitted when a
// prior lookup in this session already resolved the page.
type UpdatePageArgs struct {
	PageID         int64  `json:"pageId,omitempty" jsonschema_description:"Page ID; resolved from a prior lookup when omitted"`
	SpaceKey       string `json:"spaceKey" jsonschema:"required" jsonschema_description:"Space key"`
	Title          string `json:"title" jsonschema:"required" jsonschema_description:"Page title"`
	Content        string `json:"content" jsonschema:"required" jsonschema_description:"Page content in wiki markup"`
	Version        int    `json:"version" jsonschema:"required" jsonschema_description:"Current page version"`
	VersionComment string `json:"versionComment,omitempty" jsonschema_description:"History comment"`
	MinorEdit      bool   `json:"minorEdit,omitempty" jsonschema_description:"Record as a minor edit"`
}

func (c *ConfluenceTools) handleUpdatePage(ctx context.Context, _ mcp.CallToolRequest, args UpdatePageArgs) (*mcp.CallToolResult, error) {
	if args.Version == 0 {
		return mcp.NewToolResultError("page version required"), nil
	}

	pageID := args.PageID
	if pageID == 0 {
		ref, ok := c.cache.Page(args.SpaceKey, args.Title)
		if !ok {
			return mcp.NewToolResultError("page id required (no prior lookup for this page)"), nil
		}
		pageID = ref.ID
	}

	updated, err := c.session.UpdatePage(ctx, confluence.Page{
		ID:      pageID,
		Space:   args.SpaceKey,
		Title:   args.Title,
		Content: args.Content,
		Version: args.Version,
	}, confluence.PageUpdateOptions{
		VersionComment: args.VersionComment,
		MinorEdit:      args.MinorEdit,
	})
	if err != nil {
		return mcp.NewToolResultErrorFromErr("confluence update page failed", err), nil
	}

	c.cache.RememberPage(state.PageRef{ID: updated.ID, Space: updated.Space, Title: updated.Title, Version: updated.Version})

	result := PageResult{ID: updated.ID, Title: updated.Title, Version: updated.Version, URL: updated.URL}
	fallback := fmt.Sprintf("Updated page %s to version %d", updated.Title, updated.Version)
	return mcp.NewToolResultStructured(result, fallback), nil
}

// ListAttachmentsArgs parameters for the attachment listing.
type ListAttachmentsArgs struct {
	PageID int64 `json:"pageId" jsonschema:"required" jsonschema_description:"Page ID"`
}

// AttachmentInfo models one attachment record.
type AttachmentInfo struct {
	ID          int64  `json:"id"`
	FileName    string `json:"fileName"`
	FileSize    int64  `json:"fileSize"`
	ContentType string `json:"contentType"`
	Comment     string `json:"comment,omitempty"`
	URL         string `json:"url,omitempty"`
}

// AttachmentsResult wraps the listing.
type AttachmentsResult struct {
	Attachments []AttachmentInfo `json:"attachments"`
}

func (c *ConfluenceTools) handleListAttachments(ctx context.Context, _ mcp.CallToolRequest, args ListAttachmentsArgs) (*mcp.CallToolResult, error) {
	if args.PageID == 0 {
		return mcp.NewToolResultError("page id required"), nil
	}

	attachments, err := c.session.GetAttachments(ctx, args.PageID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("confluence list attachments failed", err), nil
	}

	result := AttachmentsResult{Attachments: make([]AttachmentInfo, 0, len(attachments))}
	for _, att := range attachments {
		result.Attachments = append(result.Attachments, AttachmentInfo{
			ID:          att.ID,
			FileName:    att.FileName,
			FileSize:    att.FileSize,
			ContentType: att.ContentType,
			Comment:     att.Comment,
			URL:         att.URL,
		})
	}

	fallback := fmt.Sprintf("Found %d attachments", len(result.Attachments))
	return mcp.NewToolResultStructured(result, fallback), nil
}

// AddAttachmentArgs parameters for the upload.
type AddAttachmentArgs struct {
	PageID      int64  `json:"pageId" jsonschema:"required" jsonschema_description:"Page ID"`
	Path        string `json:"path" jsonschema:"required" jsonschema_description:"Local file path"`
	ContentType string `json:"contentType,omitempty" jsonschema_description:"MIME type; guessed from the extension when omitted"`
	Comment     string `json:"comment,omitempty" jsonschema_description:"Attachment comment"`
}

// AttachmentResult response for the upload.
type AttachmentResult struct {
	ID       int64  `json:"id"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	URL      string `json:"url,omitempty"`
}

func (c *ConfluenceTools) handleAddAttachment(ctx context.Context, _ mcp.CallToolRequest, args AddAttachmentArgs) (*mcp.CallToolResult, error) {
	if args.PageID == 0 {
		return mcp.NewToolResultError("page id required"), nil
	}
	if strings.TrimSpace(args.Path) == "" {
		return mcp.NewToolResultError("file path required"), nil
	}

	contentType := args.ContentType
	if contentType == "" {
		contentType = confluence.DetectContentType(args.Path)
	}

	att, err := c.session.AddAttachmentPath(ctx, args.PageID, args.Path, contentType, args.Comment)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("confluence add attachment failed", err), nil
	}

	result := AttachmentResult{ID: att.ID, FileName: att.FileName, FileSize: att.FileSize, URL: att.URL}
	fallback := fmt.Sprintf("Attached %s (%d bytes)", att.FileName, att.FileSize)
	return mcp.NewToolResultStructured(result, fallback), nil
}
