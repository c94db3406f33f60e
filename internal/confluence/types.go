package confluence

// ServerInfo describes the remote Confluence server. It is fetched once at
// login and cached for the lifetime of a Session; compatibility decisions use
// that snapshot, never a fresh lookup.
type ServerInfo struct {
	MajorVersion     int    `json:"majorVersion"`
	MinorVersion     int    `json:"minorVersion"`
	PatchLevel       int    `json:"patchLevel"`
	BuildID          string `json:"buildId"`
	DevelopmentBuild bool   `json:"developmentBuild"`
	BaseURL          string `json:"baseUrl"`
}

// Space represents a Confluence space.
type Space struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Page is the full remote page representation, content included.
type Page struct {
	ID       int64  `json:"id,omitempty"`
	Space    string `json:"space"`
	ParentID int64  `json:"parentId,omitempty"`
	Title    string `json:"title"`
	Content  string `json:"content,omitempty"`
	Version  int    `json:"version,omitempty"`
	URL      string `json:"url,omitempty"`
}

// PageSummary is a Page without its body content.
type PageSummary struct {
	ID       int64  `json:"id"`
	Space    string `json:"space"`
	ParentID int64  `json:"parentId,omitempty"`
	Title    string `json:"title"`
	URL      string `json:"url,omitempty"`
}

// Summary projects the page down to its summary fields.
func (p Page) Summary() PageSummary {
	return PageSummary{
		ID:       p.ID,
		Space:    p.Space,
		ParentID: p.ParentID,
		Title:    p.Title,
		URL:      p.URL,
	}
}

// PageUpdateOptions controls how an update is recorded in page history.
type PageUpdateOptions struct {
	VersionComment string `json:"versionComment,omitempty"`
	MinorEdit      bool   `json:"minorEdit"`
}

// Attachment is the metadata for a named binary payload attached to a page.
// The payload itself travels alongside the record on upload.
type Attachment struct {
	ID          int64  `json:"id,omitempty"`
	PageID      int64  `json:"pageId"`
	FileName    string `json:"fileName"`
	FileSize    int64  `json:"fileSize"`
	ContentType string `json:"contentType"`
	Comment     string `json:"comment,omitempty"`
	Creator     string `json:"creator,omitempty"`
	Created     string `json:"created,omitempty"`
	URL         string `json:"url,omitempty"`
}
