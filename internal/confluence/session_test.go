package confluence

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type call struct {
	method string
	token  string
}

// fakeService records every remote invocation along with the token it was
// given.
type fakeService struct {
	mu    sync.Mutex
	calls []call

	loginToken  string
	info        ServerInfo
	space       *Space
	page        *Page
	summary     *PageSummary
	attachments []Attachment
	storedPage  *Page
	storedAtt   *Attachment
	err         error

	lastPage    Page
	lastOptions PageUpdateOptions
	lastAtt     Attachment
	lastData    []byte
}

func (f *fakeService) record(method, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{method: method, token: token})
}

func (f *fakeService) recorded() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func (f *fakeService) Login(ctx context.Context, username, password string) (string, error) {
	f.record("login", "")
	return f.loginToken, f.err
}

func (f *fakeService) GetServerInfo(ctx context.Context, token string) (ServerInfo, error) {
	f.record("getServerInfo", token)
	return f.info, f.err
}

func (f *fakeService) GetSpace(ctx context.Context, token, spaceKey string) (*Space, error) {
	f.record("getSpace", token)
	return f.space, f.err
}

func (f *fakeService) GetPage(ctx context.Context, token, spaceKey, pageKey string) (*Page, error) {
	f.record("getPage", token)
	return f.page, f.err
}

func (f *fakeService) GetPageSummary(ctx context.Context, token, spaceKey, pageKey string) (*PageSummary, error) {
	f.record("getPageSummary", token)
	return f.summary, f.err
}

func (f *fakeService) StorePage(ctx context.Context, token string, page Page) (*Page, error) {
	f.record("storePage", token)
	f.lastPage = page
	return f.storedPage, f.err
}

func (f *fakeService) UpdatePage(ctx context.Context, token string, page Page, options PageUpdateOptions) (*Page, error) {
	f.record("updatePage", token)
	f.lastPage = page
	f.lastOptions = options
	return f.storedPage, f.err
}

func (f *fakeService) GetAttachments(ctx context.Context, token string, pageID int64) ([]Attachment, error) {
	f.record("getAttachments", token)
	return f.attachments, f.err
}

func (f *fakeService) AddAttachment(ctx context.Context, token string, att Attachment, data []byte) (*Attachment, error) {
	f.record("addAttachment", token)
	f.lastAtt = att
	f.lastData = append([]byte(nil), data...)
	return f.storedAtt, f.err
}

func newTestSession(major int, svc *fakeService) *Session {
	svc.info = ServerInfo{MajorVersion: major, MinorVersion: 1}
	return NewSession(svc, "tok", svc.info)
}

func TestIsVersion4(t *testing.T) {
	t.Parallel()

	cases := []struct {
		major int
		want  bool
	}{
		{1, false},
		{2, false},
		{3, false},
		{4, true},
		{5, true},
	}

	for _, tc := range cases {
		sess := newTestSession(tc.major, &fakeService{})
		if got := sess.IsVersion4(); got != tc.want {
			t.Fatalf("IsVersion4 with major %d = %t, want %t", tc.major, got, tc.want)
		}
	}
}

func TestGetPageRefusesVersion4(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	sess := newTestSession(4, svc)

	_, err := sess.GetPage(context.Background(), "SPACE", "Title")
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}

	if calls := svc.recorded(); len(calls) != 0 {
		t.Fatalf("expected no remote call, got %v", calls)
	}
}

func TestGetPageForwardsBeforeVersion4(t *testing.T) {
	t.Parallel()

	svc := &fakeService{page: &Page{ID: 7, Space: "SPACE", Title: "Title", Content: "body"}}
	sess := newTestSession(3, svc)

	page, err := sess.GetPage(context.Background(), "SPACE", "Title")
	if err != nil {
		t.Fatalf("GetPage error: %v", err)
	}
	if page.ID != 7 || page.Content != "body" {
		t.Fatalf("unexpected page %#v", page)
	}

	calls := svc.recorded()
	if len(calls) != 1 || calls[0].method != "getPage" {
		t.Fatalf("unexpected calls %v", calls)
	}
	if calls[0].token != "tok" {
		t.Fatalf("expected login token to be threaded, got %q", calls[0].token)
	}
}

func TestGetPageSummaryDerivesFromFullPage(t *testing.T) {
	t.Parallel()

	svc := &fakeService{page: &Page{ID: 7, Space: "SPACE", ParentID: 3, Title: "Title", Content: "body", URL: "https://wiki/7"}}
	sess := newTestSession(3, svc)

	summary, err := sess.GetPageSummary(context.Background(), "SPACE", "Title")
	if err != nil {
		t.Fatalf("GetPageSummary error: %v", err)
	}

	want := svc.page.Summary()
	if *summary != want {
		t.Fatalf("summary %#v, want projection %#v", *summary, want)
	}

	for _, c := range svc.recorded() {
		if c.method == "getPageSummary" {
			t.Fatalf("summary operation must not be used before version 4")
		}
	}
}

func TestGetPageSummaryDirectOnVersion4(t *testing.T) {
	t.Parallel()

	svc := &fakeService{summary: &PageSummary{ID: 9, Space: "SPACE", Title: "Title"}}
	sess := newTestSession(4, svc)

	summary, err := sess.GetPageSummary(context.Background(), "SPACE", "Title")
	if err != nil {
		t.Fatalf("GetPageSummary error: %v", err)
	}
	if summary.ID != 9 {
		t.Fatalf("unexpected summary %#v", summary)
	}

	calls := svc.recorded()
	if len(calls) != 1 || calls[0].method != "getPageSummary" {
		t.Fatalf("unexpected calls %v", calls)
	}
}

func TestGetPageSummaryMatchesGetPageBeforeVersion4(t *testing.T) {
	t.Parallel()

	svc := &fakeService{page: &Page{ID: 12, Space: "SPACE", Title: "KEY", Content: "body"}}
	sess := newTestSession(3, svc)

	page, err := sess.GetPage(context.Background(), "SPACE", "KEY")
	if err != nil {
		t.Fatalf("GetPage error: %v", err)
	}

	summary, err := sess.GetPageSummary(context.Background(), "SPACE", "KEY")
	if err != nil {
		t.Fatalf("GetPageSummary error: %v", err)
	}

	if *summary != page.Summary() {
		t.Fatalf("summary %#v does not match page projection %#v", *summary, page.Summary())
	}
}

func TestLoginSnapshotsServerInfo(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		loginToken: "fresh-token",
		info:       ServerInfo{MajorVersion: 3, MinorVersion: 5, BaseURL: "https://wiki.example.com"},
	}

	sess, err := Login(context.Background(), svc, "user", "secret")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	if sess.ServerInfo() != svc.info {
		t.Fatalf("unexpected server info %#v", sess.ServerInfo())
	}

	calls := svc.recorded()
	if len(calls) != 2 || calls[0].method != "login" || calls[1].method != "getServerInfo" {
		t.Fatalf("unexpected handshake calls %v", calls)
	}
	if calls[1].token != "fresh-token" {
		t.Fatalf("server info must use the fresh token, got %q", calls[1].token)
	}

	// The snapshot is reused; no further remote lookups.
	_ = sess.ServerInfo()
	if len(svc.recorded()) != 2 {
		t.Fatalf("ServerInfo must not call the remote service")
	}
}

func TestLoginFailurePropagates(t *testing.T) {
	t.Parallel()

	injected := errors.New("invalid credentials")
	svc := &fakeService{err: injected}

	_, err := Login(context.Background(), svc, "user", "wrong")
	if !errors.Is(err, injected) {
		t.Fatalf("expected login failure to propagate, got %v", err)
	}
}

func TestUpdatePagePassesOptions(t *testing.T) {
	t.Parallel()

	svc := &fakeService{storedPage: &Page{ID: 7, Title: "Title", Version: 3}}
	sess := newTestSession(4, svc)

	opts := PageUpdateOptions{VersionComment: "nightly publish", MinorEdit: true}
	updated, err := sess.UpdatePage(context.Background(), Page{ID: 7, Title: "Title", Version: 2}, opts)
	if err != nil {
		t.Fatalf("UpdatePage error: %v", err)
	}
	if updated.Version != 3 {
		t.Fatalf("unexpected updated page %#v", updated)
	}
	if svc.lastOptions != opts {
		t.Fatalf("options not passed through: %#v", svc.lastOptions)
	}
}

func TestRemoteErrorsPropagateUnmodified(t *testing.T) {
	t.Parallel()

	injected := errors.New("space not found")
	svc := &fakeService{err: injected}
	sess := newTestSession(3, svc)

	if _, err := sess.GetSpace(context.Background(), "NOPE"); !errors.Is(err, injected) {
		t.Fatalf("expected remote error to propagate, got %v", err)
	}
	if _, err := sess.GetAttachments(context.Background(), 42); !errors.Is(err, injected) {
		t.Fatalf("expected remote error to propagate, got %v", err)
	}
}

func TestGetAttachmentsEmpty(t *testing.T) {
	t.Parallel()

	svc := &fakeService{attachments: []Attachment{}}
	sess := newTestSession(4, svc)

	attachments, err := sess.GetAttachments(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetAttachments error: %v", err)
	}
	if len(attachments) != 0 {
		t.Fatalf("expected empty slice, got %#v", attachments)
	}
}

func TestConcurrentCallsShareSnapshot(t *testing.T) {
	t.Parallel()

	svc := &fakeService{space: &Space{Key: "SPACE"}}
	sess := newTestSession(3, svc)
	want := sess.ServerInfo()

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sess.ServerInfo() != want {
				t.Errorf("server info changed under concurrency")
			}
			if _, err := sess.GetSpace(context.Background(), "SPACE"); err != nil {
				t.Errorf("GetSpace error: %v", err)
			}
		}()
	}
	wg.Wait()

	for _, c := range svc.recorded() {
		if c.token != "tok" {
			t.Fatalf("token changed under concurrency: %q", c.token)
		}
	}
}
