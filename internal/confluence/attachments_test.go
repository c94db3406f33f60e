package confluence

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/c2fo/vfs/v7"
)

func TestSanitizeFileName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"a+b&c.txt", "a_b_c.txt"},
		{"  padded.png  ", "padded.png"},
		{" a + b .txt", "a _ b .txt"},
		{"   ", ""},
		{"", ""},
		{"++&&", "____"},
	}

	for _, tc := range cases {
		if got := SanitizeFileName(tc.in); got != tc.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
		// A second pass must not change the result.
		if got := SanitizeFileName(SanitizeFileName(tc.in)); got != tc.want {
			t.Errorf("SanitizeFileName not idempotent for %q: %q", tc.in, got)
		}
	}
}

func TestDetectContentType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		want string
	}{
		{"diagram.png", "image/png"},
		{"archive.bin", "application/octet-stream"},
		{"noextension", "application/octet-stream"},
	}

	for _, tc := range cases {
		if got := DetectContentType(tc.name); got != tc.want {
			t.Errorf("DetectContentType(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestAddAttachmentBuildsRecord(t *testing.T) {
	t.Parallel()

	svc := &fakeService{storedAtt: &Attachment{ID: 1}}
	sess := newTestSession(4, svc)

	data := []byte("hello attachment")
	_, err := sess.AddAttachment(context.Background(), 42, "a+b.txt", "text/plain", "first upload", data)
	if err != nil {
		t.Fatalf("AddAttachment error: %v", err)
	}

	att := svc.lastAtt
	if att.PageID != 42 {
		t.Errorf("page id %d, want 42", att.PageID)
	}
	if att.FileName != "a_b.txt" {
		t.Errorf("file name %q, want sanitized a_b.txt", att.FileName)
	}
	if att.FileSize != int64(len(data)) {
		t.Errorf("file size %d, want %d", att.FileSize, len(data))
	}
	if att.ContentType != "text/plain" || att.Comment != "first upload" {
		t.Errorf("unexpected record %#v", att)
	}
	if !bytes.Equal(svc.lastData, data) {
		t.Errorf("payload %q, want %q", svc.lastData, data)
	}
}

func TestAddAttachmentEmptyNameRejectedLocally(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	sess := newTestSession(4, svc)

	for _, name := range []string{"", "   "} {
		if _, err := sess.AddAttachment(context.Background(), 42, name, "", "", []byte("x")); err == nil {
			t.Errorf("expected error for name %q", name)
		}
	}

	if calls := svc.recorded(); len(calls) != 0 {
		t.Fatalf("expected no remote call, got %v", calls)
	}
}

func TestAddAttachmentPath(t *testing.T) {
	t.Parallel()

	svc := &fakeService{storedAtt: &Attachment{ID: 1}}
	sess := newTestSession(4, svc)

	dir := t.TempDir()
	path := filepath.Join(dir, "notes+final.txt")
	content := []byte("attachment body")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := sess.AddAttachmentPath(context.Background(), 7, path, "text/plain", "")
	if err != nil {
		t.Fatalf("AddAttachmentPath error: %v", err)
	}

	if svc.lastAtt.FileName != "notes_final.txt" {
		t.Errorf("file name %q, want base name sanitized", svc.lastAtt.FileName)
	}
	if !bytes.Equal(svc.lastData, content) {
		t.Errorf("payload %q, want %q", svc.lastData, content)
	}
}

func TestAddAttachmentPathEmptyFile(t *testing.T) {
	t.Parallel()

	svc := &fakeService{storedAtt: &Attachment{ID: 1}}
	sess := newTestSession(4, svc)

	path := filepath.Join(t.TempDir(), "empty.bin")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := sess.AddAttachmentPath(context.Background(), 7, path, "", "")
	if err != nil {
		t.Fatalf("AddAttachmentPath error: %v", err)
	}

	if svc.lastAtt.FileSize != 0 {
		t.Errorf("file size %d, want 0", svc.lastAtt.FileSize)
	}
	if len(svc.lastData) != 0 {
		t.Errorf("payload %q, want empty", svc.lastData)
	}
}

func TestAddAttachmentPathMissingFile(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	sess := newTestSession(4, svc)

	_, err := sess.AddAttachmentPath(context.Background(), 7, filepath.Join(t.TempDir(), "nope.txt"), "", "")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}

	if calls := svc.recorded(); len(calls) != 0 {
		t.Fatalf("expected no remote call, got %v", calls)
	}
}

// memFile is an in-memory stand-in for a vfs backend file. Only the methods
// the uploader touches are implemented; anything else panics through the nil
// embedded interface.
type memFile struct {
	vfs.File

	name     string
	reader   *bytes.Reader
	failRead bool
	closeErr error
	closed   int
}

func newMemFile(name string, data []byte) *memFile {
	return &memFile{name: name, reader: bytes.NewReader(data)}
}

func (m *memFile) Name() string { return m.name }

func (m *memFile) Size() (uint64, error) { return uint64(m.reader.Len()), nil }

func (m *memFile) Read(p []byte) (int, error) {
	if m.failRead {
		return 0, errors.New("disk gone")
	}
	return m.reader.Read(p)
}

func (m *memFile) Close() error {
	m.closed++
	return m.closeErr
}

var _ io.Reader = (*memFile)(nil)

func TestAddAttachmentFile(t *testing.T) {
	t.Parallel()

	svc := &fakeService{storedAtt: &Attachment{ID: 1}}
	sess := newTestSession(4, svc)

	content := []byte("payload from a remote host")
	file := newMemFile("build+log.txt", content)

	_, err := sess.AddAttachmentFile(context.Background(), 7, file, "text/plain", "ci")
	if err != nil {
		t.Fatalf("AddAttachmentFile error: %v", err)
	}

	if file.closed != 1 {
		t.Errorf("file closed %d times, want 1", file.closed)
	}
	if svc.lastAtt.FileName != "build_log.txt" {
		t.Errorf("file name %q, want build_log.txt", svc.lastAtt.FileName)
	}
	if !bytes.Equal(svc.lastData, content) {
		t.Errorf("payload %q, want %q", svc.lastData, content)
	}
}

func TestAddAttachmentFileClosedOnReadFailure(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	sess := newTestSession(4, svc)

	file := newMemFile("a.txt", []byte("data"))
	file.failRead = true

	_, err := sess.AddAttachmentFile(context.Background(), 7, file, "", "")
	if err == nil {
		t.Fatal("expected read failure")
	}
	if file.closed != 1 {
		t.Errorf("file closed %d times, want 1", file.closed)
	}
	if calls := svc.recorded(); len(calls) != 0 {
		t.Fatalf("expected no remote call, got %v", calls)
	}
}

func TestAddAttachmentFileCloseErrorReported(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	sess := newTestSession(4, svc)

	file := newMemFile("a.txt", []byte("data"))
	file.closeErr = errors.New("close failed")

	if _, err := sess.AddAttachmentFile(context.Background(), 7, file, "", ""); err == nil {
		t.Fatal("expected close error to surface")
	}
	if calls := svc.recorded(); len(calls) != 0 {
		t.Fatalf("expected no remote call, got %v", calls)
	}
}
