package confluence

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/c2fo/vfs/v7"
)

var fileNameReplacer = strings.NewReplacer("+", "_", "&", "_")

// SanitizeFileName rewrites an attachment name to satisfy server naming
// restrictions: `+` and `&` become `_`, surrounding whitespace is dropped.
// An empty or all-whitespace name yields "". Idempotent.
func SanitizeFileName(fileName string) string {
	return strings.TrimSpace(fileNameReplacer.Replace(fileName))
}

// DetectContentType guesses a MIME type from the file name extension, falling
// back to application/octet-stream.
func DetectContentType(fileName string) string {
	if ct := mime.TypeByExtension(filepath.Ext(fileName)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// AddAttachment uploads raw bytes as a page attachment. The record's file
// name is sanitized and its size derived from the payload length. All upload
// variants funnel through here.
func (s *Session) AddAttachment(ctx context.Context, pageID int64, fileName, contentType, comment string, data []byte) (*Attachment, error) {
	name := SanitizeFileName(fileName)
	if name == "" {
		return nil, fmt.Errorf("confluence: attachment file name required")
	}

	att := Attachment{
		PageID:      pageID,
		FileName:    name,
		FileSize:    int64(len(data)),
		ContentType: contentType,
		Comment:     comment,
	}

	return s.service.AddAttachment(ctx, s.token, att, data)
}

// AddAttachmentFile uploads a file from any vfs backend as a page attachment.
// The file is read fully into memory before the remote call; the remote
// contract requires the complete byte array up front. The file is closed on
// every exit path.
func (s *Session) AddAttachmentFile(ctx context.Context, pageID int64, file vfs.File, contentType, comment string) (*Attachment, error) {
	size, err := file.Size()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("confluence: attachment size: %w", err)
	}

	data, err := readFull(file, int64(size))
	if cerr := file.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("confluence: read attachment %s: %w", file.Name(), err)
	}

	return s.AddAttachment(ctx, pageID, file.Name(), contentType, comment, data)
}

// AddAttachmentPath uploads a local file as a page attachment using its base
// name. A missing file is reported with an error satisfying
// errors.Is(err, fs.ErrNotExist).
func (s *Session) AddAttachmentPath(ctx context.Context, pageID int64, path, contentType, comment string) (*Attachment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("confluence: open attachment: %w", err)
	}

	var data []byte
	info, err := f.Stat()
	if err == nil {
		data, err = readFull(f, info.Size())
	}
	if cerr := f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("confluence: read attachment %s: %w", path, err)
	}

	return s.AddAttachment(ctx, pageID, filepath.Base(path), contentType, comment, data)
}

// readFull copies the reader into a buffer pre-sized from the reported
// length. The bytes actually copied win over the reported length if the two
// disagree.
func readFull(r io.Reader, size int64) ([]byte, error) {
	if size < 0 {
		size = 0
	}
	buf := bytes.NewBuffer(make([]byte, 0, size))
	if _, err := io.Copy(buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
