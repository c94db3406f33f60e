package commands

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	osfs "github.com/c2fo/vfs/v7/backend/os"

	"github.com/confluencetools/confluence-session/internal/confluence"
)

var (
	attachContentType string
	attachComment     string
)

var attachCmd = &cobra.Command{
	Use:   "attach PAGE_ID FILE",
	Short: "Upload a file as a page attachment",
	Long: `Upload a file as an attachment on the given page. The file is read fully
into memory before the upload; the remote API takes the complete payload in
a single call.`,
	Args: cobra.ExactArgs(2),
	RunE: runAttach,
}

func init() {
	rootCmd.AddCommand(attachCmd)
	attachCmd.Flags().StringVar(&attachContentType, "content-type", "", "MIME type (guessed from the extension when omitted)")
	attachCmd.Flags().StringVar(&attachComment, "comment", "", "attachment comment")
}

func runAttach(cmd *cobra.Command, args []string) error {
	pageID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid page id %q: %w", args[0], err)
	}

	abs, err := filepath.Abs(args[1])
	if err != nil {
		return fmt.Errorf("resolve %s: %w", args[1], err)
	}

	sess, _, logger, err := openSession(cmd.Context())
	if err != nil {
		return err
	}

	contentType := attachContentType
	if contentType == "" {
		contentType = confluence.DetectContentType(abs)
	}

	file, err := osfs.NewFileSystem().NewFile("", abs)
	if err != nil {
		return fmt.Errorf("open %s: %w", args[1], err)
	}

	att, err := sess.AddAttachmentFile(cmd.Context(), pageID, file, contentType, attachComment)
	if err != nil {
		return err
	}

	logger.Info("attachment uploaded",
		"file_name", att.FileName,
		"file_size", att.FileSize,
		"page_id", att.PageID)
	cmd.Printf("Attached %s (%d bytes) to page %d\n", att.FileName, att.FileSize, pageID)

	return nil
}
