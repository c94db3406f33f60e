package commands

import (
	"github.com/spf13/cobra"
)

var pageCmd = &cobra.Command{
	Use:   "page SPACE TITLE",
	Short: "Fetch a page summary",
	Long: `Fetch a page summary by space key and title. On servers older than 4.0
the full page is fetched and projected down; newer servers use the dedicated
summary operation.`,
	Args: cobra.ExactArgs(2),
	RunE: runPage,
}

func init() {
	rootCmd.AddCommand(pageCmd)
}

func runPage(cmd *cobra.Command, args []string) error {
	sess, _, _, err := openSession(cmd.Context())
	if err != nil {
		return err
	}

	summary, err := sess.GetPageSummary(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}

	cmd.Printf("ID:     %d\n", summary.ID)
	cmd.Printf("Space:  %s\n", summary.Space)
	cmd.Printf("Title:  %s\n", summary.Title)
	if summary.ParentID != 0 {
		cmd.Printf("Parent: %d\n", summary.ParentID)
	}
	if summary.URL != "" {
		cmd.Printf("URL:    %s\n", summary.URL)
	}

	return nil
}
