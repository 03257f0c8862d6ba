package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"cloudsaver/internal/model"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all image and video files in the account",
	Long:  `Lists every media file in the account with its mime type and size.`,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sess, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer sess.close()

	records, err := loadRecords(ctx, sess)
	if err != nil {
		return err
	}

	for _, r := range records {
		fmt.Printf("%s | %s | %s\n", r.Name, r.MimeType, model.HumanSize(r.SizeBytes))
	}
	fmt.Printf("\n%d media files.\n", len(records))
	return nil
}
