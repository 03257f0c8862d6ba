package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"cloudsaver/internal/export"
	"cloudsaver/internal/model"
)

var exportMinSizeMB float64

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export media file info to a JSON file",
	Long: `Exports the account's media file metadata to a JSON file in the output
directory. With --min-size-mb only files strictly larger than the given
threshold are exported.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().Float64Var(&exportMinSizeMB, "min-size-mb", 0, "Only export files larger than this many MB")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
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

	filename := "all_media_files.json"
	if exportMinSizeMB > 0 {
		thresholdBytes := int64(exportMinSizeMB * 1024 * 1024)
		var filtered []model.MediaRecord
		for _, r := range records {
			if r.SizeBytes > thresholdBytes {
				filtered = append(filtered, r)
			}
		}
		records = filtered
		filename = fmt.Sprintf("media_files_above_%dMB.json", int(exportMinSizeMB))
	}

	_, err = export.WriteJSON(records, sess.cfg.OutputDir, filename)
	return err
}
