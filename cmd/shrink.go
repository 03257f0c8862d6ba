package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"cloudsaver/internal/logger"
	"cloudsaver/internal/model"
	"cloudsaver/internal/transfer"
)

var (
	shrinkMinSizeMB float64
	shrinkMaxCount  int
)

var shrinkCmd = &cobra.Command{
	Use:   "shrink",
	Short: "Download, recompress and replace oversized images",
	Long: `Selects images you own that are larger than a size threshold, downloads
them, recompresses each to at most 1920x1080, and reports the projected
savings. After an explicit confirmation every original is trashed and the
reduced copy is uploaded in its place.

Each file is handled independently: a download or decode problem skips that
file only, and a partial replacement failure never aborts the batch.`,
	RunE: runShrink,
}

func init() {
	shrinkCmd.Flags().Float64Var(&shrinkMinSizeMB, "min-size-mb", 0, "Only consider images larger than this many MB (prompted when omitted)")
	shrinkCmd.Flags().IntVar(&shrinkMaxCount, "max-count", 0, "Process at most this many images (prompted when omitted)")
	rootCmd.AddCommand(shrinkCmd)
}

func runShrink(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sess, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer sess.close()

	minSizeMB := shrinkMinSizeMB
	if !cmd.Flags().Changed("min-size-mb") {
		if minSizeMB, err = promptFloat("Minimum file size in MB"); err != nil {
			return err
		}
	}
	maxCount := shrinkMaxCount
	if !cmd.Flags().Changed("max-count") {
		if maxCount, err = promptInt("Maximum number of images to process"); err != nil {
			return err
		}
	}

	records, err := loadRecords(ctx, sess)
	if err != nil {
		return err
	}

	selected := transfer.Select(records, minSizeMB, maxCount)
	if len(selected) == 0 {
		logger.Info("No owned images above %.1f MB found.", minSizeMB)
		return nil
	}
	logger.Info("Selected %d images for reduction.", len(selected))

	stagingDir := sess.cfg.StagingDir
	if stagingDir == "" {
		stagingDir = "staging"
	}

	plans, prepOutcomes, err := transfer.ReduceAndPrepare(ctx, sess.client, selected, transfer.Options{
		StagingDir: stagingDir,
	})
	if err != nil {
		return err
	}

	prepSummary := transfer.Summarize(prepOutcomes)
	if prepSummary.Skipped > 0 || prepSummary.Failed > 0 {
		logger.Info("Preparation: %d skipped, %d failed.", prepSummary.Skipped, prepSummary.Failed)
	}

	if len(plans) == 0 {
		logger.Info("Nothing to replace.")
		return nil
	}

	projected := transfer.ProjectedSavings(plans)
	fmt.Printf("\n%d images reduced, projected savings: %s\n", len(plans), model.HumanSize(projected))

	if !confirm("Replace the originals remotely (trash original, upload reduced copy)") {
		logger.Info("Not confirmed. Remote files are untouched; reduced copies remain in %s.", stagingDir)
		return nil
	}

	outcomes := transfer.Apply(ctx, sess.client, plans, safeMode)
	summary := transfer.Summarize(outcomes)

	for _, o := range outcomes {
		if o.Status == transfer.StatusInconsistent {
			logger.Warning("INCONSISTENT: %s (%s) is trashed without a replacement: %s",
				o.Record.Name, o.Record.RemoteID, o.Reason)
		}
	}

	fmt.Printf("\nReplaced %d of %d files. Realized savings: %s (%d failed, %d left inconsistent)\n",
		summary.Succeeded, len(plans), model.HumanSize(summary.SavedBytes), summary.Failed, summary.Inconsistent)
	return nil
}
