package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"cloudsaver/internal/dedup"
	"cloudsaver/internal/logger"
	"cloudsaver/internal/model"
)

var trashDuplicates bool

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "Find duplicate media files by name and size",
	Long: `Groups media files sharing the same name and byte size. The first-listed
copy in each group is kept; the rest are redundant. This is a heuristic:
without content hashing, distinct files with an identical name and size are
treated as duplicates.

With --trash, the redundant copies are moved to the provider's trash after
an explicit confirmation. The keeper is never touched.`,
	RunE: runDuplicates,
}

func init() {
	duplicatesCmd.Flags().BoolVar(&trashDuplicates, "trash", false, "Trash redundant copies after confirmation")
	rootCmd.AddCommand(duplicatesCmd)
}

func runDuplicates(cmd *cobra.Command, args []string) error {
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

	groups := dedup.GroupDuplicates(records)
	if len(groups) == 0 {
		logger.Info("No duplicates found")
		return nil
	}

	reclaimable := dedup.TotalReclaimable(groups)
	fmt.Printf("Found %d duplicate groups:\n", len(groups))
	for _, g := range groups {
		fmt.Printf("\n%s (%s), %d copies:\n", g.Name, model.HumanSize(g.SizeBytes), len(g.Members))
		for i, r := range g.Members {
			marker := "redundant"
			if i == 0 {
				marker = "keeper"
			}
			fmt.Printf("  [%s] %s\n", marker, r.ShareURL())
		}
	}
	fmt.Printf("\nReclaimable by trashing redundant copies: %s\n", model.HumanSize(reclaimable))

	if !trashDuplicates {
		return nil
	}

	if !confirm(fmt.Sprintf("Trash all redundant copies, reclaiming %s", model.HumanSize(reclaimable))) {
		logger.Info("Nothing trashed.")
		return nil
	}

	var trashed, failed int
	for _, g := range groups {
		for _, r := range dedup.RedundantCandidates(g) {
			if safeMode {
				logger.DryRun("Would trash %s (%s)", r.Name, r.RemoteID)
				trashed++
				continue
			}
			if err := sess.client.Trash(ctx, r.RemoteID); err != nil {
				logger.ErrorTagged([]string{"duplicates"}, "Failed to trash %s (%s): %v", r.Name, r.RemoteID, err)
				failed++
				continue
			}
			logger.InfoTagged([]string{"duplicates"}, "Trashed %s (%s)", r.Name, r.RemoteID)
			trashed++
		}
	}

	logger.Info("Trashed %d redundant copies, %d failures.", trashed, failed)
	return nil
}
