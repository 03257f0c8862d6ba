// Package transfer drives the download, reduce and replace workflow. It is
// strictly sequential: one in-flight remote call at a time, per-file error
// isolation, and no remote mutation before the operator confirms.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cloudsaver/internal/api"
	"cloudsaver/internal/logger"
	"cloudsaver/internal/model"
	"cloudsaver/internal/reduce"
)

// Options controls staging and reduction for one workflow invocation.
type Options struct {
	MaxWidth   int    // reducer bound, zero means reduce.DefaultMaxWidth
	MaxHeight  int    // reducer bound, zero means reduce.DefaultMaxHeight
	StagingDir string // local directory for downloads and reduced copies
}

// Plan pairs a remote record with its reduced local copy. Plans exist only
// between reduction and the operator's confirmation; nothing remote changes
// until Apply runs.
type Plan struct {
	Record      model.MediaRecord
	StagedPath  string
	ReducedPath string
	Projected   int64 // projected byte saving for this file
}

// Status tags the per-file outcome of a batch step.
type Status int

const (
	StatusSuccess Status = iota
	StatusSkipped
	StatusFailed
	// StatusInconsistent marks the one dangerous partial failure: the
	// original was trashed but the replacement upload failed, so the remote
	// account holds no live copy outside the trash.
	StatusInconsistent
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	case StatusInconsistent:
		return "inconsistent"
	}
	return "unknown"
}

// Outcome records what happened to one file during a batch step.
type Outcome struct {
	Status Status
	Record model.MediaRecord
	Reason string
	Saved  int64 // realized bytes for StatusSuccess in Apply, projected otherwise
}

// Summary aggregates a batch outcome list. It is computed as a fold over
// the outcomes rather than interleaved with the per-file processing.
type Summary struct {
	Succeeded    int
	Skipped      int
	Failed       int
	Inconsistent int
	SavedBytes   int64
}

// Summarize folds outcomes into totals. Only StatusSuccess contributes to
// SavedBytes.
func Summarize(outcomes []Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch o.Status {
		case StatusSuccess:
			s.Succeeded++
			s.SavedBytes += o.Saved
		case StatusSkipped:
			s.Skipped++
		case StatusFailed:
			s.Failed++
		case StatusInconsistent:
			s.Inconsistent++
		}
	}
	return s
}

// Select applies the eligibility filter for the reduction workflow: image
// mime type, size strictly above the MB threshold, owned by the account,
// then truncation to the first maxCount entries. Listing order is preserved
// throughout; there is no re-sorting.
func Select(records []model.MediaRecord, minSizeMB float64, maxCount int) []model.MediaRecord {
	thresholdBytes := int64(minSizeMB * 1024 * 1024)

	var selected []model.MediaRecord
	for _, r := range records {
		if !r.IsImage() {
			continue
		}
		if r.SizeBytes <= thresholdBytes {
			continue
		}
		if !r.OwnedByMe {
			continue
		}
		selected = append(selected, r)
		if maxCount > 0 && len(selected) == maxCount {
			break
		}
	}
	return selected
}

// ReduceAndPrepare downloads each selected record into the staging
// directory, reduces it, and returns the plans awaiting confirmation along
// with the per-file outcomes. Decode failures are skips, transport failures
// are failures; neither aborts the batch. The projected total is the sum of
// byte deltas across all planned files.
//
// Staged files are named by record name, so two records sharing a name
// overwrite each other: last write wins.
func ReduceAndPrepare(ctx context.Context, client api.CloudClient, records []model.MediaRecord, opts Options) ([]Plan, []Outcome, error) {
	if opts.StagingDir == "" {
		return nil, nil, fmt.Errorf("staging directory is required")
	}
	if err := os.MkdirAll(opts.StagingDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	reducedDir := filepath.Join(opts.StagingDir, "reduced")
	if err := os.MkdirAll(reducedDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create staging directory: %w", err)
	}

	maxW, maxH := opts.MaxWidth, opts.MaxHeight
	if maxW <= 0 {
		maxW = reduce.DefaultMaxWidth
	}
	if maxH <= 0 {
		maxH = reduce.DefaultMaxHeight
	}

	var plans []Plan
	var outcomes []Outcome

	for _, record := range records {
		stagedPath := filepath.Join(opts.StagingDir, record.Name)

		if err := download(ctx, client, record.RemoteID, stagedPath); err != nil {
			logger.WarningTagged([]string{"shrink"}, "Download failed for %s: %v", record.Name, err)
			outcomes = append(outcomes, Outcome{
				Status: StatusFailed,
				Record: record,
				Reason: fmt.Sprintf("download: %v", err),
			})
			continue
		}

		result, err := reduce.File(stagedPath, filepath.Join(reducedDir, record.Name), maxW, maxH)
		if err != nil {
			if errors.Is(err, api.ErrImageDecode) {
				logger.InfoTagged([]string{"shrink"}, "Skipping %s: not a decodable image", record.Name)
				outcomes = append(outcomes, Outcome{
					Status: StatusSkipped,
					Record: record,
					Reason: err.Error(),
				})
				continue
			}
			logger.WarningTagged([]string{"shrink"}, "Reduce failed for %s: %v", record.Name, err)
			outcomes = append(outcomes, Outcome{
				Status: StatusFailed,
				Record: record,
				Reason: fmt.Sprintf("reduce: %v", err),
			})
			continue
		}

		logger.InfoTagged([]string{"shrink"}, "Reduced %s: %s -> %s", record.Name,
			model.HumanSize(result.BeforeBytes), model.HumanSize(result.AfterBytes))

		plans = append(plans, Plan{
			Record:      record,
			StagedPath:  stagedPath,
			ReducedPath: result.OutputPath,
			Projected:   result.Saved(),
		})
	}

	return plans, outcomes, nil
}

// ProjectedSavings sums the projected byte deltas across plans.
func ProjectedSavings(plans []Plan) int64 {
	var total int64
	for _, p := range plans {
		total += p.Projected
	}
	return total
}

// Apply performs the confirmed replacement for each plan independently:
// trash the original, then upload the reduced copy under the original name
// and mime type. A failure in either step is isolated to that plan. When
// trash succeeds but the upload fails the remote state is left as-is and
// the outcome is StatusInconsistent, which callers must report separately
// from ordinary failures. Savings are realized only when both steps
// succeed.
//
// In dry-run mode nothing remote is touched; every plan is logged as a
// would-be replacement and counted as realized for reporting.
func Apply(ctx context.Context, client api.CloudClient, plans []Plan, dryRun bool) []Outcome {
	var outcomes []Outcome

	for _, plan := range plans {
		record := plan.Record

		if dryRun {
			logger.DryRun("Would replace %s (%s) with reduced copy saving %s",
				record.Name, record.RemoteID, model.HumanSize(plan.Projected))
			outcomes = append(outcomes, Outcome{Status: StatusSuccess, Record: record, Saved: plan.Projected})
			continue
		}

		if err := client.Trash(ctx, record.RemoteID); err != nil {
			logger.ErrorTagged([]string{"shrink"}, "Failed to trash %s (%s): %v", record.Name, record.RemoteID, err)
			outcomes = append(outcomes, Outcome{
				Status: StatusFailed,
				Record: record,
				Reason: fmt.Sprintf("trash: %v", err),
			})
			continue
		}

		reduced, err := os.Open(plan.ReducedPath)
		if err == nil {
			_, err = client.Upload(ctx, record.Name, record.MimeType, reduced)
			reduced.Close()
		}
		if err != nil {
			// The original is already trashed with no replacement uploaded.
			logger.ErrorTagged([]string{"shrink"}, "INCONSISTENT STATE: %s (%s) was trashed but the reduced upload failed: %v",
				record.Name, record.RemoteID, err)
			outcomes = append(outcomes, Outcome{
				Status: StatusInconsistent,
				Record: record,
				Reason: fmt.Sprintf("upload after trash: %v", err),
			})
			continue
		}

		logger.InfoTagged([]string{"shrink"}, "Replaced %s, saved %s", record.Name, model.HumanSize(plan.Projected))
		outcomes = append(outcomes, Outcome{Status: StatusSuccess, Record: record, Saved: plan.Projected})
	}

	return outcomes
}

// download copies the full remote content to path.
func download(ctx context.Context, client api.CloudClient, fileID, path string) error {
	body, err := client.Download(ctx, fileID)
	if err != nil {
		return err
	}
	defer body.Close()

	out, err := os.Create(path)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return err
}
