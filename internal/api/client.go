package api

import (
	"context"
	"io"

	"cloudsaver/internal/model"
)

// CloudClient is the contract the workflows depend on: the paginated media
// listing plus the three mutation operations (download, trash, upload).
// The Google Drive implementation lives in internal/google; tests use
// in-memory fakes.
type CloudClient interface {
	// GetUserEmail returns the email of the authenticated account.
	GetUserEmail(ctx context.Context) (string, error)

	// ListMedia returns every image and video file in the account, in
	// listing order. Size and ownership defaults are resolved at ingestion.
	ListMedia(ctx context.Context) ([]model.MediaRecord, error)

	// Download streams the full content of a remote file.
	Download(ctx context.Context, fileID string) (io.ReadCloser, error)

	// Trash soft-deletes a remote file. The provider keeps it recoverable;
	// this is never a hard delete.
	Trash(ctx context.Context, fileID string) error

	// Upload creates a new remote file from reader and returns its id.
	Upload(ctx context.Context, name, mimeType string, reader io.Reader) (string, error)
}
