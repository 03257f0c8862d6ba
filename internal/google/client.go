// Package google implements the CloudClient contract against the Drive v3
// API.
package google

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"cloudsaver/internal/api"
	"cloudsaver/internal/logger"
	"cloudsaver/internal/model"
)

// mediaQuery selects every non-trashed image and video in the account.
const mediaQuery = "(mimeType contains 'image/' or mimeType contains 'video/') and trashed=false"

const listPageSize = 1000

// Client is a Google Drive implementation of api.CloudClient.
type Client struct {
	service *drive.Service
}

// NewClient builds a Drive client on top of a refreshing token source.
func NewClient(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	if _, err := ts.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", api.ErrAuth, err)
	}

	service, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &Client{service: service}, nil
}

// GetUserEmail returns the authenticated account's email address.
func (c *Client) GetUserEmail(ctx context.Context) (string, error) {
	about, err := c.service.About.Get().Fields("user(emailAddress)").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%w: about: %v", api.ErrTransport, err)
	}
	return about.User.EmailAddress, nil
}

// ListMedia pages through every media file in the account and returns the
// normalized records in listing order. The raw entries are resolved to
// explicit defaults at this boundary: a missing size becomes 0.
func (c *Client) ListMedia(ctx context.Context) ([]model.MediaRecord, error) {
	logger.Info("Scanning Drive for media files (this may take a while)...")

	var records []model.MediaRecord
	pageToken := ""

	for {
		call := c.service.Files.List().
			Q(mediaQuery).
			Spaces("drive").
			Fields("nextPageToken, files(id, name, mimeType, size, ownedByMe)").
			PageSize(listPageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		fileList, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("%w: list media: %v", api.ErrTransport, err)
		}

		for _, f := range fileList.Files {
			entry := model.RawFileEntry{
				ID:        f.Id,
				Name:      f.Name,
				MimeType:  f.MimeType,
				OwnedByMe: f.OwnedByMe,
			}
			if f.Size > 0 {
				entry.Size = strconv.FormatInt(f.Size, 10)
			}
			records = append(records, model.RecordFromEntry(entry))

			if len(records)%50 == 0 {
				logger.Info("   ...%d files scanned", len(records))
			}
		}

		if fileList.NextPageToken == "" {
			break
		}
		pageToken = fileList.NextPageToken
	}

	logger.Info("Found %d media files.", len(records))
	return records, nil
}

// Download streams the full content of a remote file.
func (c *Client) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	resp, err := c.service.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("%w: download %s: %v", api.ErrTransport, fileID, err)
	}
	return resp.Body, nil
}

// Trash marks a remote file as trashed. The file stays recoverable from the
// provider's trash; nothing is hard-deleted.
func (c *Client) Trash(ctx context.Context, fileID string) error {
	_, err := c.service.Files.Update(fileID, &drive.File{Trashed: true}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: trash %s: %v", api.ErrTransport, fileID, err)
	}
	return nil
}

// Upload creates a new remote file from reader and returns its id.
func (c *Client) Upload(ctx context.Context, name, mimeType string, reader io.Reader) (string, error) {
	meta := &drive.File{
		Name:     name,
		MimeType: mimeType,
	}
	created, err := c.service.Files.Create(meta).Media(reader).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%w: upload %s: %v", api.ErrTransport, name, err)
	}
	return created.Id, nil
}
