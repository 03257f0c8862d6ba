package model

import (
	"fmt"
	"strconv"
	"strings"
)

// MediaRecord is the normalized metadata for one remote media file. It is
// constructed once per listing entry and never mutated afterwards.
type MediaRecord struct {
	Name      string `json:"name"`
	RemoteID  string `json:"remote_id"`
	SizeBytes int64  `json:"size_bytes"`
	MimeType  string `json:"mime_type"`
	OwnedByMe bool   `json:"owned_by_me"`
}

// RawFileEntry is the loosely-typed shape a listing response entry arrives
// in. Optional fields are resolved to explicit defaults at ingestion, never
// downstream.
type RawFileEntry struct {
	ID        string
	Name      string
	MimeType  string
	Size      string // decimal string, empty when the provider reports no size
	OwnedByMe bool
}

// RecordFromEntry converts a raw listing entry into a MediaRecord. An empty
// or malformed size is treated as unknown and recorded as 0.
func RecordFromEntry(e RawFileEntry) MediaRecord {
	var size int64
	if e.Size != "" {
		if parsed, err := strconv.ParseInt(e.Size, 10, 64); err == nil && parsed >= 0 {
			size = parsed
		}
	}
	return MediaRecord{
		Name:      e.Name,
		RemoteID:  e.ID,
		SizeBytes: size,
		MimeType:  e.MimeType,
		OwnedByMe: e.OwnedByMe,
	}
}

// IsImage reports whether the record is an image by mime type.
func (r MediaRecord) IsImage() bool {
	return strings.HasPrefix(r.MimeType, "image/")
}

// ShareURL returns the browser-shareable path for the record.
func (r MediaRecord) ShareURL() string {
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view", r.RemoteID)
}

// RemoteIDFromPath extracts the remote file id from a reference that may be
// either a bare id or a share URL of the form
// https://drive.google.com/file/d/<id>/view.
func RemoteIDFromPath(ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("empty file reference")
	}
	const marker = "/file/d/"
	idx := strings.Index(ref, marker)
	if idx < 0 {
		if strings.Contains(ref, "/") {
			return "", fmt.Errorf("unrecognized file reference: %s", ref)
		}
		return ref, nil
	}
	id := ref[idx+len(marker):]
	if slash := strings.IndexByte(id, '/'); slash >= 0 {
		id = id[:slash]
	}
	if id == "" {
		return "", fmt.Errorf("no file id in reference: %s", ref)
	}
	return id, nil
}

// HumanSize renders a byte count the way the listing output shows it.
// Zero means the provider did not report a size.
func HumanSize(sizeBytes int64) string {
	if sizeBytes == 0 {
		return "Unknown"
	}
	size := float64(sizeBytes)
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if size < 1024 {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.2f PB", size)
}
