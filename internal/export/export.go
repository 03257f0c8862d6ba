// Package export writes record sets to structured JSON files.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cloudsaver/internal/logger"
	"cloudsaver/internal/model"
)

// DefaultDir is where export files land unless the caller overrides it.
const DefaultDir = "output"

// WriteJSON writes records as indented JSON to dir/filename, creating dir
// if needed. An empty record set writes nothing and reports that; this is
// not an error.
func WriteJSON(records []model.MediaRecord, dir, filename string) (string, error) {
	if len(records) == 0 {
		logger.Info("No data to export.")
		return "", nil
	}

	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal records: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	logger.Info("JSON saved to %s", path)
	return path, nil
}
