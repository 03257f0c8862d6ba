// Package cache keeps the most recent Drive scan in a local sqlite file so
// consecutive commands can reuse it. Listing order is preserved, since the
// duplicate keeper and the reduction selection both depend on it. Commands
// pass --refresh to force a new scan.
package cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"cloudsaver/internal/model"
)

// DefaultFile is the cache database location.
const DefaultFile = "scan-cache.db"

// Store is a handle to the scan cache database.
type Store struct {
	conn *sql.DB
}

// Open opens (and if necessary creates) the cache database at path.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS media (
		position INTEGER PRIMARY KEY,
		remote_id TEXT NOT NULL,
		name TEXT NOT NULL,
		size_bytes INTEGER NOT NULL,
		mime_type TEXT NOT NULL,
		owned_by_me INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	return &Store{conn: conn}, nil
}

// Close closes the cache database.
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Replace swaps the cached scan for a new one atomically.
func (s *Store) Replace(records []model.MediaRecord) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM media"); err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT INTO media (position, remote_id, name, size_bytes, mime_type, owned_by_me) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		owned := 0
		if r.OwnedByMe {
			owned = 1
		}
		if _, err := stmt.Exec(i, r.RemoteID, r.Name, r.SizeBytes, r.MimeType, owned); err != nil {
			return err
		}
	}

	if _, err := tx.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('scanned_at', ?)",
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	return tx.Commit()
}

// Records returns the cached scan in its original listing order.
func (s *Store) Records() ([]model.MediaRecord, error) {
	rows, err := s.conn.Query("SELECT remote_id, name, size_bytes, mime_type, owned_by_me FROM media ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.MediaRecord
	for rows.Next() {
		var r model.MediaRecord
		var owned int
		if err := rows.Scan(&r.RemoteID, &r.Name, &r.SizeBytes, &r.MimeType, &owned); err != nil {
			return nil, err
		}
		r.OwnedByMe = owned != 0
		records = append(records, r)
	}
	return records, rows.Err()
}

// ScannedAt returns when the cached scan was taken, or false when the cache
// has never been populated.
func (s *Store) ScannedAt() (time.Time, bool, error) {
	var value string
	err := s.conn.QueryRow("SELECT value FROM meta WHERE key = 'scanned_at'").Scan(&value)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}
