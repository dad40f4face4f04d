package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// LoadSnapshot returns the raw snapshot stored under key.
func (s *Store) LoadSnapshot(key string) ([]byte, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM snapshots WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load snapshot %q: %w", key, ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", key, err)
	}
	return []byte(data), nil
}

// SaveSnapshot replaces the snapshot stored under key.
func (s *Store) SaveSnapshot(key string, data []byte) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO snapshots (key, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, string(data), now,
	)
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", key, err)
	}
	return nil
}

// SnapshotUpdatedAt reports when the snapshot under key was last written.
func (s *Store) SnapshotUpdatedAt(key string) (time.Time, error) {
	var updated string
	err := s.db.QueryRow(`SELECT updated_at FROM snapshots WHERE key = ?`, key).Scan(&updated)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("snapshot updated_at %q: %w", key, ErrSnapshotNotFound)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("snapshot updated_at %q: %w", key, err)
	}
	t, err := time.Parse(time.RFC3339, updated)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse snapshot updated_at %q: %w", key, err)
	}
	return t, nil
}
