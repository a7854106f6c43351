package checkpoint

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	// Checkpoint databases are plain SQLite files.
	_ "github.com/mattn/go-sqlite3"
)

const createCheckpointTable = `
CREATE TABLE IF NOT EXISTS checkpoints (
	key      TEXT PRIMARY KEY,
	value    TEXT NOT NULL,
	saved_at TIMESTAMP NOT NULL
)`

// SQLiteStore persists checkpoints in a single-table SQLite database.
// Rewriting a key upserts the row. Like JSONLStore, the database is opened
// and closed within each call so checkpoints are durable before control
// returns to the optimization loop.
type SQLiteStore struct {
	path string
}

// OpenSQLite opens a SQLite store for writing at path. If the destination
// already exists the call fails unless overwrite is true, in which case
// the existing database is deleted first. The schema is created eagerly so
// configuration problems surface before the optimization loop starts.
func OpenSQLite(path string, overwrite bool) (*SQLiteStore, error) {
	if err := prepareDestination(path, overwrite); err != nil {
		return nil, err
	}

	s := &SQLiteStore{path: path}
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	if err := db.Close(); err != nil {
		return nil, fmt.Errorf("failed to close checkpoint database: %w", err)
	}
	return s, nil
}

// ReadSQLite opens an existing SQLite store for inspection. Unlike
// OpenSQLite, the destination must already exist.
func ReadSQLite(path string) (*SQLiteStore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open checkpoint database: %w", err)
	}
	return &SQLiteStore{path: path}, nil
}

func (s *SQLiteStore) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint database: %w", err)
	}
	if _, err := db.Exec(createCheckpointTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create checkpoint table: %w", err)
	}
	return db, nil
}

// Append serializes value and upserts the row for key within one
// open/write/close cycle.
func (s *SQLiteStore) Append(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize checkpoint %q: %w", key, err)
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec(`
		INSERT INTO checkpoints (key, value, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, saved_at = excluded.saved_at`,
		key, string(raw), time.Now())
	if err != nil {
		return fmt.Errorf("failed to write checkpoint %q: %w", key, err)
	}
	return nil
}

// List returns metadata for all rows, ordered by ascending iteration
// number.
func (s *SQLiteStore) List() ([]Info, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT key, saved_at, LENGTH(value) FROM checkpoints
		ORDER BY CAST(key AS INTEGER), key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var info Info
		if err := rows.Scan(&info.Key, &info.SavedAt, &info.Bytes); err != nil {
			return nil, fmt.Errorf("failed to scan checkpoint row: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}
	return infos, nil
}

// Load returns the value stored under key.
func (s *SQLiteStore) Load(key string) (json.RawMessage, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var raw string
	err = db.QueryRow(`SELECT value FROM checkpoints WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: key %q in %s", ErrNotFound, key, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint %q: %w", key, err)
	}
	return json.RawMessage(raw), nil
}
