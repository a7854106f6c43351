// Package checkpoint persists optimization snapshots in an
// append/overwrite key-value store keyed by string-encoded iteration
// numbers. Two backends are provided: a JSONL file (one record per line)
// and a SQLite database.
//
// Both backends bound the lifetime of the underlying handle to a single
// Append call: open, write, flush, close. A record reported as written is
// durable, so a crash between iterations never loses a checkpoint. This
// trades throughput for durability, which is the right trade for
// checkpoints written every N iterations rather than every tick.
//
// Error handling conventions:
//   - Return nil on success
//   - Return ErrNotFound (via errors.Is) when a requested key is absent
//   - Wrap underlying errors with context using fmt.Errorf("...: %w", err)
package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Store is an append/overwrite key-value store for checkpoint records.
// A later Append to an existing key replaces the visible value.
type Store interface {
	// Append durably writes value under key before returning.
	Append(key string, value any) error

	// List returns metadata for all stored checkpoints, ordered by
	// ascending iteration number.
	List() ([]Info, error)

	// Load returns the serialized value stored under key, or an error
	// satisfying errors.Is(err, ErrNotFound) if the key is absent.
	Load(key string) (json.RawMessage, error)
}

// Info describes one stored checkpoint.
type Info struct {
	// Key is the string-encoded iteration number the record was saved
	// under.
	Key string

	// SavedAt records when the checkpoint was written.
	SavedAt time.Time

	// Bytes is the size of the serialized value.
	Bytes int
}

// ErrNotFound is returned when a requested checkpoint does not exist.
var ErrNotFound = errors.New("checkpoint not found")

// prepareDestination enforces the shared construction contract: an
// existing destination is a construction error unless overwrite was
// requested, in which case it is deleted before first use. Construction
// never silently clobbers or extends existing data.
func prepareDestination(path string, overwrite bool) error {
	if path == "" {
		return fmt.Errorf("checkpoint destination cannot be empty")
	}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if !overwrite {
			return fmt.Errorf("checkpoint destination %q already exists (enable overwrite to replace it)", path)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove existing checkpoint destination: %w", err)
		}
	case os.IsNotExist(err):
		// Fresh destination.
	default:
		return fmt.Errorf("failed to stat checkpoint destination: %w", err)
	}
	return nil
}
