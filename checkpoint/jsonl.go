package checkpoint

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"
)

// record is one line of a JSONL checkpoint file.
type record struct {
	Key     string          `json:"key"`
	Value   json.RawMessage `json:"value"`
	SavedAt time.Time       `json:"savedAt"`
}

// JSONLStore persists checkpoints as one JSON record per line. Rewriting a
// key appends a new line rather than editing the file in place; readers
// resolve the latest record per key, so the file doubles as an audit trail
// of every checkpoint ever taken.
type JSONLStore struct {
	path string
}

// OpenJSONL opens a JSONL store for writing at path. If the destination
// already exists the call fails unless overwrite is true, in which case
// the existing file is deleted first.
func OpenJSONL(path string, overwrite bool) (*JSONLStore, error) {
	if err := prepareDestination(path, overwrite); err != nil {
		return nil, err
	}
	return &JSONLStore{path: path}, nil
}

// ReadJSONL opens an existing JSONL store for inspection. Unlike
// OpenJSONL, the destination must already exist.
func ReadJSONL(path string) (*JSONLStore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open checkpoint file: %w", err)
	}
	return &JSONLStore{path: path}, nil
}

// Append serializes value and appends one record line. The file is opened
// in append-or-create mode, synced, and closed before returning.
func (s *JSONLStore) Append(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize checkpoint %q: %w", key, err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open checkpoint file: %w", err)
	}

	enc := json.NewEncoder(f)
	if err := enc.Encode(record{Key: key, Value: raw, SavedAt: time.Now()}); err != nil {
		f.Close()
		return fmt.Errorf("failed to write checkpoint %q: %w", key, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync checkpoint file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close checkpoint file: %w", err)
	}
	return nil
}

// List returns metadata for the latest record per key, ordered by
// ascending iteration number.
func (s *JSONLStore) List() ([]Info, error) {
	latest, err := s.readLatest()
	if err != nil {
		return nil, err
	}

	infos := make([]Info, 0, len(latest))
	for _, rec := range latest {
		infos = append(infos, Info{Key: rec.Key, SavedAt: rec.SavedAt, Bytes: len(rec.Value)})
	}
	sort.Slice(infos, func(i, j int) bool {
		return compareKeys(infos[i].Key, infos[j].Key)
	})
	return infos, nil
}

// Load returns the latest value stored under key.
func (s *JSONLStore) Load(key string) (json.RawMessage, error) {
	latest, err := s.readLatest()
	if err != nil {
		return nil, err
	}
	rec, ok := latest[key]
	if !ok {
		return nil, fmt.Errorf("%w: key %q in %s", ErrNotFound, key, s.path)
	}
	return rec.Value, nil
}

// readLatest scans the whole file and keeps the last record per key.
func (s *JSONLStore) readLatest() (map[string]record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]record{}, nil
		}
		return nil, fmt.Errorf("failed to open checkpoint file: %w", err)
	}
	defer f.Close()

	latest := make(map[string]record)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		var rec record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("failed to parse checkpoint file line %d: %w", line, err)
		}
		latest[rec.Key] = rec
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read checkpoint file: %w", err)
	}
	return latest, nil
}

// compareKeys orders string-encoded iteration numbers numerically, falling
// back to lexical order for keys that are not integers.
func compareKeys(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}
