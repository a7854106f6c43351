package checkpoint

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedFile writes pre-existing content at path.
func seedFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestOpenJSONLRefusesExistingDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	seedFile(t, path, "precious data\n")

	_, err := OpenJSONL(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// The existing file is untouched.
	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "precious data\n", string(data))
}

func TestOpenJSONLOverwriteDeletesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	seedFile(t, path, "stale data\n")

	store, err := OpenJSONL(path, true)
	require.NoError(t, err)

	// Deleted eagerly, not lazily on first write.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	require.NoError(t, store.Append("1", map[string]int{"a": 1}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale data")
}

func TestOpenJSONLEmptyPath(t *testing.T) {
	_, err := OpenJSONL("", false)
	assert.Error(t, err)
}

func TestJSONLAppendLoadList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	store, err := OpenJSONL(path, false)
	require.NoError(t, err)

	type snap struct {
		Params []float64 `json:"params"`
	}

	require.NoError(t, store.Append("10", snap{Params: []float64{1, 2}}))
	require.NoError(t, store.Append("2", snap{Params: []float64{3}}))

	raw, err := store.Load("10")
	require.NoError(t, err)
	var got snap
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, []float64{1, 2}, got.Params)

	infos, err := store.List()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	// Numeric ordering, not lexical: "2" before "10".
	assert.Equal(t, "2", infos[0].Key)
	assert.Equal(t, "10", infos[1].Key)
	assert.False(t, infos[0].SavedAt.IsZero())
}

func TestJSONLRewrittenKeyLatestWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	store, err := OpenJSONL(path, false)
	require.NoError(t, err)

	require.NoError(t, store.Append("5", "first"))
	require.NoError(t, store.Append("5", "second"))

	raw, err := store.Load("5")
	require.NoError(t, err)
	assert.JSONEq(t, `"second"`, string(raw))

	infos, err := store.List()
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestJSONLLoadMissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	store, err := OpenJSONL(path, false)
	require.NoError(t, err)
	require.NoError(t, store.Append("1", "x"))

	_, err = store.Load("99")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadJSONLRequiresExistingFile(t *testing.T) {
	_, err := ReadJSONL(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}

func TestJSONLAppendIsDurablePerCall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	store, err := OpenJSONL(path, false)
	require.NoError(t, err)

	require.NoError(t, store.Append("1", 42))

	// No handle is held between calls: a fresh reader sees the record
	// immediately.
	other, err := ReadJSONL(path)
	require.NoError(t, err)
	raw, err := other.Load("1")
	require.NoError(t, err)
	assert.JSONEq(t, "42", string(raw))
}
