package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns a fresh instance of every KV implementation.
func backends(t *testing.T) map[string]KV {
	t.Helper()

	sqlite, err := NewSQLiteKV(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	file, err := NewFileKV(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })

	return map[string]KV{"sqlite": sqlite, "file": file}
}

func TestKV_GetMissingKey(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := kv.Get(context.Background(), "absent")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestKV_PutGetRoundTrip(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, kv.Put(ctx, KeyBugs, `[{"id":"1"}]`))

			got, ok, err := kv.Get(ctx, KeyBugs)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, `[{"id":"1"}]`, got)
		})
	}
}

func TestKV_PutOverwrites(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, kv.Put(ctx, KeyUser, "first"))
			require.NoError(t, kv.Put(ctx, KeyUser, "second"))

			got, ok, err := kv.Get(ctx, KeyUser)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "second", got, "last write wins")
		})
	}
}

func TestKV_Delete(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, kv.Put(ctx, KeyUser, "value"))
			require.NoError(t, kv.Delete(ctx, KeyUser))

			_, ok, err := kv.Get(ctx, KeyUser)
			require.NoError(t, err)
			assert.False(t, ok)

			// Deleting an absent key is not an error
			assert.NoError(t, kv.Delete(ctx, KeyUser))
		})
	}
}

func TestKV_KeysAreIndependent(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, kv.Put(ctx, KeyBugs, "issues"))
			require.NoError(t, kv.Put(ctx, KeyTimeEntries, "sessions"))
			require.NoError(t, kv.Delete(ctx, KeyBugs))

			got, ok, err := kv.Get(ctx, KeyTimeEntries)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "sessions", got)
		})
	}
}

func TestNewSQLiteKV_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "subdir", "test.db")

	s, err := NewSQLiteKV(dbPath)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put(context.Background(), "k", "v"))
}

func TestSQLiteKV_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s, err := NewSQLiteKV(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, KeyBugs, "snapshot"))
	require.NoError(t, s.Close())

	s2, err := NewSQLiteKV(dbPath)
	require.NoError(t, err)
	defer s2.Close()

	got, ok, err := s2.Get(ctx, KeyBugs)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "snapshot", got)
}

func TestFileKV_WritesOneFilePerKey(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFileKV(dir)
	require.NoError(t, err)

	require.NoError(t, f.Put(context.Background(), KeyBugs, "[]"))

	data, err := filepath.Glob(filepath.Join(dir, "*.json"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "bugs.json")}, data)
}
