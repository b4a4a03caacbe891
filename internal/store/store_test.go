package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Load(ctx, "ledger:owner-1")
	assert.ErrorIs(t, err, ErrNoSnapshot)

	require.NoError(t, s.Save(ctx, "ledger:owner-1", []byte(`{"v":1}`)))

	data, err := s.Load(ctx, "ledger:owner-1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"v":1}`), data)

	// Overwrites replace the previous snapshot wholesale.
	require.NoError(t, s.Save(ctx, "ledger:owner-1", []byte(`{"v":2}`)))
	data, err = s.Load(ctx, "ledger:owner-1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"v":2}`), data)
}

func TestMemoryStoreCopiesBytes(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	buf := []byte("original")
	require.NoError(t, s.Save(ctx, "ns", buf))
	buf[0] = 'X'

	data, err := s.Load(ctx, "ns")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), data)

	// Mutating a loaded copy must not leak back into the store.
	data[0] = 'Y'
	again, err := s.Load(ctx, "ns")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again)
}

func TestMemoryStoreNamespaceIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Save(ctx, "ledger:a", []byte("a")))
	require.NoError(t, s.Save(ctx, "ledger:b", []byte("b")))

	data, err := s.Load(ctx, "ledger:a")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), data)
}

func TestFileStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Load(ctx, "ledger:owner-1")
	assert.ErrorIs(t, err, ErrNoSnapshot)

	require.NoError(t, s.Save(ctx, "ledger:owner-1", []byte(`{"v":1}`)))

	data, err := s.Load(ctx, "ledger:owner-1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"v":1}`), data)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, "users", []byte(`[]`)))

	second, err := NewFileStore(dir)
	require.NoError(t, err)
	data, err := second.Load(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), data)
}

func TestFileStoreSanitizesNamespace(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "ledger:owner-1", []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), ":")
	assert.Equal(t, ".json", filepath.Ext(entries[0].Name()))
}

func TestFileStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	_, err := NewFileStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
