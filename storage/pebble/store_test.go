package pebblestore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/participant/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{DataDir: t.TempDir(), Sync: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, ok, err := s.Get(ctx, "p.browser_id")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "p.browser_id", "v1"))
	got, ok, err := s.Get(ctx, "p.browser_id")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1", got)

	exists, err := s.Contains(ctx, "p.browser_id")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, s.Remove(ctx, "p.browser_id"))
	require.NoError(t, s.Remove(ctx, "p.browser_id"))
	exists, err = s.Contains(ctx, "p.browser_id")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := Open(Options{DataDir: dir, Sync: true})
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "p.created_at", "2025-01-01T00:00:00.000Z"))
	require.NoError(t, s.Close())

	_, _, err = s.Get(ctx, "p.created_at")
	assert.ErrorIs(t, err, storage.ErrUnavailable)

	s, err = Open(Options{DataDir: dir})
	require.NoError(t, err)
	defer s.Close()
	got, ok, err := s.Get(ctx, "p.created_at")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2025-01-01T00:00:00.000Z", got)
}

func TestOpenRequiresDir(t *testing.T) {
	_, err := Open(Options{})
	assert.Error(t, err)
}
