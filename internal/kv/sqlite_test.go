package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLite_GetSet(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "palavra.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, KeySettings)
	require.NoError(t, err)
	assert.False(t, ok, "fresh install has no keys")

	require.NoError(t, s.Set(ctx, KeySettings, `{"apiKey":"a"}`))
	require.NoError(t, s.Set(ctx, KeySettings, `{"apiKey":"b"}`))

	v, ok, err := s.Get(ctx, KeySettings)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"apiKey":"b"}`, v)
	require.NoError(t, s.Close())

	// Reopen simulates a restart.
	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err = s.Get(ctx, KeySettings)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"apiKey":"b"}`, v)
}

func TestMemory_GetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Get(ctx, KeyNotebook)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, KeyNotebook, "[]"))
	v, ok, _ := m.Get(ctx, KeyNotebook)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
}
