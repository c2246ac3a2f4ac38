// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package remote

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "config.sqlite"), DefaultSQLiteConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLite_PutFetch(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "app", `{"v":1}`))
	doc, err := s.Fetch(ctx, "app")
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, doc)

	// upsert replaces the body
	require.NoError(t, s.Put(ctx, "app", `{"v":2}`))
	doc, err = s.Fetch(ctx, "app")
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, doc)
}

func TestSQLite_FetchMissing(t *testing.T) {
	s := openTestSQLite(t)

	_, err := s.Fetch(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_ReopenKeepsDocuments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.sqlite")
	ctx := context.Background()

	s, err := OpenSQLite(ctx, path, DefaultSQLiteConfig())
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "app", `{}`))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path, DefaultSQLiteConfig())
	require.NoError(t, err)
	defer s.Close()

	doc, err := s.Fetch(ctx, "app")
	require.NoError(t, err)
	assert.Equal(t, `{}`, doc)
}

func TestSQLite_Verify(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "app", `{"v":1}`))

	issues, err := s.Verify(ctx, false)
	require.NoError(t, err)
	assert.Nil(t, issues)

	issues, err = s.Verify(ctx, true)
	require.NoError(t, err)
	assert.Nil(t, issues)
}
