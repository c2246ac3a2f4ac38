// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package confj

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile_RoundTrip(t *testing.T) {
	src := dirConfig(t)
	path := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, src.WriteFile(path))

	back := newTestConfig()
	require.NoError(t, back.Load(path))
	assert.True(t, back.Equal(src))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, src.Format()+"\n", string(raw))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestWriteFile_Replaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	writeFile(t, path, `{"old": true}`)

	require.NoError(t, MustData(map[string]any{"new": true}).WriteFile(path))

	c := newTestConfig()
	require.NoError(t, c.Load(path))
	assert.False(t, c.Has("old"))
	assert.True(t, c.Has("new"))
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	err := MustData(nil).WriteFile(filepath.Join(t.TempDir(), "missing", "out.json"))
	assert.Error(t, err)
}
