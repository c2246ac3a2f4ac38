// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package confj

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	_ = os.Unsetenv(EnvConfigPath)
	os.Exit(m.Run())
}

const fixtureDir = "testdata/valid_conf"

func newTestConfig(opts ...Option) *Config {
	return New(append([]Option{WithLogger(zerolog.Nop())}, opts...)...)
}

func dirConfig(t *testing.T) *Config {
	t.Helper()
	c := newTestConfig()
	require.NoError(t, c.Load(fixtureDir))
	return c
}

func fileConfig(t *testing.T) *Config {
	t.Helper()
	c := newTestConfig()
	require.NoError(t, c.Load(filepath.Join(fixtureDir, "settings.json")))
	return c
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
