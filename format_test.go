// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package confj

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	c := dirConfig(t)

	secrets, err := c.Section("secrets")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"password\": \"password\",\n  \"user\": \"username\"\n}", secrets.Format())

	settings, err := c.Section("settings")
	require.NoError(t, err)
	out := settings.Format()
	assert.Contains(t, out, `"some_array": [13, "string", false]`)
	assert.Contains(t, out, `"some_none": null`)
	assert.Less(t, strings.Index(out, `"array_of_objects"`), strings.Index(out, `"some_array"`))
	assert.False(t, strings.HasSuffix(out, "\n"))

	// stable across calls
	assert.Equal(t, out, settings.Format())
}

func TestFormat_Scalars(t *testing.T) {
	assert.Equal(t, "{}", MustData(nil).Format())
	assert.Equal(t, `"x"`, MustData("x").Format())
	assert.Equal(t, "13", MustData(13).Format())
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MustData(map[string]any{"a": 1}).Print(&buf))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}
