// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingDirIsEmpty(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestLoadTrimsValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, AnthropicAPIKey), []byte("sk-test-123\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, BraveAPIKey), []byte("  brv-456  "), 0o600))

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "sk-test-123", s[AnthropicAPIKey])
	assert.Equal(t, "brv-456", s[BraveAPIKey])
}

func TestLoadSkipsHiddenAndEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("*"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty-key"), []byte("   \n"), 0o600))

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestGetPrefersExplicitValue(t *testing.T) {
	s := Secrets{AnthropicAPIKey: "from-file"}
	assert.Equal(t, "from-flag", s.Get(AnthropicAPIKey, "from-flag"))
	assert.Equal(t, "from-file", s.Get(AnthropicAPIKey, ""))
	assert.Equal(t, "", s.Get("unknown", ""))
}
