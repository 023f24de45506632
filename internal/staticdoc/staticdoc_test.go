// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package staticdoc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/counsel-engine/pkg/types"
)

func TestLoadStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "faq.md"), []byte("# FAQ\n\nQ: ...\n"), 0o644))

	s, err := LoadStore(types.StaticConfig{DocumentsDir: dir, Documents: []string{"faq"}})
	require.NoError(t, err)

	doc, ok := s.Get("faq")
	require.True(t, ok)
	assert.Equal(t, "# FAQ\n\nQ: ...", doc.Content)
	assert.Equal(t, []string{"faq"}, s.Names())

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestLoadStoreMissingDocumentFailsFast(t *testing.T) {
	_, err := LoadStore(types.StaticConfig{DocumentsDir: t.TempDir(), Documents: []string{"absent"}})
	assert.Error(t, err)
}
