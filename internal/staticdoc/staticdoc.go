// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package staticdoc serves pre-loaded reference documents. Documents are
// read once at startup and returned verbatim by the static content tool.
package staticdoc

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/counsel-engine/pkg/types"
)

// Document is one loaded reference document.
type Document struct {
	Name    string
	Content string
}

// Store holds the configured documents, keyed by name.
type Store struct {
	docs map[string]Document
}

// LoadStore reads every configured document from cfg.DocumentsDir. Each
// name maps to <name>.md. A missing document is an error at startup rather
// than at query time.
func LoadStore(cfg types.StaticConfig) (*Store, error) {
	s := &Store{docs: make(map[string]Document, len(cfg.Documents))}
	for _, name := range cfg.Documents {
		path := filepath.Join(cfg.DocumentsDir, name+".md")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading static document %s: %w", name, err)
		}
		s.docs[name] = Document{Name: name, Content: strings.TrimSpace(string(data))}
	}
	return s, nil
}

// Get returns the document for name.
func (s *Store) Get(name string) (Document, bool) {
	d, ok := s.docs[name]
	return d, ok
}

// Names returns the loaded document names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
