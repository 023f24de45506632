// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package executor

import (
	"context"
	"fmt"

	"github.com/pdiddy/counsel-engine/internal/rank"
	"github.com/pdiddy/counsel-engine/internal/staticdoc"
)

// StaticExecutor returns one pre-loaded reference document verbatim.
type StaticExecutor struct {
	name  string
	store *staticdoc.Store
}

// NewStaticExecutor builds the static content tool for one document name.
func NewStaticExecutor(name string, store *staticdoc.Store) *StaticExecutor {
	return &StaticExecutor{name: name, store: store}
}

// ID returns the tool identifier (get_<name>).
func (e *StaticExecutor) ID() string { return rank.StaticTool(e.name) }

// Execute returns the document content. A vanished document is a
// collaborator failure, not a no-results outcome: it was configured to
// exist.
func (e *StaticExecutor) Execute(ctx context.Context, _ Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &ExecError{Tool: e.ID(), Err: err}
	}
	doc, ok := e.store.Get(e.name)
	if !ok {
		return "", &ExecError{Tool: e.ID(), Err: fmt.Errorf("document %s not loaded", e.name)}
	}
	return doc.Content, nil
}
