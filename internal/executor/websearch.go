// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package executor

import (
	"context"

	"github.com/pdiddy/counsel-engine/internal/rank"
	"github.com/pdiddy/counsel-engine/internal/websearch"
)

// searcher is the web search dependency, narrowed for tests.
type searcher interface {
	Search(ctx context.Context, query string) ([]websearch.Result, error)
}

// WebSearchExecutor answers a query with formatted snippets from the
// external search API.
type WebSearchExecutor struct {
	client searcher
}

// NewWebSearchExecutor builds the web search tool.
func NewWebSearchExecutor(client *websearch.Client) *WebSearchExecutor {
	return &WebSearchExecutor{client: client}
}

// ID returns the tool identifier.
func (e *WebSearchExecutor) ID() string { return rank.ToolWebSearch }

// Execute issues one search call. Network failure is an ExecError; an
// empty result list is a valid no-results outcome.
func (e *WebSearchExecutor) Execute(ctx context.Context, req Request) (string, error) {
	results, err := e.client.Search(ctx, req.Query)
	if err != nil {
		return "", &ExecError{Tool: e.ID(), Err: err}
	}
	if len(results) == 0 {
		return NoResultsMarker, nil
	}
	return websearch.FormatSnippets(results), nil
}
