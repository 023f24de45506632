// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package executor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/counsel-engine/internal/lawdb"
	"github.com/pdiddy/counsel-engine/internal/llm"
	"github.com/pdiddy/counsel-engine/internal/websearch"
	"github.com/pdiddy/counsel-engine/pkg/types"
)

// --- fakes ---

type fakeExecutor struct {
	id   string
	text string
	err  error
}

func (f *fakeExecutor) ID() string { return f.id }

func (f *fakeExecutor) Execute(_ context.Context, _ Request) (string, error) {
	return f.text, f.err
}

type fakeCompleter struct {
	text string
	err  error
}

func (f *fakeCompleter) Complete(_ context.Context, _ string, _ []llm.Message, _ llm.Options) (string, error) {
	return f.text, f.err
}

// --- fan-out ---

func TestRunAllCollectsSuccesses(t *testing.T) {
	sources, err := RunAll(context.Background(), []Executor{
		&fakeExecutor{id: "query_penal_code", text: "Article 5 ..."},
		&fakeExecutor{id: "search_web", text: "1. Snippet"},
	}, Request{Query: "q"}, nil)

	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"query_penal_code": "Article 5 ...",
		"search_web":       "1. Snippet",
	}, sources)
}

func TestRunAllIsolatesSingleFailure(t *testing.T) {
	sources, err := RunAll(context.Background(), []Executor{
		&fakeExecutor{id: "search_web", err: &ExecError{Tool: "search_web", Err: errors.New("timeout")}},
		&fakeExecutor{id: "query_penal_code", text: "Article 5 ..."},
	}, Request{Query: "q"}, nil)

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"query_penal_code": "Article 5 ..."}, sources)
}

func TestRunAllAllFailuresIsTerminal(t *testing.T) {
	_, err := RunAll(context.Background(), []Executor{
		&fakeExecutor{id: "search_web", err: errors.New("down")},
		&fakeExecutor{id: "query_penal_code", err: errors.New("also down")},
	}, Request{Query: "q"}, nil)

	require.ErrorIs(t, err, ErrAllSourcesFailed)
	assert.Contains(t, err.Error(), "search_web")
	assert.Contains(t, err.Error(), "query_penal_code")
}

func TestRunAllExcludesNoResults(t *testing.T) {
	sources, err := RunAll(context.Background(), []Executor{
		&fakeExecutor{id: "query_penal_code", text: NoResultsMarker},
		&fakeExecutor{id: "search_web", text: "1. Snippet"},
	}, Request{Query: "q"}, nil)

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"search_web": "1. Snippet"}, sources)
}

func TestRunAllAllNoResultsIsNotFailure(t *testing.T) {
	sources, err := RunAll(context.Background(), []Executor{
		&fakeExecutor{id: "query_penal_code", text: NoResultsMarker},
	}, Request{Query: "q"}, nil)

	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestNoResultsDetection(t *testing.T) {
	assert.True(t, NoResults("NO_RESULTS"))
	assert.True(t, NoResults("NO_RESULTS\nnothing matched"))
	assert.False(t, NoResults("Article 5\nNO_RESULTS"))
	assert.False(t, NoResults("answer"))
}

// --- database executor ---

const plainDB = `{
	"metadata": {"version": "1.0", "enhanced": false},
	"chapters": [
		{"chapter_number": "I", "chapter_title": "Theft",
		 "articles": [{"article_number": "1", "content": "Taking another's property is punishable."}]}
	]
}`

func testLawCatalog(t *testing.T) *lawdb.Catalog {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "penal_code.json"), []byte(plainDB), 0o644))

	c, err := lawdb.NewCatalog(types.LawConfig{
		DatabasesDir: dir,
		Databases:    []string{"penal_code"},
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestDatabaseExecutorReferenceHit(t *testing.T) {
	ex := NewDatabaseExecutor("penal_code", testLawCatalog(t))
	assert.Equal(t, "query_penal_code", ex.ID())

	text, err := ex.Execute(context.Background(), Request{Query: "chapter I article 1"})
	require.NoError(t, err)
	assert.Contains(t, text, "Article 1")
	assert.Contains(t, text, "Taking another's property")
}

func TestDatabaseExecutorScoredFallback(t *testing.T) {
	ex := NewDatabaseExecutor("penal_code", testLawCatalog(t))

	text, err := ex.Execute(context.Background(), Request{Query: "property"})
	require.NoError(t, err)
	assert.False(t, NoResults(text))
	assert.Contains(t, text, "Article 1")
}

func TestDatabaseExecutorNoResults(t *testing.T) {
	ex := NewDatabaseExecutor("penal_code", testLawCatalog(t))

	text, err := ex.Execute(context.Background(), Request{Query: "zoning permits"})
	require.NoError(t, err)
	assert.True(t, NoResults(text))
}

func TestDatabaseExecutorUnknownDatabaseFails(t *testing.T) {
	ex := NewDatabaseExecutor("unknown", testLawCatalog(t))

	_, err := ex.Execute(context.Background(), Request{Query: "anything"})
	var execErr *ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "query_unknown", execErr.Tool)
}

// --- web search executor ---

type fakeSearcher struct {
	results []websearch.Result
	err     error
}

func (f *fakeSearcher) Search(_ context.Context, _ string) ([]websearch.Result, error) {
	return f.results, f.err
}

func TestWebSearchExecutorFormatsSnippets(t *testing.T) {
	ex := &WebSearchExecutor{client: &fakeSearcher{results: []websearch.Result{
		{Title: "Ruling", URL: "https://example.com", Description: "summary"},
	}}}

	text, err := ex.Execute(context.Background(), Request{Query: "q"})
	require.NoError(t, err)
	assert.Contains(t, text, "1. Ruling")
}

func TestWebSearchExecutorEmptyIsNoResults(t *testing.T) {
	ex := &WebSearchExecutor{client: &fakeSearcher{}}

	text, err := ex.Execute(context.Background(), Request{Query: "q"})
	require.NoError(t, err)
	assert.True(t, NoResults(text))
}

func TestWebSearchExecutorNetworkFailure(t *testing.T) {
	ex := &WebSearchExecutor{client: &fakeSearcher{err: errors.New("timeout")}}

	_, err := ex.Execute(context.Background(), Request{Query: "q"})
	var execErr *ExecError
	require.ErrorAs(t, err, &execErr)
}

// --- model-backed executors ---

func TestNoToolExecutorAnswersFromHistory(t *testing.T) {
	ex := NewNoToolExecutor(&fakeCompleter{text: "You said the deadline is Friday."})

	text, err := ex.Execute(context.Background(), Request{Query: "when is it due?"})
	require.NoError(t, err)
	assert.Equal(t, "You said the deadline is Friday.", text)
}

func TestAgentModeOffExecutorWrapsFailure(t *testing.T) {
	ex := NewAgentModeOffExecutor(&fakeCompleter{err: errors.New("model down")})

	_, err := ex.Execute(context.Background(), Request{Query: "q"})
	var execErr *ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, AgentModeOffID, execErr.Tool)
}
