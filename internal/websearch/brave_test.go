// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/counsel-engine/pkg/types"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := braveAPIBase
	braveAPIBase = ts.URL
	t.Cleanup(func() { braveAPIBase = old })

	c := NewClient(types.WebSearchConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test/0.1"},
		APIKey:     "brv-test",
		MaxResults: 2,
	})
	c.HTTP = ts.Client()
	return c
}

func TestSearchParsesAndCapsResults(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "brv-test", r.Header.Get("X-Subscription-Token"))
		assert.Equal(t, "data retention rules", r.URL.Query().Get("q"))
		fmt.Fprint(w, `{"web": {"results": [
			{"title": "A", "url": "https://a.example", "description": "first"},
			{"title": "B", "url": "https://b.example", "description": "second"},
			{"title": "C", "url": "https://c.example", "description": "third"}
		]}}`)
	})

	results, err := c.Search(context.Background(), "data retention rules")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "A", results[0].Title)
	assert.Equal(t, "second", results[1].Description)
}

func TestSearchNon200IsError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.Search(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestFormatSnippets(t *testing.T) {
	text := FormatSnippets([]Result{
		{Title: "A", URL: "https://a.example", Description: "first"},
		{Title: "B", URL: "https://b.example", Description: "second"},
	})

	assert.Contains(t, text, "1. A")
	assert.Contains(t, text, "2. B")
	assert.Contains(t, text, "https://a.example")
	assert.Contains(t, text, "\n\n")
}

func TestFormatSnippetsEmpty(t *testing.T) {
	assert.Equal(t, "", FormatSnippets(nil))
}
