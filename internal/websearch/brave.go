// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package websearch queries an external web search API and formats result
// snippets into a single source text for synthesis.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/counsel-engine/internal/httputil"
	"github.com/pdiddy/counsel-engine/pkg/types"
)

// braveAPIBase is the Brave web search endpoint. Declared as a var so tests
// can substitute an httptest server.
var braveAPIBase = "https://api.search.brave.com/res/v1/web/search"

const defaultMaxResults = 5

// Result is one web search hit.
type Result struct {
	Title       string
	URL         string
	Description string
}

// Client queries the Brave Search API.
type Client struct {
	APIKey string
	HTTP   *http.Client
	cfg    types.WebSearchConfig
}

// NewClient builds a search client from config.
func NewClient(cfg types.WebSearchConfig) *Client {
	return &Client{
		APIKey: cfg.APIKey,
		HTTP:   &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
	}
}

// Search issues one search call and returns up to MaxResults hits.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	maxResults := c.cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	params := url.Values{
		"q":     {query},
		"count": {fmt.Sprintf("%d", maxResults)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, braveAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("X-Subscription-Token", c.APIKey)

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("search API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned HTTP %d", resp.StatusCode)
	}

	var br braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	var results []Result
	for _, r := range br.Web.Results {
		results = append(results, Result{Title: r.Title, URL: r.URL, Description: r.Description})
		if len(results) >= maxResults {
			break
		}
	}
	return results, nil
}

// FormatSnippets renders results as a numbered snippet list.
func FormatSnippets(results []Result) string {
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n%s\n%s\n", i+1, r.Title, r.Description, r.URL)
		if i < len(results)-1 {
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Brave Search API JSON structures.
type braveResponse struct {
	Web struct {
		Results []braveResult `json:"results"`
	} `json:"web"`
}

type braveResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}
