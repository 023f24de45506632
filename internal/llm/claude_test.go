// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTestServer(t *testing.T, handler http.HandlerFunc) *ClaudeClient {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := claudeAPIURL
	claudeAPIURL = ts.URL
	t.Cleanup(func() { claudeAPIURL = old })

	return &ClaudeClient{APIKey: "sk-test", Model: "claude-sonnet-4-5-20250929", Client: ts.Client()}
}

func TestCompleteJoinsTextBlocks(t *testing.T) {
	var gotReq claudeRequest
	c := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(claudeResponse{Content: []claudeContent{
			{Type: "text", Text: "Hello "},
			{Type: "thinking", Text: "ignored"},
			{Type: "text", Text: "world"},
		}})
	})

	text, err := c.Complete(context.Background(), "hi", []Message{{Role: "user", Content: "earlier"}}, Options{System: "be brief"})
	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)

	// History precedes the prompt in the outgoing messages.
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "earlier", gotReq.Messages[0].Content)
	assert.Equal(t, "hi", gotReq.Messages[1].Content)
	assert.Equal(t, "be brief", gotReq.System)
	assert.False(t, gotReq.Stream)
}

func TestCompleteEmptyContentIsError(t *testing.T) {
	c := withTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(claudeResponse{})
	})

	_, err := c.Complete(context.Background(), "hi", nil, Options{})
	assert.Error(t, err)
}

func TestCompleteNon200IsError(t *testing.T) {
	c := withTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": "bad key"}`, http.StatusUnauthorized)
	})

	_, err := c.Complete(context.Background(), "hi", nil, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestCompleteStreamForwardsDeltas(t *testing.T) {
	c := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req claudeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: message_start\n")
		fmt.Fprint(w, "data: {\"type\":\"message_start\"}\n\n")
		fmt.Fprint(w, "data: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"Every \"}}\n\n")
		fmt.Fprint(w, "data: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"word\"}}\n\n")
		fmt.Fprint(w, "data: {\"type\":\"message_stop\"}\n\n")
	})

	frags, err := c.CompleteStream(context.Background(), "hi", nil, Options{})
	require.NoError(t, err)

	var got string
	for f := range frags {
		require.NoError(t, f.Err)
		got += f.Text
	}
	assert.Equal(t, "Every word", got)
}

func TestCompleteStreamStopsOnCancel(t *testing.T) {
	release := make(chan struct{})
	c := withTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"first\"}}\n\n")
		w.(http.Flusher).Flush()
		<-release
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	frags, err := c.CompleteStream(ctx, "hi", nil, Options{})
	require.NoError(t, err)

	f := <-frags
	assert.Equal(t, "first", f.Text)
	cancel()

	// The channel must close without further text fragments.
	for f := range frags {
		assert.Empty(t, f.Text)
	}
}
