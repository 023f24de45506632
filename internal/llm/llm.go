// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm abstracts the language-model collaborator: a prompt (plus
// optional conversation history) in, text out, with an optional streaming
// variant. Model output is never trusted to be deterministic or well
// formed; callers parse it defensively.
package llm

import "context"

// Message is one model-visible conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options tunes a single completion call.
type Options struct {
	// System is the system prompt for the call.
	System string

	// MaxTokens caps the completion length. Zero uses the client default.
	MaxTokens int
}

// Fragment is one streamed piece of a completion. Err is set on the final
// fragment when the stream failed mid-way.
type Fragment struct {
	Text string
	Err  error
}

// Completer produces a full completion for a prompt and history.
type Completer interface {
	Complete(ctx context.Context, prompt string, history []Message, opts Options) (string, error)
}

// StreamCompleter produces a completion as a lazy fragment sequence. The
// channel is closed when the completion finishes or the context is
// cancelled; fragments arrive in order and concatenate to the full text.
type StreamCompleter interface {
	Completer
	CompleteStream(ctx context.Context, prompt string, history []Message, opts Options) (<-chan Fragment, error)
}
