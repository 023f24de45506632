// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package executor

import (
	"context"

	"github.com/pdiddy/counsel-engine/internal/llm"
	"github.com/pdiddy/counsel-engine/internal/rank"
)

const noToolSystem = `You are a legal assistant. Answer the user's question using only the conversation so far. Do not invent statutes, case citations, or facts you have not been given; if the conversation does not contain enough information, say so.`

// NoToolExecutor answers from conversation history alone, with no external
// fact lookup.
type NoToolExecutor struct {
	completer llm.Completer
}

// NewNoToolExecutor builds the history-only tool.
func NewNoToolExecutor(completer llm.Completer) *NoToolExecutor {
	return &NoToolExecutor{completer: completer}
}

// ID returns the tool identifier.
func (e *NoToolExecutor) ID() string { return rank.ToolNone }

// Execute asks the model for a history-grounded answer.
func (e *NoToolExecutor) Execute(ctx context.Context, req Request) (string, error) {
	text, err := e.completer.Complete(ctx, req.Query, req.History, llm.Options{System: noToolSystem})
	if err != nil {
		return "", &ExecError{Tool: e.ID(), Err: err}
	}
	return text, nil
}
