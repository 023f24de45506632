// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package executor

import (
	"context"

	"github.com/pdiddy/counsel-engine/internal/llm"
)

// AgentModeOffID identifies the ranking bypass used when the caller has
// disabled tool use for the whole session. It is not part of the ranking
// catalog; the orchestrator invokes it directly.
const AgentModeOffID = "agent_mode_off"

const agentOffSystem = `You are a legal assistant. Tool use is disabled for this session: answer from the conversation and your general knowledge, and tell the user when a question would need a statute lookup or web search you cannot perform right now.`

// AgentModeOffExecutor answers directly from history and the base system
// prompt, bypassing ranking entirely.
type AgentModeOffExecutor struct {
	completer llm.Completer
}

// NewAgentModeOffExecutor builds the ranking bypass.
func NewAgentModeOffExecutor(completer llm.Completer) *AgentModeOffExecutor {
	return &AgentModeOffExecutor{completer: completer}
}

// ID returns the bypass identifier.
func (e *AgentModeOffExecutor) ID() string { return AgentModeOffID }

// Execute asks the model for a direct answer.
func (e *AgentModeOffExecutor) Execute(ctx context.Context, req Request) (string, error) {
	text, err := e.completer.Complete(ctx, req.Query, req.History, llm.Options{System: agentOffSystem})
	if err != nil {
		return "", &ExecError{Tool: e.ID(), Err: err}
	}
	return text, nil
}
