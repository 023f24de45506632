// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation. The persistence layer owns
// storage; the orchestrator reads and appends turns through it and never
// caches a turn across queries.
type Turn struct {
	// ID is assigned by the persistence layer on append.
	ID string `json:"id" yaml:"id"`

	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`

	// IsStreaming marks an assistant turn whose content is still being
	// revealed to the caller.
	IsStreaming bool `json:"is_streaming,omitempty" yaml:"is_streaming,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// UserPrompts holds the per-user prompt overrides folded into ranking and
// synthesis prompts.
type UserPrompts struct {
	LawPrompt    string `json:"law_prompt" yaml:"law_prompt"`
	TonePrompt   string `json:"tone_prompt" yaml:"tone_prompt"`
	PolicyPrompt string `json:"policy_prompt" yaml:"policy_prompt"`
}
