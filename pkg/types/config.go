// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the counsel-engine core:
// per-stage configuration and the conversation turn model exchanged between
// the orchestrator and the persistence layer.
package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "counsel-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// LLMConfig holds settings for the language-model collaborator.
type LLMConfig struct {
	// Model is the model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the model API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxTokens caps the length of a single completion (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// MaxRetries is the number of retry attempts for rate-limited calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// WebSearchConfig holds settings for the web search source.
type WebSearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the search API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxResults is the maximum number of snippets folded into a source
	// text (default 5).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// LawConfig holds settings for the structured legal database source.
type LawConfig struct {
	// DatabasesDir is the directory holding law database JSON files.
	DatabasesDir string `json:"databases_dir" yaml:"databases_dir"`

	// Databases lists the configured database names. Each name maps to
	// DatabasesDir/<name>.json and yields a query_<name> tool.
	Databases []string `json:"databases" yaml:"databases"`

	// CacheTTL bounds how long a loaded database stays cached before the
	// next query re-reads it from disk. Zero keeps databases cached for
	// the life of the process.
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`

	// Watch enables filesystem watching of DatabasesDir so edited
	// database files are re-loaded without a restart.
	Watch bool `json:"watch" yaml:"watch"`
}

// StaticConfig holds settings for the static reference-document source.
type StaticConfig struct {
	// DocumentsDir is the directory holding static reference documents.
	DocumentsDir string `json:"documents_dir" yaml:"documents_dir"`

	// Documents lists the configured document names. Each name maps to
	// DocumentsDir/<name>.md and yields a get_<name> tool.
	Documents []string `json:"documents" yaml:"documents"`
}

// HistoryConfig holds settings for conversation persistence.
type HistoryConfig struct {
	// DBPath is the SQLite database file for conversations, messages,
	// and user prompt overrides.
	DBPath string `json:"db_path" yaml:"db_path"`

	// PromptSaveDelay is the debounce window for persisting edited user
	// prompts (default 2s). A new edit restarts the pending save.
	PromptSaveDelay time.Duration `json:"prompt_save_delay" yaml:"prompt_save_delay"`
}

// OrchestratorConfig holds settings for the query orchestration core.
type OrchestratorConfig struct {
	// DisableTools skips ranking entirely for the whole session; every
	// query is answered from conversation history alone.
	DisableTools bool `json:"disable_tools" yaml:"disable_tools"`

	// RevealInterval is the tick between streamed answer fragments when
	// the answer is revealed incrementally (default 30ms).
	RevealInterval time.Duration `json:"reveal_interval" yaml:"reveal_interval"`

	// ToolTimeout bounds a single tool execution (default 30s).
	ToolTimeout time.Duration `json:"tool_timeout" yaml:"tool_timeout"`

	// StreamSynthesis streams the synthesized answer from the model as
	// provider-native chunks instead of revealing a completed answer on
	// a timer.
	StreamSynthesis bool `json:"stream_synthesis" yaml:"stream_synthesis"`
}

// EngineConfig groups all stage configurations for the engine.
type EngineConfig struct {
	LLM          LLMConfig          `json:"llm" yaml:"llm"`
	WebSearch    WebSearchConfig    `json:"web_search" yaml:"web_search"`
	Law          LawConfig          `json:"law" yaml:"law"`
	Static       StaticConfig       `json:"static" yaml:"static"`
	History      HistoryConfig      `json:"history" yaml:"history"`
	Orchestrator OrchestratorConfig `json:"orchestrator" yaml:"orchestrator"`
}
