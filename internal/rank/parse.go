// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"regexp"
	"strings"
)

// Direct-response delimiters. The parser requires both; an opened but
// unclosed block is malformed and the entry is discarded.
const (
	directOpen  = "<direct_response>"
	directClose = "</direct_response>"
)

// toolLinePattern matches one enumerated tool entry: "1. tool_id" or
// "2) tool_id", optionally followed by trailing commentary.
var toolLinePattern = regexp.MustCompile(`^\s*\d+[.)]\s*([a-z][a-z0-9_]*)`)

// Outcome classifies a parsed ranking reply.
type Outcome int

const (
	// OutcomeDirect is a well-formed direct-response block; no tool runs.
	OutcomeDirect Outcome = iota

	// OutcomeTools is a non-empty ordered tool list.
	OutcomeTools

	// OutcomeParseFailure means neither shape was found. Callers degrade
	// to a no-tool answer; a malformed reply never crashes the turn.
	OutcomeParseFailure
)

// Parsed is the sum-type result of parsing a ranking reply.
type Parsed struct {
	Outcome Outcome

	// Direct holds the direct answer when Outcome is OutcomeDirect.
	Direct string

	// Tools holds ordered tool IDs when Outcome is OutcomeTools.
	Tools []string
}

// Parse extracts a direct response or an ordered tool list from a model
// reply. Parsing is strict: the direct block needs both delimiters, and
// tool identifiers not in the catalog are dropped rather than passed on.
func Parse(reply string, catalog *Catalog) Parsed {
	if direct, ok := parseDirect(reply); ok {
		return Parsed{Outcome: OutcomeDirect, Direct: direct}
	}

	tools := parseToolList(reply, catalog)
	if len(tools) == 0 {
		return Parsed{Outcome: OutcomeParseFailure}
	}
	return Parsed{Outcome: OutcomeTools, Tools: tools}
}

// parseDirect extracts the content of a complete delimited block.
func parseDirect(reply string) (string, bool) {
	open := strings.Index(reply, directOpen)
	if open < 0 {
		return "", false
	}
	rest := reply[open+len(directOpen):]
	end := strings.Index(rest, directClose)
	if end < 0 {
		// Opened but never closed: malformed, discard.
		return "", false
	}
	content := strings.TrimSpace(rest[:end])
	if content == "" {
		return "", false
	}
	return content, true
}

// parseToolList collects catalog-valid tool IDs from enumerated lines,
// preserving order and dropping duplicates and unknown identifiers.
func parseToolList(reply string, catalog *Catalog) []string {
	var tools []string
	seen := make(map[string]bool)

	for _, line := range strings.Split(reply, "\n") {
		m := toolLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		id := m[1]
		if !catalog.Contains(id) || seen[id] {
			continue
		}
		seen[id] = true
		tools = append(tools, id)
	}
	return tools
}
