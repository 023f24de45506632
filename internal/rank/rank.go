// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/counsel-engine/internal/llm"
	"github.com/pdiddy/counsel-engine/pkg/types"
)

// Result is the ranking outcome for one query: either a direct answer that
// skips tool execution, or an ordered tool list. Result values are
// query-scoped and discarded once the answer is finalized.
type Result struct {
	// Direct is the verbatim direct answer; non-empty iff no tool runs.
	Direct string

	// Tools is the ordered tool list; priority order, not a strict
	// sequencing requirement.
	Tools []string
}

// IsDirect reports whether the result short-circuits tool execution.
func (r Result) IsDirect() bool { return r.Direct != "" }

// Ranker asks the language model which sources a query needs.
type Ranker struct {
	completer llm.Completer
	catalog   *Catalog
	log       *zap.Logger
}

// NewRanker builds a ranker over the given model and tool catalog.
func NewRanker(completer llm.Completer, catalog *Catalog, log *zap.Logger) *Ranker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ranker{completer: completer, catalog: catalog, log: log}
}

// Rank sends the query, history, and tool catalog to the model and parses
// the reply. A malformed reply degrades to a no-tool ranking with a
// warning; a failed model call is a real error for the caller.
func (r *Ranker) Rank(ctx context.Context, query string, history []llm.Message, prompts types.UserPrompts) (Result, error) {
	prompt, err := buildPrompt(r.catalog, query, userContext(prompts))
	if err != nil {
		return Result{}, err
	}

	reply, err := r.completer.Complete(ctx, prompt, history, llm.Options{})
	if err != nil {
		return Result{}, fmt.Errorf("ranking query: %w", err)
	}

	parsed := Parse(reply, r.catalog)
	switch parsed.Outcome {
	case OutcomeDirect:
		r.log.Debug("ranking produced direct response", zap.Int("len", len(parsed.Direct)))
		return Result{Direct: parsed.Direct}, nil
	case OutcomeTools:
		r.log.Debug("ranking produced tool list", zap.Strings("tools", parsed.Tools))
		return Result{Tools: parsed.Tools}, nil
	default:
		r.log.Warn("ranking reply unparseable, degrading to no-tool answer",
			zap.String("prompt_version", rankPromptVersion))
		return Result{Tools: []string{ToolNone}}, nil
	}
}

// userContext folds the per-user prompt overrides into one block.
func userContext(p types.UserPrompts) string {
	var parts []string
	for _, s := range []string{p.LawPrompt, p.TonePrompt, p.PolicyPrompt} {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, strings.TrimSpace(s))
		}
	}
	return strings.Join(parts, "\n")
}
