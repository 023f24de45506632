// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synthesis merges gathered source texts into one coherent answer
// and delivers it as a cancellable stream of text fragments.
package synthesis

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/pdiddy/counsel-engine/internal/llm"
	"github.com/pdiddy/counsel-engine/pkg/types"
)

// synthesisPromptTmpl asks the model for one answer over all gathered
// sources. With more than one source it must attribute claims to the
// source that informed them.
var synthesisPromptTmpl = template.Must(template.New("synthesis").Parse(`You are a legal assistant. Answer the user's question using the source material below. Stay within the sources for legal facts; do not invent statutes or citations.
{{- if .Multiple}}
Several sources are present. When sources disagree or cover different ground, say which source informed which part of your answer.
{{- end}}
{{- if .UserContext}}

Additional instructions from the user:
{{.UserContext}}
{{- end}}

{{range .Sources}}--- Source: {{.Tool}} ---
{{.Text}}

{{end}}User question:
{{.Query}}
`))

// Synthesizer produces the final answer text from executor outputs.
type Synthesizer struct {
	completer llm.Completer
	log       *zap.Logger
}

// NewSynthesizer builds a synthesizer over the given model.
func NewSynthesizer(completer llm.Completer, log *zap.Logger) *Synthesizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Synthesizer{completer: completer, log: log}
}

// promptSource is one source rendered into the synthesis prompt.
type promptSource struct {
	Tool string
	Text string
}

// renderPrompt assembles the synthesis prompt. Sources are ordered by tool
// ID for a deterministic prompt.
func renderPrompt(query string, sources map[string]string, prompts types.UserPrompts) (string, error) {
	if len(sources) == 0 {
		return "", fmt.Errorf("nothing to synthesize: no sources")
	}

	ordered := make([]promptSource, 0, len(sources))
	for tool, text := range sources {
		ordered = append(ordered, promptSource{Tool: tool, Text: text})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Tool < ordered[j].Tool })

	var buf bytes.Buffer
	err := synthesisPromptTmpl.Execute(&buf, struct {
		Sources     []promptSource
		Multiple    bool
		UserContext string
		Query       string
	}{
		Sources:     ordered,
		Multiple:    len(ordered) > 1,
		UserContext: userContext(prompts),
		Query:       query,
	})
	if err != nil {
		return "", fmt.Errorf("rendering synthesis prompt: %w", err)
	}
	return buf.String(), nil
}

// Synthesize prompts the model with every gathered source and the original
// query, blocking until the full answer is available.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, sources map[string]string, history []llm.Message, prompts types.UserPrompts) (string, error) {
	prompt, err := renderPrompt(query, sources, prompts)
	if err != nil {
		return "", err
	}

	answer, err := s.completer.Complete(ctx, prompt, history, llm.Options{})
	if err != nil {
		return "", fmt.Errorf("synthesizing answer: %w", err)
	}

	s.log.Debug("synthesized answer",
		zap.Int("sources", len(sources)), zap.Int("len", len(answer)))
	return answer, nil
}

// SynthesizeStream renders the same prompt but streams the model's answer
// as provider-native chunks. The completer must support streaming.
func (s *Synthesizer) SynthesizeStream(ctx context.Context, query string, sources map[string]string, history []llm.Message, prompts types.UserPrompts) (*Stream, error) {
	sc, ok := s.completer.(llm.StreamCompleter)
	if !ok {
		return nil, fmt.Errorf("model client does not support streaming")
	}

	prompt, err := renderPrompt(query, sources, prompts)
	if err != nil {
		return nil, err
	}

	frags, err := sc.CompleteStream(ctx, prompt, history, llm.Options{})
	if err != nil {
		return nil, fmt.Errorf("starting streamed synthesis: %w", err)
	}

	s.log.Debug("streaming synthesized answer", zap.Int("sources", len(sources)))
	return FromFragments(ctx, frags), nil
}

func userContext(p types.UserPrompts) string {
	var parts []string
	for _, s := range []string{p.LawPrompt, p.TonePrompt, p.PolicyPrompt} {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, strings.TrimSpace(s))
		}
	}
	return strings.Join(parts, "\n")
}
