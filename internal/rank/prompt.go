// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// rankPromptVersion ties the prompt and the parser together: both sides of
// the contract change in the same commit when the response shape evolves.
const rankPromptVersion = "v2"

// rankPromptTmpl instructs the model to either answer directly inside the
// delimiter pair or return an ordered tool list. The parser in parse.go
// accepts exactly these two shapes.
var rankPromptTmpl = template.Must(template.New("rank").Parse(`You are the routing stage of a legal assistant. Decide which information sources, if any, are needed to answer the user's question.

Available tools:
{{- range .Tools}}
- {{.ID}}: {{.Description}}
{{- end}}

Respond in exactly one of two shapes.

Shape 1 — the question needs no external source and you can answer it fully and safely right now. Write the complete answer between the delimiters, nothing outside them:
{{.Open}}
your answer here
{{.Close}}

Shape 2 — one or more tools should run. List their identifiers in priority order, one per line, numbered:
1. first_tool_id
2. second_tool_id

Cite only identifiers from the list above. Do not mix the two shapes.
{{- if .UserContext}}

Additional instructions from the user:
{{.UserContext}}
{{- end}}

User question:
{{.Query}}
`))

// promptTool is one catalog entry rendered into the prompt.
type promptTool struct {
	ID          string
	Description string
}

// buildPrompt renders the ranking prompt for a query.
func buildPrompt(catalog *Catalog, query, userContext string) (string, error) {
	tools := make([]promptTool, 0, len(catalog.ids))
	for _, id := range catalog.IDs() {
		tools = append(tools, promptTool{ID: id, Description: catalog.Description(id)})
	}

	var buf bytes.Buffer
	err := rankPromptTmpl.Execute(&buf, struct {
		Tools       []promptTool
		Open, Close string
		UserContext string
		Query       string
	}{
		Tools:       tools,
		Open:        directOpen,
		Close:       directClose,
		UserContext: strings.TrimSpace(userContext),
		Query:       query,
	})
	if err != nil {
		return "", fmt.Errorf("rendering rank prompt %s: %w", rankPromptVersion, err)
	}
	return buf.String(), nil
}
