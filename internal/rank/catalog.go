// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank decides which information sources are relevant to a query.
// It delegates the relevance judgment to the language model and parses the
// reply defensively: a delimited direct-response block short-circuits tool
// execution entirely; otherwise an ordered tool list is extracted against a
// fixed catalog, and anything malformed degrades to a no-tool answer rather
// than failing the turn.
package rank

import (
	"fmt"
	"sort"
)

// Built-in tool identifiers. Database and static-document tools are derived
// from configuration, not hard-coded.
const (
	ToolNone      = "no_tool"
	ToolWebSearch = "search_web"
)

// DatabaseTool returns the tool ID for a configured database name.
func DatabaseTool(name string) string { return "query_" + name }

// StaticTool returns the tool ID for a configured static document name.
func StaticTool(name string) string { return "get_" + name }

// Catalog is the fixed set of tool identifiers valid for one session,
// with the human-readable description the ranker shows the model.
type Catalog struct {
	ids          []string
	descriptions map[string]string
}

// NewCatalog builds the catalog from configured database and static
// document names.
func NewCatalog(databases, staticDocs []string) *Catalog {
	c := &Catalog{descriptions: make(map[string]string)}

	c.add(ToolNone, "Answer from conversation history alone; no external source is needed.")
	c.add(ToolWebSearch, "Search the public web for current information, news, or anything outside the legal databases.")
	for _, name := range databases {
		c.add(DatabaseTool(name), fmt.Sprintf("Search the %q legal database for statutes, articles, and chapter references.", name))
	}
	for _, name := range staticDocs {
		c.add(StaticTool(name), fmt.Sprintf("Return the %q reference document.", name))
	}

	sort.Strings(c.ids)
	return c
}

func (c *Catalog) add(id, description string) {
	c.ids = append(c.ids, id)
	c.descriptions[id] = description
}

// Contains reports whether id is a valid tool identifier.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.descriptions[id]
	return ok
}

// IDs returns all tool identifiers in sorted order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.ids...)
}

// Description returns the model-facing description for id.
func (c *Catalog) Description(id string) string {
	return c.descriptions[id]
}
