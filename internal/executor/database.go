// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package executor

import (
	"context"

	"github.com/pdiddy/counsel-engine/internal/lawdb"
	"github.com/pdiddy/counsel-engine/internal/rank"
)

// DatabaseExecutor answers a query from one configured law database: exact
// reference lookup first, scored search on a miss. The plain/enhanced
// schema split is handled inside lawdb; callers never see it.
type DatabaseExecutor struct {
	name    string
	catalog *lawdb.Catalog
}

// NewDatabaseExecutor builds the executor for one database name.
func NewDatabaseExecutor(name string, catalog *lawdb.Catalog) *DatabaseExecutor {
	return &DatabaseExecutor{name: name, catalog: catalog}
}

// ID returns the tool identifier (query_<name>).
func (e *DatabaseExecutor) ID() string { return rank.DatabaseTool(e.name) }

// Execute resolves an explicit chapter/article reference or falls back to
// scored search. It only reads the shared database and is safe to call
// concurrently with itself and other executors.
func (e *DatabaseExecutor) Execute(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &ExecError{Tool: e.ID(), Err: err}
	}

	db, err := e.catalog.Database(e.name)
	if err != nil {
		return "", &ExecError{Tool: e.ID(), Err: err}
	}

	ix := lawdb.NewIndex(db)
	if ref, ok := ix.Resolve(req.Query); ok {
		return lawdb.FormatReference(ref), nil
	}

	results := ix.Search(req.Query)
	if len(results) == 0 {
		return NoResultsMarker, nil
	}
	return lawdb.FormatResults(results), nil
}
