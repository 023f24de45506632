// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package executor defines the uniform execute contract for information
// sources and runs ranked tool lists with failure isolation: the tools of
// one query fan out concurrently, every failure is recorded and excluded,
// and only the loss of every source fails the turn.
package executor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/pdiddy/counsel-engine/internal/llm"
)

// NoResultsMarker is the first line of a successful execution that found
// nothing. A source with nothing to say is a valid outcome, not an error.
const NoResultsMarker = "NO_RESULTS"

// Request carries one query into an executor.
type Request struct {
	Query   string
	History []llm.Message
}

// Executor is one information source with a uniform execute contract.
// Execute fails only on collaborator failure; "no results" is returned as
// text starting with NoResultsMarker.
type Executor interface {
	ID() string
	Execute(ctx context.Context, req Request) (string, error)
}

// ExecError records a single executor's collaborator failure. It is a
// value passed up the call chain, never a fault.
type ExecError struct {
	Tool string
	Err  error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("executor %s: %v", e.Tool, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// ErrAllSourcesFailed is returned when every attempted executor failed.
// The turn must surface a visible failure rather than fabricate an answer.
var ErrAllSourcesFailed = errors.New("all sources failed")

// NoResults reports whether an execution outcome is the no-results sentinel.
func NoResults(text string) bool {
	first, _, _ := strings.Cut(text, "\n")
	return strings.TrimSpace(first) == NoResultsMarker
}

// RunAll executes every listed tool concurrently and waits for all of them
// to settle. Order in the list is ranking priority, not a sequencing
// requirement. Failed executors are logged and excluded from the result
// map; no-results outcomes are excluded too, since they contribute nothing
// to synthesis. When every executor fails, RunAll returns
// ErrAllSourcesFailed wrapped with the individual reasons.
func RunAll(ctx context.Context, execs []Executor, req Request, log *zap.Logger) (map[string]string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if len(execs) == 0 {
		return nil, fmt.Errorf("no executors to run")
	}

	type outcome struct {
		tool string
		text string
		err  error
	}

	ch := make(chan outcome, len(execs))
	var wg sync.WaitGroup

	for _, ex := range execs {
		wg.Add(1)
		go func(ex Executor) {
			defer wg.Done()
			text, err := ex.Execute(ctx, req)
			ch <- outcome{tool: ex.ID(), text: text, err: err}
		}(ex)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	sources := make(map[string]string)
	var failures []string
	for o := range ch {
		if o.err != nil {
			log.Warn("executor failed, excluding from synthesis",
				zap.String("tool", o.tool), zap.Error(o.err))
			failures = append(failures, fmt.Sprintf("%s: %v", o.tool, o.err))
			continue
		}
		if NoResults(o.text) {
			log.Debug("executor found nothing", zap.String("tool", o.tool))
			continue
		}
		sources[o.tool] = o.text
	}

	if len(sources) == 0 && len(failures) == len(execs) {
		sort.Strings(failures)
		return nil, fmt.Errorf("%w: %s", ErrAllSourcesFailed, strings.Join(failures, "; "))
	}
	return sources, nil
}
