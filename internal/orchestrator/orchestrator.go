// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package orchestrator runs one query through the full pipeline: read
// history, rank sources, execute tools concurrently, synthesize, and
// stream the answer. Queries in the same conversation are serialized; a
// new query supersedes and cancels the previous one's stream.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/counsel-engine/internal/executor"
	"github.com/pdiddy/counsel-engine/internal/llm"
	"github.com/pdiddy/counsel-engine/internal/rank"
	"github.com/pdiddy/counsel-engine/internal/synthesis"
	"github.com/pdiddy/counsel-engine/pkg/types"
)

const (
	defaultRevealInterval = 30 * time.Millisecond
	defaultToolTimeout    = 30 * time.Second
)

// State names the pipeline stage a query is in. States only move forward
// within one query.
type State string

const (
	StateReceived     State = "received"
	StateRanking      State = "ranking"
	StateExecuting    State = "executing"
	StateSynthesizing State = "synthesizing"
	StateStreaming    State = "streaming"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// ranker decides which sources a query needs.
type ranker interface {
	Rank(ctx context.Context, query string, history []llm.Message, prompts types.UserPrompts) (rank.Result, error)
}

// synthesizer merges source texts into one answer.
type synthesizer interface {
	Synthesize(ctx context.Context, query string, sources map[string]string, history []llm.Message, prompts types.UserPrompts) (string, error)
}

// streamSynthesizer merges source texts into a live answer stream of
// provider-native chunks. Optional; used when StreamSynthesis is set.
type streamSynthesizer interface {
	SynthesizeStream(ctx context.Context, query string, sources map[string]string, history []llm.Message, prompts types.UserPrompts) (*synthesis.Stream, error)
}

// historyStore is the slice of the persistence layer the engine uses.
type historyStore interface {
	Messages(ctx context.Context, conversationID string) ([]types.Turn, error)
	Append(ctx context.Context, conversationID string, role types.Role, content string, streaming bool) (types.Turn, error)
	MarkStreaming(ctx context.Context, messageID string, streaming bool) error
	UserPrompts(ctx context.Context, userID string) (types.UserPrompts, error)
}

// Deps are the engine's collaborators, injected so each can be replaced
// in tests.
type Deps struct {
	Ranker      ranker
	Synthesizer synthesizer
	Store       historyStore

	// Executors holds every rankable tool executor, including the
	// no_tool executor. Keyed lookup happens by ID().
	Executors []executor.Executor

	// AgentOff answers when tool use is disabled for the session.
	AgentOff executor.Executor

	Log *zap.Logger
}

// Engine drives queries through the pipeline.
type Engine struct {
	cfg   types.OrchestratorConfig
	deps  Deps
	execs map[string]executor.Executor
	log   *zap.Logger

	// OnState, when set, observes stage transitions. Called synchronously
	// from the query goroutine.
	OnState func(State)

	mu     sync.Mutex
	active map[string]*query
}

// query tracks one in-flight query so a successor can supersede it.
type query struct {
	cancel context.CancelFunc
}

// NewEngine builds the engine over its collaborators.
func NewEngine(cfg types.OrchestratorConfig, deps Deps) *Engine {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if cfg.RevealInterval <= 0 {
		cfg.RevealInterval = defaultRevealInterval
	}
	if cfg.ToolTimeout <= 0 {
		cfg.ToolTimeout = defaultToolTimeout
	}

	execs := make(map[string]executor.Executor, len(deps.Executors))
	for _, ex := range deps.Executors {
		execs[ex.ID()] = ex
	}

	return &Engine{
		cfg:    cfg,
		deps:   deps,
		execs:  execs,
		log:    deps.Log,
		active: make(map[string]*query),
	}
}

func (e *Engine) setState(s State) {
	if e.OnState != nil {
		e.OnState(s)
	}
}

// begin registers a query for the conversation, cancelling any stream the
// previous query is still revealing.
func (e *Engine) begin(ctx context.Context, conversationID string) (context.Context, *query) {
	ctx, cancel := context.WithCancel(ctx)
	q := &query{cancel: cancel}

	e.mu.Lock()
	if prev, ok := e.active[conversationID]; ok {
		prev.cancel()
	}
	e.active[conversationID] = q
	e.mu.Unlock()

	return ctx, q
}

// end deregisters a query if it is still the conversation's current one.
// A newer query may already own the slot.
func (e *Engine) end(conversationID string, q *query) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active[conversationID] == q {
		delete(e.active, conversationID)
	}
}

// Cancel stops the in-flight query of a conversation, if any. Text already
// revealed stays; nothing further is emitted.
func (e *Engine) Cancel(conversationID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if q, ok := e.active[conversationID]; ok {
		q.cancel()
		delete(e.active, conversationID)
	}
}

// Ask runs one query through the pipeline and returns the answer stream.
// The user turn is persisted up front. When the answer text is known before
// streaming, the assistant turn is persisted as a streaming placeholder and
// marked settled only on natural completion; a live synthesis stream has no
// text to persist up front, so its turn is appended settled once the stream
// completes. Either way a cancelled stream never feeds later queries.
func (e *Engine) Ask(ctx context.Context, conversationID, userID, query string) (*synthesis.Stream, error) {
	e.setState(StateReceived)
	ctx, q := e.begin(ctx, conversationID)

	stream, answer, live, err := e.run(ctx, conversationID, userID, query)
	if err != nil {
		e.setState(StateFailed)
		q.cancel()
		e.end(conversationID, q)
		return nil, err
	}

	var turnID string
	if !live {
		turn, err := e.deps.Store.Append(ctx, conversationID, types.RoleAssistant, answer, true)
		if err != nil {
			e.log.Warn("persisting assistant turn failed",
				zap.String("conversation", conversationID), zap.Error(err))
		}
		turnID = turn.ID
	}

	e.setState(StateStreaming)
	go func() {
		<-stream.Done()
		e.settle(conversationID, stream, live, turnID)
		e.setState(StateDone)
		e.end(conversationID, q)
	}()

	return stream, nil
}

// settle records the assistant turn's final state once its stream stops.
// Cancelled streams leave either a still-flagged placeholder or, on the
// live path, no assistant turn at all.
func (e *Engine) settle(conversationID string, stream *synthesis.Stream, live bool, turnID string) {
	if !stream.Completed() {
		return
	}
	ctx := context.Background()
	if live {
		if _, err := e.deps.Store.Append(ctx, conversationID, types.RoleAssistant, stream.Text(), false); err != nil {
			e.log.Warn("persisting streamed assistant turn failed",
				zap.String("conversation", conversationID), zap.Error(err))
		}
		return
	}
	if turnID == "" {
		return
	}
	if err := e.deps.Store.MarkStreaming(ctx, turnID, false); err != nil {
		e.log.Warn("settling assistant turn failed",
			zap.String("conversation", conversationID), zap.Error(err))
	}
}

// run executes everything up to and including answer synthesis. For the
// timer-revealed paths it returns the stream together with the full answer
// text; when synthesis itself streams, live is true and the text is only
// known once the stream finishes.
func (e *Engine) run(ctx context.Context, conversationID, userID, query string) (stream *synthesis.Stream, answer string, live bool, err error) {
	history, err := e.history(ctx, conversationID)
	if err != nil {
		return nil, "", false, err
	}
	if _, err := e.deps.Store.Append(ctx, conversationID, types.RoleUser, query, false); err != nil {
		return nil, "", false, fmt.Errorf("persisting user turn: %w", err)
	}
	prompts, err := e.deps.Store.UserPrompts(ctx, userID)
	if err != nil {
		return nil, "", false, fmt.Errorf("loading user prompts: %w", err)
	}

	req := executor.Request{Query: query, History: history}

	reveal := func(text string) (*synthesis.Stream, string, bool, error) {
		return synthesis.Reveal(ctx, text, e.cfg.RevealInterval), text, false, nil
	}

	if e.cfg.DisableTools {
		answer, err := e.deps.AgentOff.Execute(ctx, req)
		if err != nil {
			return nil, "", false, fmt.Errorf("answering with tools disabled: %w", err)
		}
		return reveal(answer)
	}

	e.setState(StateRanking)
	ranked, err := e.deps.Ranker.Rank(ctx, query, history, prompts)
	if err != nil {
		return nil, "", false, err
	}
	if ranked.IsDirect() {
		e.log.Debug("direct response, skipping execution",
			zap.String("conversation", conversationID))
		return reveal(ranked.Direct)
	}

	e.setState(StateExecuting)
	sources, err := e.execute(ctx, ranked.Tools, req)
	if err != nil {
		return nil, "", false, err
	}

	// Every source came back empty-handed: fall back to answering from
	// history alone rather than synthesizing over nothing.
	if len(sources) == 0 {
		answer, err := e.fallback(ctx, req)
		if err != nil {
			return nil, "", false, err
		}
		return reveal(answer)
	}

	e.setState(StateSynthesizing)
	if e.cfg.StreamSynthesis {
		if ss, ok := e.deps.Synthesizer.(streamSynthesizer); ok {
			stream, err := ss.SynthesizeStream(ctx, query, sources, history, prompts)
			if err != nil {
				return nil, "", false, err
			}
			return stream, "", true, nil
		}
		e.log.Warn("streamed synthesis requested but synthesizer cannot stream")
	}

	answer, err = e.deps.Synthesizer.Synthesize(ctx, query, sources, history, prompts)
	if err != nil {
		return nil, "", false, err
	}
	return reveal(answer)
}

// execute resolves the ranked tool IDs to executors and fans them out.
// Unknown IDs are dropped with a warning; they never fail the turn.
func (e *Engine) execute(ctx context.Context, tools []string, req executor.Request) (map[string]string, error) {
	var execs []executor.Executor
	for _, id := range tools {
		ex, ok := e.execs[id]
		if !ok {
			e.log.Warn("ranked tool has no executor, skipping", zap.String("tool", id))
			continue
		}
		execs = append(execs, ex)
	}
	if len(execs) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.ToolTimeout)
	defer cancel()
	return executor.RunAll(ctx, execs, req, e.log)
}

// fallback answers from conversation history when execution produced no
// usable sources.
func (e *Engine) fallback(ctx context.Context, req executor.Request) (string, error) {
	ex, ok := e.execs[rank.ToolNone]
	if !ok {
		return "", fmt.Errorf("no fallback executor configured")
	}
	answer, err := ex.Execute(ctx, req)
	if err != nil {
		return "", fmt.Errorf("history-only fallback: %w", err)
	}
	return answer, nil
}

// history loads the conversation as model messages, skipping turns whose
// content is still being revealed.
func (e *Engine) history(ctx context.Context, conversationID string) ([]llm.Message, error) {
	turns, err := e.deps.Store.Messages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("loading conversation: %w", err)
	}

	msgs := make([]llm.Message, 0, len(turns))
	for _, turn := range turns {
		if turn.IsStreaming {
			continue
		}
		msgs = append(msgs, llm.Message{Role: string(turn.Role), Content: turn.Content})
	}
	return msgs, nil
}
