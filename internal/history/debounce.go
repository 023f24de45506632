// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/counsel-engine/pkg/types"
)

const defaultPromptSaveDelay = 2 * time.Second

// PromptSaver debounces user prompt writes. Each edit restarts that user's
// save window so a burst of keystrokes produces a single database write.
// Windows are single-flight per user: one user's edit never displaces
// another user's pending save. Flush forces every pending edit to disk
// immediately.
type PromptSaver struct {
	store *Store
	delay time.Duration
	log   *zap.Logger

	mu      sync.Mutex
	pending map[string]*pendingSave
}

type pendingSave struct {
	prompts types.UserPrompts
	timer   *time.Timer
}

// NewPromptSaver builds a saver over the store with the given debounce
// window. A non-positive delay falls back to the default.
func NewPromptSaver(store *Store, delay time.Duration, log *zap.Logger) *PromptSaver {
	if delay <= 0 {
		delay = defaultPromptSaveDelay
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PromptSaver{
		store:   store,
		delay:   delay,
		log:     log,
		pending: make(map[string]*pendingSave),
	}
}

// Schedule records an edit and (re)starts the user's save window. A later
// edit by the same user before the window elapses replaces the pending one.
func (ps *PromptSaver) Schedule(userID string, prompts types.UserPrompts) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if prev, ok := ps.pending[userID]; ok {
		prev.timer.Stop()
	}
	ps.pending[userID] = &pendingSave{
		prompts: prompts,
		timer:   time.AfterFunc(ps.delay, func() { ps.fire(userID) }),
	}
}

func (ps *PromptSaver) fire(userID string) {
	ps.mu.Lock()
	save := ps.pending[userID]
	delete(ps.pending, userID)
	ps.mu.Unlock()

	if save == nil {
		return
	}
	if err := ps.store.SaveUserPrompts(context.Background(), userID, save.prompts); err != nil {
		ps.log.Warn("debounced prompt save failed",
			zap.String("user", userID), zap.Error(err))
	}
}

// Flush writes every pending edit immediately and cancels its timer.
func (ps *PromptSaver) Flush(ctx context.Context) error {
	ps.mu.Lock()
	saves := ps.pending
	ps.pending = make(map[string]*pendingSave)
	for _, save := range saves {
		save.timer.Stop()
	}
	ps.mu.Unlock()

	var firstErr error
	for userID, save := range saves {
		if err := ps.store.SaveUserPrompts(ctx, userID, save.prompts); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
