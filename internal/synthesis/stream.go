// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/counsel-engine/internal/llm"
)

// revealChunkRunes is how many runes each reveal tick emits.
const revealChunkRunes = 8

// Stream delivers an answer as an ordered sequence of text fragments.
// Observers may read partial state at any time; the revealed text only
// ever grows, and no fragment alters previously emitted text. Cancelling
// stops further fragments and releases the ticker driving the reveal.
type Stream struct {
	mu       sync.Mutex
	revealed strings.Builder
	complete bool

	frags  chan string
	done   chan struct{}
	cancel context.CancelFunc
}

func newStream(cancel context.CancelFunc) *Stream {
	return &Stream{
		frags:  make(chan string),
		done:   make(chan struct{}),
		cancel: cancel,
	}
}

// Fragments returns the fragment channel. It is closed when the stream
// completes or is cancelled.
func (s *Stream) Fragments() <-chan string { return s.frags }

// Done is closed when the stream has stopped emitting, for any reason.
func (s *Stream) Done() <-chan struct{} { return s.done }

// Text returns the text revealed so far. Successive calls return
// prefix-consistent, monotonically growing strings.
func (s *Stream) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revealed.String()
}

// Completed reports whether the stream ran to its natural end.
func (s *Stream) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.complete
}

// Cancel stops the stream. No fragment is emitted after Cancel returns the
// stream to its caller; cancelling a finished stream is a no-op.
func (s *Stream) Cancel() {
	s.cancel()
}

// emit appends a fragment and forwards it, honoring cancellation.
func (s *Stream) emit(ctx context.Context, frag string) bool {
	select {
	case s.frags <- frag:
		s.mu.Lock()
		s.revealed.WriteString(frag)
		s.mu.Unlock()
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Stream) finish(completed bool) {
	s.mu.Lock()
	s.complete = completed
	s.mu.Unlock()
	close(s.frags)
	close(s.done)
}

// Reveal streams a fully synthesized answer as timer-driven fragments of a
// few runes each. The parent context and the stream's own Cancel both stop
// the reveal.
func Reveal(ctx context.Context, text string, interval time.Duration) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := newStream(cancel)

	go func() {
		defer cancel()

		runes := []rune(text)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for i := 0; i < len(runes); i += revealChunkRunes {
			select {
			case <-ctx.Done():
				s.finish(false)
				return
			case <-ticker.C:
			}

			end := i + revealChunkRunes
			if end > len(runes) {
				end = len(runes)
			}
			if !s.emit(ctx, string(runes[i:end])) {
				s.finish(false)
				return
			}
		}
		s.finish(true)
	}()

	return s
}

// FromFragments streams provider-native completion chunks as they arrive.
// A fragment error ends the stream early without marking it complete.
func FromFragments(ctx context.Context, frags <-chan llm.Fragment) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := newStream(cancel)

	go func() {
		defer cancel()

		for {
			select {
			case <-ctx.Done():
				s.finish(false)
				return
			case f, ok := <-frags:
				if !ok {
					s.finish(true)
					return
				}
				if f.Err != nil {
					s.finish(false)
					return
				}
				if f.Text == "" {
					continue
				}
				if !s.emit(ctx, f.Text) {
					s.finish(false)
					return
				}
			}
		}
	}()

	return s
}
