// Package session keeps one in-flight generation per client and drops the
// results of generations that a newer request has superseded.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSuperseded = errors.New("superseded by a newer request")

// Token identifies one generation for one client key.
type Token struct {
	ID  string
	key string
}

type slot[T any] struct {
	current string
	cancel  context.CancelCauseFunc
	value   T
	has     bool
	touched time.Time
}

// Tracker holds, per client key, the token of the generation that is
// allowed to publish and the last published value.
type Tracker[T any] struct {
	mu    sync.Mutex
	slots map[string]*slot[T]
	ttl   time.Duration
	now   func() time.Time
}

// NewTracker returns a Tracker that forgets idle keys after ttl. A ttl of
// zero keeps them forever.
func NewTracker[T any](ttl time.Duration) *Tracker[T] {
	return &Tracker[T]{
		slots: make(map[string]*slot[T]),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Begin starts a generation for key. Any generation still running for the
// same key is cancelled with ErrSuperseded as its cause. The caller must
// call Finish with the returned token.
func (t *Tracker[T]) Begin(ctx context.Context, key string) (context.Context, Token) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.prune()

	s, ok := t.slots[key]
	if !ok {
		s = &slot[T]{}
		t.slots[key] = s
	}
	if s.cancel != nil {
		slog.Debug("superseding generation", "key", key, "token", s.current)
		s.cancel(ErrSuperseded)
	}

	ctx, cancel := context.WithCancelCause(ctx)
	tok := Token{ID: uuid.NewString(), key: key}
	s.current = tok.ID
	s.cancel = cancel
	s.touched = t.now()
	return ctx, tok
}

// Commit publishes v for the token's key if the token is still current.
func (t *Tracker[T]) Commit(tok Token, v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.slots[tok.key]
	if !ok || s.current != tok.ID {
		return ErrSuperseded
	}
	s.value = v
	s.has = true
	s.touched = t.now()
	return nil
}

// Finish releases the context created by Begin.
func (t *Tracker[T]) Finish(tok Token) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.slots[tok.key]
	if !ok || s.current != tok.ID || s.cancel == nil {
		return
	}
	s.cancel(nil)
	s.cancel = nil
	s.touched = t.now()
}

// Latest returns the last committed value for key.
func (t *Tracker[T]) Latest(key string) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.slots[key]
	if !ok || !s.has {
		var zero T
		return zero, false
	}
	return s.value, true
}

// current returns the token ID allowed to publish for key.
func (t *Tracker[T]) current(key string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.slots[key]; ok {
		return s.current
	}
	return ""
}

// Superseded reports whether ctx was cancelled because a newer generation
// began for the same key.
func Superseded(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), ErrSuperseded)
}

// prune drops idle keys. Callers hold t.mu.
func (t *Tracker[T]) prune() {
	if t.ttl <= 0 {
		return
	}
	cutoff := t.now().Add(-t.ttl)
	for key, s := range t.slots {
		if s.cancel == nil && s.touched.Before(cutoff) {
			delete(t.slots, key)
		}
	}
}
