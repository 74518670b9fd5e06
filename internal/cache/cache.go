// Package cache provides a time-bounded memoization layer for expensive
// loads such as document text extraction. Staleness is detected lazily on
// access; there is no background expiry.
package cache

import (
	"sync"
	"time"
)

// Loader produces the value for a key on a cache miss. ok=false signals a
// recoverable failure; failed loads are never cached so the next access
// retries immediately.
type Loader[V any] func(key string) (V, bool)

type entry[V any] struct {
	value       V
	lastRefresh time.Time
}

// Store memoizes loaded values for a fixed TTL. The zero value is not
// usable; construct with New.
type Store[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*entry[V]
	now     func() time.Time
}

// New creates a Store whose entries stay live for ttl after their last
// successful refresh.
func New[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		ttl:     ttl,
		entries: make(map[string]*entry[V]),
		now:     time.Now,
	}
}

// Get returns the cached value for key if it is still live, otherwise it
// invokes load and publishes the result. The internal lock is released
// while load runs, so slow loads for one key never block other keys.
// Concurrent callers for the same stale key may both run the loader; the
// last write wins, which is fine for idempotent loaders.
func (s *Store[V]) Get(key string, load Loader[V]) (V, bool) {
	s.mu.Lock()
	if e, ok := s.entries[key]; ok && s.now().Sub(e.lastRefresh) < s.ttl {
		v := e.value
		s.mu.Unlock()
		return v, true
	}
	s.mu.Unlock()

	var zero V
	if load == nil {
		return zero, false
	}
	v, ok := load(key)
	if !ok {
		return zero, false
	}

	s.mu.Lock()
	s.entries[key] = &entry[V]{value: v, lastRefresh: s.now()}
	s.mu.Unlock()
	return v, true
}

// Peek reports the cached value for key without loading, honouring the TTL.
func (s *Store[V]) Peek(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok && s.now().Sub(e.lastRefresh) < s.ttl {
		return e.value, true
	}
	var zero V
	return zero, false
}

// Invalidate removes the entry for key. Missing keys are a no-op.
func (s *Store[V]) Invalidate(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// InvalidateAll removes every entry.
func (s *Store[V]) InvalidateAll() {
	s.mu.Lock()
	s.entries = make(map[string]*entry[V])
	s.mu.Unlock()
}

// Len reports the number of stored entries, live or stale.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// TTL reports the configured time-to-live.
func (s *Store[V]) TTL() time.Duration {
	return s.ttl
}
