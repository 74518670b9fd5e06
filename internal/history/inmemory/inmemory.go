// Package inmemory is the default history.Store backend. All state lives
// in process memory; idle sessions are cleared by a sweep that piggybacks
// on every 10th append instead of a background timer.
package inmemory

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/askdeck/askdeck/internal/history"
	"github.com/askdeck/askdeck/internal/metrics"
)

const sweepEvery = 10

type session struct {
	mu            sync.Mutex
	messages      []history.Message
	lastActivity  time.Time
	cachedContext string
	cachedCount   int
	hasCached     bool
}

// Store keeps session logs in memory.
type Store struct {
	mu          sync.RWMutex
	sessions    map[string]*session
	idleTimeout time.Duration
	logger      *log.Logger
	now         func() time.Time
}

// New creates a store that clears sessions idle for longer than
// idleTimeout during sweeps.
func New(idleTimeout time.Duration, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(log.Writer(), "[HISTORY] ", log.LstdFlags)
	}
	return &Store{
		sessions:    make(map[string]*session),
		idleTimeout: idleTimeout,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *Store) session(id string) *session {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok = s.sessions[id]; ok {
		return sess
	}
	sess = &session{}
	s.sessions[id] = sess
	return sess
}

// Append records a turn. Every 10th message in the session triggers an
// expiry sweep across all sessions.
func (s *Store) Append(sessionID, sender, text string) history.Message {
	sess := s.session(sessionID)

	sess.mu.Lock()
	msg := history.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Sender:    sender,
		Text:      text,
		Timestamp: s.now(),
	}
	sess.messages = append(sess.messages, msg)
	sess.lastActivity = msg.Timestamp
	sess.hasCached = false
	sess.cachedContext = ""
	count := len(sess.messages)
	sess.mu.Unlock()

	if count%sweepEvery == 0 {
		s.sweep()
	}
	return msg
}

// Context returns the cached window when the message count has not moved,
// otherwise recomputes and re-caches it.
func (s *Store) Context(sessionID string, maxMessages int) string {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return ""
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.hasCached && sess.cachedCount == len(sess.messages) {
		return sess.cachedContext
	}
	ctx := history.RenderContext(sess.messages, maxMessages)
	sess.cachedContext = ctx
	sess.cachedCount = len(sess.messages)
	sess.hasCached = true
	return ctx
}

// History returns a copy of the ordered message log; empty for unknown
// sessions.
func (s *Store) History(sessionID string) []history.Message {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return []history.Message{}
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return append([]history.Message(nil), sess.messages...)
}

// Clear removes the session entirely; idempotent.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// Count reports the session's message count.
func (s *Store) Count(sessionID string) int {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return 0
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return len(sess.messages)
}

func (s *Store) sweep() {
	cutoff := s.now().Add(-s.idleTimeout)

	s.mu.Lock()
	var expired []string
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastActivity.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if len(expired) > 0 {
		metrics.SessionsSwept.Add(float64(len(expired)))
		s.logger.Printf("cleared %d expired sessions", len(expired))
	}
}
