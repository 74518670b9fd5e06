// Package redis_history is a Redis-backed history.Store. Message logs live
// in a Redis list per session; idle expiry rides on the key TTL, which is
// refreshed on every append, so no sweep is needed to satisfy the
// expired-sessions-become-unreadable contract. Redis errors degrade to a
// miss, never to a caller-visible failure.
package redis_history

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/askdeck/askdeck/internal/history"
)

// Store persists session logs in Redis.
type Store struct {
	client      *redis.Client
	idleTimeout time.Duration
	logger      *log.Logger
	now         func() time.Time
}

// New creates a store against addr. Sessions idle longer than idleTimeout
// expire via the key TTL.
func New(addr, password string, db int, idleTimeout time.Duration, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(log.Writer(), "[HISTORY] ", log.LstdFlags)
	}
	return &Store{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		idleTimeout: idleTimeout,
		logger:      logger,
		now:         time.Now,
	}
}

// NewWithClient wraps an existing client; used by tests.
func NewWithClient(client *redis.Client, idleTimeout time.Duration, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(log.Writer(), "[HISTORY] ", log.LstdFlags)
	}
	return &Store{client: client, idleTimeout: idleTimeout, logger: logger, now: time.Now}
}

func messagesKey(sessionID string) string {
	return fmt.Sprintf("chat:%s:messages", sessionID)
}

// Append records a turn and refreshes the session TTL.
func (s *Store) Append(sessionID, sender, text string) history.Message {
	msg := history.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Sender:    sender,
		Text:      text,
		Timestamp: s.now(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Printf("marshal message: %v", err)
		return msg
	}

	ctx := context.Background()
	key := messagesKey(sessionID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, s.idleTimeout)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Printf("append message for session %s: %v", sessionID, err)
	}
	return msg
}

// Context renders the trailing window from the stored log. Redis already
// holds the canonical log, so the window is recomputed per call rather
// than cached; the observable contract is the same.
func (s *Store) Context(sessionID string, maxMessages int) string {
	n := maxMessages
	if n > history.ContextMessageCap {
		n = history.ContextMessageCap
	}
	if n <= 0 {
		return ""
	}
	msgs := s.tail(sessionID, int64(n))
	return history.RenderContext(msgs, n)
}

// History returns the full ordered log; empty for unknown sessions.
func (s *Store) History(sessionID string) []history.Message {
	return s.tail(sessionID, 0)
}

// Clear removes the session log; idempotent.
func (s *Store) Clear(sessionID string) {
	if err := s.client.Del(context.Background(), messagesKey(sessionID)).Err(); err != nil {
		s.logger.Printf("clear session %s: %v", sessionID, err)
	}
}

// Count reports the session's message count.
func (s *Store) Count(sessionID string) int {
	n, err := s.client.LLen(context.Background(), messagesKey(sessionID)).Result()
	if err != nil {
		return 0
	}
	return int(n)
}

// tail fetches the last n messages, or the whole log when n is zero.
func (s *Store) tail(sessionID string, n int64) []history.Message {
	start := int64(0)
	if n > 0 {
		start = -n
	}
	raw, err := s.client.LRange(context.Background(), messagesKey(sessionID), start, -1).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Printf("read session %s: %v", sessionID, err)
		}
		return []history.Message{}
	}
	msgs := make([]history.Message, 0, len(raw))
	for _, item := range raw {
		var msg history.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			s.logger.Printf("decode message in session %s: %v", sessionID, err)
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs
}
