package inmemory

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/askdeck/askdeck/internal/history"
)

func newTestStore() (*Store, *time.Time) {
	st := New(30*time.Minute, nil)
	current := time.Date(2025, 4, 7, 10, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return current }
	return st, &current
}

func TestAppendCreatesSessionAndOrders(t *testing.T) {
	t.Parallel()
	st, _ := newTestStore()

	m1 := st.Append("s1", history.SenderUser, "first")
	m2 := st.Append("s1", history.SenderBot, "second")

	if m1.ID == "" || m1.ID == m2.ID {
		t.Fatalf("message ids must be unique, got %q and %q", m1.ID, m2.ID)
	}
	msgs := st.History("s1")
	if len(msgs) != 2 || msgs[0].Text != "first" || msgs[1].Text != "second" {
		t.Fatalf("history out of order: %+v", msgs)
	}
}

func TestHistoryUnknownSession(t *testing.T) {
	t.Parallel()
	st, _ := newTestStore()
	if msgs := st.History("nope"); msgs == nil || len(msgs) != 0 {
		t.Fatalf("unknown session should yield empty history, got %v", msgs)
	}
	if st.Count("nope") != 0 {
		t.Fatalf("unknown session should count zero")
	}
}

func TestContextCapAndFormat(t *testing.T) {
	t.Parallel()
	st, _ := newTestStore()
	st.Append("s1", history.SenderUser, "one")
	st.Append("s1", history.SenderBot, "two")
	st.Append("s1", history.SenderUser, "three")
	st.Append("s1", history.SenderBot, "four")

	ctx := st.Context("s1", 10)
	want := "Bot: two\nUser: three\nBot: four\n"
	if ctx != want {
		t.Fatalf("Context() = %q, want %q", ctx, want)
	}
}

func TestContextTruncation(t *testing.T) {
	t.Parallel()
	st, _ := newTestStore()
	long := strings.Repeat("a", 120)
	st.Append("s1", history.SenderUser, long)

	ctx := st.Context("s1", 3)
	want := "User: " + strings.Repeat("a", 100) + "...\n"
	if ctx != want {
		t.Fatalf("truncation wrong: %q", ctx)
	}
}

func TestContextCachedUntilAppend(t *testing.T) {
	t.Parallel()
	st, _ := newTestStore()
	st.Append("s1", history.SenderUser, "hello")

	first := st.Context("s1", 3)
	if again := st.Context("s1", 3); again != first {
		t.Fatalf("repeated Context differs: %q vs %q", again, first)
	}

	st.Append("s1", history.SenderBot, "hi there")
	updated := st.Context("s1", 3)
	if updated == first {
		t.Fatalf("append did not invalidate cached context")
	}
	if !strings.Contains(updated, "Bot: hi there") {
		t.Fatalf("recomputed context missing new message: %q", updated)
	}
}

func TestSweepClearsIdleSessions(t *testing.T) {
	t.Parallel()
	st, current := newTestStore()

	st.Append("stale", history.SenderUser, "old question")
	*current = current.Add(31 * time.Minute)

	// The sweep runs on every 10th append within a session.
	for i := 0; i < 10; i++ {
		st.Append("active", history.SenderUser, "ping")
	}

	if msgs := st.History("stale"); len(msgs) != 0 {
		t.Fatalf("idle session survived the sweep: %+v", msgs)
	}
	if st.Count("active") != 10 {
		t.Fatalf("active session lost messages: %d", st.Count("active"))
	}
}

func TestSweepKeepsRecentSessions(t *testing.T) {
	t.Parallel()
	st, current := newTestStore()

	st.Append("recent", history.SenderUser, "question")
	*current = current.Add(10 * time.Minute)
	for i := 0; i < 10; i++ {
		st.Append("active", history.SenderUser, "ping")
	}
	if st.Count("recent") != 1 {
		t.Fatalf("recent session was swept")
	}
}

func TestClearIdempotent(t *testing.T) {
	t.Parallel()
	st, _ := newTestStore()
	st.Append("s1", history.SenderUser, "hello")
	st.Clear("s1")
	if st.Count("s1") != 0 {
		t.Fatalf("session survived Clear")
	}
	st.Clear("s1")
	st.Clear("never existed")
}

func TestConcurrentAppendsSameSession(t *testing.T) {
	t.Parallel()
	st := New(30*time.Minute, nil)

	var wg sync.WaitGroup
	const n = 50
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.Append("s1", history.SenderUser, "msg")
		}()
	}
	wg.Wait()

	msgs := st.History("s1")
	if len(msgs) != n {
		t.Fatalf("lost updates: %d messages, want %d", len(msgs), n)
	}
	seen := map[string]struct{}{}
	for _, m := range msgs {
		if _, dup := seen[m.ID]; dup {
			t.Fatalf("duplicate message id %q", m.ID)
		}
		seen[m.ID] = struct{}{}
	}
}

func TestConcurrentSessionsIsolated(t *testing.T) {
	t.Parallel()
	st := New(30*time.Minute, nil)

	var wg sync.WaitGroup
	for _, id := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				st.Append(id, history.SenderUser, "msg")
			}
		}(id)
	}
	wg.Wait()

	for _, id := range []string{"a", "b", "c", "d"} {
		if st.Count(id) != 20 {
			t.Fatalf("session %s has %d messages, want 20", id, st.Count(id))
		}
	}
}
