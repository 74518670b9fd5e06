package history

import (
	"strings"
	"sync"
)

// Window is a bounded rolling log of raw request/response pairs, used to
// seed model context independently of the canonical Store. It keeps the
// last maxPairs exchanges verbatim, with no per-message truncation.
type Window struct {
	mu       sync.Mutex
	maxPairs int
	entries  []string
}

// NewWindow creates a window holding at most maxPairs exchanges.
func NewWindow(maxPairs int) *Window {
	if maxPairs <= 0 {
		maxPairs = 5
	}
	return &Window{maxPairs: maxPairs}
}

// Add records one user/assistant exchange, dropping the oldest once the
// window is full.
func (w *Window) Add(user, assistant string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = append(w.entries, user, assistant)
	if max := 2 * w.maxPairs; len(w.entries) > max {
		w.entries = append([]string(nil), w.entries[len(w.entries)-max:]...)
	}
}

// Render formats the retained exchanges as "User: …" / "Assistant: …"
// pairs, oldest first.
func (w *Window) Render() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var b strings.Builder
	for i := 0; i+1 < len(w.entries); i += 2 {
		b.WriteString("User: " + w.entries[i] + "\n")
		b.WriteString("Assistant: " + w.entries[i+1] + "\n")
	}
	return b.String()
}
