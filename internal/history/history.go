// Package history keeps per-session conversation state: ordered message
// logs, a cached bounded context window derived from them, and idle-session
// expiry. Implementations live in the inmemory and redis subpackages.
package history

import (
	"strings"
	"time"
)

// Message senders.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Message is a single conversational turn. Immutable after creation;
// ordering is append order within a session.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Store is the conversation history contract. Unknown sessions are a
// recoverable miss everywhere: History returns an empty slice, Context an
// empty string and Clear is a no-op.
type Store interface {
	// Append records a turn, creating the session on first use.
	Append(sessionID, sender, text string) Message
	// Context renders the bounded recent-conversation window.
	Context(sessionID string, maxMessages int) string
	// History returns the full ordered message log.
	History(sessionID string) []Message
	// Clear removes the session and everything derived from it.
	Clear(sessionID string)
	// Count reports how many messages the session holds.
	Count(sessionID string) int
}

const (
	// ContextMessageCap bounds how many trailing messages feed the
	// rendered context, regardless of what the caller asks for.
	ContextMessageCap = 3

	userTruncateAt = 100
	botTruncateAt  = 150
)

// RenderContext formats the trailing messages of a session log the way the
// answer provider consumes them. At most min(maxMessages, ContextMessageCap)
// messages are included; user text is truncated at 100 runes, bot text at
// 150, with a trailing ellipsis.
func RenderContext(msgs []Message, maxMessages int) string {
	if len(msgs) == 0 {
		return ""
	}
	n := maxMessages
	if n > ContextMessageCap {
		n = ContextMessageCap
	}
	if n > len(msgs) {
		n = len(msgs)
	}
	if n <= 0 {
		return ""
	}

	var b strings.Builder
	for _, msg := range msgs[len(msgs)-n:] {
		if msg.Sender == SenderUser {
			b.WriteString("User: " + truncate(msg.Text, userTruncateAt) + "\n")
		} else {
			b.WriteString("Bot: " + truncate(msg.Text, botTruncateAt) + "\n")
		}
	}
	return b.String()
}

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
