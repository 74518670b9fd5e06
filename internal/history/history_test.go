package history

import (
	"strings"
	"testing"
)

func TestRenderContextEmpty(t *testing.T) {
	t.Parallel()
	if got := RenderContext(nil, 3); got != "" {
		t.Fatalf("RenderContext(nil) = %q", got)
	}
	msgs := []Message{{Sender: SenderUser, Text: "hi"}}
	if got := RenderContext(msgs, 0); got != "" {
		t.Fatalf("zero budget should render nothing, got %q", got)
	}
}

func TestRenderContextCap(t *testing.T) {
	t.Parallel()
	msgs := []Message{
		{Sender: SenderUser, Text: "m1"},
		{Sender: SenderBot, Text: "m2"},
		{Sender: SenderUser, Text: "m3"},
		{Sender: SenderBot, Text: "m4"},
		{Sender: SenderUser, Text: "m5"},
	}
	// The 3-message cap wins over the caller's larger budget.
	got := RenderContext(msgs, 50)
	want := "User: m3\nBot: m4\nUser: m5\n"
	if got != want {
		t.Fatalf("RenderContext() = %q, want %q", got, want)
	}
}

func TestRenderContextTruncationPerSender(t *testing.T) {
	t.Parallel()
	user := strings.Repeat("u", 120)
	bot := strings.Repeat("b", 160)
	msgs := []Message{
		{Sender: SenderUser, Text: user},
		{Sender: SenderBot, Text: bot},
	}
	got := RenderContext(msgs, 3)
	if !strings.Contains(got, "User: "+strings.Repeat("u", 100)+"...\n") {
		t.Fatalf("user truncation wrong: %q", got)
	}
	if !strings.Contains(got, "Bot: "+strings.Repeat("b", 150)+"...\n") {
		t.Fatalf("bot truncation wrong: %q", got)
	}
}

func TestRenderContextNoTruncationAtLimit(t *testing.T) {
	t.Parallel()
	exact := strings.Repeat("u", 100)
	got := RenderContext([]Message{{Sender: SenderUser, Text: exact}}, 3)
	if got != "User: "+exact+"\n" {
		t.Fatalf("message at the limit must not gain an ellipsis: %q", got)
	}
}

func TestWindowRendersPairs(t *testing.T) {
	t.Parallel()
	w := NewWindow(5)
	w.Add("what is the leave policy", "Leave is 12 days a year.")
	w.Add("and sick leave", "Sick leave is 5 days.")

	got := w.Render()
	want := "User: what is the leave policy\nAssistant: Leave is 12 days a year.\n" +
		"User: and sick leave\nAssistant: Sick leave is 5 days.\n"
	if got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestWindowTrimsToMaxPairs(t *testing.T) {
	t.Parallel()
	w := NewWindow(5)
	for i := 0; i < 8; i++ {
		w.Add("q"+string(rune('0'+i)), "a"+string(rune('0'+i)))
	}
	got := w.Render()
	if strings.Contains(got, "q2") {
		t.Fatalf("oldest pairs should be dropped: %q", got)
	}
	if !strings.Contains(got, "User: q3\n") || !strings.Contains(got, "Assistant: a7\n") {
		t.Fatalf("window contents wrong: %q", got)
	}
	if pairs := strings.Count(got, "User: "); pairs != 5 {
		t.Fatalf("window holds %d pairs, want 5", pairs)
	}
}

func TestWindowEmpty(t *testing.T) {
	t.Parallel()
	if got := NewWindow(5).Render(); got != "" {
		t.Fatalf("empty window renders %q", got)
	}
}
