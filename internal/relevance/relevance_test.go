package relevance

import (
	"reflect"
	"strings"
	"testing"

	"github.com/askdeck/askdeck/internal/structurer"
)

func TestKeywords(t *testing.T) {
	t.Parallel()
	got := Keywords("What is the Sick Leave policy for employees")
	want := []string{"sick", "leave", "policy", "employees"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Keywords() = %v, want %v", got, want)
	}
}

func TestKeywordsEmpty(t *testing.T) {
	t.Parallel()
	if kws := Keywords(""); len(kws) != 0 {
		t.Fatalf("Keywords(\"\") = %v", kws)
	}
	if kws := Keywords("is a to"); len(kws) != 0 {
		t.Fatalf("stop words leaked: %v", kws)
	}
}

func TestAbsoluteScoreCountsKeywordOnce(t *testing.T) {
	t.Parallel()
	s := Absolute("leave leave leave", "")
	// "leave" appears twice in the sentence but contributes its length once.
	if got := s.Score("Leave policy covers annual leave"); got != 5 {
		t.Fatalf("Score = %v, want 5", got)
	}
}

func TestAbsoluteMergesQueryAndIntent(t *testing.T) {
	t.Parallel()
	s := Absolute("sick days", "leave_policy")
	if got := s.Score("sick leave_policy days"); got != 4+4+12 {
		t.Fatalf("Score = %v", got)
	}
}

func TestBestExcerptScenario(t *testing.T) {
	t.Parallel()
	text := "Leave is 12 days. Sick leave is 5 days. The office is in Bangalore."
	got := BestExcerpt(text, "sick leave", "")
	if !strings.HasPrefix(got, "Sick leave is 5 days.") {
		t.Fatalf("top sentence wrong: %q", got)
	}
	if strings.Contains(got, "Bangalore") {
		t.Fatalf("unmatched sentence included: %q", got)
	}
}

func TestBestExcerptDeterministicAndStable(t *testing.T) {
	t.Parallel()
	// Both sentences score identically; original order must be preserved.
	text := "Alpha sick note first. Bravo sick note later. Nothing relevant here at all."
	first := BestExcerpt(text, "sick note", "")
	if !strings.HasPrefix(first, "Alpha sick note first.") {
		t.Fatalf("tie broke original order: %q", first)
	}
	for i := 0; i < 5; i++ {
		if again := BestExcerpt(text, "sick note", ""); again != first {
			t.Fatalf("excerpt not reproducible: %q vs %q", again, first)
		}
	}
}

func TestBestExcerptSkipsOversizedSentence(t *testing.T) {
	t.Parallel()
	big := "leave " + strings.Repeat("x", 1600)
	text := big + ". Sick leave is 5 days. Also leave accrues monthly here."
	got := BestExcerpt(text, "sick leave", "")
	if strings.Contains(got, "xxxx") {
		t.Fatalf("oversized sentence should be skipped, not truncated")
	}
	if !strings.Contains(got, "Sick leave is 5 days") {
		t.Fatalf("smaller sentences should still fit: %q", got)
	}
	if len(got) > maxExcerptChars+len(". ") {
		t.Fatalf("budget exceeded: %d chars", len(got))
	}
}

func TestBestExcerptShortFragmentsDiscarded(t *testing.T) {
	t.Parallel()
	if got := BestExcerpt("leave. ok. no", "leave", ""); got != "" {
		t.Fatalf("fragments under the minimum length leaked: %q", got)
	}
}

func TestBestExcerptNoMatch(t *testing.T) {
	t.Parallel()
	if got := BestExcerpt("The office is in Bangalore. Lunch is at noon today.", "maternity policy", ""); got != "" {
		t.Fatalf("expected empty excerpt, got %q", got)
	}
}

func TestNormalizedWholeWordBonus(t *testing.T) {
	t.Parallel()
	s := Normalized("manager")
	// substring only
	sub := s.Score("micromanagers everywhere")
	// whole word
	whole := s.Score("your manager is Jane")
	if sub != 1.0 {
		t.Fatalf("substring score = %v, want 1.0", sub)
	}
	if whole != 1.0 {
		t.Fatalf("whole-word score = %v, want capped 1.0", whole)
	}

	s = Normalized("who is my manager")
	if got := s.Score("Manager Jane Doe"); got != 0.25+0.125 {
		t.Fatalf("score = %v, want 0.375", got)
	}
}

func TestScoreUnitsOrderingStable(t *testing.T) {
	t.Parallel()
	units := []string{"no match here", "sick day rules", "sick day details"}
	scored := ScoreUnits(units, Absolute("sick day", ""))
	if scored[0].Text != "sick day rules" || scored[1].Text != "sick day details" {
		t.Fatalf("equal scores must keep original order: %+v", scored)
	}
	if scored[2].Score != 0 {
		t.Fatalf("unmatched unit should score zero: %+v", scored[2])
	}
}

func TestFilterDocumentScenario(t *testing.T) {
	t.Parallel()
	doc := structurer.Structure("team.txt", "Manager: Jane Doe\n")
	out, matched := FilterDocument(doc, "who is my manager")
	if !matched {
		t.Fatalf("expected a match")
	}
	if !strings.HasPrefix(out, "=== team.txt ===") {
		t.Fatalf("missing document header: %q", out)
	}
	if !strings.Contains(out, "Manager: Jane Doe") {
		t.Fatalf("key-value missing from output: %q", out)
	}
}

func TestFilterDocumentSectionCap(t *testing.T) {
	t.Parallel()
	var b strings.Builder
	for _, name := range []string{"FIRST", "SECOND", "THIRD", "FOURTH", "FIFTH", "SIXTH", "SEVENTH"} {
		b.WriteString(name + " POLICY\nEvery section mentions vacation days.\n")
	}
	doc := structurer.Structure("policies.txt", b.String())
	out, matched := FilterDocument(doc, "vacation days")
	if !matched {
		t.Fatalf("expected matches")
	}
	if got := strings.Count(out, "POLICY\n"); got != maxSections {
		t.Fatalf("sections included = %d, want %d", got, maxSections)
	}
}

func TestFilterDocumentNoMatch(t *testing.T) {
	t.Parallel()
	doc := structurer.Structure("team.txt", "Manager: Jane Doe\n")
	if _, matched := FilterDocument(doc, "parking garage"); matched {
		t.Fatalf("unexpected match")
	}
}

func TestFilterDocumentLists(t *testing.T) {
	t.Parallel()
	text := "Leave types\n• Annual leave\n• Sick leave\n\n"
	doc := structurer.Structure("leave.txt", text)
	out, matched := FilterDocument(doc, "leave types")
	if !matched {
		t.Fatalf("expected list to qualify")
	}
	if !strings.Contains(out, "Leave types\n• Annual leave\n• Sick leave\n") {
		t.Fatalf("list rendering wrong: %q", out)
	}
}
