// Package relevance ranks document text against a user query using lexical
// keyword overlap. Two strategies are provided: an absolute score that
// weights matches by keyword length (sentence excerpts) and a normalized
// [0,1] score with a whole-word bonus (structured facts). Both are pure
// functions of their inputs.
package relevance

import (
	"regexp"
	"sort"
	"strings"

	"github.com/askdeck/askdeck/internal/structurer"
)

const (
	maxExcerptSentences = 10
	maxExcerptChars     = 1500
	minSentenceLen      = 10

	sectionThreshold  = 0.1
	maxSections       = 5
	keyValueThreshold = 0.2
	listThreshold     = 0.2
)

var stopWords = map[string]struct{}{
	"the": {}, "is": {}, "at": {}, "which": {}, "on": {}, "and": {}, "a": {},
	"to": {}, "as": {}, "are": {}, "was": {}, "for": {}, "an": {}, "be": {},
	"by": {}, "this": {}, "that": {}, "it": {}, "with": {}, "from": {},
	"they": {}, "we": {}, "been": {}, "have": {}, "has": {}, "had": {},
	"were": {}, "what": {}, "how": {},
}

// Keywords returns the lower-cased tokens of text longer than two
// characters that are not stop words.
func Keywords(text string) []string {
	var out []string
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if len(word) <= 2 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		out = append(out, word)
	}
	return out
}

// ScoredUnit pairs a unit of text with its relevance score.
type ScoredUnit struct {
	Text  string
	Score float64
}

// Strategy scores one unit of text against a prepared query.
type Strategy interface {
	Score(text string) float64
}

type absoluteStrategy struct {
	keywords []string
}

// Absolute builds the keyword-length scoring strategy from a query and an
// optional intent string. Each keyword contributes its character length at
// most once per unit, so longer keywords dominate.
func Absolute(query, intent string) Strategy {
	seen := map[string]struct{}{}
	var kws []string
	for _, kw := range append(Keywords(query), Keywords(intent)...) {
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		kws = append(kws, kw)
	}
	return &absoluteStrategy{keywords: kws}
}

func (s *absoluteStrategy) Score(text string) float64 {
	lower := strings.ToLower(text)
	score := 0
	for _, kw := range s.keywords {
		if strings.Contains(lower, kw) {
			score += len(kw)
		}
	}
	return float64(score)
}

type normalizedStrategy struct {
	words []string
	whole []*regexp.Regexp
}

// Normalized builds the [0,1] scoring strategy: each matched query word
// contributes 1/n, whole-word matches an extra 0.5/n, capped at 1.0.
// n counts every query word, including the short ones that never match.
func Normalized(query string) Strategy {
	words := strings.Fields(strings.ToLower(query))
	s := &normalizedStrategy{words: words, whole: make([]*regexp.Regexp, len(words))}
	for i, w := range words {
		if len(w) > 2 {
			s.whole[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `\b`)
		}
	}
	return s
}

func (s *normalizedStrategy) Score(text string) float64 {
	if len(s.words) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	score := 0.0
	n := float64(len(s.words))
	for i, w := range s.words {
		if len(w) <= 2 {
			continue
		}
		if strings.Contains(lower, w) {
			score += 1.0 / n
			if s.whole[i] != nil && s.whole[i].MatchString(lower) {
				score += 0.5 / n
			}
		}
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}

// ScoreUnits scores every unit with the strategy and returns them ordered
// by score descending. Units with equal scores keep their original
// relative order.
func ScoreUnits(units []string, strategy Strategy) []ScoredUnit {
	scored := make([]ScoredUnit, 0, len(units))
	for _, u := range units {
		scored = append(scored, ScoredUnit{Text: u, Score: strategy.Score(u)})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	return scored
}

// BestExcerpt splits text into sentences and assembles the highest-scoring
// ones against query and intent, respecting the sentence and character
// budgets. A sentence that would overflow the remaining budget is skipped,
// never truncated. Returns "" when nothing matched.
func BestExcerpt(text, query, intent string) string {
	strategy := Absolute(query, intent)

	var matched []ScoredUnit
	for _, u := range ScoreUnits(splitSentences(text), strategy) {
		if u.Score > 0 {
			matched = append(matched, u)
		}
	}

	var b strings.Builder
	total := 0
	limit := len(matched)
	if limit > maxExcerptSentences {
		limit = maxExcerptSentences
	}
	for i := 0; i < limit && total < maxExcerptChars; i++ {
		s := matched[i].Text
		if total+len(s) <= maxExcerptChars {
			b.WriteString(s)
			b.WriteString(". ")
			total += len(s)
		}
	}
	return strings.TrimSpace(b.String())
}

func splitSentences(text string) []string {
	var out []string
	for _, s := range strings.Split(text, ". ") {
		if len(strings.TrimSpace(s)) < minSentenceLen {
			continue
		}
		out = append(out, s)
	}
	return out
}

// FilterDocument assembles the structured facts of doc that qualify
// against the query: the top sections above the section threshold, then
// every key-value and list above theirs. The second return reports
// whether anything beyond the header qualified.
func FilterDocument(doc *structurer.Document, query string) (string, bool) {
	strategy := Normalized(query)

	var b strings.Builder
	b.WriteString("=== " + doc.Filename + " ===\n\n")
	matched := false

	type scoredSection struct {
		structurer.Section
		score float64
	}
	var sections []scoredSection
	for _, s := range doc.Sections {
		if score := strategy.Score(s.Title + " " + s.Body); score > sectionThreshold {
			sections = append(sections, scoredSection{Section: s, score: score})
		}
	}
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].score > sections[j].score })
	if len(sections) > maxSections {
		sections = sections[:maxSections]
	}
	for _, s := range sections {
		matched = true
		b.WriteString(s.Title + "\n")
		b.WriteString(s.Body)
		b.WriteString("\n")
	}

	for _, kv := range doc.KeyValues {
		if strategy.Score(kv.Key+" "+kv.Value) > keyValueThreshold {
			matched = true
			b.WriteString(kv.Key + ": " + kv.Value + "\n")
		}
	}

	for _, l := range doc.Lists {
		if strategy.Score(l.Title+" "+strings.Join(l.Items, " ")) > listThreshold {
			matched = true
			b.WriteString("\n" + l.Title + "\n")
			for _, item := range l.Items {
				b.WriteString(item + "\n")
			}
		}
	}

	return b.String(), matched
}
