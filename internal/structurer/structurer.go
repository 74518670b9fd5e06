// Package structurer segments raw document text into searchable facts:
// titled sections, key-value pairs, bulleted lists and contact details.
// The four extraction passes are heuristic, independent of one another and
// best-effort; text that matches nothing yields an empty Document rather
// than an error.
package structurer

import (
	"regexp"
	"strings"
)

// Section is a titled block of body text.
type Section struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// KeyValue is a single "Key: Value" style fact.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// List is a titled sequence of bullet items.
type List struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// Document holds the structured facts extracted from one document.
// Titles and keys are unique; a later duplicate overwrites the earlier
// value in place. Contacts keep only the last match per kind.
type Document struct {
	Filename  string            `json:"filename"`
	Sections  []Section         `json:"sections"`
	KeyValues []KeyValue        `json:"key_values"`
	Lists     []List            `json:"lists"`
	Contacts  map[string]string `json:"contacts"`
}

// Section returns the body stored under title.
func (d *Document) Section(title string) (string, bool) {
	for _, s := range d.Sections {
		if s.Title == title {
			return s.Body, true
		}
	}
	return "", false
}

// Value returns the value stored under key.
func (d *Document) Value(key string) (string, bool) {
	for _, kv := range d.KeyValues {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

func (d *Document) addSection(title, body string) {
	for i := range d.Sections {
		if d.Sections[i].Title == title {
			d.Sections[i].Body = body
			return
		}
	}
	d.Sections = append(d.Sections, Section{Title: title, Body: body})
}

func (d *Document) addKeyValue(key, value string) {
	for i := range d.KeyValues {
		if d.KeyValues[i].Key == key {
			d.KeyValues[i].Value = value
			return
		}
	}
	d.KeyValues = append(d.KeyValues, KeyValue{Key: key, Value: value})
}

func (d *Document) addList(title string, items []string) {
	for i := range d.Lists {
		if d.Lists[i].Title == title {
			d.Lists[i].Items = items
			return
		}
	}
	d.Lists = append(d.Lists, List{Title: title, Items: items})
}

var (
	upperHeaderRe = regexp.MustCompile(`^[A-Z][A-Z\s]+$`)
	numberedRe    = regexp.MustCompile(`^\d+\.\s.*`)
	titleColonRe  = regexp.MustCompile(`^[A-Z][a-z]+.*:$`)
	bulletRe      = regexp.MustCompile(`^[•\-*].*`)
	numberedItem  = regexp.MustCompile(`^\d+\..*`)
	emailRe       = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe       = regexp.MustCompile(`\b\d{3}-\d{3}-\d{4}\b|\(\d{3}\)\s*\d{3}-\d{4}`)
)

var headerKeywords = []string{"Policy", "Procedure", "Process", "Guidelines"}

// Structure extracts sections, key-values, lists and contacts from rawText.
// Deterministic for a given input and never fails.
func Structure(filename, rawText string) *Document {
	doc := &Document{Filename: filename, Contacts: map[string]string{}}
	lines := strings.Split(rawText, "\n")

	extractSections(doc, lines)
	extractKeyValues(doc, lines)
	extractLists(doc, lines)
	extractContacts(doc, rawText)

	return doc
}

func isHeaderLine(line string) bool {
	if upperHeaderRe.MatchString(line) || numberedRe.MatchString(line) || titleColonRe.MatchString(line) {
		return true
	}
	for _, kw := range headerKeywords {
		if strings.Contains(line, kw) {
			return true
		}
	}
	return false
}

func extractSections(doc *Document, lines []string) {
	var title string
	var body strings.Builder

	flush := func() {
		if title != "" && body.Len() > 0 {
			doc.addSection(title, body.String())
		}
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if isHeaderLine(line) {
			flush()
			title = line
			body.Reset()
		} else if line != "" {
			body.WriteString(line)
			body.WriteString("\n")
		}
	}
	flush()
}

func extractKeyValues(doc *Document, lines []string) {
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if !strings.Contains(line, ":") && !strings.Contains(line, " - ") {
			continue
		}
		idx := strings.IndexAny(line, ":-")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if key != "" && value != "" && len(key) < 100 {
			doc.addKeyValue(key, value)
		}
	}
}

func extractLists(doc *Document, lines []string) {
	var items []string
	var title string

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if bulletRe.MatchString(line) || numberedItem.MatchString(line) {
			if len(items) == 0 && i > 0 {
				// The line right above the first bullet is taken as the title.
				title = strings.TrimSpace(lines[i-1])
			}
			items = append(items, line)
		} else if len(items) > 0 && line == "" {
			if title != "" {
				doc.addList(title, append([]string(nil), items...))
			}
			items = items[:0]
			title = ""
		}
	}
	if len(items) > 0 && title != "" {
		doc.addList(title, items)
	}
}

func extractContacts(doc *Document, text string) {
	for _, m := range emailRe.FindAllString(text, -1) {
		doc.Contacts["email"] = m
	}
	for _, m := range phoneRe.FindAllString(text, -1) {
		doc.Contacts["phone"] = m
	}
}
