package docs

import (
	"os"
	"strings"
)

// Extractor turns a document path into raw text. ok=false is a recoverable
// miss (unreadable, absent or empty), never a fatal error. Binary formats
// such as PDF are handled by an externally supplied Extractor; this
// package only ships the plain-text one.
type Extractor interface {
	Extract(path string) (string, bool)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(path string) (string, bool)

func (f ExtractorFunc) Extract(path string) (string, bool) { return f(path) }

// TextExtractor reads plain-text files from disk.
type TextExtractor struct{}

func (TextExtractor) Extract(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	return text, true
}
