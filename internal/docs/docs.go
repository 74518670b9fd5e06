// Package docs ties together the document directory, the content and
// structured caches, the structurer and the relevance engine. It is the
// single entry point the chat pipeline uses to read company documents.
package docs

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/askdeck/askdeck/config"
	"github.com/askdeck/askdeck/internal/cache"
	"github.com/askdeck/askdeck/internal/metrics"
	"github.com/askdeck/askdeck/internal/relevance"
	"github.com/askdeck/askdeck/internal/structurer"
)

// Stats is the read-only cache diagnostic surface.
type Stats struct {
	CachedDocuments    int    `json:"cached_documents"`
	CacheTTLMinutes    int    `json:"cache_ttl_minutes"`
	DocumentsDirectory string `json:"documents_directory"`
}

// Service serves document content and structured facts out of two
// independently configured caches: raw text and structured documents.
type Service struct {
	dir        string
	extractor  Extractor
	content    *cache.Store[string]
	structured *cache.Store[*structurer.Document]
	logger     *log.Logger
}

// NewService builds a Service. A nil extractor falls back to the
// plain-text one.
func NewService(cfg config.DocumentsConfig, extractor Extractor, logger *log.Logger) *Service {
	if extractor == nil {
		extractor = TextExtractor{}
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[DOCS] ", log.LstdFlags)
	}
	return &Service{
		dir:        cfg.Dir,
		extractor:  extractor,
		content:    cache.New[string](cfg.ContentTTL),
		structured: cache.New[*structurer.Document](cfg.StructuredTTL),
		logger:     logger,
	}
}

var documentExts = map[string]struct{}{".txt": {}, ".md": {}, ".pdf": {}}

// List returns the document filenames in the configured directory, sorted.
// A missing directory is a miss, not an error.
func (s *Service) List() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Printf("documents directory %s unreadable: %v", s.dir, err)
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := documentExts[strings.ToLower(filepath.Ext(e.Name()))]; ok {
			names = append(names, e.Name())
		}
	}
	return names
}

// Content returns the document's current text, extracting through the
// content cache.
func (s *Service) Content(filename string) (string, bool) {
	loaded := false
	text, ok := s.content.Get(filename, func(key string) (string, bool) {
		loaded = true
		return s.extractor.Extract(filepath.Join(s.dir, key))
	})
	switch {
	case ok && loaded:
		metrics.DocumentLoads.WithLabelValues("load").Inc()
	case ok:
		metrics.DocumentLoads.WithLabelValues("hit").Inc()
	default:
		metrics.DocumentLoads.WithLabelValues("miss").Inc()
	}
	return text, ok
}

// AllContents extracts every document in the directory, skipping misses.
func (s *Service) AllContents() map[string]string {
	out := map[string]string{}
	for _, name := range s.List() {
		if text, ok := s.Content(name); ok {
			out[name] = text
		}
	}
	return out
}

// Structured returns the document's structured facts through the
// structured cache.
func (s *Service) Structured(filename string) (*structurer.Document, bool) {
	return s.structured.Get(filename, func(key string) (*structurer.Document, bool) {
		text, ok := s.Content(key)
		if !ok {
			return nil, false
		}
		return structurer.Structure(key, text), true
	})
}

// SearchRelevant ranks sentences of every document against the query and
// intent and returns the concatenated per-document excerpts, or "" when
// nothing matched. Documents are visited in name order so the result is
// reproducible.
func (s *Service) SearchRelevant(query, intent string) string {
	var b strings.Builder
	for _, name := range s.List() {
		text, ok := s.Content(name)
		if !ok {
			continue
		}
		excerpt := relevance.BestExcerpt(text, query, intent)
		if excerpt == "" {
			continue
		}
		b.WriteString("=== " + name + " ===\n")
		b.WriteString(excerpt)
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}

// StructuredExcerpt filters one document's structured facts against the
// query. ok=false when the document is unreadable or nothing qualified.
func (s *Service) StructuredExcerpt(filename, query string) (string, bool) {
	doc, ok := s.Structured(filename)
	if !ok {
		return "", false
	}
	out, matched := relevance.FilterDocument(doc, query)
	if !matched {
		return "", false
	}
	return out, true
}

// Warm pre-extracts every document so the first query does not pay the
// extraction cost. Returns how many documents were loaded.
func (s *Service) Warm() int {
	n := 0
	for _, name := range s.List() {
		if _, ok := s.Content(name); ok {
			n++
		}
	}
	s.logger.Printf("warmed %d documents from %s", n, s.dir)
	return n
}

// Invalidate drops both cache entries for one document.
func (s *Service) Invalidate(filename string) {
	s.content.Invalidate(filename)
	s.structured.Invalidate(filename)
}

// InvalidateAll drops every cached document.
func (s *Service) InvalidateAll() {
	s.content.InvalidateAll()
	s.structured.InvalidateAll()
	s.logger.Printf("document caches cleared")
}

// Stats reports the diagnostic cache surface.
func (s *Service) Stats() Stats {
	return Stats{
		CachedDocuments:    s.content.Len(),
		CacheTTLMinutes:    int(s.content.TTL().Minutes()),
		DocumentsDirectory: s.dir,
	}
}
