package portfolio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store exposes the portfolio document to services and handlers.
type Store interface {
	Get() Document
	Replace(doc Document)
}

// MemoryStore implements Store with a single in-memory document.
type MemoryStore struct {
	mu  sync.RWMutex
	doc Document
}

// NewMemoryStore returns a MemoryStore preloaded with doc.
func NewMemoryStore(doc Document) *MemoryStore {
	return &MemoryStore{doc: doc.Clone()}
}

// Get returns a copy of the current document.
func (s *MemoryStore) Get() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Replace swaps the stored document.
func (s *MemoryStore) Replace(doc Document) {
	doc = doc.Clone()
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
}

// LoadFile reads a document from a YAML or JSON file, chosen by extension.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read portfolio document: %w", err)
	}

	var doc Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &doc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		return Document{}, fmt.Errorf("unsupported portfolio document format %q", filepath.Ext(path))
	}
	if err != nil {
		return Document{}, fmt.Errorf("decode portfolio document %s: %w", path, err)
	}

	if strings.TrimSpace(doc.Name) == "" {
		return Document{}, fmt.Errorf("portfolio document %s: name is required", path)
	}
	return doc, nil
}
