package portfolio

import (
	"context"
	"log"
	"sync/atomic"

	"github.com/somaarjun/portfolio/backend/internal/model/portfolio"
)

// Service 对外提供作品集文档，并附带访问计数。
type Service struct {
	store   portfolio.Store
	counter Counter
	last    atomic.Int64
}

// NewService wraps store. A nil counter falls back to a MemoryCounter.
func NewService(store portfolio.Store, counter Counter) *Service {
	if counter == nil {
		counter = NewMemoryCounter()
	}
	return &Service{store: store, counter: counter}
}

// Document returns a copy of the current document with a fresh visit count.
// When the counter fails the last value it produced is reported instead.
func (s *Service) Document(ctx context.Context) portfolio.Document {
	doc := s.store.Get()

	count, err := s.counter.Next(ctx)
	if err != nil {
		log.Printf("[portfolio] visit counter failed: %v", err)
		count = s.last.Load()
	} else {
		s.last.Store(count)
	}

	doc.VisitCount = count
	return doc
}

// Get returns the document without touching the counter.
func (s *Service) Get() portfolio.Document {
	return s.store.Get()
}

// Reload replaces the document with the contents of path. The current
// document stays in place when the file cannot be loaded.
func (s *Service) Reload(path string) error {
	doc, err := portfolio.LoadFile(path)
	if err != nil {
		return err
	}
	s.store.Replace(doc)
	log.Printf("[portfolio] document reloaded from %s (%d projects)", path, len(doc.Projects))
	return nil
}
