package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/flowcanvas/pkg/domain"
)

// Store implements ports.DocumentRepository in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]string
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]string),
	}
}

// Save keeps the document in memory.
func (s *Store) Save(ctx context.Context, key, document string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = document
	return nil
}

// Load retrieves a document from memory.
func (s *Store) Load(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.data[key]
	if !ok {
		return "", domain.ErrDocumentNotFound
	}
	return doc, nil
}

// Delete removes a document.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// List returns the stored keys in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
