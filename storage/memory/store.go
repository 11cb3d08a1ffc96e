package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/viant/participant/storage"
)

// Store is an in-memory, thread-safe storage.Store. It is the default
// medium for tests and for short-lived processes that do not need to
// survive a restart.
type Store struct {
	mu      sync.RWMutex
	records map[string]string
}

var _ storage.Store = (*Store)(nil)

// New creates an empty Store.
func New() *Store {
	return &Store{records: make(map[string]string)}
}

// Set stores or overwrites a value.
func (s *Store) Set(_ context.Context, key, value string) error {
	if key == "" {
		return storage.ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = value
	return nil
}

// Get returns a value by key.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	return v, ok, nil
}

// Remove deletes a value; missing keys are ignored.
func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

// Contains reports whether key is present.
func (s *Store) Contains(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[key]
	return ok, nil
}

// Keys returns all stored keys in lexical order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.records))
	for k := range s.records {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
