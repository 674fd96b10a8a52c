// Package memory provides an in-process key-value substrate for tests and
// ephemeral runs.
package memory

import (
	"context"
	"sync"

	"easystay/internal/adapters/observability"
	"easystay/internal/domain"
)

var _ domain.KVStore = (*Store)(nil)

type Store struct {
	mu   sync.RWMutex
	data map[string]string
}

func New() *Store { return &Store{data: map[string]string{}} }

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		observability.ObserveKV("memory", "miss")
		return "", false, nil
	}
	observability.ObserveKV("memory", "hit")
	return v, true, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	s.data[key] = value
	s.mu.Unlock()
	observability.ObserveKV("memory", "set")
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	observability.ObserveKV("memory", "remove")
	return nil
}

// Keys returns a snapshot of stored keys, unordered.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.data))
	for k := range s.data {
		out = append(out, k)
	}
	return out
}
