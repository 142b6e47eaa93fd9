package kvstore

import (
	"context"
	"sync"
)

// MemoryStore keeps documents in a map. It is the default test fake and the
// zero-setup backend for local runs.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string][]byte
	notify  *notifier
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]byte),
		notify:  newNotifier(),
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.entries[key]
	if !ok {
		return nil, ErrKeyNotFound
	}

	// Copy so callers cannot mutate the stored document.
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.entries[key] = stored
	s.notify.notify(key)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	s.notify.notify(key)
	return nil
}

func (s *MemoryStore) Watch(key string) (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, id := s.notify.subscribe(key)
	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.notify.unsubscribe(key, id)
	}
	return ch, cancel
}

func (s *MemoryStore) Close() error {
	return nil
}
