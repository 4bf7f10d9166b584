package storage

import (
	"context"
	"sync"
)

// MemoryStorage keeps session state in process memory. It backs local
// development without a database and the unit tests.
type MemoryStorage struct {
	mu       sync.Mutex
	sessions map[string]map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{sessions: make(map[string]map[string][]byte)}
}

func (s *MemoryStorage) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.sessions[sessionID][key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, nil
}

func (s *MemoryStorage) Set(ctx context.Context, sessionID, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions[sessionID] == nil {
		s.sessions[sessionID] = make(map[string][]byte)
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	s.sessions[sessionID][key] = cp
	return nil
}

func (s *MemoryStorage) Delete(ctx context.Context, sessionID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions[sessionID], key)
	return nil
}
