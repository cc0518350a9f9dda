package store

import (
	"context"
	"sync"
)

const (
	KeyTodos = "todos"
	KeyTheme = "theme"
)

// BlobStore is an opaque string key/value store. Every value is replaced whole.
type BlobStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// MemoryBlobStore keeps values in process memory.
type MemoryBlobStore struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{m: map[string]string{}}
}

func (s *MemoryBlobStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MemoryBlobStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		s.m = map[string]string{}
	}
	s.m[key] = value
	return nil
}
