package state

import (
	"context"
	"errors"
	"sync"
)

var ErrNoState = errors.New("no state recorded")

// MemoryStore is an in-process StateStore for tests and dry runs.
type MemoryStore struct {
	mu    sync.Mutex
	value string
	set   bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Read(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return "", ErrNoState
	}
	return s.value, nil
}

func (s *MemoryStore) Write(_ context.Context, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
	s.set = true
	return nil
}
