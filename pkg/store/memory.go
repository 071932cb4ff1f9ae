package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-process store for tests and dry runs.
type MemoryStore struct {
	mu     sync.Mutex
	title  string
	set    bool
	writes int
}

// NewMemory returns an empty store; Read reports ErrMissingWatermark until
// the first Write.
func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryWith returns a store seeded with title.
func NewMemoryWith(title string) *MemoryStore {
	return &MemoryStore{title: title, set: true}
}

func (s *MemoryStore) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return "", ErrMissingWatermark
	}
	return s.title, nil
}

func (s *MemoryStore) Write(ctx context.Context, title string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title = title
	s.set = true
	s.writes++
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// Writes returns how many times Write succeeded.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
