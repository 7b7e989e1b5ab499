package store

import (
	"context"
	"sync"
)

// MemoryKV is an in-memory KV for tests and single-node development.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKV creates an empty in-memory key-value store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (s *MemoryKV) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (s *MemoryKV) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// MemoryMeta is an in-memory NewsletterMeta. The mutex makes increments
// exact under concurrency, matching the database-backed behavior.
type MemoryMeta struct {
	mu     sync.Mutex
	clicks map[int64]int64
}

// NewMemoryMeta creates an empty in-memory newsletter metadata store.
func NewMemoryMeta() *MemoryMeta {
	return &MemoryMeta{clicks: make(map[int64]int64)}
}

func (s *MemoryMeta) IncrementClicks(ctx context.Context, newsletterID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clicks[newsletterID]++
	return s.clicks[newsletterID], nil
}

func (s *MemoryMeta) GetClicks(ctx context.Context, newsletterID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clicks[newsletterID], nil
}
