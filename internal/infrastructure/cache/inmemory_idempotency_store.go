package cache

import (
	"context"
	"time"

	"github.com/safedocs/backend/internal/domain/shared"
)

// InMemoryIdempotencyStore implements IdempotencyStore in process memory.
// Keys are not shared between instances.
type InMemoryIdempotencyStore struct {
	entries *ttlMap
}

// NewInMemoryIdempotencyStore creates an empty store
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{entries: newTTLMap(5 * time.Minute)}
}

// MarkProcessed records key unless a live record exists
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	return s.entries.setIfAbsent(key, time.Now().UTC().Format(time.RFC3339), ttl), nil
}

// IsProcessed reports whether key is recorded and not expired
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	_, ok := s.entries.get(key)
	return ok, nil
}

// Forget removes key
func (s *InMemoryIdempotencyStore) Forget(_ context.Context, key string) error {
	s.entries.delete(key)
	return nil
}

// Close stops background cleanup. Safe to call multiple times.
func (s *InMemoryIdempotencyStore) Close() error {
	s.entries.close()
	return nil
}

// Size returns the number of entries, expired ones included until swept
func (s *InMemoryIdempotencyStore) Size() int {
	return s.entries.len()
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
