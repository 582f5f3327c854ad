package readingstore

import (
	"context"
	"sync"
	"time"

	"github.com/sardonia/theveil/internal/domain/reading"
)

type cached struct {
	payload   string
	expiresAt time.Time
}

// MemoryStore is an in-memory dashboard cache for tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]cached
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]cached)}
}

// Get implements reading.DashboardStore.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if hasExpired(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return "", false, nil
	}
	return entry.payload, true, nil
}

// Save caches the payload with optional TTL.
func (s *MemoryStore) Save(_ context.Context, key, payload string, ttl time.Duration) error {
	exp := time.Time{}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[key] = cached{payload: payload, expiresAt: exp}
	s.mu.Unlock()
	return nil
}

func hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(time.Now())
}

var _ reading.DashboardStore = (*MemoryStore)(nil)
