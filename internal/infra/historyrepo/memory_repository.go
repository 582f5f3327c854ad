package historyrepo

import (
	"context"
	"sync"

	"github.com/sardonia/theveil/internal/domain/reading"
)

const defaultCapacity = 256

// MemoryRepository keeps recent readings in process memory for tests/dev.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []reading.HistoryEntry
	cap     int
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{cap: defaultCapacity}
}

// Record implements reading.HistoryRepository. The oldest entries roll off
// once the capacity is reached.
func (r *MemoryRepository) Record(_ context.Context, entry reading.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	if len(r.entries) > r.cap {
		r.entries = r.entries[len(r.entries)-r.cap:]
	}
	return nil
}

// Recent returns the newest entries first.
func (r *MemoryRepository) Recent(_ context.Context, limit int) ([]reading.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 || limit > len(r.entries) {
		limit = len(r.entries)
	}
	out := make([]reading.HistoryEntry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

var _ reading.HistoryRepository = (*MemoryRepository)(nil)
