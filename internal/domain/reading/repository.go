package reading

import (
	"context"
	"time"
)

// HistoryRepository persists served readings for the history endpoint.
type HistoryRepository interface {
	Record(ctx context.Context, entry HistoryEntry) error
	Recent(ctx context.Context, limit int) ([]HistoryEntry, error)
}

// DashboardStore caches dashboard payloads keyed by their deterministic seed
// material.
type DashboardStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key, payload string, ttl time.Duration) error
}
