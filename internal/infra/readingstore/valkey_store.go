package readingstore

import (
	"context"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/sardonia/theveil/internal/domain/reading"
)

// ValkeyStore caches dashboard payloads in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "theveil"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// Get implements reading.DashboardStore.
func (s *ValkeyStore) Get(ctx context.Context, key string) (string, bool, error) {
	cmd := s.client.B().Get().Key(s.key(key)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return payload, true, nil
}

// Save caches the payload with optional TTL.
func (s *ValkeyStore) Save(ctx context.Context, key, payload string, ttl time.Duration) error {
	builder := s.client.B().Set().Key(s.key(key)).Value(payload)
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) key(key string) string {
	return s.prefix + ":" + key
}

var _ reading.DashboardStore = (*ValkeyStore)(nil)
