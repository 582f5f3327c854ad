package readingstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "dash:0000abcd")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Save(ctx, "dash:0000abcd", `{"meta":{}}`, time.Minute))

	payload, ok, err := store.Get(ctx, "dash:0000abcd")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"meta":{}}`, payload)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "key", "value", time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := store.Get(ctx, "key")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStore_ZeroTTLNeverExpires(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "key", "value", 0))

	payload, ok, err := store.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "value", payload)
}
