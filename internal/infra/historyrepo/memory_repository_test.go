package historyrepo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sardonia/theveil/internal/domain/reading"
)

func TestMemoryRepository_NewestFirst(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Record(ctx, reading.HistoryEntry{
			ID:        fmt.Sprintf("id-%d", i),
			Sign:      "Leo",
			CreatedAt: time.Now().UTC(),
		}))
	}

	entries, err := repo.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "id-4", entries[0].ID)
	require.Equal(t, "id-2", entries[2].ID)
}

func TestMemoryRepository_CapacityRollsOff(t *testing.T) {
	repo := NewMemoryRepository()
	repo.cap = 3
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Record(ctx, reading.HistoryEntry{ID: fmt.Sprintf("id-%d", i)}))
	}

	entries, err := repo.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "id-4", entries[0].ID)
	require.Equal(t, "id-2", entries[2].ID)
}
