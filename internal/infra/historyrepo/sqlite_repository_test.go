package historyrepo

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sardonia/theveil/internal/domain/reading"
)

func TestSQLiteRepository_RoundTrip(t *testing.T) {
	repo, err := OpenSQLite(filepath.Join(t.TempDir(), "history.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	ctx := context.Background()
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	first := reading.HistoryEntry{
		ID:          "a1",
		Date:        "2024-06-01",
		Sign:        "Gemini",
		Title:       "A horizon you can trust",
		Message:     "the stars hum quietly",
		LuckyNumber: 7,
		Source:      reading.SourceStub,
		DurationMs:  12,
		CreatedAt:   base,
	}
	second := first
	second.ID = "b2"
	second.Source = reading.SourceModel
	second.CreatedAt = base.Add(time.Minute)

	require.NoError(t, repo.Record(ctx, first))
	require.NoError(t, repo.Record(ctx, second))

	entries, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, second, entries[0])
	require.Equal(t, first, entries[1])
}

func TestSQLiteRepository_LimitDefaults(t *testing.T) {
	repo, err := OpenSQLite(filepath.Join(t.TempDir(), "history.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	entries, err := repo.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Empty(t, entries)
}
