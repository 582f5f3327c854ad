package historyrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sardonia/theveil/internal/domain/reading"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS readings (
	id TEXT PRIMARY KEY,
	date TEXT NOT NULL,
	sign TEXT NOT NULL,
	title TEXT NOT NULL,
	message TEXT NOT NULL,
	lucky_number INTEGER NOT NULL,
	source TEXT NOT NULL,
	duration_ms BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

// PostgresRepository implements reading.HistoryRepository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository and ensures the schema.
func NewPostgresRepository(ctx context.Context, pool *pgxpool.Pool) (*PostgresRepository, error) {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("apply history schema: %w", err)
	}
	return &PostgresRepository{pool: pool}, nil
}

// Record implements reading.HistoryRepository.
func (r *PostgresRepository) Record(ctx context.Context, entry reading.HistoryEntry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO readings (id, date, sign, title, message, lucky_number, source, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, entry.ID, entry.Date, entry.Sign, entry.Title, entry.Message,
		entry.LuckyNumber, string(entry.Source), entry.DurationMs, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}

// Recent returns the newest entries first.
func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]reading.HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, date, sign, title, message, lucky_number, source, duration_ms, created_at
		FROM readings
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query readings: %w", err)
	}
	defer rows.Close()

	var entries []reading.HistoryEntry
	for rows.Next() {
		var (
			entry     reading.HistoryEntry
			source    string
			createdAt time.Time
		)
		if err := rows.Scan(&entry.ID, &entry.Date, &entry.Sign, &entry.Title, &entry.Message,
			&entry.LuckyNumber, &source, &entry.DurationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		entry.Source = reading.Source(source)
		entry.CreatedAt = createdAt.UTC()
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

var _ reading.HistoryRepository = (*PostgresRepository)(nil)
