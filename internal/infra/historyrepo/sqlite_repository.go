package historyrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sardonia/theveil/internal/domain/reading"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS readings (
	id TEXT PRIMARY KEY,
	date TEXT NOT NULL,
	sign TEXT NOT NULL,
	title TEXT NOT NULL,
	message TEXT NOT NULL,
	lucky_number INTEGER NOT NULL,
	source TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_readings_created_at ON readings(created_at DESC);
`

// SQLiteRepository persists readings in a local SQLite file.
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the history database at path.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Record implements reading.HistoryRepository.
func (r *SQLiteRepository) Record(ctx context.Context, entry reading.HistoryEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO readings (id, date, sign, title, message, lucky_number, source, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Date, entry.Sign, entry.Title, entry.Message,
		entry.LuckyNumber, string(entry.Source), entry.DurationMs, entry.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}

// Recent returns the newest entries first.
func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]reading.HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, sign, title, message, lucky_number, source, duration_ms, created_at
		FROM readings
		ORDER BY created_at DESC
		LIMIT ?
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
			createdAt int64
		)
		if err := rows.Scan(&entry.ID, &entry.Date, &entry.Sign, &entry.Title, &entry.Message,
			&entry.LuckyNumber, &source, &entry.DurationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		entry.Source = reading.Source(source)
		entry.CreatedAt = time.UnixMilli(createdAt).UTC()
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

var _ reading.HistoryRepository = (*SQLiteRepository)(nil)
