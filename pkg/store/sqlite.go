package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS watermark (
	feed TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	updated_at TIMESTAMP
)`

// SQLiteStore keeps one watermark row per feed in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	feed string
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path, feed string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	// single writer
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating watermark table: %w", err)
	}

	if feed == "" {
		feed = DefaultFeed
	}
	return &SQLiteStore{db: db, feed: feed}, nil
}

// Read returns the feed's watermark.
func (s *SQLiteStore) Read(ctx context.Context) (string, error) {
	var title string
	err := s.db.QueryRowContext(ctx, `SELECT title FROM watermark WHERE feed = ?`, s.feed).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrMissingWatermark
	}
	if err != nil {
		return "", fmt.Errorf("reading watermark: %w", err)
	}
	return title, nil
}

// Write upserts the feed's watermark.
func (s *SQLiteStore) Write(ctx context.Context, title string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO watermark (feed, title, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(feed) DO UPDATE SET title = excluded.title, updated_at = excluded.updated_at`,
		s.feed, title, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("writing watermark: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
