package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS watermark (
	feed TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	updated_at TIMESTAMPTZ
)`

// PostgresStore keeps one watermark row per feed in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
	feed string
}

// OpenPostgres connects to dsn and ensures the watermark table exists.
func OpenPostgres(ctx context.Context, dsn, feed string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}
	cfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating watermark table: %w", err)
	}

	if feed == "" {
		feed = DefaultFeed
	}
	return &PostgresStore{pool: pool, feed: feed}, nil
}

// Read returns the feed's watermark.
func (s *PostgresStore) Read(ctx context.Context) (string, error) {
	var title string
	err := s.pool.QueryRow(ctx, `SELECT title FROM watermark WHERE feed = $1`, s.feed).Scan(&title)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrMissingWatermark
	}
	if err != nil {
		return "", fmt.Errorf("reading watermark: %w", err)
	}
	return title, nil
}

// Write upserts the feed's watermark.
func (s *PostgresStore) Write(ctx context.Context, title string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO watermark (feed, title, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (feed) DO UPDATE SET title = EXCLUDED.title, updated_at = EXCLUDED.updated_at`,
		s.feed, title)
	if err != nil {
		return fmt.Errorf("writing watermark: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
