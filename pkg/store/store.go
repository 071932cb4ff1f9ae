// Package store persists the watermark: the title of the newest entry
// delivered by the last successful run.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrMissingWatermark is returned by Read when no watermark has been
// written yet.
var ErrMissingWatermark = errors.New("watermark not initialized")

// Store is a durable single-value watermark store.
type Store interface {
	// Read returns the current watermark or ErrMissingWatermark.
	Read(ctx context.Context) (string, error)

	// Write replaces the watermark.
	Write(ctx context.Context, title string) error

	// Close releases any resources held by the store.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// DefaultPath is the watermark file used by the file backend.
const DefaultPath = "last_title.txt"

// DefaultFeed keys the watermark row in the database backends.
const DefaultFeed = "default"

// Config selects and configures a backend.
type Config struct {
	Backend string // file (default), sqlite, postgres, memory
	Path    string // file path for file and sqlite backends
	DSN     string // postgres connection string
	Feed    string // row key for database backends
}

// Open creates the store described by cfg.
func Open(ctx context.Context, cfg Config) (Store, error) {
	if cfg.Feed == "" {
		cfg.Feed = DefaultFeed
	}

	switch cfg.Backend {
	case "", BackendFile:
		path := cfg.Path
		if path == "" {
			path = DefaultPath
		}
		return NewFile(path), nil
	case BackendSQLite:
		if cfg.Path == "" {
			return nil, errors.New("sqlite store requires a path")
		}
		s, err := OpenSQLite(ctx, cfg.Path, cfg.Feed)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendPostgres:
		if cfg.DSN == "" {
			return nil, errors.New("postgres store requires a dsn")
		}
		s, err := OpenPostgres(ctx, cfg.DSN, cfg.Feed)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
