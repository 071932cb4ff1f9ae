// Package fetcher defines the interface for web page fetching.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Fetcher abstracts page fetching strategies.
type Fetcher interface {
	// Fetch retrieves page content from a URL.
	Fetch(ctx context.Context, url string, opts Options) (Content, error)

	// Close releases any resources.
	Close() error

	// Type returns a string identifying the fetcher type (e.g., "static").
	Type() string
}

// Options controls a single fetch. Zero values fall back to the fetcher's
// configuration.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	Headers   map[string]string
}

// Content represents fetched page data.
type Content struct {
	URL         string
	HTML        string
	StatusCode  int
	ContentType string
	FetchedAt   time.Time
}

// ErrTransport indicates the page could not be retrieved: a network failure
// or a non-success HTTP status.
// Check with errors.Is(err, fetcher.ErrTransport).
var ErrTransport = errors.New("transport error")

// StatusError is returned when the server answers with a non-success status.
// Body holds the response body for diagnosis.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%v: GET %s returned %d: %s", ErrTransport, e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%v: GET %s returned %d", ErrTransport, e.URL, e.StatusCode)
}

// Unwrap allows errors.Is(err, ErrTransport) to work.
func (e *StatusError) Unwrap() error {
	return ErrTransport
}
