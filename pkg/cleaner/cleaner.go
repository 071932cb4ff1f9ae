// Package cleaner provides interfaces and implementations for turning article
// HTML into message text.
//
// The default pipeline, NewTelegram, flattens block markup into plain lines
// and leaves only the inline tags a Telegram HTML message understands.
package cleaner

// Cleaner transforms HTML content into message text.
type Cleaner interface {
	// Clean transforms the input HTML into a cleaned format.
	Clean(html string) (string, error)

	// Name returns the cleaner type for logging/debugging.
	Name() string
}
