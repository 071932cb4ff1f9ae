// Package notifier delivers news items to a chat.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
)

// Message is one news item ready for delivery.
type Message struct {
	Title  string `json:"title" yaml:"title"`
	URL    string `json:"url" yaml:"url"`
	Author string `json:"author" yaml:"author"`
	Body   string `json:"body" yaml:"body"` // Telegram HTML
}

// Notifier delivers a single message.
type Notifier interface {
	// Send delivers msg and returns once the recipient accepted or rejected it.
	Send(ctx context.Context, msg Message) error

	// Name returns a short identifier for logging.
	Name() string
}

// Format renders msg as Telegram HTML: a bold linked title, the body, and
// the author separated by two blank lines.
//
// Title and author are plain text and get escaped; the body is already
// markup and is used as is.
func Format(msg Message) string {
	var sb strings.Builder
	sb.WriteString(`<b><a href="`)
	sb.WriteString(html.EscapeString(msg.URL))
	sb.WriteString(`">`)
	sb.WriteString(html.EscapeString(msg.Title))
	sb.WriteString("</a></b>\n\n")
	sb.WriteString(msg.Body)
	sb.WriteString("\n\n\n")
	sb.WriteString(html.EscapeString(msg.Author))
	return sb.String()
}

// ErrTransport indicates a message could not be delivered.
// Check with errors.Is(err, notifier.ErrTransport).
var ErrTransport = errors.New("transport error")

// TransportError describes a failed delivery. StatusCode is 0 when no HTTP
// response was received.
type TransportError struct {
	StatusCode  int
	Description string // server-provided reason, if any
	Body        string // raw response body
	Err         error  // underlying network error, if any
}

func (e *TransportError) Error() string {
	switch {
	case e.Description != "":
		return fmt.Sprintf("%v: status %d: %s", ErrTransport, e.StatusCode, e.Description)
	case e.Body != "":
		return fmt.Sprintf("%v: status %d: %s", ErrTransport, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", ErrTransport, e.Err)
	default:
		return fmt.Sprintf("%v: status %d", ErrTransport, e.StatusCode)
	}
}

// Is reports whether target is ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// Unwrap returns the underlying network error.
func (e *TransportError) Unwrap() error {
	return e.Err
}
