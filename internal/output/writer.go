// Package output renders run results and watermark state for the terminal.
package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format represents output format types.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatJSONL, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s (use json, jsonl or yaml)", s)
	}
}

// Writer serializes records. JSON and YAML collect records and emit them on
// Close (a lone record is written bare, several as a list); JSONL writes each
// record as it arrives.
type Writer interface {
	Write(v any) error
	Close() error
}

// WriterOption configures a writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	indent string
}

// WithIndent sets the JSON indentation; empty means compact output.
func WithIndent(indent string) WriterOption {
	return func(c *writerConfig) {
		c.indent = indent
	}
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format, opts ...WriterOption) (Writer, error) {
	cfg := &writerConfig{indent: "  "}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatJSON:
		return &batchWriter{w: bufio.NewWriter(w), encode: jsonEncoder(cfg.indent)}, nil
	case FormatYAML:
		return &batchWriter{w: bufio.NewWriter(w), encode: yamlEncoder}, nil
	case FormatJSONL:
		return &lineWriter{w: bufio.NewWriter(w)}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteAll writes every record and closes the writer.
func WriteAll[T any](w Writer, records []T) error {
	for _, r := range records {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return w.Close()
}

type encodeFunc func(w io.Writer, v any) error

func jsonEncoder(indent string) encodeFunc {
	return func(w io.Writer, v any) error {
		enc := json.NewEncoder(w)
		// message bodies are HTML
		enc.SetEscapeHTML(false)
		if indent != "" {
			enc.SetIndent("", indent)
		}
		return enc.Encode(v)
	}
}

func yamlEncoder(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

type batchWriter struct {
	w      *bufio.Writer
	encode encodeFunc
	items  []any
	closed bool
}

func (b *batchWriter) Write(v any) error {
	if b.closed {
		return fmt.Errorf("write on closed writer")
	}
	b.items = append(b.items, v)
	return nil
}

func (b *batchWriter) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true

	var v any = b.items
	if len(b.items) == 1 {
		v = b.items[0]
	}
	if b.items == nil {
		v = []any{}
	}
	if err := b.encode(b.w, v); err != nil {
		return err
	}
	return b.w.Flush()
}

type lineWriter struct {
	w *bufio.Writer
}

func (l *lineWriter) Write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := l.w.Write(data); err != nil {
		return err
	}
	if err := l.w.WriteByte('\n'); err != nil {
		return err
	}
	return l.w.Flush()
}

func (l *lineWriter) Close() error {
	return l.w.Flush()
}
