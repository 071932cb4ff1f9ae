// Package delta selects the listing entries published since the last
// delivered one.
package delta

import "github.com/jmylchreest/newsrelay/pkg/listing"

// Detect scans entries newest-first and returns those preceding the first
// entry titled watermark, in the same order. If no entry matches, every
// entry is new; pages beyond the listing are never consulted.
//
// candidate is the title of the newest new entry, or nil when nothing is new.
// It becomes the next watermark once every new entry has been delivered.
func Detect(entries []listing.Entry, watermark string) (fresh []listing.Entry, candidate *string) {
	for _, e := range entries {
		if e.Title == watermark {
			break
		}
		if candidate == nil {
			title := e.Title
			candidate = &title
		}
		fresh = append(fresh, e)
	}
	return fresh, candidate
}

// Oldest returns a copy of entries in reverse order, for delivery
// oldest-first.
func Oldest[T any](items []T) []T {
	out := make([]T, len(items))
	for i, it := range items {
		out[len(items)-1-i] = it
	}
	return out
}
