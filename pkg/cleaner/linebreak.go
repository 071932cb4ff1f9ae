package cleaner

import (
	"regexp"
	"unicode/utf8"
)

// softBreak matches a newline whose preceding character is not the end of a
// tag. Matches do not overlap, so in a run of newlines only every other one
// is a soft break.
var softBreak = regexp.MustCompile(`[^>]\n`)

// LineBreakCleaner turns newlines that wrap text inside a paragraph into
// spaces. A newline directly after '>' ends a block and is kept.
//
// The output has the same length as the input and differs only at the
// rewritten newline positions.
type LineBreakCleaner struct{}

// NewLineBreak creates a LineBreakCleaner.
func NewLineBreak() *LineBreakCleaner {
	return &LineBreakCleaner{}
}

// Clean rewrites soft line breaks to spaces. Input that is not valid UTF-8
// is rejected with an *EncodingError.
func (c *LineBreakCleaner) Clean(html string) (string, error) {
	if off, ok := invalidOffset(html); ok {
		return "", &EncodingError{Offset: off}
	}

	positions := SoftBreaks(html)
	if len(positions) == 0 {
		return html, nil
	}

	buf := []byte(html)
	for _, p := range positions {
		buf[p] = ' '
	}

	// Only single-byte newlines were overwritten with single-byte spaces,
	// so the result is valid whenever the input was.
	if !utf8.Valid(buf) {
		return "", &EncodingError{Offset: positions[0]}
	}
	return string(buf), nil
}

// Name returns the cleaner type.
func (c *LineBreakCleaner) Name() string {
	return "linebreak"
}

// SoftBreaks returns the byte offsets of the newlines LineBreakCleaner
// rewrites, in ascending order.
func SoftBreaks(s string) []int {
	matches := softBreak.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return nil
	}
	positions := make([]int, len(matches))
	for i, m := range matches {
		positions[i] = m[1] - 1
	}
	return positions
}

// invalidOffset reports the byte offset of the first invalid UTF-8 sequence.
func invalidOffset(s string) (int, bool) {
	if utf8.ValidString(s) {
		return 0, false
	}
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return i, true
		}
		i += size
	}
	return 0, false
}
