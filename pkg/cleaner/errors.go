package cleaner

import (
	"errors"
	"fmt"
)

// ErrInvalidEncoding is returned when content is not valid UTF-8.
// Check with errors.Is(err, cleaner.ErrInvalidEncoding).
var ErrInvalidEncoding = errors.New("invalid text encoding")

// EncodingError reports where invalid UTF-8 was found.
type EncodingError struct {
	Offset int // byte offset of the first invalid sequence
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%v at byte %d", ErrInvalidEncoding, e.Offset)
}

// Unwrap allows errors.Is(err, ErrInvalidEncoding) to work.
func (e *EncodingError) Unwrap() error {
	return ErrInvalidEncoding
}
