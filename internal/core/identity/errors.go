package identity

import (
	"errors"
	"fmt"
)

// ErrFormat is matched by every FormatError.
var ErrFormat = errors.New("malformed identifier")

// FormatError reports identifier text that does not match the canonical
// 8-4-4-4-12 grammar.
type FormatError struct {
	Text string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %q", ErrFormat, e.Text)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}
