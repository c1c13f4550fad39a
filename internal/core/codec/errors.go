package codec

import (
	"errors"
	"fmt"
)

var (
	ErrParse           = errors.New("codec: malformed envelope")
	ErrVersionMismatch = errors.New("codec: unsupported envelope version")
	ErrKindMismatch    = errors.New("codec: unexpected envelope kind")
	ErrInvalidRoot     = errors.New("codec: invalid root")
	ErrUnknownFormat   = errors.New("codec: unknown format")
	ErrDuplicateObject = errors.New("codec: two objects share an id")
	ErrUnencodable     = errors.New("codec: referenced value is not a scene object")
	ErrNilRoot         = errors.New("codec: nil root")

	ErrHierarchyMismatch = errors.New("codec: parent and children links disagree")
)

// ParseError wraps a text-level failure of the given format.
type ParseError struct {
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrParse, e.Format, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// VersionMismatchError is returned before any object is constructed.
type VersionMismatchError struct {
	Got  string
	Want string
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("%s: got %q, want %q", ErrVersionMismatch, e.Got, e.Want)
}

func (e *VersionMismatchError) Is(target error) bool {
	return target == ErrVersionMismatch
}

// RecordError locates a failure at one record of the input.
type RecordError struct {
	Index int
	ID    string
	Type  string
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("codec: record %d (%s %s): %v", e.Index, e.Type, e.ID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// RootError reports a declared root id that is missing or not an entity.
type RootError struct {
	ID  string
	Err error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("%s %s: %v", ErrInvalidRoot, e.ID, e.Err)
}

func (e *RootError) Unwrap() []error {
	return []error{ErrInvalidRoot, e.Err}
}
