package registry

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTag     = errors.New("registry: empty type tag")
	ErrNilFactory   = errors.New("registry: nil factory")
	ErrUnknownType  = errors.New("registry: unknown type tag")
	ErrNilObject    = errors.New("factory returned nil")
	ErrNotComponent = errors.New("type is not a component")
)

// UnknownTypeError is returned when no factory is registered for a tag.
type UnknownTypeError struct {
	Tag string
	// ID is the record id being decoded, when known.
	ID string
}

func (e *UnknownTypeError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s: %q (record %s)", ErrUnknownType, e.Tag, e.ID)
	}
	return fmt.Sprintf("%s: %q", ErrUnknownType, e.Tag)
}

func (e *UnknownTypeError) Is(target error) bool {
	return target == ErrUnknownType
}

type FactoryError struct {
	Tag string
	Err error
}

func (e *FactoryError) Error() string {
	return fmt.Sprintf("registry: factory %q: %v", e.Tag, e.Err)
}

func (e *FactoryError) Unwrap() error {
	return e.Err
}
