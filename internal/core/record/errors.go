package record

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField = errors.New("missing field")
	ErrFieldType    = errors.New("field has wrong type")
	ErrMalformed    = errors.New("malformed record")
)

// FieldError points at the record and key that failed to decode.
type FieldError struct {
	Record string
	Key    string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("record %s: field %q: %v", e.Record, e.Key, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
