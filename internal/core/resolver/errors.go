package resolver

import (
	"errors"
	"fmt"

	"github.com/zeusync/scenegraph/internal/core/identity"
)

var (
	ErrDuplicateIdentity = errors.New("duplicate identity")
	ErrDanglingReference = errors.New("dangling reference")
	ErrSpent             = errors.New("resolver already resolved; call Clear before reuse")
	ErrPatchFailed       = errors.New("reference patch rejected")
)

// DuplicateIdentityError is returned when two objects are registered under
// the same id in one session.
type DuplicateIdentityError struct {
	ID        identity.ID
	Existing  identity.Identifiable
	Duplicate identity.Identifiable
}

func (e *DuplicateIdentityError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDuplicateIdentity, e.ID)
}

func (e *DuplicateIdentityError) Is(target error) bool {
	return target == ErrDuplicateIdentity
}

// DanglingReferenceError names the id that could not be found and the
// record field that referenced it.
type DanglingReferenceError struct {
	ID     identity.ID
	Target identity.ID
	Field  string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("%s: %s (from %s.%s)", ErrDanglingReference, e.ID, e.Target, e.Field)
}

func (e *DanglingReferenceError) Is(target error) bool {
	return target == ErrDanglingReference
}

// PatchError wraps an error returned by the target while assigning a
// resolved reference, e.g. a type mismatch.
type PatchError struct {
	Target identity.ID
	Field  string
	Err    error
}

func (e *PatchError) Error() string {
	return fmt.Sprintf("%s: %s.%s: %v", ErrPatchFailed, e.Target, e.Field, e.Err)
}

func (e *PatchError) Unwrap() []error {
	return []error{ErrPatchFailed, e.Err}
}
