package scene

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownField      = errors.New("unknown reference field")
	ErrReferenceType     = errors.New("reference has unexpected type")
	ErrHierarchyCycle    = errors.New("reparenting would create a cycle")
	ErrTransformRequired = errors.New("entity requires exactly one transform")
	ErrAlreadyAttached   = errors.New("component already attached to an entity")
	ErrNotAttached       = errors.New("component not attached to this entity")
	ErrOwnerMismatch     = errors.New("component owner does not match entity")
	ErrNilEntity         = errors.New("nil entity")
	ErrAlreadyRoot       = errors.New("entity is already a root of this scene")
	ErrDestroyed         = errors.New("object is destroyed")
	ErrNilComponent      = errors.New("nil component")
)

func unknownField(field string) error {
	return fmt.Errorf("%w: %q", ErrUnknownField, field)
}

func referenceType(field, want string, got any) error {
	return fmt.Errorf("%w: %s wants %s, got %T", ErrReferenceType, field, want, got)
}
