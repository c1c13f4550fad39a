// Package scene implements the persisted object model: identity-bearing
// objects, entities that own a Transform plus an ordered set of components,
// the Transform hierarchy, and the Scene container that owns root entities.
//
// Every variant encodes itself into a flat record.Record and decodes from one
// in two steps: scalar fields are read immediately, reference fields are
// queued on a resolver.Resolver and assigned later through SetReference /
// SetReferences.
//
// Destroying an object only flips its liveness flag. Every lookup in this
// package (components, children, roots, searches) skips destroyed objects,
// and encoders write references to them as null.
package scene

import (
	"github.com/zeusync/scenegraph/internal/core/identity"
	"github.com/zeusync/scenegraph/internal/core/record"
	"github.com/zeusync/scenegraph/internal/core/resolver"
)

// Built-in type tags.
const (
	TagEntity    = "Entity"
	TagTransform = "Transform"
)

// Object is the contract every persisted entity or component satisfies.
type Object interface {
	resolver.Patchable

	Name() string
	SetName(string)
	IsLive() bool
	Destroy()

	// TypeTag is the registry key written into the record's type field.
	TypeTag() string
	// Identity exposes the embedded Base.
	Identity() *Base

	// Encode writes scalar fields and references into rec.
	Encode(rec *record.Record) error
	// Decode reads scalar fields from rec and queues references on refs.
	Decode(rec *record.Record, refs *resolver.Resolver) error
}

// Base carries the fields shared by every object. The zero value is a live,
// unnamed object whose id is assigned on first attachment.
type Base struct {
	id        identity.ID
	name      string
	destroyed bool
}

// NewBase returns a Base with a freshly generated id.
func NewBase(name string) Base {
	return Base{id: identity.Generate(), name: name}
}

func (b *Base) ID() identity.ID {
	return b.id
}

func (b *Base) Name() string {
	return b.name
}

func (b *Base) SetName(name string) {
	b.name = name
}

func (b *Base) IsLive() bool {
	return !b.destroyed
}

func (b *Base) Identity() *Base {
	return b
}

// AdoptID replaces the generated id with one read from a record. Decoders
// call it once, before the object is registered; ids never change afterwards.
func (b *Base) AdoptID(id identity.ID) {
	b.id = id
}

// Destroy marks the object as no longer live.
func (b *Base) Destroy() {
	b.destroyed = true
}

func (b *Base) SetReference(field string, _ identity.Identifiable) error {
	return unknownField(field)
}

func (b *Base) SetReferences(field string, _ []identity.Identifiable) error {
	return unknownField(field)
}

func (b *Base) ensureID() {
	if b.id.IsEmpty() {
		b.id = identity.Generate()
	}
}

// markDestroyed reports whether this call performed the transition.
func (b *Base) markDestroyed() bool {
	if b.destroyed {
		return false
	}
	b.destroyed = true
	return true
}
