package scene

import (
	"github.com/zeusync/scenegraph/internal/core/identity"
	"github.com/zeusync/scenegraph/internal/core/record"
	"github.com/zeusync/scenegraph/internal/core/resolver"
)

// KeyEntity is the record field holding a component's owner id.
const KeyEntity = "entity"

// Component is an Object attached to exactly one entity. Implementations
// embed ComponentBase.
type Component interface {
	Object
	Entity() *Entity
	Enabled() bool

	base() *ComponentBase
}

// Optional hooks a component may implement. They run on the lifecycle
// transitions driven by the owning entity.
type (
	Enabler interface {
		OnEnable()
	}
	Disabler interface {
		OnDisable()
	}
	Destroyer interface {
		OnDestroy()
	}
)

// ComponentBase is embedded by every component type. It holds the owner
// back-reference, which is non-owning.
type ComponentBase struct {
	Base

	owner   *Entity
	self    Component
	enabled bool
}

// NewComponentBase returns a ComponentBase with a fresh id.
func NewComponentBase(name string) ComponentBase {
	return ComponentBase{Base: NewBase(name)}
}

func (c *ComponentBase) Entity() *Entity {
	return c.owner
}

// Enabled reports whether the component received an enable notification
// that was not yet followed by a disable.
func (c *ComponentBase) Enabled() bool {
	return c.enabled
}

// Transform returns the owner's transform, or nil when detached.
func (c *ComponentBase) Transform() *Transform {
	if c.owner == nil {
		return nil
	}
	return c.owner.transform
}

func (c *ComponentBase) base() *ComponentBase {
	return c
}

func (c *ComponentBase) Destroy() {
	if !c.markDestroyed() {
		return
	}
	if c.self == nil {
		return
	}
	if c.owner != nil {
		c.owner.syncEnabled(c.self)
	}
	if h, ok := c.self.(Destroyer); ok {
		h.OnDestroy()
	}
	if n := c.owner.notifierInHierarchy(); n != nil {
		n.ObjectDestroyed(c.self)
	}
}

// Encode writes the owner reference. Component types call it before writing
// their own fields.
func (c *ComponentBase) Encode(rec *record.Record) error {
	rec.SetRef(KeyEntity, c.owner)
	return nil
}

// Decode queues the owner reference when the record carries one.
func (c *ComponentBase) Decode(rec *record.Record, refs *resolver.Resolver) error {
	if !rec.Has(KeyEntity) {
		return nil
	}
	id, err := rec.Ref(KeyEntity)
	if err != nil {
		return err
	}
	refs.AddReference(c, KeyEntity, id)
	return nil
}

func (c *ComponentBase) SetReference(field string, ref identity.Identifiable) error {
	if field != KeyEntity {
		return unknownField(field)
	}
	if ref == nil {
		return nil
	}
	e, ok := ref.(*Entity)
	if !ok {
		return referenceType(field, "*scene.Entity", ref)
	}
	if c.owner != nil && c.owner != e {
		return ErrOwnerMismatch
	}
	c.owner = e
	return nil
}

func (c *ComponentBase) bind(owner *Entity, self Component) {
	c.ensureID()
	c.owner = owner
	c.self = self
}

func (c *ComponentBase) unbind() {
	c.owner = nil
	c.enabled = false
}
