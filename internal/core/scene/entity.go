package scene

import (
	"github.com/zeusync/scenegraph/internal/core/identity"
	"github.com/zeusync/scenegraph/internal/core/record"
	"github.com/zeusync/scenegraph/internal/core/resolver"
)

// Entity record fields.
const (
	KeyTag        = "tag"
	KeyLayer      = "layer"
	KeyActive     = "active"
	KeyComponents = "components"
)

// Entity owns exactly one Transform, which is always its first component,
// and an ordered list of further components.
type Entity struct {
	Base

	tag        string
	layer      int
	active     bool
	transform  *Transform
	components []Component
	notifier   Notifier
}

type EntityOption func(*Entity)

func WithTag(tag string) EntityOption {
	return func(e *Entity) { e.tag = tag }
}

func WithLayer(layer int) EntityOption {
	return func(e *Entity) { e.layer = layer }
}

// WithNotifier sets the lifecycle notifier for this entity and, unless they
// set their own, its descendants.
func WithNotifier(n Notifier) EntityOption {
	return func(e *Entity) { e.notifier = n }
}

// WithParent creates the entity as a child of parent.
func WithParent(parent *Entity) EntityOption {
	return func(e *Entity) {
		if parent != nil {
			e.transform.parent = parent.transform
			parent.transform.children = append(parent.transform.children, e.transform)
		}
	}
}

// NewEntity creates an active entity together with its Transform.
func NewEntity(name string, opts ...EntityOption) *Entity {
	e := &Entity{
		Base:   NewBase(name),
		active: true,
	}
	t := NewTransform()
	t.bind(e, t)
	e.transform = t
	e.components = []Component{t}

	for _, opt := range opts {
		opt(e)
	}
	e.syncEnabled(t)
	return e
}

func (e *Entity) TypeTag() string {
	return TagEntity
}

func (e *Entity) Tag() string {
	return e.tag
}

func (e *Entity) SetTag(tag string) {
	e.tag = tag
}

func (e *Entity) CompareTag(tag string) bool {
	return e.tag == tag
}

func (e *Entity) Layer() int {
	return e.layer
}

func (e *Entity) SetLayer(layer int) {
	e.layer = layer
}

func (e *Entity) SetNotifier(n Notifier) {
	e.notifier = n
}

// Transform returns the entity's hierarchy node. It is never nil.
func (e *Entity) Transform() *Transform {
	return e.transform
}

// Parent returns the parent entity, or nil for a root.
func (e *Entity) Parent() *Entity {
	if e == nil || e.transform == nil || e.transform.parent == nil {
		return nil
	}
	return e.transform.parent.owner
}

// Children returns the live child entities in order.
func (e *Entity) Children() []*Entity {
	children := e.transform.Children()
	out := make([]*Entity, 0, len(children))
	for _, t := range children {
		if t.owner != nil {
			out = append(out, t.owner)
		}
	}
	return out
}

// ActiveSelf is the entity's own active flag.
func (e *Entity) ActiveSelf() bool {
	return e.active
}

// ActiveInHierarchy is true when the entity and all of its ancestors are
// active. It is computed on every call.
func (e *Entity) ActiveInHierarchy() bool {
	for cur := e; cur != nil; cur = cur.Parent() {
		if !cur.active {
			return false
		}
	}
	return true
}

// SetActive changes the own active flag and updates the enabled state of
// components in the subtree.
func (e *Entity) SetActive(active bool) {
	if e.active == active {
		return
	}
	e.active = active
	e.Refresh()
}

// AddComponent attaches c and fires its enable notification when the entity
// is active in the hierarchy.
func (e *Entity) AddComponent(c Component) error {
	if c == nil {
		return ErrNilComponent
	}
	if !e.IsLive() || !c.IsLive() {
		return ErrDestroyed
	}
	cb := c.base()
	if cb.owner != nil {
		return ErrAlreadyAttached
	}
	if _, ok := c.(*Transform); ok {
		return ErrTransformRequired
	}
	cb.bind(e, c)
	e.components = append(e.components, c)
	e.syncEnabled(c)
	return nil
}

// RemoveComponent detaches c. The Transform cannot be removed.
func (e *Entity) RemoveComponent(c Component) error {
	if c == nil {
		return ErrNilComponent
	}
	if c == Component(e.transform) {
		return ErrTransformRequired
	}
	for i, existing := range e.components {
		if existing != c {
			continue
		}
		cb := c.base()
		if cb.enabled {
			cb.enabled = false
			if h, ok := c.(Disabler); ok {
				h.OnDisable()
			}
			if n := e.notifierInHierarchy(); n != nil {
				n.ComponentDisabled(c)
			}
		}
		e.components = append(e.components[:i], e.components[i+1:]...)
		cb.unbind()
		return nil
	}
	return ErrNotAttached
}

// Components returns the live components in insertion order, Transform
// first.
func (e *Entity) Components() []Component {
	out := make([]Component, 0, len(e.components))
	for _, c := range e.components {
		if c.IsLive() {
			out = append(out, c)
		}
	}
	return out
}

// Destroy destroys the entity, its components and its descendants.
func (e *Entity) Destroy() {
	if !e.IsLive() {
		return
	}
	for _, child := range e.transform.children {
		if child.owner != nil {
			child.owner.Destroy()
		}
	}
	n := e.notifierInHierarchy()
	for i := len(e.components) - 1; i >= 0; i-- {
		c := e.components[i]
		if !c.base().markDestroyed() {
			continue
		}
		e.syncEnabled(c)
		if h, ok := c.(Destroyer); ok {
			h.OnDestroy()
		}
		if n != nil {
			n.ObjectDestroyed(c)
		}
	}
	e.markDestroyed()
	if n != nil {
		n.ObjectDestroyed(e)
	}
}

func (e *Entity) Encode(rec *record.Record) error {
	rec.Set(KeyTag, e.tag)
	rec.Set(KeyLayer, e.layer)
	rec.Set(KeyActive, e.active)

	components := make([]identity.Identifiable, 0, len(e.components))
	for _, c := range e.components {
		components = append(components, c)
	}
	rec.SetRefs(KeyComponents, components)
	return nil
}

func (e *Entity) Decode(rec *record.Record, refs *resolver.Resolver) error {
	var err error
	if rec.Has(KeyTag) {
		if e.tag, err = rec.Text(KeyTag); err != nil {
			return err
		}
	}
	if rec.Has(KeyLayer) {
		if e.layer, err = rec.Int(KeyLayer); err != nil {
			return err
		}
	}
	if rec.Has(KeyActive) {
		if e.active, err = rec.Bool(KeyActive); err != nil {
			return err
		}
	}
	ids, err := rec.Refs(KeyComponents)
	if err != nil {
		return err
	}
	refs.AddArrayReference(e, KeyComponents, ids)
	return nil
}

func (e *Entity) SetReference(field string, _ identity.Identifiable) error {
	return unknownField(field)
}

// SetReferences replaces the component list. Exactly one Transform must be
// present; it is moved to the front and replaces the one created by
// NewEntity.
func (e *Entity) SetReferences(field string, refs []identity.Identifiable) error {
	if field != KeyComponents {
		return unknownField(field)
	}
	var transform *Transform
	rest := make([]Component, 0, len(refs))
	for _, ref := range refs {
		c, ok := ref.(Component)
		if !ok {
			return referenceType(field, "scene.Component", ref)
		}
		if owner := c.base().owner; owner != nil && owner != e {
			return ErrOwnerMismatch
		}
		if t, ok := c.(*Transform); ok {
			if transform != nil {
				return ErrTransformRequired
			}
			transform = t
			continue
		}
		rest = append(rest, c)
	}
	if transform == nil {
		return ErrTransformRequired
	}

	transform.bind(e, transform)
	e.transform = transform
	e.components = append([]Component{transform}, rest...)
	for _, c := range rest {
		c.base().bind(e, c)
	}
	return nil
}
