package scene

import (
	"github.com/zeusync/scenegraph/internal/core/identity"
	"github.com/zeusync/scenegraph/internal/core/record"
	"github.com/zeusync/scenegraph/internal/core/resolver"
	"github.com/zeusync/scenegraph/internal/core/vecmath"
)

// Transform record fields.
const (
	KeyLocalPosition = "localPosition"
	KeyLocalRotation = "localRotation"
	KeyLocalScale    = "localScale"
	KeyParent        = "parent"
	KeyChildren      = "children"
)

// Transform is the hierarchy node owned by every entity. Its parent and
// children references are non-owning.
type Transform struct {
	ComponentBase

	localPosition vecmath.Vector3
	localRotation vecmath.Quaternion
	localScale    vecmath.Vector3

	parent   *Transform
	children []*Transform
}

// NewTransform returns a detached identity transform. Entities create their
// own; this is used by the registry factory.
func NewTransform() *Transform {
	return &Transform{
		ComponentBase: NewComponentBase(""),
		localRotation: vecmath.Identity,
		localScale:    vecmath.One3,
	}
}

func (t *Transform) TypeTag() string {
	return TagTransform
}

func (t *Transform) LocalPosition() vecmath.Vector3    { return t.localPosition }
func (t *Transform) LocalRotation() vecmath.Quaternion { return t.localRotation }
func (t *Transform) LocalScale() vecmath.Vector3       { return t.localScale }

func (t *Transform) SetLocalPosition(v vecmath.Vector3)    { t.localPosition = v }
func (t *Transform) SetLocalRotation(q vecmath.Quaternion) { t.localRotation = q }
func (t *Transform) SetLocalScale(v vecmath.Vector3)       { t.localScale = v }

// Parent returns the parent node, or nil.
func (t *Transform) Parent() *Transform {
	return t.parent
}

// Children returns the children whose entities are live, in order.
func (t *Transform) Children() []*Transform {
	out := make([]*Transform, 0, len(t.children))
	for _, c := range t.children {
		if c.IsLive() && (c.owner == nil || c.owner.IsLive()) {
			out = append(out, c)
		}
	}
	return out
}

func (t *Transform) ChildCount() int {
	return len(t.Children())
}

// Child returns the i-th live child.
func (t *Transform) Child(i int) (*Transform, bool) {
	children := t.Children()
	if i < 0 || i >= len(children) {
		return nil, false
	}
	return children[i], true
}

// Root returns the topmost ancestor, or t itself.
func (t *Transform) Root() *Transform {
	cur := t
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// IsChildOf reports whether ancestor is a strict ancestor of t.
func (t *Transform) IsChildOf(ancestor *Transform) bool {
	if ancestor == nil {
		return false
	}
	for cur := t.parent; cur != nil; cur = cur.parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// SetParent detaches t from its current parent and appends it to the
// children of parent (nil makes t a root). Moving a node under itself or
// one of its descendants fails with ErrHierarchyCycle and changes nothing.
func (t *Transform) SetParent(parent *Transform) error {
	if parent == t || (parent != nil && parent.IsChildOf(t)) {
		return ErrHierarchyCycle
	}
	if parent == t.parent {
		return nil
	}
	if t.parent != nil {
		t.parent.removeChild(t)
	}
	t.parent = parent
	if parent != nil {
		parent.children = append(parent.children, t)
	}
	if t.owner != nil {
		t.owner.Refresh()
	}
	return nil
}

// Destroy destroys the owning entity; a transform cannot outlive it.
func (t *Transform) Destroy() {
	if t.owner != nil {
		t.owner.Destroy()
		return
	}
	t.ComponentBase.Destroy()
}

func (t *Transform) Encode(rec *record.Record) error {
	if err := t.ComponentBase.Encode(rec); err != nil {
		return err
	}
	rec.Set(KeyLocalPosition, t.localPosition.Tuple())
	rec.Set(KeyLocalRotation, t.localRotation.Tuple())
	rec.Set(KeyLocalScale, t.localScale.Tuple())
	rec.SetRef(KeyParent, t.parent)

	children := make([]identity.Identifiable, 0, len(t.children))
	for _, c := range t.children {
		if c.owner != nil && !c.owner.IsLive() {
			continue
		}
		children = append(children, c)
	}
	rec.SetRefs(KeyChildren, children)
	return nil
}

func (t *Transform) Decode(rec *record.Record, refs *resolver.Resolver) error {
	if err := t.ComponentBase.Decode(rec, refs); err != nil {
		return err
	}
	if rec.Has(KeyLocalPosition) {
		v, err := decodeVector(rec, KeyLocalPosition)
		if err != nil {
			return err
		}
		t.localPosition = v
	}
	if rec.Has(KeyLocalRotation) {
		tuple, err := rec.Floats(KeyLocalRotation)
		if err != nil {
			return err
		}
		q, err := vecmath.QuaternionFromTuple(tuple)
		if err != nil {
			return &record.FieldError{Record: rec.ID, Key: KeyLocalRotation, Err: err}
		}
		t.localRotation = q
	}
	if rec.Has(KeyLocalScale) {
		v, err := decodeVector(rec, KeyLocalScale)
		if err != nil {
			return err
		}
		t.localScale = v
	}

	if rec.Has(KeyParent) {
		parent, err := rec.Ref(KeyParent)
		if err != nil {
			return err
		}
		refs.AddReference(t, KeyParent, parent)
	}
	if rec.Has(KeyChildren) {
		children, err := rec.Refs(KeyChildren)
		if err != nil {
			return err
		}
		refs.AddArrayReference(t, KeyChildren, children)
	}
	return nil
}

func (t *Transform) SetReference(field string, ref identity.Identifiable) error {
	if field != KeyParent {
		return t.ComponentBase.SetReference(field, ref)
	}
	if ref == nil {
		t.parent = nil
		return nil
	}
	p, ok := ref.(*Transform)
	if !ok {
		return referenceType(field, "*scene.Transform", ref)
	}
	t.parent = p
	return nil
}

func (t *Transform) SetReferences(field string, refs []identity.Identifiable) error {
	if field != KeyChildren {
		return unknownField(field)
	}
	children := make([]*Transform, 0, len(refs))
	for _, ref := range refs {
		c, ok := ref.(*Transform)
		if !ok {
			return referenceType(field, "*scene.Transform", ref)
		}
		children = append(children, c)
	}
	t.children = children
	return nil
}

func (t *Transform) removeChild(child *Transform) {
	for i, c := range t.children {
		if c == child {
			t.children = append(t.children[:i], t.children[i+1:]...)
			return
		}
	}
}

func decodeVector(rec *record.Record, key string) (vecmath.Vector3, error) {
	tuple, err := rec.Floats(key)
	if err != nil {
		return vecmath.Vector3{}, err
	}
	v, err := vecmath.Vector3FromTuple(tuple)
	if err != nil {
		return vecmath.Vector3{}, &record.FieldError{Record: rec.ID, Key: key, Err: err}
	}
	return v, nil
}
