// Package resolver implements the two-phase construct-then-wire protocol used
// to rebuild object graphs that contain cycles.
//
// Phase 1: every object is constructed in isolation and registered under its
// id; reference fields are queued instead of assigned. Phase 2 (Resolve)
// patches every queued edge. Because nothing is wired until every object of
// the batch exists, the order of records does not affect correctness.
//
// A Resolver serves exactly one decode and is not safe for concurrent use.
package resolver

import (
	"github.com/zeusync/scenegraph/internal/core/identity"
	"github.com/zeusync/scenegraph/internal/core/observability/log"
)

// Patchable is an object whose reference fields can be assigned after
// construction. A nil ref means the absent value.
type Patchable interface {
	identity.Identifiable
	SetReference(field string, ref identity.Identifiable) error
	SetReferences(field string, refs []identity.Identifiable) error
}

type patch struct {
	target Patchable
	field  string
	id     *identity.ID
}

type arrayPatch struct {
	target Patchable
	field  string
	ids    []identity.ID
}

type Resolver struct {
	objects map[identity.ID]identity.Identifiable
	omitted map[identity.ID]struct{}
	singles []patch
	arrays  []arrayPatch
	spent   bool
	logger  log.Log
}

type Option func(*Resolver)

// WithLogger sets the logger used for debug diagnostics.
func WithLogger(l log.Log) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

func New(opts ...Option) *Resolver {
	r := &Resolver{
		objects: make(map[identity.ID]identity.Identifiable),
		omitted: make(map[identity.ID]struct{}),
		logger:  log.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds obj to the id table.
func (r *Resolver) Register(id identity.ID, obj identity.Identifiable) error {
	if r.spent {
		return ErrSpent
	}
	if existing, ok := r.objects[id]; ok {
		return &DuplicateIdentityError{ID: id, Existing: existing, Duplicate: obj}
	}
	r.objects[id] = obj
	return nil
}

// Omit records that id belonged to a record that was deliberately skipped.
// References to it resolve to the absent value instead of failing.
func (r *Resolver) Omit(id identity.ID) {
	r.omitted[id] = struct{}{}
}

// AddReference queues a single-valued edge. A nil id resolves to absent.
func (r *Resolver) AddReference(target Patchable, field string, id *identity.ID) {
	if id != nil {
		cp := *id
		id = &cp
	}
	r.singles = append(r.singles, patch{target: target, field: field, id: id})
}

// AddArrayReference queues an ordered list of edges.
func (r *Resolver) AddArrayReference(target Patchable, field string, ids []identity.ID) {
	r.arrays = append(r.arrays, arrayPatch{
		target: target,
		field:  field,
		ids:    append([]identity.ID(nil), ids...),
	})
}

// Lookup returns the object registered under id.
func (r *Resolver) Lookup(id identity.ID) (identity.Identifiable, bool) {
	obj, ok := r.objects[id]
	return obj, ok
}

// Len is the number of registered objects.
func (r *Resolver) Len() int {
	return len(r.objects)
}

// Pending is the number of queued patches (single plus array).
func (r *Resolver) Pending() int {
	return len(r.singles) + len(r.arrays)
}

// Resolve applies every queued patch. On failure the queues are still
// dropped; the caller must discard the partially wired objects.
func (r *Resolver) Resolve() error {
	if r.spent {
		return ErrSpent
	}
	r.spent = true
	defer func() {
		r.singles = nil
		r.arrays = nil
	}()

	for _, p := range r.singles {
		var ref identity.Identifiable
		if p.id != nil {
			obj, err := r.find(*p.id, p.target, p.field)
			if err != nil {
				return err
			}
			ref = obj
		}
		if err := p.target.SetReference(p.field, ref); err != nil {
			return &PatchError{Target: p.target.ID(), Field: p.field, Err: err}
		}
	}

	for _, p := range r.arrays {
		refs := make([]identity.Identifiable, 0, len(p.ids))
		for _, id := range p.ids {
			obj, err := r.find(id, p.target, p.field)
			if err != nil {
				return err
			}
			if obj == nil {
				continue
			}
			refs = append(refs, obj)
		}
		if err := p.target.SetReferences(p.field, refs); err != nil {
			return &PatchError{Target: p.target.ID(), Field: p.field, Err: err}
		}
	}

	r.logger.Debug("references resolved",
		log.Int("objects", len(r.objects)),
		log.Int("single", len(r.singles)),
		log.Int("array", len(r.arrays)),
	)
	return nil
}

// Clear drops the id table, queued patches and omissions so the resolver
// can serve another session.
func (r *Resolver) Clear() {
	r.objects = make(map[identity.ID]identity.Identifiable)
	r.omitted = make(map[identity.ID]struct{})
	r.singles = nil
	r.arrays = nil
	r.spent = false
}

// find returns (nil, nil) for omitted ids.
func (r *Resolver) find(id identity.ID, target Patchable, field string) (identity.Identifiable, error) {
	if obj, ok := r.objects[id]; ok {
		return obj, nil
	}
	if _, ok := r.omitted[id]; ok {
		return nil, nil
	}
	return nil, &DanglingReferenceError{ID: id, Target: target.ID(), Field: field}
}
