// Package record defines the flat, reference-by-id representation of one
// persisted object. A Record never nests another object: every edge to
// another object is written as a canonical id string, null, or a list of id
// strings.
package record

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/zeusync/scenegraph/internal/core/identity"
)

// Reserved keys written ahead of the type-specific fields.
const (
	KeyType = "type"
	KeyID   = "id"
	KeyName = "name"
)

// Record is one object inside an envelope.
type Record struct {
	Type   string
	ID     string
	Name   string
	Fields map[string]any

	// linked collects the objects referenced through SetRef/SetRefs while
	// encoding so the traversal can pull them into the record list.
	linked []identity.Identifiable
}

// New returns an empty record for the given tag and identity.
func New(tag string, id identity.ID, name string) *Record {
	return &Record{
		Type:   tag,
		ID:     id.String(),
		Name:   name,
		Fields: make(map[string]any),
	}
}

// Identity parses the record's id.
func (r *Record) Identity() (identity.ID, error) {
	return identity.Parse(r.ID)
}

// Keys returns the type-specific field keys in sorted order.
func (r *Record) Keys() []string {
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key is present, including explicit nulls.
func (r *Record) Has(key string) bool {
	_, ok := r.Fields[key]
	return ok
}

// Lookup returns the raw value stored under key.
func (r *Record) Lookup(key string) (any, bool) {
	v, ok := r.Fields[key]
	return v, ok
}

// Set stores a scalar or tuple value. Reserved keys panic.
func (r *Record) Set(key string, value any) {
	if key == KeyType || key == KeyID || key == KeyName {
		panic(fmt.Sprintf("record: %q is a reserved key", key))
	}
	if r.Fields == nil {
		r.Fields = make(map[string]any)
	}
	r.Fields[key] = value
}

// SetRef writes a single reference as an id string, or null when target is
// nil or no longer live.
func (r *Record) SetRef(key string, target identity.Identifiable) {
	if !present(target) {
		r.Set(key, nil)
		return
	}
	r.Set(key, target.ID().String())
	r.linked = append(r.linked, target)
}

// SetRefs writes an ordered list of references. Absent or destroyed
// elements are dropped.
func (r *Record) SetRefs(key string, targets []identity.Identifiable) {
	ids := make([]string, 0, len(targets))
	for _, t := range targets {
		if !present(t) {
			continue
		}
		ids = append(ids, t.ID().String())
		r.linked = append(r.linked, t)
	}
	r.Set(key, ids)
}

// Linked returns the objects referenced by this record, in write order.
func (r *Record) Linked() []identity.Identifiable {
	return r.linked
}

// Clone returns a shallow copy of the record without its encode-side links.
func (r *Record) Clone() *Record {
	c := &Record{Type: r.Type, ID: r.ID, Name: r.Name, Fields: make(map[string]any, len(r.Fields))}
	for k, v := range r.Fields {
		c.Fields[k] = v
	}
	return c
}

type liveness interface {
	IsLive() bool
}

func present(target identity.Identifiable) bool {
	if target == nil {
		return false
	}
	if v := reflect.ValueOf(target); v.Kind() == reflect.Pointer && v.IsNil() {
		return false
	}
	if l, ok := target.(liveness); ok && !l.IsLive() {
		return false
	}
	return true
}
