package resolver

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/scenegraph/internal/core/identity"
)

// node is a minimal patch target with one single and one array field.
type node struct {
	id    identity.ID
	other *node
	list  []*node
}

func newNode() *node { return &node{id: identity.Generate()} }

func (n *node) ID() identity.ID { return n.id }

func (n *node) SetReference(field string, ref identity.Identifiable) error {
	if field != "other" {
		return fmt.Errorf("unknown field %q", field)
	}
	if ref == nil {
		n.other = nil
		return nil
	}
	o, ok := ref.(*node)
	if !ok {
		return fmt.Errorf("want *node, got %T", ref)
	}
	n.other = o
	return nil
}

func (n *node) SetReferences(field string, refs []identity.Identifiable) error {
	if field != "list" {
		return fmt.Errorf("unknown field %q", field)
	}
	n.list = n.list[:0]
	for _, r := range refs {
		n.list = append(n.list, r.(*node))
	}
	return nil
}

type foreign struct{ id identity.ID }

func (f *foreign) ID() identity.ID { return f.id }

func ptr(id identity.ID) *identity.ID { return &id }

func TestResolveCycleRegardlessOfOrder(t *testing.T) {
	for _, aFirst := range []bool{true, false} {
		t.Run(fmt.Sprintf("aFirst=%v", aFirst), func(t *testing.T) {
			a, b := newNode(), newNode()
			r := New()
			order := []*node{a, b}
			if !aFirst {
				order = []*node{b, a}
			}
			for _, n := range order {
				require.NoError(t, r.Register(n.id, n))
			}
			r.AddReference(a, "other", ptr(b.id))
			r.AddReference(b, "other", ptr(a.id))
			require.Equal(t, 2, r.Pending())

			require.NoError(t, r.Resolve())
			assert.Same(t, b, a.other)
			assert.Same(t, a, b.other)
			assert.Zero(t, r.Pending())
		})
	}
}

func TestResolveNullReference(t *testing.T) {
	a := newNode()
	a.other = newNode()
	r := New()
	require.NoError(t, r.Register(a.id, a))
	r.AddReference(a, "other", nil)
	require.NoError(t, r.Resolve())
	assert.Nil(t, a.other)
}

func TestResolveArrayPreservesOrder(t *testing.T) {
	p, c1, c2, c3 := newNode(), newNode(), newNode(), newNode()
	r := New()
	for _, n := range []*node{c3, p, c1, c2} {
		require.NoError(t, r.Register(n.id, n))
	}
	r.AddArrayReference(p, "list", []identity.ID{c2.id, c1.id, c3.id})
	require.NoError(t, r.Resolve())
	assert.Equal(t, []*node{c2, c1, c3}, p.list)
}

func TestDanglingReference(t *testing.T) {
	missing := identity.MustParse("00000000-0000-0000-0000-0000000000ff")
	a := newNode()
	r := New()
	require.NoError(t, r.Register(a.id, a))
	r.AddReference(a, "other", ptr(missing))

	err := r.Resolve()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDanglingReference))
	assert.Contains(t, err.Error(), missing.String())

	var de *DanglingReferenceError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, missing, de.ID)
	assert.Equal(t, a.id, de.Target)
	assert.Equal(t, "other", de.Field)
}

func TestDanglingArrayElementFailsWholeResolve(t *testing.T) {
	p, c := newNode(), newNode()
	missing := identity.Generate()
	r := New()
	require.NoError(t, r.Register(p.id, p))
	require.NoError(t, r.Register(c.id, c))
	r.AddArrayReference(p, "list", []identity.ID{c.id, missing})

	err := r.Resolve()
	require.True(t, errors.Is(err, ErrDanglingReference))
	assert.Empty(t, p.list)
}

func TestDuplicateIdentity(t *testing.T) {
	id := identity.Generate()
	r := New()
	require.NoError(t, r.Register(id, &node{id: id}))

	err := r.Register(id, &node{id: id})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateIdentity))

	var de *DuplicateIdentityError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, id, de.ID)
	assert.Equal(t, 1, r.Len())
}

func TestOmittedIdsResolveToAbsent(t *testing.T) {
	p, c := newNode(), newNode()
	skipped := identity.Generate()
	r := New()
	require.NoError(t, r.Register(p.id, p))
	require.NoError(t, r.Register(c.id, c))
	r.Omit(skipped)
	r.AddReference(p, "other", ptr(skipped))
	r.AddArrayReference(p, "list", []identity.ID{skipped, c.id})

	require.NoError(t, r.Resolve())
	assert.Nil(t, p.other)
	assert.Equal(t, []*node{c}, p.list)
}

func TestPatchErrorFromTarget(t *testing.T) {
	a := newNode()
	f := &foreign{id: identity.Generate()}
	r := New()
	require.NoError(t, r.Register(a.id, a))
	require.NoError(t, r.Register(f.id, f))
	r.AddReference(a, "other", ptr(f.id))

	err := r.Resolve()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPatchFailed))
}

func TestSpentUntilClear(t *testing.T) {
	a := newNode()
	r := New()
	require.NoError(t, r.Register(a.id, a))
	require.NoError(t, r.Resolve())

	assert.ErrorIs(t, r.Resolve(), ErrSpent)
	assert.ErrorIs(t, r.Register(identity.Generate(), newNode()), ErrSpent)

	r.Clear()
	assert.Zero(t, r.Len())
	_, ok := r.Lookup(a.id)
	assert.False(t, ok)
	require.NoError(t, r.Register(a.id, a))
	require.NoError(t, r.Resolve())
}
