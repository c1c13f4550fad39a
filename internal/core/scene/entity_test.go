package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tracker struct {
	ComponentBase
	enables, disables, destroys int
}

func (p *tracker) TypeTag() string { return "Tracker" }
func (p *tracker) OnEnable()       { p.enables++ }
func (p *tracker) OnDisable()      { p.disables++ }
func (p *tracker) OnDestroy()      { p.destroys++ }

type other struct {
	ComponentBase
}

func (o *other) TypeTag() string { return "Other" }

type recorder struct {
	enabled, disabled, destroyed []string
}

func (r *recorder) ComponentEnabled(c Component)  { r.enabled = append(r.enabled, c.TypeTag()) }
func (r *recorder) ComponentDisabled(c Component) { r.disabled = append(r.disabled, c.TypeTag()) }
func (r *recorder) ObjectDestroyed(o Object)      { r.destroyed = append(r.destroyed, o.TypeTag()) }

func TestNewEntityOwnsTransform(t *testing.T) {
	e := NewEntity("P", WithTag("Player"), WithLayer(3))
	require.NotNil(t, e.Transform())
	assert.Same(t, e, e.Transform().Entity())
	assert.False(t, e.ID().IsEmpty())
	assert.NotEqual(t, e.ID(), e.Transform().ID())

	comps := e.Components()
	require.Len(t, comps, 1)
	assert.Same(t, e.Transform(), comps[0])
	assert.Equal(t, "Player", e.Tag())
	assert.True(t, e.CompareTag("Player"))
	assert.Equal(t, 3, e.Layer())
	assert.True(t, e.Transform().Enabled())
}

func TestAddComponentFiresEnableOnce(t *testing.T) {
	rec := &recorder{}
	e := NewEntity("E", WithNotifier(rec))

	p, err := Add[tracker](e)
	require.NoError(t, err)
	assert.False(t, p.ID().IsEmpty())
	assert.Same(t, e, p.Entity())
	assert.Equal(t, 1, p.enables)
	assert.True(t, p.Enabled())
	assert.Equal(t, []string{"Transform", "Tracker"}, rec.enabled)

	e.Refresh()
	assert.Equal(t, 1, p.enables)

	assert.ErrorIs(t, e.AddComponent(p), ErrAlreadyAttached)
	assert.ErrorIs(t, e.AddComponent(NewTransform()), ErrTransformRequired)
	assert.ErrorIs(t, e.AddComponent(nil), ErrNilComponent)
}

func TestAddComponentRejectsDestroyed(t *testing.T) {
	e := NewEntity("E")
	c := &other{}
	c.Destroy()

	assert.ErrorIs(t, e.AddComponent(c), ErrDestroyed)
	assert.Nil(t, c.Entity())
	assert.Len(t, e.Components(), 1)
}

func TestAddComponentOnInactiveEntityDefersEnable(t *testing.T) {
	e := NewEntity("E")
	e.SetActive(false)
	p, err := Add[tracker](e)
	require.NoError(t, err)
	assert.Zero(t, p.enables)

	e.SetActive(true)
	assert.Equal(t, 1, p.enables)
	e.SetActive(false)
	assert.Equal(t, 1, p.disables)
}

func TestActiveInHierarchyFollowsAncestors(t *testing.T) {
	root := NewEntity("root")
	mid := NewEntity("mid", WithParent(root))
	leaf := NewEntity("leaf", WithParent(mid))
	p, err := Add[tracker](leaf)
	require.NoError(t, err)

	assert.True(t, leaf.ActiveInHierarchy())
	root.SetActive(false)
	assert.False(t, leaf.ActiveInHierarchy())
	assert.True(t, leaf.ActiveSelf())
	assert.Equal(t, 1, p.disables)

	root.SetActive(true)
	assert.True(t, leaf.ActiveInHierarchy())
	assert.Equal(t, 2, p.enables)
}

func TestComponentsKeepInsertionOrderPerType(t *testing.T) {
	e := NewEntity("E")
	a, _ := Add[tracker](e)
	o, _ := Add[other](e)
	b, _ := Add[tracker](e)

	trackers := GetComponents[*tracker](e)
	require.Len(t, trackers, 2)
	assert.Same(t, a, trackers[0])
	assert.Same(t, b, trackers[1])

	first, ok := GetComponent[*tracker](e)
	require.True(t, ok)
	assert.Same(t, a, first)

	got, ok := GetComponent[*other](e)
	require.True(t, ok)
	assert.Same(t, o, got)

	tr, ok := GetComponent[*Transform](e)
	require.True(t, ok)
	assert.Same(t, e.Transform(), tr)
}

func TestRemoveComponent(t *testing.T) {
	rec := &recorder{}
	e := NewEntity("E", WithNotifier(rec))
	p, _ := Add[tracker](e)

	require.NoError(t, e.RemoveComponent(p))
	assert.Nil(t, p.Entity())
	assert.Equal(t, 1, p.disables)
	assert.Equal(t, []string{"Tracker"}, rec.disabled)
	assert.ErrorIs(t, e.RemoveComponent(p), ErrNotAttached)
	assert.ErrorIs(t, e.RemoveComponent(e.Transform()), ErrTransformRequired)
	_, ok := GetComponent[*tracker](e)
	assert.False(t, ok)
}

func TestDestroyOnlyFlipsLiveness(t *testing.T) {
	rec := &recorder{}
	parent := NewEntity("parent", WithNotifier(rec))
	child := NewEntity("child", WithParent(parent))
	p, _ := Add[tracker](child)

	child.Destroy()
	assert.False(t, child.IsLive())
	assert.False(t, p.IsLive())
	assert.Equal(t, 1, p.disables)
	assert.Equal(t, 1, p.destroys)

	// Still physically present, filtered by every lookup.
	assert.Len(t, parent.Transform().children, 1)
	assert.Empty(t, parent.Children())
	assert.Zero(t, parent.Transform().ChildCount())
	assert.Empty(t, child.Components())
	_, ok := GetComponentInChildren[*tracker](parent, true)
	assert.False(t, ok)

	assert.Contains(t, rec.destroyed, "Entity")
	assert.Contains(t, rec.destroyed, "Tracker")

	child.Destroy()
	assert.Equal(t, 1, p.destroys)
}

func TestDestroyComponentDirectly(t *testing.T) {
	e := NewEntity("E")
	p, _ := Add[tracker](e)
	p.Destroy()
	assert.Equal(t, 1, p.disables)
	assert.Equal(t, 1, p.destroys)
	assert.True(t, e.IsLive())
	_, ok := GetComponent[*tracker](e)
	assert.False(t, ok)

	e.Transform().Destroy()
	assert.False(t, e.IsLive())
}

func TestSearchInChildrenAndParent(t *testing.T) {
	root := NewEntity("root")
	a := NewEntity("a", WithParent(root))
	b := NewEntity("b", WithParent(root))
	deep := NewEntity("deep", WithParent(a))

	pb, _ := Add[tracker](b)
	pd, _ := Add[tracker](deep)

	found, ok := GetComponentInChildren[*tracker](root, false)
	require.True(t, ok)
	assert.Same(t, pd, found, "depth-first visits a's subtree before b")

	all := GetComponentsInChildren[*tracker](root, false)
	assert.Equal(t, []*tracker{pd, pb}, all)

	a.SetActive(false)
	found, ok = GetComponentInChildren[*tracker](root, false)
	require.True(t, ok)
	assert.Same(t, pb, found)
	found, ok = GetComponentInChildren[*tracker](root, true)
	require.True(t, ok)
	assert.Same(t, pd, found)

	pr, _ := Add[tracker](root)
	up, ok := GetComponentInParent[*tracker](deep, true)
	require.True(t, ok)
	assert.Same(t, pd, up, "the entity itself is searched first")

	up, ok = GetComponentInParent[*tracker](a, false)
	require.True(t, ok)
	assert.Same(t, pr, up, "inactive a is skipped, root matches")

	_, ok = GetComponentInParent[*other](deep, true)
	assert.False(t, ok)
}
