package codec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/scenegraph/internal/core/identity"
	"github.com/zeusync/scenegraph/internal/core/record"
	"github.com/zeusync/scenegraph/internal/core/registry"
	"github.com/zeusync/scenegraph/internal/core/resolver"
	"github.com/zeusync/scenegraph/internal/core/scene"
	"github.com/zeusync/scenegraph/internal/core/vecmath"
)

type health struct {
	scene.ComponentBase
	hp float64
}

func newHealth(hp float64) *health {
	return &health{ComponentBase: scene.NewComponentBase("health"), hp: hp}
}

func (h *health) TypeTag() string { return "Health" }

func (h *health) Encode(rec *record.Record) error {
	if err := h.ComponentBase.Encode(rec); err != nil {
		return err
	}
	rec.Set("hp", h.hp)
	return nil
}

func (h *health) Decode(rec *record.Record, refs *resolver.Resolver) error {
	if err := h.ComponentBase.Decode(rec, refs); err != nil {
		return err
	}
	hp, err := rec.Float("hp")
	if err != nil {
		return err
	}
	h.hp = hp
	return nil
}

// follower points at another entity anywhere in the graph.
type follower struct {
	scene.ComponentBase
	target *scene.Entity
}

func (f *follower) TypeTag() string { return "Follower" }

func (f *follower) Encode(rec *record.Record) error {
	if err := f.ComponentBase.Encode(rec); err != nil {
		return err
	}
	rec.SetRef("target", f.target)
	return nil
}

func (f *follower) Decode(rec *record.Record, refs *resolver.Resolver) error {
	if err := f.ComponentBase.Decode(rec, refs); err != nil {
		return err
	}
	id, err := rec.Ref("target")
	if err != nil {
		return err
	}
	refs.AddReference(f, "target", id)
	return nil
}

func (f *follower) SetReference(field string, ref identity.Identifiable) error {
	if field != "target" {
		return f.ComponentBase.SetReference(field, ref)
	}
	if ref == nil {
		f.target = nil
		return nil
	}
	e, ok := ref.(*scene.Entity)
	if !ok {
		return scene.ErrReferenceType
	}
	f.target = e
	return nil
}

type recorder struct {
	enabled   []string
	disabled  []string
	destroyed []string
}

func (r *recorder) ComponentEnabled(c scene.Component)  { r.enabled = append(r.enabled, c.TypeTag()) }
func (r *recorder) ComponentDisabled(c scene.Component) { r.disabled = append(r.disabled, c.TypeTag()) }
func (r *recorder) ObjectDestroyed(o scene.Object)      { r.destroyed = append(r.destroyed, o.TypeTag()) }

func testRegistry(t testing.TB) *registry.Registry {
	t.Helper()
	r := registry.New()
	require.NoError(t, r.RegisterFunc("Health", func() scene.Object { return &health{} }))
	require.NoError(t, r.RegisterFunc("Follower", func() scene.Object { return &follower{} }))
	return r
}

// world builds:
//
//	player (Health 100)
//	  weapon
//	    muzzle
//	camera (Follower -> player)
func world(t testing.TB) (*scene.Scene, map[string]*scene.Entity) {
	t.Helper()
	s := scene.NewScene("level", scene.WithPath("scenes/level.json"), scene.WithBuildIndex(3))

	player := scene.NewEntity("player", scene.WithTag("Player"), scene.WithLayer(8))
	require.NoError(t, player.AddComponent(newHealth(100)))
	player.Transform().SetLocalPosition(vec(1, 2, 3))

	weapon := scene.NewEntity("weapon", scene.WithParent(player))
	muzzle := scene.NewEntity("muzzle", scene.WithParent(weapon))

	camera := scene.NewEntity("camera")
	require.NoError(t, camera.AddComponent(&follower{ComponentBase: scene.NewComponentBase("follow"), target: player}))

	require.NoError(t, s.AddRoot(player))
	require.NoError(t, s.AddRoot(camera))

	return s, map[string]*scene.Entity{
		"player": player,
		"weapon": weapon,
		"muzzle": muzzle,
		"camera": camera,
	}
}

func roundTrip(t testing.TB, s *scene.Scene, opts ...Option) *scene.Scene {
	t.Helper()
	data, err := NewEncoder(opts...).EncodeScene(ctx(), s)
	require.NoError(t, err)
	out, err := NewDecoder(append([]Option{WithRegistry(testRegistry(t))}, opts...)...).DecodeScene(ctx(), data)
	require.NoError(t, err)
	return out
}

func types(records []*record.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Type
	}
	return out
}

func vec(x, y, z float64) vecmath.Vector3 {
	return vecmath.Vector3{X: x, Y: y, Z: z}
}

func ctx() context.Context {
	return context.Background()
}
