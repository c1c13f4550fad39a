package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/scenegraph/internal/core/scene"
)

type health struct {
	scene.ComponentBase
	variant int
}

func (h *health) TypeTag() string { return "Health" }

func TestBuiltinsAlwaysPresent(t *testing.T) {
	r := New()
	assert.True(t, r.Has(scene.TagEntity))
	assert.True(t, r.Has(scene.TagTransform))
	assert.Equal(t, []string{"Entity", "Transform"}, r.Tags())

	obj, err := r.Construct(scene.TagEntity)
	require.NoError(t, err)
	e, ok := obj.(*scene.Entity)
	require.True(t, ok)
	assert.NotNil(t, e.Transform())
}

func TestRegisterLastWriteWins(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterFunc("Health", func() scene.Object { return &health{variant: 1} }))
	require.NoError(t, r.RegisterFunc("Health", func() scene.Object { return &health{variant: 2} }))

	obj, err := r.Construct("Health")
	require.NoError(t, err)
	assert.Equal(t, 2, obj.(*health).variant)
}

func TestRegisterValidation(t *testing.T) {
	r := New()
	assert.ErrorIs(t, r.Register("", FactoryFunc(func() scene.Object { return nil })), ErrEmptyTag)
	assert.ErrorIs(t, r.Register("X", nil), ErrNilFactory)
	assert.ErrorIs(t, r.RegisterFunc("X", nil), ErrNilFactory)
}

func TestConstructUnknownAndNil(t *testing.T) {
	r := New()
	_, err := r.Construct("Ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownType))
	var ue *UnknownTypeError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "Ghost", ue.Tag)

	require.NoError(t, r.RegisterFunc("Nil", func() scene.Object { return nil }))
	_, err = r.Construct("Nil")
	assert.ErrorIs(t, err, ErrNilObject)
}

func TestResetToBuiltins(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterFunc("Health", func() scene.Object { return &health{} }))
	require.NoError(t, r.RegisterFunc(scene.TagTransform, func() scene.Object { return &health{} }))

	r.ResetToBuiltins()
	assert.False(t, r.Has("Health"))
	assert.True(t, r.Has(scene.TagEntity))

	obj, err := r.Construct(scene.TagTransform)
	require.NoError(t, err)
	_, ok := obj.(*scene.Transform)
	assert.True(t, ok, "overridden built-in restored")
}

func TestAttach(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterFunc("Health", func() scene.Object {
		return &health{ComponentBase: scene.NewComponentBase("hp")}
	}))

	e := scene.NewEntity("E")
	c, err := r.Attach(e, "Health")
	require.NoError(t, err)
	assert.Same(t, e, c.Entity())
	assert.Len(t, e.Components(), 2)

	_, err = r.Attach(e, scene.TagEntity)
	assert.ErrorIs(t, err, ErrNotComponent)
	_, err = r.Attach(e, "Ghost")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestDefaultIsSingleton(t *testing.T) {
	assert.Same(t, Default(), Default())
	assert.True(t, Default().Has(scene.TagEntity))
}
