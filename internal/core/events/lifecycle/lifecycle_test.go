package lifecycle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/scenegraph/internal/core/events/bus"
	"github.com/zeusync/scenegraph/internal/core/observability/log"
	"github.com/zeusync/scenegraph/internal/core/scene"
)

type marker struct {
	scene.ComponentBase
}

func (m *marker) TypeTag() string { return "Marker" }

func collect(t *testing.T, b bus.EventBus) *[]bus.Event {
	t.Helper()
	var events []bus.Event
	_, err := b.Subscribe(bus.AnyEvent, func(ev bus.Event) error {
		events = append(events, ev)
		return nil
	})
	require.NoError(t, err)
	return &events
}

func TestPublisherForwardsTransitions(t *testing.T) {
	b := bus.New()
	events := collect(t, b)
	p := NewPublisher(b, "level", nil)

	root := scene.NewEntity("root", scene.WithNotifier(p))
	m := &marker{}
	require.NoError(t, root.AddComponent(m))
	root.SetActive(false)
	root.Destroy()

	var kinds []string
	for _, ev := range *events {
		assert.Equal(t, "level", ev.Source())
		kinds = append(kinds, ev.Type())
	}
	assert.Equal(t, []string{
		ComponentEnabled, ComponentEnabled,
		ComponentDisabled, ComponentDisabled,
		ObjectDestroyed, ObjectDestroyed, ObjectDestroyed,
	}, kinds)

	first := (*events)[1].Data().(Payload)
	assert.Equal(t, m.ID(), first.ID)
	assert.Equal(t, "Marker", first.Type)
	assert.Equal(t, root.ID(), first.Entity)

	last := (*events)[len(*events)-1].Data().(Payload)
	assert.Equal(t, root.ID(), last.ID)
	assert.Equal(t, root.ID(), last.Entity)
	assert.Equal(t, scene.TagEntity, last.Type)
}

func TestPublisherLogsHandlerErrors(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	b := bus.New()
	_, err := b.Subscribe(ComponentEnabled, func(bus.Event) error {
		return errors.New("boom")
	})
	require.NoError(t, err)

	p := NewPublisher(b, "level", log.FromZap(zap.New(core), log.LevelDebug))
	e := scene.NewEntity("e", scene.WithNotifier(p))
	require.NoError(t, e.AddComponent(&marker{}))

	entries := logs.FilterMessage("lifecycle handler failed").All()
	// Transform on creation, then the marker.
	require.Len(t, entries, 2)
	assert.Equal(t, ComponentEnabled, entries[1].ContextMap()["event"])
}
