// Package lifecycle publishes scene lifecycle transitions on an event bus.
package lifecycle

import (
	"github.com/zeusync/scenegraph/internal/core/events/bus"
	"github.com/zeusync/scenegraph/internal/core/identity"
	"github.com/zeusync/scenegraph/internal/core/observability/log"
	"github.com/zeusync/scenegraph/internal/core/scene"
)

// Event types published by Publisher.
const (
	ComponentEnabled  = "component.enabled"
	ComponentDisabled = "component.disabled"
	ObjectDestroyed   = "object.destroyed"
)

// Payload is the Data of every lifecycle event.
type Payload struct {
	Object scene.Object
	ID     identity.ID
	Type   string
	// Entity is the owning entity id for components, the entity itself
	// otherwise.
	Entity identity.ID
}

var _ scene.Notifier = (*Publisher)(nil)

// Publisher adapts an EventBus to scene.Notifier. Handler errors are logged,
// never returned to the scene.
type Publisher struct {
	bus    bus.EventBus
	source string
	logger log.Log
}

func NewPublisher(b bus.EventBus, source string, logger log.Log) *Publisher {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Publisher{bus: b, source: source, logger: logger}
}

func (p *Publisher) ComponentEnabled(c scene.Component) {
	p.publish(ComponentEnabled, c)
}

func (p *Publisher) ComponentDisabled(c scene.Component) {
	p.publish(ComponentDisabled, c)
}

func (p *Publisher) ObjectDestroyed(o scene.Object) {
	p.publish(ObjectDestroyed, o)
}

func (p *Publisher) publish(eventType string, o scene.Object) {
	payload := Payload{Object: o, ID: o.ID(), Type: o.TypeTag(), Entity: o.ID()}
	if c, ok := o.(scene.Component); ok && c.Entity() != nil {
		payload.Entity = c.Entity().ID()
	}
	if err := p.bus.Publish(bus.NewEvent(eventType, p.source, payload)); err != nil {
		p.logger.Warn("lifecycle handler failed",
			log.String("event", eventType),
			log.Stringer("id", payload.ID),
			log.Error(err),
		)
	}
}
