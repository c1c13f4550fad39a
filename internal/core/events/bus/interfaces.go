package bus

import "time"

// EventBus is an in-process pub/sub bus used to fan out scene lifecycle
// notifications.
//
// Key characteristics:
// - Type-based fan-out: handlers subscribe by Event.Type() string.
// - Synchronous delivery in subscription order, in the publisher's goroutine.
// - Error aggregation: handler errors are joined and returned from Publish.
// - Optional observers receive per-delivery callbacks and drive the metrics.
type EventBus interface {
	// Publish delivers the event to every active subscriber of event.Type().
	Publish(event Event) error
	// PublishWithFilters drops the event silently if any filter rejects it.
	PublishWithFilters(event Event, filters ...EventFilter) error
	// Subscribe registers a handler for an event type. The empty type
	// subscribes to every event.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. Nil is a no-op.
	Unsubscribe(Subscription) error

	AddObserver(obs Observer)
	RemoveObserver(obs Observer)
	// GetMetrics returns a snapshot; counters only move while an observer is
	// registered.
	GetMetrics() Metrics
}

// Event is an immutable message transported by the bus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

type (
	EventHandler func(event Event) error
	EventFilter  func(event Event) bool
)

// Subscription is a handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// Observer is notified about deliveries. Observers should return quickly.
type Observer interface {
	OnPublish(eventType string, event Event)
	OnDelivered(eventType string, handlers int, err error, duration time.Duration)
}

type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	DroppedByFilters  uint64
	SubscribersActive uint64
}
