package shared

import "context"

// EventHandler consumes domain events such as return.created or
// product.restocked.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the event types the handler wants. Empty means
	// every event.
	EventTypes() []string
}

// EventPublisher is the side the application services see: after a
// state change they publish the aggregate's pending events.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber registers and removes handlers.
type EventSubscriber interface {
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is the full bus contract implemented by the in-memory bus in
// infrastructure/event.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
