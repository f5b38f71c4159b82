package shared

import "context"

// EventHandler reacts to published events. The low-stock alert writer and
// the ledger metrics recorder are the in-tree handlers.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the types the handler wants; empty means every type
	EventTypes() []string
}

// EventPublisher is what services depend on. Publish is called after commit;
// a handler error is never returned to the publisher.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus is an EventPublisher that also owns the handler lifecycle
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
