package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact raised by a ledger aggregate. Events are collected
// on the aggregate and handed to the EventPublisher once the database
// transaction that produced them has committed.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	TenantID() uuid.UUID
}

// BaseDomainEvent is the envelope concrete events embed. The payload lives
// in the embedding struct.
type BaseDomainEvent struct {
	ID     uuid.UUID   `json:"id"`
	Type   string      `json:"type"`
	At     time.Time   `json:"occurred_at"`
	Source EventSource `json:"source"`
	Tenant uuid.UUID   `json:"tenant_id"`
}

// EventSource names the aggregate row an event is about
type EventSource struct {
	Type string    `json:"type"`
	ID   uuid.UUID `json:"id"`
}

func (e *BaseDomainEvent) EventID() uuid.UUID     { return e.ID }
func (e *BaseDomainEvent) EventType() string      { return e.Type }
func (e *BaseDomainEvent) OccurredAt() time.Time  { return e.At }
func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.Source.ID }
func (e *BaseDomainEvent) AggregateType() string  { return e.Source.Type }
func (e *BaseDomainEvent) TenantID() uuid.UUID    { return e.Tenant }

// NewBaseDomainEvent stamps a fresh event id and the current UTC time
func NewBaseDomainEvent(eventType, aggType string, aggID, tenantID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:     uuid.New(),
		Type:   eventType,
		At:     time.Now().UTC(),
		Source: EventSource{Type: aggType, ID: aggID},
		Tenant: tenantID,
	}
}
