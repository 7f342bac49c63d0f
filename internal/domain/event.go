package domain

import "time"

// EventKind classifies a domain event.
type EventKind string

const (
	EventLoadStatusChanged   EventKind = "LOAD_STATUS_CHANGED"
	EventLoadAssigned        EventKind = "LOAD_ASSIGNED"
	EventServiceFeeDeducted  EventKind = "SERVICE_FEE_DEDUCTED"
	EventServiceFeeRefunded  EventKind = "SERVICE_FEE_REFUNDED"
	EventSettlementProcessed EventKind = "SETTLEMENT_PROCESSED"
	EventPODSubmitted        EventKind = "POD_SUBMITTED"
	EventPODVerified         EventKind = "POD_VERIFIED"
)

// DomainEvent is an append-only audit record keyed by load. Financial event
// kinds double as the idempotency guard: a SERVICE_FEE_DEDUCTED event for a
// load means the deduction already happened.
type DomainEvent struct {
	ID        string
	LoadID    string
	Kind      EventKind
	Payload   map[string]any
	CreatedAt time.Time
}
