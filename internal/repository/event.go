package repository

import (
	"context"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
)

// EventRepository defines persistence operations for domain events.
type EventRepository interface {
	Record(ctx context.Context, event *domain.DomainEvent) error

	// Exists reports whether an event of the given kind was already
	// recorded for the load. This is the idempotency-guard read for
	// financial side effects.
	Exists(ctx context.Context, loadID string, kind domain.EventKind) (bool, error)

	ListByLoadID(ctx context.Context, loadID string) ([]*domain.DomainEvent, error)
}
