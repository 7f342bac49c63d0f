package repository

import (
	"context"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
)

// TripRepository defines persistence operations for trips.
type TripRepository interface {
	Create(ctx context.Context, trip *domain.Trip) error
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// GetByLoadID returns the trip derived from the load, or nil if the
	// load was never assigned.
	GetByLoadID(ctx context.Context, loadID string) (*domain.Trip, error)

	UpdateStatusByLoadID(ctx context.Context, loadID string, status domain.TripStatus) error
}
