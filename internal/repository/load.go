package repository

import (
	"context"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
)

// LoadRepository defines persistence operations for loads.
type LoadRepository interface {
	Create(ctx context.Context, load *domain.Load) error
	GetByID(ctx context.Context, id string) (*domain.Load, error)
	Update(ctx context.Context, load *domain.Load) error
	GetAll(ctx context.Context) ([]*domain.Load, error)

	// GetActiveByTruckID returns the load the truck is currently committed
	// to (assigned and not in a terminal status), or nil if none.
	GetActiveByTruckID(ctx context.Context, truckID string) (*domain.Load, error)
}
