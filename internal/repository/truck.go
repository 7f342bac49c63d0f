package repository

import (
	"context"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
)

// TruckRepository defines persistence operations for trucks.
type TruckRepository interface {
	Create(ctx context.Context, truck *domain.Truck) error
	GetByID(ctx context.Context, id string) (*domain.Truck, error)
}
