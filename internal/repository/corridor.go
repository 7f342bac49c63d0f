package repository

import (
	"context"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
)

// CorridorRepository defines persistence operations for corridors.
type CorridorRepository interface {
	Create(ctx context.Context, corridor *domain.Corridor) error
	GetByID(ctx context.Context, id string) (*domain.Corridor, error)
}
