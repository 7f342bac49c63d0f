package repository

import (
	"context"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
)

// LoadRequestRepository defines persistence operations for load requests.
type LoadRequestRepository interface {
	Create(ctx context.Context, request *domain.LoadRequest) error
	GetByID(ctx context.Context, id string) (*domain.LoadRequest, error)
	Update(ctx context.Context, request *domain.LoadRequest) error
	ListPendingByLoadID(ctx context.Context, loadID string) ([]*domain.LoadRequest, error)

	// ClearPendingForLoad marks every PENDING request for the load as
	// CLEARED, except the one being approved.
	ClearPendingForLoad(ctx context.Context, loadID, exceptID string) error
}
