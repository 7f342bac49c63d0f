package repository

import (
	"context"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
)

// OrganizationRepository defines persistence operations for organizations.
type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
}
