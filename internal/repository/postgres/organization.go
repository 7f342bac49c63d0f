package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
	"github.com/DanielMD1989/freight-managment-sub009/internal/repository"
)

// OrganizationRepository is a PostgreSQL implementation of repository.OrganizationRepository.
type OrganizationRepository struct {
	q Querier
}

// NewOrganizationRepository creates a new PostgreSQL organization repository.
func NewOrganizationRepository(db *sql.DB) *OrganizationRepository {
	return &OrganizationRepository{q: db}
}

// NewOrganizationRepositoryWithTx creates an organization repository using a transaction.
func NewOrganizationRepositoryWithTx(tx *sql.Tx) *OrganizationRepository {
	return &OrganizationRepository{q: tx}
}

// Create persists a new organization.
func (r *OrganizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	query := `
		INSERT INTO organizations (id, name, commission_rate_pct, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.q.ExecContext(ctx, query, org.ID, org.Name, org.CommissionRatePct, org.CreatedAt)
	return translateError(err)
}

// GetByID retrieves an organization by ID.
func (r *OrganizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	query := `
		SELECT id, name, commission_rate_pct, created_at
		FROM organizations WHERE id = $1
	`

	var org domain.Organization
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&org.ID, &org.Name, &org.CommissionRatePct, &org.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &org, nil
}
