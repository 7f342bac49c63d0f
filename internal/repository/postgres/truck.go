package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
	"github.com/DanielMD1989/freight-managment-sub009/internal/repository"
)

// TruckRepository is a PostgreSQL implementation of repository.TruckRepository.
type TruckRepository struct {
	q Querier
}

// NewTruckRepository creates a new PostgreSQL truck repository.
func NewTruckRepository(db *sql.DB) *TruckRepository {
	return &TruckRepository{q: db}
}

// NewTruckRepositoryWithTx creates a truck repository using a transaction.
func NewTruckRepositoryWithTx(tx *sql.Tx) *TruckRepository {
	return &TruckRepository{q: tx}
}

// Create persists a new truck.
func (r *TruckRepository) Create(ctx context.Context, truck *domain.Truck) error {
	query := `
		INSERT INTO trucks (id, carrier_org_id, plate, active, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.ExecContext(ctx, query,
		truck.ID, truck.CarrierOrgID, truck.Plate, truck.Active, truck.CreatedAt,
	)

	return translateError(err)
}

// GetByID retrieves a truck by ID.
func (r *TruckRepository) GetByID(ctx context.Context, id string) (*domain.Truck, error) {
	query := `
		SELECT id, carrier_org_id, plate, active, created_at
		FROM trucks WHERE id = $1
	`

	var truck domain.Truck
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&truck.ID, &truck.CarrierOrgID, &truck.Plate, &truck.Active, &truck.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &truck, nil
}
