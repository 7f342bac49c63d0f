package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
	"github.com/DanielMD1989/freight-managment-sub009/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (id, load_id, truck_id, carrier_org_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.LoadID,
		trip.TruckID,
		trip.CarrierOrgID,
		trip.Status,
		trip.CreatedAt,
	)

	return translateError(err)
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `
		SELECT id, load_id, truck_id, carrier_org_id, status, created_at, updated_at
		FROM trips WHERE id = $1
	`

	var trip domain.Trip
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&trip.ID, &trip.LoadID, &trip.TruckID, &trip.CarrierOrgID,
		&trip.Status, &trip.CreatedAt, &trip.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &trip, nil
}

// GetByLoadID retrieves the trip for a load, or nil if none exists.
func (r *TripRepository) GetByLoadID(ctx context.Context, loadID string) (*domain.Trip, error) {
	query := `
		SELECT id, load_id, truck_id, carrier_org_id, status, created_at, updated_at
		FROM trips WHERE load_id = $1
	`

	var trip domain.Trip
	err := r.q.QueryRowContext(ctx, query, loadID).Scan(
		&trip.ID, &trip.LoadID, &trip.TruckID, &trip.CarrierOrgID,
		&trip.Status, &trip.CreatedAt, &trip.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &trip, nil
}

// UpdateStatusByLoadID updates the status of the trip derived from a load.
func (r *TripRepository) UpdateStatusByLoadID(ctx context.Context, loadID string, status domain.TripStatus) error {
	query := `UPDATE trips SET status = $1, updated_at = NOW() WHERE load_id = $2`

	result, err := r.q.ExecContext(ctx, query, status, loadID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
