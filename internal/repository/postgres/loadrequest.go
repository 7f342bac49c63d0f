package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
	"github.com/DanielMD1989/freight-managment-sub009/internal/repository"
)

// LoadRequestRepository is a PostgreSQL implementation of repository.LoadRequestRepository.
type LoadRequestRepository struct {
	q Querier
}

// NewLoadRequestRepository creates a new PostgreSQL load request repository.
func NewLoadRequestRepository(db *sql.DB) *LoadRequestRepository {
	return &LoadRequestRepository{q: db}
}

// NewLoadRequestRepositoryWithTx creates a load request repository using a transaction.
func NewLoadRequestRepositoryWithTx(tx *sql.Tx) *LoadRequestRepository {
	return &LoadRequestRepository{q: tx}
}

// Create persists a new load request.
func (r *LoadRequestRepository) Create(ctx context.Context, request *domain.LoadRequest) error {
	query := `
		INSERT INTO load_requests (id, load_id, truck_id, carrier_org_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		request.ID, request.LoadID, request.TruckID, request.CarrierOrgID,
		request.Status, request.CreatedAt,
	)

	return translateError(err)
}

// GetByID retrieves a load request by ID.
func (r *LoadRequestRepository) GetByID(ctx context.Context, id string) (*domain.LoadRequest, error) {
	query := `
		SELECT id, load_id, truck_id, carrier_org_id, status, created_at, decided_at
		FROM load_requests WHERE id = $1
	`

	var request domain.LoadRequest
	var decidedAt sql.NullTime
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&request.ID, &request.LoadID, &request.TruckID, &request.CarrierOrgID,
		&request.Status, &request.CreatedAt, &decidedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	request.DecidedAt = decidedAt.Time

	return &request, nil
}

// Update persists the status and decision time of a load request.
func (r *LoadRequestRepository) Update(ctx context.Context, request *domain.LoadRequest) error {
	query := `
		UPDATE load_requests
		SET status = $2, decided_at = NULLIF($3, '0001-01-01 00:00:00'::timestamp)
		WHERE id = $1
	`

	result, err := r.q.ExecContext(ctx, query, request.ID, request.Status, request.DecidedAt)
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

// ListPendingByLoadID retrieves the pending requests for a load.
func (r *LoadRequestRepository) ListPendingByLoadID(ctx context.Context, loadID string) ([]*domain.LoadRequest, error) {
	query := `
		SELECT id, load_id, truck_id, carrier_org_id, status, created_at, decided_at
		FROM load_requests WHERE load_id = $1 AND status = 'PENDING' ORDER BY created_at
	`

	rows, err := r.q.QueryContext(ctx, query, loadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*domain.LoadRequest
	for rows.Next() {
		var request domain.LoadRequest
		var decidedAt sql.NullTime
		if err := rows.Scan(
			&request.ID, &request.LoadID, &request.TruckID, &request.CarrierOrgID,
			&request.Status, &request.CreatedAt, &decidedAt,
		); err != nil {
			return nil, err
		}
		request.DecidedAt = decidedAt.Time
		requests = append(requests, &request)
	}

	return requests, rows.Err()
}

// ClearPendingForLoad marks all other pending requests for a load as cleared.
func (r *LoadRequestRepository) ClearPendingForLoad(ctx context.Context, loadID, exceptID string) error {
	query := `
		UPDATE load_requests
		SET status = 'CLEARED', decided_at = NOW()
		WHERE load_id = $1 AND status = 'PENDING' AND id <> $2
	`

	_, err := r.q.ExecContext(ctx, query, loadID, exceptID)
	return err
}
