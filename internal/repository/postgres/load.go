package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
	"github.com/DanielMD1989/freight-managment-sub009/internal/repository"
)

// LoadRepository is a PostgreSQL implementation of repository.LoadRepository.
type LoadRepository struct {
	q Querier
}

// NewLoadRepository creates a new PostgreSQL load repository.
func NewLoadRepository(db *sql.DB) *LoadRepository {
	return &LoadRepository{q: db}
}

// NewLoadRepositoryWithTx creates a load repository using a transaction.
func NewLoadRepositoryWithTx(tx *sql.Tx) *LoadRepository {
	return &LoadRepository{q: tx}
}

const loadColumns = `
	id, shipper_org_id, corridor_id, assigned_truck_id, status,
	base_fare, price_per_km, total_fare, flat_rate, distance_km, currency,
	service_fee_amount, service_fee_status, settlement_status,
	pod_submitted, pod_verified, tracking_enabled,
	shipper_commission, carrier_commission, platform_commission,
	created_at, posted_at, assigned_at, settled_at
`

// Create persists a new load.
func (r *LoadRepository) Create(ctx context.Context, load *domain.Load) error {
	query := `
		INSERT INTO loads (` + loadColumns + `)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5,
			$6, $7, $8, $9, $10, $11,
			$12, $13, $14,
			$15, $16, $17,
			$18, $19, $20,
			$21, NULLIF($22, '0001-01-01 00:00:00'::timestamp),
			NULLIF($23, '0001-01-01 00:00:00'::timestamp),
			NULLIF($24, '0001-01-01 00:00:00'::timestamp))
	`

	_, err := r.q.ExecContext(ctx, query,
		load.ID, load.ShipperOrgID, load.CorridorID, load.AssignedTruckID, load.Status,
		load.BaseFare, load.PricePerKm, load.TotalFare, load.FlatRate, load.DistanceKm, load.Currency,
		load.ServiceFeeAmount, load.ServiceFeeStatus, load.SettlementStatus,
		load.PODSubmitted, load.PODVerified, load.TrackingEnabled,
		load.ShipperCommission, load.CarrierCommission, load.PlatformCommission,
		load.CreatedAt, load.PostedAt, load.AssignedAt, load.SettledAt,
	)

	return translateError(err)
}

// GetByID retrieves a load by ID.
func (r *LoadRepository) GetByID(ctx context.Context, id string) (*domain.Load, error) {
	query := `SELECT ` + loadColumns + ` FROM loads WHERE id = $1`

	load, err := scanLoad(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return load, nil
}

// Update persists all mutable fields of a load.
func (r *LoadRepository) Update(ctx context.Context, load *domain.Load) error {
	query := `
		UPDATE loads SET
			assigned_truck_id = NULLIF($2, ''),
			status = $3,
			total_fare = $4,
			service_fee_amount = $5,
			service_fee_status = $6,
			settlement_status = $7,
			pod_submitted = $8,
			pod_verified = $9,
			tracking_enabled = $10,
			shipper_commission = $11,
			carrier_commission = $12,
			platform_commission = $13,
			posted_at = NULLIF($14, '0001-01-01 00:00:00'::timestamp),
			assigned_at = NULLIF($15, '0001-01-01 00:00:00'::timestamp),
			settled_at = NULLIF($16, '0001-01-01 00:00:00'::timestamp)
		WHERE id = $1
	`

	result, err := r.q.ExecContext(ctx, query,
		load.ID,
		load.AssignedTruckID,
		load.Status,
		load.TotalFare,
		load.ServiceFeeAmount,
		load.ServiceFeeStatus,
		load.SettlementStatus,
		load.PODSubmitted,
		load.PODVerified,
		load.TrackingEnabled,
		load.ShipperCommission,
		load.CarrierCommission,
		load.PlatformCommission,
		load.PostedAt,
		load.AssignedAt,
		load.SettledAt,
	)
	if err != nil {
		return translateError(err)
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

// GetAll retrieves all loads.
func (r *LoadRepository) GetAll(ctx context.Context) ([]*domain.Load, error) {
	query := `SELECT ` + loadColumns + ` FROM loads ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loads []*domain.Load
	for rows.Next() {
		load, err := scanLoad(rows)
		if err != nil {
			return nil, err
		}
		loads = append(loads, load)
	}

	return loads, rows.Err()
}

// GetActiveByTruckID returns the load a truck is actively committed to.
func (r *LoadRepository) GetActiveByTruckID(ctx context.Context, truckID string) (*domain.Load, error) {
	query := `
		SELECT ` + loadColumns + `
		FROM loads
		WHERE assigned_truck_id = $1
		  AND status NOT IN ('COMPLETED', 'CANCELLED', 'EXPIRED')
		LIMIT 1
	`

	load, err := scanLoad(r.q.QueryRowContext(ctx, query, truckID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return load, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoad(row rowScanner) (*domain.Load, error) {
	var load domain.Load
	var corridorID, truckID sql.NullString
	var postedAt, assignedAt, settledAt sql.NullTime

	err := row.Scan(
		&load.ID, &load.ShipperOrgID, &corridorID, &truckID, &load.Status,
		&load.BaseFare, &load.PricePerKm, &load.TotalFare, &load.FlatRate, &load.DistanceKm, &load.Currency,
		&load.ServiceFeeAmount, &load.ServiceFeeStatus, &load.SettlementStatus,
		&load.PODSubmitted, &load.PODVerified, &load.TrackingEnabled,
		&load.ShipperCommission, &load.CarrierCommission, &load.PlatformCommission,
		&load.CreatedAt, &postedAt, &assignedAt, &settledAt,
	)
	if err != nil {
		return nil, err
	}

	load.CorridorID = corridorID.String
	load.AssignedTruckID = truckID.String
	load.PostedAt = postedAt.Time
	load.AssignedAt = assignedAt.Time
	load.SettledAt = settledAt.Time

	return &load, nil
}
