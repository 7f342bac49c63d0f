package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
	"github.com/DanielMD1989/freight-managment-sub009/internal/repository"
)

// CorridorRepository is a PostgreSQL implementation of repository.CorridorRepository.
type CorridorRepository struct {
	q Querier
}

// NewCorridorRepository creates a new PostgreSQL corridor repository.
func NewCorridorRepository(db *sql.DB) *CorridorRepository {
	return &CorridorRepository{q: db}
}

// NewCorridorRepositoryWithTx creates a corridor repository using a transaction.
func NewCorridorRepositoryWithTx(tx *sql.Tx) *CorridorRepository {
	return &CorridorRepository{q: tx}
}

// Create persists a new corridor.
func (r *CorridorRepository) Create(ctx context.Context, corridor *domain.Corridor) error {
	query := `
		INSERT INTO corridors (
			id, origin_region, destination_region, distance_km,
			shipper_price_per_km, shipper_promo_active, shipper_promo_pct,
			carrier_price_per_km, carrier_promo_active, carrier_promo_pct
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.ExecContext(ctx, query,
		corridor.ID, corridor.OriginRegion, corridor.DestinationRegion, corridor.DistanceKm,
		corridor.ShipperPricePerKm, corridor.ShipperPromoActive, corridor.ShipperPromoPct,
		corridor.CarrierPricePerKm, corridor.CarrierPromoActive, corridor.CarrierPromoPct,
	)

	return translateError(err)
}

// GetByID retrieves a corridor by ID.
func (r *CorridorRepository) GetByID(ctx context.Context, id string) (*domain.Corridor, error) {
	query := `
		SELECT id, origin_region, destination_region, distance_km,
			shipper_price_per_km, shipper_promo_active, shipper_promo_pct,
			carrier_price_per_km, carrier_promo_active, carrier_promo_pct
		FROM corridors WHERE id = $1
	`

	var corridor domain.Corridor
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&corridor.ID, &corridor.OriginRegion, &corridor.DestinationRegion, &corridor.DistanceKm,
		&corridor.ShipperPricePerKm, &corridor.ShipperPromoActive, &corridor.ShipperPromoPct,
		&corridor.CarrierPricePerKm, &corridor.CarrierPromoActive, &corridor.CarrierPromoPct,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &corridor, nil
}
