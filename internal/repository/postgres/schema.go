package postgres

import (
	"context"
	"database/sql"
)

// schema holds the DDL applied at startup. The unique indexes at the bottom
// are the storage-layer backstops for races the services also guard against:
// one trip per load, one active load per truck, and at most one financial
// event of each kind per load.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS organizations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		commission_rate_pct NUMERIC(5,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS trucks (
		id TEXT PRIMARY KEY,
		carrier_org_id TEXT NOT NULL REFERENCES organizations(id),
		plate TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS corridors (
		id TEXT PRIMARY KEY,
		origin_region TEXT NOT NULL,
		destination_region TEXT NOT NULL,
		distance_km NUMERIC(12,2) NOT NULL,
		shipper_price_per_km NUMERIC(12,2) NOT NULL DEFAULT 0,
		shipper_promo_active BOOLEAN NOT NULL DEFAULT FALSE,
		shipper_promo_pct NUMERIC(5,2) NOT NULL DEFAULT 0,
		carrier_price_per_km NUMERIC(12,2) NOT NULL DEFAULT 0,
		carrier_promo_active BOOLEAN NOT NULL DEFAULT FALSE,
		carrier_promo_pct NUMERIC(5,2) NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS loads (
		id TEXT PRIMARY KEY,
		shipper_org_id TEXT NOT NULL REFERENCES organizations(id),
		corridor_id TEXT REFERENCES corridors(id),
		assigned_truck_id TEXT REFERENCES trucks(id),
		status TEXT NOT NULL,
		base_fare NUMERIC(14,2) NOT NULL DEFAULT 0,
		price_per_km NUMERIC(12,2) NOT NULL DEFAULT 0,
		total_fare NUMERIC(14,2) NOT NULL DEFAULT 0,
		flat_rate NUMERIC(14,2) NOT NULL DEFAULT 0,
		distance_km NUMERIC(12,2) NOT NULL DEFAULT 0,
		currency TEXT NOT NULL DEFAULT 'ETB',
		service_fee_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
		service_fee_status TEXT NOT NULL DEFAULT 'PENDING',
		settlement_status TEXT NOT NULL DEFAULT 'UNSETTLED',
		pod_submitted BOOLEAN NOT NULL DEFAULT FALSE,
		pod_verified BOOLEAN NOT NULL DEFAULT FALSE,
		tracking_enabled BOOLEAN NOT NULL DEFAULT FALSE,
		shipper_commission NUMERIC(14,2) NOT NULL DEFAULT 0,
		carrier_commission NUMERIC(14,2) NOT NULL DEFAULT 0,
		platform_commission NUMERIC(14,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		posted_at TIMESTAMPTZ,
		assigned_at TIMESTAMPTZ,
		settled_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS trips (
		id TEXT PRIMARY KEY,
		load_id TEXT NOT NULL REFERENCES loads(id),
		truck_id TEXT NOT NULL REFERENCES trucks(id),
		carrier_org_id TEXT NOT NULL REFERENCES organizations(id),
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS wallets (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL REFERENCES organizations(id),
		wallet_type TEXT NOT NULL,
		currency TEXT NOT NULL DEFAULT 'ETB',
		balance NUMERIC(16,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS journal_entries (
		id TEXT PRIMARY KEY,
		txn_type TEXT NOT NULL,
		load_id TEXT REFERENCES loads(id),
		reference TEXT NOT NULL DEFAULT '',
		memo TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS journal_lines (
		id TEXT PRIMARY KEY,
		entry_id TEXT NOT NULL REFERENCES journal_entries(id),
		wallet_id TEXT NOT NULL REFERENCES wallets(id),
		amount NUMERIC(16,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS domain_events (
		id TEXT PRIMARY KEY,
		load_id TEXT NOT NULL REFERENCES loads(id),
		kind TEXT NOT NULL,
		payload JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS load_requests (
		id TEXT PRIMARY KEY,
		load_id TEXT NOT NULL REFERENCES loads(id),
		truck_id TEXT NOT NULL REFERENCES trucks(id),
		carrier_org_id TEXT NOT NULL REFERENCES organizations(id),
		status TEXT NOT NULL DEFAULT 'PENDING',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		decided_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS withdrawals (
		id TEXT PRIMARY KEY,
		wallet_id TEXT NOT NULL REFERENCES wallets(id),
		amount NUMERIC(16,2) NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING',
		requested_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_wallets_org_type
		ON wallets (organization_id, wallet_type, currency)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_trips_load
		ON trips (load_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_trucks_active_load
		ON loads (assigned_truck_id)
		WHERE assigned_truck_id IS NOT NULL
		  AND status NOT IN ('COMPLETED', 'CANCELLED', 'EXPIRED')`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_events_financial
		ON domain_events (load_id, kind)
		WHERE kind IN ('SERVICE_FEE_DEDUCTED', 'SERVICE_FEE_REFUNDED', 'SETTLEMENT_PROCESSED')`,
}

// Migrate applies the schema. Statements are idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
