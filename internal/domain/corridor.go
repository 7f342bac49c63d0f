package domain

import "github.com/shopspring/decimal"

// Corridor is a static origin-destination pricing reference. It is read-only
// input to fee calculation and never mutated by the lifecycle core.
type Corridor struct {
	ID                string
	OriginRegion      string
	DestinationRegion string
	DistanceKm        decimal.Decimal

	ShipperPricePerKm  decimal.Decimal
	ShipperPromoActive bool
	ShipperPromoPct    decimal.Decimal

	CarrierPricePerKm  decimal.Decimal
	CarrierPromoActive bool
	CarrierPromoPct    decimal.Decimal
}
