package service

import (
	"github.com/shopspring/decimal"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
)

var oneHundred = decimal.NewFromInt(100)

// FeePreview is the computed service fee for one party.
type FeePreview struct {
	DistanceKm    decimal.Decimal
	PricePerKm    decimal.Decimal
	BaseFee       decimal.Decimal
	PromoDiscount decimal.Decimal
	FinalFee      decimal.Decimal
}

// DualPartyFeePreview is the combined fee preview for both parties.
type DualPartyFeePreview struct {
	Shipper          FeePreview
	Carrier          FeePreview
	TotalPlatformFee decimal.Decimal
}

// CalculateFeePreview computes one party's corridor service fee.
// Degenerate inputs (distance or rate <= 0) yield a zero fee. The promotion
// applies only when the flag is set and the percentage is in (0, 100].
// All amounts are rounded to 2 decimal places; the fee never goes negative.
func CalculateFeePreview(distanceKm, pricePerKm decimal.Decimal, promoActive bool, promoPct decimal.Decimal) FeePreview {
	preview := FeePreview{
		DistanceKm:    distanceKm,
		PricePerKm:    pricePerKm,
		BaseFee:       decimal.Zero,
		PromoDiscount: decimal.Zero,
		FinalFee:      decimal.Zero,
	}

	if !distanceKm.IsPositive() || !pricePerKm.IsPositive() {
		return preview
	}

	preview.BaseFee = distanceKm.Mul(pricePerKm).Round(2)
	preview.FinalFee = preview.BaseFee

	if promoActive && promoPct.IsPositive() && promoPct.LessThanOrEqual(oneHundred) {
		preview.PromoDiscount = preview.BaseFee.Mul(promoPct).Div(oneHundred).Round(2)
		preview.FinalFee = preview.BaseFee.Sub(preview.PromoDiscount)
	}

	if preview.FinalFee.IsNegative() {
		preview.FinalFee = decimal.Zero
	}

	return preview
}

// CalculateDualPartyFeePreview computes shipper and carrier fees
// independently; a promotion on one side never affects the other. Each side
// is rounded before the sum so the total always equals what the ledger posts
// per party.
func CalculateDualPartyFeePreview(
	distanceKm decimal.Decimal,
	shipperPricePerKm decimal.Decimal, shipperPromoActive bool, shipperPromoPct decimal.Decimal,
	carrierPricePerKm decimal.Decimal, carrierPromoActive bool, carrierPromoPct decimal.Decimal,
) DualPartyFeePreview {
	shipper := CalculateFeePreview(distanceKm, shipperPricePerKm, shipperPromoActive, shipperPromoPct)
	carrier := CalculateFeePreview(distanceKm, carrierPricePerKm, carrierPromoActive, carrierPromoPct)

	return DualPartyFeePreview{
		Shipper:          shipper,
		Carrier:          carrier,
		TotalPlatformFee: shipper.FinalFee.Add(carrier.FinalFee),
	}
}

// CorridorFeePreview computes the dual-party preview from a corridor's
// pricing configuration.
func CorridorFeePreview(c *domain.Corridor) DualPartyFeePreview {
	return CalculateDualPartyFeePreview(
		c.DistanceKm,
		c.ShipperPricePerKm, c.ShipperPromoActive, c.ShipperPromoPct,
		c.CarrierPricePerKm, c.CarrierPromoActive, c.CarrierPromoPct,
	)
}
