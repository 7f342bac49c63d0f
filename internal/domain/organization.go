package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Organization is a shipper or carrier company on the platform. The
// commission rate is a percentage constrained to (0, 10] and is read at
// settlement time, not frozen at posting time.
type Organization struct {
	ID                string
	Name              string
	CommissionRatePct decimal.Decimal
	CreatedAt         time.Time
}
