package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoadStatus represents the current status of a load.
type LoadStatus string

const (
	LoadStatusDraft         LoadStatus = "DRAFT"
	LoadStatusPosted        LoadStatus = "POSTED"
	LoadStatusSearching     LoadStatus = "SEARCHING"
	LoadStatusOffered       LoadStatus = "OFFERED"
	LoadStatusAssigned      LoadStatus = "ASSIGNED"
	LoadStatusPickupPending LoadStatus = "PICKUP_PENDING"
	LoadStatusInTransit     LoadStatus = "IN_TRANSIT"
	LoadStatusDelivered     LoadStatus = "DELIVERED"
	LoadStatusCompleted     LoadStatus = "COMPLETED"
	LoadStatusException     LoadStatus = "EXCEPTION"
	LoadStatusCancelled     LoadStatus = "CANCELLED"
	LoadStatusExpired       LoadStatus = "EXPIRED"
	LoadStatusUnposted      LoadStatus = "UNPOSTED"
)

// AllLoadStatuses lists every load status, in lifecycle order.
var AllLoadStatuses = []LoadStatus{
	LoadStatusDraft,
	LoadStatusPosted,
	LoadStatusSearching,
	LoadStatusOffered,
	LoadStatusAssigned,
	LoadStatusPickupPending,
	LoadStatusInTransit,
	LoadStatusDelivered,
	LoadStatusCompleted,
	LoadStatusException,
	LoadStatusCancelled,
	LoadStatusExpired,
	LoadStatusUnposted,
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s LoadStatus) IsTerminal() bool {
	switch s {
	case LoadStatusCompleted, LoadStatusCancelled, LoadStatusExpired:
		return true
	}
	return false
}

// IsValid reports whether s is a known load status.
func (s LoadStatus) IsValid() bool {
	_, ok := transitionTable[s]
	return ok
}

// ServiceFeeStatus represents the state of the platform service fee for a load.
type ServiceFeeStatus string

const (
	ServiceFeePending  ServiceFeeStatus = "PENDING"
	ServiceFeeDeducted ServiceFeeStatus = "DEDUCTED"
	ServiceFeeRefunded ServiceFeeStatus = "REFUNDED"
)

// SettlementStatus represents the state of post-delivery settlement for a load.
type SettlementStatus string

const (
	SettlementUnsettled SettlementStatus = "UNSETTLED"
	SettlementPaid      SettlementStatus = "PAID"
)

// Load represents a shippable unit under contract.
type Load struct {
	ID              string
	ShipperOrgID    string
	CorridorID      string // empty for legacy flat-rate loads
	AssignedTruckID string
	Status          LoadStatus

	BaseFare   decimal.Decimal
	PricePerKm decimal.Decimal
	TotalFare  decimal.Decimal
	FlatRate   decimal.Decimal // legacy pricing, used when per-km pricing is absent
	DistanceKm decimal.Decimal
	Currency   string

	ServiceFeeAmount decimal.Decimal
	ServiceFeeStatus ServiceFeeStatus
	SettlementStatus SettlementStatus

	PODSubmitted    bool
	PODVerified     bool
	TrackingEnabled bool

	ShipperCommission  decimal.Decimal
	CarrierCommission  decimal.Decimal
	PlatformCommission decimal.Decimal

	CreatedAt  time.Time
	PostedAt   time.Time
	AssignedAt time.Time
	SettledAt  time.Time
}

// EffectiveFare returns the fare settlement operates on: the computed total
// fare when present, otherwise the legacy flat rate.
func (l *Load) EffectiveFare() decimal.Decimal {
	if l.TotalFare.IsPositive() {
		return l.TotalFare
	}
	return l.FlatRate
}
