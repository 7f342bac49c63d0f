package domain

import "time"

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	TripStatusAssigned      TripStatus = "ASSIGNED"
	TripStatusPickupPending TripStatus = "PICKUP_PENDING"
	TripStatusInTransit     TripStatus = "IN_TRANSIT"
	TripStatusDelivered     TripStatus = "DELIVERED"
	TripStatusCompleted     TripStatus = "COMPLETED"
	TripStatusCancelled     TripStatus = "CANCELLED"
)

// Trip is a derived execution record mirroring a subset of load status.
// It is created at assignment time and never exists without a load.
type Trip struct {
	ID           string
	LoadID       string
	TruckID      string
	CarrierOrgID string
	Status       TripStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TripStatusForLoad maps a load status to the trip status that must mirror
// it. The second return is false for load statuses that leave the trip
// untouched: pre-assignment statuses, and EXCEPTION, which does not imply
// trip abandonment.
func TripStatusForLoad(s LoadStatus) (TripStatus, bool) {
	switch s {
	case LoadStatusAssigned:
		return TripStatusAssigned, true
	case LoadStatusPickupPending:
		return TripStatusPickupPending, true
	case LoadStatusInTransit:
		return TripStatusInTransit, true
	case LoadStatusDelivered:
		return TripStatusDelivered, true
	case LoadStatusCompleted:
		return TripStatusCompleted, true
	case LoadStatusCancelled, LoadStatusExpired:
		return TripStatusCancelled, true
	}
	return "", false
}
