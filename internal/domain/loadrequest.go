package domain

import "time"

// LoadRequestStatus represents the state of a carrier's request for a load.
type LoadRequestStatus string

const (
	LoadRequestPending  LoadRequestStatus = "PENDING"
	LoadRequestApproved LoadRequestStatus = "APPROVED"
	LoadRequestRejected LoadRequestStatus = "REJECTED"
	LoadRequestCleared  LoadRequestStatus = "CLEARED"
)

// LoadRequest is a carrier's offer to haul a load with a specific truck.
// Approving one request clears all other pending requests for the load.
type LoadRequest struct {
	ID           string
	LoadID       string
	TruckID      string
	CarrierOrgID string
	Status       LoadRequestStatus
	CreatedAt    time.Time
	DecidedAt    time.Time
}
