package domain

import "time"

// Truck represents a carrier-owned vehicle that can be assigned to loads.
type Truck struct {
	ID           string
	CarrierOrgID string
	Plate        string
	Active       bool
	CreatedAt    time.Time
}
