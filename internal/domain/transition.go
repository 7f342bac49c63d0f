package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when the requested status is not
	// reachable from the current one.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrRoleNotPermitted is returned when the acting role may not request
	// the target status.
	ErrRoleNotPermitted = errors.New("role not permitted")

	// ErrUnknownStatus is returned for a status outside the lifecycle.
	ErrUnknownStatus = errors.New("unknown load status")
)

// transitionTable is the structural state-transition table for loads.
// Terminal statuses map to empty sets. EXCEPTION is reachable from every
// non-terminal status and recovers back into an execution status or CANCELLED.
var transitionTable = map[LoadStatus][]LoadStatus{
	LoadStatusDraft:     {LoadStatusPosted, LoadStatusCancelled, LoadStatusException},
	LoadStatusPosted:    {LoadStatusSearching, LoadStatusOffered, LoadStatusAssigned, LoadStatusUnposted, LoadStatusCancelled, LoadStatusExpired, LoadStatusException},
	LoadStatusSearching: {LoadStatusOffered, LoadStatusAssigned, LoadStatusUnposted, LoadStatusCancelled, LoadStatusExpired, LoadStatusException},
	LoadStatusOffered:   {LoadStatusAssigned, LoadStatusSearching, LoadStatusUnposted, LoadStatusCancelled, LoadStatusExpired, LoadStatusException},
	LoadStatusAssigned:  {LoadStatusPickupPending, LoadStatusInTransit, LoadStatusCancelled, LoadStatusException},
	LoadStatusPickupPending: {
		LoadStatusInTransit, LoadStatusCancelled, LoadStatusException,
	},
	LoadStatusInTransit: {LoadStatusDelivered, LoadStatusException},
	LoadStatusDelivered: {LoadStatusCompleted, LoadStatusException},
	LoadStatusUnposted:  {LoadStatusDraft, LoadStatusPosted, LoadStatusCancelled, LoadStatusException},
	LoadStatusException: {LoadStatusAssigned, LoadStatusPickupPending, LoadStatusInTransit, LoadStatusDelivered, LoadStatusCancelled},
	LoadStatusCompleted: {},
	LoadStatusCancelled: {},
	LoadStatusExpired:   {},
}

// shipperRequestable is the set of statuses a SHIPPER may request.
var shipperRequestable = map[LoadStatus]bool{
	LoadStatusDraft:     true,
	LoadStatusPosted:    true,
	LoadStatusCancelled: true,
	LoadStatusUnposted:  true,
}

// carrierRequestable is the set of statuses a CARRIER may request.
var carrierRequestable = map[LoadStatus]bool{
	LoadStatusAssigned:      true,
	LoadStatusPickupPending: true,
	LoadStatusInTransit:     true,
	LoadStatusDelivered:     true,
}

// AllowedTransitions returns the structurally legal next statuses for s.
func AllowedTransitions(s LoadStatus) []LoadStatus {
	next := transitionTable[s]
	out := make([]LoadStatus, len(next))
	copy(out, next)
	return out
}

// ValidateTransition checks that moving from current to requested is
// structurally legal and that the acting role may request it. It is pure:
// ownership checks (does this org own the load) are the caller's job.
func ValidateTransition(current, requested LoadStatus, role Role) error {
	next, ok := transitionTable[current]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownStatus, current)
	}
	if !requested.IsValid() {
		return fmt.Errorf("%w %q", ErrUnknownStatus, requested)
	}

	allowed := false
	for _, s := range next {
		if s == requested {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, requested)
	}

	if role.BypassesRoleScope() {
		return nil
	}

	switch role {
	case RoleShipper:
		if !shipperRequestable[requested] {
			return fmt.Errorf("%w: %s may not request %s", ErrRoleNotPermitted, role, requested)
		}
	case RoleCarrier:
		if !carrierRequestable[requested] {
			return fmt.Errorf("%w: %s may not request %s", ErrRoleNotPermitted, role, requested)
		}
	default:
		return fmt.Errorf("%w: unknown role %q", ErrRoleNotPermitted, role)
	}

	return nil
}
