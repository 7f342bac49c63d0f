package service

import "errors"

var (
	// ErrInvalidLoadID is returned when a load ID is empty.
	ErrInvalidLoadID = errors.New("invalid load id")

	// ErrInvalidOrgID is returned when an organization ID is empty.
	ErrInvalidOrgID = errors.New("invalid organization id")

	// ErrInvalidTruckID is returned when a truck ID is empty.
	ErrInvalidTruckID = errors.New("invalid truck id")

	// ErrInvalidRequestID is returned when a load request ID is empty.
	ErrInvalidRequestID = errors.New("invalid load request id")

	// ErrInvalidAmount is returned when a monetary amount is not positive.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidRole is returned when the acting role is unknown.
	ErrInvalidRole = errors.New("invalid role")

	// ErrWalletNotFound is returned when an organization has no wallet of
	// the required type.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrInsufficientBalance is returned when a withdrawal exceeds the
	// wallet balance. Callers detect the "insufficient" substring.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrNoFeeConfig is returned when a load has neither a corridor nor a
	// legacy fee configuration.
	ErrNoFeeConfig = errors.New("load has no service fee configuration")

	// ErrServiceFeeAlreadyDeducted is returned on a repeated fee deduction.
	ErrServiceFeeAlreadyDeducted = errors.New("service fee already deducted")

	// ErrServiceFeeNotDeducted is returned when refunding a fee that was
	// never deducted.
	ErrServiceFeeNotDeducted = errors.New("service fee was not deducted")

	// ErrServiceFeeAlreadyRefunded is returned on a repeated fee refund.
	ErrServiceFeeAlreadyRefunded = errors.New("service fee already refunded")

	// ErrSettlementAlreadyProcessed is returned on a repeated settlement.
	ErrSettlementAlreadyProcessed = errors.New("settlement already processed")

	// ErrLoadNotDelivered is returned when settling a load that is not in
	// DELIVERED status.
	ErrLoadNotDelivered = errors.New("load not delivered")

	// ErrPODNotVerified is returned when settling before proof of delivery
	// was submitted and verified.
	ErrPODNotVerified = errors.New("proof of delivery not verified")

	// ErrPODNotSubmitted is returned when verifying a proof of delivery
	// that was never submitted.
	ErrPODNotSubmitted = errors.New("proof of delivery not submitted")

	// ErrInvalidCommissionRate is returned when the organization commission
	// rate is outside (0, 10].
	ErrInvalidCommissionRate = errors.New("commission rate out of range")

	// ErrSettlementRequired is returned when completing a load whose
	// settlement has not been processed.
	ErrSettlementRequired = errors.New("settlement must be processed before completion")

	// ErrLoadAlreadyAssigned is returned when the load already has a truck.
	ErrLoadAlreadyAssigned = errors.New("load already has an assigned truck")

	// ErrLoadNotAssignable is returned when the load is not in a status
	// that accepts assignment.
	ErrLoadNotAssignable = errors.New("load cannot be assigned in its current status")

	// ErrTruckBusy is returned when the truck is committed to another
	// active load.
	ErrTruckBusy = errors.New("truck already committed to an active load")

	// ErrRequestNotPending is returned when approving a request that was
	// rejected or cleared.
	ErrRequestNotPending = errors.New("load request is not pending")

	// ErrAssignmentConflict is returned when an assignment loses a race to
	// a concurrent writer. The caller may retry.
	ErrAssignmentConflict = errors.New("assignment conflict, please retry")

	// ErrNotOwner is returned when the acting organization neither owns
	// the load nor hauls it.
	ErrNotOwner = errors.New("organization not permitted to act on this load")
)
