package repository

import "context"

// Tx exposes transaction-scoped repositories. Every multi-write operation in
// the lifecycle core runs against a Tx so the writes commit or roll back as
// one unit.
type Tx interface {
	Loads() LoadRepository
	Trips() TripRepository
	Trucks() TruckRepository
	Wallets() WalletRepository
	Ledger() LedgerRepository
	Events() EventRepository
	Corridors() CorridorRepository
	LoadRequests() LoadRequestRepository
	Withdrawals() WithdrawalRepository
	Organizations() OrganizationRepository
}

// TxManager runs a function inside a database transaction. The transaction
// commits if fn returns nil and rolls back otherwise.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(tx Tx) error) error

	// RunInSerializableTx is RunInTx at serializable isolation, for
	// read-check-write sequences that two concurrent requests must not
	// both pass (withdrawal balance checks).
	RunInSerializableTx(ctx context.Context, fn func(tx Tx) error) error
}
