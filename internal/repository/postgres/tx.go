package postgres

import (
	"context"
	"database/sql"

	"github.com/DanielMD1989/freight-managment-sub009/internal/repository"
)

// TxManager is the PostgreSQL implementation of repository.TxManager.
type TxManager struct {
	db *sql.DB
}

// NewTxManager creates a new TxManager.
func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

// RunInTx runs fn inside an ordinary transaction.
func (m *TxManager) RunInTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	return m.run(ctx, nil, fn)
}

// RunInSerializableTx runs fn at serializable isolation.
func (m *TxManager) RunInSerializableTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

func (m *TxManager) run(ctx context.Context, opts *sql.TxOptions, fn func(tx repository.Tx) error) (err error) {
	sqlTx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = sqlTx.Rollback()
		}
	}()

	if err = fn(&txRepos{tx: sqlTx}); err != nil {
		return err
	}

	err = translateError(sqlTx.Commit())
	return err
}

// txRepos bundles transaction-scoped repositories.
type txRepos struct {
	tx *sql.Tx
}

func (t *txRepos) Loads() repository.LoadRepository           { return NewLoadRepositoryWithTx(t.tx) }
func (t *txRepos) Trips() repository.TripRepository           { return NewTripRepositoryWithTx(t.tx) }
func (t *txRepos) Trucks() repository.TruckRepository         { return NewTruckRepositoryWithTx(t.tx) }
func (t *txRepos) Wallets() repository.WalletRepository       { return NewWalletRepositoryWithTx(t.tx) }
func (t *txRepos) Ledger() repository.LedgerRepository        { return NewLedgerRepositoryWithTx(t.tx) }
func (t *txRepos) Events() repository.EventRepository         { return NewEventRepositoryWithTx(t.tx) }
func (t *txRepos) Corridors() repository.CorridorRepository   { return NewCorridorRepositoryWithTx(t.tx) }
func (t *txRepos) LoadRequests() repository.LoadRequestRepository {
	return NewLoadRequestRepositoryWithTx(t.tx)
}
func (t *txRepos) Withdrawals() repository.WithdrawalRepository {
	return NewWithdrawalRepositoryWithTx(t.tx)
}
func (t *txRepos) Organizations() repository.OrganizationRepository {
	return NewOrganizationRepositoryWithTx(t.tx)
}
