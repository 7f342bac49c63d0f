package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
	"github.com/DanielMD1989/freight-managment-sub009/internal/repository"
)

// WalletRepository is a PostgreSQL implementation of repository.WalletRepository.
type WalletRepository struct {
	q Querier
}

// NewWalletRepository creates a new PostgreSQL wallet repository.
func NewWalletRepository(db *sql.DB) *WalletRepository {
	return &WalletRepository{q: db}
}

// NewWalletRepositoryWithTx creates a wallet repository using a transaction.
func NewWalletRepositoryWithTx(tx *sql.Tx) *WalletRepository {
	return &WalletRepository{q: tx}
}

// Create persists a new wallet.
func (r *WalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	query := `
		INSERT INTO wallets (id, organization_id, wallet_type, currency, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		wallet.ID, wallet.OrganizationID, wallet.Type, wallet.Currency,
		wallet.Balance, wallet.CreatedAt,
	)

	return translateError(err)
}

// GetByID retrieves a wallet by ID.
func (r *WalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	query := `
		SELECT id, organization_id, wallet_type, currency, balance, created_at, updated_at
		FROM wallets WHERE id = $1
	`

	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetByOrg retrieves an organization's wallet of the given type.
func (r *WalletRepository) GetByOrg(ctx context.Context, orgID string, walletType domain.WalletType) (*domain.Wallet, error) {
	query := `
		SELECT id, organization_id, wallet_type, currency, balance, created_at, updated_at
		FROM wallets WHERE organization_id = $1 AND wallet_type = $2
	`

	return r.scanOne(r.q.QueryRowContext(ctx, query, orgID, walletType))
}

// AdjustBalance applies a signed delta to a wallet balance. Callers must
// append a matching journal line in the same transaction.
func (r *WalletRepository) AdjustBalance(ctx context.Context, walletID string, delta decimal.Decimal) error {
	query := `UPDATE wallets SET balance = balance + $1, updated_at = NOW() WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, delta, walletID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *WalletRepository) scanOne(row *sql.Row) (*domain.Wallet, error) {
	var wallet domain.Wallet
	err := row.Scan(
		&wallet.ID, &wallet.OrganizationID, &wallet.Type, &wallet.Currency,
		&wallet.Balance, &wallet.CreatedAt, &wallet.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &wallet, nil
}
