package postgres

import (
	"context"
	"database/sql"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
)

// WithdrawalRepository is a PostgreSQL implementation of repository.WithdrawalRepository.
type WithdrawalRepository struct {
	q Querier
}

// NewWithdrawalRepository creates a new PostgreSQL withdrawal repository.
func NewWithdrawalRepository(db *sql.DB) *WithdrawalRepository {
	return &WithdrawalRepository{q: db}
}

// NewWithdrawalRepositoryWithTx creates a withdrawal repository using a transaction.
func NewWithdrawalRepositoryWithTx(tx *sql.Tx) *WithdrawalRepository {
	return &WithdrawalRepository{q: tx}
}

// Create persists a new withdrawal request.
func (r *WithdrawalRepository) Create(ctx context.Context, withdrawal *domain.Withdrawal) error {
	query := `
		INSERT INTO withdrawals (id, wallet_id, amount, status, requested_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.ExecContext(ctx, query,
		withdrawal.ID, withdrawal.WalletID, withdrawal.Amount,
		withdrawal.Status, withdrawal.RequestedAt,
	)

	return translateError(err)
}

// ListByWalletID retrieves all withdrawal requests for a wallet.
func (r *WithdrawalRepository) ListByWalletID(ctx context.Context, walletID string) ([]*domain.Withdrawal, error) {
	query := `
		SELECT id, wallet_id, amount, status, requested_at
		FROM withdrawals WHERE wallet_id = $1 ORDER BY requested_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, walletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var withdrawals []*domain.Withdrawal
	for rows.Next() {
		var withdrawal domain.Withdrawal
		if err := rows.Scan(
			&withdrawal.ID, &withdrawal.WalletID, &withdrawal.Amount,
			&withdrawal.Status, &withdrawal.RequestedAt,
		); err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, &withdrawal)
	}

	return withdrawals, rows.Err()
}
