package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
)

// LedgerRepository defines persistence operations for journal entries.
// The ledger is append-only; there are no update or delete operations.
type LedgerRepository interface {
	Append(ctx context.Context, entry *domain.JournalEntry) error
	ListByLoadID(ctx context.Context, loadID string) ([]*domain.JournalEntry, error)

	// SumByWalletID returns the sum of all line effects on a wallet, used
	// to audit that a balance is reconstructable from history.
	SumByWalletID(ctx context.Context, walletID string) (decimal.Decimal, error)
}
