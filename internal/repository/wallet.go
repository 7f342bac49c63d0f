package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
)

// WalletRepository defines persistence operations for wallets.
//
// AdjustBalance is the only balance mutation; services must pair every call
// with a journal line appended in the same transaction.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id string) (*domain.Wallet, error)
	GetByOrg(ctx context.Context, orgID string, walletType domain.WalletType) (*domain.Wallet, error)
	AdjustBalance(ctx context.Context, walletID string, delta decimal.Decimal) error
}
