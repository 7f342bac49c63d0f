package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlatformOrgID is the organization that owns the platform fee pool wallet.
const PlatformOrgID = "platform"

// WalletType distinguishes the financial account kinds in the system.
type WalletType string

const (
	WalletTypeShipper  WalletType = "SHIPPER_WALLET"
	WalletTypeCarrier  WalletType = "CARRIER_WALLET"
	WalletTypePlatform WalletType = "PLATFORM_WALLET"
)

// Wallet is one organization's financial account for a currency.
// Its balance is mutated only alongside a journal line in the same
// transaction; it must always equal the sum of its historical line effects.
type Wallet struct {
	ID             string
	OrganizationID string
	Type           WalletType
	Currency       string
	Balance        decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// WithdrawalStatus represents the state of a withdrawal request.
type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "PENDING"
	WithdrawalApproved WithdrawalStatus = "APPROVED"
	WithdrawalRejected WithdrawalStatus = "REJECTED"
)

// Withdrawal is a request to move money out of a wallet. The balance check
// and the request insert happen in one serializable transaction.
type Withdrawal struct {
	ID          string
	WalletID    string
	Amount      decimal.Decimal
	Status      WithdrawalStatus
	RequestedAt time.Time
}
