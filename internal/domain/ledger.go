package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a journal entry.
type TransactionType string

const (
	TxnDeposit    TransactionType = "DEPOSIT"
	TxnWithdrawal TransactionType = "WITHDRAWAL"
	TxnServiceFee TransactionType = "SERVICE_FEE"
	TxnCommission TransactionType = "COMMISSION"
	TxnRefund     TransactionType = "REFUND"
	TxnSettlement TransactionType = "SETTLEMENT"
)

// JournalEntry is an immutable double-entry record. Entries are append-only;
// they are never updated or deleted.
type JournalEntry struct {
	ID        string
	Type      TransactionType
	LoadID    string // empty for entries not tied to a load (deposits)
	Reference string // groups the entries of one financial operation
	Memo      string
	CreatedAt time.Time
	Lines     []JournalLine
}

// JournalLine is a signed effect on one wallet. A positive amount increases
// the wallet balance (a debit, by this system's convention).
type JournalLine struct {
	ID       string
	EntryID  string
	WalletID string
	Amount   decimal.Decimal
}
