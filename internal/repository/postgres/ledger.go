package postgres

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
)

// LedgerRepository is a PostgreSQL implementation of repository.LedgerRepository.
type LedgerRepository struct {
	q Querier
}

// NewLedgerRepository creates a new PostgreSQL ledger repository.
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{q: db}
}

// NewLedgerRepositoryWithTx creates a ledger repository using a transaction.
func NewLedgerRepositoryWithTx(tx *sql.Tx) *LedgerRepository {
	return &LedgerRepository{q: tx}
}

// Append persists a journal entry and its lines. Entries are never updated.
func (r *LedgerRepository) Append(ctx context.Context, entry *domain.JournalEntry) error {
	entryQuery := `
		INSERT INTO journal_entries (id, txn_type, load_id, reference, memo, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, entryQuery,
		entry.ID, entry.Type, entry.LoadID, entry.Reference, entry.Memo, entry.CreatedAt,
	)
	if err != nil {
		return translateError(err)
	}

	lineQuery := `
		INSERT INTO journal_lines (id, entry_id, wallet_id, amount)
		VALUES ($1, $2, $3, $4)
	`

	for _, line := range entry.Lines {
		_, err := r.q.ExecContext(ctx, lineQuery, line.ID, line.EntryID, line.WalletID, line.Amount)
		if err != nil {
			return translateError(err)
		}
	}

	return nil
}

// ListByLoadID retrieves all journal entries linked to a load, lines included.
func (r *LedgerRepository) ListByLoadID(ctx context.Context, loadID string) ([]*domain.JournalEntry, error) {
	entryQuery := `
		SELECT id, txn_type, COALESCE(load_id, ''), reference, memo, created_at
		FROM journal_entries WHERE load_id = $1 ORDER BY created_at
	`

	rows, err := r.q.QueryContext(ctx, entryQuery, loadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.JournalEntry
	for rows.Next() {
		var entry domain.JournalEntry
		if err := rows.Scan(&entry.ID, &entry.Type, &entry.LoadID, &entry.Reference, &entry.Memo, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lineQuery := `
		SELECT id, entry_id, wallet_id, amount
		FROM journal_lines WHERE entry_id = $1 ORDER BY id
	`

	for _, entry := range entries {
		lineRows, err := r.q.QueryContext(ctx, lineQuery, entry.ID)
		if err != nil {
			return nil, err
		}

		for lineRows.Next() {
			var line domain.JournalLine
			if err := lineRows.Scan(&line.ID, &line.EntryID, &line.WalletID, &line.Amount); err != nil {
				lineRows.Close()
				return nil, err
			}
			entry.Lines = append(entry.Lines, line)
		}
		if err := lineRows.Err(); err != nil {
			lineRows.Close()
			return nil, err
		}
		lineRows.Close()
	}

	return entries, nil
}

// SumByWalletID returns the sum of all line effects on a wallet.
func (r *LedgerRepository) SumByWalletID(ctx context.Context, walletID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM journal_lines WHERE wallet_id = $1
	`

	var sum decimal.Decimal
	if err := r.q.QueryRowContext(ctx, query, walletID).Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return sum, nil
}
