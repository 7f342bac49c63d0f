package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
	"github.com/DanielMD1989/freight-managment-sub009/internal/repository"
)

// FeeOpResult contains the outcome of a service-fee operation.
type FeeOpResult struct {
	Success          bool
	ShipperFee       decimal.Decimal
	CarrierFee       decimal.Decimal
	TotalPlatformFee decimal.Decimal
	ServiceFee       decimal.Decimal // amount moved by a refund
	TransactionID    string
}

// FeeLedgerService moves money between organization wallets and the platform
// fee pool as a load's lifecycle advances. Every wallet mutation is paired
// with a journal entry inside one transaction.
type FeeLedgerService struct {
	txm      repository.TxManager
	notifier Notifier
}

// NewFeeLedgerService creates a new FeeLedgerService.
func NewFeeLedgerService(txm repository.TxManager, notifier Notifier) *FeeLedgerService {
	return &FeeLedgerService{txm: txm, notifier: notifier}
}

// DeductServiceFee charges the per-party platform service fee for a load.
// It is idempotent per load: the SERVICE_FEE_DEDUCTED event is the guard,
// with a unique constraint at the storage layer as backstop.
func (s *FeeLedgerService) DeductServiceFee(ctx context.Context, loadID string) (*FeeOpResult, error) {
	if loadID == "" {
		return nil, ErrInvalidLoadID
	}

	result := &FeeOpResult{}
	var shipperOrg string

	err := s.txm.RunInTx(ctx, func(tx repository.Tx) error {
		load, err := tx.Loads().GetByID(ctx, loadID)
		if err != nil {
			return err
		}
		shipperOrg = load.ShipperOrgID

		deducted, err := tx.Events().Exists(ctx, loadID, domain.EventServiceFeeDeducted)
		if err != nil {
			return err
		}
		if deducted {
			return ErrServiceFeeAlreadyDeducted
		}

		preview, err := s.feePreviewForLoad(ctx, tx, load)
		if err != nil {
			return err
		}

		shipperWallet, err := tx.Wallets().GetByOrg(ctx, load.ShipperOrgID, domain.WalletTypeShipper)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrWalletNotFound
			}
			return err
		}

		platformWallet, err := tx.Wallets().GetByOrg(ctx, domain.PlatformOrgID, domain.WalletTypePlatform)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrWalletNotFound
			}
			return err
		}

		reference := uuid.New().String()

		if preview.Shipper.FinalFee.IsPositive() {
			err = s.postEntry(ctx, tx, domain.TxnServiceFee, loadID, reference, "shipper service fee",
				[]domain.JournalLine{
					{WalletID: shipperWallet.ID, Amount: preview.Shipper.FinalFee.Neg()},
					{WalletID: platformWallet.ID, Amount: preview.Shipper.FinalFee},
				})
			if err != nil {
				return err
			}
		}

		if preview.Carrier.FinalFee.IsPositive() {
			truck, err := tx.Trucks().GetByID(ctx, load.AssignedTruckID)
			if err != nil {
				return err
			}

			carrierWallet, err := tx.Wallets().GetByOrg(ctx, truck.CarrierOrgID, domain.WalletTypeCarrier)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return ErrWalletNotFound
				}
				return err
			}

			err = s.postEntry(ctx, tx, domain.TxnServiceFee, loadID, reference, "carrier service fee",
				[]domain.JournalLine{
					{WalletID: carrierWallet.ID, Amount: preview.Carrier.FinalFee.Neg()},
					{WalletID: platformWallet.ID, Amount: preview.Carrier.FinalFee},
				})
			if err != nil {
				return err
			}
		}

		load.ServiceFeeAmount = preview.TotalPlatformFee
		load.ServiceFeeStatus = domain.ServiceFeeDeducted
		if err := tx.Loads().Update(ctx, load); err != nil {
			return err
		}

		event := &domain.DomainEvent{
			ID:     uuid.New().String(),
			LoadID: loadID,
			Kind:   domain.EventServiceFeeDeducted,
			Payload: map[string]any{
				"reference":   reference,
				"shipper_fee": preview.Shipper.FinalFee.String(),
				"carrier_fee": preview.Carrier.FinalFee.String(),
				"total_fee":   preview.TotalPlatformFee.String(),
			},
			CreatedAt: time.Now(),
		}
		if err := tx.Events().Record(ctx, event); err != nil {
			return err
		}

		result.Success = true
		result.ShipperFee = preview.Shipper.FinalFee
		result.CarrierFee = preview.Carrier.FinalFee
		result.TotalPlatformFee = preview.TotalPlatformFee
		result.TransactionID = reference
		return nil
	})
	if err != nil {
		// A unique-constraint loss means another writer deducted first.
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrServiceFeeAlreadyDeducted
		}
		return nil, err
	}

	s.notifyOrg(shipperOrg, NotificationServiceFeeCharged, map[string]any{
		"load_id":        loadID,
		"total_fee":      result.TotalPlatformFee.String(),
		"transaction_id": result.TransactionID,
	})

	return result, nil
}

// RefundServiceFee reverses a deducted fee back to the shipper wallet on
// cancellation. Guarded against double refund the same way as deduction.
func (s *FeeLedgerService) RefundServiceFee(ctx context.Context, loadID string) (*FeeOpResult, error) {
	if loadID == "" {
		return nil, ErrInvalidLoadID
	}

	result := &FeeOpResult{}
	var shipperOrg string

	err := s.txm.RunInTx(ctx, func(tx repository.Tx) error {
		load, err := tx.Loads().GetByID(ctx, loadID)
		if err != nil {
			return err
		}
		shipperOrg = load.ShipperOrgID

		refunded, err := tx.Events().Exists(ctx, loadID, domain.EventServiceFeeRefunded)
		if err != nil {
			return err
		}
		if refunded || load.ServiceFeeStatus == domain.ServiceFeeRefunded {
			return ErrServiceFeeAlreadyRefunded
		}
		if load.ServiceFeeStatus != domain.ServiceFeeDeducted {
			return ErrServiceFeeNotDeducted
		}

		amount := load.ServiceFeeAmount
		if !amount.IsPositive() {
			return ErrServiceFeeNotDeducted
		}

		shipperWallet, err := tx.Wallets().GetByOrg(ctx, load.ShipperOrgID, domain.WalletTypeShipper)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrWalletNotFound
			}
			return err
		}

		platformWallet, err := tx.Wallets().GetByOrg(ctx, domain.PlatformOrgID, domain.WalletTypePlatform)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrWalletNotFound
			}
			return err
		}

		reference := uuid.New().String()

		err = s.postEntry(ctx, tx, domain.TxnRefund, loadID, reference, "service fee refund",
			[]domain.JournalLine{
				{WalletID: platformWallet.ID, Amount: amount.Neg()},
				{WalletID: shipperWallet.ID, Amount: amount},
			})
		if err != nil {
			return err
		}

		load.ServiceFeeStatus = domain.ServiceFeeRefunded
		if err := tx.Loads().Update(ctx, load); err != nil {
			return err
		}

		event := &domain.DomainEvent{
			ID:     uuid.New().String(),
			LoadID: loadID,
			Kind:   domain.EventServiceFeeRefunded,
			Payload: map[string]any{
				"reference": reference,
				"amount":    amount.String(),
			},
			CreatedAt: time.Now(),
		}
		if err := tx.Events().Record(ctx, event); err != nil {
			return err
		}

		result.Success = true
		result.ServiceFee = amount
		result.TransactionID = reference
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrServiceFeeAlreadyRefunded
		}
		return nil, err
	}

	s.notifyOrg(shipperOrg, NotificationServiceFeeRefund, map[string]any{
		"load_id":        loadID,
		"amount":         result.ServiceFee.String(),
		"transaction_id": result.TransactionID,
	})

	return result, nil
}

// RequestWithdrawal creates a withdrawal request and holds the amount. The
// balance re-read, the check, the hold and the insert run in one serializable
// transaction so two concurrent requests cannot both pass the check against a
// stale read.
func (s *FeeLedgerService) RequestWithdrawal(ctx context.Context, orgID string, walletType domain.WalletType, amount decimal.Decimal) (*domain.Withdrawal, error) {
	if orgID == "" {
		return nil, ErrInvalidOrgID
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var withdrawal *domain.Withdrawal

	err := s.txm.RunInSerializableTx(ctx, func(tx repository.Tx) error {
		wallet, err := tx.Wallets().GetByOrg(ctx, orgID, walletType)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrWalletNotFound
			}
			return err
		}

		if wallet.Balance.LessThan(amount) {
			return ErrInsufficientBalance
		}

		withdrawal = &domain.Withdrawal{
			ID:          uuid.New().String(),
			WalletID:    wallet.ID,
			Amount:      amount,
			Status:      domain.WithdrawalPending,
			RequestedAt: time.Now(),
		}
		if err := tx.Withdrawals().Create(ctx, withdrawal); err != nil {
			return err
		}

		// Hold the amount so a second request cannot spend it.
		return s.postEntry(ctx, tx, domain.TxnWithdrawal, "", withdrawal.ID, "withdrawal hold",
			[]domain.JournalLine{{WalletID: wallet.ID, Amount: amount.Neg()}})
	})
	if err != nil {
		return nil, err
	}

	s.notifyOrg(orgID, NotificationWithdrawalPending, map[string]any{
		"withdrawal_id": withdrawal.ID,
		"amount":        amount.String(),
	})

	return withdrawal, nil
}

// Deposit credits an organization wallet, pairing the balance update with a
// DEPOSIT journal entry in one transaction.
func (s *FeeLedgerService) Deposit(ctx context.Context, orgID string, walletType domain.WalletType, amount decimal.Decimal) (*domain.Wallet, error) {
	if orgID == "" {
		return nil, ErrInvalidOrgID
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var wallet *domain.Wallet

	err := s.txm.RunInTx(ctx, func(tx repository.Tx) error {
		var err error
		wallet, err = tx.Wallets().GetByOrg(ctx, orgID, walletType)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrWalletNotFound
			}
			return err
		}

		err = s.postEntry(ctx, tx, domain.TxnDeposit, "", uuid.New().String(), "wallet deposit",
			[]domain.JournalLine{{WalletID: wallet.ID, Amount: amount}})
		if err != nil {
			return err
		}

		wallet.Balance = wallet.Balance.Add(amount)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return wallet, nil
}

// postEntry appends a journal entry and applies each line to its wallet
// balance. The pairing is what keeps balances reconstructable from history.
func (s *FeeLedgerService) postEntry(ctx context.Context, tx repository.Tx, txnType domain.TransactionType, loadID, reference, memo string, lines []domain.JournalLine) error {
	entry := &domain.JournalEntry{
		ID:        uuid.New().String(),
		Type:      txnType,
		LoadID:    loadID,
		Reference: reference,
		Memo:      memo,
		CreatedAt: time.Now(),
	}

	for i := range lines {
		lines[i].ID = uuid.New().String()
		lines[i].EntryID = entry.ID
	}
	entry.Lines = lines

	if err := tx.Ledger().Append(ctx, entry); err != nil {
		return err
	}

	for _, line := range entry.Lines {
		if err := tx.Wallets().AdjustBalance(ctx, line.WalletID, line.Amount); err != nil {
			return err
		}
	}

	return nil
}

// feePreviewForLoad resolves the load's fee configuration: corridor pricing
// when present, otherwise the load's own per-km pricing charged to the
// shipper side only (legacy loads). The carrier side is only charged once a
// truck is assigned.
func (s *FeeLedgerService) feePreviewForLoad(ctx context.Context, tx repository.Tx, load *domain.Load) (DualPartyFeePreview, error) {
	if load.CorridorID != "" {
		corridor, err := tx.Corridors().GetByID(ctx, load.CorridorID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return DualPartyFeePreview{}, ErrNoFeeConfig
			}
			return DualPartyFeePreview{}, err
		}

		preview := CorridorFeePreview(corridor)
		if load.AssignedTruckID == "" {
			preview.Carrier = CalculateFeePreview(decimal.Zero, decimal.Zero, false, decimal.Zero)
			preview.TotalPlatformFee = preview.Shipper.FinalFee
		}
		return preview, nil
	}

	if load.DistanceKm.IsPositive() && load.PricePerKm.IsPositive() {
		shipper := CalculateFeePreview(load.DistanceKm, load.PricePerKm, false, decimal.Zero)
		return DualPartyFeePreview{
			Shipper:          shipper,
			TotalPlatformFee: shipper.FinalFee,
		}, nil
	}

	return DualPartyFeePreview{}, ErrNoFeeConfig
}

func (s *FeeLedgerService) notifyOrg(orgID string, t NotificationType, payload map[string]any) {
	if s.notifier == nil {
		return
	}
	notifier := s.notifier
	dispatch(string(t), func(ctx context.Context) error {
		return notifier.Notify(ctx, orgID, t, payload)
	})
}
