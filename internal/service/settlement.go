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

var maxCommissionRate = decimal.NewFromInt(10)

// SettlementResult contains the commission split of a processed settlement.
type SettlementResult struct {
	ShipperAmount  decimal.Decimal
	CarrierAmount  decimal.Decimal
	PlatformAmount decimal.Decimal
	TransactionID  string
}

// SettlementService computes and records post-delivery commission splits
// once proof of delivery is verified.
type SettlementService struct {
	txm      repository.TxManager
	notifier Notifier
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(txm repository.TxManager, notifier Notifier) *SettlementService {
	return &SettlementService{txm: txm, notifier: notifier}
}

// ProcessSettlement settles a delivered, POD-verified load: it moves the
// fare from the shipper wallet to the carrier and platform wallets, writes
// the commission amounts on the load and marks the settlement PAID, all in
// one transaction. Re-invocation after success returns
// ErrSettlementAlreadyProcessed and never double-pays.
func (s *SettlementService) ProcessSettlement(ctx context.Context, loadID string) (*SettlementResult, error) {
	if loadID == "" {
		return nil, ErrInvalidLoadID
	}

	result := &SettlementResult{}
	var shipperOrg, carrierOrg string

	err := s.txm.RunInTx(ctx, func(tx repository.Tx) error {
		load, err := tx.Loads().GetByID(ctx, loadID)
		if err != nil {
			return err
		}

		if load.SettlementStatus == domain.SettlementPaid {
			return ErrSettlementAlreadyProcessed
		}
		if load.Status != domain.LoadStatusDelivered {
			return ErrLoadNotDelivered
		}
		if !load.PODSubmitted || !load.PODVerified {
			return ErrPODNotVerified
		}

		settled, err := tx.Events().Exists(ctx, loadID, domain.EventSettlementProcessed)
		if err != nil {
			return err
		}
		if settled {
			return ErrSettlementAlreadyProcessed
		}

		org, err := tx.Organizations().GetByID(ctx, load.ShipperOrgID)
		if err != nil {
			return err
		}

		rate := org.CommissionRatePct
		if !rate.IsPositive() || rate.GreaterThan(maxCommissionRate) {
			return ErrInvalidCommissionRate
		}

		fare := load.EffectiveFare()
		if !fare.IsPositive() {
			return ErrNoFeeConfig
		}

		platformCut := fare.Mul(rate).Div(oneHundred).Round(2)
		carrierAmount := fare.Sub(platformCut)

		shipperWallet, err := tx.Wallets().GetByOrg(ctx, load.ShipperOrgID, domain.WalletTypeShipper)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrWalletNotFound
			}
			return err
		}

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

		platformWallet, err := tx.Wallets().GetByOrg(ctx, domain.PlatformOrgID, domain.WalletTypePlatform)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrWalletNotFound
			}
			return err
		}

		reference := uuid.New().String()
		now := time.Now()

		entry := &domain.JournalEntry{
			ID:        uuid.New().String(),
			Type:      domain.TxnSettlement,
			LoadID:    loadID,
			Reference: reference,
			Memo:      "delivery settlement",
			CreatedAt: now,
		}
		lines := []domain.JournalLine{
			{WalletID: shipperWallet.ID, Amount: fare.Neg()},
			{WalletID: carrierWallet.ID, Amount: carrierAmount},
			{WalletID: platformWallet.ID, Amount: platformCut},
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

		load.ShipperCommission = fare
		load.CarrierCommission = carrierAmount
		load.PlatformCommission = platformCut
		load.SettlementStatus = domain.SettlementPaid
		load.SettledAt = now
		if err := tx.Loads().Update(ctx, load); err != nil {
			return err
		}

		event := &domain.DomainEvent{
			ID:     uuid.New().String(),
			LoadID: loadID,
			Kind:   domain.EventSettlementProcessed,
			Payload: map[string]any{
				"reference":       reference,
				"shipper_amount":  fare.String(),
				"carrier_amount":  carrierAmount.String(),
				"platform_amount": platformCut.String(),
			},
			CreatedAt: now,
		}
		if err := tx.Events().Record(ctx, event); err != nil {
			return err
		}

		result.ShipperAmount = fare
		result.CarrierAmount = carrierAmount
		result.PlatformAmount = platformCut
		result.TransactionID = reference
		shipperOrg = load.ShipperOrgID
		carrierOrg = truck.CarrierOrgID
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrSettlementAlreadyProcessed
		}
		return nil, err
	}

	if s.notifier != nil {
		notifier := s.notifier
		payload := map[string]any{
			"load_id":         loadID,
			"carrier_amount":  result.CarrierAmount.String(),
			"platform_amount": result.PlatformAmount.String(),
		}
		shipper, carrier := shipperOrg, carrierOrg
		dispatch("settlement notifications", func(ctx context.Context) error {
			_ = notifier.Notify(ctx, shipper, NotificationSettlementPaid, payload)
			return notifier.Notify(ctx, carrier, NotificationSettlementPaid, payload)
		})
	}

	return result, nil
}
