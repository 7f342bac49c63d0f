package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
	"github.com/DanielMD1989/freight-managment-sub009/internal/redis"
	"github.com/DanielMD1989/freight-managment-sub009/internal/repository"
)

// LoadService owns the load status write path: validation, ownership, the
// transactional status write with trip synchronization and terminal
// unassignment, and the non-critical effects that follow it.
type LoadService struct {
	txm        repository.TxManager
	feeLedger  *FeeLedgerService
	cacheStore redis.CacheStoreInterface
	notifier   Notifier
}

// NewLoadService creates a new LoadService.
func NewLoadService(
	txm repository.TxManager,
	feeLedger *FeeLedgerService,
	cacheStore redis.CacheStoreInterface,
	notifier Notifier,
) *LoadService {
	return &LoadService{
		txm:        txm,
		feeLedger:  feeLedger,
		cacheStore: cacheStore,
		notifier:   notifier,
	}
}

// CreateLoadRequest contains the parameters for creating a load.
type CreateLoadRequest struct {
	CorridorID string
	BaseFare   decimal.Decimal
	PricePerKm decimal.Decimal
	DistanceKm decimal.Decimal
	FlatRate   decimal.Decimal
	Currency   string
}

// CreateLoad creates a load in DRAFT for the acting shipper organization.
func (s *LoadService) CreateLoad(ctx context.Context, identity domain.Identity, req CreateLoadRequest) (*domain.Load, error) {
	if identity.OrganizationID == "" {
		return nil, ErrInvalidOrgID
	}
	if identity.Role != domain.RoleShipper && !identity.Role.BypassesRoleScope() {
		return nil, ErrNotOwner
	}

	currency := req.Currency
	if currency == "" {
		currency = "ETB"
	}

	load := &domain.Load{
		ID:               uuid.New().String(),
		ShipperOrgID:     identity.OrganizationID,
		CorridorID:       req.CorridorID,
		Status:           domain.LoadStatusDraft,
		BaseFare:         req.BaseFare,
		PricePerKm:       req.PricePerKm,
		DistanceKm:       req.DistanceKm,
		FlatRate:         req.FlatRate,
		Currency:         currency,
		ServiceFeeStatus: domain.ServiceFeePending,
		SettlementStatus: domain.SettlementUnsettled,
		CreatedAt:        time.Now(),
	}

	if req.DistanceKm.IsPositive() && req.PricePerKm.IsPositive() {
		load.TotalFare = req.BaseFare.Add(req.DistanceKm.Mul(req.PricePerKm)).Round(2)
	} else {
		load.TotalFare = req.FlatRate
	}

	err := s.txm.RunInTx(ctx, func(tx repository.Tx) error {
		if req.CorridorID != "" {
			if _, err := tx.Corridors().GetByID(ctx, req.CorridorID); err != nil {
				return err
			}
		}
		return tx.Loads().Create(ctx, load)
	})
	if err != nil {
		return nil, err
	}

	return load, nil
}

// UpdateStatus moves a load to the requested status. The structural and
// role validation, the ownership check, the load write, the trip sync and
// the terminal unassignment all run against state re-read inside one
// transaction.
func (s *LoadService) UpdateStatus(ctx context.Context, identity domain.Identity, loadID string, requested domain.LoadStatus) (*domain.Load, error) {
	if loadID == "" {
		return nil, ErrInvalidLoadID
	}
	if !identity.Role.IsValid() {
		return nil, ErrInvalidRole
	}

	var updated *domain.Load
	var previous domain.LoadStatus

	err := s.txm.RunInTx(ctx, func(tx repository.Tx) error {
		load, err := tx.Loads().GetByID(ctx, loadID)
		if err != nil {
			return err
		}
		previous = load.Status

		if err := domain.ValidateTransition(load.Status, requested, identity.Role); err != nil {
			return err
		}

		if err := s.checkOwnership(ctx, tx, identity, load); err != nil {
			return err
		}

		if requested == domain.LoadStatusCompleted && load.SettlementStatus != domain.SettlementPaid {
			return ErrSettlementRequired
		}

		now := time.Now()
		load.Status = requested
		if requested == domain.LoadStatusPosted && load.PostedAt.IsZero() {
			load.PostedAt = now
		}

		if requested.IsTerminal() {
			load.AssignedTruckID = ""
			load.TrackingEnabled = false
		}

		if tripStatus, ok := domain.TripStatusForLoad(requested); ok {
			trip, err := tx.Trips().GetByLoadID(ctx, loadID)
			if err != nil {
				return err
			}
			if trip != nil && trip.Status != tripStatus {
				if err := tx.Trips().UpdateStatusByLoadID(ctx, loadID, tripStatus); err != nil {
					return err
				}
			}
		}

		if err := tx.Loads().Update(ctx, load); err != nil {
			return err
		}

		event := &domain.DomainEvent{
			ID:     uuid.New().String(),
			LoadID: loadID,
			Kind:   domain.EventLoadStatusChanged,
			Payload: map[string]any{
				"from":    string(previous),
				"to":      string(requested),
				"user_id": identity.UserID,
				"role":    string(identity.Role),
			},
			CreatedAt: now,
		}
		if err := tx.Events().Record(ctx, event); err != nil {
			return err
		}

		updated = load
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Cancellation after the fee was charged refunds it. The refund is
	// idempotent and retriable; its failure never unwinds the transition.
	if requested == domain.LoadStatusCancelled && updated.ServiceFeeStatus == domain.ServiceFeeDeducted && s.feeLedger != nil {
		if _, err := s.feeLedger.RefundServiceFee(ctx, loadID); err != nil {
			log.Printf("service fee refund failed for load %s: %v", loadID, err)
		}
	}

	s.afterStatusChange(identity, updated, previous)

	return updated, nil
}

// SubmitPOD records proof-of-delivery submission by the hauling carrier.
func (s *LoadService) SubmitPOD(ctx context.Context, identity domain.Identity, loadID string) (*domain.Load, error) {
	if loadID == "" {
		return nil, ErrInvalidLoadID
	}

	var updated *domain.Load

	err := s.txm.RunInTx(ctx, func(tx repository.Tx) error {
		load, err := tx.Loads().GetByID(ctx, loadID)
		if err != nil {
			return err
		}
		if load.Status != domain.LoadStatusDelivered {
			return ErrLoadNotDelivered
		}
		if err := s.checkOwnership(ctx, tx, identity, load); err != nil {
			return err
		}
		if load.PODSubmitted {
			updated = load
			return nil
		}

		load.PODSubmitted = true
		if err := tx.Loads().Update(ctx, load); err != nil {
			return err
		}

		event := &domain.DomainEvent{
			ID:        uuid.New().String(),
			LoadID:    loadID,
			Kind:      domain.EventPODSubmitted,
			Payload:   map[string]any{"user_id": identity.UserID},
			CreatedAt: time.Now(),
		}
		if err := tx.Events().Record(ctx, event); err != nil {
			return err
		}

		updated = load
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// VerifyPOD records admin verification of a submitted proof of delivery.
func (s *LoadService) VerifyPOD(ctx context.Context, identity domain.Identity, loadID string) (*domain.Load, error) {
	if loadID == "" {
		return nil, ErrInvalidLoadID
	}
	if !identity.Role.BypassesRoleScope() {
		return nil, ErrNotOwner
	}

	var updated *domain.Load

	err := s.txm.RunInTx(ctx, func(tx repository.Tx) error {
		load, err := tx.Loads().GetByID(ctx, loadID)
		if err != nil {
			return err
		}
		if !load.PODSubmitted {
			return ErrPODNotSubmitted
		}
		if load.PODVerified {
			updated = load
			return nil
		}

		load.PODVerified = true
		if err := tx.Loads().Update(ctx, load); err != nil {
			return err
		}

		event := &domain.DomainEvent{
			ID:        uuid.New().String(),
			LoadID:    loadID,
			Kind:      domain.EventPODVerified,
			Payload:   map[string]any{"user_id": identity.UserID},
			CreatedAt: time.Now(),
		}
		if err := tx.Events().Record(ctx, event); err != nil {
			return err
		}

		updated = load
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// checkOwnership verifies the acting organization may act on the load:
// shippers must own it, carriers must be hauling it. Admin-type roles pass.
func (s *LoadService) checkOwnership(ctx context.Context, tx repository.Tx, identity domain.Identity, load *domain.Load) error {
	if identity.Role.BypassesRoleScope() {
		return nil
	}

	switch identity.Role {
	case domain.RoleShipper:
		if load.ShipperOrgID != identity.OrganizationID {
			return ErrNotOwner
		}
	case domain.RoleCarrier:
		trip, err := tx.Trips().GetByLoadID(ctx, load.ID)
		if err != nil {
			return err
		}
		if trip == nil || trip.CarrierOrgID != identity.OrganizationID {
			return ErrNotOwner
		}
	default:
		return ErrInvalidRole
	}

	return nil
}

func (s *LoadService) afterStatusChange(identity domain.Identity, load *domain.Load, previous domain.LoadStatus) {
	if s.cacheStore != nil {
		cache := s.cacheStore
		loadID := load.ID
		dispatch("load cache invalidation", func(ctx context.Context) error {
			return cache.InvalidateLoad(ctx, loadID)
		})
	}

	if s.notifier != nil {
		notifier := s.notifier
		recipient := load.ShipperOrgID
		kind := NotificationLoadStatusChanged
		if load.Status == domain.LoadStatusPosted {
			kind = NotificationLoadPosted
		}
		payload := map[string]any{
			"load_id": load.ID,
			"from":    string(previous),
			"to":      string(load.Status),
		}
		dispatch("status notification", func(ctx context.Context) error {
			return notifier.Notify(ctx, recipient, kind, payload)
		})
	}
}
