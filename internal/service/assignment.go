package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
	"github.com/DanielMD1989/freight-managment-sub009/internal/redis"
	"github.com/DanielMD1989/freight-managment-sub009/internal/repository"
)

const truckLockTTL = 10 * time.Second

// assignableStatuses are the load statuses open for carrier load requests.
// Approval itself re-validates against the transition table.
var assignableStatuses = map[domain.LoadStatus]bool{
	domain.LoadStatusPosted:    true,
	domain.LoadStatusSearching: true,
	domain.LoadStatusOffered:   true,
}

// ApproveResult contains the outcome of approving a load request.
type ApproveResult struct {
	Load       *domain.Load
	Trip       *domain.Trip
	Idempotent bool
	Fee        *FeeOpResult // nil when fee deduction did not run or failed
}

// AssignmentService approves carrier requests for loads and keeps the
// derived trip record consistent with the assignment.
type AssignmentService struct {
	txm         repository.TxManager
	requestRepo repository.LoadRequestRepository
	loadRepo    repository.LoadRepository
	lockStore   redis.LockStoreInterface
	cacheStore  redis.CacheStoreInterface
	feeLedger   *FeeLedgerService
	notifier    Notifier
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(
	txm repository.TxManager,
	requestRepo repository.LoadRequestRepository,
	loadRepo repository.LoadRepository,
	lockStore redis.LockStoreInterface,
	cacheStore redis.CacheStoreInterface,
	feeLedger *FeeLedgerService,
	notifier Notifier,
) *AssignmentService {
	return &AssignmentService{
		txm:         txm,
		requestRepo: requestRepo,
		loadRepo:    loadRepo,
		lockStore:   lockStore,
		cacheStore:  cacheStore,
		feeLedger:   feeLedger,
		notifier:    notifier,
	}
}

// CreateLoadRequest records a carrier's offer to haul a load with a truck.
func (s *AssignmentService) CreateLoadRequest(ctx context.Context, identity domain.Identity, loadID, truckID string) (*domain.LoadRequest, error) {
	if loadID == "" {
		return nil, ErrInvalidLoadID
	}
	if truckID == "" {
		return nil, ErrInvalidTruckID
	}

	var request *domain.LoadRequest

	err := s.txm.RunInTx(ctx, func(tx repository.Tx) error {
		load, err := tx.Loads().GetByID(ctx, loadID)
		if err != nil {
			return err
		}
		if !assignableStatuses[load.Status] {
			return ErrLoadNotAssignable
		}

		truck, err := tx.Trucks().GetByID(ctx, truckID)
		if err != nil {
			return err
		}
		if identity.Role == domain.RoleCarrier && truck.CarrierOrgID != identity.OrganizationID {
			return ErrNotOwner
		}

		request = &domain.LoadRequest{
			ID:           uuid.New().String(),
			LoadID:       loadID,
			TruckID:      truckID,
			CarrierOrgID: truck.CarrierOrgID,
			Status:       domain.LoadRequestPending,
			CreatedAt:    time.Now(),
		}
		return tx.LoadRequests().Create(ctx, request)
	})
	if err != nil {
		return nil, err
	}

	return request, nil
}

// ApproveLoadRequest assigns the request's truck to its load. The
// already-assigned check, the truck-busy check, the status write, the trip
// creation and the clearing of competing requests all happen in one
// transaction against freshly re-read state; a Redis truck lock narrows the
// race window and the storage uniqueness constraints close it.
func (s *AssignmentService) ApproveLoadRequest(ctx context.Context, identity domain.Identity, requestID string) (*ApproveResult, error) {
	if requestID == "" {
		return nil, ErrInvalidRequestID
	}
	if identity.Role == domain.RoleCarrier {
		return nil, ErrNotOwner
	}

	// Pre-read for the lock key only; all decisions use in-tx re-reads.
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireTruckLock(ctx, request.TruckID, truckLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrAssignmentConflict
		}
		defer func() {
			_ = s.lockStore.ReleaseTruckLock(ctx, request.TruckID)
		}()
	}

	result := &ApproveResult{}

	err = s.txm.RunInTx(ctx, func(tx repository.Tx) error {
		request, err := tx.LoadRequests().GetByID(ctx, requestID)
		if err != nil {
			return err
		}

		load, err := tx.Loads().GetByID(ctx, request.LoadID)
		if err != nil {
			return err
		}

		if identity.Role == domain.RoleShipper && load.ShipperOrgID != identity.OrganizationID {
			return ErrNotOwner
		}

		if request.Status == domain.LoadRequestApproved {
			// Re-approving an already-approved request matching the
			// current assignment is a no-op, not an error.
			if load.AssignedTruckID == request.TruckID {
				result.Idempotent = true
				result.Load = load
				return nil
			}
			return ErrRequestNotPending
		}
		if request.Status != domain.LoadRequestPending {
			return ErrRequestNotPending
		}

		if load.AssignedTruckID != "" {
			return ErrLoadAlreadyAssigned
		}

		// The transition granted here is the carrier's ASSIGNED request;
		// the approver's authority over the load is checked above.
		if err := domain.ValidateTransition(load.Status, domain.LoadStatusAssigned, domain.RoleCarrier); err != nil {
			if errors.Is(err, domain.ErrInvalidTransition) {
				return ErrLoadNotAssignable
			}
			return err
		}

		active, err := tx.Loads().GetActiveByTruckID(ctx, request.TruckID)
		if err != nil {
			return err
		}
		if active != nil {
			return ErrTruckBusy
		}

		truck, err := tx.Trucks().GetByID(ctx, request.TruckID)
		if err != nil {
			return err
		}

		now := time.Now()

		load.Status = domain.LoadStatusAssigned
		load.AssignedTruckID = request.TruckID
		load.AssignedAt = now
		load.TrackingEnabled = true
		if err := tx.Loads().Update(ctx, load); err != nil {
			return err
		}

		trip := &domain.Trip{
			ID:           uuid.New().String(),
			LoadID:       load.ID,
			TruckID:      request.TruckID,
			CarrierOrgID: truck.CarrierOrgID,
			Status:       domain.TripStatusAssigned,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Trips().Create(ctx, trip); err != nil {
			return err
		}

		request.Status = domain.LoadRequestApproved
		request.DecidedAt = now
		if err := tx.LoadRequests().Update(ctx, request); err != nil {
			return err
		}

		if err := tx.LoadRequests().ClearPendingForLoad(ctx, load.ID, request.ID); err != nil {
			return err
		}

		event := &domain.DomainEvent{
			ID:     uuid.New().String(),
			LoadID: load.ID,
			Kind:   domain.EventLoadAssigned,
			Payload: map[string]any{
				"truck_id":    request.TruckID,
				"request_id":  request.ID,
				"carrier_org": truck.CarrierOrgID,
			},
			CreatedAt: now,
		}
		if err := tx.Events().Record(ctx, event); err != nil {
			return err
		}

		result.Load = load
		result.Trip = trip
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAssignmentConflict
		}
		return nil, err
	}

	if result.Idempotent {
		return result, nil
	}

	// Fee deduction follows the assignment commit. It is idempotent and
	// retriable, so its failure must not unwind the assignment.
	if s.feeLedger != nil {
		fee, err := s.feeLedger.DeductServiceFee(ctx, result.Load.ID)
		if err != nil {
			log.Printf("service fee deduction failed for load %s: %v", result.Load.ID, err)
		} else {
			result.Fee = fee
		}
	}

	s.invalidateLoad(result.Load.ID)

	if s.notifier != nil && result.Trip != nil {
		notifier := s.notifier
		carrierOrg := result.Trip.CarrierOrgID
		payload := map[string]any{
			"load_id": result.Load.ID,
			"trip_id": result.Trip.ID,
		}
		dispatch("assignment notification", func(ctx context.Context) error {
			return notifier.Notify(ctx, carrierOrg, NotificationLoadAssigned, payload)
		})
	}

	return result, nil
}

func (s *AssignmentService) invalidateLoad(loadID string) {
	if s.cacheStore == nil {
		return
	}
	cache := s.cacheStore
	dispatch("load cache invalidation", func(ctx context.Context) error {
		return cache.InvalidateLoad(ctx, loadID)
	})
}
