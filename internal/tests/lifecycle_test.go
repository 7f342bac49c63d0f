package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
	"github.com/DanielMD1989/freight-managment-sub009/internal/service"
)

// ──────────────────────────────────────────────
// 6. FULL LIFECYCLE
// ──────────────────────────────────────────────

var (
	shipperID = domain.Identity{UserID: "u-shipper", OrganizationID: "shipper-1", Role: domain.RoleShipper}
	carrierID = domain.Identity{UserID: "u-carrier", OrganizationID: "carrier-1", Role: domain.RoleCarrier}
	adminID   = domain.Identity{UserID: "u-admin", OrganizationID: "platform-ops", Role: domain.RoleAdmin}
)

// lifecycleFixture wires every service against one shared state, the way
// the server wires them against one database.
type lifecycleFixture struct {
	mgr        *MockTxManager
	feeLedger  *service.FeeLedgerService
	settlement *service.SettlementService
	assignment *service.AssignmentService
	loads      *service.LoadService
}

func newLifecycleFixture() *lifecycleFixture {
	mgr := NewMockTxManager()

	mgr.Tx.OrgRepo.AddOrg(&domain.Organization{
		ID: "shipper-1", Name: "Desta Trading", CommissionRatePct: d("5"),
	})
	mgr.Tx.OrgRepo.AddOrg(&domain.Organization{
		ID: "carrier-1", Name: "Habesha Haulage", CommissionRatePct: d("5"),
	})

	mgr.Tx.WalletRepo.AddWallet(&domain.Wallet{
		ID: "w-shipper", OrganizationID: "shipper-1",
		Type: domain.WalletTypeShipper, Currency: "ETB", Balance: d("50000"),
	})
	mgr.Tx.WalletRepo.AddWallet(&domain.Wallet{
		ID: "w-carrier", OrganizationID: "carrier-1",
		Type: domain.WalletTypeCarrier, Currency: "ETB", Balance: d("10000"),
	})
	mgr.Tx.WalletRepo.AddWallet(&domain.Wallet{
		ID: "w-platform", OrganizationID: domain.PlatformOrgID,
		Type: domain.WalletTypePlatform, Currency: "ETB", Balance: decimal.Zero,
	})

	mgr.Tx.TruckRepo.AddTruck(&domain.Truck{
		ID: "truck-1", CarrierOrgID: "carrier-1", Plate: "AA-12345", Active: true,
	})

	mgr.Tx.CorridorRepo.AddCorridor(&domain.Corridor{
		ID:                "corridor-1",
		OriginRegion:      "Addis Ababa",
		DestinationRegion: "Djibouti",
		DistanceKm:        d("500"),
		ShipperPricePerKm: d("6"),
		CarrierPricePerKm: d("4"),
	})

	feeLedger := service.NewFeeLedgerService(mgr, nil)
	lockStore := NewMockLockStore()

	return &lifecycleFixture{
		mgr:        mgr,
		feeLedger:  feeLedger,
		settlement: service.NewSettlementService(mgr, nil),
		assignment: service.NewAssignmentService(mgr, mgr.Tx.RequestRepo, mgr.Tx.LoadRepo, lockStore, nil, feeLedger, nil),
		loads:      service.NewLoadService(mgr, feeLedger, nil, nil),
	}
}

func TestLifecycle_PostToCompletion(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	ctx := context.Background()

	// Shipper drafts and posts.
	load, err := f.loads.CreateLoad(ctx, shipperID, service.CreateLoadRequest{
		CorridorID: "corridor-1",
		BaseFare:   d("1000"),
		PricePerKm: d("18"),
		DistanceKm: d("500"),
	})
	if err != nil {
		t.Fatalf("create load: %v", err)
	}
	if load.Status != domain.LoadStatusDraft {
		t.Fatalf("new load status: got %s, want DRAFT", load.Status)
	}
	if !load.TotalFare.Equal(d("10000")) {
		t.Fatalf("total fare: got %s, want 10000", load.TotalFare)
	}

	if _, err := f.loads.UpdateStatus(ctx, shipperID, load.ID, domain.LoadStatusPosted); err != nil {
		t.Fatalf("post load: %v", err)
	}
	if posted := f.mgr.Tx.LoadRepo.GetLoad(load.ID); posted.PostedAt.IsZero() {
		t.Error("posted_at must be set on first POSTED")
	}

	// Carrier requests, dispatcher approves, fee is charged.
	request, err := f.assignment.CreateLoadRequest(ctx, carrierID, load.ID, "truck-1")
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	result, err := f.assignment.ApproveLoadRequest(ctx, dispatcher, request.ID)
	if err != nil {
		t.Fatalf("approve request: %v", err)
	}
	if result.Fee == nil || !result.Fee.TotalPlatformFee.Equal(d("5000")) {
		t.Fatalf("fee after assignment: got %+v, want total 5000", result.Fee)
	}

	// Carrier executes.
	for _, next := range []domain.LoadStatus{
		domain.LoadStatusPickupPending,
		domain.LoadStatusInTransit,
		domain.LoadStatusDelivered,
	} {
		if _, err := f.loads.UpdateStatus(ctx, carrierID, load.ID, next); err != nil {
			t.Fatalf("carrier -> %s: %v", next, err)
		}
		trip := f.mgr.Tx.TripRepo.TripByLoadID(load.ID)
		want, _ := domain.TripStatusForLoad(next)
		if trip.Status != want {
			t.Fatalf("trip status after %s: got %s, want %s", next, trip.Status, want)
		}
	}

	// Proof of delivery.
	if _, err := f.loads.SubmitPOD(ctx, carrierID, load.ID); err != nil {
		t.Fatalf("submit POD: %v", err)
	}
	if _, err := f.loads.VerifyPOD(ctx, adminID, load.ID); err != nil {
		t.Fatalf("verify POD: %v", err)
	}

	// Completion is gated on settlement.
	if _, err := f.loads.UpdateStatus(ctx, adminID, load.ID, domain.LoadStatusCompleted); !errors.Is(err, service.ErrSettlementRequired) {
		t.Fatalf("expected ErrSettlementRequired before settlement, got %v", err)
	}

	settled, err := f.settlement.ProcessSettlement(ctx, load.ID)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if !settled.CarrierAmount.Equal(d("9500")) || !settled.PlatformAmount.Equal(d("500")) {
		t.Fatalf("split: got carrier=%s platform=%s", settled.CarrierAmount, settled.PlatformAmount)
	}

	if _, err := f.loads.UpdateStatus(ctx, adminID, load.ID, domain.LoadStatusCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}

	// Terminal state releases the truck and stops tracking.
	final := f.mgr.Tx.LoadRepo.GetLoad(load.ID)
	if final.Status != domain.LoadStatusCompleted {
		t.Errorf("final status: got %s", final.Status)
	}
	if final.AssignedTruckID != "" {
		t.Error("terminal load must release its truck")
	}
	if final.TrackingEnabled {
		t.Error("terminal load must disable tracking")
	}
	if trip := f.mgr.Tx.TripRepo.TripByLoadID(load.ID); trip.Status != domain.TripStatusCompleted {
		t.Errorf("trip status: got %s, want COMPLETED", trip.Status)
	}

	// Money: shipper paid 3000 fee + 10000 fare, carrier paid 2000 fee
	// and earned 9500, platform holds 5000 fees + 500 commission.
	wallets := f.mgr.Tx.WalletRepo
	if got := wallets.Balance("w-shipper"); !got.Equal(d("37000")) {
		t.Errorf("shipper balance: got %s, want 37000", got)
	}
	if got := wallets.Balance("w-carrier"); !got.Equal(d("17500")) {
		t.Errorf("carrier balance: got %s, want 17500", got)
	}
	if got := wallets.Balance("w-platform"); !got.Equal(d("5500")) {
		t.Errorf("platform balance: got %s, want 5500", got)
	}
}

func TestLifecycle_CancellationRefundsServiceFee(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	ctx := context.Background()

	load, err := f.loads.CreateLoad(ctx, shipperID, service.CreateLoadRequest{CorridorID: "corridor-1", FlatRate: d("10000")})
	if err != nil {
		t.Fatalf("create load: %v", err)
	}
	if _, err := f.loads.UpdateStatus(ctx, shipperID, load.ID, domain.LoadStatusPosted); err != nil {
		t.Fatalf("post: %v", err)
	}
	request, err := f.assignment.CreateLoadRequest(ctx, carrierID, load.ID, "truck-1")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if _, err := f.assignment.ApproveLoadRequest(ctx, dispatcher, request.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	// Admin cancels after the fee was charged.
	if _, err := f.loads.UpdateStatus(ctx, adminID, load.ID, domain.LoadStatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	final := f.mgr.Tx.LoadRepo.GetLoad(load.ID)
	if final.Status != domain.LoadStatusCancelled {
		t.Errorf("status: got %s, want CANCELLED", final.Status)
	}
	if final.ServiceFeeStatus != domain.ServiceFeeRefunded {
		t.Errorf("service fee status: got %s, want REFUNDED", final.ServiceFeeStatus)
	}
	if final.AssignedTruckID != "" {
		t.Error("cancelled load must release its truck")
	}
	if trip := f.mgr.Tx.TripRepo.TripByLoadID(load.ID); trip.Status != domain.TripStatusCancelled {
		t.Errorf("trip status: got %s, want CANCELLED", trip.Status)
	}
	if got := f.mgr.Tx.WalletRepo.Balance("w-platform"); !got.IsZero() {
		t.Errorf("platform balance after refund: got %s, want 0", got)
	}

	// The truck is free for the next load.
	active, err := f.mgr.Tx.LoadRepo.GetActiveByTruckID(ctx, "truck-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if active != nil {
		t.Errorf("truck still busy with load %s", active.ID)
	}
}

func TestLifecycle_RoleScopeEnforcedOnStatusWrites(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	ctx := context.Background()

	load, err := f.loads.CreateLoad(ctx, shipperID, service.CreateLoadRequest{CorridorID: "corridor-1", FlatRate: d("10000")})
	if err != nil {
		t.Fatalf("create load: %v", err)
	}
	if _, err := f.loads.UpdateStatus(ctx, shipperID, load.ID, domain.LoadStatusPosted); err != nil {
		t.Fatalf("post: %v", err)
	}
	request, err := f.assignment.CreateLoadRequest(ctx, carrierID, load.ID, "truck-1")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if _, err := f.assignment.ApproveLoadRequest(ctx, dispatcher, request.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	// Shipper may not drive execution statuses.
	if _, err := f.loads.UpdateStatus(ctx, shipperID, load.ID, domain.LoadStatusInTransit); !errors.Is(err, domain.ErrRoleNotPermitted) {
		t.Fatalf("shipper in transit: expected ErrRoleNotPermitted, got %v", err)
	}

	// Carrier may not cancel.
	if _, err := f.loads.UpdateStatus(ctx, carrierID, load.ID, domain.LoadStatusCancelled); !errors.Is(err, domain.ErrRoleNotPermitted) {
		t.Fatalf("carrier cancel: expected ErrRoleNotPermitted, got %v", err)
	}

	// A foreign carrier may not touch the load at all.
	foreign := domain.Identity{UserID: "u-f", OrganizationID: "carrier-9", Role: domain.RoleCarrier}
	if _, err := f.loads.UpdateStatus(ctx, foreign, load.ID, domain.LoadStatusInTransit); !errors.Is(err, service.ErrNotOwner) {
		t.Fatalf("foreign carrier: expected ErrNotOwner, got %v", err)
	}
}

func TestLifecycle_PODGuards(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	ctx := context.Background()

	load, err := f.loads.CreateLoad(ctx, shipperID, service.CreateLoadRequest{CorridorID: "corridor-1", FlatRate: d("10000")})
	if err != nil {
		t.Fatalf("create load: %v", err)
	}

	// POD only applies to delivered loads.
	if _, err := f.loads.SubmitPOD(ctx, shipperID, load.ID); !errors.Is(err, service.ErrLoadNotDelivered) {
		t.Fatalf("expected ErrLoadNotDelivered, got %v", err)
	}

	// Verification requires a submission and an admin-type role.
	stored := f.mgr.Tx.LoadRepo.GetLoad(load.ID)
	stored.Status = domain.LoadStatusDelivered
	f.mgr.Tx.LoadRepo.AddLoad(stored)

	if _, err := f.loads.VerifyPOD(ctx, carrierID, load.ID); !errors.Is(err, service.ErrNotOwner) {
		t.Fatalf("carrier verify: expected ErrNotOwner, got %v", err)
	}
	if _, err := f.loads.VerifyPOD(ctx, adminID, load.ID); !errors.Is(err, service.ErrPODNotSubmitted) {
		t.Fatalf("verify before submit: expected ErrPODNotSubmitted, got %v", err)
	}

	if _, err := f.loads.SubmitPOD(ctx, shipperID, load.ID); err != nil {
		t.Fatalf("submit POD: %v", err)
	}
	// Repeated submission is a no-op.
	if _, err := f.loads.SubmitPOD(ctx, shipperID, load.ID); err != nil {
		t.Fatalf("repeat submit POD: %v", err)
	}
	if got := f.mgr.Tx.EventRepo.CountEvents(load.ID, domain.EventPODSubmitted); got != 1 {
		t.Errorf("POD_SUBMITTED events: got %d, want 1", got)
	}

	if _, err := f.loads.VerifyPOD(ctx, adminID, load.ID); err != nil {
		t.Fatalf("verify POD: %v", err)
	}
}

func TestLifecycle_UnpostAndRepost(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	ctx := context.Background()

	load, err := f.loads.CreateLoad(ctx, shipperID, service.CreateLoadRequest{CorridorID: "corridor-1", FlatRate: d("10000")})
	if err != nil {
		t.Fatalf("create load: %v", err)
	}

	steps := []domain.LoadStatus{
		domain.LoadStatusPosted,
		domain.LoadStatusUnposted,
		domain.LoadStatusPosted,
	}
	for _, next := range steps {
		if _, err := f.loads.UpdateStatus(ctx, shipperID, load.ID, next); err != nil {
			t.Fatalf("shipper -> %s: %v", next, err)
		}
	}

	if got := f.mgr.Tx.EventRepo.CountEvents(load.ID, domain.EventLoadStatusChanged); got != 3 {
		t.Errorf("LOAD_STATUS_CHANGED events: got %d, want 3", got)
	}
}
