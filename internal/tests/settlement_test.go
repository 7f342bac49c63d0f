package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
	"github.com/DanielMD1989/freight-managment-sub009/internal/service"
)

// ──────────────────────────────────────────────
// 4. SETTLEMENT
// ──────────────────────────────────────────────

// settlementFixture is a delivered, POD-verified load ready to settle.
type settlementFixture struct {
	mgr        *MockTxManager
	settlement *service.SettlementService
}

func newSettlementFixture() *settlementFixture {
	mgr := NewMockTxManager()

	mgr.Tx.OrgRepo.AddOrg(&domain.Organization{
		ID: "shipper-1", Name: "Desta Trading", CommissionRatePct: d("5"),
	})

	mgr.Tx.WalletRepo.AddWallet(&domain.Wallet{
		ID: "w-shipper", OrganizationID: "shipper-1",
		Type: domain.WalletTypeShipper, Currency: "ETB", Balance: d("20000"),
	})
	mgr.Tx.WalletRepo.AddWallet(&domain.Wallet{
		ID: "w-carrier", OrganizationID: "carrier-1",
		Type: domain.WalletTypeCarrier, Currency: "ETB", Balance: decimal.Zero,
	})
	mgr.Tx.WalletRepo.AddWallet(&domain.Wallet{
		ID: "w-platform", OrganizationID: domain.PlatformOrgID,
		Type: domain.WalletTypePlatform, Currency: "ETB", Balance: decimal.Zero,
	})

	mgr.Tx.TruckRepo.AddTruck(&domain.Truck{
		ID: "truck-1", CarrierOrgID: "carrier-1", Plate: "AA-12345", Active: true,
	})

	mgr.Tx.LoadRepo.AddLoad(&domain.Load{
		ID:               "load-1",
		ShipperOrgID:     "shipper-1",
		AssignedTruckID:  "truck-1",
		Status:           domain.LoadStatusDelivered,
		TotalFare:        d("10000"),
		Currency:         "ETB",
		ServiceFeeStatus: domain.ServiceFeeDeducted,
		SettlementStatus: domain.SettlementUnsettled,
		PODSubmitted:     true,
		PODVerified:      true,
		CreatedAt:        time.Now(),
	})

	return &settlementFixture{
		mgr:        mgr,
		settlement: service.NewSettlementService(mgr, nil),
	}
}

func TestProcessSettlement_SplitsFareByCommissionRate(t *testing.T) {
	t.Parallel()

	f := newSettlementFixture()
	result, err := f.settlement.ProcessSettlement(context.Background(), "load-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 10000 at 5%: platform 500, carrier 9500.
	if !result.ShipperAmount.Equal(d("10000")) {
		t.Errorf("shipper amount: got %s, want 10000", result.ShipperAmount)
	}
	if !result.CarrierAmount.Equal(d("9500")) {
		t.Errorf("carrier amount: got %s, want 9500", result.CarrierAmount)
	}
	if !result.PlatformAmount.Equal(d("500")) {
		t.Errorf("platform amount: got %s, want 500", result.PlatformAmount)
	}

	wallets := f.mgr.Tx.WalletRepo
	if got := wallets.Balance("w-shipper"); !got.Equal(d("10000")) {
		t.Errorf("shipper balance: got %s, want 10000", got)
	}
	if got := wallets.Balance("w-carrier"); !got.Equal(d("9500")) {
		t.Errorf("carrier balance: got %s, want 9500", got)
	}
	if got := wallets.Balance("w-platform"); !got.Equal(d("500")) {
		t.Errorf("platform balance: got %s, want 500", got)
	}

	load := f.mgr.Tx.LoadRepo.GetLoad("load-1")
	if load.SettlementStatus != domain.SettlementPaid {
		t.Errorf("settlement status: got %s, want PAID", load.SettlementStatus)
	}
	if load.SettledAt.IsZero() {
		t.Error("settled_at must be set")
	}
	if !load.PlatformCommission.Equal(d("500")) || !load.CarrierCommission.Equal(d("9500")) {
		t.Errorf("commissions: got platform=%s carrier=%s", load.PlatformCommission, load.CarrierCommission)
	}
	if got := f.mgr.Tx.LedgerRepo.CountEntries(domain.TxnSettlement); got != 1 {
		t.Errorf("SETTLEMENT entries: got %d, want 1", got)
	}
}

func TestProcessSettlement_SettlementLinesSumToZero(t *testing.T) {
	t.Parallel()

	f := newSettlementFixture()
	if _, err := f.settlement.ProcessSettlement(context.Background(), "load-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := f.mgr.Tx.LedgerRepo.ListByLoadID(context.Background(), "load-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	sum := decimal.Zero
	for _, line := range entries[0].Lines {
		sum = sum.Add(line.Amount)
	}
	if !sum.IsZero() {
		t.Errorf("settlement lines must sum to zero, got %s", sum)
	}
}

func TestProcessSettlement_Idempotent(t *testing.T) {
	t.Parallel()

	f := newSettlementFixture()
	ctx := context.Background()
	if _, err := f.settlement.ProcessSettlement(ctx, "load-1"); err != nil {
		t.Fatalf("first settlement failed: %v", err)
	}

	_, err := f.settlement.ProcessSettlement(ctx, "load-1")
	if !errors.Is(err, service.ErrSettlementAlreadyProcessed) {
		t.Fatalf("expected ErrSettlementAlreadyProcessed, got %v", err)
	}

	// No double pay.
	if got := f.mgr.Tx.WalletRepo.Balance("w-carrier"); !got.Equal(d("9500")) {
		t.Errorf("carrier balance after repeat: got %s, want 9500", got)
	}
	if got := f.mgr.Tx.LedgerRepo.CountEntries(domain.TxnSettlement); got != 1 {
		t.Errorf("SETTLEMENT entries after repeat: got %d, want 1", got)
	}
}

func TestProcessSettlement_RequiresDeliveredStatus(t *testing.T) {
	t.Parallel()

	f := newSettlementFixture()
	load := f.mgr.Tx.LoadRepo.GetLoad("load-1")
	load.Status = domain.LoadStatusInTransit
	f.mgr.Tx.LoadRepo.AddLoad(load)

	_, err := f.settlement.ProcessSettlement(context.Background(), "load-1")
	if !errors.Is(err, service.ErrLoadNotDelivered) {
		t.Fatalf("expected ErrLoadNotDelivered, got %v", err)
	}
}

func TestProcessSettlement_RequiresVerifiedPOD(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		submitted bool
		verified  bool
	}{
		{"not submitted", false, false},
		{"submitted not verified", true, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newSettlementFixture()
			load := f.mgr.Tx.LoadRepo.GetLoad("load-1")
			load.PODSubmitted = tc.submitted
			load.PODVerified = tc.verified
			f.mgr.Tx.LoadRepo.AddLoad(load)

			_, err := f.settlement.ProcessSettlement(context.Background(), "load-1")
			if !errors.Is(err, service.ErrPODNotVerified) {
				t.Fatalf("expected ErrPODNotVerified, got %v", err)
			}
		})
	}
}

func TestProcessSettlement_RejectsOutOfRangeCommissionRate(t *testing.T) {
	t.Parallel()

	for _, rate := range []string{"0", "-1", "10.5", "12"} {
		f := newSettlementFixture()
		f.mgr.Tx.OrgRepo.AddOrg(&domain.Organization{
			ID: "shipper-1", Name: "Desta Trading", CommissionRatePct: d(rate),
		})

		_, err := f.settlement.ProcessSettlement(context.Background(), "load-1")
		if !errors.Is(err, service.ErrInvalidCommissionRate) {
			t.Fatalf("rate %s: expected ErrInvalidCommissionRate, got %v", rate, err)
		}
	}
}

func TestProcessSettlement_UsesFlatRateWhenNoTotalFare(t *testing.T) {
	t.Parallel()

	f := newSettlementFixture()
	load := f.mgr.Tx.LoadRepo.GetLoad("load-1")
	load.TotalFare = decimal.Zero
	load.FlatRate = d("8000")
	f.mgr.Tx.LoadRepo.AddLoad(load)

	result, err := f.settlement.ProcessSettlement(context.Background(), "load-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.PlatformAmount.Equal(d("400")) {
		t.Errorf("platform amount: got %s, want 400", result.PlatformAmount)
	}
	if !result.CarrierAmount.Equal(d("7600")) {
		t.Errorf("carrier amount: got %s, want 7600", result.CarrierAmount)
	}
}

func TestProcessSettlement_MidTxFailureLeavesNoPartialState(t *testing.T) {
	t.Parallel()

	f := newSettlementFixture()
	f.mgr.Tx.WalletRepo.AdjustBalanceError = errors.New("connection reset")

	_, err := f.settlement.ProcessSettlement(context.Background(), "load-1")
	if err == nil {
		t.Fatal("expected error")
	}

	if got := f.mgr.Tx.WalletRepo.Balance("w-shipper"); !got.Equal(d("20000")) {
		t.Errorf("shipper balance: got %s, want 20000", got)
	}
	if got := f.mgr.Tx.LedgerRepo.CountEntries(domain.TxnSettlement); got != 0 {
		t.Errorf("SETTLEMENT entries: got %d, want 0", got)
	}
	load := f.mgr.Tx.LoadRepo.GetLoad("load-1")
	if load.SettlementStatus != domain.SettlementUnsettled {
		t.Errorf("settlement status: got %s, want UNSETTLED", load.SettlementStatus)
	}
	if got := f.mgr.Tx.EventRepo.CountEvents("load-1", domain.EventSettlementProcessed); got != 0 {
		t.Errorf("events: got %d, want 0", got)
	}

	// Retry succeeds once the fault clears.
	f.mgr.Tx.WalletRepo.AdjustBalanceError = nil
	if _, err := f.settlement.ProcessSettlement(context.Background(), "load-1"); err != nil {
		t.Fatalf("retry after fault failed: %v", err)
	}
}
