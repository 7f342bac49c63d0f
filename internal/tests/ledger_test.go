package tests

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
	"github.com/DanielMD1989/freight-managment-sub009/internal/service"
)

// ──────────────────────────────────────────────
// 3. SERVICE FEE LEDGER
// ──────────────────────────────────────────────

// feeFixture is the common setup for fee ledger tests: an assigned corridor
// load with funded shipper and carrier wallets.
type feeFixture struct {
	mgr       *MockTxManager
	feeLedger *service.FeeLedgerService
}

func newFeeFixture() *feeFixture {
	mgr := NewMockTxManager()

	mgr.Tx.WalletRepo.AddWallet(&domain.Wallet{
		ID: "w-shipper", OrganizationID: "shipper-1",
		Type: domain.WalletTypeShipper, Currency: "ETB", Balance: d("10000"),
	})
	mgr.Tx.WalletRepo.AddWallet(&domain.Wallet{
		ID: "w-carrier", OrganizationID: "carrier-1",
		Type: domain.WalletTypeCarrier, Currency: "ETB", Balance: d("5000"),
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
		DistanceKm:        d("500"),
		ShipperPricePerKm: d("6"),
		CarrierPricePerKm: d("4"),
	})

	mgr.Tx.LoadRepo.AddLoad(&domain.Load{
		ID:               "load-1",
		ShipperOrgID:     "shipper-1",
		CorridorID:       "corridor-1",
		AssignedTruckID:  "truck-1",
		Status:           domain.LoadStatusAssigned,
		TotalFare:        d("10000"),
		Currency:         "ETB",
		ServiceFeeStatus: domain.ServiceFeePending,
		SettlementStatus: domain.SettlementUnsettled,
		CreatedAt:        time.Now(),
	})

	return &feeFixture{
		mgr:       mgr,
		feeLedger: service.NewFeeLedgerService(mgr, nil),
	}
}

func TestDeductServiceFee_MovesFeesToPlatform(t *testing.T) {
	t.Parallel()

	f := newFeeFixture()
	result, err := f.feeLedger.DeductServiceFee(context.Background(), "load-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.ShipperFee.Equal(d("3000")) {
		t.Errorf("shipper fee: got %s, want 3000", result.ShipperFee)
	}
	if !result.CarrierFee.Equal(d("2000")) {
		t.Errorf("carrier fee: got %s, want 2000", result.CarrierFee)
	}
	if !result.TotalPlatformFee.Equal(d("5000")) {
		t.Errorf("total fee: got %s, want 5000", result.TotalPlatformFee)
	}

	wallets := f.mgr.Tx.WalletRepo
	if got := wallets.Balance("w-shipper"); !got.Equal(d("7000")) {
		t.Errorf("shipper balance: got %s, want 7000", got)
	}
	if got := wallets.Balance("w-carrier"); !got.Equal(d("3000")) {
		t.Errorf("carrier balance: got %s, want 3000", got)
	}
	if got := wallets.Balance("w-platform"); !got.Equal(d("5000")) {
		t.Errorf("platform balance: got %s, want 5000", got)
	}

	load := f.mgr.Tx.LoadRepo.GetLoad("load-1")
	if load.ServiceFeeStatus != domain.ServiceFeeDeducted {
		t.Errorf("service fee status: got %s, want DEDUCTED", load.ServiceFeeStatus)
	}
	if !load.ServiceFeeAmount.Equal(d("5000")) {
		t.Errorf("service fee amount: got %s, want 5000", load.ServiceFeeAmount)
	}

	if got := f.mgr.Tx.LedgerRepo.CountEntries(domain.TxnServiceFee); got != 2 {
		t.Errorf("SERVICE_FEE entries: got %d, want 2", got)
	}
	if got := f.mgr.Tx.EventRepo.CountEvents("load-1", domain.EventServiceFeeDeducted); got != 1 {
		t.Errorf("SERVICE_FEE_DEDUCTED events: got %d, want 1", got)
	}
}

func TestDeductServiceFee_BalancesMatchLedgerHistory(t *testing.T) {
	t.Parallel()

	f := newFeeFixture()
	if _, err := f.feeLedger.DeductServiceFee(context.Background(), "load-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Every balance delta must be reconstructable from journal lines.
	for _, walletID := range []string{"w-shipper", "w-carrier", "w-platform"} {
		sum, err := f.mgr.Tx.LedgerRepo.SumByWalletID(context.Background(), walletID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var initial decimal.Decimal
		switch walletID {
		case "w-shipper":
			initial = d("10000")
		case "w-carrier":
			initial = d("5000")
		default:
			initial = decimal.Zero
		}

		if got := f.mgr.Tx.WalletRepo.Balance(walletID); !got.Equal(initial.Add(sum)) {
			t.Errorf("%s: balance %s does not match initial %s + ledger sum %s", walletID, got, initial, sum)
		}
	}
}

func TestDeductServiceFee_Idempotent(t *testing.T) {
	t.Parallel()

	f := newFeeFixture()
	if _, err := f.feeLedger.DeductServiceFee(context.Background(), "load-1"); err != nil {
		t.Fatalf("first deduction failed: %v", err)
	}

	_, err := f.feeLedger.DeductServiceFee(context.Background(), "load-1")
	if !errors.Is(err, service.ErrServiceFeeAlreadyDeducted) {
		t.Fatalf("expected ErrServiceFeeAlreadyDeducted, got %v", err)
	}

	// No double charge.
	if got := f.mgr.Tx.WalletRepo.Balance("w-shipper"); !got.Equal(d("7000")) {
		t.Errorf("shipper balance after repeat: got %s, want 7000", got)
	}
	if got := f.mgr.Tx.LedgerRepo.CountEntries(domain.TxnServiceFee); got != 2 {
		t.Errorf("SERVICE_FEE entries after repeat: got %d, want 2", got)
	}
}

func TestDeductServiceFee_ShipperOnlyBeforeAssignment(t *testing.T) {
	t.Parallel()

	f := newFeeFixture()
	load := f.mgr.Tx.LoadRepo.GetLoad("load-1")
	load.AssignedTruckID = ""
	load.Status = domain.LoadStatusPosted
	f.mgr.Tx.LoadRepo.AddLoad(load)

	result, err := f.feeLedger.DeductServiceFee(context.Background(), "load-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.CarrierFee.IsZero() {
		t.Errorf("carrier fee before assignment: got %s, want 0", result.CarrierFee)
	}
	if !result.TotalPlatformFee.Equal(d("3000")) {
		t.Errorf("total fee: got %s, want 3000", result.TotalPlatformFee)
	}
	if got := f.mgr.Tx.WalletRepo.Balance("w-carrier"); !got.Equal(d("5000")) {
		t.Errorf("carrier balance must be untouched: got %s", got)
	}
}

func TestDeductServiceFee_LegacyPerKmPricing(t *testing.T) {
	t.Parallel()

	f := newFeeFixture()
	load := f.mgr.Tx.LoadRepo.GetLoad("load-1")
	load.CorridorID = ""
	load.DistanceKm = d("100")
	load.PricePerKm = d("2")
	f.mgr.Tx.LoadRepo.AddLoad(load)

	result, err := f.feeLedger.DeductServiceFee(context.Background(), "load-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.TotalPlatformFee.Equal(d("200")) {
		t.Errorf("total fee: got %s, want 200", result.TotalPlatformFee)
	}
	if !result.CarrierFee.IsZero() {
		t.Errorf("legacy pricing charges the shipper only, carrier fee %s", result.CarrierFee)
	}
}

func TestDeductServiceFee_NoFeeConfig(t *testing.T) {
	t.Parallel()

	f := newFeeFixture()
	load := f.mgr.Tx.LoadRepo.GetLoad("load-1")
	load.CorridorID = ""
	f.mgr.Tx.LoadRepo.AddLoad(load)

	_, err := f.feeLedger.DeductServiceFee(context.Background(), "load-1")
	if !errors.Is(err, service.ErrNoFeeConfig) {
		t.Fatalf("expected ErrNoFeeConfig, got %v", err)
	}
}

func TestDeductServiceFee_FailureRollsBackEverything(t *testing.T) {
	t.Parallel()

	f := newFeeFixture()
	f.mgr.Tx.WalletRepo.AdjustBalanceError = errors.New("connection reset")

	_, err := f.feeLedger.DeductServiceFee(context.Background(), "load-1")
	if err == nil {
		t.Fatal("expected error")
	}

	// Nothing may survive the failed transaction.
	if got := f.mgr.Tx.WalletRepo.Balance("w-shipper"); !got.Equal(d("10000")) {
		t.Errorf("shipper balance: got %s, want 10000", got)
	}
	if got := f.mgr.Tx.LedgerRepo.CountEntries(domain.TxnServiceFee); got != 0 {
		t.Errorf("SERVICE_FEE entries: got %d, want 0", got)
	}
	load := f.mgr.Tx.LoadRepo.GetLoad("load-1")
	if load.ServiceFeeStatus != domain.ServiceFeePending {
		t.Errorf("service fee status: got %s, want PENDING", load.ServiceFeeStatus)
	}
	if got := f.mgr.Tx.EventRepo.CountEvents("load-1", domain.EventServiceFeeDeducted); got != 0 {
		t.Errorf("events: got %d, want 0", got)
	}
}

func TestRefundServiceFee_RequiresDeduction(t *testing.T) {
	t.Parallel()

	f := newFeeFixture()
	_, err := f.feeLedger.RefundServiceFee(context.Background(), "load-1")
	if !errors.Is(err, service.ErrServiceFeeNotDeducted) {
		t.Fatalf("expected ErrServiceFeeNotDeducted, got %v", err)
	}
}

func TestRefundServiceFee_ReturnsFeeToShipper(t *testing.T) {
	t.Parallel()

	f := newFeeFixture()
	ctx := context.Background()
	if _, err := f.feeLedger.DeductServiceFee(ctx, "load-1"); err != nil {
		t.Fatalf("deduction failed: %v", err)
	}

	result, err := f.feeLedger.RefundServiceFee(ctx, "load-1")
	if err != nil {
		t.Fatalf("refund failed: %v", err)
	}
	if !result.ServiceFee.Equal(d("5000")) {
		t.Errorf("refund amount: got %s, want 5000", result.ServiceFee)
	}

	if got := f.mgr.Tx.WalletRepo.Balance("w-platform"); !got.IsZero() {
		t.Errorf("platform balance after refund: got %s, want 0", got)
	}
	load := f.mgr.Tx.LoadRepo.GetLoad("load-1")
	if load.ServiceFeeStatus != domain.ServiceFeeRefunded {
		t.Errorf("service fee status: got %s, want REFUNDED", load.ServiceFeeStatus)
	}
	if got := f.mgr.Tx.LedgerRepo.CountEntries(domain.TxnRefund); got != 1 {
		t.Errorf("REFUND entries: got %d, want 1", got)
	}
}

func TestRefundServiceFee_Idempotent(t *testing.T) {
	t.Parallel()

	f := newFeeFixture()
	ctx := context.Background()
	if _, err := f.feeLedger.DeductServiceFee(ctx, "load-1"); err != nil {
		t.Fatalf("deduction failed: %v", err)
	}
	if _, err := f.feeLedger.RefundServiceFee(ctx, "load-1"); err != nil {
		t.Fatalf("refund failed: %v", err)
	}

	_, err := f.feeLedger.RefundServiceFee(ctx, "load-1")
	if !errors.Is(err, service.ErrServiceFeeAlreadyRefunded) {
		t.Fatalf("expected ErrServiceFeeAlreadyRefunded, got %v", err)
	}
	if got := f.mgr.Tx.LedgerRepo.CountEntries(domain.TxnRefund); got != 1 {
		t.Errorf("REFUND entries after repeat: got %d, want 1", got)
	}
}

// ──────────────────────────────────────────────
// WITHDRAWALS AND DEPOSITS
// ──────────────────────────────────────────────

func newWalletFixture(balance decimal.Decimal) (*MockTxManager, *service.FeeLedgerService) {
	mgr := NewMockTxManager()
	mgr.Tx.WalletRepo.AddWallet(&domain.Wallet{
		ID: "w-1", OrganizationID: "org-1",
		Type: domain.WalletTypeCarrier, Currency: "ETB", Balance: balance,
	})
	return mgr, service.NewFeeLedgerService(mgr, nil)
}

func TestRequestWithdrawal_InsufficientBalance(t *testing.T) {
	t.Parallel()

	mgr, feeLedger := newWalletFixture(d("500"))
	_, err := feeLedger.RequestWithdrawal(context.Background(), "org-1", domain.WalletTypeCarrier, d("600"))
	if !errors.Is(err, service.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if mgr.Tx.WithdrawalRepo.CountWithdrawals() != 0 {
		t.Error("no withdrawal may be created on a failed check")
	}
	if got := mgr.Tx.WalletRepo.Balance("w-1"); !got.Equal(d("500")) {
		t.Errorf("balance: got %s, want 500", got)
	}
}

func TestRequestWithdrawal_HoldsAmount(t *testing.T) {
	t.Parallel()

	mgr, feeLedger := newWalletFixture(d("500"))
	ctx := context.Background()

	withdrawal, err := feeLedger.RequestWithdrawal(ctx, "org-1", domain.WalletTypeCarrier, d("300"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if withdrawal.Status != domain.WithdrawalPending {
		t.Errorf("status: got %s, want PENDING", withdrawal.Status)
	}
	if got := mgr.Tx.WalletRepo.Balance("w-1"); !got.Equal(d("200")) {
		t.Errorf("balance after hold: got %s, want 200", got)
	}

	// The held amount is gone; a second 300 must fail.
	_, err = feeLedger.RequestWithdrawal(ctx, "org-1", domain.WalletTypeCarrier, d("300"))
	if !errors.Is(err, service.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestRequestWithdrawal_ConcurrentRequests(t *testing.T) {
	t.Parallel()

	mgr, feeLedger := newWalletFixture(d("500"))

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = feeLedger.RequestWithdrawal(context.Background(), "org-1", domain.WalletTypeCarrier, d("300"))
		}(i)
	}
	wg.Wait()

	succeeded, insufficient := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, service.ErrInsufficientBalance):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if succeeded != 1 || insufficient != 1 {
		t.Fatalf("expected exactly one success and one insufficient, got %d/%d", succeeded, insufficient)
	}
	if got := mgr.Tx.WalletRepo.Balance("w-1"); !got.Equal(d("200")) {
		t.Errorf("balance: got %s, want 200", got)
	}
	if mgr.Tx.WithdrawalRepo.CountWithdrawals() != 1 {
		t.Errorf("withdrawals: got %d, want 1", mgr.Tx.WithdrawalRepo.CountWithdrawals())
	}
}

func TestDeposit_PairsEntryWithBalance(t *testing.T) {
	t.Parallel()

	mgr, feeLedger := newWalletFixture(d("100"))

	wallet, err := feeLedger.Deposit(context.Background(), "org-1", domain.WalletTypeCarrier, d("1000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !wallet.Balance.Equal(d("1100")) {
		t.Errorf("returned balance: got %s, want 1100", wallet.Balance)
	}
	if got := mgr.Tx.WalletRepo.Balance("w-1"); !got.Equal(d("1100")) {
		t.Errorf("stored balance: got %s, want 1100", got)
	}
	if got := mgr.Tx.LedgerRepo.CountEntries(domain.TxnDeposit); got != 1 {
		t.Errorf("DEPOSIT entries: got %d, want 1", got)
	}

	sum, err := mgr.Tx.LedgerRepo.SumByWalletID(context.Background(), "w-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sum.Equal(d("1000")) {
		t.Errorf("ledger sum: got %s, want 1000", sum)
	}

	_, err = feeLedger.Deposit(context.Background(), "org-1", domain.WalletTypeCarrier, d("-5"))
	if !errors.Is(err, service.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}
