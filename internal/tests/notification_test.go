package tests

import (
	"context"
	"testing"
	"time"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
	"github.com/DanielMD1989/freight-managment-sub009/internal/service"
)

// ──────────────────────────────────────────────
// 7. NOTIFICATIONS
// ──────────────────────────────────────────────

// waitForNotification polls until a notification of the wanted type arrives.
// Delivery is detached from the calling operation, so assertions must wait.
func waitForNotification(t *testing.T, n *MockNotifier, want service.NotificationType) SentNotification {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, s := range n.Sent() {
			if s.Type == want {
				return s
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("notification %s never delivered", want)
	return SentNotification{}
}

func TestDeductServiceFee_NotifiesShipper(t *testing.T) {
	t.Parallel()

	f := newFeeFixture()
	notifier := NewMockNotifier()
	feeLedger := service.NewFeeLedgerService(f.mgr, notifier)

	if _, err := feeLedger.DeductServiceFee(context.Background(), "load-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sent := waitForNotification(t, notifier, service.NotificationServiceFeeCharged)
	if sent.RecipientID != "shipper-1" {
		t.Errorf("recipient: got %q, want shipper-1", sent.RecipientID)
	}
	if sent.Payload["total_fee"] != "5000" {
		t.Errorf("total fee: got %v, want 5000", sent.Payload["total_fee"])
	}
}

func TestRefundServiceFee_NotifiesShipper(t *testing.T) {
	t.Parallel()

	f := newFeeFixture()
	notifier := NewMockNotifier()
	feeLedger := service.NewFeeLedgerService(f.mgr, notifier)
	ctx := context.Background()

	if _, err := feeLedger.DeductServiceFee(ctx, "load-1"); err != nil {
		t.Fatalf("deduction failed: %v", err)
	}
	if _, err := feeLedger.RefundServiceFee(ctx, "load-1"); err != nil {
		t.Fatalf("refund failed: %v", err)
	}

	sent := waitForNotification(t, notifier, service.NotificationServiceFeeRefund)
	if sent.RecipientID != "shipper-1" {
		t.Errorf("recipient: got %q, want shipper-1", sent.RecipientID)
	}
	if sent.Payload["amount"] != "5000" {
		t.Errorf("amount: got %v, want 5000", sent.Payload["amount"])
	}
}

func TestUpdateStatus_NotificationKinds(t *testing.T) {
	t.Parallel()

	mgr := NewMockTxManager()
	mgr.Tx.LoadRepo.AddLoad(&domain.Load{
		ID:               "load-1",
		ShipperOrgID:     "shipper-1",
		Status:           domain.LoadStatusDraft,
		ServiceFeeStatus: domain.ServiceFeePending,
		SettlementStatus: domain.SettlementUnsettled,
		CreatedAt:        time.Now(),
	})

	notifier := NewMockNotifier()
	loads := service.NewLoadService(mgr, nil, nil, notifier)
	shipper := domain.Identity{UserID: "u-1", OrganizationID: "shipper-1", Role: domain.RoleShipper}
	ctx := context.Background()

	// Posting announces the load, not just a status change.
	if _, err := loads.UpdateStatus(ctx, shipper, "load-1", domain.LoadStatusPosted); err != nil {
		t.Fatalf("post failed: %v", err)
	}
	sent := waitForNotification(t, notifier, service.NotificationLoadPosted)
	if sent.RecipientID != "shipper-1" {
		t.Errorf("recipient: got %q, want shipper-1", sent.RecipientID)
	}
	if sent.Payload["to"] != string(domain.LoadStatusPosted) {
		t.Errorf("payload to: got %v, want POSTED", sent.Payload["to"])
	}

	// Any other transition reports a plain status change.
	if _, err := loads.UpdateStatus(ctx, shipper, "load-1", domain.LoadStatusUnposted); err != nil {
		t.Fatalf("unpost failed: %v", err)
	}
	sent = waitForNotification(t, notifier, service.NotificationLoadStatusChanged)
	if sent.Payload["to"] != string(domain.LoadStatusUnposted) {
		t.Errorf("payload to: got %v, want UNPOSTED", sent.Payload["to"])
	}
}
