package service

import (
	"context"
	"log"
	"time"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationLoadPosted        NotificationType = "LOAD_POSTED"
	NotificationLoadAssigned      NotificationType = "LOAD_ASSIGNED"
	NotificationLoadStatusChanged NotificationType = "LOAD_STATUS_CHANGED"
	NotificationServiceFeeCharged NotificationType = "SERVICE_FEE_CHARGED"
	NotificationServiceFeeRefund  NotificationType = "SERVICE_FEE_REFUNDED"
	NotificationSettlementPaid    NotificationType = "SETTLEMENT_PAID"
	NotificationWithdrawalPending NotificationType = "WITHDRAWAL_REQUESTED"
)

// Notifier delivers notifications. Delivery is best-effort: callers invoke
// it through dispatch and never treat a failure as a core failure.
type Notifier interface {
	Notify(ctx context.Context, recipientID string, t NotificationType, payload map[string]any) error
}

// LogNotifier is a Notifier that writes to the application log. A real
// deployment swaps in push/SMS/email delivery behind the same interface.
type LogNotifier struct{}

// NewLogNotifier creates a new LogNotifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Notify logs the notification.
func (n *LogNotifier) Notify(ctx context.Context, recipientID string, t NotificationType, payload map[string]any) error {
	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Payload=%v", t, recipientID, payload)
	return nil
}

// dispatchTimeout bounds detached work so it cannot hang forever on a dead
// collaborator.
const dispatchTimeout = 5 * time.Second

// dispatch runs fn detached from the caller. Failures and panics are logged
// and never propagate: notifications and cache invalidation must not block
// or roll back the core transaction they follow.
func dispatch(name string, fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		defer func() {
			if p := recover(); p != nil {
				log.Printf("[DETACHED] %s panicked: %v", name, p)
			}
		}()

		if err := fn(ctx); err != nil {
			log.Printf("[DETACHED] %s failed: %v", name, err)
		}
	}()
}
