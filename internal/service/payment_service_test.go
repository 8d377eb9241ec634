package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/sabzihub/backend/internal/constants"
	"github.com/sabzihub/backend/internal/models"
	"github.com/sabzihub/backend/internal/payment/upigate"
	"github.com/sabzihub/backend/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newTestGateway(t *testing.T) *upigate.Client {
	t.Helper()
	client, err := upigate.NewClient(upigate.Config{
		BaseURL:       "https://gateway.test",
		KeyID:         "key_test",
		KeySecret:     "secret_test",
		WebhookSecret: "whsec_test",
	})
	if err != nil {
		t.Fatalf("gateway client: %v", err)
	}
	return client
}

func newTestPaymentService(t *testing.T, db *gorm.DB) *PaymentService {
	t.Helper()
	return NewPaymentService(repository.NewOrderRepository(db), newTestGateway(t), nil)
}

func seedGatewayOrder(t *testing.T, db *gorm.DB, gatewayOrderID string) *models.Order {
	t.Helper()
	expiry := time.Now().Add(15 * time.Minute)
	order := &models.Order{
		OrderNo:          "SH202508300001",
		UserID:           1,
		Status:           models.StatusPaymentPending,
		PaymentStatus:    constants.PaymentStatusPending,
		PaymentMethod:    constants.PaymentMethodGateway,
		Subtotal:         models.NewMoneyFromDecimal(decimal.NewFromInt(240)),
		DeliveryFee:      models.NewMoneyFromDecimal(decimal.NewFromInt(40)),
		Total:            models.NewMoneyFromDecimal(decimal.NewFromInt(280)),
		GatewayOrderID:   gatewayOrderID,
		StockReserved:    true,
		PaymentExpiresAt: &expiry,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return order
}

func webhookSignature(body []byte) string {
	mac := hmac.New(sha256.New, []byte("whsec_test"))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func attemptCount(t *testing.T, db *gorm.DB, orderID uint) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.PaymentAttempt{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
		t.Fatalf("count attempts: %v", err)
	}
	return count
}

func TestHandleWebhookCaptured(t *testing.T) {
	db := newOrderTestDB(t)
	order := seedGatewayOrder(t, db, "order_abc")
	svc := newTestPaymentService(t, db)

	body := []byte(`{"event":"payment.captured","order_id":"order_abc","payment_id":"pay_xyz","amount":28000,"method":"upi"}`)
	if err := svc.HandleWebhook(body, webhookSignature(body)); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if reloaded.Status != models.StatusConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", reloaded.Status)
	}
	if reloaded.PaymentStatus != constants.PaymentStatusPaid || reloaded.PaidAt == nil {
		t.Fatalf("payment not settled: %+v", reloaded)
	}
	if reloaded.GatewayPaymentID != "pay_xyz" {
		t.Fatalf("expected payment id recorded, got %q", reloaded.GatewayPaymentID)
	}
	if got := attemptCount(t, db, order.ID); got != 1 {
		t.Fatalf("expected 1 attempt row, got %d", got)
	}
	if reloaded.PaymentDetails["method"] != "upi" || reloaded.PaymentDetails["payment_id"] != "pay_xyz" {
		t.Fatalf("payment details snapshot missing: %+v", reloaded.PaymentDetails)
	}

	// A replayed delivery of the same event changes nothing.
	if err := svc.HandleWebhook(body, webhookSignature(body)); err != nil {
		t.Fatalf("replayed HandleWebhook: %v", err)
	}
	if got := attemptCount(t, db, order.ID); got != 1 {
		t.Fatalf("replay added attempt rows: %d", got)
	}
	var events int64
	if err := db.Model(&models.OrderStatusEvent{}).Where("order_id = ?", order.ID).Count(&events).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	if events != 1 {
		t.Fatalf("expected 1 history row, got %d", events)
	}
}

func TestHandleWebhookBadSignature(t *testing.T) {
	db := newOrderTestDB(t)
	order := seedGatewayOrder(t, db, "order_abc")
	svc := newTestPaymentService(t, db)

	body := []byte(`{"event":"payment.captured","order_id":"order_abc","payment_id":"pay_xyz"}`)
	err := svc.HandleWebhook(body, "deadbeef")
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if reloaded.Status != models.StatusPaymentPending {
		t.Fatalf("order mutated on bad signature: %s", reloaded.Status)
	}
	if got := attemptCount(t, db, order.ID); got != 0 {
		t.Fatalf("attempt recorded on bad signature: %d", got)
	}
}

func TestHandleWebhookFailedThenRetry(t *testing.T) {
	db := newOrderTestDB(t)
	order := seedGatewayOrder(t, db, "order_abc")
	svc := newTestPaymentService(t, db)

	body := []byte(`{"event":"payment.failed","order_id":"order_abc","payment_id":"pay_bad","error_code":"UPI_DECLINED","error_description":"declined by bank"}`)
	if err := svc.HandleWebhook(body, webhookSignature(body)); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if reloaded.Status != models.StatusPaymentFailed {
		t.Fatalf("expected PAYMENT_FAILED, got %s", reloaded.Status)
	}
	if reloaded.PaymentStatus != constants.PaymentStatusFailed {
		t.Fatalf("expected failed payment status, got %s", reloaded.PaymentStatus)
	}
	if reloaded.PaymentDetails["error_code"] != "UPI_DECLINED" || reloaded.PaymentDetails["error_description"] != "declined by bank" {
		t.Fatalf("failure diagnostics missing from payment details: %+v", reloaded.PaymentDetails)
	}

	// Replay of the failure is absorbed.
	if err := svc.HandleWebhook(body, webhookSignature(body)); err != nil {
		t.Fatalf("replayed failure: %v", err)
	}
	if got := attemptCount(t, db, order.ID); got != 1 {
		t.Fatalf("expected 1 attempt row, got %d", got)
	}

	retried, err := svc.RetryPayment(order.ID, order.UserID)
	if err != nil {
		t.Fatalf("RetryPayment: %v", err)
	}
	if retried.Status != models.StatusPaymentPending {
		t.Fatalf("expected PAYMENT_PENDING after retry, got %s", retried.Status)
	}

	captured := []byte(`{"event":"payment.captured","order_id":"order_abc","payment_id":"pay_good","method":"upi"}`)
	if err := svc.HandleWebhook(captured, webhookSignature(captured)); err != nil {
		t.Fatalf("captured after retry: %v", err)
	}
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if reloaded.Status != models.StatusConfirmed || reloaded.GatewayPaymentID != "pay_good" {
		t.Fatalf("retry capture not applied: %+v", reloaded)
	}
}

func TestConfirmPaymentAbsorbedBySuccessAttempt(t *testing.T) {
	db := newOrderTestDB(t)
	order := seedGatewayOrder(t, db, "order_abc")
	svc := newTestPaymentService(t, db)

	// A success attempt already on record counts as paid regardless of
	// the order row's payment_status.
	if err := db.Create(&models.PaymentAttempt{
		OrderID:          order.ID,
		GatewayPaymentID: "pay_xyz",
		Outcome:          constants.AttemptOutcomeSuccess,
	}).Error; err != nil {
		t.Fatalf("seed attempt: %v", err)
	}

	if _, err := svc.ConfirmPayment(order.ID, "pay_xyz", "upi", constants.ActorGateway); err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if reloaded.Status != models.StatusPaymentPending {
		t.Fatalf("replay mutated the order: %s", reloaded.Status)
	}
	if got := attemptCount(t, db, order.ID); got != 1 {
		t.Fatalf("replay added attempt rows: %d", got)
	}
}

func TestSweepCancelsExpiredFailedPayment(t *testing.T) {
	db := newOrderTestDB(t)
	fx := seedCheckout(t, db, 10, 2)
	orderSvc := newTestOrderService(db)
	paySvc := newTestPaymentService(t, db)

	order, err := orderSvc.CreateOrder(CreateOrderInput{
		UserID:        fx.UserID,
		AddressID:     fx.AddressID,
		PaymentMethod: constants.PaymentMethodGateway,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if got := tierStock(t, db, fx.TierID); got != 8 {
		t.Fatalf("expected stock 8 after reservation, got %d", got)
	}

	if _, err := paySvc.FailPayment(order.ID, "pay_bad", "UPI_DECLINED", "declined by bank"); err != nil {
		t.Fatalf("FailPayment: %v", err)
	}
	past := time.Now().Add(-time.Minute)
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("payment_expires_at", past).Error; err != nil {
		t.Fatalf("backdate expiry: %v", err)
	}

	// A failed order past its window cannot be retried; the sweep must
	// cancel it and free the reservation.
	expired, err := orderSvc.SweepOverduePayments(50)
	if err != nil {
		t.Fatalf("SweepOverduePayments: %v", err)
	}
	if expired != 1 {
		t.Fatalf("expected 1 expired order, got %d", expired)
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if reloaded.Status != models.StatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", reloaded.Status)
	}
	if reloaded.StockReserved {
		t.Fatalf("stock reservation still held")
	}
	if got := tierStock(t, db, fx.TierID); got != 10 {
		t.Fatalf("expected stock released back to 10, got %d", got)
	}
}

func TestConfirmPaymentWindowExpired(t *testing.T) {
	db := newOrderTestDB(t)
	order := seedGatewayOrder(t, db, "order_abc")
	svc := newTestPaymentService(t, db)

	past := time.Now().Add(-time.Minute)
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("payment_expires_at", past).Error; err != nil {
		t.Fatalf("backdate expiry: %v", err)
	}

	if _, err := svc.ConfirmPayment(order.ID, "pay_late", "upi", constants.ActorGateway); !errors.Is(err, ErrPaymentWindowExpired) {
		t.Fatalf("expected ErrPaymentWindowExpired, got %v", err)
	}
}

func TestVerifyCheckout(t *testing.T) {
	db := newOrderTestDB(t)
	order := seedGatewayOrder(t, db, "order_abc")
	svc := newTestPaymentService(t, db)

	sig := svc.gateway.PaymentSignature("order_abc", "pay_xyz")
	confirmed, err := svc.VerifyCheckout(order.OrderNo, order.UserID, "order_abc", "pay_xyz", sig)
	if err != nil {
		t.Fatalf("VerifyCheckout: %v", err)
	}
	if confirmed.Status != models.StatusConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", confirmed.Status)
	}
}

func TestVerifyCheckoutBadSignature(t *testing.T) {
	db := newOrderTestDB(t)
	order := seedGatewayOrder(t, db, "order_abc")
	svc := newTestPaymentService(t, db)

	_, err := svc.VerifyCheckout(order.OrderNo, order.UserID, "order_abc", "pay_xyz", "forged")
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if reloaded.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("order mutated on forged signature: %s", reloaded.PaymentStatus)
	}
}

func TestInitiatePaymentReusesGatewayOrder(t *testing.T) {
	db := newOrderTestDB(t)
	order := seedGatewayOrder(t, db, "order_abc")
	svc := newTestPaymentService(t, db)

	intent, err := svc.InitiatePayment(context.Background(), order.ID, order.UserID)
	if err != nil {
		t.Fatalf("InitiatePayment: %v", err)
	}
	if intent.GatewayOrderID != "order_abc" {
		t.Fatalf("expected existing gateway order reused, got %s", intent.GatewayOrderID)
	}
	if intent.Amount != 28000 {
		t.Fatalf("expected amount in paise 28000, got %d", intent.Amount)
	}
}
