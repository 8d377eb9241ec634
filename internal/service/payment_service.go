package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sabzihub/backend/internal/cache"
	"github.com/sabzihub/backend/internal/constants"
	"github.com/sabzihub/backend/internal/logger"
	"github.com/sabzihub/backend/internal/models"
	"github.com/sabzihub/backend/internal/payment/upigate"
	"github.com/sabzihub/backend/internal/queue"
	"github.com/sabzihub/backend/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentService drives gateway payments against orders.
type PaymentService struct {
	orderRepo   repository.OrderRepository
	gateway     *upigate.Client
	queueClient *queue.Client
}

// NewPaymentService creates a payment service. The gateway client may be
// nil when the gateway is not configured; gateway operations then fail
// with ErrGatewayUnavailable.
func NewPaymentService(orderRepo repository.OrderRepository, gateway *upigate.Client, queueClient *queue.Client) *PaymentService {
	return &PaymentService{
		orderRepo:   orderRepo,
		gateway:     gateway,
		queueClient: queueClient,
	}
}

// PaymentIntent is what the client needs to open the gateway checkout.
type PaymentIntent struct {
	OrderNo        string `json:"order_no"`
	GatewayOrderID string `json:"gateway_order_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
}

// InitiatePayment registers the order with the gateway and returns the
// checkout intent. Calling it again for the same order reuses the
// existing gateway order.
func (s *PaymentService) InitiatePayment(ctx context.Context, orderID uint, userID uint) (*PaymentIntent, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.PaymentMethod != constants.PaymentMethodGateway {
		return nil, ErrPaymentMethodInvalid
	}
	if order.PaymentStatus == constants.PaymentStatusPaid {
		return nil, ErrPaymentNotPending
	}
	if order.Status != models.StatusPaymentPending {
		return nil, ErrPaymentNotPending
	}
	if !order.IsPaymentWindowValid(time.Now()) {
		return nil, ErrPaymentWindowExpired
	}

	amount := order.Total.Decimal.Mul(decimal.NewFromInt(100)).IntPart()
	if order.GatewayOrderID != "" {
		return &PaymentIntent{
			OrderNo:        order.OrderNo,
			GatewayOrderID: order.GatewayOrderID,
			Amount:         amount,
			Currency:       "INR",
		}, nil
	}

	if s.gateway == nil {
		return nil, ErrGatewayUnavailable
	}
	gatewayOrder, err := s.gateway.CreateOrder(ctx, upigate.CreateOrderInput{
		Amount:   amount,
		Currency: "INR",
		Receipt:  order.OrderNo,
	})
	if err != nil {
		logger.Errorw("payment_gateway_order_create_failed", "order_no", order.OrderNo, "error", err)
		return nil, ErrGatewayUnavailable
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		affected, err := orderRepo.UpdateStatusVersioned(order.ID, order.Version, order.Status, map[string]interface{}{
			"gateway_order_id": gatewayOrder.ID,
			"updated_at":       now,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrOrderConflict
		}
		return orderRepo.AppendAttempt(&models.PaymentAttempt{
			OrderID: order.ID,
			Outcome: constants.AttemptOutcomeInitiated,
		})
	})
	if err != nil {
		if errors.Is(err, ErrOrderConflict) {
			return nil, ErrOrderConflict
		}
		return nil, ErrOrderUpdateFailed
	}

	logger.Infow("payment_initiated",
		"order_no", order.OrderNo,
		"gateway_order_id", gatewayOrder.ID,
		"amount", amount,
	)
	return &PaymentIntent{
		OrderNo:        order.OrderNo,
		GatewayOrderID: gatewayOrder.ID,
		Amount:         amount,
		Currency:       "INR",
	}, nil
}

// ConfirmPayment records a captured payment and moves the order to
// CONFIRMED. Duplicate confirmations are no-ops.
func (s *PaymentService) ConfirmPayment(orderID uint, paymentID, method, actor string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return s.confirm(order, paymentID, method, actor)
}

func (s *PaymentService) confirm(order *models.Order, paymentID, method, actor string) (*models.Order, error) {
	if order.PaymentStatus == constants.PaymentStatusPaid {
		return order, nil
	}
	// A success attempt on record also counts as paid, even if the order
	// row has since moved on; the replay is absorbed without new writes.
	hasSuccess, err := s.orderRepo.HasSuccessfulAttempt(order.ID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if hasSuccess {
		return order, nil
	}
	now := time.Now()
	if !order.IsPaymentWindowValid(now) {
		return nil, ErrPaymentWindowExpired
	}
	if order.Status != models.StatusPaymentPending {
		return nil, ErrPaymentNotPending
	}

	details := models.JSON{"outcome": constants.AttemptOutcomeSuccess}
	if method != "" {
		details["method"] = method
	}
	if paymentID != "" {
		details["payment_id"] = paymentID
	}
	updates := map[string]interface{}{
		"updated_at":      now,
		"payment_status":  constants.PaymentStatusPaid,
		"paid_at":         now,
		"payment_details": details,
	}
	if paymentID != "" {
		updates["gateway_payment_id"] = paymentID
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		affected, err := orderRepo.UpdateStatusVersioned(order.ID, order.Version, models.StatusConfirmed, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrOrderConflict
		}
		if err := orderRepo.AppendStatusEvent(&models.OrderStatusEvent{
			OrderID:    order.ID,
			FromStatus: order.Status,
			ToStatus:   models.StatusConfirmed,
			Actor:      actor,
			Note:       "payment captured",
		}); err != nil {
			return err
		}
		return orderRepo.AppendAttempt(&models.PaymentAttempt{
			OrderID:          order.ID,
			GatewayPaymentID: paymentID,
			Outcome:          constants.AttemptOutcomeSuccess,
			Method:           method,
		})
	})
	if err != nil {
		if errors.Is(err, ErrOrderConflict) {
			return nil, ErrOrderConflict
		}
		logger.Errorw("payment_confirm_failed", "order_id", order.ID, "error", err)
		return nil, ErrOrderUpdateFailed
	}

	if err := cache.InvalidateOrder(context.Background(), order.OrderNo); err != nil {
		logger.Warnw("order_cache_invalidate_failed", "order_no", order.OrderNo, "error", err)
	}

	order.Status = models.StatusConfirmed
	order.PaymentStatus = constants.PaymentStatusPaid
	order.PaymentDetails = details
	order.PaidAt = &now
	order.UpdatedAt = now
	order.Version++
	if paymentID != "" {
		order.GatewayPaymentID = paymentID
	}

	if s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueOrderStatusNotify(queue.OrderStatusNotifyPayload{
			OrderID: order.ID,
			Status:  string(models.StatusConfirmed),
		}); err != nil {
			logger.Warnw("order_enqueue_status_notify_failed", "order_id", order.ID, "error", err)
		}
	}

	logger.Infow("payment_captured",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"payment_id", paymentID,
		"actor", actor,
	)
	return order, nil
}

// FailPayment records a failed payment try. The order stays retryable on
// PAYMENT_FAILED until it is cancelled or the window closes.
func (s *PaymentService) FailPayment(orderID uint, paymentID, errorCode, errorDescription string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	// A capture that already landed always wins over a late failure.
	if order.PaymentStatus == constants.PaymentStatusPaid {
		return order, nil
	}
	if order.Status == models.StatusPaymentFailed {
		return order, nil
	}
	if order.Status != models.StatusPaymentPending {
		return nil, ErrPaymentNotPending
	}

	now := time.Now()
	details := models.JSON{"outcome": constants.AttemptOutcomeFailed}
	if paymentID != "" {
		details["payment_id"] = paymentID
	}
	if errorCode != "" {
		details["error_code"] = errorCode
	}
	if errorDescription != "" {
		details["error_description"] = errorDescription
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		affected, err := orderRepo.UpdateStatusVersioned(order.ID, order.Version, models.StatusPaymentFailed, map[string]interface{}{
			"updated_at":      now,
			"payment_status":  constants.PaymentStatusFailed,
			"payment_details": details,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrOrderConflict
		}
		if err := orderRepo.AppendStatusEvent(&models.OrderStatusEvent{
			OrderID:    order.ID,
			FromStatus: order.Status,
			ToStatus:   models.StatusPaymentFailed,
			Actor:      constants.ActorGateway,
			Note:       "payment failed",
		}); err != nil {
			return err
		}
		return orderRepo.AppendAttempt(&models.PaymentAttempt{
			OrderID:          order.ID,
			GatewayPaymentID: paymentID,
			Outcome:          constants.AttemptOutcomeFailed,
			ErrorCode:        errorCode,
			ErrorDescription: errorDescription,
		})
	})
	if err != nil {
		if errors.Is(err, ErrOrderConflict) {
			return nil, ErrOrderConflict
		}
		logger.Errorw("payment_fail_record_failed", "order_id", order.ID, "error", err)
		return nil, ErrOrderUpdateFailed
	}

	if err := cache.InvalidateOrder(context.Background(), order.OrderNo); err != nil {
		logger.Warnw("order_cache_invalidate_failed", "order_no", order.OrderNo, "error", err)
	}

	order.Status = models.StatusPaymentFailed
	order.PaymentStatus = constants.PaymentStatusFailed
	order.PaymentDetails = details
	order.UpdatedAt = now
	order.Version++

	logger.Infow("payment_failed",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"payment_id", paymentID,
		"error_code", errorCode,
	)
	return order, nil
}

// RetryPayment reopens the payment window flow after a failure by moving
// the order back to PAYMENT_PENDING.
func (s *PaymentService) RetryPayment(orderID uint, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != models.StatusPaymentFailed {
		return nil, &TransitionError{From: order.Status, To: models.StatusPaymentPending}
	}
	if !order.IsPaymentWindowValid(time.Now()) {
		return nil, ErrPaymentWindowExpired
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		affected, err := orderRepo.UpdateStatusVersioned(order.ID, order.Version, models.StatusPaymentPending, map[string]interface{}{
			"updated_at":     now,
			"payment_status": constants.PaymentStatusPending,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrOrderConflict
		}
		return orderRepo.AppendStatusEvent(&models.OrderStatusEvent{
			OrderID:    order.ID,
			FromStatus: order.Status,
			ToStatus:   models.StatusPaymentPending,
			Actor:      constants.ActorUser,
			Note:       "payment retry",
		})
	})
	if err != nil {
		if errors.Is(err, ErrOrderConflict) {
			return nil, ErrOrderConflict
		}
		return nil, ErrOrderUpdateFailed
	}

	if err := cache.InvalidateOrder(context.Background(), order.OrderNo); err != nil {
		logger.Warnw("order_cache_invalidate_failed", "order_no", order.OrderNo, "error", err)
	}

	order.Status = models.StatusPaymentPending
	order.PaymentStatus = constants.PaymentStatusPending
	order.UpdatedAt = now
	order.Version++
	return order, nil
}

// HandleWebhook verifies and applies one gateway notification. The body
// must be the raw request bytes; verification runs before any decoding.
// Replays of an already-applied event return nil without new writes.
func (s *PaymentService) HandleWebhook(body []byte, signature string) error {
	if s.gateway == nil {
		return ErrGatewayUnavailable
	}
	if err := s.gateway.VerifyWebhook(body, signature); err != nil {
		logger.Warnw("payment_webhook_signature_invalid", "error", err)
		return ErrSignatureInvalid
	}
	event, err := upigate.ParseWebhook(body)
	if err != nil {
		return err
	}

	order, err := s.orderRepo.GetByGatewayOrderID(event.OrderID)
	if err != nil {
		return ErrOrderFetchFailed
	}
	if order == nil {
		return ErrOrderNotFound
	}

	switch event.Event {
	case constants.GatewayEventPaymentCaptured:
		_, err = s.confirm(order, event.PaymentID, event.Method, constants.ActorGateway)
	case constants.GatewayEventPaymentFailed:
		_, err = s.FailPayment(order.ID, event.PaymentID, event.ErrorCode, event.ErrorDescription)
	default:
		logger.Infow("payment_webhook_ignored", "event", event.Event, "order_no", order.OrderNo)
		return nil
	}
	if errors.Is(err, ErrOrderConflict) {
		// A concurrent delivery of the same event won the version race.
		// Re-read and treat the replay as applied if the outcome matches.
		fresh, fetchErr := s.orderRepo.GetByID(order.ID)
		if fetchErr == nil && fresh != nil && fresh.PaymentStatus == constants.PaymentStatusPaid {
			return nil
		}
	}
	return err
}

// VerifyCheckout re-verifies the signature the client reports after a
// checkout and confirms the payment server-side. The client response is
// never trusted on its own.
func (s *PaymentService) VerifyCheckout(orderNo string, userID uint, gatewayOrderID, paymentID, signature string) (*models.Order, error) {
	if s.gateway == nil {
		return nil, ErrGatewayUnavailable
	}
	orderNo = strings.TrimSpace(orderNo)
	order, err := s.orderRepo.GetByOrderNoAndUser(orderNo, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.GatewayOrderID == "" || order.GatewayOrderID != gatewayOrderID {
		return nil, ErrSignatureInvalid
	}
	if err := s.gateway.VerifyPaymentSignature(gatewayOrderID, paymentID, signature); err != nil {
		logger.Warnw("payment_checkout_signature_invalid",
			"order_no", order.OrderNo,
			"payment_id", paymentID,
		)
		return nil, ErrSignatureInvalid
	}
	return s.confirm(order, paymentID, "", constants.ActorUser)
}
