package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sabzihub/backend/internal/cache"
	"github.com/sabzihub/backend/internal/config"
	"github.com/sabzihub/backend/internal/constants"
	"github.com/sabzihub/backend/internal/logger"
	"github.com/sabzihub/backend/internal/models"
	"github.com/sabzihub/backend/internal/queue"
	"github.com/sabzihub/backend/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderPricing holds the checkout pricing knobs.
type OrderPricing struct {
	ExpireMinutes         int
	DeliveryFee           decimal.Decimal
	FreeDeliveryThreshold decimal.Decimal
}

// NewOrderPricing parses the order config, falling back to defaults on
// malformed amounts.
func NewOrderPricing(cfg config.OrderConfig) OrderPricing {
	pricing := OrderPricing{
		ExpireMinutes:         cfg.PaymentExpireMinutes,
		DeliveryFee:           decimal.NewFromInt(40),
		FreeDeliveryThreshold: decimal.NewFromInt(499),
	}
	if pricing.ExpireMinutes <= 0 {
		pricing.ExpireMinutes = 15
	}
	if fee, err := decimal.NewFromString(strings.TrimSpace(cfg.DeliveryFee)); err == nil && !fee.IsNegative() {
		pricing.DeliveryFee = fee
	}
	if threshold, err := decimal.NewFromString(strings.TrimSpace(cfg.FreeDeliveryThreshold)); err == nil && threshold.IsPositive() {
		pricing.FreeDeliveryThreshold = threshold
	}
	return pricing
}

// OrderService owns the order lifecycle.
type OrderService struct {
	orderRepo   repository.OrderRepository
	counterRepo repository.OrderCounterRepository
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
	couponRepo  repository.CouponRepository
	addressRepo repository.AddressRepository
	queueClient *queue.Client
	pricing     OrderPricing
}

// NewOrderService creates an order service.
func NewOrderService(orderRepo repository.OrderRepository, counterRepo repository.OrderCounterRepository, productRepo repository.ProductRepository, cartRepo repository.CartRepository, couponRepo repository.CouponRepository, addressRepo repository.AddressRepository, queueClient *queue.Client, pricing OrderPricing) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		counterRepo: counterRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		couponRepo:  couponRepo,
		addressRepo: addressRepo,
		queueClient: queueClient,
		pricing:     pricing,
	}
}

// CreateOrderInput is the checkout input. Items come from the user's cart.
type CreateOrderInput struct {
	UserID        uint
	AddressID     uint
	PaymentMethod string
	CouponCode    string
}

// CreateOrder places an order from the user's cart. Stock is reserved
// inside the same transaction that creates the order, so an oversell
// rolls everything back.
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	method := strings.TrimSpace(input.PaymentMethod)
	if method != constants.PaymentMethodCOD && method != constants.PaymentMethodGateway {
		return nil, ErrPaymentMethodInvalid
	}

	cartItems, err := s.cartRepo.ListByUser(input.UserID)
	if err != nil {
		return nil, ErrOrderCreateFailed
	}
	if len(cartItems) == 0 {
		return nil, ErrCartEmpty
	}

	address, err := s.addressRepo.GetByIDAndUser(input.AddressID, input.UserID)
	if err != nil {
		return nil, ErrOrderCreateFailed
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}

	items := make([]models.OrderItem, 0, len(cartItems))
	subtotal := decimal.Zero
	for i := range cartItems {
		ci := cartItems[i]
		if ci.Product == nil || ci.Tier == nil || !ci.Product.IsActive || !ci.Tier.IsActive {
			return nil, ErrProductUnavailable
		}
		if ci.Quantity <= 0 {
			return nil, ErrQuantityInvalid
		}
		lineTotal := ci.Tier.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(ci.Quantity)))
		items = append(items, models.OrderItem{
			ProductID: ci.ProductID,
			TierID:    ci.TierID,
			Name:      ci.Product.Name,
			TierLabel: ci.Tier.Label,
			ImageURL:  ci.Product.ImageURL,
			UnitPrice: ci.Tier.UnitPrice,
			MRP:       ci.Tier.MRP,
			Quantity:  ci.Quantity,
			LineTotal: models.NewMoneyFromDecimal(lineTotal),
		})
		subtotal = subtotal.Add(lineTotal)
	}

	now := time.Now()
	code := strings.TrimSpace(strings.ToUpper(input.CouponCode))
	var coupon *models.Coupon
	discount := decimal.Zero
	if code != "" {
		coupon, discount, err = s.resolveCoupon(code, subtotal, now)
		if err != nil {
			return nil, err
		}
	}

	payable := subtotal.Sub(discount)
	if payable.IsNegative() {
		payable = decimal.Zero
	}
	deliveryFee := s.pricing.DeliveryFee
	if payable.GreaterThanOrEqual(s.pricing.FreeDeliveryThreshold) {
		deliveryFee = decimal.Zero
	}
	total := payable.Add(deliveryFee)

	status := models.StatusPlaced
	var expiresAt *time.Time
	if method == constants.PaymentMethodGateway {
		status = models.StatusPaymentPending
		t := now.Add(time.Duration(s.pricing.ExpireMinutes) * time.Minute)
		expiresAt = &t
	}

	order := &models.Order{
		UserID:           input.UserID,
		Status:           status,
		PaymentStatus:    constants.PaymentStatusPending,
		PaymentMethod:    method,
		Subtotal:         models.NewMoneyFromDecimal(subtotal),
		Discount:         models.NewMoneyFromDecimal(discount),
		DeliveryFee:      models.NewMoneyFromDecimal(deliveryFee),
		Total:            models.NewMoneyFromDecimal(total),
		CouponCode:       code,
		AddressSnapshot:  address.Snapshot(),
		StockReserved:    true,
		PaymentExpiresAt: expiresAt,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		orderNo, err := generateOrderNo(s.counterRepo.WithTx(tx), now)
		if err != nil {
			return err
		}
		order.OrderNo = orderNo

		if err := orderRepo.Create(order, items); err != nil {
			return err
		}
		for _, item := range items {
			affected, err := productRepo.ReserveTierStock(item.TierID, item.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrStockInsufficient
			}
		}
		if coupon != nil {
			affected, err := s.couponRepo.WithTx(tx).ConsumeUsage(coupon.ID)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrCouponExhausted
			}
		}
		if err := orderRepo.AppendStatusEvent(&models.OrderStatusEvent{
			OrderID:  order.ID,
			ToStatus: status,
			Actor:    constants.ActorUser,
			Note:     "order placed",
		}); err != nil {
			return err
		}
		return s.cartRepo.WithTx(tx).Clear(input.UserID)
	})
	if err != nil {
		if errors.Is(err, ErrStockInsufficient) || errors.Is(err, ErrCouponExhausted) {
			return nil, err
		}
		logger.Errorw("order_create_failed", "user_id", input.UserID, "error", err)
		return nil, ErrOrderCreateFailed
	}

	logger.Infow("order_placed",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", order.UserID,
		"method", method,
		"total", order.Total.String(),
	)

	// Gateway orders get a hard expiry. Losing the timer would strand the
	// reservation, so an enqueue failure cancels the order outright.
	if method == constants.PaymentMethodGateway && s.queueClient.Enabled() {
		delay := time.Until(*order.PaymentExpiresAt)
		if err := s.queueClient.EnqueueOrderPaymentExpire(queue.OrderPaymentExpirePayload{OrderID: order.ID}, delay); err != nil {
			logger.Errorw("order_enqueue_payment_expire_failed",
				"order_id", order.ID,
				"order_no", order.OrderNo,
				"error", err,
			)
			if full, fetchErr := s.orderRepo.GetByID(order.ID); fetchErr == nil && full != nil {
				if _, cancelErr := s.applyTransition(full, models.StatusCancelled, constants.ActorSystem, "expiry timer unavailable", nil); cancelErr != nil {
					logger.Errorw("order_rollback_cancel_failed", "order_id", order.ID, "error", cancelErr)
				}
			}
			return nil, ErrQueueUnavailable
		}
	}

	full, err := s.orderRepo.GetByID(order.ID)
	if err == nil && full != nil {
		return full, nil
	}
	return order, nil
}

func (s *OrderService) resolveCoupon(code string, subtotal decimal.Decimal, now time.Time) (*models.Coupon, decimal.Decimal, error) {
	coupon, err := s.couponRepo.GetByCode(code)
	if err != nil {
		return nil, decimal.Zero, ErrOrderCreateFailed
	}
	if coupon == nil || !coupon.IsActive {
		return nil, decimal.Zero, ErrCouponInvalid
	}
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return nil, decimal.Zero, ErrCouponInvalid
	}
	if coupon.EndsAt != nil && now.After(*coupon.EndsAt) {
		return nil, decimal.Zero, ErrCouponInvalid
	}
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return nil, decimal.Zero, ErrCouponExhausted
	}
	if subtotal.LessThan(coupon.MinAmount.Decimal) {
		return nil, decimal.Zero, ErrCouponInvalid
	}

	var discount decimal.Decimal
	switch coupon.Type {
	case constants.CouponTypePercent:
		discount = subtotal.Mul(coupon.Value.Decimal).Div(decimal.NewFromInt(100))
		if coupon.MaxDiscount.Decimal.IsPositive() && discount.GreaterThan(coupon.MaxDiscount.Decimal) {
			discount = coupon.MaxDiscount.Decimal
		}
	case constants.CouponTypeFlat:
		discount = coupon.Value.Decimal
	default:
		return nil, decimal.Zero, ErrCouponInvalid
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	return coupon, discount.Round(2), nil
}

// CancelOrder is the customer-facing cancel. Only unpaid COD orders that
// have not moved past PLACED qualify.
func (s *OrderService) CancelOrder(orderID uint, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !order.CanBeCancelledByUser() {
		return nil, ErrCancelNotAllowed
	}
	return s.applyTransition(order, models.StatusCancelled, constants.ActorUser, "cancelled by customer", nil)
}

// UpdateOrderStatus is the back-office transition entry point.
func (s *OrderService) UpdateOrderStatus(orderID uint, target models.OrderStatus, note string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if target == models.StatusCancelled && !order.CanBeCancelledByAdmin() {
		return nil, ErrCancelNotAllowed
	}
	return s.applyTransition(order, target, constants.ActorAdmin, note, nil)
}

// ExpireOverduePayment cancels an order whose payment window has closed.
// Covers both PAYMENT_PENDING and PAYMENT_FAILED orders; a failed order
// past its window can no longer be retried, so cancellation is what
// releases its stock reservation. Safe to call repeatedly; an order that
// was paid or already cancelled in the meantime is left alone.
func (s *OrderService) ExpireOverduePayment(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != models.StatusPaymentPending && order.Status != models.StatusPaymentFailed {
		return order, nil
	}
	if order.IsPaymentWindowValid(time.Now()) {
		return order, nil
	}
	return s.applyTransition(order, models.StatusCancelled, constants.ActorSystem, "payment window expired", nil)
}

// SweepOverduePayments expires every overdue pending order in one pass
// and returns how many were cancelled.
func (s *OrderService) SweepOverduePayments(limit int) (int, error) {
	orders, err := s.orderRepo.ListOverduePending(time.Now(), limit)
	if err != nil {
		return 0, err
	}
	expired := 0
	for i := range orders {
		if _, err := s.ExpireOverduePayment(orders[i].ID); err != nil {
			logger.Warnw("order_expire_sweep_failed", "order_id", orders[i].ID, "error", err)
			continue
		}
		expired++
	}
	return expired, nil
}

// InitiateRefund moves a cancelled, paid order into the refund flow.
func (s *OrderService) InitiateRefund(orderID uint, note string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.PaymentStatus != constants.PaymentStatusPaid {
		return nil, ErrRefundNotAllowed
	}
	return s.applyTransition(order, models.StatusRefundInitiated, constants.ActorAdmin, note, nil)
}

// CompleteRefund settles a refund. A full-amount refund lands on
// REFUNDED, anything less on PARTIALLY_REFUNDED.
func (s *OrderService) CompleteRefund(orderID uint, amount models.Money, refundID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != models.StatusRefundInitiated {
		return nil, &TransitionError{From: order.Status, To: models.StatusRefunded}
	}
	if !amount.Decimal.IsPositive() || amount.Decimal.GreaterThan(order.Total.Decimal) {
		return nil, ErrRefundAmountInvalid
	}
	target := models.StatusPartiallyRefunded
	if amount.Decimal.Equal(order.Total.Decimal) {
		target = models.StatusRefunded
	}
	extra := map[string]interface{}{"refund_amount": amount}
	if refundID != "" {
		extra["refund_id"] = refundID
	}
	updated, err := s.applyTransition(order, target, constants.ActorAdmin, "refund settled", extra)
	if err != nil {
		return nil, err
	}
	updated.RefundAmount = amount
	if refundID != "" {
		updated.RefundID = refundID
	}
	return updated, nil
}

// applyTransition performs one guarded status change: adjacency check,
// version-guarded update, history row, stock and coupon release on
// cancellation, then cache invalidation. All writes share a transaction.
func (s *OrderService) applyTransition(order *models.Order, target models.OrderStatus, actor, note string, extra map[string]interface{}) (*models.Order, error) {
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !target.IsValid() {
		return nil, ErrOrderStatusInvalid
	}
	// No status has a self-edge; repeating the current status is rejected
	// like any other pair outside the adjacency table.
	if !order.Status.CanTransitionTo(target) {
		return nil, &TransitionError{From: order.Status, To: target}
	}

	now := time.Now()
	updates := map[string]interface{}{"updated_at": now}
	paymentStatus := order.PaymentStatus
	switch target {
	case models.StatusCancelled:
		updates["cancelled_at"] = now
		updates["cancelled_by"] = actor
		if note != "" {
			updates["cancel_reason"] = note
		}
	case models.StatusDelivered:
		updates["delivered_at"] = now
		if order.PaymentMethod == constants.PaymentMethodCOD && order.PaymentStatus != constants.PaymentStatusPaid {
			updates["payment_status"] = constants.PaymentStatusPaid
			updates["paid_at"] = now
			paymentStatus = constants.PaymentStatusPaid
		}
	case models.StatusRefunded:
		updates["refunded_at"] = now
		updates["payment_status"] = constants.PaymentStatusRefunded
		paymentStatus = constants.PaymentStatusRefunded
	}
	for k, v := range extra {
		updates[k] = v
	}

	releaseStock := target == models.StatusCancelled && order.StockReserved
	if releaseStock {
		updates["stock_reserved"] = false
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		affected, err := orderRepo.UpdateStatusVersioned(order.ID, order.Version, target, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrOrderConflict
		}
		if err := orderRepo.AppendStatusEvent(&models.OrderStatusEvent{
			OrderID:    order.ID,
			FromStatus: order.Status,
			ToStatus:   target,
			Actor:      actor,
			Note:       note,
		}); err != nil {
			return err
		}
		if releaseStock {
			productRepo := s.productRepo.WithTx(tx)
			for _, item := range order.Items {
				if _, err := productRepo.ReleaseTierStock(item.TierID, item.Quantity); err != nil {
					return err
				}
			}
			if order.CouponCode != "" && order.PaymentStatus != constants.PaymentStatusPaid {
				couponRepo := s.couponRepo.WithTx(tx)
				coupon, err := couponRepo.GetByCode(order.CouponCode)
				if err != nil {
					return err
				}
				if coupon != nil {
					if err := couponRepo.ReleaseUsage(coupon.ID); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrOrderConflict) {
			return nil, ErrOrderConflict
		}
		logger.Errorw("order_status_update_failed",
			"order_id", order.ID,
			"target", target,
			"error", err,
		)
		return nil, ErrOrderUpdateFailed
	}

	// Drop the cached snapshot before returning so no reader sees the
	// old status after the write is acknowledged.
	if err := cache.InvalidateOrder(context.Background(), order.OrderNo); err != nil {
		logger.Warnw("order_cache_invalidate_failed", "order_no", order.OrderNo, "error", err)
	}

	from := order.Status
	order.Status = target
	order.Version++
	order.UpdatedAt = now
	order.PaymentStatus = paymentStatus
	switch target {
	case models.StatusCancelled:
		order.CancelledAt = &now
		order.CancelledBy = actor
		if note != "" {
			order.CancelReason = note
		}
		if releaseStock {
			order.StockReserved = false
		}
	case models.StatusDelivered:
		order.DeliveredAt = &now
		if paymentStatus == constants.PaymentStatusPaid && order.PaidAt == nil {
			order.PaidAt = &now
		}
	case models.StatusRefunded:
		order.RefundedAt = &now
	}

	if s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueOrderStatusNotify(queue.OrderStatusNotifyPayload{
			OrderID: order.ID,
			Status:  string(target),
		}); err != nil {
			logger.Warnw("order_enqueue_status_notify_failed", "order_id", order.ID, "status", target, "error", err)
		}
	}

	logger.Infow("order_status_changed",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"from", from,
		"to", target,
		"actor", actor,
	)
	return order, nil
}

func generateOrderNo(counterRepo repository.OrderCounterRepository, now time.Time) (string, error) {
	dateKey := now.Format(constants.OrderNoDateFormat)
	seq, err := counterRepo.NextSeq(dateKey)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s%0*d", constants.OrderNoPrefix, dateKey, constants.OrderNoSeqDigits, seq), nil
}
