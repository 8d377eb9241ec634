package service

import (
	"errors"
	"fmt"

	"github.com/sabzihub/backend/internal/models"
)

// Order errors.
var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderFetchFailed     = errors.New("order fetch failed")
	ErrOrderCreateFailed    = errors.New("order create failed")
	ErrOrderUpdateFailed    = errors.New("order update failed")
	ErrOrderConflict        = errors.New("order modified concurrently")
	ErrOrderStatusInvalid   = errors.New("order status invalid")
	ErrInvalidTransition    = errors.New("order status transition not allowed")
	ErrCancelNotAllowed     = errors.New("order cancel not allowed")
	ErrRefundNotAllowed     = errors.New("order refund not allowed")
	ErrRefundAmountInvalid  = errors.New("refund amount invalid")
	ErrCartEmpty            = errors.New("cart is empty")
	ErrStockInsufficient    = errors.New("stock insufficient")
	ErrProductUnavailable   = errors.New("product unavailable")
	ErrAddressNotFound      = errors.New("address not found")
	ErrPaymentMethodInvalid = errors.New("payment method invalid")
	ErrQueueUnavailable     = errors.New("task queue unavailable")
)

// Payment errors.
var (
	ErrPaymentWindowExpired = errors.New("payment window expired")
	ErrPaymentNotPending    = errors.New("order not awaiting payment")
	ErrSignatureInvalid     = errors.New("payment signature invalid")
	ErrGatewayUnavailable   = errors.New("payment gateway unavailable")
)

// Coupon errors.
var (
	ErrCouponInvalid   = errors.New("coupon invalid")
	ErrCouponExhausted = errors.New("coupon usage limit reached")
)

// Catalog and cart errors.
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrTierNotFound     = errors.New("price tier not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrQuantityInvalid  = errors.New("quantity invalid")
)

// Account errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserBlocked        = errors.New("user blocked")
	ErrOTPInvalid         = errors.New("otp invalid or expired")
	ErrOTPTooFrequent     = errors.New("otp requested too frequently")
	ErrPhoneInvalid       = errors.New("phone number invalid")
)

// Review errors.
var (
	ErrReviewNotAllowed = errors.New("review not allowed")
	ErrAlreadyReviewed  = errors.New("order item already reviewed")
	ErrRatingInvalid    = errors.New("rating out of range")
)

// TransitionError reports a rejected status transition. It unwraps to
// ErrInvalidTransition so callers can match with errors.Is.
type TransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

// Error implements error.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("order status transition not allowed: %s -> %s", e.From, e.To)
}

// Unwrap exposes the sentinel.
func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
