package public

import (
	"errors"

	"github.com/sabzihub/backend/internal/http/response"
	"github.com/sabzihub/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError maps one business error to an API response.
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, msg: "cart is empty"},
	{target: service.ErrAddressNotFound, code: response.CodeBadRequest, msg: "delivery address not found"},
	{target: service.ErrPaymentMethodInvalid, code: response.CodeBadRequest, msg: "payment method invalid"},
	{target: service.ErrProductUnavailable, code: response.CodeBadRequest, msg: "a product in the cart is no longer available"},
	{target: service.ErrStockInsufficient, code: response.CodeBadRequest, msg: "insufficient stock"},
	{target: service.ErrCouponInvalid, code: response.CodeBadRequest, msg: "coupon invalid"},
	{target: service.ErrCouponExhausted, code: response.CodeBadRequest, msg: "coupon usage limit reached"},
	{target: service.ErrQueueUnavailable, code: response.CodeInternal, msg: "checkout temporarily unavailable"},
}

var orderCancelErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrCancelNotAllowed, code: response.CodeBadRequest, msg: "order can no longer be cancelled"},
	{target: service.ErrInvalidTransition, code: response.CodeBadRequest, msg: "order can no longer be cancelled"},
	{target: service.ErrOrderConflict, code: response.CodeConflict, msg: "order was updated concurrently, retry"},
}

var paymentErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrPaymentMethodInvalid, code: response.CodeBadRequest, msg: "order is not a gateway order"},
	{target: service.ErrPaymentNotPending, code: response.CodeBadRequest, msg: "order is not awaiting payment"},
	{target: service.ErrPaymentWindowExpired, code: response.CodeBadRequest, msg: "payment window expired"},
	{target: service.ErrSignatureInvalid, code: response.CodeBadRequest, msg: "payment signature invalid"},
	{target: service.ErrGatewayUnavailable, code: response.CodeInternal, msg: "payment gateway unavailable"},
	{target: service.ErrOrderConflict, code: response.CodeConflict, msg: "order was updated concurrently, retry"},
}

func respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "order create failed")
}

func respondOrderCancelError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderCancelErrorRules, response.CodeInternal, "order cancel failed")
}

func respondPaymentError(c *gin.Context, err error) {
	respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "payment failed")
}
