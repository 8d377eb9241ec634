package public

import (
	"github.com/sabzihub/backend/internal/constants"
	"github.com/sabzihub/backend/internal/http/response"

	"github.com/gin-gonic/gin"
)

// InitiatePaymentRequest opens a gateway checkout for an order.
type InitiatePaymentRequest struct {
	OrderID uint `json:"order_id" binding:"required"`
}

// InitiatePayment registers the order with the gateway and returns the
// checkout intent for the client SDK. Safe to call again for the same
// order.
func (h *Handler) InitiatePayment(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	intent, err := h.PaymentService.InitiatePayment(c.Request.Context(), req.OrderID, uid)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	response.Success(c, intent)
}

// VerifyPaymentRequest confirms a client-side checkout result.
type VerifyPaymentRequest struct {
	OrderNo        string `json:"order_no" binding:"required"`
	GatewayOrderID string `json:"gateway_order_id" binding:"required"`
	PaymentID      string `json:"payment_id" binding:"required"`
	Signature      string `json:"signature" binding:"required"`
}

// VerifyPayment validates the gateway's checkout signature and marks
// the order paid. The webhook path remains the source of truth; this
// exists so the client sees the paid state without waiting for it.
func (h *Handler) VerifyPayment(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	order, err := h.PaymentService.VerifyCheckout(req.OrderNo, uid, req.GatewayOrderID, req.PaymentID, req.Signature)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	response.Success(c, order)
}

// RetryPaymentRequest reopens payment after a failed attempt.
type RetryPaymentRequest struct {
	OrderID uint `json:"order_id" binding:"required"`
}

// RetryPayment moves a failed order back to awaiting payment while the
// window is still open.
func (h *Handler) RetryPayment(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req RetryPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	order, err := h.PaymentService.RetryPayment(req.OrderID, uid)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	response.Success(c, order)
}

// PaymentWebhook receives gateway events. The signature covers the raw
// body, so the body is read before any binding.
func (h *Handler) PaymentWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, response.CodeBadRequest, "read body failed", err)
		return
	}
	signature := c.GetHeader(constants.GatewaySignatureHeader)

	if err := h.PaymentService.HandleWebhook(body, signature); err != nil {
		respondPaymentError(c, err)
		return
	}
	response.Success(c, gin.H{"received": true})
}
