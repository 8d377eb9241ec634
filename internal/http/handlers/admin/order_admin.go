package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/sabzihub/backend/internal/http/response"
	"github.com/sabzihub/backend/internal/models"
	"github.com/sabzihub/backend/internal/repository"
	"github.com/sabzihub/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminListOrders lists orders with back-office filters.
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)

	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uint(userID),
		Status:   models.OrderStatus(strings.TrimSpace(c.Query("status"))),
		OrderNo:  strings.TrimSpace(c.Query("order_no")),
	}
	if from, err := time.Parse(time.RFC3339, c.Query("created_from")); err == nil {
		filter.CreatedFrom = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("created_to")); err == nil {
		filter.CreatedTo = &to
	}

	orders, total, err := h.OrderService.ListOrdersForAdmin(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "order fetch failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// AdminGetOrder returns one order with items, history and attempts.
func (h *Handler) AdminGetOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "order id invalid", nil)
		return
	}
	order, err := h.OrderService.GetOrderForAdmin(uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "order fetch failed", err)
		return
	}
	response.Success(c, order)
}

// AdminUpdateOrderStatusRequest moves an order along the lifecycle.
type AdminUpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// AdminUpdateOrderStatus applies one lifecycle step.
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "order id invalid", nil)
		return
	}
	var req AdminUpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	order, err := h.OrderService.UpdateOrderStatus(uint(orderID), models.OrderStatus(strings.TrimSpace(req.Status)), req.Note)
	if err != nil {
		respondOrderAdminError(c, err)
		return
	}
	response.Success(c, order)
}

// AdminInitiateRefundRequest starts a refund for a paid order.
type AdminInitiateRefundRequest struct {
	Note string `json:"note"`
}

// AdminInitiateRefund moves a paid order into the refund flow.
func (h *Handler) AdminInitiateRefund(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "order id invalid", nil)
		return
	}
	var req AdminInitiateRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	order, err := h.OrderService.InitiateRefund(uint(orderID), req.Note)
	if err != nil {
		respondOrderAdminError(c, err)
		return
	}
	response.Success(c, order)
}

// AdminCompleteRefundRequest settles a refund.
type AdminCompleteRefundRequest struct {
	Amount   models.Money `json:"amount" binding:"required"`
	RefundID string       `json:"refund_id"`
}

// AdminCompleteRefund records the settled amount. A full amount closes
// the order as refunded, a smaller one as partially refunded.
func (h *Handler) AdminCompleteRefund(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "order id invalid", nil)
		return
	}
	var req AdminCompleteRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	order, err := h.OrderService.CompleteRefund(uint(orderID), req.Amount, req.RefundID)
	if err != nil {
		respondOrderAdminError(c, err)
		return
	}
	response.Success(c, order)
}

func respondOrderAdminError(c *gin.Context, err error) {
	var transitionErr *service.TransitionError
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		respondError(c, response.CodeNotFound, "order not found", nil)
	case errors.As(err, &transitionErr):
		respondError(c, response.CodeBadRequest, transitionErr.Error(), nil)
	case errors.Is(err, service.ErrOrderStatusInvalid):
		respondError(c, response.CodeBadRequest, "status unknown", nil)
	case errors.Is(err, service.ErrCancelNotAllowed):
		respondError(c, response.CodeBadRequest, "order can no longer be cancelled", nil)
	case errors.Is(err, service.ErrRefundNotAllowed):
		respondError(c, response.CodeBadRequest, "order is not refundable", nil)
	case errors.Is(err, service.ErrRefundAmountInvalid):
		respondError(c, response.CodeBadRequest, "refund amount invalid", nil)
	case errors.Is(err, service.ErrOrderConflict):
		respondError(c, response.CodeConflict, "order was updated concurrently, retry", nil)
	default:
		respondError(c, response.CodeInternal, "order update failed", err)
	}
}
