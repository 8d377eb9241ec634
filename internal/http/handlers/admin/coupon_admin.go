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

// CouponRequest is the admin coupon payload.
type CouponRequest struct {
	Code        string       `json:"code" binding:"required"`
	Type        string       `json:"type" binding:"required"`
	Value       models.Money `json:"value" binding:"required"`
	MinAmount   models.Money `json:"min_amount"`
	MaxDiscount models.Money `json:"max_discount"`
	UsageLimit  int          `json:"usage_limit"`
	StartsAt    *time.Time   `json:"starts_at"`
	EndsAt      *time.Time   `json:"ends_at"`
	IsActive    bool         `json:"is_active"`
}

func (r CouponRequest) toInput() service.CouponInput {
	return service.CouponInput{
		Code:        r.Code,
		Type:        r.Type,
		Value:       r.Value,
		MinAmount:   r.MinAmount,
		MaxDiscount: r.MaxDiscount,
		UsageLimit:  r.UsageLimit,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
		IsActive:    r.IsActive,
	}
}

// GetAdminCoupons lists coupons.
func (h *Handler) GetAdminCoupons(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.CouponListFilter{
		Page:     page,
		PageSize: pageSize,
		Code:     strings.TrimSpace(c.Query("code")),
	}
	if raw := c.Query("is_active"); raw != "" {
		active := raw == "true"
		filter.IsActive = &active
	}

	coupons, total, err := h.CouponService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "coupon fetch failed", err)
		return
	}
	response.SuccessWithPage(c, coupons, response.BuildPagination(page, pageSize, total))
}

// CreateCoupon adds a coupon.
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	coupon, err := h.CouponService.Create(req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrCouponInvalid) {
			respondError(c, response.CodeBadRequest, "coupon payload invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "coupon create failed", err)
		return
	}
	response.Success(c, coupon)
}

// UpdateCoupon edits a coupon.
func (h *Handler) UpdateCoupon(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "coupon id invalid", nil)
		return
	}
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	coupon, err := h.CouponService.Update(uint(id), req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrCouponInvalid) {
			respondError(c, response.CodeBadRequest, "coupon payload invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "coupon update failed", err)
		return
	}
	response.Success(c, coupon)
}

// DeleteCoupon removes a coupon.
func (h *Handler) DeleteCoupon(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "coupon id invalid", nil)
		return
	}
	if err := h.CouponService.Delete(uint(id)); err != nil {
		if errors.Is(err, service.ErrCouponInvalid) {
			respondError(c, response.CodeNotFound, "coupon not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "coupon delete failed", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
