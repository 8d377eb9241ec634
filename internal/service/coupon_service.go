package service

import (
	"strings"
	"time"

	"github.com/sabzihub/backend/internal/constants"
	"github.com/sabzihub/backend/internal/models"
	"github.com/sabzihub/backend/internal/repository"
)

// CouponService owns coupon administration and checkout previews.
type CouponService struct {
	couponRepo repository.CouponRepository
}

// NewCouponService creates a coupon service.
func NewCouponService(couponRepo repository.CouponRepository) *CouponService {
	return &CouponService{couponRepo: couponRepo}
}

// CouponInput is the admin coupon payload.
type CouponInput struct {
	Code        string
	Type        string
	Value       models.Money
	MinAmount   models.Money
	MaxDiscount models.Money
	UsageLimit  int
	StartsAt    *time.Time
	EndsAt      *time.Time
	IsActive    bool
}

// List queries coupons for the back office.
func (s *CouponService) List(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.couponRepo.List(filter)
}

// Create inserts a coupon.
func (s *CouponService) Create(input CouponInput) (*models.Coupon, error) {
	if input.Type != constants.CouponTypePercent && input.Type != constants.CouponTypeFlat {
		return nil, ErrCouponInvalid
	}
	coupon := &models.Coupon{
		Code:        strings.ToUpper(strings.TrimSpace(input.Code)),
		Type:        input.Type,
		Value:       input.Value,
		MinAmount:   input.MinAmount,
		MaxDiscount: input.MaxDiscount,
		UsageLimit:  input.UsageLimit,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		IsActive:    input.IsActive,
	}
	if coupon.Code == "" || !coupon.Value.Decimal.IsPositive() {
		return nil, ErrCouponInvalid
	}
	if err := s.couponRepo.Create(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// Update saves admin edits to a coupon.
func (s *CouponService) Update(id uint, input CouponInput) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponInvalid
	}
	if input.Type != constants.CouponTypePercent && input.Type != constants.CouponTypeFlat {
		return nil, ErrCouponInvalid
	}
	coupon.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	coupon.Type = input.Type
	coupon.Value = input.Value
	coupon.MinAmount = input.MinAmount
	coupon.MaxDiscount = input.MaxDiscount
	coupon.UsageLimit = input.UsageLimit
	coupon.StartsAt = input.StartsAt
	coupon.EndsAt = input.EndsAt
	coupon.IsActive = input.IsActive
	if err := s.couponRepo.Update(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// Delete removes a coupon.
func (s *CouponService) Delete(id uint) error {
	coupon, err := s.couponRepo.GetByID(id)
	if err != nil {
		return err
	}
	if coupon == nil {
		return ErrCouponInvalid
	}
	return s.couponRepo.Delete(id)
}
