package repository

import (
	"time"

	"github.com/sabzihub/backend/internal/models"
)

// OrderListFilter filters order list queries.
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      models.OrderStatus
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ProductListFilter filters product list queries.
type ProductListFilter struct {
	Page       int
	PageSize   int
	CategoryID uint
	Search     string
	Tag        string
	OnlyActive bool
}

// CouponListFilter filters coupon list queries.
type CouponListFilter struct {
	Page     int
	PageSize int
	Code     string
	IsActive *bool
}

// NotificationListFilter filters notification list queries.
type NotificationListFilter struct {
	Page       int
	PageSize   int
	UserID     uint
	OnlyUnread bool
}
