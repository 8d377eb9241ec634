package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon is a checkout discount code.
type Coupon struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Code        string         `gorm:"uniqueIndex;not null" json:"code"`
	Type        string         `gorm:"not null" json:"type"`
	Value       Money          `gorm:"type:decimal(20,2);not null" json:"value"`
	MinAmount   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"min_amount"`
	MaxDiscount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"max_discount"`
	UsageLimit  int            `gorm:"not null;default:0" json:"usage_limit"`
	UsedCount   int            `gorm:"not null;default:0" json:"used_count"`
	StartsAt    *time.Time     `gorm:"index" json:"starts_at"`
	EndsAt      *time.Time     `gorm:"index" json:"ends_at"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Coupon) TableName() string {
	return "coupons"
}
