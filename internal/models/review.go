package models

import (
	"time"

	"gorm.io/gorm"
)

// Review is a rating left against a delivered order item.
type Review struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	UserID      uint           `gorm:"index;not null" json:"user_id"`
	ProductID   uint           `gorm:"index;not null" json:"product_id"`
	OrderItemID uint           `gorm:"uniqueIndex;not null" json:"order_item_id"`
	Rating      int            `gorm:"not null" json:"rating"`
	Comment     string         `gorm:"type:varchar(1000)" json:"comment,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Review) TableName() string {
	return "reviews"
}
