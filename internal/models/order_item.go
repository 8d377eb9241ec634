package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem is an immutable line snapshot taken at checkout.
type OrderItem struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	OrderID    uint           `gorm:"index;not null" json:"order_id"`
	ProductID  uint           `gorm:"index;not null" json:"product_id"`
	TierID     uint           `gorm:"index;not null" json:"tier_id"`
	Name       string         `gorm:"not null" json:"name"`
	TierLabel  string         `gorm:"type:varchar(64);not null" json:"tier_label"`
	ImageURL   string         `gorm:"type:varchar(500)" json:"image_url,omitempty"`
	UnitPrice  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`
	MRP        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"mrp"`
	Quantity   int            `gorm:"not null" json:"quantity"`
	LineTotal  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"line_total"`
	IsReviewed bool           `gorm:"not null;default:false" json:"is_reviewed"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (OrderItem) TableName() string {
	return "order_items"
}
