package models

import (
	"time"

	"gorm.io/gorm"
)

// PriceTier is one purchasable pack size of a product ("500 g", "1 kg").
// Stock is tracked per tier and reserved when an order is placed.
type PriceTier struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	ProductID uint           `gorm:"index;not null" json:"product_id"`
	Label     string         `gorm:"type:varchar(64);not null" json:"label"`
	UnitPrice Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`
	MRP       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"mrp"`
	Stock     int            `gorm:"not null;default:0" json:"stock"`
	IsActive  bool           `gorm:"default:true;index" json:"is_active"`
	SortOrder int            `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (PriceTier) TableName() string {
	return "price_tiers"
}
