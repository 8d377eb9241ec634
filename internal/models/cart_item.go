package models

import (
	"time"

	"gorm.io/gorm"
)

// CartItem is one (product, tier) entry in a user's cart.
type CartItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_cart_user_tier" json:"user_id"`
	ProductID uint           `gorm:"not null;index" json:"product_id"`
	TierID    uint           `gorm:"not null;uniqueIndex:idx_cart_user_tier" json:"tier_id"`
	Quantity  int            `gorm:"not null" json:"quantity"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Product *Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Tier    *PriceTier `gorm:"foreignKey:TierID" json:"tier,omitempty"`
}

// TableName sets the table name.
func (CartItem) TableName() string {
	return "cart_items"
}
