package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a catalog item. Pricing and stock live on PriceTier rows;
// a product with no active tier cannot be bought.
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CategoryID  uint           `gorm:"not null;index" json:"category_id"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	ImageURL    string         `gorm:"type:varchar(500)" json:"image_url,omitempty"`
	Tags        StringArray    `gorm:"type:json" json:"tags"`
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Category Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Tiers    []PriceTier `gorm:"foreignKey:ProductID" json:"tiers,omitempty"`
}

// TableName sets the table name.
func (Product) TableName() string {
	return "products"
}
