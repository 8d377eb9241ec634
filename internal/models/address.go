package models

import (
	"time"

	"gorm.io/gorm"
)

// Address is a user delivery address. Orders keep their own snapshot, so
// editing an address never changes past orders.
type Address struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"index;not null" json:"user_id"`
	Label     string         `gorm:"type:varchar(32);default:'home'" json:"label"`
	Line1     string         `gorm:"type:varchar(255);not null" json:"line1"`
	Line2     string         `gorm:"type:varchar(255)" json:"line2,omitempty"`
	City      string         `gorm:"type:varchar(64);not null" json:"city"`
	Pincode   string         `gorm:"type:varchar(10);not null" json:"pincode"`
	IsDefault bool           `gorm:"not null;default:false" json:"is_default"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Address) TableName() string {
	return "addresses"
}

// Snapshot renders the address as an order-embeddable JSON object.
func (a *Address) Snapshot() JSON {
	return JSON{
		"label":   a.Label,
		"line1":   a.Line1,
		"line2":   a.Line2,
		"city":    a.City,
		"pincode": a.Pincode,
	}
}
