package models

import "time"

// OrderCounter holds the per-day order number sequence. The row for a day
// is bumped with an atomic upsert so concurrent checkouts never collide.
type OrderCounter struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	DateKey   string    `gorm:"uniqueIndex;type:varchar(8);not null" json:"date_key"`
	Seq       int64     `gorm:"not null;default:0" json:"seq"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (OrderCounter) TableName() string {
	return "order_counters"
}
