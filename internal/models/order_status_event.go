package models

import "time"

// OrderStatusEvent is an append-only record of one status transition.
// Rows are never updated or deleted.
type OrderStatusEvent struct {
	ID         uint        `gorm:"primarykey" json:"id"`
	OrderID    uint        `gorm:"index;not null" json:"order_id"`
	FromStatus OrderStatus `gorm:"type:varchar(32);not null" json:"from_status"`
	ToStatus   OrderStatus `gorm:"type:varchar(32);not null" json:"to_status"`
	Actor      string      `gorm:"type:varchar(20);not null" json:"actor"`
	Note       string      `gorm:"type:varchar(500)" json:"note,omitempty"`
	CreatedAt  time.Time   `gorm:"index" json:"created_at"`
}

// TableName sets the table name.
func (OrderStatusEvent) TableName() string {
	return "order_status_events"
}
