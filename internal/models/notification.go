package models

import "time"

// Notification is a per-user feed entry written when an order changes
// status. External channels (SMS, push) consume from here.
type Notification struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	OrderNo   string     `gorm:"index;type:varchar(32)" json:"order_no,omitempty"`
	Title     string     `gorm:"type:varchar(128);not null" json:"title"`
	Body      string     `gorm:"type:varchar(500)" json:"body,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
}

// TableName sets the table name.
func (Notification) TableName() string {
	return "notifications"
}
