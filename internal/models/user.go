package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a storefront customer, identified by phone number.
type User struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Phone       string         `gorm:"uniqueIndex;type:varchar(20);not null" json:"phone"`
	Name        string         `gorm:"default:''" json:"name"`
	Status      string         `gorm:"default:'active'" json:"status"`
	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (User) TableName() string {
	return "users"
}
