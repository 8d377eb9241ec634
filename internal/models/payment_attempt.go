package models

import "time"

// PaymentAttempt is an append-only record of one payment try against an
// order. Duplicate gateway notifications must not create new rows.
type PaymentAttempt struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	OrderID          uint      `gorm:"index;not null" json:"order_id"`
	GatewayPaymentID string    `gorm:"index;type:varchar(64)" json:"gateway_payment_id,omitempty"`
	Outcome          string    `gorm:"type:varchar(20);not null" json:"outcome"`
	Method           string    `gorm:"type:varchar(32)" json:"method,omitempty"`
	ErrorCode        string    `gorm:"type:varchar(64)" json:"error_code,omitempty"`
	ErrorDescription string    `gorm:"type:varchar(255)" json:"error_description,omitempty"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
}

// TableName sets the table name.
func (PaymentAttempt) TableName() string {
	return "payment_attempts"
}
