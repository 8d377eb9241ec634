package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/sabzihub/backend/internal/constants"
)

// Order is the order aggregate root.
type Order struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	OrderNo          string         `gorm:"uniqueIndex;not null" json:"order_no"`
	UserID           uint           `gorm:"index;not null" json:"user_id"`
	Status           OrderStatus    `gorm:"index;not null" json:"status"`
	PaymentStatus    string         `gorm:"index;not null" json:"payment_status"`
	PaymentMethod    string         `gorm:"not null" json:"payment_method"`
	Subtotal         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`
	Discount         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount"`
	DeliveryFee      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"delivery_fee"`
	Total            Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total"`
	CouponCode       string         `gorm:"type:varchar(64)" json:"coupon_code,omitempty"`
	GatewayOrderID   string         `gorm:"index;type:varchar(64)" json:"gateway_order_id,omitempty"`
	GatewayPaymentID string         `gorm:"type:varchar(64)" json:"gateway_payment_id,omitempty"`
	GatewaySignature string         `gorm:"type:varchar(128)" json:"-"`
	RefundID         string         `gorm:"type:varchar(64)" json:"refund_id,omitempty"`
	RefundAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"refund_amount"`
	PaymentDetails   JSON           `gorm:"type:json" json:"payment_details,omitempty"`
	AddressSnapshot  JSON           `gorm:"type:json" json:"address_snapshot,omitempty"`
	StockReserved    bool           `gorm:"not null;default:false" json:"-"`
	Version          int64          `gorm:"not null;default:0" json:"-"`
	CancelReason     string         `gorm:"type:varchar(255)" json:"cancel_reason,omitempty"`
	CancelledBy      string         `gorm:"type:varchar(20)" json:"cancelled_by,omitempty"`
	PaymentExpiresAt *time.Time     `gorm:"index" json:"payment_expires_at,omitempty"`
	PaidAt           *time.Time     `gorm:"index" json:"paid_at,omitempty"`
	CancelledAt      *time.Time     `gorm:"index" json:"cancelled_at,omitempty"`
	RefundedAt       *time.Time     `json:"refunded_at,omitempty"`
	DeliveredAt      *time.Time     `json:"delivered_at,omitempty"`
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	Items        []OrderItem        `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	StatusEvents []OrderStatusEvent `gorm:"foreignKey:OrderID" json:"status_events,omitempty"`
	Attempts     []PaymentAttempt   `gorm:"foreignKey:OrderID" json:"payment_attempts,omitempty"`
}

// TableName sets the table name.
func (Order) TableName() string {
	return "orders"
}

// CanBeCancelledByUser reports whether the owning user may cancel the order
// directly. Gateway orders always go through the support/refund flow.
func (o *Order) CanBeCancelledByUser() bool {
	return o.PaymentMethod == constants.PaymentMethodCOD &&
		o.Status == StatusPlaced &&
		o.PaymentStatus != constants.PaymentStatusPaid
}

// CanBeCancelledByAdmin reports whether an admin may cancel the order.
func (o *Order) CanBeCancelledByAdmin() bool {
	switch o.Status {
	case StatusDelivered, StatusCancelled, StatusRefunded:
		return false
	}
	return true
}

// IsPaymentWindowValid reports whether a payment success may still be
// applied. Orders without an expiry never expire.
func (o *Order) IsPaymentWindowValid(now time.Time) bool {
	if o.PaymentExpiresAt == nil {
		return true
	}
	return now.Before(*o.PaymentExpiresAt)
}
