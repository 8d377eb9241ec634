package models

// OrderStatus is the lifecycle state of an order. The value set and the
// adjacency below are fixed; any transition not listed is rejected.
type OrderStatus string

const (
	StatusPlaced            OrderStatus = "PLACED"
	StatusPaymentPending    OrderStatus = "PAYMENT_PENDING"
	StatusPaymentFailed     OrderStatus = "PAYMENT_FAILED"
	StatusConfirmed         OrderStatus = "CONFIRMED"
	StatusPacked            OrderStatus = "PACKED"
	StatusReadyToDeliver    OrderStatus = "READY_TO_DELIVER"
	StatusHandedToAgent     OrderStatus = "HANDED_TO_AGENT"
	StatusDelivered         OrderStatus = "DELIVERED"
	StatusCancelled         OrderStatus = "CANCELLED"
	StatusRefundInitiated   OrderStatus = "REFUND_INITIATED"
	StatusRefunded          OrderStatus = "REFUNDED"
	StatusPartiallyRefunded OrderStatus = "PARTIALLY_REFUNDED"
)

// NextStatuses returns the set of statuses reachable from s in one step.
// Terminal and unknown statuses return nil.
func (s OrderStatus) NextStatuses() []OrderStatus {
	switch s {
	case StatusPlaced:
		return []OrderStatus{StatusPaymentPending, StatusConfirmed, StatusCancelled}
	case StatusPaymentPending:
		return []OrderStatus{StatusConfirmed, StatusPaymentFailed, StatusCancelled}
	case StatusPaymentFailed:
		return []OrderStatus{StatusPaymentPending, StatusCancelled}
	case StatusConfirmed:
		return []OrderStatus{StatusPacked, StatusCancelled}
	case StatusPacked:
		return []OrderStatus{StatusReadyToDeliver, StatusCancelled}
	case StatusReadyToDeliver:
		return []OrderStatus{StatusHandedToAgent}
	case StatusHandedToAgent:
		return []OrderStatus{StatusDelivered}
	case StatusCancelled:
		return []OrderStatus{StatusRefundInitiated}
	case StatusRefundInitiated:
		return []OrderStatus{StatusRefunded, StatusPartiallyRefunded}
	default:
		return nil
	}
}

// CanTransitionTo reports whether target is directly reachable from s.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range s.NextStatuses() {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions exist from s.
func (s OrderStatus) IsTerminal() bool {
	return s.IsValid() && len(s.NextStatuses()) == 0
}

// IsValid reports whether s is a known status value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPlaced, StatusPaymentPending, StatusPaymentFailed,
		StatusConfirmed, StatusPacked, StatusReadyToDeliver,
		StatusHandedToAgent, StatusDelivered, StatusCancelled,
		StatusRefundInitiated, StatusRefunded, StatusPartiallyRefunded:
		return true
	}
	return false
}

// String returns the raw status value.
func (s OrderStatus) String() string {
	return string(s)
}
