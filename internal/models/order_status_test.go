package models

import "testing"

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{StatusPlaced, StatusPaymentPending, true},
		{StatusPlaced, StatusConfirmed, true},
		{StatusPlaced, StatusCancelled, true},
		{StatusPlaced, StatusDelivered, false},
		{StatusPlaced, StatusPacked, false},
		{StatusPaymentPending, StatusConfirmed, true},
		{StatusPaymentPending, StatusPaymentFailed, true},
		{StatusPaymentFailed, StatusPaymentPending, true},
		{StatusPaymentFailed, StatusConfirmed, false},
		{StatusConfirmed, StatusPacked, true},
		{StatusPacked, StatusReadyToDeliver, true},
		{StatusReadyToDeliver, StatusHandedToAgent, true},
		{StatusReadyToDeliver, StatusCancelled, false},
		{StatusHandedToAgent, StatusDelivered, true},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusRefundInitiated, true},
		{StatusRefundInitiated, StatusRefunded, true},
		{StatusRefundInitiated, StatusPartiallyRefunded, true},
		{StatusRefunded, StatusRefundInitiated, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.allowed {
			t.Errorf("%s -> %s: got %v, want %v", c.from, c.to, got, c.allowed)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	terminals := []OrderStatus{StatusDelivered, StatusRefunded, StatusPartiallyRefunded}
	for _, s := range terminals {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	nonTerminals := []OrderStatus{StatusPlaced, StatusCancelled, StatusRefundInitiated, StatusPaymentFailed}
	for _, s := range nonTerminals {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
	if OrderStatus("UNKNOWN").IsTerminal() {
		t.Error("unknown status must not report terminal")
	}
}

func TestCancellationPolicies(t *testing.T) {
	codPlaced := &Order{PaymentMethod: "cod", Status: StatusPlaced, PaymentStatus: "pending"}
	if !codPlaced.CanBeCancelledByUser() {
		t.Error("cod order in PLACED should be user-cancellable")
	}
	gatewayPlaced := &Order{PaymentMethod: "gateway", Status: StatusPlaced, PaymentStatus: "pending"}
	if gatewayPlaced.CanBeCancelledByUser() {
		t.Error("gateway order must never be user-cancellable")
	}
	codPacked := &Order{PaymentMethod: "cod", Status: StatusPacked, PaymentStatus: "pending"}
	if codPacked.CanBeCancelledByUser() {
		t.Error("cod order past PLACED must not be user-cancellable")
	}
	codPaid := &Order{PaymentMethod: "cod", Status: StatusPlaced, PaymentStatus: "paid"}
	if codPaid.CanBeCancelledByUser() {
		t.Error("paid order must not be user-cancellable")
	}

	for _, s := range []OrderStatus{StatusDelivered, StatusCancelled, StatusRefunded} {
		o := &Order{Status: s}
		if o.CanBeCancelledByAdmin() {
			t.Errorf("admin cancel must be rejected in %s", s)
		}
	}
	for _, s := range []OrderStatus{StatusPlaced, StatusPaymentPending, StatusPacked, StatusHandedToAgent, StatusRefundInitiated} {
		o := &Order{Status: s}
		if !o.CanBeCancelledByAdmin() {
			t.Errorf("admin cancel should be allowed in %s", s)
		}
	}
}
