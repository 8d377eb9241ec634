package queue

import (
	"encoding/json"

	"github.com/sabzihub/backend/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderPaymentExpire closes the payment window of an unpaid order.
	TaskOrderPaymentExpire = constants.TaskOrderPaymentExpire
	// TaskOrderStatusNotify writes a user notification for a status change.
	TaskOrderStatusNotify = constants.TaskOrderStatusNotify
)

// OrderPaymentExpirePayload is the payment expiry task payload.
type OrderPaymentExpirePayload struct {
	OrderID uint `json:"order_id"`
}

// OrderStatusNotifyPayload is the status notification task payload.
type OrderStatusNotifyPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// NewOrderPaymentExpireTask creates a payment expiry task.
func NewOrderPaymentExpireTask(payload OrderPaymentExpirePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderPaymentExpire, body), nil
}

// NewOrderStatusNotifyTask creates a status notification task.
func NewOrderStatusNotifyTask(payload OrderStatusNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusNotify, body), nil
}
