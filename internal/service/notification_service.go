package service

import (
	"fmt"

	"github.com/sabzihub/backend/internal/models"
	"github.com/sabzihub/backend/internal/repository"
)

// NotificationService owns the per-user notification feed.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	orderRepo        repository.OrderRepository
}

// NewNotificationService creates a notification service.
func NewNotificationService(notificationRepo repository.NotificationRepository, orderRepo repository.OrderRepository) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		orderRepo:        orderRepo,
	}
}

// statusTitles maps lifecycle statuses to customer-facing feed titles.
var statusTitles = map[models.OrderStatus]string{
	models.StatusConfirmed:         "Order confirmed",
	models.StatusPacked:            "Order packed",
	models.StatusReadyToDeliver:    "Order ready for delivery",
	models.StatusHandedToAgent:     "Order out for delivery",
	models.StatusDelivered:         "Order delivered",
	models.StatusCancelled:         "Order cancelled",
	models.StatusPaymentFailed:     "Payment failed",
	models.StatusRefundInitiated:   "Refund initiated",
	models.StatusRefunded:          "Refund completed",
	models.StatusPartiallyRefunded: "Refund completed",
}

// NotifyOrderStatus writes one feed entry for an order status change.
// Unknown or silent statuses write nothing.
func (s *NotificationService) NotifyOrderStatus(orderID uint, status models.OrderStatus) error {
	title, ok := statusTitles[status]
	if !ok {
		return nil
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	return s.notificationRepo.Create(&models.Notification{
		UserID:  order.UserID,
		OrderNo: order.OrderNo,
		Title:   title,
		Body:    fmt.Sprintf("Order %s is now %s.", order.OrderNo, status),
	})
}

// List returns a user's feed.
func (s *NotificationService) List(filter repository.NotificationListFilter) ([]models.Notification, int64, error) {
	return s.notificationRepo.List(filter)
}

// MarkRead stamps one notification as read.
func (s *NotificationService) MarkRead(id, userID uint) error {
	return s.notificationRepo.MarkRead(id, userID)
}

// UnreadCount returns the user's unread badge count.
func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	return s.notificationRepo.UnreadCount(userID)
}
