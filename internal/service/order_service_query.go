package service

import (
	"context"
	"strings"
	"time"

	"github.com/sabzihub/backend/internal/cache"
	"github.com/sabzihub/backend/internal/constants"
	"github.com/sabzihub/backend/internal/logger"
	"github.com/sabzihub/backend/internal/models"
	"github.com/sabzihub/backend/internal/repository"
)

// GetOrderByUser fetches one of the user's orders with items, history
// and payment attempts.
func (s *OrderService) GetOrderByUser(orderID uint, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return s.syncExpiredOnRead(order), nil
}

// GetOrderByNoAndUser fetches an order by number, serving the cached
// snapshot when it is fresh.
func (s *OrderService) GetOrderByNoAndUser(orderNo string, userID uint) (*models.Order, error) {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return nil, ErrOrderNotFound
	}

	ctx := context.Background()
	if cached, hit, err := cache.GetOrder(ctx, orderNo); err == nil && hit && cached.UserID == userID {
		if cached.Status != models.StatusPaymentPending || cached.IsPaymentWindowValid(time.Now()) {
			return cached, nil
		}
	}

	order, err := s.orderRepo.GetByOrderNoAndUser(orderNo, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	order = s.syncExpiredOnRead(order)

	if err := cache.SetOrder(ctx, order); err != nil {
		logger.Warnw("order_cache_set_failed", "order_no", orderNo, "error", err)
	}
	return order, nil
}

// ListOrdersByUser lists the user's orders, newest first.
func (s *OrderService) ListOrdersByUser(userID uint, page, pageSize int, status models.OrderStatus) ([]models.Order, int64, error) {
	orders, total, err := s.orderRepo.ListByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   status,
	})
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	return orders, total, nil
}

// ListOrdersForAdmin lists orders for the back office.
func (s *OrderService) ListOrdersForAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	orders, total, err := s.orderRepo.ListAdmin(filter)
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	return orders, total, nil
}

// GetOrderForAdmin fetches any order by id.
func (s *OrderService) GetOrderForAdmin(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// syncExpiredOnRead lazily cancels an overdue pending order so reads
// between sweeps never show a stale payment window.
func (s *OrderService) syncExpiredOnRead(order *models.Order) *models.Order {
	if order.Status != models.StatusPaymentPending || order.IsPaymentWindowValid(time.Now()) {
		return order
	}
	updated, err := s.applyTransition(order, models.StatusCancelled, constants.ActorSystem, "payment window expired", nil)
	if err != nil {
		logger.Warnw("order_expire_on_read_failed", "order_id", order.ID, "error", err)
		return order
	}
	return updated
}
