package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/sabzihub/backend/internal/models"
)

const orderCacheTTL = 5 * time.Minute

func orderKey(orderNo string) string {
	return fmt.Sprintf("order:%s", orderNo)
}

// GetOrder reads a cached order snapshot by order number.
func GetOrder(ctx context.Context, orderNo string) (*models.Order, bool, error) {
	if orderNo == "" {
		return nil, false, nil
	}
	var order models.Order
	hit, err := GetJSON(ctx, orderKey(orderNo), &order)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &order, true, nil
}

// SetOrder caches an order snapshot.
func SetOrder(ctx context.Context, order *models.Order) error {
	if order == nil || order.OrderNo == "" {
		return nil
	}
	return SetJSON(ctx, orderKey(order.OrderNo), order, orderCacheTTL)
}

// InvalidateOrder drops the cached snapshot. Callers invoke this right
// after every successful status mutation, before returning.
func InvalidateOrder(ctx context.Context, orderNo string) error {
	if orderNo == "" {
		return nil
	}
	return Del(ctx, orderKey(orderNo))
}
