package repository

import (
	"time"

	"github.com/sabzihub/backend/internal/constants"
	"github.com/sabzihub/backend/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository aggregates statistics for the back office. It only
// reads rolled-up numbers and carries no business rules.
type DashboardRepository interface {
	GetStatusCounts() (map[models.OrderStatus]int64, error)
	GetDayStats(startAt, endAt time.Time) (DashboardDayRow, error)
	GetLowStockTiers(threshold int, limit int) ([]DashboardLowStockRow, error)
	GetTopProducts(startAt, endAt time.Time, limit int) ([]DashboardProductRankingRow, error)
}

// DashboardDayRow holds one-day order and revenue totals.
type DashboardDayRow struct {
	OrdersTotal     int64
	OrdersDelivered int64
	OrdersCancelled int64
	RevenuePaid     float64
}

// DashboardLowStockRow is one tier running low.
type DashboardLowStockRow struct {
	TierID      uint
	ProductID   uint
	ProductName string
	TierLabel   string
	Stock       int
}

// DashboardProductRankingRow is one row of the product ranking.
type DashboardProductRankingRow struct {
	ProductID uint
	Name      string
	Orders    int64
	Quantity  int64
	Amount    float64
}

// GormDashboardRepository is the GORM implementation.
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates a dashboard repository.
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// GetStatusCounts counts orders per lifecycle status.
func (r *GormDashboardRepository) GetStatusCounts() (map[models.OrderStatus]int64, error) {
	var rows []struct {
		Status models.OrderStatus
		Count  int64
	}
	if err := r.db.Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[models.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// GetDayStats aggregates order totals and paid revenue for a window.
func (r *GormDashboardRepository) GetDayStats(startAt, endAt time.Time) (DashboardDayRow, error) {
	result := DashboardDayRow{}

	base := func() *gorm.DB {
		return r.db.Model(&models.Order{}).
			Where("created_at >= ? AND created_at < ?", startAt, endAt)
	}

	if err := base().Count(&result.OrdersTotal).Error; err != nil {
		return result, err
	}
	if err := base().Where("status = ?", models.StatusDelivered).
		Count(&result.OrdersDelivered).Error; err != nil {
		return result, err
	}
	if err := base().Where("status = ?", models.StatusCancelled).
		Count(&result.OrdersCancelled).Error; err != nil {
		return result, err
	}

	var revenue struct {
		Total float64
	}
	if err := base().
		Select("COALESCE(SUM(total), 0) AS total").
		Where("payment_status = ?", constants.PaymentStatusPaid).
		Scan(&revenue).Error; err != nil {
		return result, err
	}
	result.RevenuePaid = revenue.Total
	return result, nil
}

// GetLowStockTiers lists active tiers at or below the threshold.
func (r *GormDashboardRepository) GetLowStockTiers(threshold int, limit int) ([]DashboardLowStockRow, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []DashboardLowStockRow
	if err := r.db.Model(&models.PriceTier{}).
		Select("price_tiers.id AS tier_id, price_tiers.product_id, products.name AS product_name, price_tiers.label AS tier_label, price_tiers.stock").
		Joins("JOIN products ON products.id = price_tiers.product_id").
		Where("price_tiers.is_active = ? AND price_tiers.stock <= ? AND price_tiers.deleted_at IS NULL", true, threshold).
		Order("price_tiers.stock asc").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetTopProducts ranks products by paid quantity in a window.
func (r *GormDashboardRepository) GetTopProducts(startAt, endAt time.Time, limit int) ([]DashboardProductRankingRow, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []DashboardProductRankingRow
	if err := r.db.Model(&models.OrderItem{}).
		Select("order_items.product_id, order_items.name, COUNT(DISTINCT order_items.order_id) AS orders, SUM(order_items.quantity) AS quantity, SUM(order_items.line_total) AS amount").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.payment_status = ? AND orders.created_at >= ? AND orders.created_at < ?",
			constants.PaymentStatusPaid, startAt, endAt).
		Group("order_items.product_id, order_items.name").
		Order("quantity desc").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
