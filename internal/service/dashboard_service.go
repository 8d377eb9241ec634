package service

import (
	"time"

	"github.com/sabzihub/backend/internal/models"
	"github.com/sabzihub/backend/internal/repository"
)

// DashboardService aggregates back-office statistics.
type DashboardService struct {
	dashboardRepo repository.DashboardRepository
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(dashboardRepo repository.DashboardRepository) *DashboardService {
	return &DashboardService{dashboardRepo: dashboardRepo}
}

// DashboardOverview is the landing page summary.
type DashboardOverview struct {
	StatusCounts map[models.OrderStatus]int64            `json:"status_counts"`
	Today        repository.DashboardDayRow              `json:"today"`
	LowStock     []repository.DashboardLowStockRow       `json:"low_stock"`
	TopProducts  []repository.DashboardProductRankingRow `json:"top_products"`
}

// Overview builds the dashboard summary: order counts per status,
// today's totals, low stock alerts and the 7-day product ranking.
func (s *DashboardService) Overview(lowStockThreshold int) (*DashboardOverview, error) {
	counts, err := s.dashboardRepo.GetStatusCounts()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := s.dashboardRepo.GetDayStats(dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}

	if lowStockThreshold <= 0 {
		lowStockThreshold = 10
	}
	lowStock, err := s.dashboardRepo.GetLowStockTiers(lowStockThreshold, 20)
	if err != nil {
		return nil, err
	}

	topProducts, err := s.dashboardRepo.GetTopProducts(dayStart.AddDate(0, 0, -7), dayStart.Add(24*time.Hour), 10)
	if err != nil {
		return nil, err
	}

	return &DashboardOverview{
		StatusCounts: counts,
		Today:        today,
		LowStock:     lowStock,
		TopProducts:  topProducts,
	}, nil
}
