package admin

import (
	"strconv"

	"github.com/sabzihub/backend/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDashboardOverview returns the back-office landing page summary.
func (h *Handler) GetDashboardOverview(c *gin.Context) {
	lowStockThreshold, _ := strconv.Atoi(c.DefaultQuery("low_stock_threshold", "10"))

	overview, err := h.DashboardService.Overview(lowStockThreshold)
	if err != nil {
		respondError(c, response.CodeInternal, "dashboard fetch failed", err)
		return
	}
	response.Success(c, overview)
}
