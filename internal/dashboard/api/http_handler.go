package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/retail-pos/internal/dashboard/service"
	"github.com/ridloal/retail-pos/internal/platform/httpapi"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(ds service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: ds}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	dashboardRoutes := router.Group("/dashboard")
	{
		dashboardRoutes.GET("/stats", h.GetStats)
		dashboardRoutes.GET("/analytics", h.GetAnalytics)
	}
}

func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetStats(c.Request.Context())
	if err != nil {
		httpapi.WriteError(c, "GetStats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *DashboardHandler) GetAnalytics(c *gin.Context) {
	analytics, err := h.dashboardService.GetAnalytics(c.Request.Context())
	if err != nil {
		httpapi.WriteError(c, "GetAnalytics", err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}
