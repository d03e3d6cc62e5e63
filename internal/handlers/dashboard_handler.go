package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/marsad11223/product-explorer-api/internal/services"
	"github.com/marsad11223/product-explorer-api/internal/utils"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) InteractionTrends(c *gin.Context) {
	lastHours, err := strconv.Atoi(c.DefaultQuery("lastHours", "24"))
	if err != nil || lastHours < 0 {
		utils.ErrorResponse(c, 400, "Invalid lastHours parameter")
		return
	}

	trends, err := h.dashboard.GetInteractionTrends(c.Request.Context(), lastHours)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.SuccessResponse(c, trends)
}

func (h *DashboardHandler) MostInteractedProducts(c *gin.Context) {
	report, err := h.dashboard.GetMostInteractedProducts(c.Request.Context())
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.SuccessResponse(c, report)
}

func (h *DashboardHandler) ConversionFunnel(c *gin.Context) {
	funnel, err := h.dashboard.GetConversionFunnel(c.Request.Context())
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.SuccessResponse(c, funnel)
}
