package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/marsad11223/product-explorer-api/internal/dto"
	"github.com/marsad11223/product-explorer-api/internal/models"
	"github.com/marsad11223/product-explorer-api/internal/services"
	"github.com/marsad11223/product-explorer-api/internal/utils"
)

type InteractionHandler struct {
	interactions *services.InteractionService
}

func NewInteractionHandler(interactions *services.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactions: interactions}
}

// Create is the generic POST /interactions intake. Per-kind endpoints
// under /products/:id cover click and time-spend; this one accepts any of
// the four types with the fields that type needs.
func (h *InteractionHandler) Create(c *gin.Context) {
	var req dto.CreateInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, "Invalid input: "+err.Error())
		return
	}

	if req.SessionID == "" || req.InteractionType == "" {
		utils.ErrorResponse(c, 400, "Missing required fields")
		return
	}

	ctx := c.Request.Context()

	switch models.InteractionType(req.InteractionType) {
	case models.InteractionSearch:
		interaction, err := h.interactions.RecordSearch(ctx, req.SessionID, req.SearchQuery)
		if err != nil {
			utils.ErrorFrom(c, err)
			return
		}
		utils.SuccessResponse(c, interaction)

	case models.InteractionView:
		if req.ProductID == "" {
			utils.ErrorResponse(c, 400, "Missing required fields")
			return
		}
		interaction, err := h.interactions.RecordView(ctx, req.SessionID, req.ProductID)
		if err != nil {
			utils.ErrorFrom(c, err)
			return
		}
		utils.SuccessResponse(c, interaction)

	case models.InteractionClick:
		if req.ProductID == "" {
			utils.ErrorResponse(c, 400, "Missing required fields")
			return
		}
		interaction, err := h.interactions.RecordClick(ctx, req.SessionID, req.ProductID)
		if err != nil {
			utils.ErrorFrom(c, err)
			return
		}
		utils.SuccessResponse(c, interaction)

	case models.InteractionTimeSpend:
		if req.ProductID == "" || req.TimeSpend == nil {
			utils.ErrorResponse(c, 400, "Missing required fields")
			return
		}
		interaction, err := h.interactions.RecordTimeSpent(ctx, req.SessionID, req.ProductID, *req.TimeSpend)
		if err != nil {
			utils.ErrorFrom(c, err)
			return
		}
		utils.SuccessResponse(c, interaction)

	default:
		utils.ErrorResponse(c, 400, "Invalid interaction type")
	}
}
