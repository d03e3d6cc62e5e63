package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/marsad11223/product-explorer-api/internal/dto"
	"github.com/marsad11223/product-explorer-api/internal/services"
	"github.com/marsad11223/product-explorer-api/internal/utils"
)

type ProductHandler struct {
	products        *services.ProductService
	interactions    *services.InteractionService
	recommendations *services.RecommendationService
}

func NewProductHandler(
	products *services.ProductService,
	interactions *services.InteractionService,
	recommendations *services.RecommendationService,
) *ProductHandler {
	return &ProductHandler{
		products:        products,
		interactions:    interactions,
		recommendations: recommendations,
	}
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, "Invalid input: "+err.Error())
		return
	}

	product, err := h.products.Create(c.Request.Context(), &req)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

func (h *ProductHandler) List(c *gin.Context) {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil || page <= 0 {
		utils.ErrorResponse(c, 400, "Invalid page number")
		return
	}
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	if err != nil || limit <= 0 {
		utils.ErrorResponse(c, 400, "Invalid limit parameter")
		return
	}

	search := c.Query("search")
	sessionID := c.Query("sessionId")

	resp, err := h.products.FindAll(c.Request.Context(), page, limit, search, sessionID)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.SuccessResponse(c, resp)
}

func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.products.FindOne(c.Request.Context(), c.Param("id"), c.Query("sessionId"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, "Invalid input: "+err.Error())
		return
	}

	product, err := h.products.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	product, err := h.products.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

func (h *ProductHandler) TrackClick(c *gin.Context) {
	var req dto.TrackClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, "Invalid input: "+err.Error())
		return
	}

	interaction, err := h.interactions.RecordClick(c.Request.Context(), req.SessionID, c.Param("id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.SuccessResponse(c, interaction)
}

func (h *ProductHandler) TrackTimeSpent(c *gin.Context) {
	var req dto.TrackTimeSpentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, "Invalid input: "+err.Error())
		return
	}

	interaction, err := h.interactions.RecordTimeSpent(c.Request.Context(), req.SessionID, c.Param("id"), *req.TimeSpend)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.SuccessResponse(c, interaction)
}

func (h *ProductHandler) Recommendations(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		utils.ErrorResponse(c, 400, "Missing query parameter")
		return
	}

	resp, err := h.recommendations.GetRecommendations(c.Request.Context(), query)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.SuccessResponse(c, resp)
}
