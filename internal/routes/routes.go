package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/marsad11223/product-explorer-api/internal/handlers"
	"github.com/marsad11223/product-explorer-api/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	products *handlers.ProductHandler,
	interactions *handlers.InteractionHandler,
	dashboard *handlers.DashboardHandler,
) {
	// Apply global middleware
	r.Use(middleware.Logger())

	productRouter := r.Group("/products")
	{
		productRouter.POST("/", products.Create)
		productRouter.GET("/", products.List)
		productRouter.GET("/recommendations", products.Recommendations)
		productRouter.GET("/:id", products.Get)
		productRouter.PUT("/:id", products.Update)
		productRouter.DELETE("/:id", products.Delete)

		productRouter.POST("/:id/click", products.TrackClick)
		productRouter.POST("/:id/time-spend", products.TrackTimeSpent)
	}

	r.POST("/interactions", interactions.Create)

	dashboardRouter := r.Group("/dashboard")
	{
		dashboardRouter.GET("/interaction-trends", dashboard.InteractionTrends)
		dashboardRouter.GET("/most-interacted-products", dashboard.MostInteractedProducts)
		dashboardRouter.GET("/conversion-funnel", dashboard.ConversionFunnel)
	}

	// Health check
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}
