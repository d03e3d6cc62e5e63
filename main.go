package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/marsad11223/product-explorer-api/internal/config"
	"github.com/marsad11223/product-explorer-api/internal/database"
	"github.com/marsad11223/product-explorer-api/internal/handlers"
	"github.com/marsad11223/product-explorer-api/internal/routes"
	"github.com/marsad11223/product-explorer-api/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	if err := database.Connect(cfg.MongoURI, cfg.DatabaseName); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer database.Disconnect(context.Background())
	database.InitRedis(cfg.RedisAddr)
	log.Info().Str("database", cfg.DatabaseName).Msg("connected to MongoDB")

	interactionsCol := database.GetCollection(database.InteractionsCollection)
	productsCol := database.GetCollection(database.ProductsCollection)

	interactionService := services.NewInteractionService(interactionsCol, cfg.MongoTimeout)
	dashboardService := services.NewDashboardService(interactionsCol, cfg.MongoTimeout)
	productService := services.NewProductService(productsCol, interactionService, cfg.MongoTimeout)
	recommendationService := services.NewRecommendationService(
		database.Rdb, interactionsCol, productsCol, cfg.Groq, cfg.MongoTimeout)

	// Keep recommendations for the hottest search terms warm.
	if cfg.Groq.Configured() {
		c := cron.New()
		c.AddFunc("@hourly", func() {
			log.Info().Msg("refreshing cached recommendations for top searches")
			recommendationService.WarmTopSearches(context.Background(), dashboardService, 3)
		})
		c.Start()
		defer c.Stop()
	}

	r := gin.Default()
	routes.SetupRoutes(
		r,
		handlers.NewProductHandler(productService, interactionService, recommendationService),
		handlers.NewInteractionHandler(interactionService),
		handlers.NewDashboardHandler(dashboardService),
	)

	log.Info().Str("addr", cfg.HTTPAddr).Msg("starting server")
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
