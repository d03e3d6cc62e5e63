package dto

import "github.com/marsad11223/product-explorer-api/internal/models"

// InteractionTrend is one hourly bucket of the trend report. Hour is the
// UTC hour-of-day of the bucket start.
type InteractionTrend struct {
	Hour      int     `json:"hour"`
	Searches  int64   `json:"searches"`
	Views     int64   `json:"views"`
	Clicks    int64   `json:"clicks"`
	TimeSpend float64 `json:"time_spend"`
}

// InteractionDatum and InteractionSeries match the chart-friendly shape the
// dashboard frontend consumes.
type InteractionDatum struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

type InteractionSeries struct {
	Name string             `json:"name"`
	Data []InteractionDatum `json:"data"`
}

type MostInteractedProductsResponse struct {
	Searches []InteractionSeries `json:"searches"`
	Products []InteractionSeries `json:"products"`
}

// ConversionFunnel totals; TotalTimeSpent is whole minutes.
type ConversionFunnel struct {
	Searches       int64 `json:"searches"`
	Views          int64 `json:"views"`
	Clicks         int64 `json:"clicks"`
	TotalTimeSpent int64 `json:"totalTimeSpent"`
}

type RecommendationResponse struct {
	RecommendationText  string           `json:"recommendationText"`
	RecommendedProducts []models.Product `json:"recommendedProducts"`
}
