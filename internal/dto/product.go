package dto

import "github.com/marsad11223/product-explorer-api/internal/models"

type CreateProductRequest struct {
	Title              string   `json:"title" binding:"required"`
	Description        string   `json:"description" binding:"required"`
	Price              float64  `json:"price" binding:"required"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Rating             float64  `json:"rating"`
	Stock              int      `json:"stock"`
	Brand              string   `json:"brand" binding:"required"`
	Category           string   `json:"category" binding:"required"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images"`
}

// UpdateProductRequest carries a partial update; nil fields are left untouched.
type UpdateProductRequest struct {
	Title              *string   `json:"title"`
	Description        *string   `json:"description"`
	Price              *float64  `json:"price"`
	DiscountPercentage *float64  `json:"discountPercentage"`
	Rating             *float64  `json:"rating"`
	Stock              *int      `json:"stock"`
	Brand              *string   `json:"brand"`
	Category           *string   `json:"category"`
	Thumbnail          *string   `json:"thumbnail"`
	Images             *[]string `json:"images"`
}

type PaginatedProductsResponse struct {
	Page           int64            `json:"page"`
	Limit          int64            `json:"limit"`
	TotalDocuments int64            `json:"totalDocuments"`
	TotalPages     int64            `json:"totalPages"`
	Data           []models.Product `json:"data"`
}
