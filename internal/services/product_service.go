package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/marsad11223/product-explorer-api/internal/apperr"
	"github.com/marsad11223/product-explorer-api/internal/dto"
	"github.com/marsad11223/product-explorer-api/internal/models"
)

// ProductService owns catalog CRUD and text search. Reads that carry a
// session record the matching interaction through the recorder.
type ProductService struct {
	col          *mongo.Collection
	interactions *InteractionService
	timeout      time.Duration
}

func NewProductService(col *mongo.Collection, interactions *InteractionService, timeout time.Duration) *ProductService {
	return &ProductService{col: col, interactions: interactions, timeout: timeout}
}

func (s *ProductService) Create(ctx context.Context, req *dto.CreateProductRequest) (*models.Product, error) {
	product := models.Product{
		ID:                 primitive.NewObjectID(),
		Title:              req.Title,
		Description:        req.Description,
		Price:              req.Price,
		DiscountPercentage: req.DiscountPercentage,
		Rating:             req.Rating,
		Stock:              req.Stock,
		Brand:              req.Brand,
		Category:           req.Category,
		Thumbnail:          req.Thumbnail,
		Images:             req.Images,
	}
	if product.Images == nil {
		product.Images = []string{}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.col.InsertOne(ctx, product); err != nil {
		return nil, apperr.Internal("failed to create product", err)
	}
	return &product, nil
}

// FindAll returns one page of products, optionally filtered by a
// case-insensitive text match across title, description, brand and
// category. A non-empty search term is recorded as a search interaction.
func (s *ProductService) FindAll(ctx context.Context, page, limit int64, search, sessionID string) (*dto.PaginatedProductsResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	filter := bson.M{}
	if search != "" {
		regex := primitive.Regex{Pattern: search, Options: "i"}
		filter["$or"] = []bson.M{
			{"title": regex},
			{"description": regex},
			{"brand": regex},
			{"category": regex},
		}
	}

	qctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	total, err := s.col.CountDocuments(qctx, filter)
	if err != nil {
		return nil, apperr.Internal("failed to count products", err)
	}

	findOptions := options.Find().
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := s.col.Find(qctx, filter, findOptions)
	if err != nil {
		return nil, apperr.Internal("failed to find products", err)
	}
	defer cursor.Close(qctx)

	products := []models.Product{}
	if err := cursor.All(qctx, &products); err != nil {
		return nil, apperr.Internal("failed to decode products", err)
	}

	if search != "" {
		if _, err := s.interactions.RecordSearch(ctx, sessionID, search); err != nil {
			return nil, err
		}
	}

	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}

	return &dto.PaginatedProductsResponse{
		Page:           page,
		Limit:          limit,
		TotalDocuments: total,
		TotalPages:     totalPages,
		Data:           products,
	}, nil
}

// FindOne fetches a product by id. When sessionID is set, the read is
// recorded as a view interaction.
func (s *ProductService) FindOne(ctx context.Context, id, sessionID string) (*models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.InvalidArgument("invalid product ID format")
	}

	qctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var product models.Product
	if err := s.col.FindOne(qctx, bson.M{"_id": objID}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Internal("failed to retrieve product", err)
	}

	if sessionID != "" {
		if _, err := s.interactions.RecordView(ctx, sessionID, id); err != nil {
			return nil, err
		}
	}
	return &product, nil
}

func (s *ProductService) Update(ctx context.Context, id string, req *dto.UpdateProductRequest) (*models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.InvalidArgument("invalid product ID format")
	}

	set := bson.M{}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Price != nil {
		set["price"] = *req.Price
	}
	if req.DiscountPercentage != nil {
		set["discountPercentage"] = *req.DiscountPercentage
	}
	if req.Rating != nil {
		set["rating"] = *req.Rating
	}
	if req.Stock != nil {
		set["stock"] = *req.Stock
	}
	if req.Brand != nil {
		set["brand"] = *req.Brand
	}
	if req.Category != nil {
		set["category"] = *req.Category
	}
	if req.Thumbnail != nil {
		set["thumbnail"] = *req.Thumbnail
	}
	if req.Images != nil {
		set["images"] = *req.Images
	}
	if len(set) == 0 {
		return nil, apperr.InvalidArgument("no fields to update")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var product models.Product
	if err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Internal("failed to update product", err)
	}
	return &product, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) (*models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.InvalidArgument("invalid product ID format")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var product models.Product
	if err := s.col.FindOneAndDelete(ctx, bson.M{"_id": objID}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Internal("failed to delete product", err)
	}
	return &product, nil
}
