package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title              string             `bson:"title" json:"title"`
	Description        string             `bson:"description" json:"description"`
	Price              float64            `bson:"price" json:"price"`
	DiscountPercentage float64            `bson:"discountPercentage" json:"discountPercentage"`
	Rating             float64            `bson:"rating" json:"rating"`
	Stock              int                `bson:"stock" json:"stock"`
	Brand              string             `bson:"brand" json:"brand"`
	Category           string             `bson:"category" json:"category"`
	Thumbnail          string             `bson:"thumbnail" json:"thumbnail"`
	Images             []string           `bson:"images" json:"images"`
}
