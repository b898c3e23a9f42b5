package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Query represents a user's request for product recommendations.
// RecommendationCount tracks the number of live recommendations against it
// and is only ever changed through atomic increments at the store layer.
type Query struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	UserEmail    string             `bson:"userEmail" json:"userEmail"`
	UserName     string             `bson:"userName,omitempty" json:"userName,omitempty"`
	UserPhotoURL string             `bson:"userPhotoURL,omitempty" json:"userPhotoURL,omitempty"`

	ProductName  string `bson:"productName" json:"productName"`
	ProductBrand string `bson:"productBrand" json:"productBrand"`
	ProductImage string `bson:"productImage" json:"productImage"`
	ProductTitle string `bson:"productTitle" json:"productTitle"`
	ProductROA   string `bson:"productROA" json:"productROA"`

	RecommendationCount int64     `bson:"recommendationCount" json:"recommendationCount"`
	Date                time.Time `bson:"date" json:"date"`
}

// ProductUpdate is the whitelist of descriptive fields a metadata update may
// replace. Counter, owner and date are deliberately absent.
type ProductUpdate struct {
	ProductName  string `bson:"productName" json:"productName"`
	ProductBrand string `bson:"productBrand" json:"productBrand"`
	ProductImage string `bson:"productImage" json:"productImage"`
	ProductTitle string `bson:"productTitle" json:"productTitle"`
	ProductROA   string `bson:"productROA" json:"productROA"`
}
