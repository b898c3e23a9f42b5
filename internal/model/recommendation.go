package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recommendation is a single response to a Query, authored by another user.
// QueryID is a foreign-key-style reference to the target query's id, stored
// as the hex string the client submitted; QueryUserEmail is a denormalized
// copy of the target query's owner used for the "received by me" listing.
type Recommendation struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	QueryID string             `bson:"queryId" json:"queryId"`

	QueryTitle   string `bson:"queryTitle,omitempty" json:"queryTitle,omitempty"`
	ProductName  string `bson:"productName,omitempty" json:"productName,omitempty"`
	ProductImage string `bson:"productImage,omitempty" json:"productImage,omitempty"`

	Title                   string `bson:"title,omitempty" json:"title,omitempty"`
	RecommendedProductName  string `bson:"recommendedProductName,omitempty" json:"recommendedProductName,omitempty"`
	RecommendedProductImage string `bson:"recommendedProductImage,omitempty" json:"recommendedProductImage,omitempty"`
	Reason                  string `bson:"reason,omitempty" json:"reason,omitempty"`

	RecommenderEmail string `bson:"recommenderEmail" json:"recommenderEmail"`
	RecommenderName  string `bson:"recommenderName,omitempty" json:"recommenderName,omitempty"`
	QueryUserEmail   string `bson:"queryUserEmail" json:"queryUserEmail"`

	Date time.Time `bson:"date,omitempty" json:"date,omitempty"`
}
