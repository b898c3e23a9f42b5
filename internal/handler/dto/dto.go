// Package dto defines request and response types for the HTTP API.
package dto

// TokenRequest is the body for token issuance.
type TokenRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	PhotoURL string `json:"photoURL,omitempty"`
}

// TokenResponse carries a freshly issued access token.
type TokenResponse struct {
	Token string `json:"token"`
}

// RegisterRequest is the body for user registration.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	PhotoURL string `json:"photoURL,omitempty"`
}

// RegisterResponse reports the outcome of a registration attempt.
// InsertedID is null when the user already existed, mirroring the driver's
// insert result shape clients already consume.
type RegisterResponse struct {
	Message    string  `json:"message,omitempty"`
	InsertedID *string `json:"insertedId"`
}

// CreateQueryRequest is the body for posting a new product query.
type CreateQueryRequest struct {
	UserEmail    string `json:"userEmail"`
	UserName     string `json:"userName,omitempty"`
	UserPhotoURL string `json:"userPhotoURL,omitempty"`
	ProductName  string `json:"productName"`
	ProductBrand string `json:"productBrand,omitempty"`
	ProductImage string `json:"productImage,omitempty"`
	ProductTitle string `json:"productTitle,omitempty"`
	ProductROA   string `json:"productROA,omitempty"`
}

// UpdateQueryRequest carries the editable product fields of a query.
// Identity and counter fields are not accepted here.
type UpdateQueryRequest struct {
	ProductName  string `json:"productName"`
	ProductBrand string `json:"productBrand,omitempty"`
	ProductImage string `json:"productImage,omitempty"`
	ProductTitle string `json:"productTitle,omitempty"`
	ProductROA   string `json:"productROA,omitempty"`
}

// CreateRecommendationRequest is the body for posting a recommendation
// against an existing query. Recommender identity fields are overwritten
// from the verified token server-side.
type CreateRecommendationRequest struct {
	QueryID                 string `json:"queryId"`
	QueryTitle              string `json:"queryTitle,omitempty"`
	ProductName             string `json:"productName,omitempty"`
	ProductImage            string `json:"productImage,omitempty"`
	Title                   string `json:"title,omitempty"`
	RecommendedProductName  string `json:"recommendedProductName,omitempty"`
	RecommendedProductImage string `json:"recommendedProductImage,omitempty"`
	Reason                  string `json:"reason,omitempty"`
	RecommenderName         string `json:"recommenderName,omitempty"`
}

// InsertResponse reports a successful document insert.
type InsertResponse struct {
	InsertedID string `json:"insertedId"`
}

// DeleteResponse reports a successful document delete.
type DeleteResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
