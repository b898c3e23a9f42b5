package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/alterwhite/alterwhite-api/internal/model"
)

// ErrRecommendationNotFound indicates no recommendation matches the given id.
var ErrRecommendationNotFound = errors.New("recommendation not found")

// ListRecommendationsForQuery returns all recommendations referencing the
// query id. The reference is the hex string as stored, not an ObjectID.
func (s *Store) ListRecommendationsForQuery(ctx context.Context, queryID string) ([]*model.Recommendation, error) {
	return s.listRecommendations(ctx, bson.M{"queryId": queryID})
}

// ListRecommendationsByRecommender returns recommendations authored by email.
func (s *Store) ListRecommendationsByRecommender(ctx context.Context, email string) ([]*model.Recommendation, error) {
	return s.listRecommendations(ctx, bson.M{"recommenderEmail": email})
}

// ListRecommendationsForQueryOwner returns recommendations made against
// queries owned by email.
func (s *Store) ListRecommendationsForQueryOwner(ctx context.Context, email string) ([]*model.Recommendation, error) {
	return s.listRecommendations(ctx, bson.M{"queryUserEmail": email})
}

func (s *Store) listRecommendations(ctx context.Context, filter bson.M) ([]*model.Recommendation, error) {
	cursor, err := s.recommendations().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}

	recs := []*model.Recommendation{}
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("failed to decode recommendations: %w", err)
	}
	return recs, nil
}

// GetRecommendationByID retrieves a single recommendation by id.
func (s *Store) GetRecommendationByID(ctx context.Context, id primitive.ObjectID) (*model.Recommendation, error) {
	var rec model.Recommendation
	err := s.recommendations().FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRecommendationNotFound
		}
		return nil, fmt.Errorf("failed to get recommendation by id: %w", err)
	}
	return &rec, nil
}

// InsertRecommendation inserts a new recommendation and returns its id.
func (s *Store) InsertRecommendation(ctx context.Context, rec *model.Recommendation) (primitive.ObjectID, error) {
	result, err := s.recommendations().InsertOne(ctx, rec)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert recommendation: %w", err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return id, nil
}

// DeleteRecommendation removes a recommendation.
func (s *Store) DeleteRecommendation(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.recommendations().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete recommendation: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrRecommendationNotFound
	}
	return nil
}
