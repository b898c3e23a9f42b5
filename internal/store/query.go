package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alterwhite/alterwhite-api/internal/model"
)

// ErrQueryNotFound indicates no query matches the given id.
var ErrQueryNotFound = errors.New("query not found")

// SearchQueries returns queries whose productName matches the text filter,
// case-insensitively. An empty filter matches everything; no matches is an
// empty slice, never an error.
func (s *Store) SearchQueries(ctx context.Context, text string) ([]*model.Query, error) {
	filter := bson.M{
		"productName": primitive.Regex{Pattern: text, Options: "i"},
	}

	cursor, err := s.queries().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search queries: %w", err)
	}

	queries := []*model.Query{}
	if err := cursor.All(ctx, &queries); err != nil {
		return nil, fmt.Errorf("failed to decode queries: %w", err)
	}
	return queries, nil
}

// ListQueriesByOwner returns all queries owned by email, newest first.
func (s *Store) ListQueriesByOwner(ctx context.Context, email string) ([]*model.Query, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := s.queries().Find(ctx, bson.M{"userEmail": email}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list queries by owner: %w", err)
	}

	queries := []*model.Query{}
	if err := cursor.All(ctx, &queries); err != nil {
		return nil, fmt.Errorf("failed to decode queries: %w", err)
	}
	return queries, nil
}

// GetQueryByID retrieves a single query by id.
func (s *Store) GetQueryByID(ctx context.Context, id primitive.ObjectID) (*model.Query, error) {
	var query model.Query
	err := s.queries().FindOne(ctx, bson.M{"_id": id}).Decode(&query)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrQueryNotFound
		}
		return nil, fmt.Errorf("failed to get query by id: %w", err)
	}
	return &query, nil
}

// InsertQuery inserts a new query and returns its generated id.
func (s *Store) InsertQuery(ctx context.Context, query *model.Query) (primitive.ObjectID, error) {
	result, err := s.queries().InsertOne(ctx, query)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert query: %w", err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return id, nil
}

// AdjustRecommendationCount applies an atomic $inc of delta to the query's
// recommendationCount and returns the updated document. The increment is
// applied by the store engine, never read-modify-write here, so concurrent
// adjustments on the same query are never lost. The counter is not floored:
// a decrement below zero goes negative.
func (s *Store) AdjustRecommendationCount(ctx context.Context, id primitive.ObjectID, delta int64) (*model.Query, error) {
	update := bson.M{"$inc": bson.M{"recommendationCount": delta}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var query model.Query
	err := s.queries().FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&query)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrQueryNotFound
		}
		return nil, fmt.Errorf("failed to adjust recommendation count: %w", err)
	}
	return &query, nil
}

// UpdateQueryProduct replaces the whitelisted product metadata fields via
// $set. Counter, owner and date fields are never touched.
func (s *Store) UpdateQueryProduct(ctx context.Context, id primitive.ObjectID, fields model.ProductUpdate) error {
	update := bson.M{"$set": bson.M{
		"productName":  fields.ProductName,
		"productBrand": fields.ProductBrand,
		"productImage": fields.ProductImage,
		"productTitle": fields.ProductTitle,
		"productROA":   fields.ProductROA,
	}}

	result, err := s.queries().UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update query product fields: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrQueryNotFound
	}
	return nil
}

// DeleteQuery removes a query. Recommendations referencing it are left in
// place; the two stores are linked only by the queryId reference.
func (s *Store) DeleteQuery(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.queries().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete query: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrQueryNotFound
	}
	return nil
}
