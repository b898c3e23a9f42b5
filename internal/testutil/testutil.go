// Package testutil provides helpers for integration tests that run against
// real MongoDB and Redis instances.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/alterwhite/alterwhite-api/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// DropCollections removes the named collections so each test starts from an
// empty database.
func DropCollections(ctx context.Context, db *mongo.Database, names ...string) error {
	for _, name := range names {
		if err := db.Collection(name).Drop(ctx); err != nil {
			return fmt.Errorf("drop collection %s: %w", name, err)
		}
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestQuery creates a test query with sensible defaults.
func NewTestQuery(t testing.TB, ownerEmail string) *model.Query {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &model.Query{
		UserEmail:    ownerEmail,
		UserName:     "Test User",
		ProductName:  fmt.Sprintf("Product %d", now.UnixNano()),
		ProductBrand: "Test Brand",
		ProductTitle: "Looking for an alternative",
		ProductROA:   "test reason",
		Date:         now,
	}
}

// NewTestRecommendation creates a test recommendation against a query.
func NewTestRecommendation(t testing.TB, queryID, recommenderEmail, ownerEmail string) *model.Recommendation {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &model.Recommendation{
		QueryID:                queryID,
		Title:                  "Try this instead",
		RecommendedProductName: fmt.Sprintf("Alternative %d", now.UnixNano()),
		Reason:                 "locally made",
		RecommenderEmail:       recommenderEmail,
		RecommenderName:        "Test Recommender",
		QueryUserEmail:         ownerEmail,
		Date:                   now,
	}
}

// UniqueEmail generates a unique email for tests.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}
