// Package store provides the document store access layer.
package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	usersCollection           = "users"
	queriesCollection         = "queries"
	recommendationsCollection = "recommendations"
)

// Store provides document store access methods.
// A single Store is created at startup and shared by all requests; the
// driver maintains the connection pool underneath.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to the document store and returns a Store.
func New(ctx context.Context, uri, database string) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(10).
		SetMinPoolSize(2)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	// Verify connection
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &Store{
		client: client,
		db:     client.Database(database),
	}, nil
}

// Ping checks store connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Database exposes the underlying database handle for test helpers.
func (s *Store) Database() *mongo.Database {
	return s.db
}

func (s *Store) users() *mongo.Collection {
	return s.db.Collection(usersCollection)
}

func (s *Store) queries() *mongo.Collection {
	return s.db.Collection(queriesCollection)
}

func (s *Store) recommendations() *mongo.Collection {
	return s.db.Collection(recommendationsCollection)
}
