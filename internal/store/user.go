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

// ErrUserNotFound indicates no user record matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// FindUserByEmail retrieves a user by email address.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.users().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &user, nil
}

// InsertUser inserts a new user record and returns its generated id.
// The existence check lives in the service layer; the check-then-insert pair
// is not atomic, so a duplicate under a first-registration race is tolerated.
func (s *Store) InsertUser(ctx context.Context, user *model.User) (primitive.ObjectID, error) {
	result, err := s.users().InsertOne(ctx, user)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert user: %w", err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return id, nil
}
