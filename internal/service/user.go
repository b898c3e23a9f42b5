// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alterwhite/alterwhite-api/internal/model"
	"github.com/alterwhite/alterwhite-api/internal/store"
)

// ErrEmailRequired indicates a request is missing the email field.
var ErrEmailRequired = errors.New("email is required")

// UserStore is the slice of the store layer the user service needs.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	InsertUser(ctx context.Context, user *model.User) (primitive.ObjectID, error)
}

// UserService handles idempotent user registration.
type UserService struct {
	store UserStore
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

// RegisterResult is the outcome of a registration attempt.
// Created is false when the email was already registered; InsertedID is only
// set when a record was created.
type RegisterResult struct {
	Created    bool
	InsertedID primitive.ObjectID
}

// RegisterIfAbsent registers a user identity keyed by email. Repeated calls
// with the same email are no-ops. The existence check and the insert are two
// separate store calls, so a concurrent first registration of the same email
// can slip through; that duplicate is tolerated.
func (s *UserService) RegisterIfAbsent(ctx context.Context, user *model.User) (*RegisterResult, error) {
	if user.Email == "" {
		return nil, ErrEmailRequired
	}

	_, err := s.store.FindUserByEmail(ctx, user.Email)
	if err == nil {
		return &RegisterResult{Created: false}, nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	id, err := s.store.InsertUser(ctx, user)
	if err != nil {
		return nil, err
	}

	return &RegisterResult{Created: true, InsertedID: id}, nil
}
