package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alterwhite/alterwhite-api/internal/metrics"
	"github.com/alterwhite/alterwhite-api/internal/model"
	"github.com/alterwhite/alterwhite-api/internal/store"
)

// Service errors.
var (
	ErrQueryNotFound      = errors.New("query not found")
	ErrInvalidID          = errors.New("invalid id")
	ErrForbidden          = errors.New("caller does not own this resource")
	ErrProductNameMissing = errors.New("productName is required")
)

// QueryStore is the slice of the store layer the query service needs.
type QueryStore interface {
	SearchQueries(ctx context.Context, text string) ([]*model.Query, error)
	ListQueriesByOwner(ctx context.Context, email string) ([]*model.Query, error)
	GetQueryByID(ctx context.Context, id primitive.ObjectID) (*model.Query, error)
	InsertQuery(ctx context.Context, query *model.Query) (primitive.ObjectID, error)
	AdjustRecommendationCount(ctx context.Context, id primitive.ObjectID, delta int64) (*model.Query, error)
	UpdateQueryProduct(ctx context.Context, id primitive.ObjectID, fields model.ProductUpdate) error
	DeleteQuery(ctx context.Context, id primitive.ObjectID) error
}

// QueryCache caches query detail documents.
type QueryCache interface {
	GetQuery(ctx context.Context, id string) (*model.Query, error)
	SetQuery(ctx context.Context, query *model.Query) error
	DeleteQuery(ctx context.Context, id string) error
}

// QueryService handles query business logic. Mutating operations enforce the
// ownership policy: the verified caller email must match the query's
// userEmail. Counter adjustments are exempt - any authenticated user
// recommends against any query.
type QueryService struct {
	store   QueryStore
	cache   QueryCache
	metrics metrics.Recorder
}

// NewQueryService creates a new QueryService.
func NewQueryService(store QueryStore, cache QueryCache, recorder metrics.Recorder) *QueryService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &QueryService{store: store, cache: cache, metrics: recorder}
}

// Search returns queries whose productName matches the free-text filter,
// case-insensitively. Unauthenticated; no matches yields an empty list.
func (s *QueryService) Search(ctx context.Context, text string) ([]*model.Query, error) {
	return s.store.SearchQueries(ctx, text)
}

// ListByOwner returns the caller's queries, newest first. The path email must
// match the verified caller identity.
func (s *QueryService) ListByOwner(ctx context.Context, caller, email string) ([]*model.Query, error) {
	if caller != email {
		return nil, ErrForbidden
	}
	return s.store.ListQueriesByOwner(ctx, email)
}

// GetDetail fetches a single query, cache-first.
func (s *QueryService) GetDetail(ctx context.Context, id string) (*model.Query, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	if s.cache != nil {
		if cached, err := s.cache.GetQuery(ctx, id); err == nil {
			s.metrics.IncQueryCacheHit()
			return cached, nil
		}
		s.metrics.IncQueryCacheMiss()
	}

	query, err := s.store.GetQueryByID(ctx, oid)
	if err != nil {
		if errors.Is(err, store.ErrQueryNotFound) {
			return nil, ErrQueryNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		// Best effort backfill
		_ = s.cache.SetQuery(ctx, query)
	}

	return query, nil
}

// Create inserts a new query owned by the caller. The recommendation counter
// always starts at zero regardless of what the caller supplied; the rest of
// the payload is stored as-is.
func (s *QueryService) Create(ctx context.Context, caller string, query *model.Query) (*model.Query, error) {
	if query.ProductName == "" {
		return nil, ErrProductNameMissing
	}
	if query.UserEmail != caller {
		return nil, ErrForbidden
	}

	query.ID = primitive.NilObjectID
	query.RecommendationCount = 0
	if query.Date.IsZero() {
		query.Date = time.Now().UTC()
	}

	id, err := s.store.InsertQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to create query: %w", err)
	}
	query.ID = id

	s.metrics.IncQueryCreated()

	return query, nil
}

// IncrementCount atomically raises the query's recommendationCount by one
// and returns the updated query.
func (s *QueryService) IncrementCount(ctx context.Context, id string) (*model.Query, error) {
	return s.adjustCount(ctx, id, 1)
}

// DecrementCount atomically lowers the counter by one. It does not floor at
// zero: a decrement without a matching prior increment drives the counter
// negative, keeping exact symmetry with IncrementCount.
func (s *QueryService) DecrementCount(ctx context.Context, id string) (*model.Query, error) {
	return s.adjustCount(ctx, id, -1)
}

func (s *QueryService) adjustCount(ctx context.Context, id string, delta int64) (*model.Query, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	query, err := s.store.AdjustRecommendationCount(ctx, oid, delta)
	if err != nil {
		if errors.Is(err, store.ErrQueryNotFound) {
			return nil, ErrQueryNotFound
		}
		return nil, err
	}

	s.metrics.IncCounterAdjusted(delta)
	s.invalidate(ctx, id)

	return query, nil
}

// UpdateMetadata replaces the whitelisted product fields of a query owned by
// the caller and returns the updated query.
func (s *QueryService) UpdateMetadata(ctx context.Context, caller, id string, fields model.ProductUpdate) (*model.Query, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	query, err := s.store.GetQueryByID(ctx, oid)
	if err != nil {
		if errors.Is(err, store.ErrQueryNotFound) {
			return nil, ErrQueryNotFound
		}
		return nil, err
	}
	if query.UserEmail != caller {
		return nil, ErrForbidden
	}

	if err := s.store.UpdateQueryProduct(ctx, oid, fields); err != nil {
		if errors.Is(err, store.ErrQueryNotFound) {
			return nil, ErrQueryNotFound
		}
		return nil, err
	}

	query.ProductName = fields.ProductName
	query.ProductBrand = fields.ProductBrand
	query.ProductImage = fields.ProductImage
	query.ProductTitle = fields.ProductTitle
	query.ProductROA = fields.ProductROA

	s.metrics.IncQueryUpdated()
	s.invalidate(ctx, id)

	return query, nil
}

// Delete removes a query owned by the caller. Recommendations referencing it
// are deliberately left in place; their lifecycle is independent.
func (s *QueryService) Delete(ctx context.Context, caller, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	query, err := s.store.GetQueryByID(ctx, oid)
	if err != nil {
		if errors.Is(err, store.ErrQueryNotFound) {
			return ErrQueryNotFound
		}
		return err
	}
	if query.UserEmail != caller {
		return ErrForbidden
	}

	if err := s.store.DeleteQuery(ctx, oid); err != nil {
		if errors.Is(err, store.ErrQueryNotFound) {
			return ErrQueryNotFound
		}
		return err
	}

	s.metrics.IncQueryDeleted()
	s.invalidate(ctx, id)

	return nil
}

// invalidate evicts the cached detail document after a mutation.
func (s *QueryService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	// Eventual consistency is acceptable: a failed eviction only extends
	// staleness by the cache TTL.
	_ = s.cache.DeleteQuery(ctx, id)
}
