package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alterwhite/alterwhite-api/internal/metrics"
	"github.com/alterwhite/alterwhite-api/internal/model"
	"github.com/alterwhite/alterwhite-api/internal/store"
)

// ErrRecommendationNotFound indicates no recommendation matches the id.
var ErrRecommendationNotFound = errors.New("recommendation not found")

// RecommendationStore is the slice of the store layer the recommendation
// service needs.
type RecommendationStore interface {
	ListRecommendationsForQuery(ctx context.Context, queryID string) ([]*model.Recommendation, error)
	ListRecommendationsByRecommender(ctx context.Context, email string) ([]*model.Recommendation, error)
	ListRecommendationsForQueryOwner(ctx context.Context, email string) ([]*model.Recommendation, error)
	GetRecommendationByID(ctx context.Context, id primitive.ObjectID) (*model.Recommendation, error)
	InsertRecommendation(ctx context.Context, rec *model.Recommendation) (primitive.ObjectID, error)
	DeleteRecommendation(ctx context.Context, id primitive.ObjectID) error
}

// CounterStore adjusts the recommendation counter on the queries side.
type CounterStore interface {
	GetQueryByID(ctx context.Context, id primitive.ObjectID) (*model.Query, error)
	AdjustRecommendationCount(ctx context.Context, id primitive.ObjectID, delta int64) (*model.Query, error)
}

// RecommendationService handles recommendation business logic. Creation and
// deletion are coupled to the target query's recommendationCount so a client
// never has to issue the counter call separately.
type RecommendationService struct {
	store   RecommendationStore
	queries CounterStore
	cache   QueryCache
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewRecommendationService creates a new RecommendationService.
func NewRecommendationService(store RecommendationStore, queries CounterStore, cache QueryCache, recorder metrics.Recorder, logger *slog.Logger) *RecommendationService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RecommendationService{
		store:   store,
		queries: queries,
		cache:   cache,
		metrics: recorder,
		logger:  logger,
	}
}

// ListForQuery returns all recommendations against a query id.
func (s *RecommendationService) ListForQuery(ctx context.Context, queryID string) ([]*model.Recommendation, error) {
	return s.store.ListRecommendationsForQuery(ctx, queryID)
}

// ListMine returns recommendations authored by the caller. The path email
// must match the verified caller identity.
func (s *RecommendationService) ListMine(ctx context.Context, caller, email string) ([]*model.Recommendation, error) {
	if caller != email {
		return nil, ErrForbidden
	}
	return s.store.ListRecommendationsByRecommender(ctx, email)
}

// ListReceivedFor returns recommendations made against queries owned by the
// caller. Same identity check as ListMine.
func (s *RecommendationService) ListReceivedFor(ctx context.Context, caller, email string) ([]*model.Recommendation, error) {
	if caller != email {
		return nil, ErrForbidden
	}
	return s.store.ListRecommendationsForQueryOwner(ctx, email)
}

// Create inserts a recommendation and increments the target query's counter
// in the same logical operation. The insert is compensated (deleted) if the
// increment fails, so a recommendation never lands without its count.
// The recommender identity is stamped from the verified token, and the
// query-owner email is denormalized from the target query, not trusted from
// the payload.
func (s *RecommendationService) Create(ctx context.Context, caller string, rec *model.Recommendation) (*model.Recommendation, error) {
	queryOID, err := primitive.ObjectIDFromHex(rec.QueryID)
	if err != nil {
		return nil, ErrInvalidID
	}

	query, err := s.queries.GetQueryByID(ctx, queryOID)
	if err != nil {
		if errors.Is(err, store.ErrQueryNotFound) {
			return nil, ErrQueryNotFound
		}
		return nil, err
	}

	rec.ID = primitive.NilObjectID
	rec.RecommenderEmail = caller
	rec.QueryUserEmail = query.UserEmail
	if rec.Date.IsZero() {
		rec.Date = time.Now().UTC()
	}

	id, err := s.store.InsertRecommendation(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to create recommendation: %w", err)
	}
	rec.ID = id

	if _, err := s.queries.AdjustRecommendationCount(ctx, queryOID, 1); err != nil {
		// Compensate: the recommendation must not exist without its count.
		if delErr := s.store.DeleteRecommendation(ctx, id); delErr != nil {
			s.logger.Error("failed to compensate recommendation insert",
				slog.String("recommendation_id", id.Hex()),
				slog.String("query_id", rec.QueryID),
				slog.String("error", delErr.Error()),
			)
		}
		if errors.Is(err, store.ErrQueryNotFound) {
			return nil, ErrQueryNotFound
		}
		return nil, fmt.Errorf("failed to increment recommendation count: %w", err)
	}

	s.metrics.IncRecommendationCreated()
	s.invalidateQuery(ctx, rec.QueryID)

	return rec, nil
}

// Delete removes a recommendation authored by the caller and decrements the
// owning query's counter. A query that has since been deleted is fine - the
// decrement is simply skipped. Any other decrement failure after a
// successful delete is surfaced; the counter may drift in that narrow window
// and the drift is logged.
func (s *RecommendationService) Delete(ctx context.Context, caller, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	rec, err := s.store.GetRecommendationByID(ctx, oid)
	if err != nil {
		if errors.Is(err, store.ErrRecommendationNotFound) {
			return ErrRecommendationNotFound
		}
		return err
	}
	if rec.RecommenderEmail != caller {
		return ErrForbidden
	}

	if err := s.store.DeleteRecommendation(ctx, oid); err != nil {
		if errors.Is(err, store.ErrRecommendationNotFound) {
			return ErrRecommendationNotFound
		}
		return err
	}

	s.metrics.IncRecommendationDeleted()

	queryOID, err := primitive.ObjectIDFromHex(rec.QueryID)
	if err != nil {
		// Dangling reference; nothing to decrement.
		s.logger.Warn("recommendation referenced an unparsable query id",
			slog.String("recommendation_id", id),
			slog.String("query_id", rec.QueryID),
		)
		return nil
	}

	if _, err := s.queries.AdjustRecommendationCount(ctx, queryOID, -1); err != nil {
		if errors.Is(err, store.ErrQueryNotFound) {
			return nil
		}
		s.logger.Error("recommendation deleted but counter decrement failed",
			slog.String("recommendation_id", id),
			slog.String("query_id", rec.QueryID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to decrement recommendation count: %w", err)
	}

	s.invalidateQuery(ctx, rec.QueryID)

	return nil
}

func (s *RecommendationService) invalidateQuery(ctx context.Context, queryID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.DeleteQuery(ctx, queryID)
}
