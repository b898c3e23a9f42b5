package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alterwhite/alterwhite-api/internal/model"
	"github.com/alterwhite/alterwhite-api/internal/store"
)

// fakeStore is an in-memory stand-in for the document store. Counter
// adjustments are applied under a lock, mirroring the store-side atomic $inc.
type fakeStore struct {
	mu      sync.Mutex
	users   map[string]*model.User
	queries map[primitive.ObjectID]*model.Query
	recs    map[primitive.ObjectID]*model.Recommendation

	insertUserErr error
	adjustErr     error
	insertRecErr  error
	deleteRecErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   make(map[string]*model.User),
		queries: make(map[primitive.ObjectID]*model.Query),
		recs:    make(map[primitive.ObjectID]*model.Recommendation),
	}
}

func (f *fakeStore) FindUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeStore) InsertUser(_ context.Context, user *model.User) (primitive.ObjectID, error) {
	if f.insertUserErr != nil {
		return primitive.NilObjectID, f.insertUserErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := primitive.NewObjectID()
	user.ID = id
	f.users[user.Email] = user
	return id, nil
}

func (f *fakeStore) SearchQueries(_ context.Context, text string) ([]*model.Query, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.Query{}
	for _, q := range f.queries {
		if strings.Contains(strings.ToLower(q.ProductName), strings.ToLower(text)) {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeStore) ListQueriesByOwner(_ context.Context, email string) ([]*model.Query, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.Query{}
	for _, q := range f.queries {
		if q.UserEmail == email {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeStore) GetQueryByID(_ context.Context, id primitive.ObjectID) (*model.Query, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if q, ok := f.queries[id]; ok {
		copied := *q
		return &copied, nil
	}
	return nil, store.ErrQueryNotFound
}

func (f *fakeStore) InsertQuery(_ context.Context, query *model.Query) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := primitive.NewObjectID()
	query.ID = id
	copied := *query
	f.queries[id] = &copied
	return id, nil
}

func (f *fakeStore) AdjustRecommendationCount(_ context.Context, id primitive.ObjectID, delta int64) (*model.Query, error) {
	if f.adjustErr != nil {
		return nil, f.adjustErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.queries[id]
	if !ok {
		return nil, store.ErrQueryNotFound
	}
	q.RecommendationCount += delta
	copied := *q
	return &copied, nil
}

func (f *fakeStore) UpdateQueryProduct(_ context.Context, id primitive.ObjectID, fields model.ProductUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.queries[id]
	if !ok {
		return store.ErrQueryNotFound
	}
	q.ProductName = fields.ProductName
	q.ProductBrand = fields.ProductBrand
	q.ProductImage = fields.ProductImage
	q.ProductTitle = fields.ProductTitle
	q.ProductROA = fields.ProductROA
	return nil
}

func (f *fakeStore) DeleteQuery(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.queries[id]; !ok {
		return store.ErrQueryNotFound
	}
	delete(f.queries, id)
	return nil
}

func (f *fakeStore) ListRecommendationsForQuery(_ context.Context, queryID string) ([]*model.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.Recommendation{}
	for _, r := range f.recs {
		if r.QueryID == queryID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) ListRecommendationsByRecommender(_ context.Context, email string) ([]*model.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.Recommendation{}
	for _, r := range f.recs {
		if r.RecommenderEmail == email {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) ListRecommendationsForQueryOwner(_ context.Context, email string) ([]*model.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.Recommendation{}
	for _, r := range f.recs {
		if r.QueryUserEmail == email {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) GetRecommendationByID(_ context.Context, id primitive.ObjectID) (*model.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.recs[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, store.ErrRecommendationNotFound
}

func (f *fakeStore) InsertRecommendation(_ context.Context, rec *model.Recommendation) (primitive.ObjectID, error) {
	if f.insertRecErr != nil {
		return primitive.NilObjectID, f.insertRecErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := primitive.NewObjectID()
	rec.ID = id
	copied := *rec
	f.recs[id] = &copied
	return id, nil
}

func (f *fakeStore) DeleteRecommendation(_ context.Context, id primitive.ObjectID) error {
	if f.deleteRecErr != nil {
		return f.deleteRecErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.recs[id]; !ok {
		return store.ErrRecommendationNotFound
	}
	delete(f.recs, id)
	return nil
}

// fakeCache records query cache traffic for assertions.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*model.Query
	evicted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*model.Query)}
}

func (f *fakeCache) GetQuery(_ context.Context, id string) (*model.Query, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if q, ok := f.entries[id]; ok {
		return q, nil
	}
	return nil, errCacheMiss
}

func (f *fakeCache) SetQuery(_ context.Context, query *model.Query) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *query
	f.entries[query.ID.Hex()] = &copied
	return nil
}

func (f *fakeCache) DeleteQuery(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, id)
	f.evicted = append(f.evicted, id)
	return nil
}

var errCacheMiss = errors.New("cache miss")

// seedQuery inserts a query directly into the fake store.
func (f *fakeStore) seedQuery(owner, productName string, count int64) *model.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := primitive.NewObjectID()
	q := &model.Query{
		ID:                  id,
		UserEmail:           owner,
		ProductName:         productName,
		RecommendationCount: count,
	}
	f.queries[id] = q
	return q
}

// seedRecommendation inserts a recommendation directly into the fake store.
func (f *fakeStore) seedRecommendation(queryID, recommender, queryOwner string) *model.Recommendation {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := primitive.NewObjectID()
	r := &model.Recommendation{
		ID:               id,
		QueryID:          queryID,
		RecommenderEmail: recommender,
		QueryUserEmail:   queryOwner,
	}
	f.recs[id] = r
	return r
}
