package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alterwhite/alterwhite-api/internal/handler/dto"
	"github.com/alterwhite/alterwhite-api/internal/middleware"
	"github.com/alterwhite/alterwhite-api/internal/model"
	"github.com/alterwhite/alterwhite-api/internal/service"
	"github.com/alterwhite/alterwhite-api/internal/store"
	"github.com/alterwhite/alterwhite-api/internal/token"
)

// stubStore is an in-memory stand-in for the document store, shared by all
// services under test.
type stubStore struct {
	mu      sync.Mutex
	users   map[string]*model.User
	queries map[primitive.ObjectID]*model.Query
	recs    map[primitive.ObjectID]*model.Recommendation
}

func newStubStore() *stubStore {
	return &stubStore{
		users:   make(map[string]*model.User),
		queries: make(map[primitive.ObjectID]*model.Query),
		recs:    make(map[primitive.ObjectID]*model.Recommendation),
	}
}

func (s *stubStore) FindUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	return nil, store.ErrUserNotFound
}

func (s *stubStore) InsertUser(_ context.Context, user *model.User) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := primitive.NewObjectID()
	user.ID = id
	s.users[user.Email] = user
	return id, nil
}

func (s *stubStore) SearchQueries(_ context.Context, text string) ([]*model.Query, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Query{}
	for _, q := range s.queries {
		if strings.Contains(strings.ToLower(q.ProductName), strings.ToLower(text)) {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *stubStore) ListQueriesByOwner(_ context.Context, email string) ([]*model.Query, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Query{}
	for _, q := range s.queries {
		if q.UserEmail == email {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *stubStore) GetQueryByID(_ context.Context, id primitive.ObjectID) (*model.Query, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q, ok := s.queries[id]; ok {
		copied := *q
		return &copied, nil
	}
	return nil, store.ErrQueryNotFound
}

func (s *stubStore) InsertQuery(_ context.Context, query *model.Query) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := primitive.NewObjectID()
	query.ID = id
	copied := *query
	s.queries[id] = &copied
	return id, nil
}

func (s *stubStore) AdjustRecommendationCount(_ context.Context, id primitive.ObjectID, delta int64) (*model.Query, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.queries[id]
	if !ok {
		return nil, store.ErrQueryNotFound
	}
	q.RecommendationCount += delta
	copied := *q
	return &copied, nil
}

func (s *stubStore) UpdateQueryProduct(_ context.Context, id primitive.ObjectID, fields model.ProductUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.queries[id]
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

func (s *stubStore) DeleteQuery(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.queries[id]; !ok {
		return store.ErrQueryNotFound
	}
	delete(s.queries, id)
	return nil
}

func (s *stubStore) ListRecommendationsForQuery(_ context.Context, queryID string) ([]*model.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Recommendation{}
	for _, rec := range s.recs {
		if rec.QueryID == queryID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *stubStore) ListRecommendationsByRecommender(_ context.Context, email string) ([]*model.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Recommendation{}
	for _, rec := range s.recs {
		if rec.RecommenderEmail == email {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *stubStore) ListRecommendationsForQueryOwner(_ context.Context, email string) ([]*model.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Recommendation{}
	for _, rec := range s.recs {
		if rec.QueryUserEmail == email {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *stubStore) GetRecommendationByID(_ context.Context, id primitive.ObjectID) (*model.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.recs[id]; ok {
		copied := *rec
		return &copied, nil
	}
	return nil, store.ErrRecommendationNotFound
}

func (s *stubStore) InsertRecommendation(_ context.Context, rec *model.Recommendation) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := primitive.NewObjectID()
	rec.ID = id
	copied := *rec
	s.recs[id] = &copied
	return id, nil
}

func (s *stubStore) DeleteRecommendation(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recs[id]; !ok {
		return store.ErrRecommendationNotFound
	}
	delete(s.recs, id)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testAPI wires the full router against the stub store with a real token
// service and no Redis.
type testAPI struct {
	router http.Handler
	tokens *token.Service
	store  *stubStore
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	st := newStubStore()
	tokens := token.NewService([]byte("router-test-secret"), time.Hour)

	users := service.NewUserService(st)
	queries := service.NewQueryService(st, nil, nil)
	recs := service.NewRecommendationService(st, st, nil, nil, nil)

	router := NewRouter(RouterDeps{
		Logger:          discardLogger(),
		Verifier:        tokens,
		CORS:            middleware.DefaultCORSConfig(),
		Health:          NewHealthHandler(nil, nil),
		Tokens:          NewTokenHandler(tokens, discardLogger(), nil),
		Users:           NewUserHandler(users, discardLogger()),
		Queries:         NewQueryHandler(queries, discardLogger()),
		Recommendations: NewRecommendationHandler(recs, discardLogger()),
	})

	return &testAPI{router: router, tokens: tokens, store: st}
}

func (a *testAPI) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) tokenFor(t *testing.T, email string) string {
	t.Helper()
	signed, err := a.tokens.Issue(token.Claims{Email: email})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return signed
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestRootLiveness(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "alterwite is running" {
		t.Errorf("unexpected liveness body %q", got)
	}
}

func TestIssueToken(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/jwt", "", dto.TokenRequest{Email: "alice@example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.TokenResponse
	decodeInto(t, rec, &resp)
	if resp.Token == "" {
		t.Fatal("expected a token in the response")
	}

	claims, err := api.tokens.Verify(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("expected email claim, got %q", claims.Email)
	}
}

func TestIssueTokenMissingEmail(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/jwt", "", dto.TokenRequest{Name: "nameless"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	decodeInto(t, rec, &resp)
	if resp.Code != "MISSING_EMAIL" {
		t.Errorf("expected MISSING_EMAIL, got %q", resp.Code)
	}
}

func TestRegisterUserIdempotent(t *testing.T) {
	api := newTestAPI(t)
	body := dto.RegisterRequest{Email: "alice@example.com", Name: "Alice"}

	first := api.do(t, http.MethodPost, "/users", "", body)
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", first.Code)
	}
	var created dto.RegisterResponse
	decodeInto(t, first, &created)
	if created.InsertedID == nil || *created.InsertedID == "" {
		t.Fatal("expected insertedId on first registration")
	}

	second := api.do(t, http.MethodPost, "/users", "", body)
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200 on repeat, got %d", second.Code)
	}
	var repeat dto.RegisterResponse
	decodeInto(t, second, &repeat)
	if repeat.Message != "Existing User" {
		t.Errorf("expected Existing User message, got %q", repeat.Message)
	}
	if repeat.InsertedID != nil {
		t.Errorf("expected null insertedId on repeat, got %v", *repeat.InsertedID)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/queries/alice@example.com"},
		{http.MethodGet, "/queries/details/0123456789abcdef01234567"},
		{http.MethodPost, "/queries"},
		{http.MethodPut, "/queries/0123456789abcdef01234567"},
		{http.MethodPut, "/queries/decrement/0123456789abcdef01234567"},
		{http.MethodPatch, "/queries/update/0123456789abcdef01234567"},
		{http.MethodDelete, "/queries/delete/0123456789abcdef01234567"},
		{http.MethodGet, "/recommendations/0123456789abcdef01234567"},
		{http.MethodGet, "/recommendations/my/alice@example.com"},
		{http.MethodGet, "/recommendations/for-me/alice@example.com"},
		{http.MethodPost, "/recommendations"},
		{http.MethodDelete, "/recommendations/delete/0123456789abcdef01234567"},
	}

	for _, p := range paths {
		rec := api.do(t, p.method, p.path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", p.method, p.path, rec.Code)
		}
	}
}

func TestSearchIsPublic(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/queries?search=soap", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 without a token, got %d", rec.Code)
	}

	var queries []model.Query
	decodeInto(t, rec, &queries)
	if len(queries) != 0 {
		t.Errorf("expected empty result set, got %d", len(queries))
	}
}

func TestQueryLifecycle(t *testing.T) {
	api := newTestAPI(t)
	alice := api.tokenFor(t, "alice@example.com")

	created := api.do(t, http.MethodPost, "/queries", alice, dto.CreateQueryRequest{
		UserEmail:   "alice@example.com",
		ProductName: "Plastic Bottle",
		ProductROA:  "single use plastic",
	})
	if created.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", created.Code, created.Body.String())
	}
	var ins dto.InsertResponse
	decodeInto(t, created, &ins)

	detail := api.do(t, http.MethodGet, "/queries/details/"+ins.InsertedID, alice, nil)
	if detail.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", detail.Code)
	}
	var q model.Query
	decodeInto(t, detail, &q)
	if q.RecommendationCount != 0 {
		t.Errorf("new query should start at zero, got %d", q.RecommendationCount)
	}

	inc := api.do(t, http.MethodPut, "/queries/"+ins.InsertedID, alice, nil)
	if inc.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", inc.Code)
	}
	decodeInto(t, inc, &q)
	if q.RecommendationCount != 1 {
		t.Errorf("expected counter 1 after increment, got %d", q.RecommendationCount)
	}

	dec := api.do(t, http.MethodPut, "/queries/decrement/"+ins.InsertedID, alice, nil)
	if dec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", dec.Code)
	}
	decodeInto(t, dec, &q)
	if q.RecommendationCount != 0 {
		t.Errorf("expected counter 0 after decrement, got %d", q.RecommendationCount)
	}

	listed := api.do(t, http.MethodGet, "/queries/alice@example.com", alice, nil)
	if listed.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", listed.Code)
	}
	var mine []model.Query
	decodeInto(t, listed, &mine)
	if len(mine) != 1 {
		t.Errorf("expected one owned query, got %d", len(mine))
	}

	deleted := api.do(t, http.MethodDelete, "/queries/delete/"+ins.InsertedID, alice, nil)
	if deleted.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", deleted.Code)
	}

	gone := api.do(t, http.MethodGet, "/queries/details/"+ins.InsertedID, alice, nil)
	if gone.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", gone.Code)
	}
}

func TestOwnershipEnforcedOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	alice := api.tokenFor(t, "alice@example.com")
	mallory := api.tokenFor(t, "mallory@example.com")

	created := api.do(t, http.MethodPost, "/queries", alice, dto.CreateQueryRequest{
		UserEmail:   "alice@example.com",
		ProductName: "Soda",
	})
	var ins dto.InsertResponse
	decodeInto(t, created, &ins)

	cases := []struct {
		name string
		rec  *httptest.ResponseRecorder
	}{
		{"update", api.do(t, http.MethodPatch, "/queries/update/"+ins.InsertedID, mallory, dto.UpdateQueryRequest{ProductName: "Hijacked"})},
		{"delete", api.do(t, http.MethodDelete, "/queries/delete/"+ins.InsertedID, mallory, nil)},
		{"owner listing", api.do(t, http.MethodGet, "/queries/alice@example.com", mallory, nil)},
	}

	for _, tc := range cases {
		if tc.rec.Code != http.StatusForbidden {
			t.Errorf("%s: expected 403, got %d", tc.name, tc.rec.Code)
		}
		var resp dto.ErrorResponse
		decodeInto(t, tc.rec, &resp)
		if resp.Code != "FORBIDDEN" {
			t.Errorf("%s: expected FORBIDDEN, got %q", tc.name, resp.Code)
		}
	}
}

func TestRecommendationFlowOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	alice := api.tokenFor(t, "alice@example.com")
	bob := api.tokenFor(t, "bob@example.com")

	created := api.do(t, http.MethodPost, "/queries", alice, dto.CreateQueryRequest{
		UserEmail:   "alice@example.com",
		ProductName: "Instant Noodles",
	})
	var ins dto.InsertResponse
	decodeInto(t, created, &ins)

	posted := api.do(t, http.MethodPost, "/recommendations", bob, dto.CreateRecommendationRequest{
		QueryID:                ins.InsertedID,
		RecommendedProductName: "Fresh Pasta",
	})
	if posted.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", posted.Code, posted.Body.String())
	}
	var recIns dto.InsertResponse
	decodeInto(t, posted, &recIns)

	detail := api.do(t, http.MethodGet, "/queries/details/"+ins.InsertedID, bob, nil)
	var q model.Query
	decodeInto(t, detail, &q)
	if q.RecommendationCount != 1 {
		t.Errorf("expected counter 1 after recommendation, got %d", q.RecommendationCount)
	}

	forQuery := api.do(t, http.MethodGet, "/recommendations/"+ins.InsertedID, alice, nil)
	var recs []model.Recommendation
	decodeInto(t, forQuery, &recs)
	if len(recs) != 1 {
		t.Fatalf("expected one recommendation for query, got %d", len(recs))
	}
	if recs[0].RecommenderEmail != "bob@example.com" {
		t.Errorf("recommender stamped from token, got %q", recs[0].RecommenderEmail)
	}
	if recs[0].QueryUserEmail != "alice@example.com" {
		t.Errorf("query owner denormalized from target, got %q", recs[0].QueryUserEmail)
	}

	received := api.do(t, http.MethodGet, "/recommendations/for-me/alice@example.com", alice, nil)
	decodeInto(t, received, &recs)
	if len(recs) != 1 {
		t.Errorf("expected one received recommendation, got %d", len(recs))
	}

	// Author-only delete.
	blocked := api.do(t, http.MethodDelete, "/recommendations/delete/"+recIns.InsertedID, alice, nil)
	if blocked.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-author delete, got %d", blocked.Code)
	}

	removed := api.do(t, http.MethodDelete, "/recommendations/delete/"+recIns.InsertedID, bob, nil)
	if removed.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", removed.Code)
	}

	detail = api.do(t, http.MethodGet, "/queries/details/"+ins.InsertedID, bob, nil)
	decodeInto(t, detail, &q)
	if q.RecommendationCount != 0 {
		t.Errorf("expected counter back to 0 after delete, got %d", q.RecommendationCount)
	}
}

func TestInvalidIDMapsTo400(t *testing.T) {
	api := newTestAPI(t)
	alice := api.tokenFor(t, "alice@example.com")

	rec := api.do(t, http.MethodPut, "/queries/not-a-hex-id", alice, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	decodeInto(t, rec, &resp)
	if resp.Code != "INVALID_ID" {
		t.Errorf("expected INVALID_ID, got %q", resp.Code)
	}
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	decodeInto(t, rec, &resp)
	if resp.Code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %q", resp.Code)
	}
}

func TestWrongMethodIsJSON405(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodDelete, "/jwt", "", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
