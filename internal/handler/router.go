package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alterwhite/alterwhite-api/internal/metrics"
	"github.com/alterwhite/alterwhite-api/internal/middleware"
)

// RouterDeps bundles the handlers and cross-cutting dependencies the
// router mounts.
type RouterDeps struct {
	Logger  *slog.Logger
	Metrics metrics.Recorder

	Verifier  middleware.TokenVerifier
	Limiter   middleware.IPRateLimiter
	RateLimit middleware.RateLimitConfig
	CORS      middleware.CORSConfig
	MaxBody   int64

	Health          *HealthHandler
	Tokens          *TokenHandler
	Users           *UserHandler
	Queries         *QueryHandler
	Recommendations *RecommendationHandler
}

// NewRouter wires every route. The public surface is the root liveness
// text, the probes, token issuance, registration and the query search;
// everything else sits behind the bearer token guard.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(deps.CORS))
	if deps.MaxBody > 0 {
		r.Use(middleware.BodyLimit(deps.MaxBody))
	}

	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	r.Get("/", Root)
	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)

	r.With(middleware.IPRateLimit(deps.Limiter, deps.RateLimit, deps.Logger)).
		Post("/jwt", deps.Tokens.Issue)

	r.Post("/users", deps.Users.Register)
	r.Get("/queries", deps.Queries.Search)

	guard := middleware.Auth(deps.Verifier, deps.Logger, deps.Metrics)
	r.Group(func(pr chi.Router) {
		pr.Use(guard)

		// Static segments win over the {email} parameter, so
		// /queries/details/... never matches the owner listing.
		pr.Get("/queries/{email}", deps.Queries.ListByOwner)
		pr.Get("/queries/details/{id}", deps.Queries.GetDetail)
		pr.Post("/queries", deps.Queries.Create)
		pr.Put("/queries/{id}", deps.Queries.Increment)
		pr.Put("/queries/decrement/{id}", deps.Queries.Decrement)
		pr.Patch("/queries/update/{id}", deps.Queries.Update)
		pr.Delete("/queries/delete/{id}", deps.Queries.Delete)

		pr.Get("/recommendations/{id}", deps.Recommendations.ListForQuery)
		pr.Get("/recommendations/my/{email}", deps.Recommendations.ListMine)
		pr.Get("/recommendations/for-me/{email}", deps.Recommendations.ListReceived)
		pr.Post("/recommendations", deps.Recommendations.Create)
		pr.Delete("/recommendations/delete/{id}", deps.Recommendations.Delete)
	})

	return r
}
