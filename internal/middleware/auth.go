package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alterwhite/alterwhite-api/internal/auth"
	"github.com/alterwhite/alterwhite-api/internal/metrics"
	"github.com/alterwhite/alterwhite-api/internal/token"
)

// TokenVerifier validates an access token string and returns its claims.
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// Auth guards protected routes. It extracts the bearer token from the
// Authorization header, verifies it, and attaches the claims to the
// request context. Every failure mode produces the same generic 401
// so callers learn nothing about why verification failed.
func Auth(verifier TokenVerifier, logger *slog.Logger, recorder metrics.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := extractBearerToken(r)
			if !ok {
				rejectUnauthorized(w, r, logger, recorder, "missing or malformed authorization header")
				return
			}

			claims, err := verifier.Verify(tokenString)
			if err != nil {
				rejectUnauthorized(w, r, logger, recorder, err.Error())
				return
			}

			ctx := auth.ContextWithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken pulls the token out of "Authorization: Bearer <token>".
func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}

	tokenString := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if tokenString == "" {
		return "", false
	}
	return tokenString, true
}

func rejectUnauthorized(w http.ResponseWriter, r *http.Request, logger *slog.Logger, recorder metrics.Recorder, reason string) {
	if recorder != nil {
		recorder.IncAuthRejected()
	}
	if logger != nil {
		logger.Warn("request rejected",
			slog.String("reason", reason),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("request_id", GetRequestID(r.Context())),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": "Unauthorized Access",
		"code":  "UNAUTHORIZED",
	})
}
