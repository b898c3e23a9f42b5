// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alterwhite/alterwhite-api/internal/handler/dto"
	"github.com/alterwhite/alterwhite-api/internal/service"
)

// Root handles GET /. Kept as a bare liveness string for load balancer
// checks and existing clients.
func Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alterwite is running"))
}

// NotFound handles 404 responses.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
}

// MethodNotAllowed handles 405 responses.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		_ = err
	}
}

// writeError writes the uniform error body.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps service errors to HTTP responses. Errors without
// a dedicated mapping become opaque 500s; the detail goes to the log only.
func handleServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "You do not own this resource")
	case errors.Is(err, service.ErrQueryNotFound):
		writeError(w, http.StatusNotFound, "QUERY_NOT_FOUND", "Query not found")
	case errors.Is(err, service.ErrRecommendationNotFound):
		writeError(w, http.StatusNotFound, "RECOMMENDATION_NOT_FOUND", "Recommendation not found")
	case errors.Is(err, service.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid document id")
	case errors.Is(err, service.ErrProductNameMissing):
		writeError(w, http.StatusBadRequest, "MISSING_PRODUCT_NAME", "productName is required")
	case errors.Is(err, service.ErrEmailRequired):
		writeError(w, http.StatusBadRequest, "MISSING_EMAIL", "email is required")
	default:
		if logger != nil {
			logger.Error("internal_error", "error", err)
		}
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", "An internal error occurred")
	}
}
