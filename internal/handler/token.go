package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/alterwhite/alterwhite-api/internal/handler/dto"
	"github.com/alterwhite/alterwhite-api/internal/metrics"
	"github.com/alterwhite/alterwhite-api/internal/token"
)

// TokenIssuer signs identity claims into an access token.
type TokenIssuer interface {
	Issue(claims token.Claims) (string, error)
}

// TokenHandler issues access tokens.
type TokenHandler struct {
	issuer  TokenIssuer
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(issuer TokenIssuer, logger *slog.Logger, recorder metrics.Recorder) *TokenHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TokenHandler{
		issuer:  issuer,
		logger:  logger,
		metrics: recorder,
	}
}

// Issue handles POST /jwt. Issuance is unconditional for any payload with
// an email; the IP rate limit on the route is the only brake.
func (h *TokenHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "MISSING_EMAIL", "email is required")
		return
	}

	signed, err := h.issuer.Issue(token.Claims{
		Email:    req.Email,
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		h.logger.Error("token_issue_failed", "error", err)
		writeError(w, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token")
		return
	}

	h.metrics.IncTokenIssued()
	h.logger.Info("token_issued", "email", req.Email)

	writeJSON(w, http.StatusOK, dto.TokenResponse{Token: signed})
}
