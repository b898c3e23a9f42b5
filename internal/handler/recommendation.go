package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alterwhite/alterwhite-api/internal/auth"
	"github.com/alterwhite/alterwhite-api/internal/handler/dto"
	"github.com/alterwhite/alterwhite-api/internal/model"
	"github.com/alterwhite/alterwhite-api/internal/service"
)

// RecommendationHandler handles HTTP requests for recommendation operations.
type RecommendationHandler struct {
	svc    *service.RecommendationService
	logger *slog.Logger
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(svc *service.RecommendationService, logger *slog.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		svc:    svc,
		logger: logger,
	}
}

// ListForQuery handles GET /recommendations/{id}, all recommendations
// against one query.
func (h *RecommendationHandler) ListForQuery(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.ListForQuery(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

// ListMine handles GET /recommendations/my/{email}, recommendations the
// caller authored.
func (h *RecommendationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	caller := auth.EmailFromContext(r.Context())

	recs, err := h.svc.ListMine(r.Context(), caller, email)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

// ListReceived handles GET /recommendations/for-me/{email}, recommendations
// made against the caller's queries.
func (h *RecommendationHandler) ListReceived(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	caller := auth.EmailFromContext(r.Context())

	recs, err := h.svc.ListReceivedFor(r.Context(), caller, email)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

// Create handles POST /recommendations. The target query's counter moves
// with the insert; clients never call the counter endpoints for this.
func (h *RecommendationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	caller := auth.EmailFromContext(r.Context())
	rec := &model.Recommendation{
		QueryID:                 req.QueryID,
		QueryTitle:              req.QueryTitle,
		ProductName:             req.ProductName,
		ProductImage:            req.ProductImage,
		Title:                   req.Title,
		RecommendedProductName:  req.RecommendedProductName,
		RecommendedProductImage: req.RecommendedProductImage,
		Reason:                  req.Reason,
		RecommenderName:         req.RecommenderName,
	}

	created, err := h.svc.Create(r.Context(), caller, rec)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("recommendation_created",
		"recommendation_id", created.ID.Hex(),
		"query_id", created.QueryID,
	)

	writeJSON(w, http.StatusCreated, dto.InsertResponse{InsertedID: created.ID.Hex()})
}

// Delete handles DELETE /recommendations/delete/{id}. Author only; the
// owning query's counter comes back down with the delete.
func (h *RecommendationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	caller := auth.EmailFromContext(r.Context())

	if err := h.svc.Delete(r.Context(), caller, id); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("recommendation_deleted", "recommendation_id", id)

	writeJSON(w, http.StatusOK, dto.DeleteResponse{DeletedCount: 1})
}
