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

// QueryHandler handles HTTP requests for query operations.
type QueryHandler struct {
	svc    *service.QueryService
	logger *slog.Logger
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(svc *service.QueryService, logger *slog.Logger) *QueryHandler {
	return &QueryHandler{
		svc:    svc,
		logger: logger,
	}
}

// Search handles GET /queries?search=. Public, no auth. An empty search
// term returns every query.
func (h *QueryHandler) Search(w http.ResponseWriter, r *http.Request) {
	queries, err := h.svc.Search(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, queries)
}

// ListByOwner handles GET /queries/{email}. The path email must match the
// token identity.
func (h *QueryHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	caller := auth.EmailFromContext(r.Context())

	queries, err := h.svc.ListByOwner(r.Context(), caller, email)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, queries)
}

// GetDetail handles GET /queries/details/{id}.
func (h *QueryHandler) GetDetail(w http.ResponseWriter, r *http.Request) {
	query, err := h.svc.GetDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, query)
}

// Create handles POST /queries.
func (h *QueryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	caller := auth.EmailFromContext(r.Context())
	query := &model.Query{
		UserEmail:    req.UserEmail,
		UserName:     req.UserName,
		UserPhotoURL: req.UserPhotoURL,
		ProductName:  req.ProductName,
		ProductBrand: req.ProductBrand,
		ProductImage: req.ProductImage,
		ProductTitle: req.ProductTitle,
		ProductROA:   req.ProductROA,
	}

	created, err := h.svc.Create(r.Context(), caller, query)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("query_created",
		"query_id", created.ID.Hex(),
		"user_email", created.UserEmail,
	)

	writeJSON(w, http.StatusCreated, dto.InsertResponse{InsertedID: created.ID.Hex()})
}

// Increment handles PUT /queries/{id}. Raises recommendationCount by one
// and returns the updated query.
func (h *QueryHandler) Increment(w http.ResponseWriter, r *http.Request) {
	query, err := h.svc.IncrementCount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, query)
}

// Decrement handles PUT /queries/decrement/{id}.
func (h *QueryHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	query, err := h.svc.DecrementCount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, query)
}

// Update handles PATCH /queries/update/{id}. Only the descriptive product
// fields are replaced.
func (h *QueryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	caller := auth.EmailFromContext(r.Context())
	fields := model.ProductUpdate{
		ProductName:  req.ProductName,
		ProductBrand: req.ProductBrand,
		ProductImage: req.ProductImage,
		ProductTitle: req.ProductTitle,
		ProductROA:   req.ProductROA,
	}

	query, err := h.svc.UpdateMetadata(r.Context(), caller, chi.URLParam(r, "id"), fields)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("query_updated", "query_id", query.ID.Hex())

	writeJSON(w, http.StatusOK, query)
}

// Delete handles DELETE /queries/delete/{id}.
func (h *QueryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	caller := auth.EmailFromContext(r.Context())

	if err := h.svc.Delete(r.Context(), caller, id); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("query_deleted", "query_id", id)

	writeJSON(w, http.StatusOK, dto.DeleteResponse{DeletedCount: 1})
}
