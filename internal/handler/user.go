package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/alterwhite/alterwhite-api/internal/handler/dto"
	"github.com/alterwhite/alterwhite-api/internal/model"
	"github.com/alterwhite/alterwhite-api/internal/service"
)

// UserHandler handles user registration requests.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /users. Registration is idempotent on email: a
// repeat call reports the existing user with a null insertedId instead of
// failing.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	result, err := h.svc.RegisterIfAbsent(r.Context(), &model.User{
		Email:    req.Email,
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	if !result.Created {
		writeJSON(w, http.StatusOK, dto.RegisterResponse{
			Message:    "Existing User",
			InsertedID: nil,
		})
		return
	}

	h.logger.Info("user_registered", "email", req.Email)

	id := result.InsertedID.Hex()
	writeJSON(w, http.StatusCreated, dto.RegisterResponse{InsertedID: &id})
}
