package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Chirp/internal/api/handlers"
	"Chirp/internal/core/users"
)

// GetProfileHandler serves user profile lookups
type GetProfileHandler struct {
	service users.Service
}

// NewGetProfileHandler creates a new profile lookup handler
func NewGetProfileHandler(service users.Service) *GetProfileHandler {
	return &GetProfileHandler{service: service}
}

// HandleGetProfile handles GET /api/users/{identifier}
// The identifier is a username, or a user ID when no username matches.
func (h *GetProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")
	if identifier == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "identifier is required")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), identifier)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, profile)
}
