package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Chirp/internal/api/handlers"
	"Chirp/internal/api/middleware"
	"Chirp/internal/core/users"
)

// FollowHandler serves follow and unfollow requests
type FollowHandler struct {
	service users.Service
}

// NewFollowHandler creates a new follow handler
func NewFollowHandler(service users.Service) *FollowHandler {
	return &FollowHandler{service: service}
}

// HandleFollow handles POST /api/users/{userId}/follow
// Adds the target to the caller's following set and returns the caller's
// refreshed profile. Redundant follows succeed without effect.
func (h *FollowHandler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r)
	if actorID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	targetID := chi.URLParam(r, "userId")
	if targetID == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "userId is required")
		return
	}

	profile, err := h.service.Follow(r.Context(), actorID, targetID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, profile)
}

// HandleUnfollow handles POST /api/users/{userId}/unfollow
// Removing a follow that does not exist succeeds without effect.
func (h *FollowHandler) HandleUnfollow(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r)
	if actorID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	targetID := chi.URLParam(r, "userId")
	if targetID == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "userId is required")
		return
	}

	profile, err := h.service.Unfollow(r.Context(), actorID, targetID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, profile)
}
