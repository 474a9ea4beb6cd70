package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Chirp/internal/api/handlers"
	"Chirp/internal/api/middleware"
	"Chirp/internal/core/posts"
)

// RepostHandler handles repost creation requests
type RepostHandler struct {
	service posts.Service
}

// NewRepostHandler creates a new repost handler
func NewRepostHandler(service posts.Service) *RepostHandler {
	return &RepostHandler{service: service}
}

// HandleRepost handles POST /api/posts/{postId}/repost
// Creates a textless wrapper post referencing the target. Each call makes
// a new wrapper, so the same user can repost repeatedly.
func (h *RepostHandler) HandleRepost(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r)
	if actorID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	targetID := chi.URLParam(r, "postId")
	if targetID == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "postId is required")
		return
	}

	wrapper, err := h.service.Repost(r.Context(), actorID, targetID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, wrapper)
}
