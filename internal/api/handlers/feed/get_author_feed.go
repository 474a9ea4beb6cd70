package feed

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Chirp/internal/api/handlers"
	"Chirp/internal/core/feeds"
)

// GetAuthorFeedHandler serves a user's profile feeds
type GetAuthorFeedHandler struct {
	service feeds.Service
}

// NewGetAuthorFeedHandler creates a new author feed handler
func NewGetAuthorFeedHandler(service feeds.Service) *GetAuthorFeedHandler {
	return &GetAuthorFeedHandler{service: service}
}

// HandleGetAuthorFeed handles GET /api/users/{identifier}/feed?view=...
// view selects posts (default), replies, or likes. An unknown identifier
// yields an empty feed rather than an error.
func (h *GetAuthorFeedHandler) HandleGetAuthorFeed(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")
	if identifier == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "identifier is required")
		return
	}

	view := feeds.ProfileView(r.URL.Query().Get("view"))

	feed, err := h.service.Profile(r.Context(), identifier, view)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, feed)
}
