package feed

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Chirp/internal/api/handlers"
	"Chirp/internal/core/feeds"
)

// GetThreadHandler serves single-post thread views
type GetThreadHandler struct {
	service feeds.Service
}

// NewGetThreadHandler creates a new thread handler
func NewGetThreadHandler(service feeds.Service) *GetThreadHandler {
	return &GetThreadHandler{service: service}
}

// HandleGetThread handles GET /api/posts/{postId}
// Returns the post hydrated with author, likes, attachments, replies, and
// the repost target when the post is a repost wrapper.
func (h *GetThreadHandler) HandleGetThread(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postId")
	if postID == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "postId is required")
		return
	}

	thread, err := h.service.Thread(r.Context(), postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, thread)
}
