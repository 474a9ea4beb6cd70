package post

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Chirp/internal/api/handlers"
	"Chirp/internal/api/middleware"
	"Chirp/internal/core/posts"
)

// LikeHandler handles like and unlike requests
type LikeHandler struct {
	service posts.Service
}

// NewLikeHandler creates a new like handler
func NewLikeHandler(service posts.Service) *LikeHandler {
	return &LikeHandler{service: service}
}

// HandleLike handles POST /api/posts/{postId}/like
// Liking twice, or liking a post that no longer exists, succeeds without
// effect. The likes set either contains the caller afterwards or the post
// is gone; both satisfy the caller's intent.
func (h *LikeHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.service.Like)
}

// HandleUnlike handles POST /api/posts/{postId}/unlike
func (h *LikeHandler) HandleUnlike(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.service.Unlike)
}

func (h *LikeHandler) toggle(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actorID, postID string) error) {
	actorID := middleware.GetUserID(r)
	if actorID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	postID := chi.URLParam(r, "postId")
	if postID == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "postId is required")
		return
	}

	if err := op(r.Context(), actorID, postID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
