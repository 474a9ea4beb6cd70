package post

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Chirp/internal/api/handlers"
	"Chirp/internal/api/middleware"
	"Chirp/internal/core/posts"
)

// ReplyHandler handles reply creation requests
type ReplyHandler struct {
	service posts.Service
}

// NewReplyHandler creates a new reply handler
func NewReplyHandler(service posts.Service) *ReplyHandler {
	return &ReplyHandler{service: service}
}

type replyRequest struct {
	Text string `json:"text"`
}

// HandleReply handles POST /api/posts/{postId}/reply
func (h *ReplyHandler) HandleReply(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r)
	if actorID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	parentID := chi.URLParam(r, "postId")
	if parentID == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "postId is required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 64*1024)

	var req replyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	reply, err := h.service.Reply(r.Context(), actorID, parentID, req.Text)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, reply)
}
