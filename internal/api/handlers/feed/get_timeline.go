package feed

import (
	"net/http"

	"Chirp/internal/api/handlers"
	"Chirp/internal/api/middleware"
	"Chirp/internal/core/feeds"
)

// GetTimelineHandler serves the viewer's home timeline
type GetTimelineHandler struct {
	service feeds.Service
}

// NewGetTimelineHandler creates a new timeline handler
func NewGetTimelineHandler(service feeds.Service) *GetTimelineHandler {
	return &GetTimelineHandler{service: service}
}

// HandleGetTimeline handles GET /api/timeline
// Returns top-level posts from the viewer and everyone they follow,
// newest first, fully hydrated.
func (h *GetTimelineHandler) HandleGetTimeline(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetUserID(r)

	timeline, err := h.service.Timeline(r.Context(), viewerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, timeline)
}
