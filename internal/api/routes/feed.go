package routes

import (
	"github.com/go-chi/chi/v5"

	"Chirp/internal/api/handlers/feed"
	"Chirp/internal/api/middleware"
	"Chirp/internal/core/feeds"
)

// RegisterFeedRoutes registers the read-side feed endpoints
func RegisterFeedRoutes(r chi.Router, service feeds.Service, auth *middleware.AuthMiddleware) {
	timelineHandler := feed.NewGetTimelineHandler(service)
	authorFeedHandler := feed.NewGetAuthorFeedHandler(service)
	threadHandler := feed.NewGetThreadHandler(service)

	// The home timeline is defined by the viewer's follow graph
	r.With(auth.RequireAuth).Get("/api/timeline", timelineHandler.HandleGetTimeline)

	// Profile feeds and threads are public reads
	r.With(auth.OptionalAuth).Get("/api/users/{identifier}/feed", authorFeedHandler.HandleGetAuthorFeed)
	r.With(auth.OptionalAuth).Get("/api/posts/{postId}", threadHandler.HandleGetThread)
}
