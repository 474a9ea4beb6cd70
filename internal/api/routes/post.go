package routes

import (
	"github.com/go-chi/chi/v5"

	"Chirp/internal/api/handlers/post"
	"Chirp/internal/api/middleware"
	"Chirp/internal/core/posts"
)

// RegisterPostRoutes registers post mutation endpoints. Every route here
// writes, so they all require authentication.
func RegisterPostRoutes(r chi.Router, service posts.Service, auth *middleware.AuthMiddleware) {
	createHandler := post.NewCreateHandler(service)
	replyHandler := post.NewReplyHandler(service)
	repostHandler := post.NewRepostHandler(service)
	editHandler := post.NewEditHandler(service)
	deleteHandler := post.NewDeleteHandler(service)
	likeHandler := post.NewLikeHandler(service)

	r.With(auth.RequireAuth).Post("/api/posts", createHandler.HandleCreate)
	r.With(auth.RequireAuth).Post("/api/posts/{postId}/reply", replyHandler.HandleReply)
	r.With(auth.RequireAuth).Post("/api/posts/{postId}/repost", repostHandler.HandleRepost)
	r.With(auth.RequireAuth).Put("/api/posts/{postId}", editHandler.HandleEdit)
	r.With(auth.RequireAuth).Delete("/api/posts/{postId}", deleteHandler.HandleDelete)
	r.With(auth.RequireAuth).Post("/api/posts/{postId}/like", likeHandler.HandleLike)
	r.With(auth.RequireAuth).Post("/api/posts/{postId}/unlike", likeHandler.HandleUnlike)
}
