package routes

import (
	"github.com/go-chi/chi/v5"

	"Chirp/internal/api/handlers/user"
	"Chirp/internal/api/middleware"
	"Chirp/internal/core/users"
)

// RegisterUserRoutes registers profile and social-graph endpoints
func RegisterUserRoutes(r chi.Router, service users.Service, auth *middleware.AuthMiddleware) {
	profileHandler := user.NewGetProfileHandler(service)
	followHandler := user.NewFollowHandler(service)
	usernameHandler := user.NewUpdateUsernameHandler(service)
	ensureHandler := user.NewEnsureHandler(service)

	// Profile lookup works for anonymous callers too
	r.With(auth.OptionalAuth).Get("/api/users/{identifier}", profileHandler.HandleGetProfile)

	r.With(auth.RequireAuth).Post("/api/users/{userId}/follow", followHandler.HandleFollow)
	r.With(auth.RequireAuth).Post("/api/users/{userId}/unfollow", followHandler.HandleUnfollow)

	// Caller's own record: sign-in bootstrap and handle changes
	r.With(auth.RequireAuth).Post("/api/me", ensureHandler.HandleEnsure)
	r.With(auth.RequireAuth).Put("/api/me/username", usernameHandler.HandleUpdateUsername)
}
