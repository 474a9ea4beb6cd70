package user

import (
	"encoding/json"
	"net/http"

	"Chirp/internal/api/handlers"
	"Chirp/internal/api/middleware"
	"Chirp/internal/core/users"
)

// EnsureHandler upserts the caller's user record after sign-in
type EnsureHandler struct {
	service users.Service
}

// NewEnsureHandler creates a new ensure handler
func NewEnsureHandler(service users.Service) *EnsureHandler {
	return &EnsureHandler{service: service}
}

type ensureRequest struct {
	Name  string  `json:"name"`
	Image *string `json:"image"`
}

// HandleEnsure handles POST /api/me
// Clients call this once after the identity provider authenticates them,
// so first-time users are queryable before their first post. Repeat calls
// refresh the display name and avatar.
func (h *EnsureHandler) HandleEnsure(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r)
	if actorID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 16*1024)

	var req ensureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	ensured, err := h.service.EnsureUser(r.Context(), users.EnsureUserRequest{
		ID:    actorID,
		Name:  req.Name,
		Image: req.Image,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, ensured)
}
