package user

import (
	"encoding/json"
	"net/http"

	"Chirp/internal/api/handlers"
	"Chirp/internal/api/middleware"
	"Chirp/internal/core/users"
)

// UpdateUsernameHandler serves username change requests
type UpdateUsernameHandler struct {
	service users.Service
}

// NewUpdateUsernameHandler creates a new username update handler
func NewUpdateUsernameHandler(service users.Service) *UpdateUsernameHandler {
	return &UpdateUsernameHandler{service: service}
}

type updateUsernameRequest struct {
	Username string `json:"username"`
}

// HandleUpdateUsername handles PUT /api/me/username
// The new handle is normalized to lowercase before being claimed.
func (h *UpdateUsernameHandler) HandleUpdateUsername(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r)
	if actorID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 4*1024)

	var req updateUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	updated, err := h.service.UpdateUsername(r.Context(), actorID, req.Username)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, updated)
}
