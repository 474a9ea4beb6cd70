package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"Chirp/internal/api/middleware"
	"Chirp/internal/core/users"
)

// followTestService implements users.Service for follow handler tests
type followTestService struct {
	followFunc   func(ctx context.Context, actorID, targetID string) (*users.Profile, error)
	unfollowFunc func(ctx context.Context, actorID, targetID string) (*users.Profile, error)
}

func (m *followTestService) EnsureUser(ctx context.Context, req users.EnsureUserRequest) (*users.User, error) {
	return nil, nil
}

func (m *followTestService) GetUser(ctx context.Context, identifier string) (*users.User, error) {
	return nil, nil
}

func (m *followTestService) GetProfile(ctx context.Context, identifier string) (*users.Profile, error) {
	return nil, nil
}

func (m *followTestService) UpdateUsername(ctx context.Context, actorID, username string) (*users.User, error) {
	return nil, nil
}

func (m *followTestService) Follow(ctx context.Context, actorID, targetID string) (*users.Profile, error) {
	if m.followFunc != nil {
		return m.followFunc(ctx, actorID, targetID)
	}
	return &users.Profile{User: &users.User{ID: targetID, Name: "Target"}}, nil
}

func (m *followTestService) Unfollow(ctx context.Context, actorID, targetID string) (*users.Profile, error) {
	if m.unfollowFunc != nil {
		return m.unfollowFunc(ctx, actorID, targetID)
	}
	return &users.Profile{User: &users.User{ID: targetID, Name: "Target"}}, nil
}

func newFollowRouter(service users.Service) chi.Router {
	handler := NewFollowHandler(service)
	r := chi.NewRouter()
	r.Post("/api/users/{userId}/follow", handler.HandleFollow)
	r.Post("/api/users/{userId}/unfollow", handler.HandleUnfollow)
	return r
}

func TestFollowHandler_Follow_Success(t *testing.T) {
	var gotActor, gotTarget string
	service := &followTestService{
		followFunc: func(ctx context.Context, actorID, targetID string) (*users.Profile, error) {
			gotActor = actorID
			gotTarget = targetID
			return &users.Profile{
				User:      &users.User{ID: actorID, Name: "Actor"},
				Following: []users.User{{ID: targetID, Name: "Target"}},
			}, nil
		},
	}
	router := newFollowRouter(service)

	req := httptest.NewRequest("POST", "/api/users/u2/follow", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), "u1"))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotActor != "u1" || gotTarget != "u2" {
		t.Errorf("service called with (%q, %q), want (u1, u2)", gotActor, gotTarget)
	}

	var profile users.Profile
	if err := json.NewDecoder(w.Body).Decode(&profile); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(profile.Following) != 1 || profile.Following[0].ID != "u2" {
		t.Errorf("expected target in following, got %+v", profile.Following)
	}
}

func TestFollowHandler_Follow_RequiresAuth(t *testing.T) {
	router := newFollowRouter(&followTestService{
		followFunc: func(ctx context.Context, actorID, targetID string) (*users.Profile, error) {
			t.Error("service should not be called for anonymous caller")
			return nil, nil
		},
	})

	req := httptest.NewRequest("POST", "/api/users/u2/follow", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestFollowHandler_Unfollow_Success(t *testing.T) {
	var gotTarget string
	service := &followTestService{
		unfollowFunc: func(ctx context.Context, actorID, targetID string) (*users.Profile, error) {
			gotTarget = targetID
			return &users.Profile{User: &users.User{ID: targetID, Name: "Target"}}, nil
		},
	}
	router := newFollowRouter(service)

	req := httptest.NewRequest("POST", "/api/users/u3/unfollow", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), "u1"))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if gotTarget != "u3" {
		t.Errorf("service called with target %q, want u3", gotTarget)
	}
}
