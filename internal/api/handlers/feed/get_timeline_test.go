package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"Chirp/internal/api/middleware"
	"Chirp/internal/core/feeds"
)

// feedTestService implements feeds.Service for feed handler tests
type feedTestService struct {
	timelineFunc func(ctx context.Context, viewerID string) ([]*feeds.PostView, error)
	profileFunc  func(ctx context.Context, identifier string, view feeds.ProfileView) ([]*feeds.PostView, error)
	threadFunc   func(ctx context.Context, postID string) (*feeds.PostView, error)
}

func (m *feedTestService) Timeline(ctx context.Context, viewerID string) ([]*feeds.PostView, error) {
	if m.timelineFunc != nil {
		return m.timelineFunc(ctx, viewerID)
	}
	return []*feeds.PostView{}, nil
}

func (m *feedTestService) Profile(ctx context.Context, identifier string, view feeds.ProfileView) ([]*feeds.PostView, error) {
	if m.profileFunc != nil {
		return m.profileFunc(ctx, identifier, view)
	}
	return []*feeds.PostView{}, nil
}

func (m *feedTestService) Thread(ctx context.Context, postID string) (*feeds.PostView, error) {
	if m.threadFunc != nil {
		return m.threadFunc(ctx, postID)
	}
	return &feeds.PostView{ID: postID}, nil
}

func TestGetTimelineHandler_Success(t *testing.T) {
	text := "hello"
	service := &feedTestService{
		timelineFunc: func(ctx context.Context, viewerID string) ([]*feeds.PostView, error) {
			if viewerID != "u1" {
				t.Errorf("expected viewer u1, got %q", viewerID)
			}
			return []*feeds.PostView{{ID: "p1", Text: &text, Author: feeds.UserRef{ID: "u1", Name: "One"}}}, nil
		},
	}
	handler := NewGetTimelineHandler(service)

	req := httptest.NewRequest("GET", "/api/timeline", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), "u1"))
	w := httptest.NewRecorder()

	handler.HandleGetTimeline(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var timeline []*feeds.PostView
	if err := json.NewDecoder(w.Body).Decode(&timeline); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(timeline) != 1 || timeline[0].ID != "p1" {
		t.Errorf("unexpected timeline: %+v", timeline)
	}
}

func TestGetTimelineHandler_Anonymous(t *testing.T) {
	service := &feedTestService{
		timelineFunc: func(ctx context.Context, viewerID string) ([]*feeds.PostView, error) {
			return nil, feeds.ErrUnauthenticated
		},
	}
	handler := NewGetTimelineHandler(service)

	req := httptest.NewRequest("GET", "/api/timeline", nil)
	w := httptest.NewRecorder()

	handler.HandleGetTimeline(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestGetAuthorFeedHandler_PassesView(t *testing.T) {
	var gotIdentifier string
	var gotView feeds.ProfileView
	service := &feedTestService{
		profileFunc: func(ctx context.Context, identifier string, view feeds.ProfileView) ([]*feeds.PostView, error) {
			gotIdentifier = identifier
			gotView = view
			return []*feeds.PostView{}, nil
		},
	}
	handler := NewGetAuthorFeedHandler(service)
	r := chi.NewRouter()
	r.Get("/api/users/{identifier}/feed", handler.HandleGetAuthorFeed)

	req := httptest.NewRequest("GET", "/api/users/alice/feed?view=likes", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotIdentifier != "alice" {
		t.Errorf("expected identifier alice, got %q", gotIdentifier)
	}
	if gotView != feeds.ViewLikes {
		t.Errorf("expected likes view, got %q", gotView)
	}
}

func TestGetThreadHandler_Success(t *testing.T) {
	service := &feedTestService{}
	handler := NewGetThreadHandler(service)
	r := chi.NewRouter()
	r.Get("/api/posts/{postId}", handler.HandleGetThread)

	req := httptest.NewRequest("GET", "/api/posts/p9", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var view feeds.PostView
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if view.ID != "p9" {
		t.Errorf("expected post p9, got %q", view.ID)
	}
}
