package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
)

// newLimitedRouter wires auth resolution ahead of the limiter the way the
// server does, so authenticated callers are keyed by user ID.
func newLimitedRouter(limit int) chi.Router {
	store := sessions.NewCookieStore([]byte("cookie-secret-cookie-secret-32b!"))
	auth := NewAuthMiddleware(store, testSecret)

	r := chi.NewRouter()
	r.Use(auth.OptionalAuth)
	r.Use(NewRateLimiter(limit, time.Minute).Middleware)
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func TestRateLimiter_KeysAuthenticatedCallersByUserID(t *testing.T) {
	router := newLimitedRouter(1)
	token := signTestToken(t, "u1", testSecret)

	// Same user from two different addresses shares one window
	first := httptest.NewRequest("GET", "/ping", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	first.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, first)
	if w.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", w.Code)
	}

	second := httptest.NewRequest("GET", "/ping", nil)
	second.RemoteAddr = "10.0.0.2:1234"
	second.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, second)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("second request from new address: expected 429, got %d", w.Code)
	}
}

func TestRateLimiter_SeparatesUsersOnSharedAddress(t *testing.T) {
	router := newLimitedRouter(1)

	for _, subject := range []string{"u1", "u2"} {
		req := httptest.NewRequest("GET", "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, subject, testSecret))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("user %s: expected 200, got %d", subject, w.Code)
		}
	}
}

func TestRateLimiter_AnonymousCallersKeyedByIP(t *testing.T) {
	router := newLimitedRouter(1)

	req := httptest.NewRequest("GET", "/ping", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", w.Code)
	}

	// Same anonymous address is throttled
	req = httptest.NewRequest("GET", "/ping", nil)
	req.RemoteAddr = "10.0.0.1:5678"
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("second anonymous request: expected 429, got %d", w.Code)
	}

	// A different address gets its own window
	req = httptest.NewRequest("GET", "/ping", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("fresh address: expected 200, got %d", w.Code)
	}
}
