package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"
)

var testSecret = []byte("test-secret-test-secret-test-secret!")

func newTestMiddleware() (*AuthMiddleware, sessions.Store) {
	store := sessions.NewCookieStore([]byte("cookie-secret-cookie-secret-32b!"))
	return NewAuthMiddleware(store, testSecret), store
}

// signTestToken creates an HS256 token with the given subject
func signTestToken(t *testing.T, subject string, secret []byte) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func TestRequireAuth_ValidBearerToken(t *testing.T) {
	m, _ := newTestMiddleware()

	handlerCalled := false
	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		if got := GetUserID(r); got != "u1" {
			t.Errorf("expected user ID 'u1', got %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "u1", testSecret))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !handlerCalled {
		t.Error("handler was not called")
	}
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestRequireAuth_NoCredentials(t *testing.T) {
	m, _ := newTestMiddleware()

	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuth_BadSignature(t *testing.T) {
	m, _ := newTestMiddleware()

	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "u1", []byte("wrong-secret-wrong-secret-wrong!")))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuth_SessionCookie(t *testing.T) {
	m, store := newTestMiddleware()

	// Write a session cookie the way the identity provider callback does
	rec := httptest.NewRecorder()
	seedReq := httptest.NewRequest("GET", "/seed", nil)
	session, _ := store.Get(seedReq, SessionName)
	session.Values[sessionUserKey] = "u2"
	if err := session.Save(seedReq, rec); err != nil {
		t.Fatalf("failed to save session: %v", err)
	}

	handlerCalled := false
	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		if got := GetUserID(r); got != "u2" {
			t.Errorf("expected user ID 'u2', got %q", got)
		}
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !handlerCalled {
		t.Error("handler was not called")
	}
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	m, _ := newTestMiddleware()

	handlerCalled := false
	handler := m.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		if got := GetUserID(r); got != "" {
			t.Errorf("expected anonymous caller, got %q", got)
		}
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !handlerCalled {
		t.Error("handler was not called")
	}
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
