package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"
)

// Context keys for storing caller information
type contextKey string

const UserIDKey contextKey = "user_id"

// SessionName is the cookie written by the identity provider's callback
const SessionName = "chirp_session"

// sessionUserKey is the session value holding the caller's stable ID
const sessionUserKey = "user_id"

// AuthMiddleware resolves the calling user from either the session cookie
// (browser clients) or a Bearer HS256 token minted by the identity provider
// (API clients). The core never provisions identity; it only reads it.
type AuthMiddleware struct {
	store     sessions.Store
	jwtSecret []byte
}

// NewAuthMiddleware creates a new auth middleware.
// jwtSecret may be empty, which disables the Bearer token path.
func NewAuthMiddleware(store sessions.Store, jwtSecret []byte) *AuthMiddleware {
	return &AuthMiddleware{
		store:     store,
		jwtSecret: jwtSecret,
	}
}

// RequireAuth ensures the caller is authenticated.
// If not, returns 401; if so, injects the user ID into the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// An earlier OptionalAuth in the chain may have resolved the
		// caller already; don't verify credentials twice
		userID := GetUserID(r)
		if userID == "" {
			userID = m.resolveUserID(r)
		}
		if userID == "" {
			writeAuthError(w, "Authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth loads the caller's identity if present but doesn't require it.
// Useful for endpoints that work for both authenticated and anonymous users.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserID(r) != "" {
			next.ServeHTTP(w, r)
			return
		}
		if userID := m.resolveUserID(r); userID != "" {
			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// resolveUserID tries the Bearer token first (explicit beats ambient),
// then the session cookie. Returns "" for anonymous callers.
func (m *AuthMiddleware) resolveUserID(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		userID, err := m.verifyBearerToken(token)
		if err != nil {
			log.Printf("[AUTH_FAILURE] type=bearer ip=%s method=%s path=%s error=%v",
				r.RemoteAddr, r.Method, r.URL.Path, err)
			return ""
		}
		return userID
	}

	session, err := m.store.Get(r, SessionName)
	if err != nil {
		// A bad cookie (tampered, rotated secret) is an anonymous caller,
		// not a server error
		return ""
	}
	if userID, ok := session.Values[sessionUserKey].(string); ok {
		return userID
	}
	return ""
}

// verifyBearerToken validates the HS256 signature and returns the subject
func (m *AuthMiddleware) verifyBearerToken(tokenString string) (string, error) {
	if len(m.jwtSecret) == 0 {
		return "", fmt.Errorf("bearer authentication is not configured")
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.jwtSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("token missing subject")
	}
	return claims.Subject, nil
}

// GetUserID extracts the authenticated user ID from the request context.
// Returns empty string if not authenticated.
func GetUserID(r *http.Request) string {
	if userID, ok := r.Context().Value(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

// WithUserID returns a context carrying the given user ID.
// Intended for tests that bypass the middleware.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// writeAuthError writes a 401 JSON error response
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"error":   "AuthRequired",
		"message": message,
	}); err != nil {
		log.Printf("Failed to encode auth error response: %v", err)
	}
}
