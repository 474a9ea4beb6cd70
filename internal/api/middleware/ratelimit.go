package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter throttles callers with a fixed-window counter kept in memory.
// Authenticated callers are keyed by user ID so a shared NAT does not let
// one account starve another; anonymous callers fall back to client IP.
type RateLimiter struct {
	callers map[string]*callerWindow
	limit   int
	window  time.Duration
	mu      sync.Mutex
}

type callerWindow struct {
	resetAt time.Time
	count   int
}

// NewRateLimiter allows at most limit requests per caller per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		callers: make(map[string]*callerWindow),
		limit:   limit,
		window:  window,
	}

	go rl.evictExpired()

	return rl
}

// Middleware rejects over-limit requests with 429 before they reach handlers.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(callerKey(r)) {
			w.Header().Set("Retry-After", formatSeconds(rl.window))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now().UTC()

	caller, ok := rl.callers[key]
	if !ok || now.After(caller.resetAt) {
		rl.callers[key] = &callerWindow{count: 1, resetAt: now.Add(rl.window)}
		return true
	}

	if caller.count >= rl.limit {
		return false
	}

	caller.count++
	return true
}

func (rl *RateLimiter) evictExpired() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now().UTC()
		for key, caller := range rl.callers {
			if now.After(caller.resetAt) {
				delete(rl.callers, key)
			}
		}
		rl.mu.Unlock()
	}
}

// callerKey prefers the authenticated user ID, set by the auth middleware
// when it runs first in the chain.
func callerKey(r *http.Request) string {
	if userID := GetUserID(r); userID != "" {
		return "user:" + userID
	}
	return "ip:" + clientIP(r)
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// First hop is the original client
		if i := strings.IndexByte(forwarded, ','); i >= 0 {
			return strings.TrimSpace(forwarded[:i])
		}
		return forwarded
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func formatSeconds(d time.Duration) string {
	secs := int(d.Seconds())
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
