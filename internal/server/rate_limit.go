package server

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter implements token bucket rate limiting per client IP.
// Each client gets a fixed number of requests per window; the window resets
// lazily on the first request after it elapses.
type RateLimiter struct {
	mu       sync.Mutex // every Allow call writes, so a plain Mutex beats RWMutex here
	clients  map[string]*clientLimiter
	rate     int
	window   time.Duration
	cleanup  time.Duration
	stopChan chan struct{}
}

// clientLimiter tracks the remaining tokens and window start for one client.
type clientLimiter struct {
	tokens      int
	windowStart time.Time
}

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	// RequestsPerMinute is the maximum number of requests allowed per minute per client.
	// Default: 60
	RequestsPerMinute int
	// CleanupInterval is how often to clean up expired client entries.
	// Default: 5 minutes
	CleanupInterval time.Duration
}

// DefaultRateLimiterConfig returns the default rate limiter configuration.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerMinute: 60,
		CleanupInterval:   5 * time.Minute,
	}
}

// NewRateLimiter creates a new rate limiter and starts its background
// cleanup goroutine. Call Stop to release the goroutine.
//
// Parameters:
//   - config: The rate limiter configuration.
//
// Returns:
//   - *RateLimiter: A new rate limiter instance.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = 60
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}

	rl := &RateLimiter{
		clients:  make(map[string]*clientLimiter),
		rate:     config.RequestsPerMinute,
		window:   time.Minute,
		cleanup:  config.CleanupInterval,
		stopChan: make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Allow reports whether a request from the given client fits within the
// limit, consuming one token if it does.
//
// Parameters:
//   - clientIP: The client's IP address.
//
// Returns:
//   - bool: true if the request is allowed, false if rate limited.
func (rl *RateLimiter) Allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientLimiter{
			tokens:      rl.rate - 1,
			windowStart: now,
		}
		return true
	}

	if now.Sub(client.windowStart) >= rl.window {
		client.tokens = rl.rate - 1
		client.windowStart = now
		return true
	}

	if client.tokens > 0 {
		client.tokens--
		return true
	}

	return false
}

// cleanupLoop periodically drops clients whose window expired long ago.
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			now := time.Now()
			for ip, client := range rl.clients {
				if now.Sub(client.windowStart) > rl.window*2 {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopChan:
			return
		}
	}
}

// Stop stops the rate limiter's background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopChan)
}

// RateLimitMiddleware wraps an http.HandlerFunc with rate limiting.
// Rejected requests receive 429 with a Retry-After hint.
//
// Parameters:
//   - rl: The rate limiter to use.
//   - next: The next handler in the chain.
//
// Returns:
//   - http.HandlerFunc: A new handler with rate limiting capability.
func RateLimitMiddleware(rl *RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(getClientIP(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(ErrorResponse{
				Error:   http.StatusText(http.StatusTooManyRequests),
				Message: "Rate limit exceeded. Please try again later.",
			})
			return
		}

		next(w, r)
	}
}

// getClientIP extracts the client IP address from the request, preferring
// proxy headers over the socket address:
//  1. X-Forwarded-For header (first IP in the comma-separated list)
//  2. X-Real-IP header
//  3. RemoteAddr (with port stripped)
//
// Parameters:
//   - r: The HTTP request.
//
// Returns:
//   - string: The client IP address.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// The first IP in the list is the original client.
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	return stripPort(r.RemoteAddr)
}

// stripPort removes the port from an address string, handling both IPv4 and
// IPv6 forms.
//
// Parameters:
//   - addr: The address string, potentially with a port.
//
// Returns:
//   - string: The IP address without the port.
func stripPort(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		// No port present; drop any IPv6 brackets.
		return strings.Trim(addr, "[]")
	}
	return host
}
