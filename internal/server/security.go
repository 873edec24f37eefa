package server

import (
	"net/http"
	"strings"
)

// SecurityConfig holds configuration for security headers and request limits.
type SecurityConfig struct {
	// EnableCORS enables Cross-Origin Resource Sharing headers.
	EnableCORS bool
	// AllowedOrigins specifies allowed CORS origins. Use "*" for all origins.
	AllowedOrigins []string
	// AllowedMethods specifies allowed HTTP methods for CORS.
	AllowedMethods []string
	// MaxNValue is the maximum allowed value for the 'n' parameter.
	// The strong divisibility check compares every index pair, so the work
	// grows quadratically with n; the cap keeps one request from
	// monopolizing the server.
	// Default: 1000
	MaxNValue int
}

// DefaultSecurityConfig returns the default security configuration.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		MaxNValue:      1000,
	}
}

// corsOrigin returns the Access-Control-Allow-Origin value to send for the
// given request origin, or "" when the origin is not allowed.
func corsOrigin(config SecurityConfig, origin string) string {
	for _, allowed := range config.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return allowed
		}
	}
	return ""
}

// SecurityMiddleware adds security headers to HTTP responses: a restrictive
// Content Security Policy, X-Content-Type-Options, X-Frame-Options,
// X-XSS-Protection, Referrer-Policy, and CORS headers when enabled.
// OPTIONS preflight requests are answered directly with 204 No Content.
//
// Parameters:
//   - config: The security configuration.
//   - next: The next handler in the chain.
//
// Returns:
//   - http.HandlerFunc: A new handler with security headers.
func SecurityMiddleware(config SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		if config.EnableCORS {
			if allowed := corsOrigin(config, r.Header.Get("Origin")); allowed != "" {
				w.Header().Set("Access-Control-Allow-Origin", allowed)
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
				w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours
			}

			// Handle preflight requests
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}

		next(w, r)
	}
}
