package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agbru/divseq/internal/config"
)

// TestServerConcurrentRequests tests that the server can handle multiple concurrent requests.
func TestServerConcurrentRequests(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping load test in short mode")
	}

	cfg := config.AppConfig{
		Port:  "0",
		Terms: 8,
	}

	// Disable rate limiting for this test
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerMinute: 10000})
	defer rl.Stop()

	srv := NewServer(cfg, WithRateLimiter(rl))
	ts := httptest.NewServer(srv.httpServer.Handler)
	defer ts.Close()

	const (
		numRequests   = 100
		numGoroutines = 10
	)

	var (
		successCount int64
		errorCount   int64
		wg           sync.WaitGroup
	)

	requestsPerGoroutine := numRequests / numGoroutines
	wg.Add(numGoroutines)

	start := time.Now()

	for i := 0; i < numGoroutines; i++ {
		go func(workerID int) {
			defer wg.Done()

			client := &http.Client{Timeout: 30 * time.Second}

			for j := 0; j < requestsPerGoroutine; j++ {
				n := (workerID * requestsPerGoroutine) + j + 1
				url := fmt.Sprintf("%s/analyze?n=%d", ts.URL, n)

				resp, err := client.Get(url)
				if err != nil {
					atomic.AddInt64(&errorCount, 1)
					continue
				}

				var result Response
				if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
					atomic.AddInt64(&errorCount, 1)
					resp.Body.Close()
					continue
				}
				resp.Body.Close()

				if resp.StatusCode == http.StatusOK && result.Error == "" {
					atomic.AddInt64(&successCount, 1)
				} else {
					atomic.AddInt64(&errorCount, 1)
				}
			}
		}(i)
	}

	wg.Wait()
	duration := time.Since(start)

	t.Logf("Load test completed in %v", duration)
	t.Logf("Total requests: %d", numRequests)
	t.Logf("Successful: %d, Errors: %d", successCount, errorCount)
	t.Logf("Requests per second: %.2f", float64(numRequests)/duration.Seconds())

	if errorCount > int64(numRequests/10) {
		t.Errorf("Too many errors: %d out of %d requests", errorCount, numRequests)
	}
}

// TestServerRateLimiting tests that rate limiting works correctly.
func TestServerRateLimiting(t *testing.T) {
	cfg := config.AppConfig{
		Port:  "0",
		Terms: 8,
	}

	// Set low rate limit for testing
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerMinute: 5})
	defer rl.Stop()

	srv := NewServer(cfg, WithRateLimiter(rl))
	ts := httptest.NewServer(srv.httpServer.Handler)
	defer ts.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	var rateLimitedCount int
	for i := 0; i < 10; i++ {
		resp, err := client.Get(ts.URL + "/analyze?n=10")
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			rateLimitedCount++
		}
	}

	if rateLimitedCount == 0 {
		t.Error("Expected some requests to be rate limited")
	}

	t.Logf("Rate limited %d out of 10 requests", rateLimitedCount)
}

// TestServerSecurityHeaders tests that security headers are set correctly.
func TestServerSecurityHeaders(t *testing.T) {
	cfg := config.AppConfig{
		Port:  "0",
		Terms: 8,
	}

	rl := NewRateLimiter(RateLimiterConfig{RequestsPerMinute: 100})
	defer rl.Stop()

	srv := NewServer(cfg, WithRateLimiter(rl))
	ts := httptest.NewServer(srv.httpServer.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	expectedHeaders := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"X-Xss-Protection":       "1; mode=block",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}

	for header, expected := range expectedHeaders {
		actual := resp.Header.Get(header)
		if actual != expected {
			t.Errorf("Header %s: expected %q, got %q", header, expected, actual)
		}
	}
}

// TestServerMaxNValidation tests that the maximum N value is enforced.
func TestServerMaxNValidation(t *testing.T) {
	cfg := config.AppConfig{
		Port:  "0",
		Terms: 8,
	}

	secConfig := DefaultSecurityConfig()
	secConfig.MaxNValue = 100 // Set low limit for testing

	rl := NewRateLimiter(RateLimiterConfig{RequestsPerMinute: 100})
	defer rl.Stop()

	srv := NewServer(cfg, WithRateLimiter(rl), WithSecurityConfig(secConfig))
	ts := httptest.NewServer(srv.httpServer.Handler)
	defer ts.Close()

	// Request with n > MaxNValue should fail
	resp, err := http.Get(ts.URL + "/analyze?n=5000")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}

	if errResp.Message == "" {
		t.Error("Expected error message about maximum n value")
	}
}

// TestServerMetricsEndpoint tests that the /metrics endpoint works correctly.
func TestServerMetricsEndpoint(t *testing.T) {
	cfg := config.AppConfig{
		Port:  "0",
		Terms: 8,
	}

	srv := NewServer(cfg)
	ts := httptest.NewServer(srv.httpServer.Handler)
	defer ts.Close()

	// Make an analysis request first
	resp, err := http.Get(ts.URL + "/analyze?n=10")
	if err != nil {
		t.Fatalf("Analysis request failed: %v", err)
	}
	resp.Body.Close()

	// Now check metrics
	resp, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("Metrics request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	// Allow for extra parameters in content type
	if contentType == "" {
		t.Error("Content-Type header is missing")
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read metrics body: %v", err)
	}
	if !strings.Contains(string(bodyBytes), "divseq_requests_total") {
		t.Error("Expected metrics output to include the request counter")
	}
}

// BenchmarkServerAnalyze benchmarks the analyze endpoint.
func BenchmarkServerAnalyze(b *testing.B) {
	cfg := config.AppConfig{
		Port:  "0",
		Terms: 8,
	}

	rl := NewRateLimiter(RateLimiterConfig{RequestsPerMinute: 100000})
	defer rl.Stop()

	srv := NewServer(cfg, WithRateLimiter(rl))
	ts := httptest.NewServer(srv.httpServer.Handler)
	defer ts.Close()

	client := &http.Client{}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			resp, err := client.Get(ts.URL + "/analyze?n=100")
			if err != nil {
				b.Error(err)
				continue
			}
			resp.Body.Close()
		}
	})
}

// BenchmarkServerHealth benchmarks the health endpoint.
func BenchmarkServerHealth(b *testing.B) {
	cfg := config.AppConfig{
		Port:  "0",
		Terms: 8,
	}

	rl := NewRateLimiter(RateLimiterConfig{RequestsPerMinute: 100000})
	defer rl.Stop()

	srv := NewServer(cfg, WithRateLimiter(rl))
	ts := httptest.NewServer(srv.httpServer.Handler)
	defer ts.Close()

	client := &http.Client{}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			resp, err := client.Get(ts.URL + "/health")
			if err != nil {
				b.Error(err)
				continue
			}
			resp.Body.Close()
		}
	})
}
