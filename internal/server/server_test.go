package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agbru/divseq/internal/config"
	"github.com/agbru/divseq/internal/recurrence"
	"github.com/agbru/divseq/internal/service"
	"github.com/agbru/divseq/pkg/models"
)

// mockService implements service.Service for testing.
type mockService struct {
	analysis recurrence.Analysis
	err      error
	// capturedN stores the index bound passed to Analyze for verification.
	capturedN int
}

func (m *mockService) Analyze(ctx context.Context, params recurrence.Params, maxN int) (recurrence.Analysis, error) {
	m.capturedN = maxN
	if m.err != nil {
		return recurrence.Analysis{}, m.err
	}
	return m.analysis, nil
}

// createTestServer initializes a server instance for testing with default configuration.
func createTestServer(opts ...Option) *Server {
	cfg := config.AppConfig{
		Port:  "8080",
		MaxN:  20,
		Terms: 8,
	}
	return NewServer(cfg, opts...)
}

// TestHandleAnalyze verifies the behavior of the analysis endpoint.
// It tests successful analyses, validation errors, and analysis failures.
func TestHandleAnalyze(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    string
		expectedStatus int
		expectedBody   string
		checkError     bool
	}{
		{
			name:           "Success with Fibonacci defaults",
			queryParams:    "?n=10",
			expectedStatus: http.StatusOK,
			checkError:     false,
		},
		{
			name:           "Missing n",
			queryParams:    "",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Missing 'n' parameter",
			checkError:     true,
		},
		{
			name:           "Invalid n",
			queryParams:    "?n=abc",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "must be a non-negative integer",
			checkError:     true,
		},
		{
			name:           "Negative n",
			queryParams:    "?n=-5",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "must be a non-negative integer",
			checkError:     true,
		},
		{
			name:           "Invalid coefficient",
			queryParams:    "?n=10&q=abc",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid 'q' parameter",
			checkError:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := createTestServer()

			req := httptest.NewRequest("GET", "/analyze"+tt.queryParams, http.NoBody)
			w := httptest.NewRecorder()

			server.handleAnalyze(w, req)

			resp := w.Result()
			defer resp.Body.Close()

			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, resp.StatusCode)
			}

			bodyBytes, _ := io.ReadAll(resp.Body)

			if tt.checkError {
				var errResp ErrorResponse
				if err := json.Unmarshal(bodyBytes, &errResp); err != nil {
					t.Errorf("Failed to unmarshal error response: %v", err)
				}
				if !strings.Contains(errResp.Message, tt.expectedBody) {
					t.Errorf("Expected error message to contain %q, got %q", tt.expectedBody, errResp.Message)
				}
				return
			}

			var jsonResp Response
			if err := json.Unmarshal(bodyBytes, &jsonResp); err != nil {
				t.Fatalf("Failed to unmarshal JSON response: %v", err)
			}
			if jsonResp.Result == nil {
				t.Fatal("Expected a result record, got nil")
			}
			if jsonResp.Result.P != "1" || jsonResp.Result.Q != "-1" || jsonResp.Result.X0 != "0" || jsonResp.Result.X1 != "1" {
				t.Errorf("Expected Fibonacci defaults, got P=%s Q=%s x0=%s x1=%s",
					jsonResp.Result.P, jsonResp.Result.Q, jsonResp.Result.X0, jsonResp.Result.X1)
			}
			if jsonResp.Result.MaxIndex != 10 {
				t.Errorf("Expected max_index=10, got %d", jsonResp.Result.MaxIndex)
			}
			if !jsonResp.Result.Divisibility || !jsonResp.Result.StrongDivisibility {
				t.Error("Expected the Fibonacci sequence to satisfy both properties")
			}
			if len(jsonResp.Result.FirstTerms) != 8 {
				t.Errorf("Expected 8 leading terms, got %d", len(jsonResp.Result.FirstTerms))
			}
			if jsonResp.Duration == "" {
				t.Error("Expected a duration string")
			}
		})
	}
}

// TestHandleAnalyzeCounterexample verifies that failing sequences report the
// first failing index pair.
func TestHandleAnalyzeCounterexample(t *testing.T) {
	server := createTestServer()

	req := httptest.NewRequest("GET", "/analyze?p=1&q=-1&x0=2&x1=1&n=12", http.NoBody)
	w := httptest.NewRecorder()

	server.handleAnalyze(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var jsonResp Response
	if err := json.NewDecoder(resp.Body).Decode(&jsonResp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if jsonResp.Result == nil {
		t.Fatal("Expected a result record, got nil")
	}
	if jsonResp.Result.Divisibility || jsonResp.Result.StrongDivisibility {
		t.Error("Expected the Lucas numbers to fail both properties")
	}
	ce := jsonResp.Result.DivisibilityCounterexample
	if ce == nil || ce.M != 2 || ce.N != 4 {
		t.Errorf("Expected divisibility counterexample (2, 4), got %+v", ce)
	}
	ce = jsonResp.Result.StrongCounterexample
	if ce == nil || ce.M != 2 || ce.N != 4 {
		t.Errorf("Expected strong counterexample (2, 4), got %+v", ce)
	}
	if jsonResp.Result.FirstTerms[0] != "2" {
		t.Errorf("Expected first term 2, got %s", jsonResp.Result.FirstTerms[0])
	}
}

// TestHandleAnalyzeMaxN verifies that the index cap is enforced with a 400.
func TestHandleAnalyzeMaxN(t *testing.T) {
	server := createTestServer(WithMaxN(100))

	req := httptest.NewRequest("GET", "/analyze?n=200", http.NoBody)
	w := httptest.NewRecorder()

	server.handleAnalyze(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", resp.StatusCode)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if !strings.Contains(errResp.Message, "exceeds maximum allowed (100)") {
		t.Errorf("Expected cap message, got %q", errResp.Message)
	}
}

// TestHandleAnalyzeServiceError verifies that analysis failures are reported
// in-band with a 200 status.
func TestHandleAnalyzeServiceError(t *testing.T) {
	mock := &mockService{err: errors.New("analysis failed")}
	server := createTestServer(WithService(mock))

	req := httptest.NewRequest("GET", "/analyze?n=10", http.NoBody)
	w := httptest.NewRecorder()

	server.handleAnalyze(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var jsonResp Response
	if err := json.NewDecoder(resp.Body).Decode(&jsonResp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if jsonResp.Result != nil {
		t.Error("Expected no result record on failure")
	}
	if !strings.Contains(jsonResp.Error, "analysis failed") {
		t.Errorf("Expected in-band error, got %q", jsonResp.Error)
	}
	if mock.capturedN != 10 {
		t.Errorf("Expected the service to receive n=10, got %d", mock.capturedN)
	}
}

// TestHandleTerms verifies the NDJSON term stream endpoint.
// Each response line must decode to one TermRecord, in index order.
func TestHandleTerms(t *testing.T) {
	tests := []struct {
		name        string
		queryParams string
		wantLines   int
		wantLast    models.TermRecord
	}{
		{
			name:        "Fibonacci defaults",
			queryParams: "?n=10",
			wantLines:   11,
			wantLast:    models.TermRecord{Index: 10, Term: "55"},
		},
		{
			name:        "Mersenne numbers",
			queryParams: "?p=3&q=2&x0=0&x1=1&n=5",
			wantLines:   6,
			wantLast:    models.TermRecord{Index: 5, Term: "31"},
		},
		{
			name:        "Single term",
			queryParams: "?x0=7&n=0",
			wantLines:   1,
			wantLast:    models.TermRecord{Index: 0, Term: "7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := createTestServer()

			req := httptest.NewRequest("GET", "/terms"+tt.queryParams, http.NoBody)
			w := httptest.NewRecorder()

			server.handleTerms(w, req)

			resp := w.Result()
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != "application/x-ndjson" {
				t.Errorf("Expected Content-Type application/x-ndjson, got %q", ct)
			}

			bodyBytes, _ := io.ReadAll(resp.Body)
			lines := strings.Split(strings.TrimRight(string(bodyBytes), "\n"), "\n")
			if len(lines) != tt.wantLines {
				t.Fatalf("Expected %d term lines, got %d", tt.wantLines, len(lines))
			}

			for i, line := range lines {
				var rec models.TermRecord
				if err := json.Unmarshal([]byte(line), &rec); err != nil {
					t.Fatalf("Failed to unmarshal line %d: %v", i, err)
				}
				if rec.Index != i {
					t.Errorf("Expected index %d on line %d, got %d", i, i, rec.Index)
				}
			}

			var last models.TermRecord
			if err := json.Unmarshal([]byte(lines[len(lines)-1]), &last); err != nil {
				t.Fatalf("Failed to unmarshal last line: %v", err)
			}
			if last != tt.wantLast {
				t.Errorf("Expected final record %+v, got %+v", tt.wantLast, last)
			}
		})
	}
}

// TestHandleTermsErrors verifies that the term stream rejects malformed
// parameters before writing any stream output.
func TestHandleTermsErrors(t *testing.T) {
	tests := []struct {
		name         string
		queryParams  string
		errorMessage string
	}{
		{"Missing n", "", "Missing 'n' parameter"},
		{"Invalid coefficient", "?n=10&p=abc", "Invalid 'p' parameter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := createTestServer()

			req := httptest.NewRequest("GET", "/terms"+tt.queryParams, http.NoBody)
			w := httptest.NewRecorder()

			server.handleTerms(w, req)

			resp := w.Result()
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d", resp.StatusCode)
			}

			var errResp ErrorResponse
			if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if !strings.Contains(errResp.Message, tt.errorMessage) {
				t.Errorf("Expected error message to contain %q, got %q", tt.errorMessage, errResp.Message)
			}
		})
	}
}

// TestHandleTermsMaxN verifies that the index cap applies to the stream.
func TestHandleTermsMaxN(t *testing.T) {
	server := createTestServer(WithMaxN(100))

	req := httptest.NewRequest("GET", "/terms?n=200", http.NoBody)
	w := httptest.NewRecorder()

	server.handleTerms(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", resp.StatusCode)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if !strings.Contains(errResp.Message, "exceeds maximum allowed (100)") {
		t.Errorf("Expected cap message, got %q", errResp.Message)
	}
}

// TestHandleHealth verifies the health check endpoint.
func TestHandleHealth(t *testing.T) {
	server := createTestServer()

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	w := httptest.NewRecorder()

	server.handleHealth(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var healthResp map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&healthResp); err != nil {
		t.Errorf("Failed to decode health response: %v", err)
	}

	if healthResp["status"] != "healthy" {
		t.Errorf("Expected status=healthy, got %v", healthResp["status"])
	}
}

// TestMethodNotAllowed verifies that non-GET methods are rejected.
func TestMethodNotAllowed(t *testing.T) {
	server := createTestServer()

	tests := []struct {
		name     string
		endpoint string
		method   string
	}{
		{"Analyze POST", "/analyze", "POST"},
		{"Terms POST", "/terms", "POST"},
		{"Health POST", "/health", "POST"},
		{"Metrics POST", "/metrics", "POST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.endpoint, http.NoBody)
			w := httptest.NewRecorder()

			switch tt.endpoint {
			case "/analyze":
				server.handleAnalyze(w, req)
			case "/terms":
				server.handleTerms(w, req)
			case "/health":
				server.handleHealth(w, req)
			case "/metrics":
				server.handleMetrics(w, req)
			}

			resp := w.Result()
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusMethodNotAllowed {
				t.Errorf("Expected status 405, got %d", resp.StatusCode)
			}
		})
	}
}

// TestLoggingMiddleware verifies that the logging middleware executes the next handler.
func TestLoggingMiddleware(t *testing.T) {
	server := createTestServer()

	handlerCalled := false
	testHandler := func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	}

	wrapped := server.loggingMiddleware(testHandler)

	req := httptest.NewRequest("GET", "/test", http.NoBody)
	w := httptest.NewRecorder()

	// Give the logger a bit of time
	done := make(chan bool)
	go func() {
		wrapped(w, req)
		done <- true
	}()

	select {
	case <-done:
		if !handlerCalled {
			t.Error("Handler was not called")
		}
	case <-time.After(1 * time.Second):
		t.Error("Middleware timed out")
	}
}

// TestParseAnalyzeParams verifies the parameter parsing helper function.
func TestParseAnalyzeParams(t *testing.T) {
	tests := []struct {
		name          string
		queryParams   string
		expectedN     int
		expectedP     string
		expectedQ     string
		expectedX0    string
		expectedX1    string
		expectedError bool
		errorMessage  string
	}{
		{
			name:        "Defaults to Fibonacci",
			queryParams: "?n=42",
			expectedN:   42,
			expectedP:   "1", expectedQ: "-1", expectedX0: "0", expectedX1: "1",
		},
		{
			name:        "Explicit parameters",
			queryParams: "?p=2&q=-1&x0=0&x1=1&n=12",
			expectedN:   12,
			expectedP:   "2", expectedQ: "-1", expectedX0: "0", expectedX1: "1",
		},
		{
			name:        "Large coefficient",
			queryParams: "?p=9223372036854775807&n=5",
			expectedN:   5,
			expectedP:   "9223372036854775807", expectedQ: "-1", expectedX0: "0", expectedX1: "1",
		},
		{
			name:          "Missing n parameter",
			queryParams:   "",
			expectedError: true,
			errorMessage:  "Missing 'n' parameter",
		},
		{
			name:          "Missing n with parameters only",
			queryParams:   "?p=1&q=-1",
			expectedError: true,
			errorMessage:  "Missing 'n' parameter",
		},
		{
			name:          "Invalid n - non-numeric",
			queryParams:   "?n=abc",
			expectedError: true,
			errorMessage:  "must be a non-negative integer",
		},
		{
			name:          "Invalid n - negative",
			queryParams:   "?n=-5",
			expectedError: true,
			errorMessage:  "must be a non-negative integer",
		},
		{
			name:          "Invalid x0",
			queryParams:   "?n=10&x0=two",
			expectedError: true,
			errorMessage:  "Invalid 'x0' parameter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/analyze"+tt.queryParams, http.NoBody)
			params, n, err := parseAnalyzeParams(req)

			if tt.expectedError {
				if err == nil {
					t.Error("Expected error, got nil")
					return
				}
				parseErr, ok := err.(AnalyzeParseError)
				if !ok {
					t.Errorf("Expected AnalyzeParseError, got %T", err)
					return
				}
				if !strings.Contains(parseErr.Message, tt.errorMessage) {
					t.Errorf("Expected error message to contain %q, got %q", tt.errorMessage, parseErr.Message)
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
					return
				}
				if n != tt.expectedN {
					t.Errorf("Expected n=%d, got n=%d", tt.expectedN, n)
				}
				if params.P.String() != tt.expectedP || params.Q.String() != tt.expectedQ {
					t.Errorf("Expected P=%s Q=%s, got P=%s Q=%s", tt.expectedP, tt.expectedQ, params.P, params.Q)
				}
				if params.X0.String() != tt.expectedX0 || params.X1.String() != tt.expectedX1 {
					t.Errorf("Expected x0=%s x1=%s, got x0=%s x1=%s", tt.expectedX0, tt.expectedX1, params.X0, params.X1)
				}
			}
		})
	}
}

// TestWithLogger verifies the WithLogger option.
func TestWithLogger(t *testing.T) {
	cfg := config.AppConfig{Port: "8080"}

	// Test with nil logger (should not change default)
	server := NewServer(cfg, WithLogger(nil))
	if server.logger == nil {
		t.Error("expected default logger to be set")
	}

	// Test with custom standard logger using WithStdLogger
	customLogger := log.New(io.Discard, "[CUSTOM] ", 0)
	server = NewServer(cfg, WithStdLogger(customLogger))
	if server.logger == nil {
		t.Error("expected custom logger to be set")
	}
}

// TestWithService verifies the WithService option.
func TestWithService(t *testing.T) {
	cfg := config.AppConfig{Port: "8080"}

	// Test with nil service (should use default)
	server := NewServer(cfg, WithService(nil))
	if server.service == nil {
		t.Error("expected default service to be initialized")
	}

	// Test with custom service
	customService := &mockService{}
	server = NewServer(cfg, WithService(customService))
	if server.service != customService {
		t.Error("expected custom service to be set")
	}
}

// TestWithTimeouts verifies the WithTimeouts option.
func TestWithTimeouts(t *testing.T) {
	cfg := config.AppConfig{Port: "8080"}

	customTimeouts := Timeouts{
		RequestTimeout:  10 * time.Minute,
		ShutdownTimeout: 60 * time.Second,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    15 * time.Minute,
		IdleTimeout:     5 * time.Minute,
	}

	server := NewServer(cfg, WithTimeouts(customTimeouts))
	if server.timeouts.RequestTimeout != customTimeouts.RequestTimeout {
		t.Errorf("expected RequestTimeout=%v, got %v", customTimeouts.RequestTimeout, server.timeouts.RequestTimeout)
	}
	if server.timeouts.ShutdownTimeout != customTimeouts.ShutdownTimeout {
		t.Errorf("expected ShutdownTimeout=%v, got %v", customTimeouts.ShutdownTimeout, server.timeouts.ShutdownTimeout)
	}
	if server.httpServer.ReadTimeout != customTimeouts.ReadTimeout {
		t.Errorf("expected ReadTimeout=%v, got %v", customTimeouts.ReadTimeout, server.httpServer.ReadTimeout)
	}
}

// TestWithMaxN verifies the WithMaxN option.
func TestWithMaxN(t *testing.T) {
	cfg := config.AppConfig{Port: "8080"}

	server := NewServer(cfg, WithMaxN(1000))
	if server.securityConfig.MaxNValue != 1000 {
		t.Errorf("expected MaxN=1000, got %d", server.securityConfig.MaxNValue)
	}
}

// TestAnalyzeParseErrorMessage verifies the AnalyzeParseError.Error() method.
func TestAnalyzeParseErrorMessage(t *testing.T) {
	err := AnalyzeParseError{
		Message:    "test error message",
		StatusCode: http.StatusBadRequest,
	}

	if err.Error() != "test error message" {
		t.Errorf("expected 'test error message', got '%s'", err.Error())
	}
}

// TestBuildAnalyzeResponse verifies the response building helper function.
func TestBuildAnalyzeResponse(t *testing.T) {
	fib := recurrence.Analyze(recurrence.NewParamsFromInt64(1, -1, 0, 1), 10)

	tests := []struct {
		name          string
		analysis      recurrence.Analysis
		prefixLen     int
		duration      time.Duration
		err           error
		hasResult     bool
		expectedTerms int
		expectedError string
	}{
		{
			name:          "Successful analysis",
			analysis:      fib,
			prefixLen:     4,
			duration:      100 * time.Millisecond,
			hasResult:     true,
			expectedTerms: 4,
		},
		{
			name:          "Analysis with error",
			analysis:      recurrence.Analysis{},
			prefixLen:     4,
			duration:      50 * time.Millisecond,
			err:           errors.New("analysis failed"),
			hasResult:     false,
			expectedError: "analysis failed",
		},
		{
			name:          "Single term analysis",
			analysis:      recurrence.Analyze(recurrence.NewParamsFromInt64(1, -1, 0, 1), 0),
			prefixLen:     8,
			duration:      1 * time.Nanosecond,
			hasResult:     true,
			expectedTerms: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := buildAnalyzeResponse(tt.analysis, tt.prefixLen, tt.duration, tt.err)

			if resp.Duration != tt.duration.String() {
				t.Errorf("Expected Duration=%s, got Duration=%s", tt.duration.String(), resp.Duration)
			}

			if tt.hasResult {
				if resp.Result == nil {
					t.Fatal("Expected Result to be set, got nil")
				}
				if len(resp.Result.FirstTerms) != tt.expectedTerms {
					t.Errorf("Expected %d terms, got %d", tt.expectedTerms, len(resp.Result.FirstTerms))
				}
				if resp.Error != "" {
					t.Errorf("Expected no Error, got Error=%q", resp.Error)
				}
			} else {
				if resp.Result != nil {
					t.Error("Expected Result to be nil")
				}
				if resp.Error != tt.expectedError {
					t.Errorf("Expected Error=%q, got Error=%q", tt.expectedError, resp.Error)
				}
			}
		})
	}
}
