package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/agbru/divseq/internal/config"
	"github.com/agbru/divseq/internal/recurrence"
	"github.com/agbru/divseq/internal/service"
	"github.com/agbru/divseq/pkg/models"
)

// handleHealth responds to health check requests.
// It returns a 200 OK status with a JSON payload indicating the service is healthy.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The HTTP request.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	response := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	}

	s.writeJSONResponse(w, http.StatusOK, response)
}

// handleAnalyze processes requests to analyze one recurrence sequence.
// It parses the coefficients 'p' and 'q', the initial terms 'x0' and 'x1',
// and the index bound 'n', runs both divisibility checks over the generated
// terms, and returns the record in JSON format.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The HTTP request.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// Parse and validate parameters using helper
	params, n, err := parseAnalyzeParams(r)
	if err != nil {
		if parseErr, ok := err.(AnalyzeParseError); ok {
			s.writeErrorResponse(w, parseErr.StatusCode, parseErr.Message)
		} else {
			s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	// Create a context with timeout for the analysis
	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	// Perform the analysis
	start := time.Now()
	analysis, err := s.service.Analyze(ctx, params, n)
	duration := time.Since(start)

	// Handle max index exceeded error
	if errors.Is(err, service.ErrMaxIndexExceeded) {
		s.writeErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("Value of 'n' exceeds maximum allowed (%d). This limit prevents resource exhaustion.", s.securityConfig.MaxNValue))
		return
	}

	// Build and send response using helper
	resp := buildAnalyzeResponse(analysis, s.prefixLen(), duration, err)
	s.writeJSONResponse(w, http.StatusOK, resp)
}

// prefixLen returns how many leading terms analysis responses carry.
func (s *Server) prefixLen() int {
	if s.cfg.Terms > 0 {
		return s.cfg.Terms
	}
	return config.DefaultTerms
}

// handleTerms streams the terms of one recurrence sequence as NDJSON, one
// record per line from x(0) through x(n). It accepts the same query
// parameters as /analyze and flushes after every term, so clients can
// consume arbitrarily long prefixes without buffering the whole response.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The HTTP request.
func (s *Server) handleTerms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	params, n, err := parseAnalyzeParams(r)
	if err != nil {
		if parseErr, ok := err.(AnalyzeParseError); ok {
			s.writeErrorResponse(w, parseErr.StatusCode, parseErr.Message)
		} else {
			s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	if n > s.securityConfig.MaxNValue {
		s.writeErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("Value of 'n' exceeds maximum allowed (%d). This limit prevents resource exhaustion.", s.securityConfig.MaxNValue))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)
	gen := recurrence.NewTermGenerator(params)

	for i := 0; i <= n; i++ {
		term, err := gen.Next(ctx)
		if err != nil {
			// The status line is already out, so the stream just ends short.
			s.logger.Printf("Term stream aborted at index %d: %v", i, err)
			return
		}
		if err := enc.Encode(models.TermRecord{Index: i, Term: term.String()}); err != nil {
			s.logger.Printf("Term stream write failed at index %d: %v", i, err)
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// parseAnalyzeParams extracts and validates the analysis parameters from the request.
// The recurrence parameters default to the Fibonacci sequence when absent;
// the index bound 'n' is required.
//
// Parameters:
//   - r: The HTTP request containing query parameters.
//
// Returns:
//   - params: The parsed recurrence parameters.
//   - n: The parsed index bound.
//   - err: An AnalyzeParseError if validation fails, nil otherwise.
func parseAnalyzeParams(r *http.Request) (params recurrence.Params, n int, err error) {
	nStr := r.URL.Query().Get("n")
	if nStr == "" {
		return recurrence.Params{}, 0, AnalyzeParseError{
			Message:    "Missing 'n' parameter",
			StatusCode: http.StatusBadRequest,
		}
	}

	n, parseErr := strconv.Atoi(nStr)
	if parseErr != nil || n < 0 {
		return recurrence.Params{}, 0, AnalyzeParseError{
			Message:    "Invalid 'n' parameter: must be a non-negative integer",
			StatusCode: http.StatusBadRequest,
		}
	}

	p, err := queryInt64(r, "p", 1)
	if err != nil {
		return recurrence.Params{}, 0, err
	}
	q, err := queryInt64(r, "q", -1)
	if err != nil {
		return recurrence.Params{}, 0, err
	}
	x0, err := queryInt64(r, "x0", 0)
	if err != nil {
		return recurrence.Params{}, 0, err
	}
	x1, err := queryInt64(r, "x1", 1)
	if err != nil {
		return recurrence.Params{}, 0, err
	}

	return recurrence.NewParamsFromInt64(p, q, x0, x1), n, nil
}

// queryInt64 parses an optional int64 query parameter, returning def when
// the parameter is absent.
//
// Parameters:
//   - r: The HTTP request containing query parameters.
//   - name: The query parameter name.
//   - def: The value to return when the parameter is absent.
//
// Returns:
//   - int64: The parsed value.
//   - error: An AnalyzeParseError if the value is not an integer.
func queryInt64(r *http.Request, name string, def int64) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, AnalyzeParseError{
			Message:    fmt.Sprintf("Invalid '%s' parameter: must be an integer", name),
			StatusCode: http.StatusBadRequest,
		}
	}
	return v, nil
}

// buildAnalyzeResponse constructs the response struct for an analysis.
//
// Parameters:
//   - analysis: The analysis result (ignored if an error occurred).
//   - prefixLen: The number of leading terms the record carries.
//   - duration: The time taken for the analysis.
//   - err: Any error that occurred during the analysis.
//
// Returns:
//   - Response: The constructed response struct.
func buildAnalyzeResponse(analysis recurrence.Analysis, prefixLen int, duration time.Duration, err error) Response {
	resp := Response{
		Duration: duration.String(),
	}

	if err != nil {
		resp.Error = err.Error()
	} else {
		record := analysis.Record(prefixLen)
		resp.Result = &record
	}

	return resp
}

// writeJSONResponse helper function to write a JSON response with the correct content type.
//
// Parameters:
//   - w: The HTTP response writer.
//   - statusCode: The HTTP status code to write.
//   - data: The data to be encoded as JSON.
func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("Error encoding JSON response: %v", err)
	}
}

// writeErrorResponse helper function to write a standardized error response.
//
// Parameters:
//   - w: The HTTP response writer.
//   - statusCode: The HTTP status code to write.
//   - message: The error message to be included in the response body.
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	errResp := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	s.writeJSONResponse(w, statusCode, errResp)
}
