package server

import (
	"github.com/agbru/divseq/pkg/models"
)

// Response represents the standardized JSON response for an analysis request.
type Response struct {
	// Result is the full analysis record. It is omitted if an error occurred.
	Result *models.SequenceRecord `json:"result,omitempty"`
	// Duration is the formatted execution time string.
	Duration string `json:"duration"`
	// Error contains the error message if the analysis failed.
	Error string `json:"error,omitempty"`
}

// ErrorResponse represents the standardized JSON response for an API error.
type ErrorResponse struct {
	// Error is the short error code or status text.
	Error string `json:"error"`
	// Message is a descriptive error message.
	Message string `json:"message,omitempty"`
}

// AnalyzeParseError represents a parameter parsing error with HTTP status.
type AnalyzeParseError struct {
	Message    string
	StatusCode int
}

// Error implements the error interface.
func (e AnalyzeParseError) Error() string {
	return e.Message
}
