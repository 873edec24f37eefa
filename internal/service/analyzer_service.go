package service

//go:generate mockgen -source=analyzer_service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"github.com/agbru/divseq/internal/recurrence"
)

var (
	// ErrMaxIndexExceeded is returned when the requested index exceeds the configured maximum limit.
	ErrMaxIndexExceeded = errors.New("maximum index exceeded")
)

var (
	analysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "divseq_analyses_total",
			Help: "The total number of sequence analyses processed",
		},
		[]string{"status"},
	)
	analysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "divseq_analysis_duration_seconds",
			Help: "The duration of sequence analyses in seconds",
		},
	)
)

// Service defines the interface for sequence analysis services.
// This abstraction enables dependency injection and easier testing/mocking.
type Service interface {
	// Analyze generates the sequence for the given parameters and checks its
	// divisibility properties.
	//
	// Parameters:
	//   - ctx: The context for cancellation.
	//   - params: The recurrence parameters (P, Q, x0, x1).
	//   - maxN: The largest index to generate and verify.
	//
	// Returns:
	//   - recurrence.Analysis: The full analysis result.
	//   - error: An error if validation fails or the context is cancelled.
	Analyze(ctx context.Context, params recurrence.Params, maxN int) (recurrence.Analysis, error)
}

// Analyzer handles the core logic for analyzing recurrence sequences.
// It centralizes index validation and wraps the pure analysis in the
// recurrence package with tracing and metrics.
// Implements the Service interface.
type Analyzer struct {
	maxN int
}

// Ensure Analyzer implements Service interface.
var _ Service = (*Analyzer)(nil)

// NewAnalyzer creates a new instance of Analyzer.
//
// Parameters:
//   - maxN: The maximum allowed analysis index (0 or negative for no limit).
func NewAnalyzer(maxN int) *Analyzer {
	return &Analyzer{maxN: maxN}
}

// Analyze validates the requested index against the configured cap and then
// runs the full analysis: term generation, the divisibility check, and the
// strong divisibility check.
//
// Parameters:
//   - ctx: The context for cancellation.
//   - params: The recurrence parameters (P, Q, x0, x1).
//   - maxN: The largest index to generate and verify.
//
// Returns:
//   - recurrence.Analysis: The full analysis result.
//   - error: An error if validation fails or the context is cancelled.
func (s *Analyzer) Analyze(ctx context.Context, params recurrence.Params, maxN int) (analysis recurrence.Analysis, err error) {
	// Validation
	if s.maxN > 0 && maxN > s.maxN {
		return recurrence.Analysis{}, ErrMaxIndexExceeded
	}

	tracer := otel.Tracer("divseq")
	ctx, span := tracer.Start(ctx, "Analyze")
	defer span.End()

	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		status := "success"
		if err != nil {
			status = "error"
		}
		analysesTotal.WithLabelValues(status).Inc()
		analysisDuration.Observe(duration)

		log.Debug().
			Str("params", params.String()).
			Int("max_n", maxN).
			Float64("duration", duration).
			Str("status", status).
			Msg("analysis completed")
	}()

	if err = ctx.Err(); err != nil {
		return recurrence.Analysis{}, err
	}

	return recurrence.Analyze(params, maxN), nil
}
