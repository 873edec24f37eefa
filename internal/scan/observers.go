// Package scan drives the exploration of recurrence parameter spaces.
// This file contains concrete observer implementations for the Observer pattern.
package scan

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// ─────────────────────────────────────────────────────────────────────────────
// Channel Observer
// ─────────────────────────────────────────────────────────────────────────────

// ChannelObserver adapts the Observer pattern to channel-based
// communication, feeding the terminal progress display.
type ChannelObserver struct {
	channel chan<- ProgressUpdate
}

// NewChannelObserver creates an observer that sends updates to a channel.
// The channel should have sufficient buffer capacity to avoid blocking.
//
// Parameters:
//   - ch: The channel to send progress updates to. If nil, updates are discarded.
//
// Returns:
//   - *ChannelObserver: A new observer that forwards to the channel.
func NewChannelObserver(ch chan<- ProgressUpdate) *ChannelObserver {
	return &ChannelObserver{channel: ch}
}

// Update implements ProgressObserver by sending to the channel.
// Uses non-blocking send to avoid deadlocks when the channel is full.
func (o *ChannelObserver) Update(update ProgressUpdate) {
	if o.channel == nil {
		return
	}

	if update.Value > 1.0 {
		update.Value = 1.0
	}

	// Non-blocking send to avoid deadlocks
	select {
	case o.channel <- update:
	default:
		// Channel full, drop update (UI will catch up on next update)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Logging Observer
// ─────────────────────────────────────────────────────────────────────────────

// LoggingObserver logs progress updates using zerolog.
// It throttles logging based on a threshold to avoid log spam.
type LoggingObserver struct {
	logger    zerolog.Logger
	threshold float64 // Minimum progress change to log
	lastLog   float64
	mu        sync.Mutex
}

// NewLoggingObserver creates an observer that logs progress.
// It only logs when progress changes by at least the threshold amount.
//
// Parameters:
//   - logger: The zerolog logger to use.
//   - threshold: Minimum progress change to trigger a log (e.g., 0.1 for 10%).
//
// Returns:
//   - *LoggingObserver: A new observer that logs to zerolog.
func NewLoggingObserver(logger zerolog.Logger, threshold float64) *LoggingObserver {
	if threshold <= 0 {
		threshold = 0.1 // Default to 10%
	}
	return &LoggingObserver{
		logger:    logger,
		threshold: threshold,
	}
}

// Update implements ProgressObserver by logging significant progress changes.
func (o *LoggingObserver) Update(update ProgressUpdate) {
	o.mu.Lock()
	defer o.mu.Unlock()

	// Log at boundaries or significant changes
	shouldLog := update.Value >= 1.0 ||
		o.lastLog == 0 && update.Value > 0 ||
		update.Value-o.lastLog >= o.threshold

	if shouldLog {
		o.logger.Debug().
			Uint64("completed", update.Completed).
			Uint64("total", update.Total).
			Str("percent", fmt.Sprintf("%.1f%%", update.Value*100)).
			Msg("scan progress")
		o.lastLog = update.Value
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Metrics Observer (Prometheus)
// ─────────────────────────────────────────────────────────────────────────────

var (
	// scanProgressGauge tracks the progress of the current scan.
	// Registered once globally to avoid duplicate registration errors.
	scanProgressGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "divseq_scan_progress",
			Help: "Progress of the current parameter scan (0.0 to 1.0)",
		},
	)
)

// MetricsObserver exports progress to Prometheus.
// It updates a gauge metric with the current progress value.
type MetricsObserver struct {
	gauge prometheus.Gauge
}

// NewMetricsObserver creates an observer that updates Prometheus metrics.
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{
		gauge: scanProgressGauge,
	}
}

// Update implements ProgressObserver by updating the Prometheus gauge.
func (o *MetricsObserver) Update(update ProgressUpdate) {
	o.gauge.Set(update.Value)
}

// ResetMetrics zeroes the progress gauge.
// This should be called at the start of a new scan.
func (o *MetricsObserver) ResetMetrics() {
	o.gauge.Set(0)
}

// ─────────────────────────────────────────────────────────────────────────────
// No-Op Observer (Null Object Pattern)
// ─────────────────────────────────────────────────────────────────────────────

// NoOpObserver is a null object that discards all progress updates.
// Useful for testing or when progress tracking is not needed.
type NoOpObserver struct{}

// NewNoOpObserver creates a no-op observer that discards updates.
func NewNoOpObserver() *NoOpObserver {
	return &NoOpObserver{}
}

// Update implements ProgressObserver by doing nothing.
func (o *NoOpObserver) Update(update ProgressUpdate) {
	// Intentionally empty - Null Object pattern
}
