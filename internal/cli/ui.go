// The cli package provides functions for building a command-line interface (CLI)
// for the divisibility sequence explorer. It handles the asynchronous display
// of scan progress and formats analyses and scan results for a clear and
// readable presentation.
package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/agbru/divseq/internal/scan"
	"github.com/agbru/divseq/internal/ui"
	"github.com/briandowns/spinner"
)

// FormatExecutionDuration formats a time.Duration for display.
// It shows microseconds for durations less than a millisecond, milliseconds for
// durations less than a second, and the default string representation otherwise.
// This approach provides a more human-readable output for short durations.
//
// Parameters:
//   - d: The duration to format.
//
// Returns:
//   - string: A formatted string representing the duration.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

const (
	// TermTruncationLimit is the digit threshold from which a sequence term is
	// truncated in standard output to avoid cluttering the terminal.
	TermTruncationLimit = 100
	// DisplayEdges specifies the number of digits to display at the beginning
	// and end of a truncated term.
	DisplayEdges = 25
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	// Optimized to 200ms to reduce updates and improve performance.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
	// MaxListedResults caps how many accepted combinations are listed on the
	// terminal before the output switches to a summary tip.
	MaxListedResults = 20
)

// Color functions return ANSI escape codes from the current theme.
// These provide backward compatibility while allowing theme switching.
// They delegate to the ui package to reduce coupling.

// ColorReset returns the reset escape code from the current theme.
func ColorReset() string { return ui.GetCurrentTheme().Reset }

// ColorRed returns the error color from the current theme.
func ColorRed() string { return ui.GetCurrentTheme().Error }

// ColorGreen returns the success color from the current theme.
func ColorGreen() string { return ui.GetCurrentTheme().Success }

// ColorYellow returns the warning color from the current theme.
func ColorYellow() string { return ui.GetCurrentTheme().Warning }

// ColorBlue returns the primary color from the current theme.
func ColorBlue() string { return ui.GetCurrentTheme().Primary }

// ColorMagenta returns the info color from the current theme.
func ColorMagenta() string { return ui.GetCurrentTheme().Info }

// ColorCyan returns the secondary color from the current theme.
func ColorCyan() string { return ui.GetCurrentTheme().Secondary }

// ColorBold returns the bold escape code from the current theme.
func ColorBold() string { return ui.GetCurrentTheme().Bold }

// Spinner is an interface that abstracts the behavior of a terminal spinner.
// This allows for the decoupling of the `DisplayProgress` function from a
// specific spinner implementation, facilitating easier testing and maintenance.
// It defines the essential controls for a spinner: starting, stopping, and
// updating its status message.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	//
	// Parameters:
	//   - suffix: The text string to display.
	UpdateSuffix(suffix string)
}

// realSpinner is a wrapper for the `spinner.Spinner` that implements the
// `Spinner` interface. This adapter allows the `spinner` library to be used
// within the application's CLI framework.
type realSpinner struct {
	s *spinner.Spinner
}

// Start begins the spinner animation.
func (rs *realSpinner) Start() {
	rs.s.Start()
}

// Stop halts the spinner animation.
func (rs *realSpinner) Stop() {
	rs.s.Stop()
}

// UpdateSuffix sets the text that is displayed after the spinner.
//
// Parameters:
//   - suffix: The string to display.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Suffix = suffix
}

var newSpinner = func(options ...spinner.Option) Spinner {
	// Using the same interval as ProgressRefreshRate to synchronize
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// ProgressState holds the most recent progress report of a running scan.
// The scan loop emits updates as combinations complete; the state keeps the
// latest snapshot so the refresh ticker always has current numbers to render.
type ProgressState struct {
	completed uint64
	total     uint64
	value     float64
}

// NewProgressState creates an empty progress state.
//
// Returns:
//   - *ProgressState: A pointer to the new progress state object.
func NewProgressState() *ProgressState {
	return &ProgressState{}
}

// Update records a new progress snapshot. Values above 1.0 are clamped so a
// late or duplicated report cannot push the bar past completion.
//
// Parameters:
//   - update: The progress report from the scan loop.
func (ps *ProgressState) Update(update scan.ProgressUpdate) {
	if update.Value > 1.0 {
		update.Value = 1.0
	}
	if update.Value < 0.0 {
		update.Value = 0.0
	}
	ps.completed = update.Completed
	ps.total = update.Total
	ps.value = update.Value
}

// Fraction returns the latest normalized progress (0.0 to 1.0).
func (ps *ProgressState) Fraction() float64 {
	return ps.value
}

// Counts returns the latest completed and total combination counts.
func (ps *ProgressState) Counts() (completed, total uint64) {
	return ps.completed, ps.total
}

// progressBar generates a string representing a textual progress bar.
//
// Parameters:
//   - progress: The normalized progress value (0.0 to 1.0).
//   - length: The total character width of the progress bar.
//
// Returns:
//   - string: A string representation of the progress bar.
func progressBar(progress float64, length int) string {
	if progress > 1.0 {
		progress = 1.0
	}
	if progress < 0.0 {
		progress = 0.0
	}
	count := int(progress * float64(length))
	var builder strings.Builder
	builder.Grow(length)
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}

// DisplayProgress manages the asynchronous display of a spinner and progress bar.
// It is designed to run in a dedicated goroutine and orchestrates the UI updates
// for the duration of a scan.
//
// The function's responsibilities include:
//   - Receiving progress updates from a channel.
//   - Tracking the latest completed/total counts.
//   - Calculating and displaying the estimated time remaining (ETA).
//   - Periodically refreshing the spinner and progress bar.
//   - Gracefully shutting down when the progress channel is closed.
//
// Parameters:
//   - wg: A WaitGroup to signal when the display routine is complete.
//   - progressChan: The channel receiving progress updates.
//   - out: The io.Writer to which the progress bar is rendered.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan scan.ProgressUpdate, out io.Writer) {
	defer wg.Done()

	state := NewProgressWithETA()
	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	spinnerStopped := false
	defer func() {
		if !spinnerStopped {
			s.Stop()
		}
	}()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				// Stop the spinner first to free the line
				if !spinnerStopped {
					s.Stop()
					spinnerStopped = true
				}

				// Display final 100% progress permanently by printing directly to output
				bar := progressBar(1.0, ProgressBarWidth)
				fmt.Fprintf(out, "Progress: %6.2f%% [%s] ETA: %s\n", 100.0, bar, "< 1s")
				return
			}
			state.UpdateWithETA(update)
		case <-ticker.C:
			progress := state.Fraction()
			eta := state.GetETA()
			bar := progressBar(progress, ProgressBarWidth)
			completed, total := state.Counts()
			etaStr := FormatETA(eta)
			s.UpdateSuffix(fmt.Sprintf(" Progress: %6.2f%% [%s] %s/%s ETA: %s",
				progress*100, bar,
				formatNumberString(fmt.Sprintf("%d", completed)),
				formatNumberString(fmt.Sprintf("%d", total)),
				etaStr))
		}
	}
}

// formatNumberString inserts thousand separators into a numeric string.
// Optimized to reduce memory allocations
//
// Parameters:
//   - s: The numeric string to format.
//
// Returns:
//   - string: The formatted string with comma separators.
func formatNumberString(s string) string {
	if len(s) == 0 {
		return ""
	}
	prefix := ""
	if s[0] == '-' {
		prefix = "-"
		s = s[1:]
	}
	n := len(s)
	if n <= 3 {
		return prefix + s
	}

	// Precise calculation of the required capacity to avoid reallocations
	numSeparators := (n - 1) / 3
	capacity := len(prefix) + n + numSeparators
	var builder strings.Builder
	builder.Grow(capacity)
	builder.WriteString(prefix)

	firstGroupLen := n % 3
	if firstGroupLen == 0 {
		firstGroupLen = 3
	}
	builder.WriteString(s[:firstGroupLen])

	// Optimized loop with fewer function calls
	for i := firstGroupLen; i < n; i += 3 {
		builder.WriteByte(',')
		builder.WriteString(s[i : i+3])
	}
	return builder.String()
}
