// Package report builds and persists the plain-text documents produced
// after a scan or a single analysis.
// This file contains the streaming writer, which appends each accepted
// combination to the report file as the scan finds it.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	apperrors "github.com/agbru/divseq/internal/errors"
	"github.com/agbru/divseq/internal/scan"
)

// StreamWriter is a scan.ResultSink that appends accepted results to a
// report file one at a time, syncing after every record so an external
// interruption loses at most the in-flight line. A streamed report is
// complete only once Finalize has written the closing summary; a file
// without the closing "Report complete." line was aborted mid-scan.
//
// The scan driver delivers results from a single goroutine, so
// StreamWriter performs no locking of its own.
type StreamWriter struct {
	path string
	file *os.File
}

// NewStreamWriter creates the report file at path, writes the report
// header and scan parameters, and syncs them to disk.
//
// Parameters:
//   - path: The report destination.
//   - req: The request about to be scanned, rendered into the header.
//
// Returns:
//   - *StreamWriter: The open writer, ready to accept results.
//   - error: A ReportError if the file could not be created or written.
func NewStreamWriter(path string, req scan.Request) (*StreamWriter, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, apperrors.NewReportError(path, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, apperrors.NewReportError(path, err)
	}

	sw := &StreamWriter{path: path, file: file}

	fmt.Fprintf(file, "%s\n", doubleRule)
	fmt.Fprintf(file, "DIVISIBILITY SEQUENCE SCAN REPORT (streamed)\n")
	fmt.Fprintf(file, "%s\n", doubleRule)
	fmt.Fprintf(file, "Generated: %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(file, "Scan mode: %s\n\n", req.Mode.Description())
	renderParameters(file, req)
	fmt.Fprintf(file, "%s\n", singleRule)
	fmt.Fprintf(file, "Accepted sequences (completion order):\n")
	if _, err := fmt.Fprintf(file, "%s\n", singleRule); err != nil {
		sw.Abort()
		return nil, apperrors.NewReportError(path, err)
	}
	if err := file.Sync(); err != nil {
		sw.Abort()
		return nil, apperrors.NewReportError(path, err)
	}
	return sw, nil
}

// Accept appends one accepted result and syncs the file before
// returning. Returning an error aborts the scan.
func (sw *StreamWriter) Accept(r scan.Result) error {
	if _, err := fmt.Fprintf(sw.file, "%s\n", FormatResultLine(r, true)); err != nil {
		return apperrors.NewReportError(sw.path, err)
	}
	if err := sw.file.Sync(); err != nil {
		return apperrors.NewReportError(sw.path, err)
	}
	return nil
}

// Finalize writes the breakdown and summary sections, marks the report
// complete, and closes the file. The writer cannot be used afterwards.
//
// Parameters:
//   - outcome: The completed scan outcome.
//
// Returns:
//   - error: A ReportError if the closing sections could not be written.
func (sw *StreamWriter) Finalize(outcome *scan.Outcome) error {
	sum := outcome.Summary

	fmt.Fprintf(sw.file, "\nBreakdown of accepted sequences:\n")
	fmt.Fprintf(sw.file, "  x0 = 0:   %d\n", sum.ZeroX0)
	fmt.Fprintf(sw.file, "  x0 != 0:  %d\n", sum.NonzeroX0)
	fmt.Fprintf(sw.file, "\nSummary:\n")
	fmt.Fprintf(sw.file, "  Combinations:        %d\n", sum.Combinations)
	fmt.Fprintf(sw.file, "  Scanned:             %d\n", sum.Scanned)
	fmt.Fprintf(sw.file, "  Skipped:             %d\n", sum.Skipped)
	fmt.Fprintf(sw.file, "  Divisibility:        %d\n", sum.DivisibilityCount)
	fmt.Fprintf(sw.file, "  Strong divisibility: %d\n", sum.StrongCount)
	fmt.Fprintf(sw.file, "  Duration:            %s\n", sum.Duration.Round(time.Millisecond))
	if _, err := fmt.Fprintf(sw.file, "\nReport complete.\n"); err != nil {
		sw.file.Close()
		sw.file = nil
		return apperrors.NewReportError(sw.path, err)
	}

	err := sw.file.Close()
	sw.file = nil
	if err != nil {
		return apperrors.NewReportError(sw.path, err)
	}
	return nil
}

// Abort closes and removes an unfinished stream file. It is safe to call
// after Finalize, where it does nothing.
func (sw *StreamWriter) Abort() {
	if sw.file == nil {
		return
	}
	sw.file.Close()
	sw.file = nil
	os.Remove(sw.path)
}

// Path returns the destination the writer was created with.
func (sw *StreamWriter) Path() string { return sw.path }
