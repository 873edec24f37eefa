// Package report builds and persists the plain-text documents produced
// after a scan or a single analysis.
// This file contains the report renderers and the whole-file writer.
package report

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/agbru/divseq/internal/errors"
	"github.com/agbru/divseq/internal/recurrence"
	"github.com/agbru/divseq/internal/scan"
)

const bannerWidth = 60

var (
	doubleRule = strings.Repeat("=", bannerWidth)
	singleRule = strings.Repeat("-", bannerWidth)
)

// Render writes the full text report for a completed scan: header, scan
// parameters, both result lists, the x0 breakdown, and the final tally.
//
// Parameters:
//   - w: The destination writer.
//   - req: The request that produced the outcome.
//   - outcome: The completed scan outcome.
//
// Returns:
//   - error: The first write error, if any.
func Render(w io.Writer, req scan.Request, outcome *scan.Outcome) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s\n", doubleRule)
	fmt.Fprintf(bw, "DIVISIBILITY SEQUENCE SCAN REPORT\n")
	fmt.Fprintf(bw, "%s\n", doubleRule)
	fmt.Fprintf(bw, "Generated: %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(bw, "Scan mode: %s\n\n", outcome.Mode.Description())

	renderParameters(bw, req)

	divisible := outcome.Divisible()
	fmt.Fprintf(bw, "%s\n", singleRule)
	fmt.Fprintf(bw, "Sequences satisfying DIVISIBILITY: %d\n", len(divisible))
	fmt.Fprintf(bw, "%s\n", singleRule)
	renderResultList(bw, divisible, true)

	strong := outcome.StronglyDivisible()
	fmt.Fprintf(bw, "\n%s\n", singleRule)
	fmt.Fprintf(bw, "Sequences satisfying STRONG DIVISIBILITY: %d\n", len(strong))
	fmt.Fprintf(bw, "%s\n", singleRule)
	renderResultList(bw, strong, false)

	sum := outcome.Summary
	fmt.Fprintf(bw, "\nBreakdown of accepted sequences:\n")
	fmt.Fprintf(bw, "  x0 = 0:   %d\n", sum.ZeroX0)
	fmt.Fprintf(bw, "  x0 != 0:  %d\n", sum.NonzeroX0)

	fmt.Fprintf(bw, "\nSummary:\n")
	fmt.Fprintf(bw, "  Combinations:        %d\n", sum.Combinations)
	fmt.Fprintf(bw, "  Scanned:             %d\n", sum.Scanned)
	fmt.Fprintf(bw, "  Skipped:             %d\n", sum.Skipped)
	fmt.Fprintf(bw, "  Divisibility:        %d\n", sum.DivisibilityCount)
	fmt.Fprintf(bw, "  Strong divisibility: %d\n", sum.StrongCount)
	fmt.Fprintf(bw, "  Duration:            %s\n", sum.Duration.Round(time.Millisecond))

	fmt.Fprintf(bw, "\nReport complete.\n")
	return bw.Flush()
}

// renderParameters prints the fixed values and ranges the scan used,
// according to which dimensions the mode varies.
func renderParameters(w io.Writer, req scan.Request) {
	fmt.Fprintf(w, "Parameters:\n")
	if req.Mode.VariesCoefficients() {
		fmt.Fprintf(w, "  P:  %s\n", req.PRange)
		fmt.Fprintf(w, "  Q:  %s\n", req.QRange)
	} else {
		fmt.Fprintf(w, "  P:  %d\n", req.P)
		fmt.Fprintf(w, "  Q:  %d\n", req.Q)
	}
	if req.Mode.VariesInitialTerms() {
		fmt.Fprintf(w, "  x0: %s\n", req.X0Range)
		fmt.Fprintf(w, "  x1: %s\n", req.X1Range)
	} else {
		fmt.Fprintf(w, "  x0: %d\n", req.X0)
		fmt.Fprintf(w, "  x1: %d\n", req.X1)
	}
	fmt.Fprintf(w, "  Max index tested: %d\n\n", req.MaxN)
}

// renderResultList prints one line per result, or a placeholder when the
// list is empty. flagStrong appends a [strong] marker to results that
// also passed the strong check, used in the divisibility list.
func renderResultList(w io.Writer, results []scan.Result, flagStrong bool) {
	if len(results) == 0 {
		fmt.Fprintf(w, "  (none)\n")
		return
	}
	for _, r := range results {
		fmt.Fprintf(w, "%s\n", FormatResultLine(r, flagStrong))
	}
}

// FormatResultLine renders one accepted combination as a single report
// line: parameters, discriminant, and the retained term prefix.
//
// Parameters:
//   - r: The result to format.
//   - flagStrong: Append " [strong]" when the result passed both checks.
//
// Returns:
//   - string: The formatted line, without a trailing newline.
func FormatResultLine(r scan.Result, flagStrong bool) string {
	line := fmt.Sprintf("  P=%-4s Q=%-4s x0=%-4s x1=%-4s  disc=%-6s  terms: %s",
		r.Params.P, r.Params.Q, r.Params.X0, r.Params.X1,
		r.Discriminant, strings.Join(r.FirstTerms.Strings(), ", "))
	if flagStrong && r.Strong.Satisfied {
		line += "  [strong]"
	}
	return line
}

// RenderAnalysis writes the single-combination analysis document: the
// recurrence identity, every generated term, and both verdicts with
// counterexample values. The optional companion analysis is appended as
// a comparison section.
//
// Parameters:
//   - w: The destination writer.
//   - a: The analysis to render.
//   - companion: The U-type companion analysis, or nil to omit it.
//
// Returns:
//   - error: The first write error, if any.
func RenderAnalysis(w io.Writer, a recurrence.Analysis, companion *recurrence.Analysis) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s\n", doubleRule)
	fmt.Fprintf(bw, "DIVISIBILITY SEQUENCE ANALYSIS\n")
	fmt.Fprintf(bw, "%s\n", doubleRule)
	fmt.Fprintf(bw, "Generated: %s\n\n", time.Now().UTC().Format(time.RFC3339))

	renderAnalysisBody(bw, a)

	if companion != nil {
		fmt.Fprintf(bw, "\n%s\n", singleRule)
		fmt.Fprintf(bw, "COMPARISON: U-type sequence with same P, Q\n")
		fmt.Fprintf(bw, "%s\n", singleRule)
		renderAnalysisBody(bw, *companion)
	}

	fmt.Fprintf(bw, "\nReport complete.\n")
	return bw.Flush()
}

func renderAnalysisBody(w io.Writer, a recurrence.Analysis) {
	maxN := a.Sequence.MaxIndex()

	fmt.Fprintf(w, "Recurrence: %s\n", a.Params.Equation())
	fmt.Fprintf(w, "Initial terms: x(0) = %s, x(1) = %s\n", a.Params.X0, a.Params.X1)
	fmt.Fprintf(w, "Characteristic polynomial: %s\n", a.Params.CharacteristicPolynomial())
	fmt.Fprintf(w, "Discriminant: %s\n\n", a.Discriminant)

	fmt.Fprintf(w, "Terms (0..%d):\n", maxN)
	for i, term := range a.Sequence {
		fmt.Fprintf(w, "  x(%d) = %s\n", i, term)
	}
	fmt.Fprintf(w, "\n")

	if a.Divisibility.Satisfied {
		fmt.Fprintf(w, "Divisibility: satisfied (up to n = %d)\n", maxN)
	} else {
		pair := a.Divisibility.Counterexample
		fmt.Fprintf(w, "Divisibility: FAILED\n")
		fmt.Fprintf(w, "  Counterexample %s: x(%d) = %s does not divide x(%d) = %s\n",
			pair, pair.M, a.Sequence[pair.M], pair.N, a.Sequence[pair.N])
	}

	if a.Strong.Satisfied {
		fmt.Fprintf(w, "Strong divisibility: satisfied (up to n = %d)\n", maxN)
	} else {
		pair := a.Strong.Counterexample
		fmt.Fprintf(w, "Strong divisibility: FAILED\n")
		fmt.Fprintf(w, "  Counterexample %s: gcd(x(%d), x(%d)) = %s differs from x(gcd) = %s\n",
			pair, pair.M, pair.N,
			termGCD(a.Sequence[pair.M], a.Sequence[pair.N]),
			a.Sequence[gcdIndexOf(pair.M, pair.N)])
	}
}

// termGCD recomputes the non-negative gcd of two terms for display.
func termGCD(a, b *big.Int) *big.Int {
	am := new(big.Int).Abs(a)
	bm := new(big.Int).Abs(b)
	return new(big.Int).GCD(nil, nil, am, bm)
}

// gcdIndexOf is the index-level gcd of a counterexample pair.
func gcdIndexOf(m, n int) int {
	for n != 0 {
		m, n = n, m%n
	}
	return m
}

// WriteFile renders the scan report to path, creating parent directories
// as needed. A failed write never leaves a partial file behind: the file
// is removed before the error is returned.
//
// Parameters:
//   - path: The report destination.
//   - req: The request that produced the outcome.
//   - outcome: The completed scan outcome.
//
// Returns:
//   - error: A ReportError describing the failure, or nil.
func WriteFile(path string, req scan.Request, outcome *scan.Outcome) error {
	return writeReportFile(path, func(f *os.File) error {
		return Render(f, req, outcome)
	})
}

// WriteAnalysisFile renders the single-combination analysis to path with
// the same partial-file guarantees as WriteFile.
//
// Parameters:
//   - path: The report destination.
//   - a: The analysis to render.
//   - companion: The U-type companion analysis, or nil to omit it.
//
// Returns:
//   - error: A ReportError describing the failure, or nil.
func WriteAnalysisFile(path string, a recurrence.Analysis, companion *recurrence.Analysis) error {
	return writeReportFile(path, func(f *os.File) error {
		return RenderAnalysis(f, a, companion)
	})
}

// writeReportFile creates path, runs render against it, and removes the
// file again if any step fails.
func writeReportFile(path string, render func(*os.File) error) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.NewReportError(path, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewReportError(path, err)
	}

	if err := render(file); err != nil {
		file.Close()
		os.Remove(path)
		return apperrors.NewReportError(path, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return apperrors.NewReportError(path, err)
	}
	return nil
}
