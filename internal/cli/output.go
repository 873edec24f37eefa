// Package cli provides output utilities for displaying analyses and scan results.
package cli

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/agbru/divseq/internal/recurrence"
	"github.com/agbru/divseq/internal/scan"
)

// bannerWidth is the width of the "=" and "-" rules framing analysis output.
const bannerWidth = 60

var (
	analysisRule   = strings.Repeat("=", bannerWidth)
	comparisonRule = strings.Repeat("-", bannerWidth)
)

// DisplayAnalysis prints the full evaluation of one parameter combination:
// the recurrence, its characteristic polynomial and discriminant, the
// generated terms, and both divisibility verdicts with counterexamples.
//
// Parameters:
//   - a: The analysis to display.
//   - out: The io.Writer for the output.
func DisplayAnalysis(a recurrence.Analysis, out io.Writer) {
	fmt.Fprintf(out, "%s\n", analysisRule)
	fmt.Fprintf(out, "%sSequence Analysis%s\n", ColorBold(), ColorReset())
	fmt.Fprintf(out, "%s\n", analysisRule)
	fmt.Fprintf(out, "Recurrence: %s%s%s\n", ColorMagenta(), a.Params.Equation(), ColorReset())
	fmt.Fprintf(out, "Initial terms: x(0) = %s%s%s, x(1) = %s%s%s\n",
		ColorCyan(), a.Params.X0.String(), ColorReset(),
		ColorCyan(), a.Params.X1.String(), ColorReset())
	fmt.Fprintf(out, "Characteristic polynomial: %s%s%s\n", ColorCyan(), a.Params.CharacteristicPolynomial(), ColorReset())
	fmt.Fprintf(out, "Discriminant: %s%s%s\n\n", ColorCyan(), a.Discriminant.String(), ColorReset())

	fmt.Fprintf(out, "Terms (0..%d):\n", a.Sequence.MaxIndex())
	for i, term := range a.Sequence {
		fmt.Fprintf(out, "  x(%d) = %s%s%s\n", i, ColorCyan(), formatTermValue(term.String()), ColorReset())
	}
	fmt.Fprintln(out)

	displayDivisibilityVerdict(a, out)
	displayStrongVerdict(a, out)
}

// DisplayCompanion prints the comparison banner followed by the analysis of
// the U-type companion sequence (same coefficients, initial terms 0 and 1).
//
// Parameters:
//   - companion: The companion analysis.
//   - out: The io.Writer for the output.
func DisplayCompanion(companion recurrence.Analysis, out io.Writer) {
	fmt.Fprintf(out, "\n%s\n", comparisonRule)
	fmt.Fprintf(out, "%sCOMPARISON: U-type sequence with same P, Q%s\n", ColorBold(), ColorReset())
	fmt.Fprintf(out, "%s\n", comparisonRule)
	DisplayAnalysis(companion, out)
}

// displayDivisibilityVerdict prints the plain divisibility outcome with the
// counterexample values when the property failed.
func displayDivisibilityVerdict(a recurrence.Analysis, out io.Writer) {
	if a.Divisibility.Satisfied {
		fmt.Fprintf(out, "%s✓ DIVISIBILITY PROPERTY: Satisfied (up to n = %d)%s\n",
			ColorGreen(), a.Sequence.MaxIndex(), ColorReset())
		return
	}

	ce := a.Divisibility.Counterexample
	fmt.Fprintf(out, "%s✗ DIVISIBILITY PROPERTY: FAILED%s\n", ColorRed(), ColorReset())
	fmt.Fprintf(out, "  Counterexample: %d | %d, but x(%d) = %s does not divide x(%d) = %s\n",
		ce.M, ce.N,
		ce.M, formatTermValue(a.Sequence[ce.M].String()),
		ce.N, formatTermValue(a.Sequence[ce.N].String()))
}

// displayStrongVerdict prints the strong divisibility outcome with the gcd
// values when the property failed.
func displayStrongVerdict(a recurrence.Analysis, out io.Writer) {
	if a.Strong.Satisfied {
		fmt.Fprintf(out, "%s✓ STRONG DIVISIBILITY: Satisfied (up to n = %d)%s\n",
			ColorGreen(), a.Sequence.MaxIndex(), ColorReset())
		return
	}

	ce := a.Strong.Counterexample
	g := indexGCD(ce.M, ce.N)
	fmt.Fprintf(out, "%s✗ STRONG DIVISIBILITY: FAILED%s\n", ColorRed(), ColorReset())
	fmt.Fprintf(out, "  Counterexample: gcd(x(%d), x(%d)) = %s, but x(gcd(%d, %d)) = x(%d) = %s\n",
		ce.M, ce.N, termGCD(a.Sequence[ce.M], a.Sequence[ce.N]).String(),
		ce.M, ce.N, g, formatTermValue(a.Sequence[g].String()))
}

// DisplayScanSummary prints the tallies of a finished scan.
//
// Parameters:
//   - outcome: The scan outcome to summarize.
//   - out: The io.Writer for the output.
func DisplayScanSummary(outcome *scan.Outcome, out io.Writer) {
	s := outcome.Summary
	fmt.Fprintf(out, "\n%s--- Scan Summary ---%s\n", ColorBold(), ColorReset())
	fmt.Fprintf(out, "Mode                  : %s%s%s\n", ColorCyan(), outcome.Mode.Description(), ColorReset())
	fmt.Fprintf(out, "Combinations          : %s%s%s\n", ColorCyan(), formatUint(s.Combinations), ColorReset())
	fmt.Fprintf(out, "Scanned               : %s%s%s\n", ColorCyan(), formatUint(s.Scanned), ColorReset())
	fmt.Fprintf(out, "Skipped               : %s%s%s\n", ColorYellow(), formatUint(s.Skipped), ColorReset())
	fmt.Fprintf(out, "Divisibility sequences: %s%s%s\n", ColorGreen(), formatUint(s.DivisibilityCount), ColorReset())
	fmt.Fprintf(out, "Strong divisibility   : %s%s%s\n", ColorGreen(), formatUint(s.StrongCount), ColorReset())
	fmt.Fprintf(out, "Accepted with x0 = 0  : %s%s%s\n", ColorCyan(), formatUint(s.ZeroX0), ColorReset())
	fmt.Fprintf(out, "Accepted with x0 != 0 : %s%s%s\n", ColorCyan(), formatUint(s.NonzeroX0), ColorReset())
	fmt.Fprintf(out, "Scan time             : %s%s%s\n", ColorGreen(), FormatExecutionDuration(s.Duration), ColorReset())
}

// DisplayScanResults lists the accepted combinations satisfying the plain
// divisibility property, flagging the ones that also passed the strong
// check. Unless verbose is set, the listing is capped at MaxListedResults
// and a tip points at the full report options.
//
// Parameters:
//   - outcome: The scan outcome.
//   - verbose: If true, lists every accepted combination regardless of count.
//   - out: The io.Writer for the output.
func DisplayScanResults(outcome *scan.Outcome, verbose bool, out io.Writer) {
	divisible := outcome.Divisible()

	fmt.Fprintf(out, "\n%sSequences satisfying divisibility (%d):%s\n", ColorBold(), len(divisible), ColorReset())
	if len(divisible) == 0 {
		fmt.Fprintln(out, "  (none)")
		return
	}

	for i, r := range divisible {
		if !verbose && i == MaxListedResults {
			fmt.Fprintf(out, "  ... and %d more (use %s-v%s to list all, or %s-o%s to write a report)\n",
				len(divisible)-MaxListedResults, ColorYellow(), ColorReset(), ColorYellow(), ColorReset())
			return
		}
		fmt.Fprintln(out, FormatScanResultLine(r))
	}
}

// FormatScanResultLine renders one accepted combination as a single colored
// line with the parameters, discriminant, and retained leading terms.
//
// Parameters:
//   - r: The result to render.
//
// Returns:
//   - string: The formatted line.
func FormatScanResultLine(r scan.Result) string {
	line := fmt.Sprintf("  P=%s%-4s%s Q=%s%-4s%s x0=%s%-4s%s x1=%s%-4s%s disc=%s%-6s%s terms: %s",
		ColorCyan(), r.Params.P.String(), ColorReset(),
		ColorCyan(), r.Params.Q.String(), ColorReset(),
		ColorCyan(), r.Params.X0.String(), ColorReset(),
		ColorCyan(), r.Params.X1.String(), ColorReset(),
		ColorCyan(), r.Discriminant.String(), ColorReset(),
		strings.Join(r.FirstTerms.Strings(), ", "))
	if r.Strong.Satisfied {
		line += "  " + ColorGreen() + "[strong]" + ColorReset()
	}
	return line
}

// DisplayQuietAnalysis outputs an analysis verdict in quiet mode, as a
// single machine-readable line.
//
// Parameters:
//   - out: The output writer.
//   - a: The analysis.
func DisplayQuietAnalysis(out io.Writer, a recurrence.Analysis) {
	fmt.Fprintf(out, "divisibility=%t strong=%t\n", a.Divisibility.Satisfied, a.Strong.Satisfied)
}

// DisplayQuietScan outputs accepted scan results in quiet mode, one
// whitespace-separated line per result for scripting.
//
// Parameters:
//   - out: The output writer.
//   - outcome: The scan outcome.
func DisplayQuietScan(out io.Writer, outcome *scan.Outcome) {
	for _, r := range outcome.Accepted {
		props := make([]string, 0, 2)
		if r.Divisibility.Satisfied {
			props = append(props, "divisibility")
		}
		if r.Strong.Satisfied {
			props = append(props, "strong")
		}
		fmt.Fprintf(out, "%s %s %s %s %s\n",
			r.Params.P, r.Params.Q, r.Params.X0, r.Params.X1, strings.Join(props, ","))
	}
}

// formatTermValue truncates very long term values for terminal display,
// keeping the leading and trailing digits.
func formatTermValue(s string) string {
	if len(s) <= TermTruncationLimit {
		return s
	}
	return s[:DisplayEdges] + "..." + s[len(s)-DisplayEdges:]
}

// formatUint renders an unsigned counter with thousand separators.
func formatUint(v uint64) string {
	return formatNumberString(fmt.Sprintf("%d", v))
}

// indexGCD returns the greatest common divisor of two indices.
func indexGCD(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// termGCD returns gcd(|x|, |y|) without mutating the inputs.
func termGCD(x, y *big.Int) *big.Int {
	ax := new(big.Int).Abs(x)
	ay := new(big.Int).Abs(y)
	return new(big.Int).GCD(nil, nil, ax, ay)
}
