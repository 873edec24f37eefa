package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/divseq/internal/config"
	"github.com/agbru/divseq/internal/scan"
)

// PrintScanConfig displays the current execution configuration to the user.
// It shows the recurrence form, the tested index range, timeout, and
// environment details.
//
// Parameters:
//   - cfg: The application configuration.
//   - out: The writer for standard output.
func PrintScanConfig(cfg config.AppConfig, out io.Writer) {
	writeOut(out, "--- Scan Configuration ---\n")
	writeOut(out, "Recurrence form: %sx(n) = P*x(n-1) - Q*x(n-2)%s with a timeout of %s%s%s.\n",
		ColorMagenta(), ColorReset(), ColorYellow(), cfg.Timeout, ColorReset())
	writeOut(out, "Testing indices up to %sn = %d%s, keeping %s%d%s leading terms per result.\n",
		ColorCyan(), cfg.MaxN, ColorReset(), ColorCyan(), cfg.Terms, ColorReset())
	writeOut(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ColorCyan(), runtime.NumCPU(), ColorReset(), ColorCyan(), runtime.Version(), ColorReset())
}

// PrintScanMode displays the scan mode and worker configuration.
//
// Parameters:
//   - mode: The scan mode about to run.
//   - workers: The number of concurrent evaluators.
//   - out: The writer for standard output.
func PrintScanMode(mode scan.Mode, workers int, out io.Writer) {
	var modeDesc string
	if workers > 1 {
		modeDesc = fmt.Sprintf("%s with %s%d%s workers",
			mode.Description(), ColorGreen(), workers, ColorReset())
	} else {
		modeDesc = mode.Description()
	}
	writeOut(out, "Execution mode: %s.\n", modeDesc)
	writeOut(out, "\n--- Starting Scan ---\n")
}

// writeOut writes a formatted string to the output writer.
//
// Parameters:
//   - out: The destination writer.
//   - format: The format string (see fmt.Printf).
//   - a: Arguments for the format string.
func writeOut(out io.Writer, format string, a ...any) {
	fmt.Fprintf(out, format, a...)
}
