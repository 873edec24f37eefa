// Package cli provides the interactive prompt session for exploring
// recurrences without memorizing flags.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/divseq/internal/errors"
	"github.com/agbru/divseq/internal/recurrence"
	"github.com/agbru/divseq/internal/scan"
)

// SessionConfig holds configuration for the interactive session.
type SessionConfig struct {
	// MaxNDefault is the max index used when the prompt is left empty.
	MaxNDefault int
	// Timeout is the maximum duration for a scan started from the prompt.
	Timeout time.Duration
	// Workers is the number of concurrent evaluators for prompted scans.
	Workers int
	// PrefixLen is how many leading terms each scan result retains.
	PrefixLen int
	// NoCompanion suppresses the U-type comparison after a single analysis.
	NoCompanion bool
}

// Session represents an interactive parameter-entry session. It prompts for
// a mode and the required integers, then runs the analysis or scan and
// renders the outcome to its output writer.
type Session struct {
	config SessionConfig
	in     io.Reader
	out    io.Writer
}

// NewSession creates a new interactive session reading from stdin and
// writing to stdout.
//
// Parameters:
//   - config: The session configuration.
//
// Returns:
//   - *Session: A new session instance.
func NewSession(config SessionConfig) *Session {
	if config.MaxNDefault <= 0 {
		config.MaxNDefault = 20
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.PrefixLen <= 0 {
		config.PrefixLen = 8
	}
	return &Session{
		config: config,
		in:     os.Stdin,
		out:    os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (s *Session) SetInput(in io.Reader) {
	s.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (s *Session) SetOutput(out io.Writer) {
	s.out = out
}

// Run executes one interactive round: banner, mode selection, parameter
// prompts, then the analysis or scan. Non-integer input aborts with a
// configuration error so the caller can map it to the config exit code.
//
// Parameters:
//   - ctx: The context bounding any scan started from the prompt.
//
// Returns:
//   - error: A configuration error on invalid input, or a scan error.
func (s *Session) Run(ctx context.Context) error {
	s.printBanner()

	reader := bufio.NewReader(s.in)

	mode, err := s.readMode(reader)
	if err != nil {
		return err
	}

	switch mode {
	case scan.ModeSingle:
		return s.runSingle(reader)
	default:
		return s.runScan(ctx, reader, mode)
	}
}

// printBanner displays the session welcome banner.
func (s *Session) printBanner() {
	fmt.Fprintf(s.out, "\n%s\n", analysisRule)
	fmt.Fprintf(s.out, "%sDIVISIBILITY SEQUENCE TESTER%s\n", ColorBold(), ColorReset())
	fmt.Fprintf(s.out, "%s\n\n", analysisRule)
	fmt.Fprintf(s.out, "Recurrence form: %sx(n) = P*x(n-1) - Q*x(n-2)%s\n", ColorMagenta(), ColorReset())
	fmt.Fprintf(s.out, "(For the Fibonacci recurrence x(n) = x(n-1) + x(n-2), use P=1, Q=-1)\n\n")
}

// readMode prints the mode menu and reads the selection. An empty line
// selects single analysis.
func (s *Session) readMode(reader *bufio.Reader) (scan.Mode, error) {
	fmt.Fprintf(s.out, "%sSelect what to explore:%s\n", ColorBold(), ColorReset())
	fmt.Fprintf(s.out, "  %s1%s) Analyze a single recurrence\n", ColorYellow(), ColorReset())
	fmt.Fprintf(s.out, "  %s2%s) Scan coefficients P and Q\n", ColorYellow(), ColorReset())
	fmt.Fprintf(s.out, "  %s3%s) Scan initial terms x0 and x1\n", ColorYellow(), ColorReset())
	fmt.Fprintf(s.out, "  %s4%s) Scan all four parameters\n", ColorYellow(), ColorReset())

	line, err := s.readLine(reader, "Mode [1]: ")
	if err != nil {
		return "", err
	}
	switch line {
	case "", "1":
		return scan.ModeSingle, nil
	case "2":
		return scan.ModePQ, nil
	case "3":
		return scan.ModeInit, nil
	case "4":
		return scan.ModeAll, nil
	default:
		fmt.Fprintf(s.out, "%sInvalid selection. Please enter 1, 2, 3, or 4.%s\n", ColorRed(), ColorReset())
		return "", apperrors.NewConfigError("invalid mode selection %q", line)
	}
}

// runSingle prompts for one parameter combination, analyzes it, and prints
// the result followed by the U-type companion comparison.
func (s *Session) runSingle(reader *bufio.Reader) error {
	p, err := s.readInt(reader, "Enter P: ")
	if err != nil {
		return err
	}
	q, err := s.readInt(reader, "Enter Q: ")
	if err != nil {
		return err
	}
	x0, err := s.readInt(reader, "Enter x0: ")
	if err != nil {
		return err
	}
	x1, err := s.readInt(reader, "Enter x1: ")
	if err != nil {
		return err
	}
	maxN, err := s.readMaxN(reader)
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out)
	params := recurrence.NewParamsFromInt64(p, q, x0, x1)
	analysis := recurrence.Analyze(params, maxN)
	DisplayAnalysis(analysis, s.out)

	if !s.config.NoCompanion && !params.IsUType() {
		DisplayCompanion(analysis.Companion(), s.out)
	}
	return nil
}

// runScan prompts for the fixed values and ranges the mode requires, then
// runs the scan and prints its summary and accepted results.
func (s *Session) runScan(ctx context.Context, reader *bufio.Reader, mode scan.Mode) error {
	req := scan.Request{
		Mode:      mode,
		MaxN:      s.config.MaxNDefault,
		PrefixLen: s.config.PrefixLen,
		Workers:   s.config.Workers,
	}

	var err error
	if !mode.VariesCoefficients() {
		if req.P, err = s.readInt(reader, "Enter P: "); err != nil {
			return err
		}
		if req.Q, err = s.readInt(reader, "Enter Q: "); err != nil {
			return err
		}
	} else {
		if req.PRange, err = s.readRange(reader, "P"); err != nil {
			return err
		}
		if req.QRange, err = s.readRange(reader, "Q"); err != nil {
			return err
		}
	}

	if !mode.VariesInitialTerms() {
		if req.X0, err = s.readInt(reader, "Enter x0: "); err != nil {
			return err
		}
		if req.X1, err = s.readInt(reader, "Enter x1: "); err != nil {
			return err
		}
	} else {
		if req.X0Range, err = s.readRange(reader, "x0"); err != nil {
			return err
		}
		if req.X1Range, err = s.readRange(reader, "x1"); err != nil {
			return err
		}
	}

	if req.MaxN, err = s.readMaxN(reader); err != nil {
		return err
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	fmt.Fprintln(s.out)
	PrintScanMode(mode, req.Workers, s.out)

	outcome, err := scan.Run(ctx, req, nil, nil)
	if err != nil {
		return apperrors.ScanError{Cause: err}
	}

	DisplayScanSummary(outcome, s.out)
	DisplayScanResults(outcome, false, s.out)
	return nil
}

// readRange prompts for the inclusive bounds of one parameter dimension.
func (s *Session) readRange(reader *bufio.Reader, name string) (scan.Range, error) {
	min, err := s.readInt(reader, fmt.Sprintf("Enter %s min: ", name))
	if err != nil {
		return scan.Range{}, err
	}
	max, err := s.readInt(reader, fmt.Sprintf("Enter %s max: ", name))
	if err != nil {
		return scan.Range{}, err
	}
	if max < min {
		fmt.Fprintf(s.out, "%sInvalid range: min exceeds max.%s\n", ColorRed(), ColorReset())
		return scan.Range{}, apperrors.NewConfigError("invalid %s range [%d, %d]: min exceeds max", name, min, max)
	}
	return scan.Range{Min: min, Max: max}, nil
}

// readMaxN prompts for the maximum index, defaulting when left empty.
func (s *Session) readMaxN(reader *bufio.Reader) (int, error) {
	prompt := fmt.Sprintf("Enter max index to test (default %d): ", s.config.MaxNDefault)
	line, err := s.readLine(reader, prompt)
	if err != nil {
		return 0, err
	}
	if line == "" {
		return s.config.MaxNDefault, nil
	}
	v, perr := strconv.Atoi(line)
	if perr != nil || v < 0 {
		fmt.Fprintf(s.out, "%sInvalid input. Please enter integers.%s\n", ColorRed(), ColorReset())
		return 0, apperrors.NewConfigError("invalid max index %q", line)
	}
	return v, nil
}

// readInt prompts for a required integer.
func (s *Session) readInt(reader *bufio.Reader, prompt string) (int64, error) {
	line, err := s.readLine(reader, prompt)
	if err != nil {
		return 0, err
	}
	v, perr := strconv.ParseInt(line, 10, 64)
	if perr != nil {
		fmt.Fprintf(s.out, "%sInvalid input. Please enter integers.%s\n", ColorRed(), ColorReset())
		return 0, apperrors.NewConfigError("invalid input %q: an integer is required", line)
	}
	return v, nil
}

// readLine prints the prompt and reads one trimmed line. Reaching end of
// input with nothing typed is reported as a configuration error so a piped
// session that runs dry aborts cleanly.
func (s *Session) readLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(s.out, ColorGreen()+prompt+ColorReset())

	line, err := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", err
		}
		if line == "" {
			fmt.Fprintln(s.out)
			return "", apperrors.NewConfigError("unexpected end of input")
		}
	}
	return line, nil
}
