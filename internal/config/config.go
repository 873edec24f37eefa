// Package config provides the configuration management for the divseq
// application. It defines the data structure for the configuration, handles
// the parsing of command-line arguments, and performs validation on the
// configuration values.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "github.com/agbru/divseq/internal/errors"
	"github.com/agbru/divseq/internal/scan"
)

const (
	// EnvPrefix is the prefix for all environment variables used by divseq.
	// Environment variables provide an alternative to CLI flags for
	// configuration, following the 12-Factor App methodology.
	EnvPrefix = "DIVSEQ_"
)

// Default configuration values.
// These can be overridden via command-line flags or environment variables.
const (
	// DefaultMaxN is the default largest sequence index to generate and test.
	DefaultMaxN = 20
	// DefaultTerms is the default number of leading terms retained per result.
	DefaultTerms = 8
	// MinTerms and MaxTerms bound the retained prefix length.
	MinTerms = 6
	MaxTerms = 8
	// DefaultTimeout is the default scan timeout.
	DefaultTimeout = 5 * time.Minute
	// DefaultPort is the default server port.
	DefaultPort = "8080"
	// DefaultMode is the default scan mode.
	DefaultMode = "single"
	// DefaultWorkers is the default evaluator count; 1 keeps scans
	// sequential unless parallelism is requested.
	DefaultWorkers = 1
	// DefaultRangeMin and DefaultRangeMax bound every scanned dimension
	// unless overridden per dimension.
	DefaultRangeMin int64 = -10
	DefaultRangeMax int64 = 10
)

// AppConfig aggregates the application's configuration parameters, parsed
// from command-line flags. It encapsulates all settings that control the
// execution, from the recurrence parameters to the scan ranges and the
// output destinations.
type AppConfig struct {
	// Mode selects what to explore: single, pq, init, or all.
	Mode string
	// P, Q are the recurrence coefficients for dimensions the mode keeps fixed.
	P, Q int64
	// X0, X1 are the initial terms for dimensions the mode keeps fixed.
	X0, X1 int64
	// MaxN is the largest sequence index generated and tested.
	MaxN int
	// Terms is how many leading terms each result retains for reporting.
	Terms int
	// PMin..X1Max bound the scanned dimensions in the range-varying modes.
	PMin, PMax   int64
	QMin, QMax   int64
	X0Min, X0Max int64
	X1Min, X1Max int64
	// Workers is the number of concurrent scan evaluators.
	Workers int
	// Timeout sets the maximum duration for a scan or analysis.
	Timeout time.Duration
	// Verbose, if true, prints every generated term instead of the prefix.
	Verbose bool
	// JSONOutput, if true, outputs result records in JSON format.
	JSONOutput bool
	// ServerMode, if true, starts the application as an HTTP server.
	ServerMode bool
	// Port specifies the port to listen on in server mode.
	Port string
	// NoColor, if true, disables all color output in the CLI.
	// Also respects the NO_COLOR environment variable.
	NoColor bool
	// ReportFile, if specified, writes the text report to this path.
	ReportFile string
	// StreamReport, if true, appends accepted results to ReportFile as the
	// scan finds them instead of writing the report at the end.
	StreamReport bool
	// Quiet mode - minimal output for scripting purposes.
	// Suppresses progress bars, banners, and informational messages.
	Quiet bool
	// Interactive, if true, starts the prompt-driven session.
	Interactive bool
	// Completion, if set, generates a shell completion script for the
	// specified shell. Valid values are: "bash", "zsh", "fish", "powershell".
	Completion string
	// NoCompanion suppresses the U-type companion comparison after a
	// single analysis.
	NoCompanion bool
}

// ToScanRequest converts the application configuration into a scan.Request
// for the scan driver. The configuration must have passed Validate.
func (c AppConfig) ToScanRequest() scan.Request {
	mode, _ := scan.ParseMode(c.Mode)
	return scan.Request{
		Mode: mode,
		P:    c.P, Q: c.Q, X0: c.X0, X1: c.X1,
		PRange:  scan.Range{Min: c.PMin, Max: c.PMax},
		QRange:  scan.Range{Min: c.QMin, Max: c.QMax},
		X0Range: scan.Range{Min: c.X0Min, Max: c.X0Max},
		X1Range: scan.Range{Min: c.X1Min, Max: c.X1Max},
		MaxN:    c.MaxN, PrefixLen: c.Terms, Workers: c.Workers,
	}
}

// Validate checks the semantic consistency of the configuration parameters.
// It ensures that numerical values are within valid ranges and that the
// chosen scan mode exists and has coherent range bounds.
//
// Returns:
//   - error: An error of type ConfigError if the configuration is invalid,
//     nil otherwise.
func (c AppConfig) Validate() error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.MaxN < 0 {
		return apperrors.NewConfigError("max index cannot be negative: %d", c.MaxN)
	}
	if c.Workers < 1 {
		return apperrors.NewConfigError("workers must be at least 1: %d", c.Workers)
	}

	mode, err := scan.ParseMode(c.Mode)
	if err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	if mode.VariesCoefficients() {
		if c.PMin > c.PMax {
			return apperrors.NewConfigError("invalid P range [%d, %d]: min exceeds max", c.PMin, c.PMax)
		}
		if c.QMin > c.QMax {
			return apperrors.NewConfigError("invalid Q range [%d, %d]: min exceeds max", c.QMin, c.QMax)
		}
	}
	if mode.VariesInitialTerms() {
		if c.X0Min > c.X0Max {
			return apperrors.NewConfigError("invalid x0 range [%d, %d]: min exceeds max", c.X0Min, c.X0Max)
		}
		if c.X1Min > c.X1Max {
			return apperrors.NewConfigError("invalid x1 range [%d, %d]: min exceeds max", c.X1Min, c.X1Max)
		}
	}
	return nil
}

// ParseConfig parses the command-line arguments and populates an AppConfig
// struct. It defines all the command-line flags, sets their default values,
// and handles the parsing process. After parsing, it applies environment
// overrides, clamps the retained term count, and validates the result.
//
// The function is designed to be testable by allowing the input arguments
// and output writer to be specified.
//
// Parameters:
//   - programName: The name of the program, used in the usage message.
//   - args: A slice of strings representing the command-line arguments
//     (typically os.Args[1:]).
//   - errorWriter: An io.Writer where parsing errors and usage information
//     will be printed.
//
// Returns:
//   - AppConfig: The populated configuration struct.
//   - error: An error if flag parsing fails or validation fails.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	config := AppConfig{}
	fs.StringVar(&config.Mode, "mode", DefaultMode, "Scan mode: 'single', 'pq', 'init', or 'all'.")
	fs.Int64Var(&config.P, "p", 1, "Coefficient P of the recurrence x(n) = P*x(n-1) - Q*x(n-2).")
	fs.Int64Var(&config.Q, "q", -1, "Coefficient Q of the recurrence.")
	fs.Int64Var(&config.X0, "x0", 0, "Initial term x(0).")
	fs.Int64Var(&config.X1, "x1", 1, "Initial term x(1).")
	fs.IntVar(&config.MaxN, "n", DefaultMaxN, "Largest sequence index to generate and test.")
	fs.IntVar(&config.Terms, "terms", DefaultTerms, "Leading terms retained per result (6..8).")
	fs.Int64Var(&config.PMin, "p-min", DefaultRangeMin, "Lower bound of the P range in pq/all modes.")
	fs.Int64Var(&config.PMax, "p-max", DefaultRangeMax, "Upper bound of the P range in pq/all modes.")
	fs.Int64Var(&config.QMin, "q-min", DefaultRangeMin, "Lower bound of the Q range in pq/all modes.")
	fs.Int64Var(&config.QMax, "q-max", DefaultRangeMax, "Upper bound of the Q range in pq/all modes.")
	fs.Int64Var(&config.X0Min, "x0-min", DefaultRangeMin, "Lower bound of the x0 range in init/all modes.")
	fs.Int64Var(&config.X0Max, "x0-max", DefaultRangeMax, "Upper bound of the x0 range in init/all modes.")
	fs.Int64Var(&config.X1Min, "x1-min", DefaultRangeMin, "Lower bound of the x1 range in init/all modes.")
	fs.Int64Var(&config.X1Max, "x1-max", DefaultRangeMax, "Upper bound of the x1 range in init/all modes.")
	fs.IntVar(&config.Workers, "workers", DefaultWorkers, "Number of concurrent scan evaluators.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time for a scan.")
	fs.BoolVar(&config.Verbose, "v", false, "Display every generated term instead of the short prefix.")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output result records in JSON format.")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.StringVar(&config.ReportFile, "report", "", "Report file path for scan or analysis results.")
	fs.StringVar(&config.ReportFile, "o", "", "Report file path (shorthand).")
	fs.BoolVar(&config.StreamReport, "stream", false, "Append accepted results to the report file as they are found.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - minimal output for scripts.")
	fs.BoolVar(&config.Interactive, "interactive", false, "Start in interactive prompt mode.")
	fs.StringVar(&config.Completion, "completion", "", "Generate shell completion script (bash, zsh, fish, powershell).")
	fs.BoolVar(&config.NoCompanion, "no-companion", false, "Skip the U-type companion comparison after a single analysis.")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	// Apply environment variable overrides for flags not explicitly set
	applyEnvOverrides(&config, fs)

	config.Mode = strings.ToLower(config.Mode)
	config.Terms = clampTerms(config.Terms)

	if err := config.Validate(); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.New("invalid configuration")
	}
	return config, nil
}

// clampTerms bounds the retained prefix length to the supported window.
func clampTerms(terms int) int {
	if terms < MinTerms {
		return MinTerms
	}
	if terms > MaxTerms {
		return MaxTerms
	}
	return terms
}
