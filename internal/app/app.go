package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/divseq/internal/cli"
	"github.com/agbru/divseq/internal/config"
	apperrors "github.com/agbru/divseq/internal/errors"
	"github.com/agbru/divseq/internal/recurrence"
	"github.com/agbru/divseq/internal/report"
	"github.com/agbru/divseq/internal/scan"
	"github.com/agbru/divseq/internal/server"
	"github.com/agbru/divseq/internal/service"
	"github.com/agbru/divseq/internal/ui"
	"github.com/agbru/divseq/pkg/models"
)

// progressBufferSize is the buffer capacity of the progress channel feeding
// the terminal display. The channel observer drops updates when the buffer
// is full, so a larger buffer smooths the bar when the UI is slow to consume.
const progressBufferSize = 64

// Application represents the divseq application instance.
// It encapsulates the configuration and provides methods to run
// the application in various modes (CLI, server, interactive prompt).
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// ErrWriter is the writer for error output (typically os.Stderr).
	ErrWriter io.Writer
}

// New creates a new Application instance by parsing command-line arguments.
// It validates the configuration and returns an error if parsing or validation fails.
//
// Parameters:
//   - args: The command-line arguments (typically os.Args).
//   - errWriter: The writer for error output.
//
// Returns:
//   - *Application: A new application instance.
//   - error: An error if configuration parsing or validation fails.
func New(args []string, errWriter io.Writer) (*Application, error) {
	// args[0] is program name, args[1:] are the actual arguments
	programName := "divseq"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	return &Application{
		Config:    cfg,
		ErrWriter: errWriter,
	}, nil
}

// Run executes the application based on the configured mode.
// It dispatches to the appropriate handler (completion, server, prompt,
// scan, or single analysis).
//
// Parameters:
//   - ctx: The context for managing cancellation and timeouts.
//   - out: The writer for standard output.
//
// Returns:
//   - int: An exit code (0 for success, non-zero for errors).
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	// Handle completion script generation
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	// Initialize CLI theme (respects --no-color flag and NO_COLOR env var)
	ui.InitTheme(a.Config.NoColor)

	// Server mode
	if a.Config.ServerMode {
		return a.runServer()
	}

	// Interactive prompt mode
	if a.Config.Interactive {
		return a.runInteractive(ctx, out)
	}

	// Validate already rejected unknown modes, so the error is impossible here.
	mode, _ := scan.ParseMode(a.Config.Mode)
	if mode == scan.ModeSingle {
		return a.runAnalyze(ctx, out)
	}

	return a.runScan(ctx, out, mode)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runServer starts the HTTP server mode.
func (a *Application) runServer() int {
	srv := server.NewServer(a.Config)
	if err := srv.Start(); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runInteractive starts the prompt-driven session.
func (a *Application) runInteractive(ctx context.Context, out io.Writer) int {
	ctx, stopSignals := SetupSignals(ctx)
	defer stopSignals()

	session := cli.NewSession(cli.SessionConfig{
		MaxNDefault: a.Config.MaxN,
		Timeout:     a.Config.Timeout,
		Workers:     a.Config.Workers,
		PrefixLen:   a.Config.Terms,
		NoCompanion: a.Config.NoCompanion,
	})
	session.SetOutput(out)

	if err := session.Run(ctx); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		var cfgErr apperrors.ConfigError
		if errors.As(err, &cfgErr) {
			return apperrors.ExitErrorConfig
		}
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runAnalyze evaluates the single configured parameter combination: it
// prints the recurrence, its terms, and both divisibility verdicts, then
// the U-type companion comparison unless suppressed.
func (a *Application) runAnalyze(ctx context.Context, out io.Writer) int {
	ctx, cancel := SetupLifecycle(ctx, a.Config.Timeout)
	defer cancel.Cleanup()

	params := recurrence.NewParamsFromInt64(a.Config.P, a.Config.Q, a.Config.X0, a.Config.X1)

	analyzer := service.NewAnalyzer(0)
	start := time.Now()
	analysis, err := analyzer.Analyze(ctx, params, a.Config.MaxN)
	if err != nil {
		return apperrors.HandleScanError(err, time.Since(start), out, cli.CLIColorProvider{})
	}

	// The companion of a U-type sequence is itself, so the comparison
	// would only repeat the analysis.
	var companion *recurrence.Analysis
	if !a.Config.NoCompanion && !analysis.Params.IsUType() {
		c := analysis.Companion()
		companion = &c
	}

	if a.Config.JSONOutput {
		return printJSONAnalysis(analysis, companion, a.Config.Terms, out)
	}

	if a.Config.Quiet {
		cli.DisplayQuietAnalysis(out, analysis)
	} else {
		cli.DisplayAnalysis(analysis, out)
		if companion != nil {
			cli.DisplayCompanion(*companion, out)
		}
	}

	if a.Config.ReportFile != "" {
		if err := report.WriteAnalysisFile(a.Config.ReportFile, analysis, companion); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error writing report: %v\n", err)
			return apperrors.ExitErrorReport
		}
		if !a.Config.Quiet {
			fmt.Fprintf(out, "\n%s✓ Report saved to: %s%s%s\n",
				cli.ColorGreen(), cli.ColorCyan(), a.Config.ReportFile, cli.ColorReset())
		}
	}

	return apperrors.ExitSuccess
}

// runScan executes the configured parameter sweep with progress display,
// then prints the summary and accepted combinations and writes the report
// file if one was requested.
func (a *Application) runScan(ctx context.Context, out io.Writer, mode scan.Mode) int {
	ctx, cancel := SetupLifecycle(ctx, a.Config.Timeout)
	defer cancel.Cleanup()

	req := a.Config.ToScanRequest()

	// Skip verbose output in quiet mode
	if !a.Config.JSONOutput && !a.Config.Quiet {
		cli.PrintScanConfig(a.Config, out)
		cli.PrintScanMode(mode, req.Workers, out)
	}

	// In quiet and JSON modes, the progress display goes to a discard
	// writer so machine-readable output stays clean.
	progressOut := out
	if a.Config.Quiet || a.Config.JSONOutput {
		progressOut = io.Discard
	}

	// Progress fan-out: the channel observer feeds the terminal display,
	// the metrics observer keeps the Prometheus gauge current, and
	// verbose runs also log coarse progress.
	subject := scan.NewProgressSubject()
	progressChan := make(chan scan.ProgressUpdate, progressBufferSize)
	subject.Register(scan.NewChannelObserver(progressChan))
	subject.Register(scan.NewMetricsObserver())
	if a.Config.Verbose {
		scanLogger := zerolog.New(a.ErrWriter).Level(zerolog.DebugLevel).With().Timestamp().Logger()
		subject.Register(scan.NewLoggingObserver(scanLogger, 0.25))
	}

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go cli.DisplayProgress(&displayWg, progressChan, progressOut)

	// With --stream the report file is opened up front and accepted
	// results are appended as the scan finds them.
	var stream *report.StreamWriter
	var sink scan.ResultSink
	if a.Config.StreamReport && a.Config.ReportFile != "" {
		sw, err := report.NewStreamWriter(a.Config.ReportFile, req)
		if err != nil {
			close(progressChan)
			displayWg.Wait()
			fmt.Fprintf(a.ErrWriter, "Error opening report stream: %v\n", err)
			return apperrors.ExitErrorReport
		}
		stream = sw
		sink = sw
	}

	start := time.Now()
	outcome, err := scan.Run(ctx, req, subject.AsReporter(), sink)
	close(progressChan)
	displayWg.Wait()

	if err != nil {
		if stream != nil {
			stream.Abort()
		}
		return apperrors.HandleScanError(err, time.Since(start), out, cli.CLIColorProvider{})
	}

	if stream != nil {
		if err := stream.Finalize(outcome); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error finalizing report: %v\n", err)
			return apperrors.ExitErrorReport
		}
	} else if a.Config.ReportFile != "" {
		if err := report.WriteFile(a.Config.ReportFile, req, outcome); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error writing report: %v\n", err)
			return apperrors.ExitErrorReport
		}
	}

	// Handle JSON output
	if a.Config.JSONOutput {
		return printJSONScan(outcome, out)
	}

	if a.Config.Quiet {
		cli.DisplayQuietScan(out, outcome)
		return apperrors.ExitSuccess
	}

	cli.DisplayScanSummary(outcome, out)
	cli.DisplayScanResults(outcome, a.Config.Verbose, out)

	if a.Config.ReportFile != "" {
		fmt.Fprintf(out, "\n%s✓ Report saved to: %s%s%s\n",
			cli.ColorGreen(), cli.ColorCyan(), a.Config.ReportFile, cli.ColorReset())
	}

	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
// This is useful for determining if the application should exit with success
// after displaying help text.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: True if the error indicates help was requested.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// jsonAnalysis pairs the analyzed sequence record with its optional U-type
// companion for machine-readable single-mode output.
type jsonAnalysis struct {
	Result    models.SequenceRecord  `json:"result"`
	Companion *models.SequenceRecord `json:"companion,omitempty"`
}

// printJSONAnalysis formats a single analysis (and its companion, when
// present) as indented JSON and writes it to the output.
func printJSONAnalysis(analysis recurrence.Analysis, companion *recurrence.Analysis, prefixLen int, out io.Writer) int {
	payload := jsonAnalysis{Result: analysis.Record(prefixLen)}
	if companion != nil {
		record := companion.Record(prefixLen)
		payload.Companion = &record
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// printJSONScan formats the scan outcome as an indented JSON record and
// writes it to the output. This is useful for programmatic consumption of
// the results.
func printJSONScan(outcome *scan.Outcome, out io.Writer) int {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outcome.Record()); err != nil {
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}
