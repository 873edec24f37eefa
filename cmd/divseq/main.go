// Command divseq explores divisibility properties of integer sequences
// defined by second-order linear recurrences x(n) = P*x(n-1) - Q*x(n-2).
// It analyzes single parameter combinations, sweeps parameter ranges,
// and can serve the analysis over HTTP.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/agbru/divseq/internal/app"
	apperrors "github.com/agbru/divseq/internal/errors"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run wires the application together and maps every outcome to an exit
// code. It is separate from main so it can be driven with custom arguments
// and writers.
//
// Parameters:
//   - args: The command-line arguments including the program name.
//   - out: The writer for standard output.
//   - errOut: The writer for error output.
//
// Returns:
//   - int: The process exit code.
func run(args []string, out, errOut io.Writer) int {
	// Version is handled before flag parsing so it works in any position.
	var cmdArgs []string
	if len(args) > 1 {
		cmdArgs = args[1:]
	}
	if app.HasVersionFlag(cmdArgs) {
		app.PrintVersion(out)
		return apperrors.ExitSuccess
	}

	application, err := app.New(args, errOut)
	if err != nil {
		if app.IsHelpError(err) {
			return apperrors.ExitSuccess
		}
		fmt.Fprintf(errOut, "Configuration error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	return application.Run(context.Background(), out)
}
