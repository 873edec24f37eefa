// Package recurrence implements second-order linear recurrence sequences
// and their divisibility properties.
// This file contains the single-combination analysis bundle: generation
// plus both predicate checks over one parameter set.
package recurrence

import "math/big"

// Analysis is the complete evaluation of one parameter combination: the
// generated terms and the verdicts of both divisibility checks.
type Analysis struct {
	// Params is the analyzed combination.
	Params Params
	// Sequence holds the terms x(0)..x(maxN).
	Sequence Sequence
	// Discriminant is P^2 - 4Q.
	Discriminant *big.Int
	// Divisibility is the plain divisibility verdict.
	Divisibility CheckResult
	// Strong is the strong divisibility verdict.
	Strong CheckResult
}

// Analyze generates the sequence for params up to index maxN and runs
// both divisibility checks on it. Unlike a scan, no combination is
// skipped: degenerate parameters are analyzed as requested.
//
// Parameters:
//   - params: The recurrence parameters.
//   - maxN: The largest index to generate and test.
//
// Returns:
//   - Analysis: The generated terms and both verdicts.
func Analyze(params Params, maxN int) Analysis {
	seq := Generate(params, maxN)
	return Analysis{
		Params:       params,
		Sequence:     seq,
		Discriminant: params.Discriminant(),
		Divisibility: CheckDivisibility(seq),
		Strong:       CheckStrongDivisibility(seq),
	}
}

// Companion returns the analysis of the U-type companion, the sequence
// with the same coefficients but initial terms x(0)=0 and x(1)=1, over
// the same index range.
func (a Analysis) Companion() Analysis {
	return Analyze(a.Params.Companion(), a.Sequence.MaxIndex())
}
