package recurrence

import "fmt"

// IndexPair identifies the first pair of indices at which a divisibility
// property failed. For the plain divisibility check N is always a proper
// multiple of M; for the strong check M < N with no multiplicity relation.
type IndexPair struct {
	// M is the smaller index of the failing pair.
	M int
	// N is the larger index of the failing pair.
	N int
}

// String renders the pair as "(m, n)".
func (p IndexPair) String() string {
	return fmt.Sprintf("(%d, %d)", p.M, p.N)
}

// CheckResult is the outcome of one divisibility check over a finite
// sequence prefix.
type CheckResult struct {
	// Satisfied reports whether the property held for every tested pair.
	Satisfied bool
	// Counterexample is the first failing index pair in scan order.
	// It is nil when Satisfied is true.
	Counterexample *IndexPair
}

// satisfied is the shared success value.
func satisfied() CheckResult {
	return CheckResult{Satisfied: true}
}

// failedAt builds a failure result for the pair (m, n).
func failedAt(m, n int) CheckResult {
	return CheckResult{Counterexample: &IndexPair{M: m, N: n}}
}

// gcdIndex returns the greatest common divisor of two positive indices.
func gcdIndex(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
