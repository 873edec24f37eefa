// Package models defines the shared data structures exchanged over the
// JSON surfaces of the divisibility sequence explorer.
//
// These models are used for:
//   - CLI output: the --json flag emits SequenceRecord values.
//   - HTTP API: /analyze embeds a SequenceRecord in its response and
//     /terms streams TermRecord values as NDJSON.
//   - Reports: scan reports serialize accepted combinations as records.
//
// All big integers are carried as decimal strings, since sequence terms
// routinely exceed the range of any machine integer type.
package models

// PairRecord identifies the first index pair at which a divisibility
// property failed.
type PairRecord struct {
	// M is the smaller index of the failing pair.
	M int `json:"m"`
	// N is the larger index of the failing pair.
	N int `json:"n"`
}

// SequenceRecord is the canonical JSON rendering of one analyzed
// recurrence: its parameters, the derived discriminant, both divisibility
// verdicts, and a short prefix of terms.
type SequenceRecord struct {
	// P and Q are the recurrence coefficients in decimal.
	P string `json:"p"`
	Q string `json:"q"`
	// X0 and X1 are the initial terms in decimal.
	X0 string `json:"x0"`
	X1 string `json:"x1"`
	// MaxIndex is the largest generated index n; terms x(0)..x(n) were tested.
	MaxIndex int `json:"max_index"`
	// Discriminant is P^2 - 4Q in decimal.
	Discriminant string `json:"discriminant"`
	// Divisibility reports whether x(m) | x(mk) held for all tested pairs.
	Divisibility bool `json:"divisibility"`
	// StrongDivisibility reports whether gcd(x(m), x(k)) = |x(gcd(m,k))|
	// held for all tested pairs.
	StrongDivisibility bool `json:"strong_divisibility"`
	// DivisibilityCounterexample is the first failing pair, if any.
	DivisibilityCounterexample *PairRecord `json:"divisibility_counterexample,omitempty"`
	// StrongCounterexample is the first failing pair for the strong
	// property, if any.
	StrongCounterexample *PairRecord `json:"strong_counterexample,omitempty"`
	// FirstTerms is a short prefix of the sequence in decimal.
	FirstTerms []string `json:"first_terms"`
}

// TermRecord is one streamed sequence term: its index and its decimal
// value. The /terms endpoint emits one record per line.
type TermRecord struct {
	Index int    `json:"index"`
	Term  string `json:"term"`
}

// ScanSummaryRecord aggregates the tallies of one parameter-space scan.
type ScanSummaryRecord struct {
	// Mode names the scan mode that produced the results.
	Mode string `json:"mode"`
	// Combinations is the size of the parameter space before skipping.
	Combinations uint64 `json:"combinations"`
	// Scanned counts the combinations that were fully evaluated.
	Scanned uint64 `json:"scanned"`
	// Skipped counts the combinations excluded before generation.
	Skipped uint64 `json:"skipped"`
	// DivisibilityCount counts evaluated combinations with the plain
	// property satisfied.
	DivisibilityCount uint64 `json:"divisibility_count"`
	// StrongCount counts evaluated combinations with the strong property
	// satisfied.
	StrongCount uint64 `json:"strong_count"`
	// ZeroX0 and NonzeroX0 split the accepted results by initial term.
	ZeroX0    uint64 `json:"zero_x0"`
	NonzeroX0 uint64 `json:"nonzero_x0"`
	// DurationMS is the wall-clock scan duration in milliseconds.
	DurationMS int64 `json:"duration_ms"`
}

// ScanRecord is the JSON rendering of a whole scan: the summary plus the
// accepted combinations in scan order.
type ScanRecord struct {
	Summary ScanSummaryRecord `json:"summary"`
	Results []SequenceRecord  `json:"results"`
}
