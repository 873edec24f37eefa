package scan

import (
	"math/big"
	"time"

	"github.com/agbru/divseq/internal/recurrence"
	"github.com/agbru/divseq/pkg/models"
)

// Result captures the full evaluation of one parameter combination: the
// parameters, the derived discriminant, both check outcomes, and a short
// prefix of the generated terms for display.
type Result struct {
	// Params is the evaluated combination.
	Params recurrence.Params
	// Discriminant is P^2 - 4Q for the combination.
	Discriminant *big.Int
	// Divisibility is the outcome of the plain multiple-index check.
	Divisibility recurrence.CheckResult
	// Strong is the outcome of the gcd-identity check.
	Strong recurrence.CheckResult
	// FirstTerms is a prefix of the generated sequence for reports.
	FirstTerms recurrence.Sequence
	// MaxIndex is the largest generated and tested index.
	MaxIndex int

	// ord is the combination's position in enumeration order, kept so
	// parallel scans can restore deterministic ordering.
	ord uint64
}

// Accepted reports whether the combination satisfied at least one of the
// two properties and therefore belongs in the outcome list.
func (r Result) Accepted() bool {
	return r.Divisibility.Satisfied || r.Strong.Satisfied
}

// Record converts the result into its JSON model.
func (r Result) Record() models.SequenceRecord {
	return models.SequenceRecord{
		P:                          r.Params.P.String(),
		Q:                          r.Params.Q.String(),
		X0:                         r.Params.X0.String(),
		X1:                         r.Params.X1.String(),
		MaxIndex:                   r.MaxIndex,
		Discriminant:               r.Discriminant.String(),
		Divisibility:               r.Divisibility.Satisfied,
		StrongDivisibility:         r.Strong.Satisfied,
		DivisibilityCounterexample: r.Divisibility.Counterexample.Record(),
		StrongCounterexample:       r.Strong.Counterexample.Record(),
		FirstTerms:                 r.FirstTerms.Strings(),
	}
}

// Summary aggregates the tallies of one scan.
type Summary struct {
	// Combinations is the size of the enumerated space.
	Combinations uint64
	// Scanned counts combinations that were generated and checked.
	Scanned uint64
	// Skipped counts combinations excluded by a skip predicate before
	// checking.
	Skipped uint64
	// DivisibilityCount counts scanned combinations satisfying the plain
	// property.
	DivisibilityCount uint64
	// StrongCount counts scanned combinations satisfying the strong
	// property.
	StrongCount uint64
	// ZeroX0 and NonzeroX0 split the accepted combinations by whether
	// x(0) is zero.
	ZeroX0    uint64
	NonzeroX0 uint64
	// Duration is the wall-clock time of the scan.
	Duration time.Duration
}

// Record converts the summary into its JSON model.
func (s Summary) Record(mode Mode) models.ScanSummaryRecord {
	return models.ScanSummaryRecord{
		Mode:              mode.String(),
		Combinations:      s.Combinations,
		Scanned:           s.Scanned,
		Skipped:           s.Skipped,
		DivisibilityCount: s.DivisibilityCount,
		StrongCount:       s.StrongCount,
		ZeroX0:            s.ZeroX0,
		NonzeroX0:         s.NonzeroX0,
		DurationMS:        s.Duration.Milliseconds(),
	}
}

// Outcome bundles everything a finished scan produced: the accepted
// results in enumeration order plus the tallies.
type Outcome struct {
	// Mode is the scan mode that produced the outcome.
	Mode Mode
	// Summary holds the scan tallies.
	Summary Summary
	// Accepted lists the results satisfying at least one property, in
	// enumeration order.
	Accepted []Result
}

// Divisible returns the accepted results satisfying the plain property.
func (o *Outcome) Divisible() []Result {
	return o.filter(func(r Result) bool { return r.Divisibility.Satisfied })
}

// StronglyDivisible returns the accepted results satisfying the strong
// property.
func (o *Outcome) StronglyDivisible() []Result {
	return o.filter(func(r Result) bool { return r.Strong.Satisfied })
}

func (o *Outcome) filter(keep func(Result) bool) []Result {
	var out []Result
	for _, r := range o.Accepted {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Record converts the outcome into its JSON model.
func (o *Outcome) Record() models.ScanRecord {
	results := make([]models.SequenceRecord, len(o.Accepted))
	for i, r := range o.Accepted {
		results[i] = r.Record()
	}
	return models.ScanRecord{
		Summary: o.Summary.Record(o.Mode),
		Results: results,
	}
}
