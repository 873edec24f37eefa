// Package scan drives the exploration of recurrence parameter spaces.
// This file contains the scan driver: the sequential and parallel loops
// that enumerate combinations, apply skip predicates, and collect results.
package scan

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/divseq/internal/recurrence"
)

// progressEvery controls how many combinations are processed between
// progress notifications. The final combination always notifies.
const progressEvery = 32

var (
	combinationsScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "divseq_scan_combinations_total",
		Help: "Total number of parameter combinations fully evaluated",
	})

	combinationsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "divseq_scan_skipped_total",
		Help: "Total number of parameter combinations excluded by skip predicates",
	})

	sequencesFound = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "divseq_sequences_found_total",
		Help: "Total number of sequences found satisfying a divisibility property",
	}, []string{"property"})
)

// Request describes one scan: the mode, the fixed parameter values, the
// ranges for the varied dimensions, and the evaluation settings.
type Request struct {
	// Mode selects which dimensions vary.
	Mode Mode

	// P, Q, X0, X1 are the fixed values for dimensions the mode does not
	// vary.
	P, Q, X0, X1 int64

	// PRange, QRange, X0Range, X1Range bound the varied dimensions.
	PRange, QRange, X0Range, X1Range Range

	// MaxN is the largest sequence index generated and tested per
	// combination.
	MaxN int

	// PrefixLen is how many leading terms each result retains for
	// display.
	PrefixLen int

	// Workers is the number of concurrent evaluators. Values below 2
	// select the sequential path.
	Workers int
}

// ResultSink receives accepted results as the scan finds them. Sinks see
// results in completion order, which for parallel scans may differ from
// enumeration order; the final Outcome is always in enumeration order.
// A sink error aborts the scan.
type ResultSink interface {
	Accept(Result) error
}

// comboOutcome is the evaluation of a single ordinal, produced by workers
// and folded into the accumulator.
type comboOutcome struct {
	ord      uint64
	skipped  bool
	accepted bool
	result   Result
}

// accumulator carries the running scan state. It is threaded explicitly
// through the fold step rather than held in shared package state, so the
// collection logic has no hidden writes.
type accumulator struct {
	summary  Summary
	accepted []Result
}

// fold returns the accumulator updated with one combination outcome.
func (acc accumulator) fold(out comboOutcome) accumulator {
	if out.skipped {
		acc.summary.Skipped++
		return acc
	}

	acc.summary.Scanned++
	if out.result.Divisibility.Satisfied {
		acc.summary.DivisibilityCount++
	}
	if out.result.Strong.Satisfied {
		acc.summary.StrongCount++
	}
	if out.accepted {
		if out.result.Params.X0.Sign() == 0 {
			acc.summary.ZeroX0++
		} else {
			acc.summary.NonzeroX0++
		}
		acc.accepted = append(acc.accepted, out.result)
	}
	return acc
}

// evaluateCombination applies the skip predicates and, for surviving
// combinations, generates the sequence and runs both checkers.
//
// Skip predicates, in order:
//   - Q = 0: the recurrence degenerates to a geometric progression.
//   - x(0) = x(1) = 0: every term is zero.
//   - trivial sequence: no nonzero term at any index >= 1.
//
// Returns:
//   - Result: The evaluation, valid only when the second return is true.
//   - bool: false if the combination was skipped.
func evaluateCombination(params recurrence.Params, maxN, prefixLen int) (Result, bool) {
	if params.IsDegenerate() {
		return Result{}, false
	}
	if params.X0.Sign() == 0 && params.X1.Sign() == 0 {
		return Result{}, false
	}

	seq := recurrence.Generate(params, maxN)
	if seq.IsTrivial() {
		return Result{}, false
	}

	return Result{
		Params:       params,
		Discriminant: params.Discriminant(),
		Divisibility: recurrence.CheckDivisibility(seq),
		Strong:       recurrence.CheckStrongDivisibility(seq),
		FirstTerms:   seq.Prefix(prefixLen),
		MaxIndex:     seq.MaxIndex(),
	}, true
}

// processOrdinal evaluates the combination at the given ordinal.
func processOrdinal(space *Space, ord uint64, req Request) comboOutcome {
	params := space.At(ord)
	res, ok := evaluateCombination(params, req.MaxN, req.PrefixLen)
	if !ok {
		return comboOutcome{ord: ord, skipped: true}
	}
	res.ord = ord
	return comboOutcome{ord: ord, accepted: res.Accepted(), result: res}
}

// Run enumerates the request's combination space and evaluates every
// combination, honoring context cancellation between combinations.
//
// Progress is reported through the optional reporter; accepted results
// are additionally streamed to the optional sink as they are found. The
// returned outcome lists accepted results in enumeration order even when
// multiple workers raced to produce them.
//
// Parameters:
//   - ctx: The context bounding the scan.
//   - req: The scan request.
//   - reporter: Optional progress callback; may be nil.
//   - sink: Optional streaming consumer of accepted results; may be nil.
//
// Returns:
//   - *Outcome: The ordered results and tallies.
//   - error: Context or sink errors; the outcome is nil on error.
func Run(ctx context.Context, req Request, reporter ProgressReporter, sink ResultSink) (*Outcome, error) {
	space, err := NewSpace(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	var acc accumulator
	if req.Workers > 1 {
		acc, err = runParallel(ctx, req, space, reporter, sink)
	} else {
		acc, err = runSequential(ctx, req, space, reporter, sink)
	}
	if err != nil {
		return nil, err
	}

	acc.summary.Combinations = space.Count()
	acc.summary.Duration = time.Since(start)

	combinationsScanned.Add(float64(acc.summary.Scanned))
	combinationsSkipped.Add(float64(acc.summary.Skipped))
	sequencesFound.WithLabelValues("divisibility").Add(float64(acc.summary.DivisibilityCount))
	sequencesFound.WithLabelValues("strong").Add(float64(acc.summary.StrongCount))

	return &Outcome{Mode: req.Mode, Summary: acc.summary, Accepted: acc.accepted}, nil
}

// runSequential is the single-goroutine scan loop.
func runSequential(ctx context.Context, req Request, space *Space, reporter ProgressReporter, sink ResultSink) (accumulator, error) {
	total := space.Count()
	acc := accumulator{}

	for ord := uint64(0); ord < total; ord++ {
		if err := ctx.Err(); err != nil {
			return accumulator{}, err
		}

		out := processOrdinal(space, ord, req)
		if out.accepted && sink != nil {
			if err := sink.Accept(out.result); err != nil {
				return accumulator{}, err
			}
		}
		acc = acc.fold(out)

		done := ord + 1
		if reporter != nil && (done%progressEvery == 0 || done == total) {
			reporter(ProgressUpdate{Completed: done, Total: total, Value: float64(done) / float64(total)})
		}
	}
	return acc, nil
}

// runParallel fans the ordinal stream out to req.Workers evaluator
// goroutines and folds their outcomes in a single collector, then sorts
// the accepted results back into enumeration order.
func runParallel(parent context.Context, req Request, space *Space, reporter ProgressReporter, sink ResultSink) (accumulator, error) {
	total := space.Count()

	// The collector cancels this context if the sink fails, which winds
	// down the feeder and workers.
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	ordinals := make(chan uint64)
	g.Go(func() error {
		defer close(ordinals)
		for ord := uint64(0); ord < total; ord++ {
			select {
			case ordinals <- ord:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	outcomes := make(chan comboOutcome, req.Workers*4)
	var completed atomic.Uint64

	for i := 0; i < req.Workers; i++ {
		g.Go(func() error {
			for ord := range ordinals {
				out := processOrdinal(space, ord, req)
				select {
				case outcomes <- out:
				case <-gctx.Done():
					return gctx.Err()
				}

				done := completed.Add(1)
				if reporter != nil && (done%progressEvery == 0 || done == total) {
					reporter(ProgressUpdate{Completed: done, Total: total, Value: float64(done) / float64(total)})
				}
			}
			return nil
		})
	}

	acc := accumulator{}
	var sinkErr error
	var collectWg sync.WaitGroup
	collectWg.Add(1)
	go func() {
		defer collectWg.Done()
		for out := range outcomes {
			if sinkErr != nil {
				continue // drain remaining outcomes after a sink failure
			}
			if out.accepted && sink != nil {
				if err := sink.Accept(out.result); err != nil {
					sinkErr = err
					cancel()
					continue
				}
			}
			acc = acc.fold(out)
		}
	}()

	err := g.Wait()
	close(outcomes)
	collectWg.Wait()

	if sinkErr != nil {
		return accumulator{}, sinkErr
	}
	if err != nil {
		return accumulator{}, err
	}

	sort.Slice(acc.accepted, func(i, j int) bool {
		return acc.accepted[i].ord < acc.accepted[j].ord
	})
	return acc, nil
}
