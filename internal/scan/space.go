package scan

import (
	"fmt"
	"math"

	"github.com/agbru/divseq/internal/recurrence"
)

// Range is an inclusive interval of machine integers used to bound one
// scan dimension. Sequence terms themselves are arbitrary precision; only
// the explored coefficients and initial terms are int64-bounded.
type Range struct {
	Min int64
	Max int64
}

// Width returns the number of values in the range, or 0 for an inverted
// range.
func (r Range) Width() uint64 {
	if r.Max < r.Min {
		return 0
	}
	return uint64(r.Max-r.Min) + 1
}

// String renders the range as "[min, max]".
func (r Range) String() string {
	return fmt.Sprintf("[%d, %d]", r.Min, r.Max)
}

// dimension is one axis of the combination space: either a fixed value
// (width 1) or a range of values.
type dimension struct {
	min   int64
	width uint64
}

func fixedDim(v int64) dimension {
	return dimension{min: v, width: 1}
}

func rangeDim(r Range) (dimension, error) {
	if r.Width() == 0 {
		return dimension{}, fmt.Errorf("invalid range %s: min exceeds max", r)
	}
	return dimension{min: r.Min, width: r.Width()}, nil
}

// value returns the i-th value of the dimension.
func (d dimension) value(i uint64) int64 {
	return d.min + int64(i)
}

// Space is the lazily enumerated cartesian product of the four scan
// dimensions. Combinations are never materialized; each one is derived
// from its ordinal on demand, so memory stays flat regardless of the
// space size.
//
// The enumeration order fixes P as the outermost dimension and x(1) as
// the innermost: ordinal 0 is (Pmin, Qmin, x0min, x1min), ordinal 1
// advances x(1), and so on.
type Space struct {
	p, q, x0, x1 dimension
}

// NewSpace builds the combination space described by the request,
// validating any ranges the mode actually uses.
//
// Parameters:
//   - req: The scan request naming the mode, fixed values, and ranges.
//
// Returns:
//   - *Space: The enumerable space.
//   - error: An error if a used range is inverted or the space size
//     overflows.
func NewSpace(req Request) (*Space, error) {
	s := &Space{
		p:  fixedDim(req.P),
		q:  fixedDim(req.Q),
		x0: fixedDim(req.X0),
		x1: fixedDim(req.X1),
	}

	var err error
	if req.Mode.VariesCoefficients() {
		if s.p, err = rangeDim(req.PRange); err != nil {
			return nil, fmt.Errorf("P range: %w", err)
		}
		if s.q, err = rangeDim(req.QRange); err != nil {
			return nil, fmt.Errorf("Q range: %w", err)
		}
	}
	if req.Mode.VariesInitialTerms() {
		if s.x0, err = rangeDim(req.X0Range); err != nil {
			return nil, fmt.Errorf("x0 range: %w", err)
		}
		if s.x1, err = rangeDim(req.X1Range); err != nil {
			return nil, fmt.Errorf("x1 range: %w", err)
		}
	}

	if _, ok := s.count(); !ok {
		return nil, fmt.Errorf("parameter space too large to enumerate")
	}
	return s, nil
}

// count multiplies the dimension widths, reporting overflow.
func (s *Space) count() (uint64, bool) {
	total := uint64(1)
	for _, d := range []dimension{s.p, s.q, s.x0, s.x1} {
		if d.width == 0 {
			return 0, true
		}
		if total > math.MaxUint64/d.width {
			return 0, false
		}
		total *= d.width
	}
	return total, true
}

// Count returns the number of combinations in the space.
func (s *Space) Count() uint64 {
	total, _ := s.count()
	return total
}

// At derives the parameter combination at the given ordinal. Ordinals run
// from 0 to Count()-1 in enumeration order.
func (s *Space) At(ord uint64) recurrence.Params {
	i1 := ord % s.x1.width
	ord /= s.x1.width
	i0 := ord % s.x0.width
	ord /= s.x0.width
	iq := ord % s.q.width
	ip := ord / s.q.width

	return recurrence.NewParamsFromInt64(
		s.p.value(ip),
		s.q.value(iq),
		s.x0.value(i0),
		s.x1.value(i1),
	)
}
