package recurrence

import "math/big"

// Sequence holds consecutive terms of a recurrence, indexed from 0.
// A Sequence produced for maximum index n has length n+1. Elements are
// owned by the sequence; callers must not modify them in place.
type Sequence []*big.Int

// Generate computes the terms x(0) through x(n) of the recurrence described
// by params using the iterative recurrence relation. Every term is a fresh
// big.Int; the returned slice shares no storage with params.
//
// Edge cases:
//   - n < 0 returns an empty (non-nil) sequence.
//   - n = 0 returns just [x(0)].
//
// Parameters:
//   - params: The recurrence to evaluate.
//   - n: The maximum index to generate, inclusive.
//
// Returns:
//   - Sequence: The terms x(0)..x(n).
func Generate(params Params, n int) Sequence {
	if n < 0 {
		return Sequence{}
	}

	seq := make(Sequence, 0, n+1)
	seq = append(seq, new(big.Int).Set(params.X0))
	if n == 0 {
		return seq
	}
	seq = append(seq, new(big.Int).Set(params.X1))

	scratch := new(big.Int)
	for i := 2; i <= n; i++ {
		term := new(big.Int).Mul(params.P, seq[i-1])
		term.Sub(term, scratch.Mul(params.Q, seq[i-2]))
		seq = append(seq, term)
	}
	return seq
}

// MaxIndex returns the highest index present in the sequence, or -1 for an
// empty sequence.
func (s Sequence) MaxIndex() int {
	return len(s) - 1
}

// IsTrivial reports whether every term from index 1 onward is zero. Such
// sequences satisfy both divisibility properties vacuously and are excluded
// by the scan driver. A sequence with no terms beyond index 0 is trivial.
func (s Sequence) IsTrivial() bool {
	for i := 1; i < len(s); i++ {
		if s[i].Sign() != 0 {
			return false
		}
	}
	return true
}

// Prefix returns copies of the first k terms (fewer if the sequence is
// shorter). The copies are safe to retain after the sequence itself is
// discarded.
func (s Sequence) Prefix(k int) Sequence {
	if k > len(s) {
		k = len(s)
	}
	if k < 0 {
		k = 0
	}
	out := make(Sequence, k)
	for i := 0; i < k; i++ {
		out[i] = new(big.Int).Set(s[i])
	}
	return out
}

// Strings renders every term in decimal, mostly for JSON records and
// report lines.
func (s Sequence) Strings() []string {
	out := make([]string, len(s))
	for i, term := range s {
		out[i] = term.String()
	}
	return out
}
