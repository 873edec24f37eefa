package recurrence

import "math/big"

// CheckDivisibility tests the divisibility property over the given sequence
// prefix: for every pair of indices m and n=m*k within range (m >= 1,
// k >= 2), x(m) must divide x(n).
//
// Indices m with x(m) = 0 are skipped entirely as divisor candidates; the
// convention treats a zero term as dividing everything, so no pair rooted
// at such an index can fail.
//
// Pairs are visited with m ascending and, for each m, the multiple index
// ascending, so the reported counterexample is the first failure in that
// order. A sequence with fewer than two terms satisfies the property
// vacuously.
//
// Parameters:
//   - seq: The sequence prefix x(0)..x(n) to test.
//
// Returns:
//   - CheckResult: Satisfied, or the first failing pair (m, m*k).
func CheckDivisibility(seq Sequence) CheckResult {
	n := seq.MaxIndex()
	rem := new(big.Int)

	for m := 1; m <= n; m++ {
		if seq[m].Sign() == 0 {
			continue
		}
		for idx := 2 * m; idx <= n; idx += m {
			if rem.Rem(seq[idx], seq[m]).Sign() != 0 {
				return failedAt(m, idx)
			}
		}
	}
	return satisfied()
}
