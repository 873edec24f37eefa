package recurrence

import "math/big"

// CheckStrongDivisibility tests the strong divisibility property over the
// given sequence prefix: for every pair of indices 1 <= m < k <= n,
//
//	gcd(x(m), x(k)) == |x(gcd(m, k))|
//
// The value-level gcd is always taken as non-negative, so the right-hand
// side is compared in absolute value; terms themselves may be negative.
// gcd(0, 0) is 0, which makes pairs of zero terms compare against a zero
// expected term rather than being skipped.
//
// Pairs are visited with m ascending and k ascending from m+1, so the
// reported counterexample is the first failure in that order. A sequence
// with fewer than three terms satisfies the property vacuously.
//
// Parameters:
//   - seq: The sequence prefix x(0)..x(n) to test.
//
// Returns:
//   - CheckResult: Satisfied, or the first failing pair (m, k).
func CheckStrongDivisibility(seq Sequence) CheckResult {
	n := seq.MaxIndex()

	am := new(big.Int)
	ak := new(big.Int)
	g := new(big.Int)

	for m := 1; m <= n; m++ {
		am.Abs(seq[m])
		for k := m + 1; k <= n; k++ {
			ak.Abs(seq[k])
			g.GCD(nil, nil, am, ak)
			if g.CmpAbs(seq[gcdIndex(m, k)]) != 0 {
				return failedAt(m, k)
			}
		}
	}
	return satisfied()
}
