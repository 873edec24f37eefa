package recurrence

import (
	"context"
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestFibonacciStrongDivisibility_PropertyBased verifies the classical
// identity gcd(F(m), F(n)) = F(gcd(m, n)) on every tested Fibonacci prefix.
// Any prefix length must satisfy the strong divisibility check, which in
// turn exercises every index pair up to that length.
func TestFibonacciStrongDivisibility_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	fib := NewParamsFromInt64(1, -1, 0, 1)

	properties.Property("every Fibonacci prefix satisfies strong divisibility", prop.ForAll(
		func(n int) bool {
			seq := Generate(fib, n)
			return CheckStrongDivisibility(seq).Satisfied && CheckDivisibility(seq).Satisfied
		},
		gen.IntRange(0, 60),
	))

	properties.TestingRun(t)
}

// TestStrongImpliesPlain_PropertyBased verifies a structural relation
// between the two checkers: whenever the strong property holds on a
// prefix, the plain multiple-index property holds as well, because the
// pair (m, m*k) has index gcd m and the value gcd then pins x(m) as a
// divisor of x(m*k).
func TestStrongImpliesPlain_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("strong divisibility implies divisibility", prop.ForAll(
		func(p, q, x0, x1 int64, n int) bool {
			seq := Generate(NewParamsFromInt64(p, q, x0, x1), n)
			if !CheckStrongDivisibility(seq).Satisfied {
				return true // Vacuously fine; only the implication is claimed.
			}
			return CheckDivisibility(seq).Satisfied
		},
		gen.Int64Range(-8, 8),
		gen.Int64Range(-8, 8),
		gen.Int64Range(-8, 8),
		gen.Int64Range(-8, 8),
		gen.IntRange(0, 24),
	))

	properties.TestingRun(t)
}

// TestCounterexamplesAreGenuine_PropertyBased verifies that any reported
// counterexample really violates the property it was reported for.
func TestCounterexamplesAreGenuine_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("divisibility counterexamples fail the division", prop.ForAll(
		func(p, q, x0, x1 int64, n int) bool {
			seq := Generate(NewParamsFromInt64(p, q, x0, x1), n)
			res := CheckDivisibility(seq)
			if res.Satisfied {
				return res.Counterexample == nil
			}
			ce := res.Counterexample
			if ce == nil || ce.M < 1 || ce.N <= ce.M || ce.N%ce.M != 0 || ce.N > seq.MaxIndex() {
				return false
			}
			if seq[ce.M].Sign() == 0 {
				return false // Zero divisors must have been skipped.
			}
			return new(big.Int).Rem(seq[ce.N], seq[ce.M]).Sign() != 0
		},
		gen.Int64Range(-8, 8),
		gen.Int64Range(-8, 8),
		gen.Int64Range(-8, 8),
		gen.Int64Range(-8, 8),
		gen.IntRange(0, 24),
	))

	properties.Property("strong counterexamples fail the gcd identity", prop.ForAll(
		func(p, q, x0, x1 int64, n int) bool {
			seq := Generate(NewParamsFromInt64(p, q, x0, x1), n)
			res := CheckStrongDivisibility(seq)
			if res.Satisfied {
				return res.Counterexample == nil
			}
			ce := res.Counterexample
			if ce == nil || ce.M < 1 || ce.N <= ce.M || ce.N > seq.MaxIndex() {
				return false
			}
			g := new(big.Int).GCD(nil, nil,
				new(big.Int).Abs(seq[ce.M]),
				new(big.Int).Abs(seq[ce.N]))
			return g.CmpAbs(seq[gcdIndex(ce.M, ce.N)]) != 0
		},
		gen.Int64Range(-8, 8),
		gen.Int64Range(-8, 8),
		gen.Int64Range(-8, 8),
		gen.Int64Range(-8, 8),
		gen.IntRange(0, 24),
	))

	properties.TestingRun(t)
}

// TestGeneratorMatchesGenerate_PropertyBased verifies that the streaming
// TermGenerator and the slice-producing Generate agree term by term for
// arbitrary parameters.
func TestGeneratorMatchesGenerate_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	ctx := context.Background()

	properties.Property("streamed terms match generated terms", prop.ForAll(
		func(p, q, x0, x1 int64, n int) bool {
			params := NewParamsFromInt64(p, q, x0, x1)
			seq := Generate(params, n)

			g := NewTermGenerator(params)
			for i := 0; i <= n; i++ {
				term, err := g.Next(ctx)
				if err != nil {
					return false
				}
				if term.Cmp(seq[i]) != 0 {
					return false
				}
			}
			return true
		},
		gen.Int64Range(-20, 20),
		gen.Int64Range(-20, 20),
		gen.Int64Range(-20, 20),
		gen.Int64Range(-20, 20),
		gen.IntRange(0, 40),
	))

	properties.TestingRun(t)
}

// TestGeneratePrefixStability_PropertyBased verifies that lengthening a
// generation never changes the earlier terms.
func TestGeneratePrefixStability_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("longer generations preserve shorter prefixes", prop.ForAll(
		func(p, q, x0, x1 int64, n, extra int) bool {
			params := NewParamsFromInt64(p, q, x0, x1)
			short := Generate(params, n)
			long := Generate(params, n+extra)

			for i := range short {
				if short[i].Cmp(long[i]) != 0 {
					return false
				}
			}
			return true
		},
		gen.Int64Range(-20, 20),
		gen.Int64Range(-20, 20),
		gen.Int64Range(-20, 20),
		gen.Int64Range(-20, 20),
		gen.IntRange(0, 30),
		gen.IntRange(0, 10),
	))

	properties.TestingRun(t)
}
