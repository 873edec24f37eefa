// Package recurrence implements generation and divisibility analysis for
// second-order linear recurrences of the form
//
//	x(n) = P*x(n-1) - Q*x(n-2)
//
// over arbitrary-precision integers. The sign convention follows the
// Lucas sequence literature: the characteristic polynomial is
// t^2 - P*t + Q and the discriminant is P^2 - 4Q. Fibonacci numbers are
// the instance P=1, Q=-1, x(0)=0, x(1)=1.
//
// All exported entry points operate on math/big values and never mutate
// their arguments.
package recurrence

import (
	"fmt"
	"math/big"
)

// four is used when computing discriminants.
var four = big.NewInt(4)

// Params identifies a single recurrence: the two coefficients and the two
// initial terms. Construct values with NewParams or NewParamsFromInt64;
// both copy their inputs, so a Params value is independent of the big.Int
// instances it was built from. Treat the fields as read-only.
type Params struct {
	// P is the coefficient of x(n-1).
	P *big.Int
	// Q is the coefficient subtracted with x(n-2).
	Q *big.Int
	// X0 is the initial term x(0).
	X0 *big.Int
	// X1 is the initial term x(1).
	X1 *big.Int
}

// NewParams creates a Params value from big.Int coefficients and initial
// terms. The inputs are copied; callers may reuse or mutate them afterwards.
//
// Parameters:
//   - p, q: The recurrence coefficients.
//   - x0, x1: The initial terms.
//
// Returns:
//   - Params: The assembled parameter set.
func NewParams(p, q, x0, x1 *big.Int) Params {
	return Params{
		P:  new(big.Int).Set(p),
		Q:  new(big.Int).Set(q),
		X0: new(big.Int).Set(x0),
		X1: new(big.Int).Set(x1),
	}
}

// NewParamsFromInt64 creates a Params value from machine integers. It is a
// convenience for CLI flags and HTTP query parameters, which arrive as
// int64; the sequence terms themselves still grow without bound.
func NewParamsFromInt64(p, q, x0, x1 int64) Params {
	return Params{
		P:  big.NewInt(p),
		Q:  big.NewInt(q),
		X0: big.NewInt(x0),
		X1: big.NewInt(x1),
	}
}

// Discriminant returns P^2 - 4Q as a fresh big.Int.
//
// The discriminant determines the character of the closed form: a positive
// value gives two real characteristic roots, zero a repeated root, and a
// negative value a conjugate complex pair.
func (pr Params) Discriminant() *big.Int {
	d := new(big.Int).Mul(pr.P, pr.P)
	return d.Sub(d, new(big.Int).Mul(four, pr.Q))
}

// IsDegenerate reports whether Q is zero. With Q=0 the recurrence collapses
// to x(n) = P*x(n-1), a geometric progression from x(1) onward, which the
// scan driver excludes from exploration.
func (pr Params) IsDegenerate() bool {
	return pr.Q.Sign() == 0
}

// IsUType reports whether the initial terms are x(0)=0, x(1)=1, i.e. the
// recurrence is the Lucas sequence of the first kind U(P,Q). U-type
// sequences are the classic source of strong divisibility sequences.
func (pr Params) IsUType() bool {
	return pr.X0.Sign() == 0 && pr.X1.Cmp(big.NewInt(1)) == 0
}

// Companion returns the parameters of the U-type companion sequence
// U(P,Q): same coefficients, initial terms reset to 0 and 1.
func (pr Params) Companion() Params {
	return Params{
		P:  new(big.Int).Set(pr.P),
		Q:  new(big.Int).Set(pr.Q),
		X0: big.NewInt(0),
		X1: big.NewInt(1),
	}
}

// Equation renders the recurrence in human-readable form, e.g.
// "x(n) = 1*x(n-1) - (-1)*x(n-2)".
func (pr Params) Equation() string {
	return fmt.Sprintf("x(n) = %s*x(n-1) - (%s)*x(n-2)", pr.P.String(), pr.Q.String())
}

// CharacteristicPolynomial renders the characteristic polynomial
// t^2 - P*t + Q in human-readable form.
func (pr Params) CharacteristicPolynomial() string {
	return fmt.Sprintf("t^2 - (%s)*t + (%s)", pr.P.String(), pr.Q.String())
}

// String returns a compact single-line rendering of the parameters,
// suitable for log fields and report lines.
func (pr Params) String() string {
	return fmt.Sprintf("P=%s Q=%s x0=%s x1=%s", pr.P, pr.Q, pr.X0, pr.X1)
}
