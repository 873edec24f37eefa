package recurrence

import (
	"math/big"
	"testing"
)

// TestDiscriminant validates the discriminant computation against known
// classical sequences.
func TestDiscriminant(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name string
		p, q int64
		want int64
	}{
		{"Fibonacci", 1, -1, 5},
		{"Lucas", 1, -1, 5},
		{"Pell", 2, -1, 8},
		{"Mersenne", 3, 2, 1},
		{"RepeatedRoot", 2, 1, 0},
		{"ComplexRoots", 1, 2, -7},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			params := NewParamsFromInt64(tc.p, tc.q, 0, 1)
			got := params.Discriminant()
			if got.Cmp(big.NewInt(tc.want)) != 0 {
				t.Errorf("Discriminant(P=%d, Q=%d) = %s, want %d", tc.p, tc.q, got, tc.want)
			}
		})
	}
}

// TestDiscriminantLargeValues exercises the discriminant beyond the int64
// range to confirm nothing silently truncates.
func TestDiscriminantLargeValues(t *testing.T) {
	t.Parallel()

	p := new(big.Int)
	p.SetString("10000000000000000000", 10) // > MaxInt64
	q := big.NewInt(1)
	params := NewParams(p, q, big.NewInt(0), big.NewInt(1))

	want := new(big.Int).Mul(p, p)
	want.Sub(want, big.NewInt(4))
	if got := params.Discriminant(); got.Cmp(want) != 0 {
		t.Errorf("Discriminant = %s, want %s", got, want)
	}
}

func TestNewParamsCopiesInputs(t *testing.T) {
	t.Parallel()

	p := big.NewInt(1)
	q := big.NewInt(-1)
	x0 := big.NewInt(0)
	x1 := big.NewInt(1)
	params := NewParams(p, q, x0, x1)

	// Mutating the originals must not be visible through the Params value.
	p.SetInt64(99)
	q.SetInt64(99)
	x0.SetInt64(99)
	x1.SetInt64(99)

	if params.P.Cmp(big.NewInt(1)) != 0 || params.Q.Cmp(big.NewInt(-1)) != 0 {
		t.Errorf("coefficients aliased caller storage: got P=%s Q=%s", params.P, params.Q)
	}
	if params.X0.Sign() != 0 || params.X1.Cmp(big.NewInt(1)) != 0 {
		t.Errorf("initial terms aliased caller storage: got x0=%s x1=%s", params.X0, params.X1)
	}
}

func TestIsDegenerate(t *testing.T) {
	t.Parallel()

	if !NewParamsFromInt64(5, 0, 1, 2).IsDegenerate() {
		t.Error("Q=0 should be degenerate")
	}
	if NewParamsFromInt64(5, -3, 1, 2).IsDegenerate() {
		t.Error("Q=-3 should not be degenerate")
	}
}

func TestIsUTypeAndCompanion(t *testing.T) {
	t.Parallel()

	fib := NewParamsFromInt64(1, -1, 0, 1)
	if !fib.IsUType() {
		t.Error("Fibonacci parameters should be U-type")
	}

	lucas := NewParamsFromInt64(1, -1, 2, 1)
	if lucas.IsUType() {
		t.Error("Lucas parameters should not be U-type")
	}

	companion := lucas.Companion()
	if !companion.IsUType() {
		t.Errorf("companion of %s should be U-type, got %s", lucas, companion)
	}
	if companion.P.Cmp(lucas.P) != 0 || companion.Q.Cmp(lucas.Q) != 0 {
		t.Errorf("companion must preserve coefficients: got %s", companion)
	}
}

func TestParamsRendering(t *testing.T) {
	t.Parallel()

	params := NewParamsFromInt64(1, -1, 2, 1)

	if got, want := params.Equation(), "x(n) = 1*x(n-1) - (-1)*x(n-2)"; got != want {
		t.Errorf("Equation() = %q, want %q", got, want)
	}
	if got, want := params.CharacteristicPolynomial(), "t^2 - (1)*t + (-1)"; got != want {
		t.Errorf("CharacteristicPolynomial() = %q, want %q", got, want)
	}
	if got, want := params.String(), "P=1 Q=-1 x0=2 x1=1"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
