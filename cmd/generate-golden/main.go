package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
)

// GoldenOutcome captures one checker verdict in the golden file. The
// counterexample indices are present only when the property failed.
type GoldenOutcome struct {
	Satisfied bool `json:"satisfied"`
	M         int  `json:"m,omitempty"`
	N         int  `json:"n,omitempty"`
}

// GoldenCase represents a single test case in the golden file
type GoldenCase struct {
	Name         string        `json:"name"`
	P            string        `json:"p"`
	Q            string        `json:"q"`
	X0           string        `json:"x0"`
	X1           string        `json:"x1"`
	N            int           `json:"n"`
	Terms        []string      `json:"terms"`
	Divisibility GoldenOutcome `json:"divisibility"`
	Strong       GoldenOutcome `json:"strong_divisibility"`
}

// caseSpec names one recurrence and the prefix length to record.
type caseSpec struct {
	name         string
	p, q, x0, x1 int64
	n            int
}

func main() {
	outputDir := flag.String("out", "internal/recurrence/testdata", "Output directory for the golden file")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	filename := filepath.Join(*outputDir, "sequences_golden.json")
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	// The cases cover the classic named sequences plus the degenerate and
	// sign-flipping corners the checkers must handle:
	// - Fibonacci, Pell, Mersenne: U-type strong divisibility sequences
	// - Lucas: fails both properties
	// - powers-of-two: divisibility without strong divisibility
	// - alternating-zero: zero terms at every even index
	// - negative-terms: sign changes exercise the absolute value comparison
	// - geometric-degenerate: Q = 0 collapses to a geometric progression
	specs := []caseSpec{
		{"fibonacci", 1, -1, 0, 1, 20},
		{"lucas", 1, -1, 2, 1, 20},
		{"pell", 2, -1, 0, 1, 12},
		{"mersenne", 3, 2, 0, 1, 12},
		{"powers-of-two", 3, 2, 1, 2, 10},
		{"alternating-zero", 0, -1, 0, 1, 10},
		{"negative-terms", 1, 2, 0, 1, 12},
		{"geometric-degenerate", 2, 0, 3, 5, 5},
	}

	var data []GoldenCase

	fmt.Println("Generating golden data...")

	for _, spec := range specs {
		data = append(data, buildCase(spec))
		fmt.Printf("Generated %s\n", spec.name)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully generated golden file at %s\n", filename)
}

// buildCase evaluates one recurrence and records the terms and both
// checker verdicts.
func buildCase(spec caseSpec) GoldenCase {
	terms := generateTerms(spec.p, spec.q, spec.x0, spec.x1, spec.n)

	rendered := make([]string, len(terms))
	for i, term := range terms {
		rendered[i] = term.String()
	}

	return GoldenCase{
		Name:         spec.name,
		P:            fmt.Sprintf("%d", spec.p),
		Q:            fmt.Sprintf("%d", spec.q),
		X0:           fmt.Sprintf("%d", spec.x0),
		X1:           fmt.Sprintf("%d", spec.x1),
		N:            spec.n,
		Terms:        rendered,
		Divisibility: checkDivisibility(terms),
		Strong:       checkStrongDivisibility(terms),
	}
}

// generateTerms computes x(0)..x(n) of x(i) = p*x(i-1) - q*x(i-2) with plain
// math/big arithmetic. This serves as our oracle using the standard library,
// deliberately independent of the package under test.
func generateTerms(p, q, x0, x1 int64, n int) []*big.Int {
	bigP := big.NewInt(p)
	bigQ := big.NewInt(q)

	terms := make([]*big.Int, n+1)
	terms[0] = big.NewInt(x0)
	if n >= 1 {
		terms[1] = big.NewInt(x1)
	}
	for i := 2; i <= n; i++ {
		a := new(big.Int).Mul(bigP, terms[i-1])
		b := new(big.Int).Mul(bigQ, terms[i-2])
		terms[i] = a.Sub(a, b)
	}
	return terms
}

// checkDivisibility visits pairs (m, m*k) with m ascending and the multiple
// ascending, skipping zero divisor terms, and reports the first failure.
func checkDivisibility(terms []*big.Int) GoldenOutcome {
	n := len(terms) - 1
	rem := new(big.Int)

	for m := 1; m <= n; m++ {
		if terms[m].Sign() == 0 {
			continue
		}
		for idx := 2 * m; idx <= n; idx += m {
			if rem.Rem(terms[idx], terms[m]).Sign() != 0 {
				return GoldenOutcome{M: m, N: idx}
			}
		}
	}
	return GoldenOutcome{Satisfied: true}
}

// checkStrongDivisibility compares gcd(x(m), x(k)) against |x(gcd(m, k))|
// for every pair m < k and reports the first mismatch.
func checkStrongDivisibility(terms []*big.Int) GoldenOutcome {
	n := len(terms) - 1

	am := new(big.Int)
	ak := new(big.Int)
	g := new(big.Int)

	for m := 1; m <= n; m++ {
		am.Abs(terms[m])
		for k := m + 1; k <= n; k++ {
			ak.Abs(terms[k])
			g.GCD(nil, nil, am, ak)
			if g.CmpAbs(terms[gcd(m, k)]) != 0 {
				return GoldenOutcome{M: m, N: k}
			}
		}
	}
	return GoldenOutcome{Satisfied: true}
}

// gcd returns the greatest common divisor of two positive indices.
func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
