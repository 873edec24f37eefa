// Package scan drives the exploration of recurrence parameter spaces,
// evaluating every combination of coefficients and initial terms against
// the divisibility checkers and collecting the survivors.
package scan

import "fmt"

// Mode selects which parameter dimensions a scan varies. The remaining
// dimensions stay fixed at the values supplied in the Request.
type Mode string

const (
	// ModeSingle evaluates exactly one parameter combination.
	ModeSingle Mode = "single"
	// ModePQ varies the coefficients P and Q over their ranges while the
	// initial terms stay fixed.
	ModePQ Mode = "pq"
	// ModeInit varies the initial terms x(0) and x(1) over their ranges
	// while the coefficients stay fixed.
	ModeInit Mode = "init"
	// ModeAll varies all four dimensions.
	ModeAll Mode = "all"
)

// ParseMode converts a user-supplied mode name into a Mode.
//
// Parameters:
//   - s: The mode name, e.g. from a CLI flag.
//
// Returns:
//   - Mode: The parsed mode.
//   - error: An error naming the valid modes if s is unknown.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSingle, ModePQ, ModeInit, ModeAll:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown scan mode %q (valid: single, pq, init, all)", s)
	}
}

// VariesCoefficients reports whether the mode iterates over P and Q.
func (m Mode) VariesCoefficients() bool {
	return m == ModePQ || m == ModeAll
}

// VariesInitialTerms reports whether the mode iterates over x(0) and x(1).
func (m Mode) VariesInitialTerms() bool {
	return m == ModeInit || m == ModeAll
}

// Description returns a human-readable summary of what the mode explores.
func (m Mode) Description() string {
	switch m {
	case ModeSingle:
		return "single parameter combination"
	case ModePQ:
		return "coefficient sweep (P, Q)"
	case ModeInit:
		return "initial term sweep (x0, x1)"
	case ModeAll:
		return "full parameter sweep (P, Q, x0, x1)"
	default:
		return string(m)
	}
}

// String returns the mode name.
func (m Mode) String() string { return string(m) }
