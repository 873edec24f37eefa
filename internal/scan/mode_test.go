package scan

import "testing"

func TestParseMode(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"single", "pq", "init", "all"} {
		mode, err := ParseMode(valid)
		if err != nil {
			t.Errorf("ParseMode(%q) failed: %v", valid, err)
		}
		if mode.String() != valid {
			t.Errorf("ParseMode(%q) = %q", valid, mode)
		}
	}

	for _, invalid := range []string{"", "both", "PQ", "everything"} {
		if _, err := ParseMode(invalid); err == nil {
			t.Errorf("ParseMode(%q) should fail", invalid)
		}
	}
}

func TestModeVariation(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		mode         Mode
		coefficients bool
		initialTerms bool
	}{
		{ModeSingle, false, false},
		{ModePQ, true, false},
		{ModeInit, false, true},
		{ModeAll, true, true},
	}

	for _, tc := range testCases {
		if got := tc.mode.VariesCoefficients(); got != tc.coefficients {
			t.Errorf("%s.VariesCoefficients() = %v, want %v", tc.mode, got, tc.coefficients)
		}
		if got := tc.mode.VariesInitialTerms(); got != tc.initialTerms {
			t.Errorf("%s.VariesInitialTerms() = %v, want %v", tc.mode, got, tc.initialTerms)
		}
	}
}

func TestModeDescription(t *testing.T) {
	t.Parallel()

	for _, mode := range []Mode{ModeSingle, ModePQ, ModeInit, ModeAll} {
		if mode.Description() == "" {
			t.Errorf("%s has empty description", mode)
		}
	}
}
