package gh

import (
	"math"
	"testing"

	"github.com/GRousselet/post-nocrisis/domain/core"
)

func TestTTestPowerAtZeroShiftEqualsAlpha(t *testing.T) {
	power, err := TTestPower(0, 20, 0.05)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(power-0.05) > 1e-6 {
		t.Errorf("Power at delta=0 should equal alpha: got %.8f", power)
	}
}

func TestTTestPowerMonotoneInShift(t *testing.T) {
	prev := 0.0
	for _, delta := range []float64{0.2, 0.5, 0.8, 1.2} {
		power, err := TTestPower(delta, 20, 0.05)
		if err != nil {
			t.Fatalf("Unexpected error at delta=%g: %v", delta, err)
		}
		if power <= prev {
			t.Errorf("Power %g at delta=%g not above %g", power, delta, prev)
		}
		if power < 0 || power > 1 {
			t.Errorf("Power %g at delta=%g outside [0,1]", power, delta)
		}
		prev = power
	}
}

func TestTTestPowerRejectsBadInput(t *testing.T) {
	if _, err := TTestPower(0.5, 1, 0.05); !core.IsInvalidParameter(err) {
		t.Errorf("Expected invalid-parameter error for n=1, got %v", err)
	}
	if _, err := TTestPower(0.5, 20, 0); !core.IsInvalidParameter(err) {
		t.Errorf("Expected invalid-parameter error for alpha=0, got %v", err)
	}
}

func TestCalibratedShiftRoundTrip(t *testing.T) {
	shift, err := CalibratedShift(20, 0.05, 0.8)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// G*Power's reference answer for n=20, alpha=.05, power=.8 is
	// d ~ 0.66; keep a loose band and check the round trip tightly.
	if shift < 0.6 || shift > 0.72 {
		t.Errorf("Calibrated shift %g outside plausible range [0.6, 0.72]", shift)
	}

	power, err := TTestPower(shift, 20, 0.05)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(power-0.8) > 1e-6 {
		t.Errorf("Round trip power %.8f, want 0.8", power)
	}
}

func TestCalibratedShiftShrinksWithSampleSize(t *testing.T) {
	small, err := CalibratedShift(20, 0.05, 0.8)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	large, err := CalibratedShift(100, 0.05, 0.8)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if large >= small {
		t.Errorf("Expected smaller shift at n=100 (%g) than n=20 (%g)", large, small)
	}
}

func TestCalibratedShiftRejectsBadTarget(t *testing.T) {
	for _, target := range []float64{0, 1, -0.5} {
		if _, err := CalibratedShift(20, 0.05, target); !core.IsInvalidParameter(err) {
			t.Errorf("Expected invalid-parameter error for target=%g, got %v", target, err)
		}
	}
}
