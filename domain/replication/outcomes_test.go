package replication

import (
	"math"
	"testing"
)

// The three mutually exclusive two-study outcomes partition the sample
// space, so their probabilities must sum to 1 for every power value.
func TestOutcomeProbabilitiesSumToOne(t *testing.T) {
	for p := 0.0; p <= 1.0; p += 0.01 {
		total := ConsistentPositive(p) + Inconsistent(p) + ConsistentNegative(p)
		if math.Abs(total-1) > 1e-12 {
			t.Errorf("Probabilities at power %g sum to %g, want 1", p, total)
		}
	}
}

// Disagreement does not care which study rejected, so it is symmetric
// in power and 1-power.
func TestInconsistentSymmetry(t *testing.T) {
	for p := 0.0; p <= 1.0; p += 0.01 {
		if math.Abs(Inconsistent(p)-Inconsistent(1-p)) > 1e-12 {
			t.Errorf("Inconsistent(%g) != Inconsistent(%g)", p, 1-p)
		}
	}
}

func TestOutcomesKnownValues(t *testing.T) {
	o, err := Outcomes(0.8)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(o.ConsistentPositive-0.64) > 1e-12 {
		t.Errorf("Expected both-reject 0.64 at power 0.8, got %g", o.ConsistentPositive)
	}
	if math.Abs(o.Inconsistent-0.32) > 1e-12 {
		t.Errorf("Expected disagreement 0.32 at power 0.8, got %g", o.Inconsistent)
	}
	if math.Abs(o.ConsistentNegative-0.04) > 1e-12 {
		t.Errorf("Expected neither-rejects 0.04 at power 0.8, got %g", o.ConsistentNegative)
	}

	// Maximum disagreement sits at power 0.5.
	if Inconsistent(0.5) != 0.5 {
		t.Errorf("Expected peak disagreement 0.5, got %g", Inconsistent(0.5))
	}
}

func TestOutcomesRejectsInvalidPower(t *testing.T) {
	if _, err := Outcomes(-0.01); err == nil {
		t.Error("Expected error for power < 0")
	}
	if _, err := Outcomes(1.01); err == nil {
		t.Error("Expected error for power > 1")
	}
}

func TestCurve(t *testing.T) {
	curve, err := Curve(0.05)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(curve) != 21 {
		t.Fatalf("Expected 21 grid points, got %d", len(curve))
	}
	if curve[0].Power != 0 || curve[20].Power != 1 {
		t.Errorf("Expected curve to span [0,1], got [%g,%g]", curve[0].Power, curve[20].Power)
	}

	if _, err := Curve(0); err == nil {
		t.Error("Expected error for step 0")
	}
}

func TestTablePreservesOrder(t *testing.T) {
	powers := []float64{0.2, 0.8, 0.5}
	table, err := Table(powers)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for i, o := range table {
		if o.Power != powers[i] {
			t.Errorf("Row %d: expected power %g, got %g", i, powers[i], o.Power)
		}
	}
}
