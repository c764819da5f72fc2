package gh

import (
	"math"
	"math/rand"
	"testing"

	"github.com/GRousselet/post-nocrisis/domain/core"
	"github.com/GRousselet/post-nocrisis/domain/simulation"
)

func TestTransformNormalCase(t *testing.T) {
	normal := simulation.Shape{G: 0, H: 0}
	for _, z := range []float64{-2, -0.5, 0, 0.5, 2} {
		if got := Transform(z, normal); got != z {
			t.Errorf("Transform(%g, normal) = %g, want identity", z, got)
		}
	}
}

func TestTransformSkewsRightForPositiveG(t *testing.T) {
	skewed := simulation.Shape{G: 1, H: 0}
	// exp(z)-1 dominates |exp(-z)-1| for z > 0: the right tail
	// stretches while the left compresses.
	right := Transform(2, skewed)
	left := Transform(-2, skewed)
	if right <= -left {
		t.Errorf("Expected right tail %g to exceed left tail magnitude %g", right, -left)
	}
	if Transform(0, skewed) != 0 {
		t.Errorf("Transform(0) must be 0, got %g", Transform(0, skewed))
	}
}

func TestTransformHeavyTails(t *testing.T) {
	heavy := simulation.Shape{G: 0, H: 0.5}
	z := 2.0
	want := z * math.Exp(0.5*z*z/2)
	if got := Transform(z, heavy); math.Abs(got-want) > 1e-15 {
		t.Errorf("Transform(%g, h=0.5) = %g, want %g", z, got, want)
	}
}

func TestSampleDeterminism(t *testing.T) {
	shape := simulation.Shape{G: 0.5, H: 0.1}

	a, err := Sample(rand.New(rand.NewSource(42)), 50, shape)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	b, err := Sample(rand.New(rand.NewSource(42)), 50, shape)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Draw %d differs across identically seeded samples", i)
		}
	}
}

func TestSampleMatchesTransformedNormals(t *testing.T) {
	shape := simulation.Shape{G: 1, H: 0}

	sample, err := Sample(rand.New(rand.NewSource(7)), 20, shape)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	raw := rand.New(rand.NewSource(7))
	for i, x := range sample {
		want := Transform(raw.NormFloat64(), shape)
		if x != want {
			t.Errorf("Draw %d: got %g, want transform of raw normal %g", i, x, want)
		}
	}
}

func TestSampleRejectsBadInput(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	if _, err := Sample(rng, 0, simulation.Shape{}); !core.IsInvalidParameter(err) {
		t.Errorf("Expected invalid-parameter error for n=0, got %v", err)
	}
	if _, err := Sample(rng, 10, simulation.Shape{G: -1}); !core.IsInvalidParameter(err) {
		t.Errorf("Expected invalid-parameter error for g<0, got %v", err)
	}
}
