package simulation

import (
	"fmt"

	"github.com/GRousselet/post-nocrisis/domain/core"
)

// Shape holds the two parameters of the g-and-h distribution family.
// G controls skewness (0 = symmetric), H controls tail heaviness
// (0 = normal-type tails, larger = heavier).
type Shape struct {
	G float64 `json:"g" yaml:"g"`
	H float64 `json:"h" yaml:"h"`
}

// Validate checks the parameter ranges used in this study.
// The family supports negative g, but the simulation grid does not.
func (s Shape) Validate() error {
	if s.G < 0 {
		return core.NewInvalidParameterError("g", s.G, "must be >= 0")
	}
	if s.H < 0 {
		return core.NewInvalidParameterError("h", s.H, "must be >= 0")
	}
	return nil
}

// IsNormal reports whether the shape is the standard normal limit case.
func (s Shape) IsNormal() bool {
	return s.G == 0 && s.H == 0
}

func (s Shape) String() string {
	return fmt.Sprintf("g=%g h=%g", s.G, s.H)
}

// GGrid builds the study's shape grid: g from 0 to gMax in fixed steps,
// with h held constant across the grid.
func GGrid(gMax, step, h float64) []Shape {
	var shapes []Shape
	// Step by index to avoid accumulating float error across the grid.
	n := int(gMax/step + 0.5)
	for i := 0; i <= n; i++ {
		shapes = append(shapes, Shape{G: float64(i) * step, H: h})
	}
	return shapes
}

// TrimLevel is the fraction of observations discarded from each tail
// before computing a mean.
type TrimLevel float64

// Validate rejects trim levels outside [0, 0.5).
func (t TrimLevel) Validate() error {
	if t < 0 || t >= 0.5 {
		return core.NewInvalidParameterError("trim", float64(t), "must be in [0, 0.5)")
	}
	return nil
}

// Label renders the trim level as a percentage, e.g. "20%".
func (t TrimLevel) Label() string {
	return fmt.Sprintf("%g%%", float64(t)*100)
}

// TrimCount returns k, the number of order statistics discarded from
// each tail of a sample of size n.
func (t TrimLevel) TrimCount(n int) int {
	return int(float64(t) * float64(n))
}

// DefaultTrimLevels are the trimming levels used in the reference study.
func DefaultTrimLevels() []TrimLevel {
	return []TrimLevel{0, 0.10, 0.20}
}

// Condition distinguishes the two simulated states of the world.
type Condition int

const (
	// Null draws come from the unshifted population; rejections are
	// false positives.
	Null Condition = iota
	// Shifted draws have the calibrated effect size added to every
	// observation; rejections are true positives.
	Shifted
)

func (c Condition) String() string {
	switch c {
	case Null:
		return "null"
	case Shifted:
		return "shifted"
	default:
		return fmt.Sprintf("condition(%d)", int(c))
	}
}
