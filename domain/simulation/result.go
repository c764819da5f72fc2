package simulation

import (
	"fmt"

	"github.com/GRousselet/post-nocrisis/domain/core"
	"github.com/montanaflynn/stats"
)

// Result holds the full indicator arrays of a completed run: one
// rejection bit per (trial, shape, trim) cell, for the null and shifted
// conditions. The driver owns and writes it during a run; afterwards it
// is read-only.
//
// Layout of both buffers: index = (trial*len(Shapes)+shape)*len(Trims)+trim,
// one byte per cell, 0 or 1. Flat buffers keep the per-shape writers on
// disjoint ranges and make the persisted form exactly reproducible.
type Result struct {
	Params    Params         `json:"params"`
	CreatedAt core.Timestamp `json:"created_at"`
	Null      []byte         `json:"-"`
	Shifted   []byte         `json:"-"`
}

// NewResult allocates zeroed indicator buffers sized from the grid.
func NewResult(p Params) *Result {
	n := p.Trials * len(p.Shapes) * len(p.Trims)
	return &Result{
		Params:    p,
		CreatedAt: core.Now(),
		Null:      make([]byte, n),
		Shifted:   make([]byte, n),
	}
}

func (r *Result) index(trial, shapeIdx, trimIdx int) int {
	return (trial*len(r.Params.Shapes)+shapeIdx)*len(r.Params.Trims) + trimIdx
}

func (r *Result) buffer(c Condition) []byte {
	if c == Shifted {
		return r.Shifted
	}
	return r.Null
}

// SetOutcome records one trial outcome. Concurrent callers must write
// disjoint cells; the driver guarantees this by sharding on shape index.
func (r *Result) SetOutcome(c Condition, trial, shapeIdx, trimIdx int, rejected bool) {
	if rejected {
		r.buffer(c)[r.index(trial, shapeIdx, trimIdx)] = 1
	}
}

// Outcome reports whether the test rejected in the given cell.
func (r *Result) Outcome(c Condition, trial, shapeIdx, trimIdx int) bool {
	return r.buffer(c)[r.index(trial, shapeIdx, trimIdx)] == 1
}

// Validate checks the dimensional invariants between params and buffers.
func (r *Result) Validate() error {
	want := r.Params.Trials * len(r.Params.Shapes) * len(r.Params.Trims)
	if len(r.Null) != want || len(r.Shifted) != want {
		return fmt.Errorf("%w: indicator buffers have %d/%d cells, want %d",
			core.ErrInvalidParameter, len(r.Null), len(r.Shifted), want)
	}
	return r.Params.Validate()
}

// Rate is the empirical rejection rate over the trial dimension for one
// (shape, trim) cell: the false-positive rate under Null, power under
// Shifted.
func (r *Result) Rate(c Condition, shapeIdx, trimIdx int) float64 {
	indicators := make([]float64, r.Params.Trials)
	for trial := 0; trial < r.Params.Trials; trial++ {
		indicators[trial] = float64(r.buffer(c)[r.index(trial, shapeIdx, trimIdx)])
	}
	rate, err := stats.Mean(stats.Float64Data(indicators))
	if err != nil {
		// Trials > 0 is a Params invariant, so Mean cannot fail here.
		return 0
	}
	return rate
}

// RatePoint is one tidy row for the plotting collaborator.
type RatePoint struct {
	G           float64 `json:"g"`
	H           float64 `json:"h"`
	TrimLabel   string  `json:"trim"`
	Probability float64 `json:"probability"`
}

// RateTable reduces one condition's indicators to tidy
// (shape, probability, trim-label) rows, ordered by trim then shape.
func (r *Result) RateTable(c Condition) []RatePoint {
	points := make([]RatePoint, 0, len(r.Params.Shapes)*len(r.Params.Trims))
	for trimIdx, trim := range r.Params.Trims {
		for shapeIdx, shape := range r.Params.Shapes {
			points = append(points, RatePoint{
				G:           shape.G,
				H:           shape.H,
				TrimLabel:   trim.Label(),
				Probability: r.Rate(c, shapeIdx, trimIdx),
			})
		}
	}
	return points
}

// Fingerprint is a deterministic digest of the indicator arrays, used to
// verify bit-reproducibility across runs with identical seeds.
func (r *Result) Fingerprint() string {
	data := make([]byte, 0, len(r.Null)+len(r.Shifted)+len(r.Params.Label))
	data = append(data, r.Params.Label...)
	data = append(data, r.Null...)
	data = append(data, r.Shifted...)
	return string(core.NewHashDigest(data))
}
