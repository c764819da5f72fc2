package simulation

import (
	"github.com/GRousselet/post-nocrisis/domain/core"
)

// Params fully determines a simulation run. Two runs with equal Params
// (including Seed) produce bit-identical indicator arrays.
type Params struct {
	RunID       core.RunID  `json:"run_id"`
	Label       string      `json:"label"`
	Trials      int         `json:"trials"`
	SampleSize  int         `json:"sample_size"`
	Alpha       float64     `json:"alpha"`
	TargetPower float64     `json:"target_power"`
	// EffectSize is the constant mean shift applied in the Shifted
	// condition. Zero means "calibrate from TargetPower at shape (0,0)".
	EffectSize float64     `json:"effect_size"`
	Seed       int64       `json:"seed"`
	Shapes     []Shape     `json:"shapes"`
	Trims      []TrimLevel `json:"trims"`
}

// Validate rejects malformed configurations before any sampling happens.
func (p Params) Validate() error {
	if p.Trials <= 0 {
		return core.NewInvalidParameterError("trials", p.Trials, "must be > 0")
	}
	if p.SampleSize <= 1 {
		return core.NewInvalidParameterError("sample_size", p.SampleSize, "must be > 1")
	}
	if p.Alpha <= 0 || p.Alpha >= 1 {
		return core.NewInvalidParameterError("alpha", p.Alpha, "must be in (0, 1)")
	}
	if p.EffectSize == 0 && (p.TargetPower <= 0 || p.TargetPower >= 1) {
		return core.NewInvalidParameterError("target_power", p.TargetPower, "must be in (0, 1) when effect size is calibrated")
	}
	if len(p.Shapes) == 0 {
		return core.NewInvalidParameterError("shapes", len(p.Shapes), "grid cannot be empty")
	}
	if len(p.Trims) == 0 {
		return core.NewInvalidParameterError("trims", len(p.Trims), "at least one trim level required")
	}
	for _, s := range p.Shapes {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	for _, tr := range p.Trims {
		if err := tr.Validate(); err != nil {
			return err
		}
		// A trim/n mismatch would degenerate every trial; reject it up front.
		if remaining := p.SampleSize - 2*tr.TrimCount(p.SampleSize); remaining <= 1 {
			return core.NewDegenerateSampleError(p.SampleSize, remaining)
		}
	}
	return nil
}
