package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/GRousselet/post-nocrisis/domain/core"
	"github.com/GRousselet/post-nocrisis/domain/simulation"
)

// Scenario is a YAML description of one simulation run. Zero-valued
// fields fall back to the reference-study defaults.
type Scenario struct {
	Label       string    `yaml:"label"`
	Trials      int       `yaml:"trials"`
	SampleSize  int       `yaml:"sample_size"`
	Alpha       float64   `yaml:"alpha"`
	TargetPower float64   `yaml:"target_power"`
	EffectSize  float64   `yaml:"effect_size"`
	Seed        int64     `yaml:"seed"`
	GMax        float64   `yaml:"g_max"`
	GStep       float64   `yaml:"g_step"`
	H           float64   `yaml:"h"`
	TrimLevels  []float64 `yaml:"trim_levels"`
}

// DefaultScenario reproduces the reference study's g-curve run for a
// fixed h: g from 0 to 1 in steps of 0.1, n=20, 100000 trials.
func DefaultScenario(h float64) Scenario {
	return Scenario{
		Label:       fmt.Sprintf("g-curve h=%g", h),
		Trials:      100000,
		SampleSize:  20,
		Alpha:       0.05,
		TargetPower: 0.80,
		Seed:        42,
		GMax:        1.0,
		GStep:       0.1,
		H:           h,
		TrimLevels:  []float64{0, 0.10, 0.20},
	}
}

// LoadScenario reads a scenario file and fills defaults for omitted
// fields.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario file %s: %w", path, err)
	}
	scenario := DefaultScenario(0)
	scenario.Label = "" // a file without a label gets one derived from h
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return Scenario{}, fmt.Errorf("failed to parse scenario file %s: %w", path, err)
	}
	if scenario.Label == "" {
		scenario.Label = DefaultScenario(scenario.H).Label
	}
	return scenario, nil
}

// Params converts the scenario into validated simulation parameters.
func (s Scenario) Params() (simulation.Params, error) {
	if s.GStep <= 0 || s.GMax < 0 {
		return simulation.Params{}, core.NewInvalidParameterError("g_step", s.GStep, "grid step must be > 0 and g_max >= 0")
	}
	trims := make([]simulation.TrimLevel, len(s.TrimLevels))
	for i, t := range s.TrimLevels {
		trims[i] = simulation.TrimLevel(t)
	}
	params := simulation.Params{
		Label:       s.Label,
		Trials:      s.Trials,
		SampleSize:  s.SampleSize,
		Alpha:       s.Alpha,
		TargetPower: s.TargetPower,
		EffectSize:  s.EffectSize,
		Seed:        s.Seed,
		Shapes:      simulation.GGrid(s.GMax, s.GStep, s.H),
		Trims:       trims,
	}
	if err := params.Validate(); err != nil {
		return simulation.Params{}, err
	}
	return params, nil
}
