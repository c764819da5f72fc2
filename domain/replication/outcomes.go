// Package replication holds the closed-form algebra of two independent
// replications of the same significance test: given the power of a
// single study, the chances of the pair agreeing or disagreeing.
package replication

import (
	"github.com/GRousselet/post-nocrisis/domain/core"
)

// ConsistentPositive is the probability that two independent studies
// with the given power both reject.
func ConsistentPositive(power float64) float64 {
	return power * power
}

// ConsistentNegative is the probability that both studies fail to reject.
func ConsistentNegative(power float64) float64 {
	return (1 - power) * (1 - power)
}

// Inconsistent is the probability that exactly one of the two studies
// rejects. Symmetric under power <-> 1-power.
func Inconsistent(power float64) float64 {
	return 2 * power * (1 - power)
}

// Outcome bundles the three mutually exclusive two-study results for a
// single-study power value. The three probabilities sum to 1.
type Outcome struct {
	Power              float64 `json:"power"`
	ConsistentPositive float64 `json:"consistent_positive"`
	Inconsistent       float64 `json:"inconsistent"`
	ConsistentNegative float64 `json:"consistent_negative"`
}

// Outcomes evaluates the two-study probabilities at one power value.
func Outcomes(power float64) (Outcome, error) {
	if power < 0 || power > 1 {
		return Outcome{}, core.NewInvalidParameterError("power", power, "must be in [0, 1]")
	}
	return Outcome{
		Power:              power,
		ConsistentPositive: ConsistentPositive(power),
		Inconsistent:       Inconsistent(power),
		ConsistentNegative: ConsistentNegative(power),
	}, nil
}

// Curve evaluates the two-study probabilities on a regular power grid
// from 0 to 1 inclusive. Step must be in (0, 1].
func Curve(step float64) ([]Outcome, error) {
	if step <= 0 || step > 1 {
		return nil, core.NewInvalidParameterError("step", step, "must be in (0, 1]")
	}
	n := int(1/step + 0.5)
	outcomes := make([]Outcome, 0, n+1)
	for i := 0; i <= n; i++ {
		p := float64(i) * step
		if p > 1 {
			p = 1
		}
		o, err := Outcomes(p)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}

// Table maps empirical power estimates (e.g. one per shape/trim cell)
// to their two-study outcome probabilities, preserving order.
func Table(powers []float64) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(powers))
	for _, p := range powers {
		o, err := Outcomes(p)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}
