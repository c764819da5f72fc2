package app

import (
	"context"
	"fmt"

	"github.com/GRousselet/post-nocrisis/domain/core"
	"github.com/GRousselet/post-nocrisis/domain/replication"
	"github.com/GRousselet/post-nocrisis/domain/simulation"
	"github.com/GRousselet/post-nocrisis/ports"
)

// RatesService reduces stored indicator arrays to the tables consumed
// by the plotting collaborator and the report writer.
type RatesService struct {
	store ports.ResultReaderPort
}

// NewRatesService creates a rates service over a result store.
func NewRatesService(store ports.ResultReaderPort) *RatesService {
	return &RatesService{store: store}
}

// ConsistencyRow pairs one (shape, trim) cell's empirical power with its
// derived two-study outcome probabilities.
type ConsistencyRow struct {
	G         float64             `json:"g"`
	H         float64             `json:"h"`
	TrimLabel string              `json:"trim"`
	Outcome   replication.Outcome `json:"outcome"`
}

// RunRates is the full aggregated view of one simulation run.
type RunRates struct {
	Params        simulation.Params      `json:"params"`
	FalsePositive []simulation.RatePoint `json:"false_positive"`
	Power         []simulation.RatePoint `json:"power"`
	Consistency   []ConsistencyRow       `json:"consistency"`
}

// Rates loads a run by ID and aggregates it.
func (s *RatesService) Rates(ctx context.Context, runID core.RunID) (*RunRates, error) {
	result, err := s.store.Load(ctx, runID)
	if err != nil {
		return nil, err
	}
	return Aggregate(result)
}

// RatesByLabel loads the latest run with the given label and aggregates it.
func (s *RatesService) RatesByLabel(ctx context.Context, label string) (*RunRates, error) {
	result, err := s.store.LoadByLabel(ctx, label)
	if err != nil {
		return nil, err
	}
	return Aggregate(result)
}

// Aggregate reduces a completed result to empirical rate tables and the
// two-study consistency probabilities implied by the empirical power.
func Aggregate(result *simulation.Result) (*RunRates, error) {
	if err := result.Validate(); err != nil {
		return nil, err
	}

	power := result.RateTable(simulation.Shifted)
	consistency := make([]ConsistencyRow, 0, len(power))
	for _, point := range power {
		outcome, err := replication.Outcomes(point.Probability)
		if err != nil {
			return nil, fmt.Errorf("consistency for g=%g trim %s: %w", point.G, point.TrimLabel, err)
		}
		consistency = append(consistency, ConsistencyRow{
			G:         point.G,
			H:         point.H,
			TrimLabel: point.TrimLabel,
			Outcome:   outcome,
		})
	}

	return &RunRates{
		Params:        result.Params,
		FalsePositive: result.RateTable(simulation.Null),
		Power:         power,
		Consistency:   consistency,
	}, nil
}
