// Package testkit provides in-memory adapters and small fixtures for
// tests that exercise the simulation pipeline without a database.
package testkit

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/GRousselet/post-nocrisis/domain/core"
	"github.com/GRousselet/post-nocrisis/domain/simulation"
	"github.com/GRousselet/post-nocrisis/ports"
)

// InMemoryStore implements ports.ResultStorePort backed by a map.
type InMemoryStore struct {
	mu   sync.RWMutex
	runs map[core.RunID]*simulation.Result
}

// NewInMemoryStore creates an empty in-memory result store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{runs: make(map[core.RunID]*simulation.Result)}
}

// Save stores a result keyed by its run ID.
func (s *InMemoryStore) Save(ctx context.Context, result *simulation.Result) error {
	if err := result.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.runs[result.Params.RunID]; exists {
		return fmt.Errorf("run %s already stored", result.Params.RunID)
	}
	s.runs[result.Params.RunID] = result
	return nil
}

// Load retrieves a stored result by run ID.
func (s *InMemoryStore) Load(ctx context.Context, runID core.RunID) (*simulation.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, runID)
	}
	return result, nil
}

// LoadByLabel retrieves the most recently created run with the label.
func (s *InMemoryStore) LoadByLabel(ctx context.Context, label string) (*simulation.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *simulation.Result
	for _, result := range s.runs {
		if result.Params.Label != label {
			continue
		}
		if latest == nil || result.CreatedAt.Time().After(latest.CreatedAt.Time()) {
			latest = result
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("%w: label %q", core.ErrRunNotFound, label)
	}
	return latest, nil
}

// List returns summaries of stored runs, newest first.
func (s *InMemoryStore) List(ctx context.Context) ([]ports.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summaries := make([]ports.RunSummary, 0, len(s.runs))
	for _, result := range s.runs {
		summaries = append(summaries, ports.RunSummary{
			RunID:     result.Params.RunID,
			Label:     result.Params.Label,
			Trials:    result.Params.Trials,
			Shapes:    len(result.Params.Shapes),
			Trims:     len(result.Params.Trims),
			CreatedAt: result.CreatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.Time().After(summaries[j].CreatedAt.Time())
	})
	return summaries, nil
}

// SmallParams is a reduced grid sized for fast deterministic tests:
// three shapes, the three reference trim levels, and enough trials to
// make empirical rates stable without slowing the suite down.
func SmallParams(trials int) simulation.Params {
	return simulation.Params{
		Label:       "testkit",
		Trials:      trials,
		SampleSize:  20,
		Alpha:       0.05,
		TargetPower: 0.80,
		Seed:        42,
		Shapes: []simulation.Shape{
			{G: 0, H: 0},
			{G: 0.5, H: 0},
			{G: 1, H: 0},
		},
		Trims: simulation.DefaultTrimLevels(),
	}
}
