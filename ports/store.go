package ports

import (
	"context"

	"github.com/GRousselet/post-nocrisis/domain/core"
	"github.com/GRousselet/post-nocrisis/domain/simulation"
)

// RunSummary is the listing view of a stored simulation run.
type RunSummary struct {
	RunID     core.RunID     `json:"run_id"`
	Label     string         `json:"label"`
	Trials    int            `json:"trials"`
	Shapes    int            `json:"shapes"`
	Trims     int            `json:"trims"`
	CreatedAt core.Timestamp `json:"created_at"`
}

// ResultWriterPort persists completed simulation results. A save is
// all-or-nothing: a partially written bundle must never become visible.
type ResultWriterPort interface {
	Save(ctx context.Context, result *simulation.Result) error
}

// ResultReaderPort provides read access to stored simulation results.
// Load must round-trip exactly: every indicator cell equals the original.
type ResultReaderPort interface {
	Load(ctx context.Context, runID core.RunID) (*simulation.Result, error)
	LoadByLabel(ctx context.Context, label string) (*simulation.Result, error)
	List(ctx context.Context) ([]RunSummary, error)
}

// ResultStorePort combines read and write access
type ResultStorePort interface {
	ResultWriterPort
	ResultReaderPort
}
