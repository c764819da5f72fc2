// Package store persists simulation result bundles through sqlx. The
// default driver is the embedded sqlite build (modernc.org/sqlite); a
// Postgres DSN selects lib/pq instead. Queries are written with ?
// placeholders and rebound per driver.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/GRousselet/post-nocrisis/domain/core"
	"github.com/GRousselet/post-nocrisis/domain/simulation"
	"github.com/GRousselet/post-nocrisis/ports"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var schemas = map[string]string{
	DriverSQLite: `
		CREATE TABLE IF NOT EXISTS simulation_runs (
			run_id             TEXT PRIMARY KEY,
			label              TEXT NOT NULL,
			created_at         TIMESTAMP NOT NULL,
			params             TEXT NOT NULL,
			null_indicators    BLOB NOT NULL,
			shifted_indicators BLOB NOT NULL
		)`,
	DriverPostgres: `
		CREATE TABLE IF NOT EXISTS simulation_runs (
			run_id             TEXT PRIMARY KEY,
			label              TEXT NOT NULL,
			created_at         TIMESTAMPTZ NOT NULL,
			params             TEXT NOT NULL,
			null_indicators    BYTEA NOT NULL,
			shifted_indicators BYTEA NOT NULL
		)`,
}

// SQLStore implements ports.ResultStorePort on a SQL database.
type SQLStore struct {
	db     *sqlx.DB
	driver string
}

// Open connects to the database, creates the schema if needed, and
// returns a ready store. driver is "sqlite" or "postgres".
func Open(driver, dsn string) (*SQLStore, error) {
	schema, ok := schemas[driver]
	if !ok {
		return nil, core.NewInvalidParameterError("driver", driver, "must be sqlite or postgres")
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", driver, err)
	}
	if driver == DriverSQLite {
		// sqlite supports a single writer; serializing connections keeps
		// the atomic-save guarantee simple.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLStore{db: db, driver: driver}, nil
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Save stores a completed run in a single transaction. Nothing becomes
// visible unless the whole bundle commits.
func (s *SQLStore) Save(ctx context.Context, result *simulation.Result) error {
	if err := result.Validate(); err != nil {
		return fmt.Errorf("refusing to persist invalid result: %w", err)
	}
	paramsJSON, err := json.Marshal(result.Params)
	if err != nil {
		return fmt.Errorf("failed to marshal run params: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin save transaction: %w", err)
	}
	defer tx.Rollback()

	query := tx.Rebind(`
		INSERT INTO simulation_runs
			(run_id, label, created_at, params, null_indicators, shifted_indicators)
		VALUES (?, ?, ?, ?, ?, ?)`)
	_, err = tx.ExecContext(ctx, query,
		result.Params.RunID.String(),
		result.Params.Label,
		result.CreatedAt.Time().UTC(),
		string(paramsJSON),
		result.Null,
		result.Shifted,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", result.Params.RunID, err)
	}
	return tx.Commit()
}

type runRow struct {
	RunID     string    `db:"run_id"`
	Label     string    `db:"label"`
	CreatedAt time.Time `db:"created_at"`
	Params    string    `db:"params"`
	Null      []byte    `db:"null_indicators"`
	Shifted   []byte    `db:"shifted_indicators"`
}

func (s *SQLStore) loadRow(ctx context.Context, where string, arg interface{}) (*simulation.Result, error) {
	query := s.db.Rebind(`
		SELECT run_id, label, created_at, params, null_indicators, shifted_indicators
		FROM simulation_runs WHERE ` + where)

	var row runRow
	if err := s.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %v", core.ErrRunNotFound, arg)
		}
		return nil, fmt.Errorf("failed to load run %v: %w", arg, err)
	}

	var params simulation.Params
	if err := json.Unmarshal([]byte(row.Params), &params); err != nil {
		return nil, fmt.Errorf("failed to unmarshal params for run %s: %w", row.RunID, err)
	}
	result := &simulation.Result{
		Params:    params,
		CreatedAt: core.NewTimestamp(row.CreatedAt),
		Null:      row.Null,
		Shifted:   row.Shifted,
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("stored run %s is corrupt: %w", row.RunID, err)
	}
	return result, nil
}

// Load retrieves a run bundle by ID. Round-trips exactly.
func (s *SQLStore) Load(ctx context.Context, runID core.RunID) (*simulation.Result, error) {
	return s.loadRow(ctx, "run_id = ?", runID.String())
}

// LoadByLabel retrieves the most recently saved run with the given label.
func (s *SQLStore) LoadByLabel(ctx context.Context, label string) (*simulation.Result, error) {
	return s.loadRow(ctx, "label = ? ORDER BY created_at DESC LIMIT 1", label)
}

// List returns summaries of all stored runs, newest first.
func (s *SQLStore) List(ctx context.Context) ([]ports.RunSummary, error) {
	query := `
		SELECT run_id, label, created_at, params
		FROM simulation_runs ORDER BY created_at DESC`

	type listRow struct {
		RunID     string    `db:"run_id"`
		Label     string    `db:"label"`
		CreatedAt time.Time `db:"created_at"`
		Params    string    `db:"params"`
	}
	var rows []listRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	summaries := make([]ports.RunSummary, 0, len(rows))
	for _, row := range rows {
		var params simulation.Params
		if err := json.Unmarshal([]byte(row.Params), &params); err != nil {
			return nil, fmt.Errorf("failed to unmarshal params for run %s: %w", row.RunID, err)
		}
		summaries = append(summaries, ports.RunSummary{
			RunID:     core.RunID(row.RunID),
			Label:     row.Label,
			Trials:    params.Trials,
			Shapes:    len(params.Shapes),
			Trims:     len(params.Trims),
			CreatedAt: core.NewTimestamp(row.CreatedAt),
		})
	}
	return summaries, nil
}
