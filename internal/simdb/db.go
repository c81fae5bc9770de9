// Package simdb persists simulation runs and their per-deposit yields in
// sqlite.
package simdb

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/coldbox-data/yield.report/internal/ionization"
)

type DB struct {
	*sql.DB
}

// NewDB opens (or creates) the results database at path and ensures the
// base schema exists. Use MigrateUp for schema changes beyond the base.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT PRIMARY KEY,
			model             TEXT,
			temperature_k     DOUBLE,
			efield_kvcm       DOUBLE,
			num_deposits      BIGINT,
			started_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS results (
			run_id            TEXT,
			event_id          TEXT,
			pdg_code          BIGINT,
			energy_mev        DOUBLE,
			step_length_cm    DOUBLE,
			electrons         DOUBLE,
			photons           DOUBLE,
			yield_ratio       DOUBLE,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &DB{db}, nil
}

// Run describes one simulation pass over a deposit stream.
type Run struct {
	RunID        uuid.UUID `json:"run_id"`
	Model        string    `json:"model"`
	TemperatureK float64   `json:"temperature_k"`
	EfieldKVcm   float64   `json:"efield_kvcm"`
	NumDeposits  int       `json:"num_deposits"`
	StartedAt    time.Time `json:"started_at"`
}

// RecordRun inserts the run header row.
func (db *DB) RecordRun(r Run) error {
	_, err := db.Exec(
		`INSERT INTO runs (run_id, model, temperature_k, efield_kvcm, num_deposits, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.RunID.String(), r.Model, r.TemperatureK, r.EfieldKVcm, r.NumDeposits, r.StartedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// ResultRow pairs a computed yield with the deposit it came from.
type ResultRow struct {
	EventID    uuid.UUID
	PDGCode    int
	StepLength float64
	Result     ionization.Result
}

// RecordResults inserts all rows of a run in one transaction. Non-finite
// floats are stored as NULL; sqlite has no representation for them and a
// partial write would be worse than an explicit gap.
func (db *DB) RecordResults(runID uuid.UUID, rows []ResultRow) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO results (run_id, event_id, pdg_code, energy_mev, step_length_cm, electrons, photons, yield_ratio)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err := stmt.Exec(
			runID.String(),
			row.EventID.String(),
			row.PDGCode,
			row.Result.Energy,
			row.StepLength,
			nullIfNonFinite(row.Result.Electrons),
			nullIfNonFinite(row.Result.Photons),
			row.Result.ScintYieldRatio,
		)
		if err != nil {
			return fmt.Errorf("failed to insert result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit results: %w", err)
	}
	return nil
}

// Runs lists recorded runs, newest first.
func (db *DB) Runs() ([]Run, error) {
	rows, err := db.Query(
		`SELECT run_id, model, temperature_k, efield_kvcm, num_deposits, started_at
		 FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var id string
		if err := rows.Scan(&id, &r.Model, &r.TemperatureK, &r.EfieldKVcm, &r.NumDeposits, &r.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.RunID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid run_id %q: %w", id, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunTotals holds the aggregates sqlite can compute directly. NULL yield
// columns (non-finite results) are excluded by the aggregates and counted
// separately.
type RunTotals struct {
	NumResults    int     `json:"num_results"`
	NumNull       int     `json:"num_null"`
	TotalEnergy   float64 `json:"total_energy_mev"`
	MeanElectrons float64 `json:"mean_electrons"`
	MeanPhotons   float64 `json:"mean_photons"`
}

// Totals aggregates the stored results of one run.
func (db *DB) Totals(runID uuid.UUID) (RunTotals, error) {
	var t RunTotals
	var meanE, meanP sql.NullFloat64
	err := db.QueryRow(
		`SELECT COUNT(*),
		        COUNT(*) - COUNT(electrons),
		        COALESCE(SUM(energy_mev), 0),
		        AVG(electrons),
		        AVG(photons)
		 FROM results WHERE run_id = ?`, runID.String(),
	).Scan(&t.NumResults, &t.NumNull, &t.TotalEnergy, &meanE, &meanP)
	if err != nil {
		return RunTotals{}, fmt.Errorf("failed to aggregate run %s: %w", runID, err)
	}
	t.MeanElectrons = meanE.Float64
	t.MeanPhotons = meanP.Float64
	return t, nil
}

func nullIfNonFinite(v float64) interface{} {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return v
}
