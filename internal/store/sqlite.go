package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"frbus-sweep/internal/scenario"

	_ "modernc.org/sqlite"
)

const indexSchema = `
CREATE TABLE IF NOT EXISTS lookup (
  run_id             TEXT    NOT NULL,
  simulation_id      INTEGER NOT NULL,
  productivity_shock REAL    NOT NULL,
  persistence        REAL    NOT NULL,
  monetary_response  REAL    NOT NULL,
  avg_gdp_impact     REAL    NOT NULL,
  max_gdp_impact     REAL    NOT NULL,
  failed             INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY (run_id, simulation_id)
);
CREATE INDEX IF NOT EXISTS lookup_params ON lookup (productivity_shock, persistence, monetary_response);
`

// Index is a SQLite copy of the lookup table for filtered queries.
type Index struct {
	db *sql.DB
}

// Filter selects lookup rows by exact parameter values; nil fields match all.
type Filter struct {
	RunID             string
	ProductivityShock *float64
	Persistence       *float64
	MonetaryResponse  *float64
	// Limit caps the result size; 0 means unlimited.
	Limit int
}

// OpenIndex opens (creating if needed) the lookup index at path.
func OpenIndex(path string) (*Index, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("index path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(indexSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Index{db: db}, nil
}

func (ix *Index) Close() error {
	if ix == nil || ix.db == nil {
		return nil
	}
	return ix.db.Close()
}

// Replace stores the rows of one run, dropping any earlier rows with the same run id.
func (ix *Index) Replace(ctx context.Context, runID string, results []scenario.Result) error {
	if strings.TrimSpace(runID) == "" {
		return fmt.Errorf("run id is required")
	}
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM lookup WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("clear run %s: %w", runID, err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO lookup (
	    run_id, simulation_id, productivity_shock, persistence, monetary_response,
	    avg_gdp_impact, max_gdp_impact, failed
	  ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		failed := 0
		if r.Failed() {
			failed = 1
		}
		if _, err := stmt.ExecContext(ctx,
			runID, r.SimulationID, r.ProductivityShock, r.Persistence, r.MonetaryResponse,
			r.Summary.AvgGDPImpact, r.Summary.MaxGDPImpact, failed,
		); err != nil {
			return fmt.Errorf("insert simulation %d: %w", r.SimulationID, err)
		}
	}
	return tx.Commit()
}

// HasRun reports whether any rows of runID are stored.
func (ix *Index) HasRun(ctx context.Context, runID string) (bool, error) {
	var n int
	err := ix.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lookup WHERE run_id = ?`, runID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count run %s: %w", runID, err)
	}
	return n > 0, nil
}

// Query returns matching rows ordered by simulation id.
func (ix *Index) Query(ctx context.Context, f Filter) ([]scenario.LookupRow, error) {
	var (
		where []string
		args  []any
	)
	if f.RunID != "" {
		where = append(where, "run_id = ?")
		args = append(args, f.RunID)
	}
	if f.ProductivityShock != nil {
		where = append(where, "productivity_shock = ?")
		args = append(args, *f.ProductivityShock)
	}
	if f.Persistence != nil {
		where = append(where, "persistence = ?")
		args = append(args, *f.Persistence)
	}
	if f.MonetaryResponse != nil {
		where = append(where, "monetary_response = ?")
		args = append(args, *f.MonetaryResponse)
	}

	q := `SELECT simulation_id, productivity_shock, persistence, monetary_response, avg_gdp_impact, max_gdp_impact FROM lookup`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY run_id, simulation_id"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := ix.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query lookup: %w", err)
	}
	defer rows.Close()

	var out []scenario.LookupRow
	for rows.Next() {
		var r scenario.LookupRow
		if err := rows.Scan(&r.SimulationID, &r.ProductivityShock, &r.Persistence, &r.MonetaryResponse, &r.AvgGDPImpact, &r.MaxGDPImpact); err != nil {
			return nil, fmt.Errorf("scan lookup: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
