package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RenderRun records one boundary rendering: which dataset, which output
// format, the evaluated grid shape, and how long it took.
type RenderRun struct {
	RunID       string `json:"run_id"`
	DatasetID   string `json:"dataset_id"`
	Format      string `json:"format"`
	GridRows    int    `json:"grid_rows"`
	GridCols    int    `json:"grid_cols"`
	DurationMs  int64  `json:"duration_ms"`
	CreatedAtNs int64  `json:"created_at_ns"`
}

// InsertRenderRun stores a render run. If run.RunID is empty a new UUID is
// generated.
func (db *DB) InsertRenderRun(run *RenderRun) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAtNs == 0 {
		run.CreatedAtNs = time.Now().UnixNano()
	}

	_, err := db.Exec(`
		INSERT INTO render_runs (
			run_id, dataset_id, format, grid_rows, grid_cols, duration_ms, created_at_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.DatasetID,
		run.Format,
		run.GridRows,
		run.GridCols,
		run.DurationMs,
		run.CreatedAtNs,
	)
	if err != nil {
		return fmt.Errorf("insert render run: %w", err)
	}
	return nil
}

// ListRenderRuns returns runs for a dataset, newest first.
func (db *DB) ListRenderRuns(datasetID string, limit int) ([]RenderRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT run_id, dataset_id, format, grid_rows, grid_cols, duration_ms, created_at_ns
		FROM render_runs
		WHERE dataset_id = ?
		ORDER BY created_at_ns DESC
		LIMIT ?`, datasetID, limit)
	if err != nil {
		return nil, fmt.Errorf("list render runs: %w", err)
	}
	defer rows.Close()

	var runs []RenderRun
	for rows.Next() {
		var run RenderRun
		if err := rows.Scan(&run.RunID, &run.DatasetID, &run.Format, &run.GridRows,
			&run.GridCols, &run.DurationMs, &run.CreatedAtNs); err != nil {
			return nil, fmt.Errorf("scan render run row: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
