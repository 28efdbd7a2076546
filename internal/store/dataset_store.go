package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mlviz/boundary.report/internal/boundary"
)

// ErrDatasetNotFound is returned when a dataset ID has no row.
var ErrDatasetNotFound = errors.New("store: dataset not found")

// DatasetRecord is a stored dataset. Points and labels are serialised as
// JSON columns; DatasetInfo carries the metadata-only view for listings.
type DatasetRecord struct {
	DatasetInfo
	Data boundary.Dataset `json:"-"`
}

// DatasetInfo is the listing view of a stored dataset.
type DatasetInfo struct {
	DatasetID   string `json:"dataset_id"`
	Name        string `json:"name"`
	PointCount  int    `json:"point_count"`
	CreatedAtNs int64  `json:"created_at_ns"`
}

// InsertDataset stores a dataset. If rec.DatasetID is empty a new UUID is
// generated; PointCount and CreatedAtNs are filled in.
func (db *DB) InsertDataset(rec *DatasetRecord) error {
	if err := rec.Data.Validate(); err != nil {
		return err
	}
	if rec.DatasetID == "" {
		rec.DatasetID = uuid.New().String()
	}
	if rec.CreatedAtNs == 0 {
		rec.CreatedAtNs = time.Now().UnixNano()
	}
	rec.PointCount = rec.Data.Len()

	pointsJSON, err := json.Marshal(rec.Data.Points)
	if err != nil {
		return fmt.Errorf("marshal points: %w", err)
	}
	labelsJSON, err := json.Marshal(rec.Data.Labels)
	if err != nil {
		return fmt.Errorf("marshal labels: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO datasets (
			dataset_id, name, points_json, labels_json, point_count, created_at_ns
		) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.DatasetID,
		rec.Name,
		string(pointsJSON),
		string(labelsJSON),
		rec.PointCount,
		rec.CreatedAtNs,
	)
	if err != nil {
		return fmt.Errorf("insert dataset: %w", err)
	}
	return nil
}

// GetDataset retrieves a dataset with its points and labels.
func (db *DB) GetDataset(datasetID string) (*DatasetRecord, error) {
	var rec DatasetRecord
	var pointsJSON, labelsJSON string

	err := db.QueryRow(`
		SELECT dataset_id, name, points_json, labels_json, point_count, created_at_ns
		FROM datasets
		WHERE dataset_id = ?`, datasetID).Scan(
		&rec.DatasetID,
		&rec.Name,
		&pointsJSON,
		&labelsJSON,
		&rec.PointCount,
		&rec.CreatedAtNs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, datasetID)
	}
	if err != nil {
		return nil, fmt.Errorf("get dataset: %w", err)
	}

	if err := json.Unmarshal([]byte(pointsJSON), &rec.Data.Points); err != nil {
		return nil, fmt.Errorf("unmarshal points: %w", err)
	}
	if err := json.Unmarshal([]byte(labelsJSON), &rec.Data.Labels); err != nil {
		return nil, fmt.Errorf("unmarshal labels: %w", err)
	}
	return &rec, nil
}

// ListDatasets returns dataset metadata, newest first.
func (db *DB) ListDatasets(limit int) ([]DatasetInfo, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`
		SELECT dataset_id, name, point_count, created_at_ns
		FROM datasets
		ORDER BY created_at_ns DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var infos []DatasetInfo
	for rows.Next() {
		var info DatasetInfo
		if err := rows.Scan(&info.DatasetID, &info.Name, &info.PointCount, &info.CreatedAtNs); err != nil {
			return nil, fmt.Errorf("scan dataset row: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}
