package web

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mlviz/boundary.report/internal/boundary"
	"github.com/mlviz/boundary.report/internal/chart"
	"github.com/mlviz/boundary.report/internal/classifier"
	"github.com/mlviz/boundary.report/internal/store"
)

// Store is the persistence surface the handlers need.
type Store interface {
	InsertDataset(rec *store.DatasetRecord) error
	GetDataset(datasetID string) (*store.DatasetRecord, error)
	ListDatasets(limit int) ([]store.DatasetInfo, error)
	InsertRenderRun(run *store.RenderRun) error
	ListRenderRuns(datasetID string, limit int) ([]store.RenderRun, error)
}

// maxUploadBytes caps dataset CSV uploads.
const maxUploadBytes = 10 << 20

// trainDefaults mirror the CLI defaults.
const (
	defaultEpochs = 2000
	defaultRate   = 0.5
	defaultSeed   = 1
)

// errMissingDatasetID marks a request without the required dataset_id
// parameter so it maps to 400 rather than 500.
var errMissingDatasetID = errors.New("missing 'dataset_id' parameter")

// handleDatasets lists datasets (GET) or uploads a CSV dataset (POST).
// POST query params: name (required). Body: "x,y,label" rows.
func (ws *WebServer) handleDatasets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit := 50
		if l := r.URL.Query().Get("limit"); l != "" {
			if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 500 {
				limit = v
			}
		}
		infos, err := ws.db.ListDatasets(limit)
		if err != nil {
			ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list datasets: %v", err))
			return
		}
		if infos == nil {
			infos = []store.DatasetInfo{}
		}
		ws.writeJSON(w, http.StatusOK, infos)

	case http.MethodPost:
		name := r.URL.Query().Get("name")
		if name == "" {
			ws.writeJSONError(w, http.StatusBadRequest, "missing 'name' parameter")
			return
		}
		ds, err := boundary.LoadCSV(http.MaxBytesReader(w, r.Body, maxUploadBytes))
		if err != nil {
			ws.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid dataset: %v", err))
			return
		}
		rec := &store.DatasetRecord{
			DatasetInfo: store.DatasetInfo{Name: name},
			Data:        ds,
		}
		if err := ws.db.InsertDataset(rec); err != nil {
			ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to store dataset: %v", err))
			return
		}
		ws.writeJSON(w, http.StatusCreated, rec.DatasetInfo)

	default:
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// datasetResponse is the full dataset view returned by GET /api/datasets/{id}.
type datasetResponse struct {
	store.DatasetInfo
	Points []boundary.Point  `json:"points"`
	Labels []float64         `json:"labels"`
	Runs   []store.RenderRun `json:"runs,omitempty"`
}

func (ws *WebServer) handleDatasetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/datasets/")
	if id == "" || strings.Contains(id, "/") {
		ws.writeJSONError(w, http.StatusBadRequest, "missing dataset id")
		return
	}

	rec, err := ws.db.GetDataset(id)
	if errors.Is(err, store.ErrDatasetNotFound) {
		ws.writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load dataset: %v", err))
		return
	}

	runs, err := ws.db.ListRenderRuns(id, 20)
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load runs: %v", err))
		return
	}

	ws.writeJSON(w, http.StatusOK, datasetResponse{
		DatasetInfo: rec.DatasetInfo,
		Points:      rec.Data.Points,
		Labels:      rec.Data.Labels,
		Runs:        runs,
	})
}

// loadAndEvaluate fetches the dataset, trains the reference classifier
// with the request's training params, and evaluates the decision grid.
func (ws *WebServer) loadAndEvaluate(r *http.Request) (*store.DatasetRecord, *boundary.Grid, error) {
	id := r.URL.Query().Get("dataset_id")
	if id == "" {
		return nil, nil, errMissingDatasetID
	}

	epochs := defaultEpochs
	if e := r.URL.Query().Get("epochs"); e != "" {
		if v, err := strconv.Atoi(e); err == nil && v > 0 && v <= 100000 {
			epochs = v
		}
	}
	rate := defaultRate
	if lr := r.URL.Query().Get("rate"); lr != "" {
		if v, err := strconv.ParseFloat(lr, 64); err == nil && v > 0 {
			rate = v
		}
	}
	seed := int64(defaultSeed)
	if s := r.URL.Query().Get("seed"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			seed = v
		}
	}

	rec, err := ws.db.GetDataset(id)
	if err != nil {
		return nil, nil, err
	}

	model := classifier.NewLogistic(rate, seed)
	if err := model.Fit(rec.Data, epochs); err != nil {
		return nil, nil, fmt.Errorf("train classifier: %w", err)
	}

	g, err := boundary.Evaluate(model.Score, rec.Data.Points)
	if err != nil {
		return nil, nil, err
	}
	return rec, g, nil
}

func (ws *WebServer) recordRun(rec *store.DatasetRecord, g *boundary.Grid, format string, start time.Time) {
	run := &store.RenderRun{
		DatasetID:  rec.DatasetID,
		Format:     format,
		GridRows:   g.Rows(),
		GridCols:   g.Cols(),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err := ws.db.InsertRenderRun(run); err != nil {
		// The figure was already produced; losing the run record is not
		// worth failing the request.
		log.Printf("failed to record render run: %v", err)
	}
}

// handleBoundaryPlot trains the reference classifier on a stored dataset
// and serves the rendered decision boundary as a PNG.
// Query params: dataset_id (required), epochs, rate, seed.
func (ws *WebServer) handleBoundaryPlot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	start := time.Now()

	rec, g, err := ws.loadAndEvaluate(r)
	if err != nil {
		ws.writeBoundaryError(w, err)
		return
	}

	p, err := boundary.Render(g, rec.Data)
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render: %v", err))
		return
	}

	// Render into a buffer first so a backend failure never leaves a
	// half-written response body.
	wt, err := p.WriterTo(boundary.FigWidth, boundary.FigHeight, "png")
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode plot: %v", err))
		return
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode plot: %v", err))
		return
	}

	ws.recordRun(rec, g, "png", start)

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

// boundaryGridResponse is the JSON view of an evaluated grid.
type boundaryGridResponse struct {
	DatasetID string         `json:"dataset_id"`
	Rows      int            `json:"rows"`
	Cols      int            `json:"cols"`
	Grid      *boundary.Grid `json:"grid"`
}

// handleBoundaryGrid returns the evaluated label grid as JSON.
// Query params: dataset_id (required), epochs, rate, seed.
func (ws *WebServer) handleBoundaryGrid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	start := time.Now()

	rec, g, err := ws.loadAndEvaluate(r)
	if err != nil {
		ws.writeBoundaryError(w, err)
		return
	}

	ws.recordRun(rec, g, "json", start)

	ws.writeJSON(w, http.StatusOK, boundaryGridResponse{
		DatasetID: rec.DatasetID,
		Rows:      g.Rows(),
		Cols:      g.Cols(),
		Grid:      g,
	})
}

// handleBoundaryChart renders the decision boundary as an interactive
// ECharts HTML page. This is a debugging endpoint.
// Query params: dataset_id (required), epochs, rate, seed, max_points.
func (ws *WebServer) handleBoundaryChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	start := time.Now()

	maxPoints := chart.DefaultMaxPoints
	if mp := r.URL.Query().Get("max_points"); mp != "" {
		if v, err := strconv.Atoi(mp); err == nil && v > 100 && v <= 50000 {
			maxPoints = v
		}
	}

	rec, g, err := ws.loadAndEvaluate(r)
	if err != nil {
		ws.writeBoundaryError(w, err)
		return
	}

	subtitle := fmt.Sprintf("dataset=%s points=%d grid=%dx%d", rec.Name, rec.PointCount, g.Rows(), g.Cols())
	var buf bytes.Buffer
	if err := chart.RenderHTML(&buf, g, rec.Data, subtitle, maxPoints); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	ws.recordRun(rec, g, "html", start)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// writeBoundaryError maps evaluation errors onto HTTP statuses: missing
// datasets are 404, invalid datasets are 422, everything else is 500.
func (ws *WebServer) writeBoundaryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrDatasetNotFound):
		ws.writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, boundary.ErrEmptyDataset),
		errors.Is(err, boundary.ErrLengthMismatch),
		errors.Is(err, boundary.ErrDegenerateExtent),
		errors.Is(err, boundary.ErrNonFinite):
		ws.writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, errMissingDatasetID):
		ws.writeJSONError(w, http.StatusBadRequest, err.Error())
	default:
		ws.writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}
