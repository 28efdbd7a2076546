package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlviz/boundary.report/internal/boundary"
	"github.com/mlviz/boundary.report/internal/monitoring"
	"github.com/mlviz/boundary.report/internal/store"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := store.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.MigrateUp())

	ws := NewWebServer(WebServerConfig{Address: ":0", DB: db})
	srv := httptest.NewServer(ws.setupRoutes())
	t.Cleanup(srv.Close)
	return srv
}

const sampleCSV = "0.1,0.2,0\n0.2,0.9,0\n0.3,0.5,0\n0.9,0.1,1\n0.8,0.8,1\n0.7,0.4,1\n"

func uploadDataset(t *testing.T, srv *httptest.Server, name, csvBody string) store.DatasetInfo {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/datasets?name="+name, "text/csv", strings.NewReader(csvBody))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var info store.DatasetInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	require.NotEmpty(t, info.DatasetID)
	return info
}

func TestHealth(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDatasetUploadAndFetch(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	info := uploadDataset(t, srv, "demo", sampleCSV)
	assert.Equal(t, 6, info.PointCount)

	// Listed.
	resp, err := http.Get(srv.URL + "/api/datasets")
	require.NoError(t, err)
	defer resp.Body.Close()
	var infos []store.DatasetInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&infos))
	require.Len(t, infos, 1)
	assert.Equal(t, info.DatasetID, infos[0].DatasetID)

	// Fetched with points.
	resp2, err := http.Get(srv.URL + "/api/datasets/" + info.DatasetID)
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	var full datasetResponse
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&full))
	assert.Len(t, full.Points, 6)
	assert.Len(t, full.Labels, 6)
	assert.Equal(t, boundary.Point{X: 0.1, Y: 0.2}, full.Points[0])
}

func TestDatasetUpload_Invalid(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	t.Run("missing name", func(t *testing.T) {
		t.Parallel()
		resp, err := http.Post(srv.URL+"/api/datasets", "text/csv", strings.NewReader(sampleCSV))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed csv", func(t *testing.T) {
		t.Parallel()
		resp, err := http.Post(srv.URL+"/api/datasets?name=bad", "text/csv", strings.NewReader("1,2,3\nnope,2\n"))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	// NaN coordinates must be refused at upload so no later plot request
	// can hit them.
	t.Run("non-finite coordinates", func(t *testing.T) {
		t.Parallel()
		resp, err := http.Post(srv.URL+"/api/datasets?name=nan", "text/csv", strings.NewReader("NaN,0,0\n1,1,1\n"))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestBoundaryPlot(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	info := uploadDataset(t, srv, "plotme", sampleCSV)

	resp, err := http.Get(fmt.Sprintf("%s/api/boundary/plot?dataset_id=%s&epochs=50", srv.URL, info.DatasetID))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Greater(t, len(body), 8)
	assert.True(t, bytes.HasPrefix(body, []byte("\x89PNG")), "response should be a PNG")

	// The render was recorded as a run.
	resp2, err := http.Get(srv.URL + "/api/datasets/" + info.DatasetID)
	require.NoError(t, err)
	defer resp2.Body.Close()
	var full datasetResponse
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&full))
	require.Len(t, full.Runs, 1)
	assert.Equal(t, "png", full.Runs[0].Format)
	assert.Greater(t, full.Runs[0].GridRows, 0)
}

func TestBoundaryGrid(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	info := uploadDataset(t, srv, "gridme", sampleCSV)

	resp, err := http.Get(fmt.Sprintf("%s/api/boundary/grid?dataset_id=%s&epochs=50", srv.URL, info.DatasetID))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var gr boundaryGridResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&gr))
	assert.Equal(t, info.DatasetID, gr.DatasetID)
	require.NotNil(t, gr.Grid)
	assert.Equal(t, gr.Rows, len(gr.Grid.Labels))
	for _, row := range gr.Grid.Labels {
		require.Len(t, row, gr.Cols)
		for _, l := range row {
			assert.Contains(t, []int{0, 1}, l)
		}
	}
}

func TestBoundaryChart(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	info := uploadDataset(t, srv, "chartme", sampleCSV)

	resp, err := http.Get(fmt.Sprintf("%s/debug/boundary/chart?dataset_id=%s&epochs=50", srv.URL, info.DatasetID))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "echarts")
}

func TestBoundaryPlot_Errors(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	t.Run("missing dataset_id", func(t *testing.T) {
		t.Parallel()
		resp, err := http.Get(srv.URL + "/api/boundary/plot")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown dataset", func(t *testing.T) {
		t.Parallel()
		resp, err := http.Get(srv.URL + "/api/boundary/plot?dataset_id=missing")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("degenerate dataset", func(t *testing.T) {
		t.Parallel()
		info := uploadDataset(t, srv, "degenerate", "5,5,1\n")
		resp, err := http.Get(fmt.Sprintf("%s/api/boundary/plot?dataset_id=%s&epochs=10", srv.URL, info.DatasetID))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}
