package classifier

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlviz/boundary.report/internal/boundary"
	"github.com/mlviz/boundary.report/internal/monitoring"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}

// separableDataset is linearly separable on x > 0.5.
func separableDataset() boundary.Dataset {
	return boundary.Dataset{
		Points: []boundary.Point{
			{X: 0.1, Y: 0.2}, {X: 0.2, Y: 0.9}, {X: 0.3, Y: 0.5}, {X: 0.05, Y: 0.7},
			{X: 0.9, Y: 0.1}, {X: 0.8, Y: 0.8}, {X: 0.7, Y: 0.4}, {X: 0.95, Y: 0.6},
		},
		Labels: []float64{0, 0, 0, 0, 1, 1, 1, 1},
	}
}

func TestLogistic_FitSeparable(t *testing.T) {
	ds := separableDataset()
	m := NewLogistic(0.5, 1)
	require.NoError(t, m.Fit(ds, 2000))

	acc, err := m.Accuracy(ds)
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)

	// Scores are probabilities.
	for _, p := range ds.Points {
		score, err := m.Score(p)
		require.NoError(t, err)
		assert.Greater(t, score, 0.0)
		assert.Less(t, score, 1.0)
	}
}

func TestLogistic_Deterministic(t *testing.T) {
	ds := separableDataset()

	m1 := NewLogistic(0.5, 42)
	m2 := NewLogistic(0.5, 42)
	require.NoError(t, m1.Fit(ds, 200))
	require.NoError(t, m2.Fit(ds, 200))

	for _, p := range ds.Points {
		s1, _ := m1.Score(p)
		s2, _ := m2.Score(p)
		assert.Equal(t, s1, s2)
	}
}

func TestLogistic_ScoreFuncCompatible(t *testing.T) {
	ds := separableDataset()
	m := NewLogistic(0.5, 1)
	require.NoError(t, m.Fit(ds, 500))

	g, err := boundary.Evaluate(m.Score, ds.Points)
	require.NoError(t, err)
	require.NotNil(t, g)

	// A separable fit should put at least some cells on each side.
	ones, zeros := 0, 0
	for _, row := range g.Labels {
		for _, l := range row {
			if l == 1 {
				ones++
			} else {
				zeros++
			}
		}
	}
	assert.Greater(t, ones, 0)
	assert.Greater(t, zeros, 0)
}

func TestLogistic_FitRejectsBadInputs(t *testing.T) {
	m := NewLogistic(0.5, 1)

	assert.ErrorIs(t, m.Fit(boundary.Dataset{}, 10), boundary.ErrEmptyDataset)

	bad := boundary.Dataset{Points: []boundary.Point{{X: 0, Y: 0}}, Labels: []float64{0, 1}}
	assert.ErrorIs(t, m.Fit(bad, 10), boundary.ErrLengthMismatch)

	assert.Error(t, m.Fit(separableDataset(), 0))
}
