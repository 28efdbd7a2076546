package boundary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataset() Dataset {
	return Dataset{
		Points: []Point{{0, 0}, {1, 1}, {0.2, 0.8}, {0.9, 0.1}},
		Labels: []float64{0, 1, 1, 0},
	}
}

func linearClassify(p Point) (float64, error) {
	if p.X+p.Y > 1 {
		return 1.0, nil
	}
	return 0.0, nil
}

func TestRender_AxesMatchGrid(t *testing.T) {
	t.Parallel()

	ds := testDataset()
	g, err := Evaluate(linearClassify, ds.Points)
	require.NoError(t, err)

	p, err := Render(g, ds)
	require.NoError(t, err)

	assert.Equal(t, g.Xs[0], p.X.Min)
	assert.Equal(t, g.Xs[g.Cols()-1], p.X.Max)
	assert.Equal(t, g.Ys[0], p.Y.Min)
	assert.Equal(t, g.Ys[g.Rows()-1], p.Y.Max)
}

func TestRender_SingleClassGrid(t *testing.T) {
	t.Parallel()

	// Everything classifies to class 0; the fixed colour range must still
	// produce a renderable figure.
	ds := testDataset()
	g, err := Evaluate(func(Point) (float64, error) { return 0.0, nil }, ds.Points)
	require.NoError(t, err)

	p, err := Render(g, ds)
	require.NoError(t, err)
	require.NotNil(t, p)
}

func TestRender_RejectsInvalidInputs(t *testing.T) {
	t.Parallel()

	ds := testDataset()
	g, err := Evaluate(linearClassify, ds.Points)
	require.NoError(t, err)

	t.Run("nil grid", func(t *testing.T) {
		t.Parallel()
		_, err := Render(nil, ds)
		assert.Error(t, err)
	})

	t.Run("label mismatch", func(t *testing.T) {
		t.Parallel()
		bad := Dataset{Points: ds.Points, Labels: ds.Labels[:2]}
		_, err := Render(g, bad)
		assert.ErrorIs(t, err, ErrLengthMismatch)
	})
}

func TestSavePNG(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "boundary.png")
	err := SavePNG(path, linearClassify, testDataset())
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestSavePNG_FailsFastBeforeRendering(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "boundary.png")
	bad := Dataset{Points: []Point{{0, 0}, {1, 1}}, Labels: []float64{0}}
	err := SavePNG(path, linearClassify, bad)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no partial output should exist")
}
