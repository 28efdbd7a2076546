// Package boundary evaluates and renders 2D decision boundaries for binary
// classifiers. Given a scoring function and a labelled point set it samples
// the padded bounding box of the data on a regular grid, thresholds the
// score at each cell, and renders the resulting class regions with the
// original points overlaid.
package boundary

import (
	"fmt"
)

// Fixed evaluation constants. These are part of the rendering contract and
// are deliberately not configurable: changing them changes the output for
// identical inputs.
const (
	// Padding is the fraction of each axis range added symmetrically on
	// both sides of the data's bounding box.
	Padding = 0.15

	// Resolution is the grid step on both axes.
	Resolution = 0.01

	// Threshold is the score cutoff: a cell is class 1 iff its score is
	// strictly greater than Threshold.
	Threshold = 0.5
)

// Point is a 2D sample coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ScoreFunc scores a single coordinate. Implementations must be safe to
// call once per grid cell; any error aborts evaluation and propagates to
// the caller unchanged.
type ScoreFunc func(Point) (float64, error)

// Grid holds the evaluated decision grid. Xs are the column coordinates,
// Ys the row coordinates, and Labels the thresholded class per cell with
// shape len(Ys) rows by len(Xs) columns.
type Grid struct {
	Xs     []float64 `json:"xs"`
	Ys     []float64 `json:"ys"`
	Labels [][]int   `json:"labels"`
}

// Rows returns the number of grid rows.
func (g *Grid) Rows() int { return len(g.Ys) }

// Cols returns the number of grid columns.
func (g *Grid) Cols() int { return len(g.Xs) }

// Mesh computes the grid sample coordinates for a point set: the per-axis
// min/max expanded outward by Padding of each axis range, swept at
// Resolution steps. The sweep is half-open, so the returned coordinates
// cover [min, max) on each axis after padding.
//
// A dataset with zero range on either axis would produce an empty sweep on
// that axis, so it is rejected with ErrDegenerateExtent rather than
// silently rendering nothing, and NaN or infinite coordinates are rejected
// with ErrNonFinite because they have no bounding box at all.
func Mesh(points []Point) (xs, ys []float64, err error) {
	if len(points) == 0 {
		return nil, nil, ErrEmptyDataset
	}
	for i, p := range points {
		if !finite(p.X) || !finite(p.Y) {
			return nil, nil, fmt.Errorf("%w: point %d is (%g, %g)", ErrNonFinite, i, p.X, p.Y)
		}
	}

	xMin, xMax := points[0].X, points[0].X
	yMin, yMax := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		if p.X < xMin {
			xMin = p.X
		}
		if p.X > xMax {
			xMax = p.X
		}
		if p.Y < yMin {
			yMin = p.Y
		}
		if p.Y > yMax {
			yMax = p.Y
		}
	}

	xRange := xMax - xMin
	yRange := yMax - yMin
	if xRange == 0 || yRange == 0 {
		return nil, nil, fmt.Errorf("%w: x_range=%g y_range=%g", ErrDegenerateExtent, xRange, yRange)
	}

	xMin -= xRange * Padding
	xMax += xRange * Padding
	yMin -= yRange * Padding
	yMax += yRange * Padding

	xs = sweep(xMin, xMax)
	ys = sweep(yMin, yMax)
	return xs, ys, nil
}

// sweep returns min, min+Resolution, ... strictly below max. Coordinates
// are computed by index rather than accumulation so step error does not
// compound across wide ranges.
func sweep(min, max float64) []float64 {
	n := int((max - min) / Resolution)
	vs := make([]float64, 0, n+1)
	for i := 0; ; i++ {
		v := min + float64(i)*Resolution
		if v >= max {
			return vs
		}
		vs = append(vs, v)
	}
}

// Evaluate classifies every mesh coordinate of the point set's padded
// bounding box. Cells are visited in row-major order (y outer, x inner)
// and classify is invoked exactly once per cell; a cell is labelled 1 iff
// its score is strictly greater than Threshold. The returned grid is owned
// by the caller and shares no state with other evaluations.
func Evaluate(classify ScoreFunc, points []Point) (*Grid, error) {
	if classify == nil {
		return nil, fmt.Errorf("boundary: nil score function")
	}

	xs, ys, err := Mesh(points)
	if err != nil {
		return nil, err
	}

	labels := make([][]int, len(ys))
	for r, y := range ys {
		row := make([]int, len(xs))
		for c, x := range xs {
			score, err := classify(Point{X: x, Y: y})
			if err != nil {
				return nil, err
			}
			if score > Threshold {
				row[c] = 1
			}
		}
		labels[r] = row
	}

	return &Grid{Xs: xs, Ys: ys, Labels: labels}, nil
}
