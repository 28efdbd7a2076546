package boundary

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

// Dataset pairs an ordered point set with one class label per point.
// Labels are consumed only by the overlay scatter (and by classifier
// training); grid evaluation never reads them.
type Dataset struct {
	Points []Point
	Labels []float64
}

// Validate checks the dataset invariants: at least one point, exactly one
// label per point, and no NaN or infinite values anywhere.
func (ds Dataset) Validate() error {
	if len(ds.Points) == 0 {
		return ErrEmptyDataset
	}
	if len(ds.Labels) != len(ds.Points) {
		return fmt.Errorf("%w: %d points, %d labels", ErrLengthMismatch, len(ds.Points), len(ds.Labels))
	}
	for i, p := range ds.Points {
		if !finite(p.X) || !finite(p.Y) {
			return fmt.Errorf("%w: point %d is (%g, %g)", ErrNonFinite, i, p.X, p.Y)
		}
	}
	for i, l := range ds.Labels {
		if !finite(l) {
			return fmt.Errorf("%w: label %d is %g", ErrNonFinite, i, l)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Len returns the number of points.
func (ds Dataset) Len() int { return len(ds.Points) }

// Summary holds per-axis statistics of a dataset, used for logging and
// sanity checks before training.
type Summary struct {
	N                  int
	MeanX, StdX        float64
	MeanY, StdY        float64
	PositiveLabelCount int
}

// Summarize computes per-axis mean and standard deviation plus the count
// of positive-class labels (label > Threshold).
func (ds Dataset) Summarize() Summary {
	xs := make([]float64, len(ds.Points))
	ys := make([]float64, len(ds.Points))
	for i, p := range ds.Points {
		xs[i] = p.X
		ys[i] = p.Y
	}

	s := Summary{N: len(ds.Points)}
	if s.N > 0 {
		s.MeanX = stat.Mean(xs, nil)
		s.MeanY = stat.Mean(ys, nil)
		s.StdX = stat.StdDev(xs, nil)
		s.StdY = stat.StdDev(ys, nil)
	}
	for _, l := range ds.Labels {
		if l > Threshold {
			s.PositiveLabelCount++
		}
	}
	return s
}

// LoadCSV reads a dataset from r in "x,y,label" row format. A first row
// whose fields are all non-numeric is treated as a header and skipped; any
// other unparseable field is an error, including a partially numeric first
// row, so a typo in the first data row is reported rather than dropped.
func LoadCSV(r io.Reader) (Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true

	var ds Dataset
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Dataset{}, fmt.Errorf("read csv: %w", err)
		}
		line++

		x, errX := strconv.ParseFloat(rec[0], 64)
		y, errY := strconv.ParseFloat(rec[1], 64)
		l, errL := strconv.ParseFloat(rec[2], 64)
		if errX != nil || errY != nil || errL != nil {
			if line == 1 && errX != nil && errY != nil && errL != nil {
				// header row
				continue
			}
			return Dataset{}, fmt.Errorf("csv row %d: non-numeric field in %v", line, rec)
		}

		ds.Points = append(ds.Points, Point{X: x, Y: y})
		ds.Labels = append(ds.Labels, l)
	}

	if err := ds.Validate(); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}
