// Package classifier provides the reference binary classifier used to
// exercise the boundary renderer end to end. Any scalar-scoring model can
// be plotted; this one exists so the binaries and the web server have a
// trainable model without an external dependency.
package classifier

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/mlviz/boundary.report/internal/boundary"
	"github.com/mlviz/boundary.report/internal/monitoring"
)

// Logistic is a two-feature logistic regression trained with per-sample
// gradient descent on log loss. Its Score method satisfies
// boundary.ScoreFunc.
type Logistic struct {
	wx, wy float64
	bias   float64
	lr     float64
}

// NewLogistic constructs the model with small seeded random weights so
// training runs are reproducible for a given seed.
func NewLogistic(lr float64, seed int64) *Logistic {
	if lr <= 0 {
		lr = 0.1
	}
	rng := rand.New(rand.NewSource(seed))
	return &Logistic{
		wx: (rng.Float64()*2 - 1) * 0.01,
		wy: (rng.Float64()*2 - 1) * 0.01,
		lr: lr,
	}
}

// Fit trains the model for the given number of epochs. Labels above the
// classification threshold are treated as class 1, everything else as
// class 0.
func (m *Logistic) Fit(ds boundary.Dataset, epochs int) error {
	if err := ds.Validate(); err != nil {
		return err
	}
	if epochs <= 0 {
		return fmt.Errorf("classifier: epochs must be > 0, got %d", epochs)
	}

	logEvery := epochs / 10
	if logEvery == 0 {
		logEvery = 1
	}

	for epoch := 1; epoch <= epochs; epoch++ {
		totalLoss := 0.0
		for i, p := range ds.Points {
			target := 0.0
			if ds.Labels[i] > boundary.Threshold {
				target = 1
			}
			pred := sigmoid(m.wx*p.X + m.wy*p.Y + m.bias)
			totalLoss += logLoss(pred, target)

			grad := pred - target
			m.wx -= m.lr * grad * p.X
			m.wy -= m.lr * grad * p.Y
			m.bias -= m.lr * grad
		}
		if epoch%logEvery == 0 {
			monitoring.Logf("logistic: epoch %d/%d avg_loss=%.5f", epoch, epochs, totalLoss/float64(ds.Len()))
		}
	}
	return nil
}

// Score returns the model's probability of class 1 for a coordinate. It
// never fails; the error return satisfies boundary.ScoreFunc.
func (m *Logistic) Score(p boundary.Point) (float64, error) {
	return sigmoid(m.wx*p.X + m.wy*p.Y + m.bias), nil
}

// Accuracy returns the fraction of dataset points whose thresholded score
// matches their thresholded label.
func (m *Logistic) Accuracy(ds boundary.Dataset) (float64, error) {
	if err := ds.Validate(); err != nil {
		return 0, err
	}
	correct := 0
	for i, p := range ds.Points {
		score, _ := m.Score(p)
		if (score > boundary.Threshold) == (ds.Labels[i] > boundary.Threshold) {
			correct++
		}
	}
	return float64(correct) / float64(ds.Len()), nil
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

func logLoss(pred, target float64) float64 {
	const eps = 1e-12
	if target > 0.5 {
		return -math.Log(math.Max(pred, eps))
	}
	return -math.Log(math.Max(1-pred, eps))
}
