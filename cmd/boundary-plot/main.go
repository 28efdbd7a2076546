// Command boundary-plot renders a decision boundary for a CSV dataset in
// one shot: it trains the reference logistic classifier on the labelled
// points and writes the boundary plot as a PNG, optionally alongside an
// interactive HTML chart.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/mlviz/boundary.report/internal/boundary"
	"github.com/mlviz/boundary.report/internal/chart"
	"github.com/mlviz/boundary.report/internal/classifier"
)

// Config holds configuration for a single render.
type Config struct {
	Input  string
	Output string
	HTML   string
	Epochs int
	Rate   float64
	Seed   int64
}

func parseFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.Input, "input", "", "Input dataset CSV (x,y,label rows)")
	flag.StringVar(&cfg.Output, "output", "boundary.png", "Output PNG path")
	flag.StringVar(&cfg.HTML, "html", "", "Optional output path for an interactive HTML chart")
	flag.IntVar(&cfg.Epochs, "epochs", 2000, "Training epochs")
	flag.Float64Var(&cfg.Rate, "rate", 0.5, "Learning rate")
	flag.Int64Var(&cfg.Seed, "seed", 1, "Weight initialization seed")
	flag.Parse()
	return cfg
}

func main() {
	cfg := parseFlags()

	if cfg.Input == "" {
		log.Fatal("Input CSV is required")
	}

	f, err := os.Open(cfg.Input)
	if err != nil {
		log.Fatalf("Failed to open dataset: %v", err)
	}
	ds, err := boundary.LoadCSV(f)
	f.Close()
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	s := ds.Summarize()
	log.Printf("Loaded %d points from %s (x: mean=%.3f std=%.3f, y: mean=%.3f std=%.3f, positive=%d)",
		s.N, cfg.Input, s.MeanX, s.StdX, s.MeanY, s.StdY, s.PositiveLabelCount)

	model := classifier.NewLogistic(cfg.Rate, cfg.Seed)
	if err := model.Fit(ds, cfg.Epochs); err != nil {
		log.Fatalf("Training failed: %v", err)
	}
	acc, err := model.Accuracy(ds)
	if err != nil {
		log.Fatalf("Failed to compute accuracy: %v", err)
	}
	log.Printf("Trained %d epochs, training accuracy %.1f%%", cfg.Epochs, acc*100)

	g, err := boundary.Evaluate(model.Score, ds.Points)
	if err != nil {
		log.Fatalf("Failed to evaluate decision grid: %v", err)
	}
	log.Printf("Evaluated %dx%d decision grid", g.Rows(), g.Cols())

	p, err := boundary.Render(g, ds)
	if err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	if err := p.Save(boundary.FigWidth, boundary.FigHeight, cfg.Output); err != nil {
		log.Fatalf("Failed to save plot: %v", err)
	}
	log.Printf("Wrote %s", cfg.Output)

	if cfg.HTML != "" {
		out, err := os.Create(cfg.HTML)
		if err != nil {
			log.Fatalf("Failed to create HTML output: %v", err)
		}
		if err := chart.RenderHTML(out, g, ds, cfg.Input, 0); err != nil {
			out.Close()
			log.Fatalf("Failed to render HTML chart: %v", err)
		}
		if err := out.Close(); err != nil {
			log.Fatalf("Failed to write HTML chart: %v", err)
		}
		log.Printf("Wrote %s", cfg.HTML)
	}
}
