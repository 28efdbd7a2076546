package boundary

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Figure dimensions for rendered boundary plots.
const (
	FigWidth  = 8 * vg.Inch
	FigHeight = 6 * vg.Inch
)

// markerArea is the overlay marker size in square points.
const markerArea = 35.0

// spectralColors is the number of steps taken from the diverging Spectral
// scheme; 11 is the widest set ColorBrewer defines for it.
const spectralColors = 11

// classGrid adapts a Grid to the plotter's grid interface. Z is the
// thresholded class, so values are always 0 or 1.
type classGrid struct {
	g *Grid
}

func (cg classGrid) Dims() (c, r int)   { return cg.g.Cols(), cg.g.Rows() }
func (cg classGrid) Z(c, r int) float64 { return float64(cg.g.Labels[r][c]) }
func (cg classGrid) X(c int) float64    { return cg.g.Xs[c] }
func (cg classGrid) Y(r int) float64    { return cg.g.Ys[r] }

// spectral returns the fixed diverging palette used for both the region
// fill and the point overlay.
func spectral() (palette.Palette, error) {
	p, err := brewer.GetPalette(brewer.TypeDiverging, "Spectral", spectralColors)
	if err != nil {
		return nil, fmt.Errorf("spectral palette: %w", err)
	}
	return p, nil
}

// Render draws the evaluated decision grid as filled class regions with
// the dataset points scattered on top, coloured by their true labels. It
// returns the figure handle; the caller saves or serves it. Repeated calls
// share no state.
func Render(g *Grid, ds Dataset) (*plot.Plot, error) {
	if g == nil || g.Rows() == 0 || g.Cols() == 0 {
		return nil, fmt.Errorf("boundary: render of empty grid")
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	pal, err := spectral()
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = "Decision Boundary"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	hm := plotter.NewHeatMap(classGrid{g}, pal)
	// Pin the colour range to the class range so a grid that is entirely
	// one class still maps 0 and 1 to the palette ends.
	hm.Min = 0
	hm.Max = 1
	p.Add(hm)

	pts := make(plotter.XYs, len(ds.Points))
	for i, pt := range ds.Points {
		pts[i].X = pt.X
		pts[i].Y = pt.Y
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("scatter overlay: %w", err)
	}
	colors := pal.Colors()
	radius := vg.Points(math.Sqrt(markerArea / math.Pi))
	lMin, lMax := labelRange(ds.Labels)
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		idx := len(colors) - 1
		if lMax > lMin {
			frac := (ds.Labels[i] - lMin) / (lMax - lMin)
			idx = int(frac * float64(len(colors)-1))
		}
		return draw.GlyphStyle{
			Color:  colors[idx],
			Radius: radius,
			Shape:  draw.CircleGlyph{},
		}
	}
	p.Add(sc)

	// Clamp the axes to the padded box so the fill reaches the frame.
	p.X.Min, p.X.Max = g.Xs[0], g.Xs[g.Cols()-1]
	p.Y.Min, p.Y.Max = g.Ys[0], g.Ys[g.Rows()-1]

	return p, nil
}

func labelRange(labels []float64) (min, max float64) {
	min, max = labels[0], labels[0]
	for _, l := range labels[1:] {
		if l < min {
			min = l
		}
		if l > max {
			max = l
		}
	}
	return min, max
}

// SavePNG validates the dataset, evaluates the decision grid for classify,
// and writes the rendered figure to path as a PNG. Any error from classify
// or the plotting backend propagates unchanged; nothing is written on
// failure.
func SavePNG(path string, classify ScoreFunc, ds Dataset) error {
	if err := ds.Validate(); err != nil {
		return err
	}
	g, err := Evaluate(classify, ds.Points)
	if err != nil {
		return err
	}
	p, err := Render(g, ds)
	if err != nil {
		return err
	}
	if err := p.Save(FigWidth, FigHeight, path); err != nil {
		return fmt.Errorf("save boundary plot: %w", err)
	}
	return nil
}
