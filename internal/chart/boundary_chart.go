// Package chart renders decision boundaries as interactive ECharts HTML
// pages, for quick in-browser inspection without the PNG pipeline.
package chart

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/mlviz/boundary.report/internal/boundary"
)

// DefaultMaxPoints caps how many grid cells are plotted; a 0.01-step grid
// over a unit-ish dataset has ~17k cells, which bloats the page.
const DefaultMaxPoints = 8000

// spectralScheme is the diverging Spectral ramp, matching the PNG
// renderer's palette.
var spectralScheme = []string{
	"#9e0142", "#d53e4f", "#f46d43", "#fdae61", "#fee08b", "#ffffbf",
	"#e6f598", "#abdda4", "#66c2a5", "#3288bd", "#5e4fa2",
}

// BoundaryScatter builds a scatter chart of the evaluated grid (downsampled
// by stride to maxPoints cells) with the dataset points overlaid. The
// third value of each point is its class, mapped through the visual map.
func BoundaryScatter(g *boundary.Grid, ds boundary.Dataset, subtitle string, maxPoints int) (*charts.Scatter, error) {
	if g == nil || g.Rows() == 0 || g.Cols() == 0 {
		return nil, fmt.Errorf("chart: empty grid")
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPoints
	}

	total := g.Rows() * g.Cols()
	stride := 1
	if total > maxPoints {
		stride = int(math.Ceil(float64(total) / float64(maxPoints)))
	}

	gridPts := make([]opts.ScatterData, 0, total/stride+1)
	for i := 0; i < total; i += stride {
		r := i / g.Cols()
		c := i % g.Cols()
		gridPts = append(gridPts, opts.ScatterData{Value: []interface{}{g.Xs[c], g.Ys[r], g.Labels[r][c]}})
	}

	dataPts := make([]opts.ScatterData, 0, ds.Len())
	for i, p := range ds.Points {
		cls := 0
		if ds.Labels[i] > boundary.Threshold {
			cls = 1
		}
		dataPts = append(dataPts, opts.ScatterData{Value: []interface{}{p.X, p.Y, cls}})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Decision Boundary", Theme: "dark", Width: "900px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: "Decision Boundary", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: g.Xs[0], Max: g.Xs[g.Cols()-1], Name: "x", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: g.Ys[0], Max: g.Ys[g.Rows()-1], Name: "y", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        1,
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: spectralScheme},
		}),
	)

	scatter.AddSeries("grid", gridPts, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))
	scatter.AddSeries("dataset", dataPts, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}))

	return scatter, nil
}

// RenderHTML writes the boundary chart as a standalone HTML page.
func RenderHTML(w io.Writer, g *boundary.Grid, ds boundary.Dataset, subtitle string, maxPoints int) error {
	scatter, err := BoundaryScatter(g, ds, subtitle, maxPoints)
	if err != nil {
		return err
	}
	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("render boundary chart: %w", err)
	}
	return nil
}
