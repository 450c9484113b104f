// Package render draws the static PNG charts for one analysis run. It
// consumes only the pipeline's plain data structures; no analysis logic
// lives here.
package render

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/tessfield/gridscope/internal/aggregate"
	"github.com/tessfield/gridscope/internal/pipeline"
	"github.com/tessfield/gridscope/internal/tensor"
)

var (
	seriesColor    = color.RGBA{B: 200, A: 255}
	highRuleColor  = color.RGBA{R: 220, A: 255}
	lowRuleColor   = color.RGBA{R: 230, G: 140, A: 255}
	meanRuleColor  = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	histogramColor = color.RGBA{G: 140, B: 60, A: 255}
)

// WriteAll renders every chart the run's data supports into dir and
// returns the written file names.
func WriteAll(dir string, res *pipeline.Result, c *tensor.Cube, bins, stride int) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir charts dir: %w", err)
	}
	var written []string
	add := func(name string, render func(string) error) error {
		path := filepath.Join(dir, name)
		if err := render(path); err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		written = append(written, name)
		return nil
	}

	if err := add("timeseries.png", func(p string) error {
		return SeriesChart(p, res.Series, res.Summary.Mean, res.Detection.HighThreshold, res.Detection.LowThreshold)
	}); err != nil {
		return written, err
	}
	if err := add("spatial_mean.png", func(p string) error {
		return HeatmapChart(p, "Temporal Mean (Spatial Pattern)", res.SpatialMean)
	}); err != nil {
		return written, err
	}
	if err := add("variability.png", func(p string) error {
		return HeatmapChart(p, "Variability (Std Dev over Time)", res.Variability)
	}); err != nil {
		return written, err
	}
	if err := add("histogram.png", func(p string) error {
		return HistogramChart(p, c.Values(), stride, bins)
	}); err != nil {
		return written, err
	}

	_, _, d2 := c.Dims()
	for _, slice := range []struct {
		name string
		t    int
	}{
		{"slice_first.png", 0},
		{"slice_middle.png", d2 / 2},
		{"slice_last.png", d2 - 1},
	} {
		s := slice
		if err := add(s.name, func(p string) error {
			return SliceChart(p, fmt.Sprintf("Time Slice t=%d", s.t), c, s.t)
		}); err != nil {
			return written, err
		}
	}

	if res.Seasonal != nil {
		if err := add("seasonal.png", func(p string) error {
			return SeasonalChart(p, res.Seasonal)
		}); err != nil {
			return written, err
		}
	}
	return written, nil
}

// SeriesChart plots the spatial-mean time series with mean and
// threshold rule lines.
func SeriesChart(path string, series []float64, mean, high, low float64) error {
	p := plot.New()
	p.Title.Text = "Spatial Mean per Time Step"
	p.X.Label.Text = "time index"
	p.Y.Label.Text = "mean value"

	xys := make(plotter.XYs, 0, len(series))
	for k, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(k), Y: v})
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	line.Color = seriesColor
	p.Add(line)
	p.Add(plotter.NewGrid())

	n := float64(len(series) - 1)
	for _, rule := range []struct {
		y float64
		c color.Color
	}{
		{mean, meanRuleColor},
		{high, highRuleColor},
		{low, lowRuleColor},
	} {
		if math.IsNaN(rule.y) || math.IsInf(rule.y, 0) {
			continue
		}
		l, err := plotter.NewLine(plotter.XYs{{X: 0, Y: rule.y}, {X: n, Y: rule.y}})
		if err != nil {
			return err
		}
		l.Color = rule.c
		l.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(l)
	}
	return p.Save(10*vg.Inch, 4*vg.Inch, path)
}

// HeatmapChart renders a spatial map, row 0 at the top so a resolved
// grid reads north-up.
func HeatmapChart(path, title string, m *aggregate.Map) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "column (longitude index)"
	p.Y.Label.Text = "row (latitude index)"

	hm := plotter.NewHeatMap(mapGrid{m: m}, moreland.SmoothBlueRed().Palette(255))
	p.Add(hm)
	return p.Save(10*vg.Inch, 5*vg.Inch, path)
}

// SliceChart renders one time slice of the cube as a heatmap.
func SliceChart(path, title string, c *tensor.Cube, t int) error {
	d0, d1, _ := c.Dims()
	m := &aggregate.Map{Rows: d0, Cols: d1, Values: make([]float64, d0*d1)}
	for i := 0; i < d0; i++ {
		for j := 0; j < d1; j++ {
			m.Values[i*d1+j] = float64(c.At(i, j, t))
		}
	}
	return HeatmapChart(path, title, m)
}

// HistogramChart plots the value distribution of a strided sample of
// the raw elements on a log-frequency axis. Non-finite elements are
// dropped.
func HistogramChart(path string, values []float32, stride, bins int) error {
	if stride < 1 {
		stride = 1
	}
	if bins < 1 {
		bins = 50
	}
	sample := make(plotter.Values, 0, len(values)/stride+1)
	for i := 0; i < len(values); i += stride {
		v := float64(values[i])
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sample = append(sample, v)
	}
	p := plot.New()
	p.Title.Text = "Value Distribution (Sampled)"
	p.X.Label.Text = "value"
	p.Y.Label.Text = "frequency (log)"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	h, err := plotter.NewHist(sample, bins)
	if err != nil {
		return err
	}
	h.FillColor = histogramColor
	h.LogY = true
	p.Add(h)
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

// SeasonalChart plots the per-phase means of the folded series.
func SeasonalChart(path string, cycle []float64) error {
	p := plot.New()
	p.Title.Text = "Seasonal Cycle"
	p.X.Label.Text = "phase"
	p.Y.Label.Text = "mean value"
	xys := make(plotter.XYs, 0, len(cycle))
	for i, v := range cycle {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(i + 1), Y: v})
	}
	line, pts, err := plotter.NewLinePoints(xys)
	if err != nil {
		return err
	}
	line.Color = seriesColor
	pts.Color = seriesColor
	p.Add(line, pts, plotter.NewGrid())
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// mapGrid adapts an aggregate.Map to the heatmap's grid interface.
// Plot rows grow upward, so data row 0 is mapped to the top. Non-finite
// cells render as zero.
type mapGrid struct {
	m *aggregate.Map
}

func (g mapGrid) Dims() (c, r int) { return g.m.Cols, g.m.Rows }
func (g mapGrid) X(c int) float64  { return float64(c) }
func (g mapGrid) Y(r int) float64  { return float64(r) }

func (g mapGrid) Z(c, r int) float64 {
	v := g.m.At(g.m.Rows-1-r, c)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
