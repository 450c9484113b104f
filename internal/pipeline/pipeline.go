// Package pipeline runs the analysis stages in order over one cube:
// profiler, grid inference, aggregator, extremum detector. Pure; the
// commands own all I/O and logging.
package pipeline

import (
	"github.com/tessfield/gridscope/internal/aggregate"
	"github.com/tessfield/gridscope/internal/extremes"
	"github.com/tessfield/gridscope/internal/grid"
	"github.com/tessfield/gridscope/internal/profile"
	"github.com/tessfield/gridscope/internal/tensor"
)

// Options carries every knob the pipeline accepts. No stage reads
// configuration from global state.
type Options struct {
	PercentilePoints []float64
	Resolutions      []float64
	HighPercentile   float64
	LowPercentile    float64
	Mode             extremes.Mode
	SeasonalPeriod   int
}

// DefaultOptions mirror the original analysis: 95th/5th percentile
// thresholds, per-step localization, a 12-phase seasonal fold.
func DefaultOptions() Options {
	return Options{
		PercentilePoints: profile.DefaultPoints,
		Resolutions:      grid.DefaultResolutions,
		HighPercentile:   95,
		LowPercentile:    5,
		Mode:             extremes.ModePerStep,
		SeasonalPeriod:   12,
	}
}

// Result is everything a run produced, as plain data for the report and
// visualization layers.
type Result struct {
	Shape       [3]int
	Summary     *profile.Summary
	Grid        *grid.Hypothesis // nil when inference was unresolved
	Series      []float64
	SpatialMean *aggregate.Map
	Variability *aggregate.Map
	Seasonal    []float64 // nil when the series is shorter than one period
	Detection   *extremes.Detection
}

// Run executes the full pipeline. The cube is read-only throughout; any
// stage error aborts the run.
func Run(c *tensor.Cube, opts Options) (*Result, error) {
	d0, d1, d2 := c.Dims()
	res := &Result{Shape: [3]int{d0, d1, d2}}

	summary, err := profile.Profile(c, opts.PercentilePoints)
	if err != nil {
		return nil, err
	}
	res.Summary = summary

	if hyp, ok := grid.Infer(d0, d1, opts.Resolutions); ok {
		res.Grid = &hyp
	}

	agg, err := aggregate.Reduce(c, aggregate.TimeAxis)
	if err != nil {
		return nil, err
	}
	res.Series = agg.Series
	res.SpatialMean = agg.Mean
	res.Variability = agg.StdDev
	res.Seasonal = aggregate.SeasonalCycle(agg.Series, opts.SeasonalPeriod)

	det, err := extremes.Detect(agg.Series, c, res.Grid, extremes.Options{
		HighPercentile: opts.HighPercentile,
		LowPercentile:  opts.LowPercentile,
		Mode:           opts.Mode,
	})
	if err != nil {
		return nil, err
	}
	res.Detection = det
	return res, nil
}
