// Package aggregate reduces a cube along its axes: a spatial-mean time
// series, a temporal-mean spatial map, and a temporal-stddev map.
// Accumulation is float64 throughout; a ~134M-element float32 sum loses
// digits otherwise.
package aggregate

import (
	"errors"
	"fmt"
	"math"

	"github.com/tessfield/gridscope/internal/tensor"
)

// TimeAxis is the only axis the reducer accepts as time.
const TimeAxis = 2

// ErrShapeMismatch is returned when the designated time axis is not the
// cube's third dimension.
var ErrShapeMismatch = errors.New("aggregate: time axis mismatch")

// Map is a dense row-major 2-D array of float64 cell values.
type Map struct {
	Rows   int
	Cols   int
	Values []float64
}

// At returns the cell at (i, j).
func (m *Map) At(i, j int) float64 { return m.Values[i*m.Cols+j] }

// Result bundles the reductions of one cube.
type Result struct {
	// Series is the mean over both spatial axes per time step; length
	// equals the cube's third dimension.
	Series []float64
	// Mean is the mean over the time axis per spatial cell.
	Mean *Map
	// StdDev is the population standard deviation over the time axis
	// per spatial cell (the variability map).
	StdDev *Map
}

// Reduce computes all reductions in one pass over the cube. Non-finite
// elements are excluded; a step or cell with no finite samples yields
// NaN. timeAxis must be TimeAxis.
func Reduce(c *tensor.Cube, timeAxis int) (*Result, error) {
	if timeAxis != TimeAxis {
		return nil, fmt.Errorf("%w: axis %d designated as time, want %d", ErrShapeMismatch, timeAxis, TimeAxis)
	}
	d0, d1, d2 := c.Dims()

	mean := &Map{Rows: d0, Cols: d1, Values: make([]float64, d0*d1)}
	std := &Map{Rows: d0, Cols: d1, Values: make([]float64, d0*d1)}
	seriesSum := make([]float64, d2)
	seriesN := make([]int, d2)

	vals := c.Values()
	for i := 0; i < d0; i++ {
		for j := 0; j < d1; j++ {
			base := (i*d1 + j) * d2
			var sum, sumSq float64
			var n int
			for k := 0; k < d2; k++ {
				v := float64(vals[base+k])
				if math.IsNaN(v) || math.IsInf(v, 0) {
					continue
				}
				sum += v
				sumSq += v * v
				n++
				seriesSum[k] += v
				seriesN[k]++
			}
			cell := i*d1 + j
			if n == 0 {
				mean.Values[cell] = math.NaN()
				std.Values[cell] = math.NaN()
				continue
			}
			mu := sum / float64(n)
			mean.Values[cell] = mu
			variance := sumSq/float64(n) - mu*mu
			if variance < 0 { // float round-off on near-constant cells
				variance = 0
			}
			std.Values[cell] = math.Sqrt(variance)
		}
	}

	series := make([]float64, d2)
	for k := 0; k < d2; k++ {
		if seriesN[k] == 0 {
			series[k] = math.NaN()
			continue
		}
		series[k] = seriesSum[k] / float64(seriesN[k])
	}
	return &Result{Series: series, Mean: mean, StdDev: std}, nil
}

// SeasonalCycle folds a series by period and returns the per-phase mean
// (phase p averages series[p], series[p+period], ...). Returns nil when
// the series is shorter than one full period. Non-finite entries are
// excluded.
func SeasonalCycle(series []float64, period int) []float64 {
	if period <= 0 || len(series) < period {
		return nil
	}
	cycle := make([]float64, period)
	counts := make([]int, period)
	for i, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		cycle[i%period] += v
		counts[i%period]++
	}
	for p := range cycle {
		if counts[p] == 0 {
			cycle[p] = math.NaN()
			continue
		}
		cycle[p] /= float64(counts[p])
	}
	return cycle
}
