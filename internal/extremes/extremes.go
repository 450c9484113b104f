// Package extremes finds percentile-threshold crossings in the global
// mean series and localizes the spatial cell responsible for each one.
package extremes

import (
	"errors"
	"math"
	"sort"

	"github.com/tessfield/gridscope/internal/grid"
	"github.com/tessfield/gridscope/internal/profile"
	"github.com/tessfield/gridscope/internal/tensor"
)

// ErrNoData is returned when the temporal series is empty.
var ErrNoData = errors.New("extremes: empty series")

// Direction marks which tail of the distribution an event sits in.
type Direction string

const (
	High Direction = "high"
	Low  Direction = "low"
)

// Mode selects how events are localized.
type Mode string

const (
	// ModePerStep emits one event per extreme time step, at that
	// step's most extreme spatial cell.
	ModePerStep Mode = "per-step"
	// ModeGlobal emits a single event per direction, at the most
	// extreme cell of the whole cube.
	ModeGlobal Mode = "global"
)

// Event is one localized extreme value.
type Event struct {
	TimeIndex int       `yaml:"time_index"`
	Row       int       `yaml:"row"`
	Col       int       `yaml:"col"`
	Value     float64   `yaml:"value"`
	Direction Direction `yaml:"direction"`
	// Lat/Lon are filled only when the grid hypothesis resolved.
	Located bool    `yaml:"located"`
	Lat     float64 `yaml:"lat,omitempty"`
	Lon     float64 `yaml:"lon,omitempty"`
}

// Options configures a detection run.
type Options struct {
	HighPercentile float64 // e.g. 95
	LowPercentile  float64 // e.g. 5
	Mode           Mode
}

// Detection is the full detector output for one run.
type Detection struct {
	HighThreshold float64 `yaml:"high_threshold"`
	LowThreshold  float64 `yaml:"low_threshold"`
	HighSteps     []int   `yaml:"high_steps"`
	LowSteps      []int   `yaml:"low_steps"`
	Events        []Event `yaml:"events"`
}

// Detect computes percentile thresholds over the series, collects the
// time steps whose series value lies strictly beyond them, and locates
// the extreme spatial cell for each. hyp may be nil when grid inference
// was unresolved; events then carry raw indices only. Inputs are never
// mutated; a fresh Detection is returned each call.
func Detect(series []float64, c *tensor.Cube, hyp *grid.Hypothesis, opts Options) (*Detection, error) {
	if len(series) == 0 {
		return nil, ErrNoData
	}
	if opts.Mode == "" {
		opts.Mode = ModePerStep
	}

	finite := make([]float64, 0, len(series))
	for _, v := range series {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	sort.Float64s(finite)
	det := &Detection{
		HighThreshold: profile.Quantile(finite, opts.HighPercentile/100),
		LowThreshold:  profile.Quantile(finite, opts.LowPercentile/100),
	}
	for k, v := range series {
		if v > det.HighThreshold {
			det.HighSteps = append(det.HighSteps, k)
		}
		if v < det.LowThreshold {
			det.LowSteps = append(det.LowSteps, k)
		}
	}

	switch opts.Mode {
	case ModeGlobal:
		if ev, ok := locateGlobal(c, hyp, High); ok {
			det.Events = append(det.Events, ev)
		}
		if ev, ok := locateGlobal(c, hyp, Low); ok {
			det.Events = append(det.Events, ev)
		}
	default:
		for _, k := range det.HighSteps {
			if ev, ok := locateStep(c, hyp, k, High); ok {
				det.Events = append(det.Events, ev)
			}
		}
		for _, k := range det.LowSteps {
			if ev, ok := locateStep(c, hyp, k, Low); ok {
				det.Events = append(det.Events, ev)
			}
		}
	}
	return det, nil
}

// locateStep finds the extreme cell within time slice k. Ties keep the
// first cell in row-major order: later cells must be strictly more
// extreme to win.
func locateStep(c *tensor.Cube, hyp *grid.Hypothesis, k int, dir Direction) (Event, bool) {
	d0, d1, _ := c.Dims()
	best := Event{TimeIndex: k, Direction: dir}
	found := false
	for i := 0; i < d0; i++ {
		for j := 0; j < d1; j++ {
			v := float64(c.At(i, j, k))
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if !found || better(v, best.Value, dir) {
				best.Row, best.Col, best.Value = i, j, v
				found = true
			}
		}
	}
	if !found {
		return Event{}, false
	}
	locate(&best, hyp)
	return best, true
}

// locateGlobal scans the whole cube. Tie-break is row-major over
// (row, col) and ascending time within a cell, matching the cube's
// memory order.
func locateGlobal(c *tensor.Cube, hyp *grid.Hypothesis, dir Direction) (Event, bool) {
	_, d1, d2 := c.Dims()
	best := Event{Direction: dir}
	found := false
	vals := c.Values()
	for idx, raw := range vals {
		v := float64(raw)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if !found || better(v, best.Value, dir) {
			best.Row = idx / (d1 * d2)
			best.Col = (idx / d2) % d1
			best.TimeIndex = idx % d2
			best.Value = v
			found = true
		}
	}
	if !found {
		return Event{}, false
	}
	locate(&best, hyp)
	return best, true
}

func better(v, incumbent float64, dir Direction) bool {
	if dir == High {
		return v > incumbent
	}
	return v < incumbent
}

func locate(ev *Event, hyp *grid.Hypothesis) {
	if hyp == nil {
		return
	}
	ev.Located = true
	ev.Lat = hyp.LatAt(ev.Row)
	ev.Lon = hyp.LonAt(ev.Col)
}
