// Package report turns a pipeline result into a human-readable
// markdown narrative and a machine-readable YAML document. Any physical
// interpretation is generated here, from the data, and is always
// presented as a hypothesis; the pipeline itself makes no such claims.
package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tessfield/gridscope/internal/extremes"
	"github.com/tessfield/gridscope/internal/grid"
	"github.com/tessfield/gridscope/internal/pipeline"
	"github.com/tessfield/gridscope/internal/profile"
)

// Meta identifies one run.
type Meta struct {
	RunID       string
	Source      string
	GeneratedAt time.Time
	Charts      []string
}

// Markdown renders the narrative report.
func Markdown(res *pipeline.Result, meta Meta) string {
	var b strings.Builder

	b.WriteString("[RUN]\n")
	b.WriteString(fmt.Sprintf("ID: %s\n", meta.RunID))
	b.WriteString(fmt.Sprintf("Source: %s\n", meta.Source))
	b.WriteString(fmt.Sprintf("Generated: %s\n", meta.GeneratedAt.UTC().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("Shape: (%d, %d, %d), %d elements, %.2f MB as float32\n\n",
		res.Shape[0], res.Shape[1], res.Shape[2],
		res.Summary.Count, float64(res.Summary.Count)*4/(1024*1024)))

	s := res.Summary
	b.WriteString("[DATASET SUMMARY]\n")
	b.WriteString(fmt.Sprintf("- min %.4f, max %.4f\n", s.Min, s.Max))
	b.WriteString(fmt.Sprintf("- mean %.4f, median %.4f, std %.4f (population)\n", s.Mean, s.Median, s.StdDev))
	for _, p := range s.Percentiles {
		b.WriteString(fmt.Sprintf("- p%g: %.4f\n", p.Point, p.Value))
	}
	b.WriteString("\n[DATA QUALITY]\n")
	b.WriteString(fmt.Sprintf("- NaN: %d, Inf: %d (excluded from all statistics)\n", s.NaNs, s.Infs))
	b.WriteString(fmt.Sprintf("- zeros: %d, negatives: %d, finite: %d of %d\n\n", s.Zeros, s.Negatives, s.Finite, s.Count))

	b.WriteString("[GRID HYPOTHESIS]\n")
	if res.Grid != nil {
		g := res.Grid
		b.WriteString(fmt.Sprintf("Shape (%d, %d) matches a full-globe %.2f-degree equirectangular grid.\n", g.Rows, g.Cols, g.Resolution))
		b.WriteString(fmt.Sprintf("Axis 0 read as latitude, +90 at row 0 (lat = 90 - row*%.2f).\n", g.Resolution))
		b.WriteString(fmt.Sprintf("Axis 1 read as longitude, -180 at column 0 (lon = -180 + col*%.2f).\n", g.Resolution))
		b.WriteString("Axis 2 read as a time axis of unknown unit (step index only).\n")
		b.WriteString("This mapping is a shape-match hypothesis, not a verified fact.\n\n")
	} else {
		b.WriteString("No candidate resolution matches the spatial shape; coordinates are reported as raw indices.\n\n")
	}

	b.WriteString("[TEMPORAL PATTERN]\n")
	writeTemporal(&b, res.Series)
	if res.Seasonal != nil {
		b.WriteString("\n[SEASONAL CYCLE]\n")
		writeSeasonal(&b, res.Seasonal)
	}

	b.WriteString("\n[SPATIAL PATTERN]\n")
	writeSpatial(&b, res)

	b.WriteString("\n[EXTREME EVENTS]\n")
	writeEvents(&b, res.Detection)

	b.WriteString("\n[INTERPRETATION]\n")
	writeInterpretation(&b, res)

	if len(meta.Charts) > 0 {
		b.WriteString("\n[CHARTS]\n")
		for _, name := range meta.Charts {
			b.WriteString(fmt.Sprintf("- charts/%s\n", name))
		}
	}
	return b.String()
}

func writeTemporal(b *strings.Builder, series []float64) {
	minK, maxK := -1, -1
	for k, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if minK < 0 || v < series[minK] {
			minK = k
		}
		if maxK < 0 || v > series[maxK] {
			maxK = k
		}
	}
	b.WriteString(fmt.Sprintf("Series of %d spatial means, one per time step.\n", len(series)))
	if minK < 0 {
		b.WriteString("No finite series values.\n")
		return
	}
	b.WriteString(fmt.Sprintf("Lowest global mean %.4f at t=%d; highest %.4f at t=%d.\n", series[minK], minK, series[maxK], maxK))
}

func writeSeasonal(b *strings.Builder, cycle []float64) {
	peak, trough := -1, -1
	for p, v := range cycle {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if peak < 0 || v > cycle[peak] {
			peak = p
		}
		if trough < 0 || v < cycle[trough] {
			trough = p
		}
	}
	if peak < 0 {
		b.WriteString("No finite phase means.\n")
		return
	}
	b.WriteString(fmt.Sprintf("Folded at period %d: peak at phase %d (%.4f), trough at phase %d (%.4f), amplitude %.4f.\n",
		len(cycle), peak+1, cycle[peak], trough+1, cycle[trough], cycle[peak]-cycle[trough]))
	b.WriteString("Phases are 1-based; if steps are months, phase 1 is the first month present in the record.\n")
}

func writeSpatial(b *strings.Builder, res *pipeline.Result) {
	m := res.SpatialMean
	minI, minJ, maxI, maxJ := -1, -1, -1, -1
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if minI < 0 || v < m.At(minI, minJ) {
				minI, minJ = i, j
			}
			if maxI < 0 || v > m.At(maxI, maxJ) {
				maxI, maxJ = i, j
			}
		}
	}
	if minI < 0 {
		b.WriteString("No finite cells in the temporal-mean map.\n")
		return
	}
	b.WriteString(fmt.Sprintf("Temporal-mean map spans %.4f to %.4f.\n", m.At(minI, minJ), m.At(maxI, maxJ)))
	b.WriteString(fmt.Sprintf("Strongest cell at %s; weakest at %s.\n",
		cellLabel(maxI, maxJ, res.Grid), cellLabel(minI, minJ, res.Grid)))
}

func writeEvents(b *strings.Builder, det *extremes.Detection) {
	b.WriteString(fmt.Sprintf("High threshold %.4f, low threshold %.4f.\n", det.HighThreshold, det.LowThreshold))
	b.WriteString(fmt.Sprintf("%d high step(s), %d low step(s), %d localized event(s).\n", len(det.HighSteps), len(det.LowSteps), len(det.Events)))
	for _, ev := range det.Events {
		where := fmt.Sprintf("(%d, %d)", ev.Row, ev.Col)
		if ev.Located {
			where = fmt.Sprintf("(%d, %d) = %s", ev.Row, ev.Col, coordLabel(ev.Lat, ev.Lon))
		}
		b.WriteString(fmt.Sprintf("- %s: t=%d, cell %s, value %.4f\n", ev.Direction, ev.TimeIndex, where, ev.Value))
	}
}

func writeInterpretation(b *strings.Builder, res *pipeline.Result) {
	s := res.Summary
	if res.Grid != nil {
		b.WriteString(fmt.Sprintf("IF the %.2f-degree global-grid hypothesis holds, the extremes above localize to the listed coordinates.\n", res.Grid.Resolution))
	} else {
		b.WriteString("Without a resolved grid, spatial structure can only be described in index space.\n")
	}
	if s.Negatives == 0 && s.Finite > 0 {
		b.WriteString("All finite values are non-negative, consistent with an accumulated or magnitude-like quantity.\n")
	}
	b.WriteString("The physical variable and its units cannot be established from the array alone; ")
	b.WriteString("any labeling of this field (precipitation, wind, or otherwise) is conjecture and should be verified against the data's provenance.\n")
}

func cellLabel(i, j int, hyp *grid.Hypothesis) string {
	if hyp == nil {
		return fmt.Sprintf("index (%d, %d)", i, j)
	}
	return fmt.Sprintf("index (%d, %d) = %s", i, j, coordLabel(hyp.LatAt(i), hyp.LonAt(j)))
}

func coordLabel(lat, lon float64) string {
	ns, ew := "N", "E"
	if lat < 0 {
		ns, lat = "S", -lat
	}
	if lon < 0 {
		ew, lon = "W", -lon
	}
	return fmt.Sprintf("%.2f%s, %.2f%s", lat, ns, lon, ew)
}

// Results is the YAML mirror of the run output.
type Results struct {
	RunID       string              `yaml:"run_id"`
	Source      string              `yaml:"source"`
	GeneratedAt time.Time           `yaml:"generated_at"`
	Shape       [3]int              `yaml:"shape"`
	Summary     *profile.Summary    `yaml:"summary"`
	Grid        *grid.Hypothesis    `yaml:"grid,omitempty"`
	Series      []float64           `yaml:"series"`
	Seasonal    []float64           `yaml:"seasonal,omitempty"`
	Detection   *extremes.Detection `yaml:"detection"`
	Charts      []string            `yaml:"charts,omitempty"`
}

// YAML marshals the run's data for downstream tooling. The spatial maps
// are left to the charts; at grid resolution they dwarf the rest of the
// document.
func YAML(res *pipeline.Result, meta Meta) ([]byte, error) {
	doc := Results{
		RunID:       meta.RunID,
		Source:      meta.Source,
		GeneratedAt: meta.GeneratedAt.UTC(),
		Shape:       res.Shape,
		Summary:     res.Summary,
		Grid:        res.Grid,
		Series:      res.Series,
		Seasonal:    res.Seasonal,
		Detection:   res.Detection,
		Charts:      meta.Charts,
	}
	return yaml.Marshal(doc)
}
