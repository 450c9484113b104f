// Package grid infers a probable lat/lon grid from the two spatial
// dimensions of a cube. The result is a hypothesis, never a verified
// fact: an exact shape match against a table of known full-globe
// equirectangular resolutions.
package grid

import "math"

// DefaultResolutions are the candidate grid spacings, in degrees.
var DefaultResolutions = []float64{0.25, 0.5, 1.0}

// Candidate is one row of the lookup table: a resolution and the shape
// a full-globe equirectangular grid of that resolution would have.
type Candidate struct {
	Resolution float64 `yaml:"resolution"`
	Rows       int     `yaml:"rows"`
	Cols       int     `yaml:"cols"`
}

// Candidates expands resolutions into table rows. Resolutions that do
// not divide 180 evenly are skipped.
func Candidates(resolutions []float64) []Candidate {
	out := make([]Candidate, 0, len(resolutions))
	for _, res := range resolutions {
		if res <= 0 {
			continue
		}
		rows := 180 / res
		cols := 360 / res
		if rows != math.Trunc(rows) || cols != math.Trunc(cols) {
			continue
		}
		out = append(out, Candidate{Resolution: res, Rows: int(rows), Cols: int(cols)})
	}
	return out
}

// Hypothesis maps cube axes to physical meaning: axis 0 is latitude
// descending from +90°, axis 1 is longitude ascending from -180°, and
// the leftover axis 2 is a unitless time step index.
type Hypothesis struct {
	Resolution float64 `yaml:"resolution"`
	Rows       int     `yaml:"rows"`
	Cols       int     `yaml:"cols"`
}

// Infer matches (rows, cols) exactly against the candidate table.
// It returns ok=false when no candidate matches; callers must not
// substitute a guess.
func Infer(rows, cols int, resolutions []float64) (Hypothesis, bool) {
	if resolutions == nil {
		resolutions = DefaultResolutions
	}
	for _, c := range Candidates(resolutions) {
		if c.Rows == rows && c.Cols == cols {
			return Hypothesis{Resolution: c.Resolution, Rows: rows, Cols: cols}, true
		}
	}
	return Hypothesis{}, false
}

// LatAt converts a row index to degrees latitude: lat = 90 - i*res.
func (h Hypothesis) LatAt(i int) float64 { return 90 - float64(i)*h.Resolution }

// LonAt converts a column index to degrees longitude: lon = -180 + j*res.
func (h Hypothesis) LonAt(j int) float64 { return -180 + float64(j)*h.Resolution }

// CellAt is the exact inverse of LatAt/LonAt for on-grid coordinates;
// off-grid coordinates snap to the nearest cell.
func (h Hypothesis) CellAt(lat, lon float64) (i, j int) {
	i = int(math.Round((90 - lat) / h.Resolution))
	j = int(math.Round((lon + 180) / h.Resolution))
	return i, j
}
