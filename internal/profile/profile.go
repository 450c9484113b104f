// Package profile computes the descriptive statistics of a cube,
// treating it as an unordered multiset of float values.
package profile

import (
	"errors"
	"math"
	"sort"

	"github.com/tessfield/gridscope/internal/tensor"
)

// ErrEmptyInput is returned when the cube holds zero elements.
var ErrEmptyInput = errors.New("profile: empty input")

// DefaultPoints are the percentile points reported when the caller does
// not pick its own set.
var DefaultPoints = []float64{1, 5, 10, 25, 50, 75, 90, 95, 99}

// Percentile pairs a percentile point (0-100) with its interpolated value.
type Percentile struct {
	Point float64 `yaml:"point"`
	Value float64 `yaml:"value"`
}

// Summary holds the scalar aggregates of one cube. Non-finite elements
// are excluded from every statistic and reported via the count fields.
// When no finite element exists, the statistics are NaN.
type Summary struct {
	Count     int `yaml:"count"`
	Finite    int `yaml:"finite"`
	NaNs      int `yaml:"nans"`
	Infs      int `yaml:"infs"`
	Zeros     int `yaml:"zeros"`
	Negatives int `yaml:"negatives"`

	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	Mean   float64 `yaml:"mean"`
	Median float64 `yaml:"median"`
	StdDev float64 `yaml:"stddev"` // population (divide by n)

	Percentiles []Percentile `yaml:"percentiles"`
}

// Profile computes a Summary over the whole cube at the given
// percentile points (DefaultPoints when nil). Points are evaluated in
// ascending order, so the reported percentile values are monotonically
// non-decreasing.
func Profile(c *tensor.Cube, points []float64) (*Summary, error) {
	if c.Len() == 0 {
		return nil, ErrEmptyInput
	}
	if points == nil {
		points = DefaultPoints
	}
	pts := append([]float64(nil), points...)
	sort.Float64s(pts)

	s := &Summary{Count: c.Len()}
	finite := make([]float64, 0, c.Len())
	var mean, m2 float64 // Welford accumulators
	s.Min = math.Inf(1)
	s.Max = math.Inf(-1)
	for _, raw := range c.Values() {
		v := float64(raw)
		switch {
		case math.IsNaN(v):
			s.NaNs++
			continue
		case math.IsInf(v, 0):
			s.Infs++
			continue
		}
		if v == 0 {
			s.Zeros++
		} else if v < 0 {
			s.Negatives++
		}
		s.Finite++
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		delta := v - mean
		mean += delta / float64(s.Finite)
		m2 += delta * (v - mean)
		finite = append(finite, v)
	}

	if s.Finite == 0 {
		nan := math.NaN()
		s.Min, s.Max, s.Mean, s.Median, s.StdDev = nan, nan, nan, nan, nan
		for _, p := range pts {
			s.Percentiles = append(s.Percentiles, Percentile{Point: p, Value: nan})
		}
		return s, nil
	}

	s.Mean = mean
	s.StdDev = math.Sqrt(m2 / float64(s.Finite))
	sort.Float64s(finite)
	s.Median = Quantile(finite, 0.5)
	s.Percentiles = make([]Percentile, 0, len(pts))
	for _, p := range pts {
		s.Percentiles = append(s.Percentiles, Percentile{Point: p, Value: Quantile(finite, p/100)})
	}
	return s, nil
}

// Quantile returns the q-th quantile (q in [0,1]) of an ascending
// sorted sample, linearly interpolating between the order statistics at
// position q*(n-1), numpy's default percentile definition.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
