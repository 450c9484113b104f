package tensor

import (
	"fmt"
	"math"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

// loadNetCDF reads the first 3-D float variable found in a NetCDF file.
// Cells equal to the variable's _FillValue (or missing_value) become
// NaN so the pipeline's non-finite policy handles them uniformly.
func loadNetCDF(path string) (*Cube, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer nc.Close()

	for _, name := range nc.ListVariables() {
		v, err := nc.GetVariable(name)
		if err != nil {
			continue
		}
		cube, ok := cubeFromVariable(v)
		if !ok {
			continue
		}
		return cube, nil
	}
	return nil, &LoadError{Path: path, Err: fmt.Errorf("no 3-D float variable found")}
}

func cubeFromVariable(v *api.Variable) (*Cube, bool) {
	fill, hasFill := fillValue(v.Attributes)
	switch vals := v.Values.(type) {
	case [][][]float32:
		return flatten(vals, func(x float32) float32 { return x }, fill, hasFill)
	case [][][]float64:
		return flatten(vals, func(x float64) float32 { return float32(x) }, fill, hasFill)
	default:
		return nil, false
	}
}

func flatten[T float32 | float64](vals [][][]T, narrow func(T) float32, fill float64, hasFill bool) (*Cube, bool) {
	d0 := len(vals)
	if d0 == 0 || len(vals[0]) == 0 || len(vals[0][0]) == 0 {
		return nil, false
	}
	d1, d2 := len(vals[0]), len(vals[0][0])
	data := make([]float32, 0, d0*d1*d2)
	for i := 0; i < d0; i++ {
		if len(vals[i]) != d1 {
			return nil, false
		}
		for j := 0; j < d1; j++ {
			if len(vals[i][j]) != d2 {
				return nil, false
			}
			for k := 0; k < d2; k++ {
				x := narrow(vals[i][j][k])
				if hasFill && float64(x) == fill {
					x = float32(math.NaN())
				}
				data = append(data, x)
			}
		}
	}
	c, err := New(data, d0, d1, d2)
	if err != nil {
		return nil, false
	}
	return c, true
}

// fillValue extracts _FillValue or missing_value from the attribute map
// when present as a numeric scalar (or a one-element slice of one).
func fillValue(attrs api.AttributeMap) (float64, bool) {
	if attrs == nil {
		return 0, false
	}
	for _, key := range []string{"_FillValue", "missing_value"} {
		raw, has := attrs.Get(key)
		if !has {
			continue
		}
		switch x := raw.(type) {
		case float32:
			return float64(x), true
		case float64:
			return x, true
		case int32:
			return float64(x), true
		case []float32:
			if len(x) == 1 {
				return float64(x[0]), true
			}
		case []float64:
			if len(x) == 1 {
				return x[0], true
			}
		}
	}
	return 0, false
}
