package tensor

import (
	"fmt"
	"os"

	"github.com/sbinet/npyio"
)

// loadNPY reads a numpy .npy file holding a C-ordered 3-D float array.
// float64 payloads are narrowed to float32 to keep the resident size at
// 4 bytes per element regardless of how the array was saved.
func loadNPY(path string) (*Cube, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("parse npy header: %w", err)}
	}
	shape := r.Header.Descr.Shape
	if len(shape) != 3 {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("expected 3 dimensions, got %d", len(shape))}
	}
	if r.Header.Descr.Fortran {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("fortran-ordered arrays are not supported")}
	}
	d0, d1, d2 := shape[0], shape[1], shape[2]
	if d0 <= 0 || d1 <= 0 || d2 <= 0 {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("degenerate shape (%d, %d, %d)", d0, d1, d2)}
	}

	var data []float32
	switch r.Header.Descr.Type {
	case "<f4", "=f4", "f4":
		if err := r.Read(&data); err != nil {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("read float32 payload: %w", err)}
		}
	case "<f8", "=f8", "f8":
		var wide []float64
		if err := r.Read(&wide); err != nil {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("read float64 payload: %w", err)}
		}
		data = make([]float32, len(wide))
		for i, v := range wide {
			data[i] = float32(v)
		}
	default:
		return nil, &LoadError{Path: path, Err: fmt.Errorf("unsupported dtype %q", r.Header.Descr.Type)}
	}

	c, err := New(data, d0, d1, d2)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return c, nil
}
