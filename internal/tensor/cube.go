// Package tensor holds the in-memory 3-D array the pipeline analyzes,
// plus loaders for the serialized formats it may arrive in.
package tensor

import "fmt"

// Cube is a dense 3-D float32 array in row-major layout (axis 0 varies
// slowest). It is immutable by contract: nothing in this module writes
// to a cube after its loader returns it.
type Cube struct {
	data []float32
	d0   int
	d1   int
	d2   int
}

// New wraps data as a cube of shape (d0, d1, d2). The slice is adopted,
// not copied; the caller must not mutate it afterwards.
func New(data []float32, d0, d1, d2 int) (*Cube, error) {
	if d0 < 0 || d1 < 0 || d2 < 0 {
		return nil, fmt.Errorf("tensor: negative dimension in shape (%d, %d, %d)", d0, d1, d2)
	}
	if len(data) != d0*d1*d2 {
		return nil, fmt.Errorf("tensor: %d values do not fill shape (%d, %d, %d)", len(data), d0, d1, d2)
	}
	return &Cube{data: data, d0: d0, d1: d1, d2: d2}, nil
}

// Dims returns the cube's shape.
func (c *Cube) Dims() (d0, d1, d2 int) { return c.d0, c.d1, c.d2 }

// Len returns the total element count.
func (c *Cube) Len() int { return len(c.data) }

// At returns the element at (i, j, k). Indices are not bounds-checked
// beyond what the runtime does on the backing slice.
func (c *Cube) At(i, j, k int) float32 {
	return c.data[(i*c.d1+j)*c.d2+k]
}

// Values exposes the backing slice for single-pass readers. Read-only.
func (c *Cube) Values() []float32 { return c.data }
