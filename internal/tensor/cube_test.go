package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tessfield/gridscope/internal/tensor"
)

func TestNewRejectsMismatchedShape(t *testing.T) {
	_, err := tensor.New(make([]float32, 5), 2, 3, 4)
	require.Error(t, err)

	_, err = tensor.New(make([]float32, 24), 2, -3, -4)
	require.Error(t, err)
}

func TestAtUsesRowMajorLayout(t *testing.T) {
	data := make([]float32, 24)
	for i := range data {
		data[i] = float32(i)
	}
	c, err := tensor.New(data, 2, 3, 4)
	require.NoError(t, err)

	d0, d1, d2 := c.Dims()
	require.Equal(t, [3]int{2, 3, 4}, [3]int{d0, d1, d2})
	require.Equal(t, 24, c.Len())

	// (i*3+j)*4+k
	require.Equal(t, float32(0), c.At(0, 0, 0))
	require.Equal(t, float32(4), c.At(0, 1, 0))
	require.Equal(t, float32(13), c.At(1, 0, 1))
	require.Equal(t, float32(23), c.At(1, 2, 3))
}

func TestNewAllowsZeroElements(t *testing.T) {
	c, err := tensor.New(nil, 0, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 0, c.Len())
}
