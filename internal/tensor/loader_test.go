package tensor_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tessfield/gridscope/internal/tensor"
)

// writeNPY writes a minimal version-1.0 .npy file. The pipeline's own
// loader goes through npyio, so the fixture is produced from the format
// spec directly rather than with the same library.
func writeNPY(t *testing.T, path, descr string, fortran bool, shape []int, data []float32) {
	t.Helper()

	order := "False"
	if fortran {
		order = "True"
	}
	dims := make([]string, len(shape))
	for i, d := range shape {
		dims[i] = fmt.Sprintf("%d", d)
	}
	shapeRepr := strings.Join(dims, ", ")
	if len(shape) == 1 {
		shapeRepr += ","
	}
	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': %s, 'shape': (%s), }", descr, order, shapeRepr)
	// Pad so magic+version+len+header is a multiple of 64, newline last.
	total := 10 + len(header) + 1
	if pad := total % 64; pad != 0 {
		header += strings.Repeat(" ", 64-pad)
	}
	header += "\n"

	var buf bytes.Buffer
	buf.WriteString("\x93NUMPY")
	buf.WriteByte(1)
	buf.WriteByte(0)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(len(header))))
	buf.WriteString(header)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, data))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestLoadNPY(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cube.npy")
	data := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	writeNPY(t, path, "<f4", false, []int{2, 2, 3}, data)

	c, err := tensor.Load(path)
	require.NoError(t, err)
	d0, d1, d2 := c.Dims()
	require.Equal(t, [3]int{2, 2, 3}, [3]int{d0, d1, d2})
	require.Equal(t, float32(1), c.At(0, 0, 0))
	require.Equal(t, float32(6), c.At(0, 1, 2))
	require.Equal(t, float32(12), c.At(1, 1, 2))
}

func TestLoadNPYRejectsFortranOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fortran.npy")
	writeNPY(t, path, "<f4", true, []int{1, 1, 2}, []float32{1, 2})

	_, err := tensor.Load(path)
	var le *tensor.LoadError
	require.ErrorAs(t, err, &le)
	require.Contains(t, le.Error(), "fortran")
}

func TestLoadNPYRejectsWrongRank(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flat.npy")
	writeNPY(t, path, "<f4", false, []int{4}, []float32{1, 2, 3, 4})

	_, err := tensor.Load(path)
	var le *tensor.LoadError
	require.ErrorAs(t, err, &le)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := tensor.Load(filepath.Join(t.TempDir(), "nope.npy"))
	var le *tensor.LoadError
	require.ErrorAs(t, err, &le)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("junk"), 0o644))

	_, err := tensor.Load(path)
	var le *tensor.LoadError
	require.ErrorAs(t, err, &le)
	require.Contains(t, le.Error(), "unsupported extension")
}
