package grid_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tessfield/gridscope/internal/grid"
)

func TestInferKnownShapes(t *testing.T) {
	cases := []struct {
		rows, cols int
		res        float64
	}{
		{720, 1440, 0.25},
		{360, 720, 0.5},
		{180, 360, 1.0},
	}
	for _, tc := range cases {
		h, ok := grid.Infer(tc.rows, tc.cols, nil)
		require.True(t, ok, "(%d, %d)", tc.rows, tc.cols)
		require.Equal(t, tc.res, h.Resolution)
		require.Equal(t, tc.rows, h.Rows)
		require.Equal(t, tc.cols, h.Cols)
	}
}

func TestInferUnresolved(t *testing.T) {
	for _, shape := range [][2]int{{721, 1440}, {720, 1439}, {100, 200}, {1440, 720}} {
		_, ok := grid.Infer(shape[0], shape[1], nil)
		require.False(t, ok, "(%d, %d)", shape[0], shape[1])
	}
}

func TestInferDeterministic(t *testing.T) {
	first, ok := grid.Infer(720, 1440, nil)
	require.True(t, ok)
	for i := 0; i < 5; i++ {
		h, ok := grid.Infer(720, 1440, nil)
		require.True(t, ok)
		require.Equal(t, first, h)
	}
}

func TestCandidatesSkipNonDividing(t *testing.T) {
	cands := grid.Candidates([]float64{0.25, 0.7, -1, 2})
	require.Len(t, cands, 2)
	require.Equal(t, grid.Candidate{Resolution: 0.25, Rows: 720, Cols: 1440}, cands[0])
	require.Equal(t, grid.Candidate{Resolution: 2, Rows: 90, Cols: 180}, cands[1])
}

func TestConversionFormula(t *testing.T) {
	h, ok := grid.Infer(720, 1440, nil)
	require.True(t, ok)

	// The documented formulas, literally.
	require.Equal(t, 90-660*0.25, h.LatAt(660))
	require.Equal(t, -180+860*0.25, h.LonAt(860))
	require.Equal(t, 90.0, h.LatAt(0))
	require.Equal(t, -180.0, h.LonAt(0))
}

func TestConversionRoundTrip(t *testing.T) {
	h, ok := grid.Infer(180, 360, nil)
	require.True(t, ok)
	for i := 0; i < h.Rows; i++ {
		for j := 0; j < h.Cols; j++ {
			gi, gj := h.CellAt(h.LatAt(i), h.LonAt(j))
			require.Equal(t, i, gi)
			require.Equal(t, j, gj)
		}
	}
}

func TestConversionRoundTripQuarterDegree(t *testing.T) {
	h, ok := grid.Infer(720, 1440, nil)
	require.True(t, ok)
	for _, cell := range [][2]int{{0, 0}, {660, 860}, {719, 1439}, {1, 1}, {360, 720}} {
		gi, gj := h.CellAt(h.LatAt(cell[0]), h.LonAt(cell[1]))
		require.Equal(t, cell[0], gi)
		require.Equal(t, cell[1], gj)
	}
}
