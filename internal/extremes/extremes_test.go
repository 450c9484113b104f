package extremes_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tessfield/gridscope/internal/aggregate"
	"github.com/tessfield/gridscope/internal/extremes"
	"github.com/tessfield/gridscope/internal/grid"
	"github.com/tessfield/gridscope/internal/tensor"
)

func TestDetectEmptySeries(t *testing.T) {
	c, err := tensor.New(nil, 0, 0, 0)
	require.NoError(t, err)
	_, err = extremes.Detect(nil, c, nil, extremes.Options{HighPercentile: 95, LowPercentile: 5})
	require.ErrorIs(t, err, extremes.ErrNoData)
}

func TestDetectTieBreakIsRowMajor(t *testing.T) {
	// Two cells share the maximum 5 at t=0; (0,0) precedes (0,1).
	c, err := tensor.New([]float32{
		5, 0,
		5, 0,
		3, 0,
		1, 0,
	}, 2, 2, 2)
	require.NoError(t, err)
	series := []float64{3.5, 0} // spatial means

	det, err := extremes.Detect(series, c, nil, extremes.Options{HighPercentile: 95, LowPercentile: 5})
	require.NoError(t, err)

	require.Equal(t, []int{0}, det.HighSteps)
	require.Equal(t, []int{1}, det.LowSteps)
	require.Len(t, det.Events, 2)

	high := det.Events[0]
	require.Equal(t, extremes.High, high.Direction)
	require.Equal(t, 0, high.TimeIndex)
	require.Equal(t, 0, high.Row)
	require.Equal(t, 0, high.Col)
	require.Equal(t, 5.0, high.Value)
	require.False(t, high.Located)

	// t=1 is all zeros: the low event also ties, first row-major wins.
	low := det.Events[1]
	require.Equal(t, extremes.Low, low.Direction)
	require.Equal(t, 1, low.TimeIndex)
	require.Equal(t, 0, low.Row)
	require.Equal(t, 0, low.Col)
}

func TestDetectGlobalMode(t *testing.T) {
	c, err := tensor.New([]float32{
		1, 2,
		3, 4,
		5, 99,
		-7, 8,
	}, 2, 2, 2)
	require.NoError(t, err)
	series := []float64{0.5, 28.25}

	det, err := extremes.Detect(series, c, nil, extremes.Options{
		HighPercentile: 95,
		LowPercentile:  5,
		Mode:           extremes.ModeGlobal,
	})
	require.NoError(t, err)
	require.Len(t, det.Events, 2)

	high := det.Events[0]
	require.Equal(t, extremes.High, high.Direction)
	require.Equal(t, 99.0, high.Value)
	require.Equal(t, 1, high.Row)
	require.Equal(t, 0, high.Col)
	require.Equal(t, 1, high.TimeIndex)

	low := det.Events[1]
	require.Equal(t, extremes.Low, low.Direction)
	require.Equal(t, -7.0, low.Value)
	require.Equal(t, 1, low.Row)
	require.Equal(t, 1, low.Col)
	require.Equal(t, 0, low.TimeIndex)
}

func TestDetectLocatesWithGrid(t *testing.T) {
	// 1-degree grid shape so the hypothesis resolves.
	data := make([]float32, 180*360*2)
	data[(10*360+20)*2+1] = 42 // (10, 20, t=1)
	c, err := tensor.New(data, 180, 360, 2)
	require.NoError(t, err)

	agg, err := aggregate.Reduce(c, aggregate.TimeAxis)
	require.NoError(t, err)
	hyp, ok := grid.Infer(180, 360, nil)
	require.True(t, ok)

	det, err := extremes.Detect(agg.Series, c, &hyp, extremes.Options{HighPercentile: 95, LowPercentile: 0})
	require.NoError(t, err)
	require.Len(t, det.Events, 1)

	ev := det.Events[0]
	require.Equal(t, 1, ev.TimeIndex)
	require.Equal(t, 10, ev.Row)
	require.Equal(t, 20, ev.Col)
	require.True(t, ev.Located)
	require.Equal(t, 90-10*1.0, ev.Lat)
	require.Equal(t, -180+20*1.0, ev.Lon)
}

// TestDetectSingleSpikeQuarterDegree is the full-size reference
// scenario: a (720, 1440, 129) all-zero cube with one cell set to
// 311800.88 at spatial index (660, 860), time 0. Allocates ~512 MB.
func TestDetectSingleSpikeQuarterDegree(t *testing.T) {
	if testing.Short() {
		t.Skip("large allocation")
	}
	const d0, d1, d2 = 720, 1440, 129
	data := make([]float32, d0*d1*d2)
	data[(660*d1+860)*d2+0] = 311800.88
	c, err := tensor.New(data, d0, d1, d2)
	require.NoError(t, err)

	agg, err := aggregate.Reduce(c, aggregate.TimeAxis)
	require.NoError(t, err)
	require.Len(t, agg.Series, d2)

	hyp, ok := grid.Infer(d0, d1, nil)
	require.True(t, ok)
	require.Equal(t, 0.25, hyp.Resolution)

	det, err := extremes.Detect(agg.Series, c, &hyp, extremes.Options{HighPercentile: 95, LowPercentile: 5})
	require.NoError(t, err)

	require.Len(t, det.Events, 1)
	ev := det.Events[0]
	require.Equal(t, extremes.High, ev.Direction)
	require.Equal(t, 0, ev.TimeIndex)
	require.Equal(t, 660, ev.Row)
	require.Equal(t, 860, ev.Col)
	require.InDelta(t, 311800.88, ev.Value, 0.01)
	require.True(t, ev.Located)
	// Assert the documented formula's literal output.
	require.Equal(t, 90-660*0.25, ev.Lat)
	require.Equal(t, -180+860*0.25, ev.Lon)
}
