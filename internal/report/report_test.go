package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tessfield/gridscope/internal/pipeline"
	"github.com/tessfield/gridscope/internal/report"
	"github.com/tessfield/gridscope/internal/tensor"
)

func resolvedResult(t *testing.T) *pipeline.Result {
	t.Helper()
	const d0, d1, d2 = 180, 360, 14
	data := make([]float32, d0*d1*d2)
	data[(10*d1+20)*d2+3] = 500
	c, err := tensor.New(data, d0, d1, d2)
	require.NoError(t, err)
	res, err := pipeline.Run(c, pipeline.DefaultOptions())
	require.NoError(t, err)
	return res
}

func TestMarkdownSections(t *testing.T) {
	res := resolvedResult(t)
	meta := report.Meta{
		RunID:       "test-run",
		Source:      "mystery.npy",
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Charts:      []string{"timeseries.png"},
	}
	md := report.Markdown(res, meta)

	for _, section := range []string{
		"[RUN]",
		"[DATASET SUMMARY]",
		"[DATA QUALITY]",
		"[GRID HYPOTHESIS]",
		"[TEMPORAL PATTERN]",
		"[SEASONAL CYCLE]",
		"[SPATIAL PATTERN]",
		"[EXTREME EVENTS]",
		"[INTERPRETATION]",
		"[CHARTS]",
	} {
		require.Contains(t, md, section)
	}
	require.Contains(t, md, "test-run")
	require.Contains(t, md, "mystery.npy")
	require.Contains(t, md, "1.00-degree equirectangular grid")
	require.Contains(t, md, "hypothesis, not a verified fact")
	require.Contains(t, md, "conjecture")
	require.Contains(t, md, "charts/timeseries.png")
}

func TestMarkdownUnresolvedGrid(t *testing.T) {
	c, err := tensor.New(make([]float32, 2*3*4), 2, 3, 4)
	require.NoError(t, err)
	res, err := pipeline.Run(c, pipeline.DefaultOptions())
	require.NoError(t, err)

	md := report.Markdown(res, report.Meta{RunID: "r", Source: "s", GeneratedAt: time.Now()})
	require.Contains(t, md, "No candidate resolution matches")
	require.NotContains(t, md, "equirectangular grid.")
}

func TestYAMLRoundTrip(t *testing.T) {
	res := resolvedResult(t)
	meta := report.Meta{RunID: "yaml-run", Source: "in.nc", GeneratedAt: time.Now()}

	raw, err := report.YAML(res, meta)
	require.NoError(t, err)

	var doc report.Results
	require.NoError(t, yaml.Unmarshal(raw, &doc))
	require.Equal(t, "yaml-run", doc.RunID)
	require.Equal(t, "in.nc", doc.Source)
	require.Equal(t, res.Shape, doc.Shape)
	require.Len(t, doc.Series, res.Shape[2])
	require.NotNil(t, doc.Grid)
	require.Equal(t, 1.0, doc.Grid.Resolution)
	require.Equal(t, res.Detection.HighThreshold, doc.Detection.HighThreshold)
	require.Len(t, doc.Detection.Events, len(res.Detection.Events))
}
