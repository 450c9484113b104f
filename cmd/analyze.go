package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tessfield/gridscope/internal/extremes"
	"github.com/tessfield/gridscope/internal/pipeline"
	"github.com/tessfield/gridscope/internal/render"
	"github.com/tessfield/gridscope/internal/report"
	"github.com/tessfield/gridscope/internal/tensor"
)

var (
	anaOutputDir string
	anaNoCharts  bool
	anaHighPct   float64
	anaLowPct    float64
	anaMode      string
	anaPeriod    int
	anaBins      int
	anaStride    int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Run the full analysis pipeline over a 3-D array file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		c := effectiveConfig()

		opts := pipeline.DefaultOptions()
		if len(c.PercentilePoints) > 0 {
			opts.PercentilePoints = c.PercentilePoints
		}
		if len(c.Resolutions) > 0 {
			opts.Resolutions = c.Resolutions
		}
		opts.HighPercentile = c.HighPercentile
		opts.LowPercentile = c.LowPercentile
		if c.DetectionMode != "" {
			opts.Mode = extremes.Mode(c.DetectionMode)
		}
		if c.SeasonalPeriod > 0 {
			opts.SeasonalPeriod = c.SeasonalPeriod
		}
		// Flag overrides
		if cmd.Flags().Changed("high-percentile") {
			opts.HighPercentile = anaHighPct
		}
		if cmd.Flags().Changed("low-percentile") {
			opts.LowPercentile = anaLowPct
		}
		if cmd.Flags().Changed("mode") {
			switch anaMode {
			case string(extremes.ModePerStep), string(extremes.ModeGlobal):
				opts.Mode = extremes.Mode(anaMode)
			default:
				return fmt.Errorf("unsupported --mode: %s (use 'per-step'|'global')", anaMode)
			}
		}
		if cmd.Flags().Changed("seasonal-period") {
			opts.SeasonalPeriod = anaPeriod
		}
		outputDir := c.OutputDir
		if cmd.Flags().Changed("output-dir") {
			outputDir = anaOutputDir
		}
		charts := c.Charts && !anaNoCharts
		bins := c.HistogramBins
		if cmd.Flags().Changed("histogram-bins") {
			bins = anaBins
		}
		stride := c.SampleStride
		if cmd.Flags().Changed("sample-stride") {
			stride = anaStride
		}

		start := time.Now()
		log.Info().Str("file", path).Msg("loading array")
		cube, err := tensor.Load(path)
		if err != nil {
			return err
		}
		d0, d1, d2 := cube.Dims()
		log.Info().
			Int("d0", d0).Int("d1", d1).Int("d2", d2).
			Dur("elapsed", time.Since(start)).
			Msg("array loaded")

		res, err := pipeline.Run(cube, opts)
		if err != nil {
			return err
		}
		log.Info().
			Int("events", len(res.Detection.Events)).
			Bool("grid_resolved", res.Grid != nil).
			Dur("elapsed", time.Since(start)).
			Msg("pipeline done")

		meta := report.Meta{
			RunID:       uuid.NewString(),
			Source:      path,
			GeneratedAt: time.Now(),
		}

		if outputDir == "" {
			if charts {
				log.Warn().Msg("charts skipped: no output directory (use --output-dir)")
			}
			fmt.Println(report.Markdown(res, meta))
			return nil
		}
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("mkdir output dir: %w", err)
		}

		if charts {
			names, err := render.WriteAll(filepath.Join(outputDir, "charts"), res, cube, bins, stride)
			if err != nil {
				return fmt.Errorf("render charts: %w", err)
			}
			meta.Charts = names
			log.Info().Int("charts", len(names)).Msg("charts written")
		}

		md := report.Markdown(res, meta)
		reportPath := filepath.Join(outputDir, "report.md")
		if err := os.WriteFile(reportPath, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		ym, err := report.YAML(res, meta)
		if err != nil {
			return fmt.Errorf("marshal results: %w", err)
		}
		resultsPath := filepath.Join(outputDir, "results.yaml")
		if err := os.WriteFile(resultsPath, ym, 0o644); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
		fmt.Printf("✓ Wrote %s and %s\n", reportPath, resultsPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputDir, "output-dir", "o", "", "directory for report.md, results.yaml and charts/ (stdout if empty)")
	analyzeCmd.Flags().BoolVar(&anaNoCharts, "no-charts", false, "skip PNG chart rendering")
	analyzeCmd.Flags().Float64Var(&anaHighPct, "high-percentile", 95, "percentile for the high-extreme threshold")
	analyzeCmd.Flags().Float64Var(&anaLowPct, "low-percentile", 5, "percentile for the low-extreme threshold")
	analyzeCmd.Flags().StringVar(&anaMode, "mode", "per-step", "extreme localization: 'per-step'|'global'")
	analyzeCmd.Flags().IntVar(&anaPeriod, "seasonal-period", 12, "fold period for the seasonal cycle")
	analyzeCmd.Flags().IntVar(&anaBins, "histogram-bins", 50, "histogram bin count")
	analyzeCmd.Flags().IntVar(&anaStride, "sample-stride", 10000, "take every n-th element for the histogram")
}
