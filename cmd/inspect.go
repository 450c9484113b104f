package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessfield/gridscope/internal/grid"
	"github.com/tessfield/gridscope/internal/profile"
	"github.com/tessfield/gridscope/internal/tensor"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Load an array and print its summary statistics only",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		c := effectiveConfig()

		cube, err := tensor.Load(path)
		if err != nil {
			return err
		}
		d0, d1, d2 := cube.Dims()
		s, err := profile.Profile(cube, c.PercentilePoints)
		if err != nil {
			return err
		}

		var b strings.Builder
		b.WriteString("[DATASET SUMMARY]\n")
		b.WriteString(fmt.Sprintf("File: %s\n", path))
		b.WriteString(fmt.Sprintf("Shape: (%d, %d, %d), %d elements, %.2f MB as float32\n", d0, d1, d2, s.Count, float64(s.Count)*4/(1024*1024)))
		b.WriteString(fmt.Sprintf("min %.4f, max %.4f, mean %.4f, median %.4f, std %.4f\n", s.Min, s.Max, s.Mean, s.Median, s.StdDev))
		for _, p := range s.Percentiles {
			b.WriteString(fmt.Sprintf("- p%g: %.4f\n", p.Point, p.Value))
		}
		b.WriteString(fmt.Sprintf("NaN: %d, Inf: %d, zeros: %d, negatives: %d\n", s.NaNs, s.Infs, s.Zeros, s.Negatives))
		if hyp, ok := grid.Infer(d0, d1, c.Resolutions); ok {
			b.WriteString(fmt.Sprintf("Grid hypothesis: %.2f-degree global grid (%dx%d)\n", hyp.Resolution, hyp.Rows, hyp.Cols))
		} else {
			b.WriteString("Grid hypothesis: unresolved\n")
		}
		fmt.Print(b.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
