package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tessfield/gridscope/internal/grid"
)

var gridsCmd = &cobra.Command{
	Use:   "grids",
	Short: "List the candidate grid resolutions the inference matches against",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		resolutions := c.Resolutions
		if len(resolutions) == 0 {
			resolutions = grid.DefaultResolutions
		}
		fmt.Println("resolution  rows  cols")
		for _, cand := range grid.Candidates(resolutions) {
			fmt.Printf("%9.2f° %5d %5d\n", cand.Resolution, cand.Rows, cand.Cols)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(gridsCmd)
}
