package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	cfgpkg "github.com/tessfield/gridscope/internal/config"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	quiet   bool

	// Loaded configuration
	cfg *cfgpkg.Global

	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gridscope",
	Short: "Gridscope: exploratory analysis of unknown gridded arrays",
	Long: `Gridscope loads a 3-D float array of unknown origin, infers a probable
lat/lon/time grid from its shape, computes descriptive statistics and axis
reductions, detects percentile extremes, and writes charts plus a narrative
report of what the data could be.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(initLogger, loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.gridscope/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "log errors only")
}

func initLogger() {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	if quiet {
		level = zerolog.ErrorLevel
	}
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults.
		log.Warn().Err(err).Msg("failed to load config")
		return
	}
	cfg = c
}

// effectiveConfig returns the loaded config, or defaults when loading
// failed earlier.
func effectiveConfig() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	c, err := cfgpkg.Load("")
	if err != nil {
		return &cfgpkg.Global{}
	}
	return c
}
