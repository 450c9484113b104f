package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure. Everything here is a default; each
// analyze flag overrides its field for one run.
type Global struct {
	OutputDir        string    `mapstructure:"output_dir" yaml:"output_dir"`
	PercentilePoints []float64 `mapstructure:"percentile_points" yaml:"percentile_points"`
	HighPercentile   float64   `mapstructure:"high_percentile" yaml:"high_percentile"`
	LowPercentile    float64   `mapstructure:"low_percentile" yaml:"low_percentile"`
	Resolutions      []float64 `mapstructure:"resolutions" yaml:"resolutions"`
	DetectionMode    string    `mapstructure:"detection_mode" yaml:"detection_mode"`
	Charts           bool      `mapstructure:"charts" yaml:"charts"`
	HistogramBins    int       `mapstructure:"histogram_bins" yaml:"histogram_bins"`
	SampleStride     int       `mapstructure:"sample_stride" yaml:"sample_stride"`
	SeasonalPeriod   int       `mapstructure:"seasonal_period" yaml:"seasonal_period"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.gridscope/config.yaml, creating the directory
// if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".gridscope")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("GRIDSCOPE")
	v.AutomaticEnv()

	// Defaults mirror the original one-shot analysis.
	v.SetDefault("output_dir", "analysis")
	v.SetDefault("percentile_points", []float64{1, 5, 10, 25, 50, 75, 90, 95, 99})
	v.SetDefault("high_percentile", 95.0)
	v.SetDefault("low_percentile", 5.0)
	v.SetDefault("resolutions", []float64{0.25, 0.5, 1.0})
	v.SetDefault("detection_mode", "per-step")
	v.SetDefault("charts", true)
	v.SetDefault("histogram_bins", 50)
	v.SetDefault("sample_stride", 10000)
	v.SetDefault("seasonal_period", 12)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".gridscope"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
