// Package config provides configuration for the statistics and plotting
// defaults of the analysis layer.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Default configuration values
const (
	DefaultBootstrapReplicates = 10000
	DefaultRandomSeed          = 1
	DefaultHistogramBins       = 15
	DefaultImageFormat         = "png"
	DefaultPlotWidthInches     = 6
	DefaultPlotHeightInches    = 4
)

// Config holds the tunable defaults used by the research reporting layer.
type Config struct {
	// Bootstrap resampling
	BootstrapReplicates int    `yaml:"bootstrap_replicates"` // resamples per interval estimate
	RandomSeed          uint64 `yaml:"random_seed"`          // seed of the bootstrap source

	// Plotting
	HistogramBins    int     `yaml:"histogram_bins"`     // default bin count for histograms
	ImageFormat      string  `yaml:"image_format"`       // file extension for saved plots
	PlotWidthInches  float64 `yaml:"plot_width_inches"`  // saved plot width
	PlotHeightInches float64 `yaml:"plot_height_inches"` // saved plot height
}

// NewConfig creates a configuration with default values.
func NewConfig() Config {
	return Config{
		BootstrapReplicates: DefaultBootstrapReplicates,
		RandomSeed:          DefaultRandomSeed,
		HistogramBins:       DefaultHistogramBins,
		ImageFormat:         DefaultImageFormat,
		PlotWidthInches:     DefaultPlotWidthInches,
		PlotHeightInches:    DefaultPlotHeightInches,
	}
}

// WithDefaults fills in zero-valued fields with defaults.
func (c Config) WithDefaults() Config {
	if c.BootstrapReplicates == 0 {
		c.BootstrapReplicates = DefaultBootstrapReplicates
	}
	if c.RandomSeed == 0 {
		c.RandomSeed = DefaultRandomSeed
	}
	if c.HistogramBins == 0 {
		c.HistogramBins = DefaultHistogramBins
	}
	if c.ImageFormat == "" {
		c.ImageFormat = DefaultImageFormat
	}
	if c.PlotWidthInches == 0 {
		c.PlotWidthInches = DefaultPlotWidthInches
	}
	if c.PlotHeightInches == 0 {
		c.PlotHeightInches = DefaultPlotHeightInches
	}
	return c
}

// Validate checks the configuration and returns an error if invalid.
func (c Config) Validate() error {
	if c.BootstrapReplicates <= 0 {
		return fmt.Errorf("BootstrapReplicates must be positive, got %d", c.BootstrapReplicates)
	}
	if c.HistogramBins <= 0 {
		return fmt.Errorf("HistogramBins must be positive, got %d", c.HistogramBins)
	}
	if c.PlotWidthInches <= 0 || c.PlotHeightInches <= 0 {
		return fmt.Errorf("plot dimensions must be positive, got %gx%g", c.PlotWidthInches, c.PlotHeightInches)
	}
	switch c.ImageFormat {
	case "png", "pdf", "svg", "jpg", "tif":
	default:
		return fmt.Errorf("unsupported image format: %s", c.ImageFormat)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file, filling unset fields
// with defaults.
func LoadFromFile(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", filename, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", filename, err)
	}

	return config.WithDefaults(), nil
}

// LoadFromEnv loads configuration from ORION_* environment variables on top
// of the defaults.
func LoadFromEnv() Config {
	config := NewConfig()

	if val := os.Getenv("ORION_BOOTSTRAP_REPLICATES"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.BootstrapReplicates = parsed
		}
	}

	if val := os.Getenv("ORION_RANDOM_SEED"); val != "" {
		if parsed, err := strconv.ParseUint(val, 10, 64); err == nil {
			config.RandomSeed = parsed
		}
	}

	if val := os.Getenv("ORION_HISTOGRAM_BINS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.HistogramBins = parsed
		}
	}

	if val := os.Getenv("ORION_IMAGE_FORMAT"); val != "" {
		config.ImageFormat = val
	}

	if val := os.Getenv("ORION_PLOT_WIDTH_INCHES"); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			config.PlotWidthInches = parsed
		}
	}

	if val := os.Getenv("ORION_PLOT_HEIGHT_INCHES"); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			config.PlotHeightInches = parsed
		}
	}

	return config
}
