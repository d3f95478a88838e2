// Package config loads optional TOML configuration for detection thresholds
// and export locations.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Detection contains peak-detection thresholds.
type Detection struct {
	// Prominence is how much a peak must stand out from the surrounding
	// baseline, in y units.
	Prominence float64 `toml:"prominence"`

	// MinWidth is the minimum peak width in samples.
	MinWidth float64 `toml:"min_width"`
}

// Export contains output locations and plot dimensions.
type Export struct {
	PlotDir     string `toml:"plot_dir"`
	ChartWidth  int    `toml:"chart_width"`
	ChartHeight int    `toml:"chart_height"`
}

// Config is the full application configuration.
type Config struct {
	Detection Detection `toml:"detection"`
	Export    Export    `toml:"export"`
}

// Default returns the configuration used when no file is present. The
// thresholds match the tool's historical constants.
func Default() Config {
	return Config{
		Detection: Detection{Prominence: 0.1, MinWidth: 1},
		Export:    Export{PlotDir: "plots", ChartWidth: 1024, ChartHeight: 600},
	}
}

// DefaultConfigPath returns the per-user config file location.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("determine config dir: %w", err)
	}
	return filepath.Join(dir, "peak-marker", "config.toml"), nil
}

// Load reads the config file at path, filling unset fields with defaults.
// A missing file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// WriteSample writes the annotated sample config to path, creating parent
// directories. Refuses to overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("check config path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

func (c Config) validate() error {
	if c.Detection.Prominence < 0 {
		return fmt.Errorf("config: prominence must be >= 0, got %g", c.Detection.Prominence)
	}
	if c.Detection.MinWidth < 0 {
		return fmt.Errorf("config: min_width must be >= 0, got %g", c.Detection.MinWidth)
	}
	if c.Export.ChartWidth <= 0 || c.Export.ChartHeight <= 0 {
		return fmt.Errorf("config: chart dimensions must be positive")
	}
	return nil
}
