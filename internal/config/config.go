// Package config provides YAML-backed viewer configuration with defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the viewer configuration loaded from YAML.
type Config struct {
	// Rendering parameters for the 3D scene.
	Rendering struct {
		// PerformanceThreshold is the voxel count above which volumes are
		// subsampled before scene construction.
		PerformanceThreshold int `yaml:"performanceThreshold"`

		// SubsampleStride is the decimation stride applied over threshold.
		SubsampleStride int `yaml:"subsampleStride"`

		// DefaultColormap is the colormap selected at startup.
		DefaultColormap string `yaml:"defaultColormap"`

		// DefaultOpacityPreset is the opacity transfer preset at startup.
		DefaultOpacityPreset string `yaml:"defaultOpacityPreset"`

		// Enable3D turns the 3D composite view on. When false the viewer
		// runs in 2D-only mode.
		Enable3D bool `yaml:"enable3d"`
	} `yaml:"rendering"`

	// Input parameters.
	Input struct {
		// DoubleClickTimeoutMS is the double-click detection window.
		DoubleClickTimeoutMS int `yaml:"doubleClickTimeoutMs"`
	} `yaml:"input"`

	// ModalityOrder is the preferred display order for modality names.
	ModalityOrder []string `yaml:"modalityOrder"`
}

// Default returns the configuration defaults.
func Default() *Config {
	cfg := &Config{}
	cfg.Rendering.PerformanceThreshold = 10_000_000
	cfg.Rendering.SubsampleStride = 2
	cfg.Rendering.DefaultColormap = "gray"
	cfg.Rendering.DefaultOpacityPreset = "medium"
	cfg.Rendering.Enable3D = true
	cfg.Input.DoubleClickTimeoutMS = 300
	cfg.ModalityOrder = []string{"bravo", "seg", "t1_gd", "t1_pre", "flair"}
	return cfg
}

// DoubleClickTimeout returns the configured detection window as a duration.
func (c *Config) DoubleClickTimeout() time.Duration {
	return time.Duration(c.Input.DoubleClickTimeoutMS) * time.Millisecond
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults without error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file, creating the directory.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}
