// Package config loads the view configuration: chart bounds, normalization
// kind, chart text and peak filters.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/ChrisMcGann/mspview/pkg/core"
	"github.com/ChrisMcGann/mspview/pkg/filter"
)

// Config is the persisted view state.
type Config struct {
	Bounds        Bounds        `yaml:"bounds"`
	Normalization string        `yaml:"normalization"`
	Chart         Chart         `yaml:"chart"`
	Filter        filter.Config `yaml:"filter"`
}

// Bounds holds the visible window on both chart axes. X is the mass axis,
// Y the normalized intensity axis.
type Bounds struct {
	X core.Bounds `yaml:"x"`
	Y core.Bounds `yaml:"y"`
}

// Chart holds presentation settings.
type Chart struct {
	Caption      string       `yaml:"caption"`
	Descriptions Descriptions `yaml:"descriptions"`
	Width        int          `yaml:"width"`
	Height       int          `yaml:"height"`
	Table        bool         `yaml:"table"`
}

// Descriptions are the axis titles.
type Descriptions struct {
	X string `yaml:"x"`
	Y string `yaml:"y"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Bounds: Bounds{
			X: core.Bounds{Start: 0, End: 100},
			Y: core.Bounds{Start: 0, End: 100},
		},
		Normalization: core.Percent.String(),
		Chart: Chart{
			Descriptions: Descriptions{X: "m/z", Y: "Intensity, %"},
			Width:        80,
			Height:       20,
		},
	}
}

// Load reads a YAML configuration file on top of the defaults.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses YAML on top of the defaults and normalizes the result.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Normalize clamps both axes so Start <= End and checks the remaining
// fields.
func (c *Config) Normalize() error {
	c.Bounds.X = c.Bounds.X.Clamp()
	c.Bounds.Y = c.Bounds.Y.Clamp()

	if _, err := c.Kind(); err != nil {
		return err
	}
	if c.Chart.Width < 0 || c.Chart.Height < 0 {
		return fmt.Errorf("chart size must be non-negative, got %dx%d", c.Chart.Width, c.Chart.Height)
	}
	if c.Filter.TopN < 0 {
		return fmt.Errorf("filter top_n must be non-negative, got %d", c.Filter.TopN)
	}
	if c.Filter.IntensityCutoff < 0 || c.Filter.IntensityCutoff > 100 {
		return fmt.Errorf("filter cutoff must be within [0, 100], got %g", c.Filter.IntensityCutoff)
	}
	return nil
}

// Kind returns the parsed normalization kind.
func (c *Config) Kind() (core.Kind, error) {
	return core.ParseKind(c.Normalization)
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
