package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"geodome/internal/export"
	"geodome/internal/geodesic"
	"geodome/internal/logger"
	"geodome/internal/store"
)

// DefaultPath is the config file read when no -config flag is given, relative to the
// working directory.
const DefaultPath = "geodome.yaml"

// ErrInvalid wraps every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Merge strategies.
const (
	MergeRounding  = "rounding"
	MergeTolerance = "tolerance"
)

// Merge selects how shared-edge vertices are collapsed.
type Merge struct {
	Strategy  string  `yaml:"strategy"`
	Digits    int     `yaml:"digits"`
	Tolerance float64 `yaml:"tolerance"`
}

// Output controls the export command.
type Output struct {
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"`
	DXFMode string   `yaml:"dxf_mode"`
}

// Server controls the HTTP service.
type Server struct {
	Addr string `yaml:"addr"`
	// Cache is the SQLite mesh cache; empty disables it.
	Cache string `yaml:"cache"`
}

// Viewer controls the preview window.
type Viewer struct {
	Width     int  `yaml:"width"`
	Height    int  `yaml:"height"`
	Wireframe bool `yaml:"wireframe"`
}

// Log controls the log file. An empty Path keeps logs in memory only.
type Log struct {
	Path string `yaml:"path"`
}

// Config is the geodome.yaml file. Command-line flags override it field by field.
type Config struct {
	Radius       float64 `yaml:"radius"`
	Frequency    int     `yaml:"frequency"`
	MaxFrequency int     `yaml:"max_frequency"`
	Workers      int     `yaml:"workers"`
	Orient       bool    `yaml:"orient"`
	Merge        Merge   `yaml:"merge"`
	Output       Output  `yaml:"output"`
	Server       Server  `yaml:"server"`
	Viewer       Viewer  `yaml:"viewer"`
	Log          Log     `yaml:"log"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Radius:       10,
		Frequency:    3,
		MaxFrequency: 6,
		Workers:      0,
		Orient:       true,
		Merge: Merge{
			Strategy:  MergeRounding,
			Digits:    geodesic.DefaultDigits,
			Tolerance: geodesic.DefaultTolerance,
		},
		Output: Output{
			Dir:     "out",
			Formats: []string{"obj", "stl", "geojson", "svg", "png", "dxf"},
			DXFMode: export.DXFFaces.String(),
		},
		Server: Server{Addr: ":8080", Cache: store.DefaultPath},
		Viewer: Viewer{Width: 1280, Height: 720, Wireframe: true},
		Log:    Log{Path: logger.DefaultPath},
	}
}

// Load reads the config at path over Default(). A missing file returns Default() and no
// error; a file that is not valid YAML returns an error.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

// Save writes c to path as YAML, creating the directory if needed.
func Save(path string, c Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks ranges. Radius and frequency are checked again by the generator; they
// are checked here so a bad file is reported before any command runs.
func (c Config) Validate() error {
	if math.IsNaN(c.Radius) || math.IsInf(c.Radius, 0) || c.Radius <= 0 {
		return fmt.Errorf("radius %v must be positive: %w", c.Radius, ErrInvalid)
	}
	if c.Frequency < 1 {
		return fmt.Errorf("frequency %d must be at least 1: %w", c.Frequency, ErrInvalid)
	}
	if c.MaxFrequency < 1 {
		return fmt.Errorf("max_frequency %d must be at least 1: %w", c.MaxFrequency, ErrInvalid)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers %d must not be negative: %w", c.Workers, ErrInvalid)
	}
	switch c.Merge.Strategy {
	case MergeRounding, "":
		if c.Merge.Digits < 1 || c.Merge.Digits > 15 {
			return fmt.Errorf("merge.digits %d out of range 1..15: %w", c.Merge.Digits, ErrInvalid)
		}
	case MergeTolerance:
		if c.Merge.Tolerance < 0 || math.IsNaN(c.Merge.Tolerance) {
			return fmt.Errorf("merge.tolerance %v must not be negative: %w", c.Merge.Tolerance, ErrInvalid)
		}
	default:
		return fmt.Errorf("merge.strategy %q: %w", c.Merge.Strategy, ErrInvalid)
	}
	for _, f := range c.Output.Formats {
		if _, err := export.Extension(f); err != nil {
			return fmt.Errorf("output.formats: %v: %w", err, ErrInvalid)
		}
	}
	if c.Output.DXFMode != "" {
		if _, err := export.ParseDXFMode(c.Output.DXFMode); err != nil {
			return fmt.Errorf("output.dxf_mode: %v: %w", err, ErrInvalid)
		}
	}
	if c.Viewer.Width < 0 || c.Viewer.Height < 0 {
		return fmt.Errorf("viewer size %dx%d: %w", c.Viewer.Width, c.Viewer.Height, ErrInvalid)
	}
	return nil
}

// Merger returns the merger selected by c.Merge.
func (c Config) Merger() geodesic.Merger {
	if c.Merge.Strategy == MergeTolerance {
		return geodesic.ToleranceMerger{Tolerance: c.Merge.Tolerance}
	}
	return geodesic.RoundingMerger{Digits: c.Merge.Digits}
}

// Options converts c to generator options.
func (c Config) Options() geodesic.Options {
	return geodesic.Options{
		Radius:    c.Radius,
		Frequency: c.Frequency,
		Merger:    c.Merger(),
		Workers:   c.Workers,
		Orient:    c.Orient,
	}
}
