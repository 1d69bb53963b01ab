package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"geodome/internal/geodesic"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(c, Default()) {
		t.Errorf("Load(missing) = %+v, want Default()", c)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "geodome.yaml")
	want := Default()
	want.Radius = 2.5
	want.Frequency = 5
	want.Workers = 4
	want.Merge.Strategy = MergeTolerance
	want.Merge.Tolerance = 1e-7
	want.Output.Formats = []string{"obj", "svg"}
	want.Log.Path = ""

	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geodome.yaml")
	data := "frequency: 4\nmerge:\n  strategy: tolerance\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Frequency != 4 || c.Radius != 10 || c.Merge.Strategy != MergeTolerance {
		t.Errorf("got %+v", c)
	}
	if c.Merge.Tolerance != geodesic.DefaultTolerance {
		t.Errorf("merge.tolerance = %v, want default", c.Merge.Tolerance)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geodome.yaml")
	if err := os.WriteFile(path, []byte("radius: [1, 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load(malformed) returned nil error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"default", func(c *Config) {}, true},
		{"zero radius", func(c *Config) { c.Radius = 0 }, false},
		{"zero frequency", func(c *Config) { c.Frequency = 0 }, false},
		{"negative workers", func(c *Config) { c.Workers = -1 }, false},
		{"unknown strategy", func(c *Config) { c.Merge.Strategy = "snap" }, false},
		{"too many digits", func(c *Config) { c.Merge.Digits = 20 }, false},
		{"zero digits", func(c *Config) { c.Merge.Digits = 0 }, false},
		{"one digit", func(c *Config) { c.Merge.Digits = 1 }, true},
		{"unknown format", func(c *Config) { c.Output.Formats = []string{"obj", "fbx"} }, false},
		{"bad dxf mode", func(c *Config) { c.Output.DXFMode = "solid" }, false},
		{"tolerance strategy", func(c *Config) { c.Merge.Strategy = MergeTolerance }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	c := Default()
	c.Radius = 7
	c.Frequency = 2
	opts := c.Options()
	if opts.Radius != 7 || opts.Frequency != 2 || !opts.Orient {
		t.Errorf("Options() = %+v", opts)
	}
	if _, ok := opts.Merger.(geodesic.RoundingMerger); !ok {
		t.Errorf("merger = %T, want RoundingMerger", opts.Merger)
	}
	c.Merge.Strategy = MergeTolerance
	if _, ok := c.Options().Merger.(geodesic.ToleranceMerger); !ok {
		t.Errorf("merger = %T, want ToleranceMerger", c.Options().Merger)
	}
	m, err := geodesic.Build(c.Options())
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Faces) != 80 {
		t.Errorf("faces = %d, want 80", len(m.Faces))
	}
}
