package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"geodome/internal/commands"
	"geodome/internal/config"
	"geodome/internal/geodesic"
	"geodome/internal/logger"
)

func newTestApp() (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{
		Config: config.Default(),
		Log:    logger.New(""),
		Stdout: &out,
		Stderr: &bytes.Buffer{},
	}, &out
}

func run(t *testing.T, a *App, args ...string) error {
	t.Helper()
	return a.Registry().Execute(args)
}

func TestRegistryNames(t *testing.T) {
	a, _ := newTestApp()
	got := strings.Join(a.Registry().Names(), ",")
	want := "export,generate,info,init,serve,struts,view"
	if got != want {
		t.Errorf("Names = %s, want %s", got, want)
	}
}

func TestGenerateOBJToStdout(t *testing.T) {
	for _, f := range []int{1, 2, 3} {
		a, out := newTestApp()
		if err := run(t, a, "generate", "-f", strconv.Itoa(f), "-format", "obj"); err != nil {
			t.Fatalf("f=%d: %v", f, err)
		}
		var v, faces int
		for _, line := range strings.Split(out.String(), "\n") {
			switch {
			case strings.HasPrefix(line, "v "):
				v++
			case strings.HasPrefix(line, "f "):
				faces++
			}
		}
		if v != 10*f*f+2 || faces != 20*f*f {
			t.Errorf("f=%d: %d vertices, %d faces", f, v, faces)
		}
	}
}

func TestGenerateJSONToFile(t *testing.T) {
	a, _ := newTestApp()
	path := filepath.Join(t.TempDir(), "dome.json")
	if err := run(t, a, "generate", "-r", "2.5", "-f", "2", "-format", "json", "-o", path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Radius    float64      `json:"radius"`
		Frequency int          `json:"frequency"`
		Vertices  [][3]float64 `json:"vertices"`
		Faces     [][3]int     `json:"faces"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Radius != 2.5 || doc.Frequency != 2 || len(doc.Vertices) != 42 || len(doc.Faces) != 80 {
		t.Errorf("got radius %g frequency %d, %d vertices, %d faces",
			doc.Radius, doc.Frequency, len(doc.Vertices), len(doc.Faces))
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		is   error
	}{
		{"zero radius", []string{"generate", "-r", "0"}, config.ErrInvalid},
		{"zero frequency", []string{"generate", "-f", "0"}, config.ErrInvalid},
		{"bad merge", []string{"generate", "-merge", "nearest"}, config.ErrInvalid},
		{"unknown command", []string{"mesh"}, commands.ErrUsage},
		{"no command", nil, commands.ErrUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestApp()
			err := run(t, a, tt.args...)
			if !errors.Is(err, tt.is) {
				t.Errorf("err = %v, want %v", err, tt.is)
			}
		})
	}

	a, _ := newTestApp()
	if err := run(t, a, "generate", "-format", "dxf"); err == nil {
		t.Error("dxf to stdout: want error")
	}
	a, _ = newTestApp()
	if err := run(t, a, "generate", "-format", "ply"); err == nil {
		t.Error("unknown format: want error")
	}
}

func TestGenerateWarnsAboveMaxFrequency(t *testing.T) {
	a, _ := newTestApp()
	a.Config.MaxFrequency = 2
	if err := run(t, a, "generate", "-f", "3", "-format", "json"); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, line := range a.Log.Lines() {
		if strings.Contains(line, "above max_frequency 2") {
			found = true
		}
	}
	if !found {
		t.Errorf("no warning in %q", a.Log.Lines())
	}
}

func TestInfo(t *testing.T) {
	a, out := newTestApp()
	if err := run(t, a, "info", "-f", "4", "-merge", "tolerance", "-tolerance", "1e-6"); err != nil {
		t.Fatal(err)
	}
	var s geodesic.Stats
	if err := yaml.Unmarshal(out.Bytes(), &s); err != nil {
		t.Fatal(err)
	}
	if s.Vertices != 162 || s.Faces != 320 || s.Edges != 480 || s.Euler != 2 {
		t.Errorf("stats = %+v", s)
	}
	if s.MinEdge <= 0 || s.MinEdge > s.MaxEdge {
		t.Errorf("edge range %g..%g", s.MinEdge, s.MaxEdge)
	}
}

func TestStrutTable(t *testing.T) {
	a, out := newTestApp()
	if err := run(t, a, "struts", "-r", "10", "-f", "2"); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), out.String())
	}
	for i, want := range []string{"A", "B"} {
		fields := strings.Fields(lines[i+1])
		if len(fields) != 4 || fields[0] != want || fields[3] != "60" {
			t.Errorf("row %d = %q", i, lines[i+1])
		}
	}
	if fields := strings.Fields(lines[3]); fields[0] != "total" || fields[1] != "120" {
		t.Errorf("total row = %q", lines[3])
	}
}

func TestExportWithBundle(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, "out", "dome.zip")
	a, out := newTestApp()
	err := run(t, a, "export", "-f", "2", "-dir", dir, "-formats", "json, obj,stl,dxf",
		"-name", "dome", "-bundle", bundle, "-dxf-mode", "wires", "-verify")
	if err != nil {
		t.Fatal(err)
	}
	for _, ext := range []string{".json", ".obj", ".stl", ".dxf"} {
		fi, err := os.Stat(filepath.Join(dir, "dome"+ext))
		if err != nil {
			t.Errorf("%s: %v", ext, err)
			continue
		}
		if fi.Size() == 0 {
			t.Errorf("%s is empty", ext)
		}
	}
	if _, err := os.Stat(bundle); err != nil {
		t.Errorf("bundle: %v", err)
	}
	if n := strings.Count(out.String(), "\n"); n != 5 {
		t.Errorf("printed %d paths, want 5:\n%s", n, out.String())
	}
	verified := false
	for _, line := range a.Log.Lines() {
		if strings.HasSuffix(line, "verified "+bundle) {
			verified = true
		}
	}
	if !verified {
		t.Errorf("no verification in %q", a.Log.Lines())
	}
}

func TestExportDefaultName(t *testing.T) {
	dir := t.TempDir()
	a, _ := newTestApp()
	if err := run(t, a, "export", "-r", "3", "-f", "1", "-dir", dir, "-formats", "geojson"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "geodome-r3-f1.geojson")); err != nil {
		t.Error(err)
	}
}

func TestExportBadDXFMode(t *testing.T) {
	a, _ := newTestApp()
	if err := run(t, a, "export", "-dir", t.TempDir(), "-dxf-mode", "solid"); err == nil {
		t.Error("want error")
	}
}

func TestView(t *testing.T) {
	a, _ := newTestApp()
	if err := run(t, a, "view"); err == nil {
		t.Error("nil View: want error")
	}

	a, _ = newTestApp()
	var got *geodesic.Mesh
	var w, h int
	var wires bool
	a.View = func(m *geodesic.Mesh, width, height int, wireframe bool) error {
		got, w, h, wires = m, width, height, wireframe
		return nil
	}
	if err := run(t, a, "view", "-f", "2", "-width", "640", "-height", "480", "-wires=false"); err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got.Faces) != 80 {
		t.Fatalf("viewer got %v", got)
	}
	if w != 640 || h != 480 || wires {
		t.Errorf("viewer got %dx%d wires=%v", w, h, wires)
	}
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geodome.yaml")
	a, _ := newTestApp()
	a.Config.Radius = 7
	if err := run(t, a, "init", "-o", path); err != nil {
		t.Fatal(err)
	}
	c, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Radius != 7 {
		t.Errorf("radius = %g", c.Radius)
	}

	a, _ = newTestApp()
	if err := run(t, a, "init", "-o", path); err == nil {
		t.Error("existing file: want error")
	}
	a, _ = newTestApp()
	if err := run(t, a, "init", "-o", path, "-force"); err != nil {
		t.Errorf("-force: %v", err)
	}
}
