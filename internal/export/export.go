// Package export writes geodesic meshes in formats other tools can open: OBJ and STL for
// modelling, DXF for CAD, GeoJSON and SVG maps of the faces, a PNG preview, and flat
// float32 buffers for GPU upload.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"geodome/internal/geodesic"
)

// ErrUnknownFormat is returned by Write and friends for a format name not in Formats().
var ErrUnknownFormat = errors.New("unknown format")

const (
	// DefaultSVGWidth is the map width used when a format is written without options.
	DefaultSVGWidth = 1024
	// DefaultPreviewSize is the PNG edge length used when a format is written without options.
	DefaultPreviewSize = 512
)

type format struct {
	ext         string
	contentType string
	write       func(w io.Writer, m *geodesic.Mesh) error
}

var formats = map[string]format{
	"json":    {".json", "application/json", WriteJSON},
	"obj":     {".obj", "model/obj", WriteOBJ},
	"stl":     {".stl", "model/stl", WriteSTL},
	"geojson": {".geojson", "application/geo+json", WriteGeoJSON},
	"svg": {".svg", "image/svg+xml", func(w io.Writer, m *geodesic.Mesh) error {
		return WriteSVG(w, m, DefaultSVGWidth)
	}},
	"png": {".png", "image/png", func(w io.Writer, m *geodesic.Mesh) error {
		return WritePNG(w, RenderPreview(m, DefaultPreviewSize))
	}},
	"dxf": {".dxf", "image/vnd.dxf", func(w io.Writer, m *geodesic.Mesh) error {
		return copyDXF(w, m, DXFFaces)
	}},
}

// Formats returns the names Write accepts, sorted.
func Formats() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Write encodes m in the named format.
func Write(w io.Writer, name string, m *geodesic.Mesh) error {
	f, ok := formats[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownFormat)
	}
	return f.write(w, m)
}

// WriteFile encodes m into dir/base<ext> and returns the path written.
func WriteFile(dir, base, name string, m *geodesic.Mesh) (string, error) {
	f, ok := formats[name]
	if !ok {
		return "", fmt.Errorf("%q: %w", name, ErrUnknownFormat)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, base+f.ext)
	switch name {
	case "dxf":
		return path, WriteDXF(path, m, DXFFaces)
	case "png":
		return path, SavePNG(path, RenderPreview(m, DefaultPreviewSize))
	}
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := f.write(out, m); err != nil {
		out.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, out.Close()
}

// ContentType returns the MIME type for a format name.
func ContentType(name string) (string, error) {
	f, ok := formats[name]
	if !ok {
		return "", fmt.Errorf("%q: %w", name, ErrUnknownFormat)
	}
	return f.contentType, nil
}

// Extension returns the file extension, dot included, for a format name.
func Extension(name string) (string, error) {
	f, ok := formats[name]
	if !ok {
		return "", fmt.Errorf("%q: %w", name, ErrUnknownFormat)
	}
	return f.ext, nil
}

// MeshJSON is the JSON shape of a mesh: plain coordinate and index arrays.
type MeshJSON struct {
	Radius    float64      `json:"radius"`
	Frequency int          `json:"frequency"`
	Vertices  [][3]float64 `json:"vertices"`
	Faces     [][3]int     `json:"faces"`
}

// NewMeshJSON converts m to its JSON shape.
func NewMeshJSON(m *geodesic.Mesh) MeshJSON {
	out := MeshJSON{
		Radius:    m.Radius,
		Frequency: m.Frequency,
		Vertices:  make([][3]float64, len(m.Vertices)),
		Faces:     make([][3]int, len(m.Faces)),
	}
	for i, v := range m.Vertices {
		out.Vertices[i] = [3]float64{v.X, v.Y, v.Z}
	}
	for i, f := range m.Faces {
		out.Faces[i] = [3]int(f)
	}
	return out
}

// WriteJSON writes m as a MeshJSON document.
func WriteJSON(w io.Writer, m *geodesic.Mesh) error {
	return json.NewEncoder(w).Encode(NewMeshJSON(m))
}
