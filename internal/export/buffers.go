package export

import (
	"github.com/chewxy/math32"

	"geodome/internal/geodesic"
)

// FlatBuffers expands m into non-indexed float32 triangle lists ready for GPU upload:
// nine position floats per face and the face's unit normal repeated for each corner.
// Vertices are not shared, so each face shades flat and index width never limits the
// mesh size.
func FlatBuffers(m *geodesic.Mesh) (positions, normals []float32) {
	positions = make([]float32, 0, len(m.Faces)*9)
	normals = make([]float32, 0, len(m.Faces)*9)
	for _, f := range m.Faces {
		var p [3][3]float32
		for k, idx := range f {
			v := m.Vertices[idx]
			p[k] = [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
		}
		n := faceNormal32(p)
		for k := range p {
			positions = append(positions, p[k][0], p[k][1], p[k][2])
			normals = append(normals, n[0], n[1], n[2])
		}
	}
	return positions, normals
}

// faceNormal32 returns the unit normal (p1-p0)×(p2-p0), or zero for a degenerate triangle.
func faceNormal32(p [3][3]float32) [3]float32 {
	ax, ay, az := p[1][0]-p[0][0], p[1][1]-p[0][1], p[1][2]-p[0][2]
	bx, by, bz := p[2][0]-p[0][0], p[2][1]-p[0][1], p[2][2]-p[0][2]
	n := [3]float32{ay*bz - az*by, az*bx - ax*bz, ax*by - ay*bx}
	l := math32.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	if l == 0 || math32.IsNaN(l) {
		return [3]float32{}
	}
	return [3]float32{n[0] / l, n[1] / l, n[2] / l}
}

// WireSegments returns every mesh edge once as a float32 line segment: six floats per
// edge, start then end.
func WireSegments(m *geodesic.Mesh) []float32 {
	edges := m.Edges()
	out := make([]float32, 0, len(edges)*6)
	for _, e := range edges {
		a, b := m.Vertices[e[0]], m.Vertices[e[1]]
		out = append(out,
			float32(a.X), float32(a.Y), float32(a.Z),
			float32(b.X), float32(b.Y), float32(b.Z))
	}
	return out
}
