package geodesic

import (
	"fmt"
	"math"

	"github.com/jinzhu/copier"
	"gonum.org/v1/gonum/spatial/r3"
)

// radiusTolerance is the relative distance a vertex may be off the sphere before Validate rejects it.
const radiusTolerance = 1e-9

// Mesh is a triangulated sphere. Vertices are in first-discovered order; Faces index into
// Vertices. A Mesh returned by Generate or Build is not modified afterwards; use Clone
// to get a copy that can be changed.
type Mesh struct {
	Vertices  []Point3
	Faces     []Face
	Radius    float64
	Frequency int
}

// Triangle returns the positions of face i.
func (m *Mesh) Triangle(i int) r3.Triangle {
	f := m.Faces[i]
	return r3.Triangle{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}
}

// Validate checks the mesh invariants: at least one face, every face index in range and
// pairwise distinct, and every vertex at distance Radius from the origin. Violations wrap
// ErrMalformedMesh.
func (m *Mesh) Validate() error {
	if len(m.Faces) == 0 {
		return fmt.Errorf("mesh has no faces: %w", ErrMalformedMesh)
	}
	for i, f := range m.Faces {
		if !inRange(f, len(m.Vertices)) {
			return fmt.Errorf("face %d %v references a vertex outside [0,%d): %w", i, f, len(m.Vertices), ErrMalformedMesh)
		}
		if f.Degenerate() {
			return fmt.Errorf("face %d %v repeats a vertex: %w", i, f, ErrMalformedMesh)
		}
	}
	tol := math.Max(radiusTolerance*m.Radius, 1e-12)
	for i, v := range m.Vertices {
		if v == (Point3{}) {
			return fmt.Errorf("vertex %d collapsed to the origin: %w", i, ErrMalformedMesh)
		}
		if d := math.Abs(r3.Norm(v) - m.Radius); d > tol {
			return fmt.Errorf("vertex %d is %g off the sphere of radius %g: %w", i, d, m.Radius, ErrMalformedMesh)
		}
	}
	return nil
}

// Clone returns a deep copy of m.
func (m *Mesh) Clone() (*Mesh, error) {
	out := &Mesh{}
	if err := copier.CopyWithOption(out, m, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("clone mesh: %w", err)
	}
	return out, nil
}

// Scaled returns a copy of m with every vertex and the radius multiplied by k. m is not
// changed.
func (m *Mesh) Scaled(k float64) (*Mesh, error) {
	if math.IsNaN(k) || math.IsInf(k, 0) || k <= 0 {
		return nil, fmt.Errorf("scale factor %v must be positive: %w", k, ErrInvalidArgument)
	}
	out, err := m.Clone()
	if err != nil {
		return nil, err
	}
	for i, v := range out.Vertices {
		out.Vertices[i] = r3.Scale(k, v)
	}
	out.Radius *= k
	return out, nil
}

// Edge is an undirected mesh edge with the lower vertex index first.
type Edge [2]int

func newEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{a, b}
}

// Edges returns every edge of the mesh once, in the order faces first reference them.
func (m *Mesh) Edges() []Edge {
	seen := make(map[Edge]struct{}, len(m.Faces)*3/2)
	edges := make([]Edge, 0, len(m.Faces)*3/2)
	for _, f := range m.Faces {
		for k := 0; k < 3; k++ {
			e := newEdge(f[k], f[(k+1)%3])
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			edges = append(edges, e)
		}
	}
	return edges
}

// EdgeLength returns the chord length of e.
func (m *Mesh) EdgeLength(e Edge) float64 {
	return r3.Norm(r3.Sub(m.Vertices[e[1]], m.Vertices[e[0]]))
}

// Stats summarises the shape of a mesh.
type Stats struct {
	Vertices        int     `json:"vertices" yaml:"vertices"`
	Faces           int     `json:"faces" yaml:"faces"`
	Edges           int     `json:"edges" yaml:"edges"`
	Euler           int     `json:"euler" yaml:"euler"`
	MinEdge         float64 `json:"min_edge" yaml:"min_edge"`
	MaxEdge         float64 `json:"max_edge" yaml:"max_edge"`
	MeanEdge        float64 `json:"mean_edge" yaml:"mean_edge"`
	SurfaceArea     float64 `json:"surface_area" yaml:"surface_area"`
	Volume          float64 `json:"volume" yaml:"volume"`
	RadialDeviation float64 `json:"radial_deviation" yaml:"radial_deviation"`
}

// Stats computes counts, edge lengths, area and volume of m.
// Volume is the signed sum of origin tetrahedra, positive when faces wind outward.
func (m *Mesh) Stats() Stats {
	edges := m.Edges()
	s := Stats{
		Vertices: len(m.Vertices),
		Faces:    len(m.Faces),
		Edges:    len(edges),
		Euler:    len(m.Vertices) - len(edges) + len(m.Faces),
	}
	if len(edges) > 0 {
		s.MinEdge = math.Inf(1)
		var total float64
		for _, e := range edges {
			l := m.EdgeLength(e)
			s.MinEdge = math.Min(s.MinEdge, l)
			s.MaxEdge = math.Max(s.MaxEdge, l)
			total += l
		}
		s.MeanEdge = total / float64(len(edges))
	}
	for i := range m.Faces {
		t := m.Triangle(i)
		s.SurfaceArea += t.Area()
		s.Volume += r3.Dot(t[0], r3.Cross(t[1], t[2])) / 6
	}
	for _, v := range m.Vertices {
		s.RadialDeviation = math.Max(s.RadialDeviation, math.Abs(r3.Norm(v)-m.Radius))
	}
	return s
}
