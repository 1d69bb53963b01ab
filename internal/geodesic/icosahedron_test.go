package geodesic

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestIcosahedronCounts(t *testing.T) {
	vertices, faces, err := Icosahedron(10)
	if err != nil {
		t.Fatalf("Icosahedron(10) error: %v", err)
	}
	if len(vertices) != 12 {
		t.Errorf("len(vertices) = %d, want 12", len(vertices))
	}
	if len(faces) != 20 {
		t.Errorf("len(faces) = %d, want 20", len(faces))
	}
	for i, v := range vertices {
		if d := math.Abs(r3.Norm(v) - 10); d > 1e-9 {
			t.Errorf("vertex %d norm off by %g", i, d)
		}
	}
}

func TestIcosahedronPoles(t *testing.T) {
	vertices, _, err := Icosahedron(2)
	if err != nil {
		t.Fatal(err)
	}
	if vertices[0] != (Point3{X: 0, Y: 0, Z: 2}) {
		t.Errorf("north pole = %v, want (0,0,2)", vertices[0])
	}
	if vertices[11] != (Point3{X: 0, Y: 0, Z: -2}) {
		t.Errorf("south pole = %v, want (0,0,-2)", vertices[11])
	}
}

func TestIcosahedronEdgesEqual(t *testing.T) {
	vertices, faces, err := Icosahedron(1)
	if err != nil {
		t.Fatal(err)
	}
	// Edge of an icosahedron inscribed in the unit sphere.
	want := 1.0514622242382672
	for i, f := range faces {
		for k := 0; k < 3; k++ {
			l := r3.Norm(r3.Sub(vertices[f[(k+1)%3]], vertices[f[k]]))
			if math.Abs(l-want) > 1e-12 {
				t.Errorf("face %d edge %d length = %v, want %v", i, k, l, want)
			}
		}
	}
}

func TestIcosahedronOutwardWinding(t *testing.T) {
	vertices, faces, err := Icosahedron(3)
	if err != nil {
		t.Fatal(err)
	}
	for i, f := range faces {
		tri := r3.Triangle{vertices[f[0]], vertices[f[1]], vertices[f[2]]}
		if r3.Dot(tri.Centroid(), tri.Normal()) <= 0 {
			t.Errorf("face %d %v winds inward", i, f)
		}
	}
}

func TestIcosahedronClosedManifold(t *testing.T) {
	_, faces, err := Icosahedron(1)
	if err != nil {
		t.Fatal(err)
	}
	// Every directed edge appears once and its reverse appears once.
	directed := make(map[[2]int]int)
	for _, f := range faces {
		for k := 0; k < 3; k++ {
			directed[[2]int{f[k], f[(k+1)%3]}]++
		}
	}
	if len(directed) != 60 {
		t.Errorf("directed edges = %d, want 60", len(directed))
	}
	for e, n := range directed {
		if n != 1 {
			t.Errorf("directed edge %v used %d times", e, n)
		}
		if directed[[2]int{e[1], e[0]}] != 1 {
			t.Errorf("edge %v has no opposite", e)
		}
	}
}

func TestIcosahedronInvalidRadius(t *testing.T) {
	for _, r := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, _, err := Icosahedron(r); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Icosahedron(%v) error = %v, want ErrInvalidArgument", r, err)
		}
	}
}
