package geodesic

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func baseTriangle(t *testing.T, radius float64) (Point3, Point3, Point3) {
	t.Helper()
	vertices, faces, err := Icosahedron(radius)
	if err != nil {
		t.Fatal(err)
	}
	f := faces[0]
	return vertices[f[0]], vertices[f[1]], vertices[f[2]]
}

func TestSubdivideCounts(t *testing.T) {
	v0, v1, v2 := baseTriangle(t, 5)
	for f := 1; f <= 7; f++ {
		vertices, faces, err := Subdivide(v0, v1, v2, f, 5)
		if err != nil {
			t.Fatalf("Subdivide(f=%d) error: %v", f, err)
		}
		if want := (f + 1) * (f + 2) / 2; len(vertices) != want {
			t.Errorf("f=%d: len(vertices) = %d, want %d", f, len(vertices), want)
		}
		if want := f * f; len(faces) != want {
			t.Errorf("f=%d: len(faces) = %d, want %d", f, len(faces), want)
		}
		for i, face := range faces {
			if face.Degenerate() || !inRange(face, len(vertices)) {
				t.Errorf("f=%d: face %d %v is invalid", f, i, face)
			}
		}
	}
}

func TestSubdivideFrequencyOneReproducesTriangle(t *testing.T) {
	v0, v1, v2 := baseTriangle(t, 1)
	vertices, faces, err := Subdivide(v0, v1, v2, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(faces) != 1 {
		t.Fatalf("len(faces) = %d, want 1", len(faces))
	}
	got := [3]Point3{vertices[faces[0][0]], vertices[faces[0][1]], vertices[faces[0][2]]}
	if !sameTriangle(got, [3]Point3{v0, v1, v2}, 1e-15) {
		t.Errorf("face = %v, want a rotation of %v", got, [3]Point3{v0, v1, v2})
	}
}

// sameTriangle reports whether a is a cyclic rotation of b, which is the same triangle
// with the same winding.
func sameTriangle(a, b [3]Point3, tol float64) bool {
	for r := 0; r < 3; r++ {
		ok := true
		for k := 0; k < 3; k++ {
			if r3.Norm(r3.Sub(a[k], b[(k+r)%3])) > tol {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func TestSubdivideProjectsOntoSphere(t *testing.T) {
	v0, v1, v2 := baseTriangle(t, 7.5)
	vertices, _, err := Subdivide(v0, v1, v2, 6, 7.5)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range vertices {
		if d := math.Abs(r3.Norm(v) - 7.5); d > 1e-9 {
			t.Errorf("vertex %d off sphere by %g", i, d)
		}
	}
}

func TestSubdividePreservesWinding(t *testing.T) {
	v0, v1, v2 := baseTriangle(t, 1)
	parent := r3.Triangle{v0, v1, v2}.Normal()
	vertices, faces, err := Subdivide(v0, v1, v2, 5, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i, f := range faces {
		n := r3.Triangle{vertices[f[0]], vertices[f[1]], vertices[f[2]]}.Normal()
		if r3.Dot(n, parent) <= 0 {
			t.Errorf("face %d %v flipped relative to parent", i, f)
		}
	}
}

func TestSubdivideZeroLengthPoint(t *testing.T) {
	// Opposite corners put the midpoint of v0-v2 at the origin.
	v0 := Point3{X: 1}
	v1 := Point3{Y: 1}
	v2 := Point3{X: -1}
	vertices, _, err := Subdivide(v0, v1, v2, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	var zeros int
	for _, v := range vertices {
		if v == (Point3{}) {
			zeros++
		}
	}
	if zeros != 1 {
		t.Errorf("zero vertices = %d, want 1", zeros)
	}
}

func TestSubdivideInvalidArguments(t *testing.T) {
	v0, v1, v2 := baseTriangle(t, 1)
	tests := []struct {
		name      string
		frequency int
		radius    float64
	}{
		{"zero frequency", 0, 1},
		{"negative frequency", -3, 1},
		{"zero radius", 2, 0},
		{"negative radius", 2, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vertices, faces, err := Subdivide(v0, v1, v2, tt.frequency, tt.radius)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("error = %v, want ErrInvalidArgument", err)
			}
			if vertices != nil || faces != nil {
				t.Error("partial output returned with error")
			}
		})
	}
}
