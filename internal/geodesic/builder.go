package geodesic

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Options controls mesh generation. Radius and Frequency are required; the rest have
// usable zero values.
//
// Merger defaults to RoundingMerger{Digits: DefaultDigits}. The built-in mergers measure
// their precision in units of Radius unless their Scale is set. Workers > 1 subdivides the
// base faces concurrently with at most Workers goroutines; the result is identical to the
// sequential build. Orient runs OrientOutward on the merged faces.
type Options struct {
	Radius    float64
	Frequency int
	Merger    Merger
	Workers   int
	Orient    bool
}

// DefaultOptions returns the reference configuration: unit radius, frequency 1, 8-digit
// rounding merge, sequential subdivision and the outward-winding pass enabled.
func DefaultOptions() Options {
	return Options{
		Radius:    1,
		Frequency: 1,
		Merger:    RoundingMerger{Digits: DefaultDigits},
		Workers:   0,
		Orient:    true,
	}
}

// Generate builds a geodesic sphere of the given radius by splitting every icosahedron
// edge into frequency segments. The mesh has 20·f² faces and 10·f²+2 vertices.
func Generate(radius float64, frequency int) (*Mesh, error) {
	opts := DefaultOptions()
	opts.Radius = radius
	opts.Frequency = frequency
	return Build(opts)
}

// patch is the output of subdividing one base face.
type patch struct {
	vertices []Point3
	faces    []Face
}

// Build generates a mesh with the given options. Invalid radius or frequency returns
// ErrInvalidArgument before any work; a result that breaks the mesh invariants returns
// ErrMalformedMesh. No partial mesh is ever returned.
func Build(opts Options) (*Mesh, error) {
	if err := checkRadius(opts.Radius); err != nil {
		return nil, err
	}
	if err := checkFrequency(opts.Frequency); err != nil {
		return nil, err
	}
	merger := opts.Merger
	if merger == nil {
		merger = RoundingMerger{Digits: DefaultDigits}
	}
	if s, ok := merger.(scaler); ok {
		merger = s.scaled(opts.Radius)
	}

	base, baseFaces, err := Icosahedron(opts.Radius)
	if err != nil {
		return nil, err
	}
	patches, err := subdivideAll(base, baseFaces, opts)
	if err != nil {
		return nil, err
	}

	f := opts.Frequency
	vertices := make([]Point3, 0, len(baseFaces)*(f+1)*(f+2)/2)
	faces := make([]Face, 0, len(baseFaces)*f*f)
	for _, p := range patches {
		offset := len(vertices)
		vertices = append(vertices, p.vertices...)
		for _, lf := range p.faces {
			faces = append(faces, Face{lf[0] + offset, lf[1] + offset, lf[2] + offset})
		}
	}

	vertices, faces = merger.Merge(vertices, faces)
	if len(faces) == 0 {
		return nil, fmt.Errorf("merge left no faces: %w", ErrMalformedMesh)
	}
	if opts.Orient {
		OrientOutward(vertices, faces)
	}

	m := &Mesh{
		Vertices:  vertices,
		Faces:     faces,
		Radius:    opts.Radius,
		Frequency: opts.Frequency,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := checkTopology(m); err != nil {
		return nil, err
	}
	return m, nil
}

// checkTopology verifies the closed-form counts of a frequency-f geodesic sphere:
// 20f² faces, 10f²+2 vertices, 30f² edges. A merge that missed shared points fails here.
func checkTopology(m *Mesh) error {
	f := m.Frequency
	wantV, wantF, wantE := 10*f*f+2, 20*f*f, 30*f*f
	if len(m.Vertices) != wantV || len(m.Faces) != wantF {
		return fmt.Errorf("%d vertices and %d faces, want %d and %d: %w",
			len(m.Vertices), len(m.Faces), wantV, wantF, ErrMalformedMesh)
	}
	if e := len(m.Edges()); e != wantE {
		return fmt.Errorf("%d edges, want %d: %w", e, wantE, ErrMalformedMesh)
	}
	return nil
}

// subdivideAll subdivides every base face. Each goroutine writes only its own slot of the
// result, so the patches come back in base-face order regardless of scheduling.
func subdivideAll(base []Point3, baseFaces []Face, opts Options) ([]patch, error) {
	patches := make([]patch, len(baseFaces))
	subdivide := func(i int) error {
		bf := baseFaces[i]
		v, f, err := Subdivide(base[bf[0]], base[bf[1]], base[bf[2]], opts.Frequency, opts.Radius)
		if err != nil {
			return fmt.Errorf("base face %d: %w", i, err)
		}
		patches[i] = patch{vertices: v, faces: f}
		return nil
	}

	if opts.Workers <= 1 {
		for i := range baseFaces {
			if err := subdivide(i); err != nil {
				return nil, err
			}
		}
		return patches, nil
	}

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for i := range baseFaces {
		i := i
		g.Go(func() error { return subdivide(i) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return patches, nil
}
