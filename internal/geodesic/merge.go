package geodesic

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// DefaultDigits is the number of decimal digits RoundingMerger keeps per coordinate.
	DefaultDigits = 8
	// DefaultTolerance is the merge distance used by ToleranceMerger.
	DefaultTolerance = 1e-8
)

// Merger collapses vertices that describe the same point and remaps faces onto the
// surviving vertices. Faces that become degenerate after remapping are dropped, as are
// faces that reference an index outside vertices. Merged vertices keep first-seen order.
type Merger interface {
	Merge(vertices []Point3, faces []Face) ([]Point3, []Face)
}

// RoundingMerger treats two vertices as the same point when every coordinate, divided by
// Scale, rounds to the same value at Digits decimal places. Digits <= 0 selects
// DefaultDigits; Scale <= 0 means 1. Build sets Scale to the radius when it is unset, so
// the precision is relative to the sphere and does not run out at large radii.
//
// Two computations of one shared-edge point that straddle a rounding boundary get
// different keys and are not merged; ToleranceMerger does not have that failure mode.
type RoundingMerger struct {
	Digits int
	Scale  float64
}

// scaler is implemented by mergers whose precision can follow the mesh size.
type scaler interface {
	scaled(radius float64) Merger
}

func (m RoundingMerger) scaled(radius float64) Merger {
	if m.Scale <= 0 {
		m.Scale = radius
	}
	return m
}

type roundedKey [3]float64

// Merge implements Merger.
func (m RoundingMerger) Merge(vertices []Point3, faces []Face) ([]Point3, []Face) {
	digits := m.Digits
	if digits <= 0 {
		digits = DefaultDigits
	}
	scale := math.Pow10(digits)
	if m.Scale > 0 {
		scale /= m.Scale
	}

	index := make(map[roundedKey]int, len(vertices))
	remap := make([]int, len(vertices))
	merged := make([]Point3, 0, len(vertices))
	for i, v := range vertices {
		// key is the scaled coordinate rounded to an integral float; -0 and +0 compare equal.
		k := roundedKey{math.Round(v.X * scale), math.Round(v.Y * scale), math.Round(v.Z * scale)}
		j, ok := index[k]
		if !ok {
			j = len(merged)
			index[k] = j
			merged = append(merged, v)
		}
		remap[i] = j
	}
	return merged, remapFaces(faces, remap)
}

// ToleranceMerger treats two vertices as the same point when they are within
// Tolerance·Scale of each other (Euclidean distance). Vertices are bucketed in a spatial
// hash with that cell size so only the 27 surrounding cells are searched. Tolerance <= 0
// selects DefaultTolerance; Scale <= 0 means 1. Build sets Scale to the radius when it is
// unset.
type ToleranceMerger struct {
	Tolerance float64
	Scale     float64
}

func (m ToleranceMerger) scaled(radius float64) Merger {
	if m.Scale <= 0 {
		m.Scale = radius
	}
	return m
}

type cellKey [3]float64

// Merge implements Merger. When several earlier vertices are within tolerance, the one
// with the lowest output index wins so the result does not depend on map iteration.
func (m ToleranceMerger) Merge(vertices []Point3, faces []Face) ([]Point3, []Face) {
	tol := m.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	if m.Scale > 0 {
		tol *= m.Scale
	}

	cells := make(map[cellKey][]int, len(vertices))
	remap := make([]int, len(vertices))
	merged := make([]Point3, 0, len(vertices))
	for i, v := range vertices {
		c := cellKey{math.Floor(v.X / tol), math.Floor(v.Y / tol), math.Floor(v.Z / tol)}
		match := -1
		for dx := -1.0; dx <= 1; dx++ {
			for dy := -1.0; dy <= 1; dy++ {
				for dz := -1.0; dz <= 1; dz++ {
					for _, k := range cells[cellKey{c[0] + dx, c[1] + dy, c[2] + dz}] {
						if (match < 0 || k < match) && r3.Norm(r3.Sub(merged[k], v)) <= tol {
							match = k
						}
					}
				}
			}
		}
		if match < 0 {
			match = len(merged)
			merged = append(merged, v)
			cells[c] = append(cells[c], match)
		}
		remap[i] = match
	}
	return merged, remapFaces(faces, remap)
}

func remapFaces(faces []Face, remap []int) []Face {
	out := make([]Face, 0, len(faces))
	for _, f := range faces {
		if !inRange(f, len(remap)) {
			continue
		}
		g := Face{remap[f[0]], remap[f[1]], remap[f[2]]}
		if g.Degenerate() {
			continue
		}
		out = append(out, g)
	}
	return out
}

func inRange(f Face, n int) bool {
	for _, i := range f {
		if i < 0 || i >= n {
			return false
		}
	}
	return true
}
