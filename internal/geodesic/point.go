package geodesic

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidArgument is returned before any work is done when radius or frequency is out of range.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrMalformedMesh is returned when the generated mesh breaks one of its invariants
// (no faces, a repeated or out-of-range index, a vertex off the sphere).
var ErrMalformedMesh = errors.New("malformed mesh")

// Point3 is a position in model space. It is gonum's r3.Vec so the r3 helpers
// (Add, Sub, Cross, Norm, ...) work on mesh vertices directly.
type Point3 = r3.Vec

// Face is an ordered triple of indices into a vertex buffer.
// Faces produced by this package are wound counter-clockwise seen from outside the sphere.
type Face [3]int

// Degenerate reports whether any two indices of f are equal.
func (f Face) Degenerate() bool {
	return f[0] == f[1] || f[1] == f[2] || f[0] == f[2]
}

// Flip returns f with the opposite winding.
func (f Face) Flip() Face {
	return Face{f[0], f[2], f[1]}
}

// normalizeAndScale projects p onto the sphere of the given radius.
// A zero-length p has no direction and stays at the origin.
func normalizeAndScale(p Point3, radius float64) Point3 {
	length := math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
	if length == 0 {
		return Point3{}
	}
	return Point3{
		X: radius * p.X / length,
		Y: radius * p.Y / length,
		Z: radius * p.Z / length,
	}
}

func checkRadius(radius float64) error {
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius <= 0 {
		return fmt.Errorf("radius %v must be a positive finite number: %w", radius, ErrInvalidArgument)
	}
	return nil
}

func checkFrequency(frequency int) error {
	if frequency < 1 {
		return fmt.Errorf("frequency %d must be at least 1: %w", frequency, ErrInvalidArgument)
	}
	return nil
}
