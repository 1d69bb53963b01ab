package geodesic

import "gonum.org/v1/gonum/spatial/r3"

// OrientOutward flips, in place, every face whose normal points towards the origin
// (centroid · normal < 0) and returns how many faces were flipped. Faces with a zero
// normal are left alone. Subdivision keeps the base winding, so on generated meshes this
// is a check that normally flips nothing.
func OrientOutward(vertices []Point3, faces []Face) int {
	flipped := 0
	for i, f := range faces {
		if !inRange(f, len(vertices)) {
			continue
		}
		t := r3.Triangle{vertices[f[0]], vertices[f[1]], vertices[f[2]]}
		if r3.Dot(t.Centroid(), t.Normal()) < 0 {
			faces[i] = f.Flip()
			flipped++
		}
	}
	return flipped
}
