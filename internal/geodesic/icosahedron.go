package geodesic

import "math"

// icosahedronFaces connects the north pole (0), the upper ring (1-5), the lower ring (6-10)
// and the south pole (11). Every triple is counter-clockwise seen from outside; the order
// is relied on by anything that derives normals from the mesh, so do not reorder.
var icosahedronFaces = [20]Face{
	{1, 2, 0}, {2, 3, 0}, {3, 4, 0}, {4, 5, 0}, {5, 1, 0},
	{5, 6, 1}, {1, 7, 2}, {2, 8, 3}, {3, 9, 4}, {4, 10, 5},
	{1, 6, 7}, {2, 7, 8}, {3, 8, 9}, {4, 9, 10}, {5, 10, 6},
	{6, 11, 7}, {7, 11, 8}, {8, 11, 9}, {9, 11, 10}, {10, 11, 6},
}

// Icosahedron returns the 12 vertices and 20 faces of a regular icosahedron inscribed in
// the sphere of the given radius. The poles sit on the Z axis; the two pentagonal rings lie
// at z = ±1/√5 (unit sphere) with ring points 0.4π apart and the lower ring offset 0.2π.
func Icosahedron(radius float64) ([]Point3, []Face, error) {
	if err := checkRadius(radius); err != nil {
		return nil, nil, err
	}

	sinPhi := 2.0 / math.Sqrt(5.0)
	cosPhi := 0.5 * sinPhi
	cos1, sin1 := math.Cos(0.4*math.Pi), math.Sin(0.4*math.Pi)
	cos2, sin2 := math.Cos(0.8*math.Pi), math.Sin(0.8*math.Pi)

	raw := [12]Point3{
		{X: 0, Y: 0, Z: 1},
		{X: sinPhi, Y: 0, Z: cosPhi},
		{X: sinPhi * cos1, Y: sinPhi * sin1, Z: cosPhi},
		{X: sinPhi * cos2, Y: sinPhi * sin2, Z: cosPhi},
		{X: sinPhi * cos2, Y: -sinPhi * sin2, Z: cosPhi},
		{X: sinPhi * cos1, Y: -sinPhi * sin1, Z: cosPhi},
		{X: -sinPhi * cos2, Y: -sinPhi * sin2, Z: -cosPhi},
		{X: -sinPhi * cos2, Y: sinPhi * sin2, Z: -cosPhi},
		{X: -sinPhi * cos1, Y: sinPhi * sin1, Z: -cosPhi},
		{X: -sinPhi, Y: 0, Z: -cosPhi},
		{X: -sinPhi * cos1, Y: -sinPhi * sin1, Z: -cosPhi},
		{X: 0, Y: 0, Z: -1},
	}

	vertices := make([]Point3, len(raw))
	for i, v := range raw {
		vertices[i] = normalizeAndScale(v, radius)
	}
	faces := make([]Face, len(icosahedronFaces))
	copy(faces, icosahedronFaces[:])
	return vertices, faces, nil
}
