package geodesic

// Subdivide splits the triangle (v0, v1, v2) into frequency² triangles on a barycentric grid
// and projects every grid point onto the sphere of the given radius.
//
// Grid point (i, j) has weights a = i/f on v0, b = j/f on v1 and c = 1-a-b on v2. Points are
// indexed in row-major discovery order and are local to this call: corners and edge points
// shared with neighbouring triangles are not deduplicated here (see Merger). The returned
// faces keep the winding of (v0, v1, v2).
func Subdivide(v0, v1, v2 Point3, frequency int, radius float64) ([]Point3, []Face, error) {
	if err := checkFrequency(frequency); err != nil {
		return nil, nil, err
	}
	if err := checkRadius(radius); err != nil {
		return nil, nil, err
	}

	f := frequency
	fn := float64(f)
	vertices := make([]Point3, 0, (f+1)*(f+2)/2)
	grid := make([][]int, f+1)
	for i := 0; i <= f; i++ {
		row := make([]int, 0, f+1-i)
		for j := 0; j <= f-i; j++ {
			a := float64(i) / fn
			b := float64(j) / fn
			c := 1 - a - b
			p := Point3{
				X: a*v0.X + b*v1.X + c*v2.X,
				Y: a*v0.Y + b*v1.Y + c*v2.Y,
				Z: a*v0.Z + b*v1.Z + c*v2.Z,
			}
			row = append(row, len(vertices))
			vertices = append(vertices, normalizeAndScale(p, radius))
		}
		grid[i] = row
	}

	faces := make([]Face, 0, f*f)
	for i := 0; i < f; i++ {
		for j := 0; j < f-i; j++ {
			faces = append(faces, Face{grid[i][j], grid[i+1][j], grid[i][j+1]})
			if j < f-i-1 {
				faces = append(faces, Face{grid[i+1][j], grid[i+1][j+1], grid[i][j+1]})
			}
		}
	}
	return vertices, faces, nil
}
