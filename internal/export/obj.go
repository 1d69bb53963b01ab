package export

import (
	"bufio"
	"fmt"
	"io"

	"geodome/internal/geodesic"
)

// WriteOBJ writes m as a Wavefront OBJ file: one "v" line per vertex and one "f" line per
// face with 1-based indices, winding unchanged.
func WriteOBJ(w io.Writer, m *geodesic.Mesh) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# geodesic sphere radius %g frequency %d\n", m.Radius, m.Frequency)
	fmt.Fprintf(bw, "# %d vertices %d faces\n", len(m.Vertices), len(m.Faces))
	fmt.Fprintln(bw, "o geodome")
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %.10g %.10g %.10g\n", v.X, v.Y, v.Z)
	}
	for _, f := range m.Faces {
		fmt.Fprintf(bw, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1)
	}
	return bw.Flush()
}
