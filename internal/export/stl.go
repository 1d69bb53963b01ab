package export

import (
	"bufio"
	"encoding/binary"
	"io"

	"gonum.org/v1/gonum/spatial/r3"

	"geodome/internal/geodesic"
)

// stlTriangle is the 50-byte binary STL facet record.
type stlTriangle struct {
	Normal    [3]float32
	Vertices  [3][3]float32
	Attribute uint16
}

// WriteSTL writes m as binary STL. Each facet carries its unit normal, taken from the
// face winding, so outward-wound meshes get outward normals.
func WriteSTL(w io.Writer, m *geodesic.Mesh) error {
	bw := bufio.NewWriter(w)
	var header [80]byte
	copy(header[:], "geodome geodesic sphere")
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(m.Faces))); err != nil {
		return err
	}
	for i := range m.Faces {
		t := m.Triangle(i)
		rec := stlTriangle{Normal: vec32(unitOrZero(t.Normal()))}
		for k, v := range t {
			rec.Vertices[k] = vec32(v)
		}
		if err := binary.Write(bw, binary.LittleEndian, &rec); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func unitOrZero(v r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/n, v)
}

func vec32(v r3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
