package export

import (
	"fmt"
	"io"
	"os"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"

	"geodome/internal/geodesic"
)

// DXFMode selects how faces are drawn in a DXF file.
type DXFMode int

const (
	// DXFWires draws every face as a closed triangle of three LINE entities on layer STRUTS.
	DXFWires DXFMode = iota
	// DXFFaces draws every face as one 3DFACE entity on layer FACES. Faces stay independent;
	// joining them into a surface is left to the CAD program.
	DXFFaces
)

func (m DXFMode) String() string {
	switch m {
	case DXFWires:
		return "wires"
	case DXFFaces:
		return "faces"
	}
	return fmt.Sprintf("DXFMode(%d)", int(m))
}

// ParseDXFMode maps "wires" and "faces" to a DXFMode.
func ParseDXFMode(s string) (DXFMode, error) {
	switch s {
	case "wires", "wire", "lines":
		return DXFWires, nil
	case "faces", "face", "3dface":
		return DXFFaces, nil
	}
	return 0, fmt.Errorf("dxf mode %q: %w", s, ErrUnknownFormat)
}

// WriteDXF saves m to path as a DXF drawing in the given mode.
func WriteDXF(path string, m *geodesic.Mesh, mode DXFMode) error {
	d := dxf.NewDrawing()
	d.Header().LtScale = 1.0

	switch mode {
	case DXFWires:
		d.AddLayer("STRUTS", color.Red, dxf.DefaultLineType, true)
		d.ChangeLayer("STRUTS")
		for i := range m.Faces {
			t := m.Triangle(i)
			for k := 0; k < 3; k++ {
				a, b := t[k], t[(k+1)%3]
				if _, err := d.Line(a.X, a.Y, a.Z, b.X, b.Y, b.Z); err != nil {
					return fmt.Errorf("face %d: %w", i, err)
				}
			}
		}
	case DXFFaces:
		d.AddLayer("FACES", color.Green, dxf.DefaultLineType, true)
		d.ChangeLayer("FACES")
		for i := range m.Faces {
			t := m.Triangle(i)
			points := [][]float64{
				{t[0].X, t[0].Y, t[0].Z},
				{t[1].X, t[1].Y, t[1].Z},
				{t[2].X, t[2].Y, t[2].Z},
				{t[2].X, t[2].Y, t[2].Z},
			}
			if _, err := d.ThreeDFace(points); err != nil {
				return fmt.Errorf("face %d: %w", i, err)
			}
		}
	default:
		return fmt.Errorf("%v: %w", mode, ErrUnknownFormat)
	}

	return d.SaveAs(path)
}

// copyDXF renders m to a temporary DXF file and copies it to w; the dxf package only
// saves to paths.
func copyDXF(w io.Writer, m *geodesic.Mesh, mode DXFMode) error {
	tmp, err := os.CreateTemp("", "geodome-*.dxf")
	if err != nil {
		return err
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	if err := WriteDXF(path, m, mode); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
