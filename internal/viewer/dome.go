package viewer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"geodome/internal/export"
	"geodome/internal/geodesic"
)

// wireLift pushes strut lines slightly off the surface so they do not z-fight with it.
const wireLift = 1.002

var wireColor = rl.NewColor(30, 40, 60, 255)

// dome holds the GPU mesh of a geodesic sphere and its strut lines. The mesh is
// non-indexed because raylib indices are 16-bit.
type dome struct {
	positions []float32
	normals   []float32
	wires     []rl.Vector3
	mesh      rl.Mesh
	mtl       rl.Material
	transform rl.Matrix
	uploaded  bool
}

// newDome prepares the buffers of m. GPU upload waits for upload, after the window exists.
func newDome(m *geodesic.Mesh) (*dome, error) {
	d := &dome{
		// The mesh is Z-up; raylib is Y-up.
		transform: rl.MatrixRotateX(-math.Pi / 2),
	}
	d.positions, d.normals = export.FlatBuffers(m)
	lifted, err := m.Scaled(wireLift)
	if err != nil {
		return nil, err
	}
	seg := export.WireSegments(lifted)
	d.wires = make([]rl.Vector3, 0, len(seg)/3)
	for i := 0; i+2 < len(seg); i += 3 {
		d.wires = append(d.wires, yUp(seg[i], seg[i+1], seg[i+2]))
	}
	return d, nil
}

// yUp converts a Z-up point to raylib's Y-up space, matching transform.
func yUp(x, y, z float32) rl.Vector3 {
	return rl.NewVector3(x, z, -y)
}

func (d *dome) upload() {
	if d.uploaded || len(d.positions) == 0 {
		return
	}
	d.mesh = rl.Mesh{
		VertexCount:   int32(len(d.positions) / 3),
		TriangleCount: int32(len(d.positions) / 9),
		Vertices:      &d.positions[0],
		Normals:       &d.normals[0],
	}
	rl.UploadMesh(&d.mesh, false)
	d.mtl = newLitMaterial()
	d.uploaded = true
}

// Draw renders the surface. Call between BeginMode3D and EndMode3D.
func (d *dome) Draw(viewPos, lightDir rl.Vector3) {
	d.upload()
	if !d.uploaded {
		return
	}
	setLightUniforms(d.mtl.Shader, viewPos, lightDir)
	rl.DrawMesh(d.mesh, d.mtl, d.transform)
}

// DrawWires renders every strut once.
func (d *dome) DrawWires() {
	for i := 0; i+1 < len(d.wires); i += 2 {
		rl.DrawLine3D(d.wires[i], d.wires[i+1], wireColor)
	}
}

func (d *dome) unload() {
	if !d.uploaded {
		return
	}
	rl.UnloadMesh(&d.mesh)
	if rl.IsShaderValid(d.mtl.Shader) {
		rl.UnloadShader(d.mtl.Shader)
	}
	d.uploaded = false
}
