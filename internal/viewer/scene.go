package viewer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	gridDivisions  = 20
	gridMajorEvery = 5
	gridMinorAlpha = 50
	gridMajorAlpha = 120
	axisLineAlpha  = 220
)

// scene holds the camera and the floor grid, both sized to the dome radius.
// Based on raylib examples/core/core_3d_camera_free.
type scene struct {
	Camera      rl.Camera3D
	GridVisible bool
	free        bool
	radius      float32
	home        rl.Vector3
}

// newScene frames a sphere of the given radius: the camera sits about three radii out,
// above the equator, looking at the origin.
func newScene(radius float64) *scene {
	r := float32(radius)
	s := &scene{radius: r, GridVisible: true}
	s.home = rl.NewVector3(2.2*r, 1.6*r, 2.2*r)
	s.Camera.Position = s.home
	s.Camera.Target = rl.NewVector3(0, 0, 0)
	s.Camera.Up = rl.NewVector3(0, 1, 0)
	s.Camera.Fovy = 45
	s.Camera.Projection = rl.CameraPerspective
	return s
}

// ToggleFree switches between the orbiting camera and the free camera. The free camera
// captures the mouse.
func (s *scene) ToggleFree() {
	s.free = !s.free
	if s.free {
		rl.DisableCursor()
	} else {
		rl.EnableCursor()
	}
}

// Reset puts the camera back where newScene placed it.
func (s *scene) Reset() {
	s.Camera.Position = s.home
	s.Camera.Target = rl.NewVector3(0, 0, 0)
	s.Camera.Up = rl.NewVector3(0, 1, 0)
}

// Update runs once per frame.
func (s *scene) Update() {
	if s.free {
		rl.UpdateCamera(&s.Camera, rl.CameraFree)
		return
	}
	rl.UpdateCamera(&s.Camera, rl.CameraOrbital)
}

// LightDir is the direction to the light: over the camera's shoulder.
func (s *scene) LightDir() rl.Vector3 {
	p := s.Camera.Position
	return rl.NewVector3(p.X+s.radius, p.Y+2*s.radius, p.Z)
}

// DrawGrid draws a grid on the plane under the dome with major/minor lines and axis lines.
// Reuses start/end vectors to avoid per-frame allocations in the hot loop.
func (s *scene) DrawGrid() {
	if !s.GridVisible {
		return
	}
	minor := rl.NewColor(128, 128, 128, gridMinorAlpha)
	major := rl.NewColor(160, 160, 160, gridMajorAlpha)
	axisX := rl.NewColor(220, 80, 80, axisLineAlpha)
	axisY := rl.NewColor(80, 220, 80, axisLineAlpha)
	axisZ := rl.NewColor(80, 80, 220, axisLineAlpha)

	extent := 2 * s.radius
	step := gridStep(float64(extent))
	n := int(math.Ceil(float64(extent) / float64(step)))
	floor := -s.radius

	var start, end rl.Vector3
	for i := -n; i <= n; i++ {
		c := minor
		if i%gridMajorEvery == 0 {
			c = major
		}
		v := float32(i) * step
		start.X, start.Y, start.Z = v, floor, -extent
		end.X, end.Y, end.Z = v, floor, extent
		rl.DrawLine3D(start, end, c)
		start.X, start.Y, start.Z = -extent, floor, v
		end.X, end.Y, end.Z = extent, floor, v
		rl.DrawLine3D(start, end, c)
	}

	// Axis lines through the centre (X=red, Y=green, Z=blue)
	start.X, start.Y, start.Z = -extent, 0, 0
	end.X, end.Y, end.Z = extent, 0, 0
	rl.DrawLine3D(start, end, axisX)
	start.X, start.Y, start.Z = 0, -extent, 0
	end.X, end.Y, end.Z = 0, extent, 0
	rl.DrawLine3D(start, end, axisY)
	start.X, start.Y, start.Z = 0, 0, -extent
	end.X, end.Y, end.Z = 0, 0, extent
	rl.DrawLine3D(start, end, axisZ)
}

// gridStep picks a 1, 2 or 5 times power-of-ten spacing giving about gridDivisions cells
// across extent.
func gridStep(extent float64) float32 {
	if extent <= 0 {
		return 1
	}
	raw := extent / gridDivisions
	pow := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 5, 10} {
		if raw <= m*pow {
			return float32(m * pow)
		}
	}
	return float32(10 * pow)
}
