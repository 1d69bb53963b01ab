// Package viewer opens an interactive raylib window showing a geodesic mesh.
package viewer

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"geodome/internal/geodesic"
	"geodome/internal/logger"
)

// Options controls the preview window.
type Options struct {
	Width     int
	Height    int
	Wireframe bool
	Title     string
	Log       *logger.Logger
}

// DefaultOptions returns a 1280×720 window with struts drawn.
func DefaultOptions() Options {
	return Options{Width: 1280, Height: 720, Wireframe: true, Title: "geodome"}
}

var background = rl.NewColor(24, 26, 32, 255)

// Run opens the window and blocks until it is closed. Keys: W toggles struts, G the
// grid, D the FPS and memory overlay, F the free camera (mouse captured), R resets the
// camera. Must be called from the main goroutine.
func Run(m *geodesic.Mesh, opts Options) error {
	if m == nil || len(m.Faces) == 0 {
		return errors.New("viewer: empty mesh")
	}
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.Title == "" {
		opts.Title = def.Title
	}
	logf := func(format string, args ...any) {
		if opts.Log != nil {
			opts.Log.Logf(format, args...)
		}
	}

	stats := m.Stats()
	hud := []string{
		fmt.Sprintf("radius %g  frequency %d", m.Radius, m.Frequency),
		fmt.Sprintf("%d vertices  %d faces  %d struts", stats.Vertices, stats.Faces, stats.Edges),
		fmt.Sprintf("strut length %.4g .. %.4g", stats.MinEdge, stats.MaxEdge),
		"W struts  G grid  D overlay  F free camera  R reset",
	}

	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)
	logf("viewer: window %dx%d, %d faces", opts.Width, opts.Height, len(m.Faces))

	d, err := newDome(m)
	if err != nil {
		return err
	}
	defer d.unload()
	s := newScene(m.Radius)
	wires := opts.Wireframe
	ov := &overlay{Visible: true}

	for !rl.WindowShouldClose() {
		switch {
		case rl.IsKeyPressed(rl.KeyW):
			wires = !wires
		case rl.IsKeyPressed(rl.KeyG):
			s.GridVisible = !s.GridVisible
		case rl.IsKeyPressed(rl.KeyD):
			ov.Visible = !ov.Visible
		case rl.IsKeyPressed(rl.KeyF):
			s.ToggleFree()
		case rl.IsKeyPressed(rl.KeyR):
			s.Reset()
		}
		s.Update()

		rl.BeginDrawing()
		rl.ClearBackground(background)
		rl.BeginMode3D(s.Camera)
		s.DrawGrid()
		d.Draw(s.Camera.Position, s.LightDir())
		if wires {
			d.DrawWires()
		}
		rl.EndMode3D()
		for i, line := range hud {
			rl.DrawText(line, 10, int32(10+22*i), 18, rl.RayWhite)
		}
		ov.Draw()
		rl.EndDrawing()
	}
	logf("viewer: closed")
	return nil
}
