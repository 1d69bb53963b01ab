package viewer

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	overlayFontSize   = 20
	overlayPadding    = 12
	overlayLineHeight = overlayFontSize + 4
	// refresh the text every N frames to limit allocations.
	overlayInterval = 30
)

// overlay draws FPS and heap usage in the top-right corner.
type overlay struct {
	Visible  bool
	frame    uint32
	fpsText  string
	memText  string
	memStats runtime.MemStats
}

// Draw renders the overlay. Call after EndMode3D.
func (o *overlay) Draw() {
	if !o.Visible {
		return
	}
	o.frame++
	if o.frame%overlayInterval == 0 || o.fpsText == "" {
		o.fpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		runtime.ReadMemStats(&o.memStats)
		o.memText = fmt.Sprintf("Mem: %.2f MiB", float64(o.memStats.Alloc)/(1024*1024))
	}
	screenW := int32(rl.GetScreenWidth())
	y := int32(overlayPadding)
	for _, text := range []string{o.fpsText, o.memText} {
		x := screenW - rl.MeasureText(text, overlayFontSize) - overlayPadding
		rl.DrawText(text, x, y, overlayFontSize, rl.Green)
		y += overlayLineHeight
	}
}
