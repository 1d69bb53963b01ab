package export

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/golang/geo/s2"

	"geodome/internal/geodesic"
)

const (
	svgBackground = "fill:rgb(255,255,255)"
	svgFaceStyle  = "fill:rgb(235,240,250);stroke:rgb(90,110,160);stroke-width:1;stroke-opacity:1.0"
)

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// WriteSVG draws the faces of m on a plate carrée world map width pixels wide and
// width/2 high. Faces that cross the antimeridian are skipped.
func WriteSVG(w io.Writer, m *geodesic.Mesh, width int) error {
	if width <= 0 {
		width = DefaultSVGWidth
	}
	height := width / 2
	xScale := float64(width)
	proj := s2.NewPlateCarreeProjection(xScale)
	toScreen := func(p s2.Point) (int, int) {
		r2p := proj.Project(p)
		x := (r2p.X + xScale) / (2 * xScale)
		y := (-r2p.Y + xScale/2) / xScale
		return int(x * float64(width)), int(y * float64(height))
	}

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(width, height)
	canvas.Title(fmt.Sprintf("geodesic sphere radius %g frequency %d", m.Radius, m.Frequency))
	canvas.Rect(0, 0, width, height, svgBackground)
	canvas.Gstyle(svgFaceStyle)

	xs := make([]int, 0, 3)
	ys := make([]int, 0, 3)
	for _, f := range m.Faces {
		xs, ys = xs[:0], ys[:0]
		draw := true
		var lng0 float64
		for k, idx := range f {
			v := m.Vertices[idx]
			p := s2.PointFromCoords(v.X, v.Y, v.Z)
			lng := s2.LatLngFromPoint(p).Lng.Radians()
			if k == 0 {
				lng0 = lng
			} else if math.Abs(lng0-lng) > math.Pi {
				draw = false
				break
			}
			x, y := toScreen(p)
			xs = append(xs, x)
			ys = append(ys, y)
		}
		if draw {
			canvas.Polygon(xs, ys)
		}
	}

	canvas.Gend()
	canvas.End()
	return ew.err
}
