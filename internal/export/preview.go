package export

import (
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"
	"sort"

	"github.com/anthonynsimon/bild/imgio"
	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/spatial/r3"

	"geodome/internal/geodesic"
)

// Orthographic camera and light for RenderPreview.
var (
	previewForward = unitOrZero(r3.Vec{X: -0.35, Y: 1, Z: -0.45})
	previewRight   = unitOrZero(r3.Cross(previewForward, r3.Vec{Z: 1}))
	previewUp      = r3.Cross(previewRight, previewForward)
	previewLight   = unitOrZero(r3.Vec{X: -0.6, Y: -0.8, Z: 0.9})

	previewBackground = color.RGBA{R: 24, G: 26, B: 32, A: 255}
	previewBase       = color.RGBA{R: 120, G: 170, B: 235, A: 255}
)

const previewAmbient = 0.25

type previewFace struct {
	pts   [3][2]float32
	depth float64
	shade float64
}

// RenderPreview draws m flat-shaded in orthographic projection on a size×size image.
// Back faces are culled; the rest are painted far to near.
func RenderPreview(m *geodesic.Mesh, size int) *image.RGBA {
	if size <= 0 {
		size = DefaultPreviewSize
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(previewBackground), image.Point{}, draw.Src)
	if m == nil || m.Radius <= 0 {
		return img
	}

	half := float64(size) / 2
	scale := 0.9 * half / m.Radius
	project := func(p r3.Vec) [2]float32 {
		return [2]float32{
			float32(half + r3.Dot(p, previewRight)*scale),
			float32(half - r3.Dot(p, previewUp)*scale),
		}
	}

	faces := make([]previewFace, 0, len(m.Faces)/2+1)
	for i := range m.Faces {
		t := m.Triangle(i)
		n := unitOrZero(t.Normal())
		if r3.Dot(n, previewForward) >= 0 {
			continue
		}
		faces = append(faces, previewFace{
			pts:   [3][2]float32{project(t[0]), project(t[1]), project(t[2])},
			depth: r3.Dot(t.Centroid(), previewForward),
			shade: previewAmbient + (1-previewAmbient)*math.Max(0, r3.Dot(n, previewLight)),
		})
	}
	sort.SliceStable(faces, func(i, j int) bool { return faces[i].depth > faces[j].depth })

	var z vector.Rasterizer
	for _, f := range faces {
		fillTriangle(&z, img, f.pts, shadeColor(previewBase, f.shade))
	}
	return img
}

// fillTriangle rasterizes one triangle into the bounding box it covers.
func fillTriangle(z *vector.Rasterizer, dst draw.Image, pts [3][2]float32, c color.Color) {
	minX, minY := pts[0][0], pts[0][1]
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX, maxX = min(minX, p[0]), max(maxX, p[0])
		minY, maxY = min(minY, p[1]), max(maxY, p[1])
	}
	r := image.Rect(int(minX), int(minY), int(maxX)+2, int(maxY)+2).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	ox, oy := float32(r.Min.X), float32(r.Min.Y)
	z.Reset(r.Dx(), r.Dy())
	z.MoveTo(pts[0][0]-ox, pts[0][1]-oy)
	z.LineTo(pts[1][0]-ox, pts[1][1]-oy)
	z.LineTo(pts[2][0]-ox, pts[2][1]-oy)
	z.ClosePath()
	z.Draw(dst, r, image.NewUniform(c), image.Point{})
}

func shadeColor(c color.RGBA, s float64) color.RGBA {
	s = math.Min(math.Max(s, 0), 1)
	return color.RGBA{
		R: uint8(float64(c.R) * s),
		G: uint8(float64(c.G) * s),
		B: uint8(float64(c.B) * s),
		A: c.A,
	}
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return imgio.PNGEncoder()(w, img)
}

// SavePNG writes img to a PNG file at path.
func SavePNG(path string, img image.Image) error {
	return imgio.Save(path, img, imgio.PNGEncoder())
}
