package pixelbe

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"gitlab.com/tinyland/lab/pulse-scope/pkg/render"
	"gitlab.com/tinyland/lab/pulse-scope/pkg/theme"
)

// Dash patterns in supersampled pixels. An absent entry draws solid.
var dashPatterns = map[string][]int{
	"dashed": {8 * superSample, 4 * superSample},
	"dotted": {2 * superSample, 3 * superSample},
}

// raster is an opaque drawing surface pre-filled with the scheme
// background.
type raster struct {
	img *image.NRGBA
}

func newRaster(w, h int, scheme theme.Scheme) *raster {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Rect, image.NewUniform(schemeNRGBA(scheme.Background)), image.Point{}, draw.Src)
	return &raster{img: img}
}

// stamp fills a thickness-sized square centered on (x, y), clipped to the
// surface.
func (r *raster) stamp(x, y int, col color.NRGBA, thickness int) {
	half := thickness / 2
	for dy := -half; dy < thickness-half; dy++ {
		for dx := -half; dx < thickness-half; dx++ {
			px, py := x+dx, y+dy
			if px < 0 || py < 0 || px >= r.img.Rect.Dx() || py >= r.img.Rect.Dy() {
				continue
			}
			r.img.SetNRGBA(px, py, col)
		}
	}
}

// strokeSegment walks one Bresenham segment, stamping thickness-wide dots
// and advancing the dash walker per pixel step.
func (r *raster) strokeSegment(x0, y0, x1, y1 int, col color.NRGBA, thickness int, w *dashWalker) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	x, y := x0, y0
	for {
		w.step()
		if w.on() {
			r.stamp(x, y, col, thickness)
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// dottedHLine draws a sparse horizontal reference line at row y.
func (r *raster) dottedHLine(y, w int, col color.NRGBA) {
	for x := 0; x < w; x += 3 * superSample {
		r.img.SetNRGBA(x, y, col)
	}
}

// dottedVLine draws a sparse vertical reference line at column x.
func (r *raster) dottedVLine(x, h int, col color.NRGBA) {
	for y := 0; y < h; y += 3 * superSample {
		r.img.SetNRGBA(x, y, col)
	}
}

// dashWalker tracks position along a dash pattern measured in pixels. An
// empty pattern is always on.
type dashWalker struct {
	pattern []int
	idx     int
	run     int
}

func (w *dashWalker) on() bool {
	return len(w.pattern) == 0 || w.idx%2 == 0
}

func (w *dashWalker) step() {
	if len(w.pattern) == 0 {
		return
	}
	w.run++
	if w.run >= w.pattern[w.idx%len(w.pattern)] {
		w.run = 0
		w.idx++
	}
}

// downscale resamples the supersampled canvas down to the terminal pixel
// area with CatmullRom filtering.
func downscale(src *image.NRGBA, w, h int) *image.NRGBA {
	if src.Rect.Dx() == w && src.Rect.Dy() == h {
		return src
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Rect, src, src.Rect, xdraw.Src, nil)
	return dst
}

// drawAxisLabels overlays Y-range and X-span labels at final resolution so
// the text stays crisp.
func drawAxisLabels(img *image.NRGBA, vp render.Viewport, scheme theme.Scheme) {
	face := basicfont.Face7x13
	col := schemeNRGBA(scheme.Dim)
	h := img.Rect.Dy()

	drawString(img, face, col, 2, face.Ascent+1, formatAxisValue(vp.YMax))
	drawString(img, face, col, 2, h-3, formatAxisValue(vp.YMin))

	span := fmt.Sprintf("%.1fs", vp.Width()/1000)
	w := font.MeasureString(face, span).Ceil()
	drawString(img, face, col, img.Rect.Dx()-w-2, h-3, span)
}

func drawString(img *image.NRGBA, face font.Face, col color.NRGBA, x, y int, s string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func formatAxisValue(v float64) string {
	return fmt.Sprintf("%.4g", v)
}

// blendOver composites a stroke color over the scheme background and
// returns the resulting opaque pixel color.
func blendOver(c render.RGBA, scheme theme.Scheme) color.NRGBA {
	bg, err := render.ParseColor(scheme.Background)
	if err != nil {
		bg = render.RGBA{0, 0, 0, 1}
	}
	a := c[3]
	out := render.RGBA{
		c[0]*a + bg[0]*(1-a),
		c[1]*a + bg[1]*(1-a),
		c[2]*a + bg[2]*(1-a),
		1,
	}
	return out.NRGBA()
}

func gridColor(scheme theme.Scheme) color.NRGBA {
	return schemeNRGBA(scheme.Grid)
}

// schemeNRGBA parses a scheme hex color, falling back to black.
func schemeNRGBA(hex string) color.NRGBA {
	c, err := render.ParseColor(hex)
	if err != nil {
		return color.NRGBA{A: 0xff}
	}
	return c.NRGBA()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
