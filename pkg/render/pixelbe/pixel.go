// Package pixelbe renders charts to an offscreen RGBA raster and emits
// them through a terminal graphics protocol (Kitty, iTerm2, or Sixel).
// Traces are stroked at 2x supersampling and downscaled with CatmullRom
// resampling for smooth lines. Terminals without a raster protocol fail
// Init with render.ErrNoGraphics so the caller can fall back to braille
// cells.
package pixelbe

import (
	"fmt"
	"image"

	"github.com/blacktop/go-termimg"

	"gitlab.com/tinyland/lab/pulse-scope/pkg/render"
	"gitlab.com/tinyland/lab/pulse-scope/pkg/terminal"
	"gitlab.com/tinyland/lab/pulse-scope/pkg/theme"
)

// superSample is the oversampling factor for trace stroking.
const superSample = 2

// Backend draws frames into a pixel raster sized to the terminal cell
// area and hands the raster to go-termimg for protocol encoding.
type Backend struct {
	render.Base

	proto        terminal.GraphicsProtocol
	cellW, cellH int

	last *image.NRGBA // most recent composed frame, kept for export
}

// New creates a pixel backend covering width x height terminal cells.
// cellW and cellH are the per-cell pixel dimensions reported by the
// terminal; zero values fall back to common defaults.
func New(width, height int, scheme theme.Scheme, proto terminal.GraphicsProtocol, cellW, cellH int) *Backend {
	if cellW <= 0 {
		cellW = terminal.DefaultCellW
	}
	if cellH <= 0 {
		cellH = terminal.DefaultCellH
	}
	return &Backend{
		Base:  render.NewBase(width, height, scheme),
		proto: proto,
		cellW: cellW,
		cellH: cellH,
	}
}

// Init verifies the terminal can display raster images at a usable size.
func (b *Backend) Init() error {
	if b.proto == terminal.ProtocolNone {
		return fmt.Errorf("pixel backend: %w", render.ErrNoGraphics)
	}
	if b.Width < 10 || b.Height < 3 {
		return fmt.Errorf("pixel backend: surface %dx%d cells is too small", b.Width, b.Height)
	}
	return nil
}

// Render composes one frame and returns the protocol escape payload.
func (b *Backend) Render(frame render.Frame) (string, error) {
	b.BeginFrame()
	defer b.EndFrame()

	img := b.rasterize(frame)
	b.last = img

	return b.emit(img)
}

// Protocol returns the graphics protocol the backend encodes with.
func (b *Backend) Protocol() terminal.GraphicsProtocol { return b.proto }

// LastFrame returns the most recently rasterized frame, or nil before the
// first Render. The returned image is reused across frames.
func (b *Backend) LastFrame() *image.NRGBA { return b.last }

// Close releases the retained raster.
func (b *Backend) Close() error {
	b.last = nil
	return nil
}

// rasterize draws the frame at supersampled resolution, downscales to the
// terminal pixel area, then overlays crisp axis labels at final
// resolution.
func (b *Backend) rasterize(frame render.Frame) *image.NRGBA {
	pw := b.Width * b.cellW
	ph := b.Height * b.cellH

	canvas := newRaster(pw*superSample, ph*superSample, b.Scheme)

	if frame.ShowGrid {
		b.drawGrid(canvas)
	}
	for _, tr := range b.BuildTraces(frame) {
		b.strokeTrace(canvas, frame.Viewport, tr)
		b.CountDraw(len(tr.Pts))
	}

	img := downscale(canvas.img, pw, ph)
	drawAxisLabels(img, frame.Viewport, b.Scheme)
	return img
}

// drawGrid strokes the fixed reference grid in the scheme's grid color.
func (b *Backend) drawGrid(c *raster) {
	w := c.img.Rect.Dx()
	h := c.img.Rect.Dy()
	col := gridColor(b.Scheme)

	for i := 1; i <= render.GridRows; i++ {
		y := i * h / (render.GridRows + 1)
		c.dottedHLine(y, w, col)
		b.CountDraw(2)
	}
	for i := 1; i <= render.GridCols; i++ {
		x := i * w / (render.GridCols + 1)
		c.dottedVLine(x, h, col)
		b.CountDraw(2)
	}
}

// strokeTrace draws one polyline with the signal's width and dash style.
func (b *Backend) strokeTrace(c *raster, vp render.Viewport, tr render.Trace) {
	w := c.img.Rect.Dx()
	h := c.img.Rect.Dy()

	col := blendOver(tr.Color, b.Scheme)
	thickness := int(tr.Signal.LineWidth*superSample + 0.5)
	if thickness < 1 {
		thickness = 1
	}

	walker := dashWalker{pattern: dashPatterns[string(tr.Signal.LineStyle)]}

	var prevX, prevY int
	for i, p := range tr.Pts {
		sx, sy := vp.ToScreen(p.X, p.Y, float64(w-1), float64(h-1))
		x := int(sx + 0.5)
		y := int(sy + 0.5)

		if i > 0 {
			c.strokeSegment(prevX, prevY, x, y, col, thickness, &walker)
		} else if walker.on() {
			c.stamp(x, y, col, thickness)
		}
		prevX, prevY = x, y
	}
}

// emit encodes the raster with go-termimg for the active protocol.
func (b *Backend) emit(img image.Image) (string, error) {
	var proto termimg.Protocol
	switch b.proto {
	case terminal.ProtocolKitty:
		proto = termimg.Kitty
	case terminal.ProtocolITerm2:
		proto = termimg.ITerm2
	case terminal.ProtocolSixel:
		proto = termimg.Sixel
	default:
		return "", fmt.Errorf("pixel backend: %w", render.ErrNoGraphics)
	}

	ti := termimg.New(img)
	if ti == nil {
		return "", fmt.Errorf("pixel backend: image wrapper creation failed")
	}
	ti.Protocol(proto).Size(b.Width, b.Height).Scale(termimg.ScaleFit)

	out, err := ti.Render()
	if err != nil {
		return "", fmt.Errorf("pixel backend: %s encode: %w", b.proto, err)
	}
	return out, nil
}
