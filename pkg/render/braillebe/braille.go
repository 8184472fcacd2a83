// Package braillebe is the immediate cell-mode chart backend. It rasterizes
// traces into a Unicode Braille dot grid (2x4 dots per terminal cell) and
// colors cells with ANSI escapes, degrading through termenv when the
// terminal lacks true color. It is the fallback when the pixel backend
// cannot initialize.
package braillebe

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/pulse-scope/pkg/render"
	"gitlab.com/tinyland/lab/pulse-scope/pkg/theme"
)

// Dash patterns in dot units, by line style. Solid has no pattern.
var dashPatterns = map[string][]int{
	"dashed": {10, 5},
	"dotted": {2, 3},
}

// Backend renders frames as Braille text. It implements render.Renderer.
type Backend struct {
	render.Base
	profile termenv.Profile
}

// New creates a braille backend at the given cell dimensions. The profile
// controls color degradation; pass termenv.TrueColor when unknown.
func New(width, height int, scheme theme.Scheme, profile termenv.Profile) *Backend {
	return &Backend{
		Base:    render.NewBase(width, height, scheme),
		profile: profile,
	}
}

// Init validates the drawing surface. The braille backend has no external
// resource to acquire; it only refuses surfaces too small to chart on.
func (b *Backend) Init() error {
	if b.Width < 10 || b.Height < 3 {
		return fmt.Errorf("braille: surface %dx%d too small", b.Width, b.Height)
	}
	return nil
}

// Close releases nothing; the backend is stateless between frames.
func (b *Backend) Close() error { return nil }

// Render draws one frame into a newline-separated string of styled cells.
func (b *Backend) Render(frame render.Frame) (string, error) {
	b.BeginFrame()
	defer b.EndFrame()

	cells := newCellGrid(b.Width, b.Height)

	if frame.ShowGrid {
		b.drawGrid(cells)
	}

	for _, tr := range b.BuildTraces(frame) {
		b.strokeTrace(cells, frame.Viewport, tr)
		b.CountDraw(len(tr.Pts))
	}

	return b.flatten(cells), nil
}

// cellGrid holds the braille dot bitmask and stroke color per cell.
type cellGrid struct {
	w, h  int
	dots  [][]uint8
	color [][]string // hex color of the last dot set; "" = unset
}

func newCellGrid(w, h int) *cellGrid {
	g := &cellGrid{w: w, h: h}
	g.dots = make([][]uint8, h)
	g.color = make([][]string, h)
	for r := 0; r < h; r++ {
		g.dots[r] = make([]uint8, w)
		g.color[r] = make([]string, w)
	}
	return g
}

// setDot marks one dot in dot-space (x in [0,2w), y in [0,4h)).
func (g *cellGrid) setDot(x, y int, hex string) {
	if x < 0 || y < 0 || x >= g.w*2 || y >= g.h*4 {
		return
	}
	cellCol := x / 2
	cellRow := y / 4
	g.dots[cellRow][cellCol] |= brailleBit(x%2, y%4)
	g.color[cellRow][cellCol] = hex
}

// drawGrid strokes the fixed chart grid: GridRows horizontal and GridCols
// vertical lines, in the scheme's grid color.
func (b *Backend) drawGrid(g *cellGrid) {
	dotsW := g.w * 2
	dotsH := g.h * 4
	gridColor := b.Scheme.Grid
	if gridColor == "" {
		gridColor = "#3e3e3e"
	}

	for i := 0; i < render.GridRows; i++ {
		y := (i + 1) * dotsH / (render.GridRows + 1)
		for x := 0; x < dotsW; x += 2 {
			g.setDot(x, y, gridColor)
		}
		b.CountDraw(2)
	}
	for i := 0; i < render.GridCols; i++ {
		x := (i + 1) * dotsW / (render.GridCols + 1)
		for y := 0; y < dotsH; y += 2 {
			g.setDot(x, y, gridColor)
		}
		b.CountDraw(2)
	}
}

// strokeTrace traces one connected path through the downsampled points,
// honoring the signal's dash pattern and approximate line width.
func (b *Backend) strokeTrace(g *cellGrid, vp render.Viewport, tr render.Trace) {
	dotsW := float64(g.w * 2)
	dotsH := float64(g.h * 4)

	hex := b.blendToBackground(tr.Color).Hex()
	pattern := dashPatterns[string(tr.Signal.LineStyle)]

	// Extra parallel dot rows approximate line width. Braille has no
	// sub-dot width, so anything at or above 3 gets a doubled stroke.
	thick := tr.Signal.LineWidth >= 3

	walker := dashWalker{pattern: pattern}

	var prevX, prevY int
	for i, p := range tr.Pts {
		sx, sy := vp.ToScreen(p.X, p.Y, dotsW-1, dotsH-1)
		x := int(sx + 0.5)
		y := int(sy + 0.5)

		if i > 0 {
			strokeSegment(g, prevX, prevY, x, y, hex, &walker, thick)
		} else if walker.on() {
			g.setDot(x, y, hex)
			if thick {
				g.setDot(x, y+1, hex)
			}
		}
		prevX, prevY = x, y
	}
}

// strokeSegment draws one Bresenham segment in dot space, advancing the
// dash walker per dot.
func strokeSegment(g *cellGrid, x0, y0, x1, y1 int, hex string, w *dashWalker, thick bool) {
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
			g.setDot(x, y, hex)
			if thick {
				g.setDot(x, y+1, hex)
			}
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

// dashWalker tracks position along a dash pattern measured in dots. An
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

// blendToBackground composites the trace color over the scheme background
// by its alpha; terminal cells cannot blend, so opacity becomes a tint.
func (b *Backend) blendToBackground(c render.RGBA) render.RGBA {
	bg, err := render.ParseColor(b.Scheme.Background)
	if err != nil {
		bg = render.RGBA{0, 0, 0, 1}
	}
	a := c[3]
	return render.RGBA{
		c[0]*a + bg[0]*(1-a),
		c[1]*a + bg[1]*(1-a),
		c[2]*a + bg[2]*(1-a),
		1,
	}
}

// flatten builds the final string: braille runes with color escapes,
// trailing whitespace trimmed per line.
func (b *Backend) flatten(g *cellGrid) string {
	var sb strings.Builder
	sb.Grow(g.w * g.h * 4)

	for r := 0; r < g.h; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		line := b.renderRow(g, r)
		sb.WriteString(strings.TrimRight(line, " \t"))
	}
	return sb.String()
}

func (b *Backend) renderRow(g *cellGrid, r int) string {
	var sb strings.Builder
	current := ""

	for c := 0; c < g.w; c++ {
		mask := g.dots[r][c]
		if mask == 0 {
			if current != "" {
				sb.WriteString(resetSeq)
				current = ""
			}
			sb.WriteByte(' ')
			continue
		}

		hex := g.color[r][c]
		if hex != current {
			if current != "" {
				sb.WriteString(resetSeq)
			}
			sb.WriteString(b.colorSeq(hex))
			current = hex
		}
		sb.WriteRune(rune(0x2800 + int(mask)))
	}
	if current != "" {
		sb.WriteString(resetSeq)
	}
	return sb.String()
}

const resetSeq = "\x1b[0m"

// colorSeq builds the foreground escape for hex, degraded to the detected
// terminal profile.
func (b *Backend) colorSeq(hex string) string {
	if b.profile == termenv.Ascii {
		return ""
	}
	c := b.profile.Color(hex)
	if c == nil {
		return ""
	}
	return "\x1b[" + c.Sequence(false) + "m"
}

// brailleBit returns the bitmask for a dot at offset (offX, offY) within a
// Braille cell. offX is 0 (left) or 1 (right), offY is 0..3 top to bottom.
//
// Unicode Braille dot numbering:
//
//	1 4      bit: 0x01  0x08
//	2 5           0x02  0x10
//	3 6           0x04  0x20
//	7 8           0x40  0x80
func brailleBit(offX, offY int) uint8 {
	leftBits := [4]uint8{0x01, 0x02, 0x04, 0x40}
	rightBits := [4]uint8{0x08, 0x10, 0x20, 0x80}
	if offY < 0 || offY > 3 {
		return 0
	}
	if offX == 0 {
		return leftBits[offY]
	}
	return rightBits[offY]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
