// Package render holds the logic shared by both chart backends: viewport
// transforms, color parsing, auto-scaling, LTTB downsampling, performance
// accounting, and the backend selection state machine. The concrete
// backends live in the pixelbe and braillebe subpackages.
package render

import (
	"errors"
	"time"

	"gitlab.com/tinyland/lab/pulse-scope/pkg/store"
	"gitlab.com/tinyland/lab/pulse-scope/pkg/theme"
)

// ErrNoGraphics is returned by backend Init when the terminal offers no
// usable graphics protocol. The selector falls back to the braille backend
// on this (or any other) pixel init failure.
var ErrNoGraphics = errors.New("render: no terminal graphics protocol available")

// Frame describes one render pass. Signals are store snapshots taken this
// frame; the backend never touches live buffers.
type Frame struct {
	Signals  []*store.Snapshot
	Viewport Viewport
	ShowGrid bool

	// Budget is the per-signal downsampling vertex budget. Zero means
	// DefaultBudget.
	Budget int
}

// Grid line counts shared by both backends so their output stays visually
// equivalent.
const (
	GridRows = 5
	GridCols = 10
)

// Renderer is the contract both backends satisfy.
type Renderer interface {
	// Init acquires backend resources. It must fail with a distinguishable
	// error when the environment cannot support the backend.
	Init() error

	// Render draws one frame and returns the terminal payload to display.
	Render(frame Frame) (string, error)

	// Resize updates the drawing surface dimensions (terminal cells).
	// Buffered signal data is unaffected.
	Resize(width, height int)

	// Metrics returns a copy of the current performance counters.
	Metrics() Metrics

	// Close releases backend resources.
	Close() error
}

// Trace is one signal prepared for drawing: clipped to the viewport,
// downsampled, and with its color resolved.
type Trace struct {
	Signal store.Signal
	Pts    []Point
	Color  RGBA
}

// Base carries the state and shared per-frame pipeline common to both
// backends. Concrete backends embed it.
type Base struct {
	Width   int
	Height  int
	Scheme  theme.Scheme
	tracker metricsTracker
	clock   func() time.Time
}

// NewBase creates a Base at the given cell dimensions.
func NewBase(width, height int, scheme theme.Scheme) Base {
	return Base{Width: width, Height: height, Scheme: scheme, clock: time.Now}
}

// SetClock overrides the metrics clock, for tests.
func (b *Base) SetClock(now func() time.Time) { b.clock = now }

// SetScheme swaps the color scheme used for subsequent frames.
func (b *Base) SetScheme(s theme.Scheme) { b.Scheme = s }

// Resize updates the surface cell dimensions.
func (b *Base) Resize(width, height int) {
	if width > 0 {
		b.Width = width
	}
	if height > 0 {
		b.Height = height
	}
}

// Metrics returns a copy of the performance counters.
func (b *Base) Metrics() Metrics { return b.tracker.Snapshot() }

// BeginFrame starts performance accounting for one render pass.
func (b *Base) BeginFrame() { b.tracker.BeginFrame(b.clock()) }

// EndFrame completes performance accounting for the pass.
func (b *Base) EndFrame() { b.tracker.EndFrame(b.clock()) }

// CountDraw records one draw call with the given vertex count.
func (b *Base) CountDraw(vertices int) { b.tracker.CountDraw(vertices) }

// BuildTraces runs the shared geometry pipeline: for every enabled signal
// with samples, clip to the viewport X span, downsample with LTTB, and
// resolve the stroke color with the signal's opacity applied.
func (b *Base) BuildTraces(frame Frame) []Trace {
	budget := frame.Budget
	if budget <= 0 {
		budget = DefaultBudget
	}

	traces := make([]Trace, 0, len(frame.Signals))
	for _, snap := range frame.Signals {
		if !snap.Signal.Enabled || snap.Len() == 0 {
			continue
		}

		pts := ClipToViewport(snap.TimesMs, snap.Values, frame.Viewport.XMin, frame.Viewport.XMax)
		if len(pts) == 0 {
			continue
		}
		pts = Downsample(pts, budget)

		c, err := ParseColor(snap.Signal.Color)
		if err != nil {
			c = RGBA{1, 1, 1, 1}
		}
		traces = append(traces, Trace{
			Signal: snap.Signal,
			Pts:    pts,
			Color:  c.WithOpacity(snap.Signal.Opacity),
		})
	}
	return traces
}
