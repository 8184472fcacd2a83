package render

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/pulse-scope/pkg/store"
	"gitlab.com/tinyland/lab/pulse-scope/pkg/theme"
)

// ---------- transforms ----------

func TestToScreenCorners(t *testing.T) {
	vp := Viewport{XMin: 0, XMax: 100, YMin: 0, YMax: 10}

	sx, sy := vp.ToScreen(0, 0, 200, 50)
	if sx != 0 || sy != 50 {
		t.Errorf("origin -> (%v,%v), want (0,50)", sx, sy)
	}
	sx, sy = vp.ToScreen(100, 10, 200, 50)
	if sx != 200 || sy != 0 {
		t.Errorf("max corner -> (%v,%v), want (200,0)", sx, sy)
	}
	sx, sy = vp.ToScreen(50, 5, 200, 50)
	if sx != 100 || sy != 25 {
		t.Errorf("center -> (%v,%v), want (100,25)", sx, sy)
	}
}

func TestScreenRoundTrip(t *testing.T) {
	vp := Viewport{XMin: -20, XMax: 80, YMin: 1.5, YMax: 9.25}

	for _, p := range []Point{{0, 2}, {-20, 1.5}, {80, 9.25}, {33.3, 7.77}} {
		sx, sy := vp.ToScreen(p.X, p.Y, 640, 480)
		x, y := vp.FromScreen(sx, sy, 640, 480)
		if math.Abs(x-p.X) > 1e-9 || math.Abs(y-p.Y) > 1e-9 {
			t.Errorf("round trip (%v,%v) -> (%v,%v)", p.X, p.Y, x, y)
		}
	}
}

// ---------- colors ----------

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    RGBA
		wantErr bool
	}{
		{"#ff0000", RGBA{1, 0, 0, 1}, false},
		{"#64B5F6", RGBA{0x64 / 255.0, 0xB5 / 255.0, 0xF6 / 255.0, 1}, false},
		{"rgb(255, 0, 0)", RGBA{1, 0, 0, 1}, false},
		{"rgba(0, 255, 0, 0.5)", RGBA{0, 1, 0, 0.5}, false},
		{"rgba(0,0,255,2)", RGBA{0, 0, 1, 1}, false}, // alpha clamped
		{"#fff", RGBA{}, true},
		{"blue", RGBA{}, true},
		{"rgb(1,2)", RGBA{}, true},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) err = %v", tt.in, err)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWithOpacity(t *testing.T) {
	c, _ := ParseColor("rgba(0, 255, 0, 0.5)")
	c = c.WithOpacity(0.5)
	if c[3] != 0.25 {
		t.Errorf("alpha = %v, want 0.25", c[3])
	}
}

// ---------- auto-scale ----------

func snapWith(values ...float64) *store.Snapshot {
	snap := &store.Snapshot{Signal: store.Signal{Enabled: true}}
	for i, v := range values {
		snap.TimesMs = append(snap.TimesMs, int64(i*100))
		snap.Values = append(snap.Values, v)
	}
	return snap
}

func TestAutoScaleEmpty(t *testing.T) {
	lo, hi := AutoScale(nil, 0, 1000)
	if lo != 0 || hi != 1 {
		t.Errorf("empty auto-scale = [%v,%v], want [0,1]", lo, hi)
	}
}

func TestAutoScalePadding(t *testing.T) {
	lo, hi := AutoScale([]*store.Snapshot{snapWith(2, 4, 6)}, 0, 1000)
	if math.Abs(lo-1.6) > 1e-12 || math.Abs(hi-6.4) > 1e-12 {
		t.Errorf("auto-scale = [%v,%v], want [1.6,6.4]", lo, hi)
	}
}

func TestAutoScaleIgnoresDisabledAndOutOfRange(t *testing.T) {
	disabled := snapWith(1000)
	disabled.Signal.Enabled = false

	visible := snapWith(2, 4, 6)
	// A wild value outside the viewport X span must not affect the range.
	visible.TimesMs = append(visible.TimesMs, 99_999)
	visible.Values = append(visible.Values, 1e9)

	lo, hi := AutoScale([]*store.Snapshot{disabled, visible}, 0, 1000)
	if math.Abs(lo-1.6) > 1e-12 || math.Abs(hi-6.4) > 1e-12 {
		t.Errorf("auto-scale = [%v,%v], want [1.6,6.4]", lo, hi)
	}
}

func TestAutoScaleFlatLine(t *testing.T) {
	lo, hi := AutoScale([]*store.Snapshot{snapWith(5, 5, 5)}, 0, 1000)
	if !(lo < 5 && hi > 5) {
		t.Errorf("flat-line auto-scale = [%v,%v], want a window around 5", lo, hi)
	}
	lo, hi = AutoScale([]*store.Snapshot{snapWith(0, 0)}, 0, 1000)
	if lo != 0 || hi != 1 {
		t.Errorf("flat-zero auto-scale = [%v,%v], want [0,1]", lo, hi)
	}
}

// ---------- LTTB ----------

func rampPoints(n int) []Point {
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{X: float64(i), Y: math.Sin(float64(i) / 7)}
	}
	return pts
}

func TestDownsampleLength(t *testing.T) {
	for _, tc := range []struct{ n, budget int }{
		{10, 20}, {100, 100}, {101, 100}, {5000, 2000}, {50, 3}, {3, 3},
	} {
		got := Downsample(rampPoints(tc.n), tc.budget)
		want := tc.n
		if tc.budget < want {
			want = tc.budget
		}
		if len(got) != want {
			t.Errorf("n=%d budget=%d: len=%d, want %d", tc.n, tc.budget, len(got), want)
		}
	}
}

func TestDownsampleKeepsEndpoints(t *testing.T) {
	pts := rampPoints(777)
	got := Downsample(pts, 50)
	if got[0] != pts[0] {
		t.Errorf("first point dropped: %v", got[0])
	}
	if got[len(got)-1] != pts[len(pts)-1] {
		t.Errorf("last point dropped: %v", got[len(got)-1])
	}
}

func TestDownsampleDeterministic(t *testing.T) {
	pts := rampPoints(4321)
	a := Downsample(pts, 500)
	b := Downsample(pts, 500)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical input produced different output")
	}
}

func TestDownsamplePreservesOrder(t *testing.T) {
	got := Downsample(rampPoints(10_000), 1000)
	for i := 1; i < len(got); i++ {
		if got[i].X <= got[i-1].X {
			t.Fatalf("output not X-ordered at %d: %v <= %v", i, got[i].X, got[i-1].X)
		}
	}
}

func TestClipToViewport(t *testing.T) {
	times := []int64{0, 100, 200, 300, 400}
	values := []float64{1, 2, 3, 4, 5}

	pts := ClipToViewport(times, values, 100, 300)
	if len(pts) != 3 || pts[0].X != 100 || pts[2].Y != 4 {
		t.Errorf("unexpected clip result: %v", pts)
	}
}

// ---------- metrics ----------

func TestMetricsRollingWindow(t *testing.T) {
	var tr metricsTracker
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// 10 frames of 20ms each over 200ms: window not yet closed.
	for i := 0; i < 10; i++ {
		tr.BeginFrame(now)
		tr.CountDraw(100)
		now = now.Add(20 * time.Millisecond)
		tr.EndFrame(now)
	}
	m := tr.Snapshot()
	if m.FPS != 0 {
		t.Fatalf("FPS published before the 1s window closed: %v", m.FPS)
	}
	if m.DrawCalls != 1 || m.VertexCount != 100 {
		t.Fatalf("per-frame counters = %d/%d, want 1/100", m.DrawCalls, m.VertexCount)
	}

	// Keep rendering past the 1-second mark.
	for i := 0; i < 41; i++ {
		tr.BeginFrame(now)
		tr.CountDraw(100)
		now = now.Add(20 * time.Millisecond)
		tr.EndFrame(now)
	}
	m = tr.Snapshot()
	if math.Abs(m.FrameTimeMs-20) > 0.5 {
		t.Errorf("frame time = %vms, want ~20", m.FrameTimeMs)
	}
	if math.Abs(m.FPS-50) > 2 {
		t.Errorf("fps = %v, want ~50", m.FPS)
	}
}

func TestMetricsCountersResetPerFrame(t *testing.T) {
	var tr metricsTracker
	now := time.Now()

	tr.BeginFrame(now)
	tr.CountDraw(10)
	tr.CountDraw(20)
	tr.EndFrame(now.Add(time.Millisecond))

	tr.BeginFrame(now.Add(2 * time.Millisecond))
	tr.CountDraw(5)
	tr.EndFrame(now.Add(3 * time.Millisecond))

	m := tr.Snapshot()
	if m.DrawCalls != 1 || m.VertexCount != 5 {
		t.Errorf("counters = %d/%d, want 1/5 (not accumulated across frames)", m.DrawCalls, m.VertexCount)
	}
}

// ---------- selection state machine ----------

type stubBackend struct {
	initErr   error
	initCalls int
}

func (s *stubBackend) Init() error                 { s.initCalls++; return s.initErr }
func (s *stubBackend) Render(Frame) (string, error) { return "", nil }
func (s *stubBackend) Resize(int, int)             {}
func (s *stubBackend) Metrics() Metrics            { return Metrics{} }
func (s *stubBackend) Close() error                { return nil }

func TestSelectorPrefersConfiguredBackend(t *testing.T) {
	pixel := &stubBackend{}
	braille := &stubBackend{}
	sel := NewSelector()

	if err := sel.Activate("pixel", pixel, "braille", braille); err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	if sel.State() != StateReady || sel.Active() != Renderer(pixel) || sel.FellBack() {
		t.Fatalf("unexpected selector state: %v active=%s", sel.State(), sel.ActiveName())
	}
	if braille.initCalls != 0 {
		t.Fatal("fallback initialized unnecessarily")
	}
}

func TestSelectorFallsBackOnPixelFailure(t *testing.T) {
	pixel := &stubBackend{initErr: ErrNoGraphics}
	braille := &stubBackend{}
	sel := NewSelector()

	if err := sel.Activate("pixel", pixel, "braille", braille); err != nil {
		t.Fatalf("fallback should succeed, got %v", err)
	}
	if sel.State() != StateReady || sel.ActiveName() != "braille" || !sel.FellBack() {
		t.Fatalf("selector did not fall back: %v %q", sel.State(), sel.ActiveName())
	}
}

func TestSelectorFailsWhenAllFail(t *testing.T) {
	pixel := &stubBackend{initErr: ErrNoGraphics}
	braille := &stubBackend{initErr: errors.New("no tty")}
	sel := NewSelector()

	err := sel.Activate("pixel", pixel, "braille", braille)
	if !errors.Is(err, ErrAllBackendsFailed) {
		t.Fatalf("expected ErrAllBackendsFailed, got %v", err)
	}
	if sel.State() != StateFailed {
		t.Fatalf("state = %v, want failed", sel.State())
	}
}

func TestSelectorNoFallbackFromBraille(t *testing.T) {
	braille := &stubBackend{initErr: errors.New("no tty")}
	sel := NewSelector()

	err := sel.Activate("braille", braille, "", nil)
	if !errors.Is(err, ErrAllBackendsFailed) {
		t.Fatalf("expected ErrAllBackendsFailed, got %v", err)
	}
}

// ---------- shared pipeline ----------

func TestBuildTracesSkipsDisabledAndEmpty(t *testing.T) {
	b := NewBase(80, 24, theme.Get("default"))

	enabled := snapWith(1, 2, 3)
	enabled.Signal.Color = "#ff0000"
	enabled.Signal.Opacity = 0.5

	disabled := snapWith(9, 9)
	disabled.Signal.Enabled = false

	empty := &store.Snapshot{Signal: store.Signal{Enabled: true, Color: "#00ff00"}}

	frame := Frame{
		Signals:  []*store.Snapshot{enabled, disabled, empty},
		Viewport: Viewport{XMin: 0, XMax: 1000, YMin: 0, YMax: 10},
	}

	traces := b.BuildTraces(frame)
	if len(traces) != 1 {
		t.Fatalf("expected 1 trace, got %d", len(traces))
	}
	if traces[0].Color != (RGBA{1, 0, 0, 0.5}) {
		t.Errorf("trace color = %v", traces[0].Color)
	}
	if len(traces[0].Pts) != 3 {
		t.Errorf("trace has %d points", len(traces[0].Pts))
	}
}
