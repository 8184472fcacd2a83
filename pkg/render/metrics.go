package render

import (
	"sync"
	"time"
)

// Metrics is a point-in-time copy of renderer performance counters. FPS and
// FrameTimeMs are recomputed once per rolling one-second window, not per
// frame; DrawCalls and VertexCount reflect the most recently completed
// frame.
type Metrics struct {
	FPS         float64
	FrameTimeMs float64
	DrawCalls   int
	VertexCount int
}

// metricsTracker accumulates per-frame counters and folds them into the
// published Metrics once per second. Backends call BeginFrame at the top of
// Render, CountDraw per draw, and EndFrame when the frame is done.
type metricsTracker struct {
	mu sync.Mutex

	windowStart time.Time
	frames      int
	accumMs     float64

	// Per-frame counters, reset by BeginFrame.
	frameStart time.Time
	drawCalls  int
	vertices   int

	published Metrics
}

func (t *metricsTracker) BeginFrame(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.windowStart.IsZero() {
		t.windowStart = now
	}
	t.frameStart = now
	t.drawCalls = 0
	t.vertices = 0
}

func (t *metricsTracker) CountDraw(vertices int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.drawCalls++
	t.vertices += vertices
}

func (t *metricsTracker) EndFrame(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.frames++
	t.accumMs += float64(now.Sub(t.frameStart).Microseconds()) / 1000
	t.published.DrawCalls = t.drawCalls
	t.published.VertexCount = t.vertices

	if elapsed := now.Sub(t.windowStart); elapsed >= time.Second && t.frames > 0 {
		avg := t.accumMs / float64(t.frames)
		t.published.FrameTimeMs = avg
		if avg > 0 {
			t.published.FPS = 1000 / avg
		} else {
			t.published.FPS = 0
		}
		t.windowStart = now
		t.frames = 0
		t.accumMs = 0
	}
}

// Snapshot returns a copy of the published metrics.
func (t *metricsTracker) Snapshot() Metrics {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.published
}
