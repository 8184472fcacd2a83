package source

import (
	"context"
	"errors"
	"testing"

	"gitlab.com/tinyland/lab/pulse-scope/pkg/parse"
)

func TestMockEvaluateDeterministic(t *testing.T) {
	a := NewMock(42)
	b := NewMock(42)

	ctx := context.Background()
	for i := 0; i < 20; i++ {
		va, err := a.Evaluate(ctx, "noise")
		if err != nil {
			t.Fatalf("evaluate failed: %v", err)
		}
		vb, _ := b.Evaluate(ctx, "noise")
		if va != vb {
			t.Fatalf("tick %d: same seed diverged: %q vs %q", i, va, vb)
		}
	}
}

func TestMockEvaluateUnknown(t *testing.T) {
	m := NewMock(1)
	_, err := m.Evaluate(context.Background(), "warp.core_temp")
	if !errors.Is(err, ErrUnknownExpression) {
		t.Fatalf("expected ErrUnknownExpression, got %v", err)
	}
}

func TestMockOutputsParse(t *testing.T) {
	m := NewMock(7)
	ctx := context.Background()

	// Every non-flaky waveform must produce parser-accepted text.
	for _, expr := range []string{"sine", "cosine", "saw", "square", "ramp", "noise", "step"} {
		for i := 0; i < 10; i++ {
			raw, err := m.Evaluate(ctx, expr)
			if err != nil {
				t.Fatalf("%s: evaluate failed: %v", expr, err)
			}
			if _, ok := parse.Sample(raw); !ok {
				t.Fatalf("%s: unparseable sample %q", expr, raw)
			}
		}
	}
}

func TestMockFlakyEmitsUnavailable(t *testing.T) {
	m := NewMock(1)
	ctx := context.Background()

	unparseable := 0
	for i := 0; i < 10; i++ {
		raw, err := m.Evaluate(ctx, "flaky")
		if err != nil {
			t.Fatalf("flaky should not error: %v", err)
		}
		if _, ok := parse.Sample(raw); !ok {
			unparseable++
		}
	}
	if unparseable != 2 {
		t.Fatalf("expected 2 unavailable samples in 10 ticks, got %d", unparseable)
	}
}

func TestMockCachedSample(t *testing.T) {
	m := NewMock(1)

	if _, ok := m.CachedSample("sine"); ok {
		t.Fatal("cache hit before any evaluation")
	}
	raw, _ := m.Evaluate(context.Background(), "sine")
	cached, ok := m.CachedSample("sine")
	if !ok || cached != raw {
		t.Fatalf("cached %q, want %q", cached, raw)
	}
}

func TestMockHistoricalData(t *testing.T) {
	m := NewMock(1)
	pts, err := m.HistoricalData(context.Background(), "sine")
	if err != nil {
		t.Fatalf("historical failed: %v", err)
	}
	if len(pts) != 300 {
		t.Fatalf("expected 300 points, got %d", len(pts))
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].TimestampMs <= pts[i-1].TimestampMs {
			t.Fatal("timestamps not ascending")
		}
	}

	if _, err := m.HistoricalData(context.Background(), "noise"); err == nil {
		t.Fatal("expected error for waveform without history")
	}
}

func TestSystemCacheTTL(t *testing.T) {
	s := NewSystem(0)
	if _, ok := s.CachedSample("cpu.percent"); ok {
		t.Fatal("cache hit before any evaluation")
	}
}

func TestSystemUnknownExpression(t *testing.T) {
	s := NewSystem(0)
	_, err := s.Evaluate(context.Background(), "gpu.percent")
	if !errors.Is(err, ErrUnknownExpression) {
		t.Fatalf("expected ErrUnknownExpression, got %v", err)
	}
}
