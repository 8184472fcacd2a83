package acquire

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/pulse-scope/pkg/source"
	"gitlab.com/tinyland/lab/pulse-scope/pkg/store"
	"gitlab.com/tinyland/lab/pulse-scope/pkg/theme"
)

// fakeSampler returns scripted raw values per expression.
type fakeSampler struct {
	mu     sync.Mutex
	values map[string]string
	errs   map[string]error
	calls  map[string]int
}

func newFakeSampler() *fakeSampler {
	return &fakeSampler{
		values: make(map[string]string),
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

func (f *fakeSampler) Evaluate(_ context.Context, expr string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[expr]++
	if err := f.errs[expr]; err != nil {
		return "", err
	}
	if v, ok := f.values[expr]; ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", source.ErrUnknownExpression, expr)
}

func (f *fakeSampler) callCount(expr string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[expr]
}

func newTestLoop(src source.Sampler) (*Loop, *store.Store, *ManualClock) {
	st := store.New(store.Config{TimeSpanMs: 60_000, MaxPoints: 1000}, theme.Get("default"))
	clock := NewManualClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	return New(src, st, clock, nil), st, clock
}

func TestTickAppendsEnabledSignals(t *testing.T) {
	src := newFakeSampler()
	src.values["a"] = "1.5"
	src.values["b"] = "0x10"

	l, st, clock := newTestLoop(src)
	st.AddSignal("a", "A")
	st.AddSignal("b", "B")

	l.Start(100 * time.Millisecond)
	defer l.Stop()
	clock.Advance(100 * time.Millisecond)
	l.TickOnce(context.Background(), l.Gen())

	snapA, _ := st.Samples("a")
	snapB, _ := st.Samples("b")
	if snapA.Len() == 0 || snapB.Len() == 0 {
		t.Fatal("tick appended nothing")
	}
	if snapA.Values[0] != 1.5 {
		t.Errorf("a value = %v", snapA.Values[0])
	}
	if snapB.Values[0] != 16 {
		t.Errorf("b value = %v (hex not parsed)", snapB.Values[0])
	}
	if snapA.TimesMs[0] != 100 {
		t.Errorf("elapsed = %dms, want 100", snapA.TimesMs[0])
	}
}

func TestTickSkipsDisabledSignals(t *testing.T) {
	src := newFakeSampler()
	src.values["a"] = "1"

	l, st, _ := newTestLoop(src)
	st.AddSignal("a", "A")
	off := false
	st.UpdateSignal("a", store.SignalPatch{Enabled: &off})

	l.Start(time.Second)
	defer l.Stop()
	l.TickOnce(context.Background(), l.Gen())

	if src.callCount("a") != 0 {
		t.Fatal("disabled signal was evaluated")
	}
}

func TestOneFailureDoesNotAffectOthers(t *testing.T) {
	src := newFakeSampler()
	src.errs["bad"] = errors.New("probe exploded")
	src.values["good"] = "7"

	l, st, _ := newTestLoop(src)
	st.AddSignal("bad", "")
	st.AddSignal("good", "")

	l.Start(time.Second)
	defer l.Stop()
	l.TickOnce(context.Background(), l.Gen())

	snap, _ := st.Samples("good")
	if snap.Len() != 1 {
		t.Fatal("healthy signal lost its sample to a sibling failure")
	}
	snap, _ = st.Samples("bad")
	if snap.Len() != 0 {
		t.Fatal("failed signal has samples")
	}
}

func TestUnparseableSampleDropped(t *testing.T) {
	src := newFakeSampler()
	src.values["a"] = "not available"

	l, st, _ := newTestLoop(src)
	st.AddSignal("a", "")

	l.Start(time.Second)
	defer l.Stop()
	l.TickOnce(context.Background(), l.Gen())

	snap, _ := st.Samples("a")
	if snap.Len() != 0 {
		t.Fatal("unparseable sample was appended")
	}
}

func TestStartIsIdempotentAndNeedsSignals(t *testing.T) {
	src := newFakeSampler()
	l, st, _ := newTestLoop(src)

	l.Start(time.Second)
	if l.Recording() {
		t.Fatal("loop started with zero signals")
	}

	st.AddSignal("a", "")
	l.Start(time.Second)
	if !l.Recording() {
		t.Fatal("loop did not start")
	}
	l.Start(time.Second) // no-op
	l.Stop()
	if l.Recording() {
		t.Fatal("loop still recording after Stop")
	}
	l.Stop() // idempotent
}

func TestLateResultDiscardedAfterStop(t *testing.T) {
	src := newFakeSampler()
	src.values["a"] = "1"

	l, st, _ := newTestLoop(src)
	st.AddSignal("a", "")

	l.Start(time.Second)
	gen := l.Gen()
	l.Stop()

	// A tick captured before Stop finishes only after it: its result must
	// be discarded.
	l.TickOnce(context.Background(), gen)

	snap, _ := st.Samples("a")
	if snap.Len() != 0 {
		t.Fatal("stale tick result was applied after Stop")
	}
}

func TestSetIntervalResetsRunningTicker(t *testing.T) {
	src := newFakeSampler()
	l, st, clock := newTestLoop(src)
	st.AddSignal("a", "")

	l.Start(100 * time.Millisecond)
	defer l.Stop()

	l.SetInterval(50 * time.Millisecond)

	if len(clock.ticks) != 1 {
		t.Fatalf("expected 1 ticker, got %d", len(clock.ticks))
	}
	if clock.ticks[0].Interval != 50*time.Millisecond {
		t.Fatalf("ticker interval = %v, want 50ms", clock.ticks[0].Interval)
	}
}

func TestStopOnLastSignalRemoval(t *testing.T) {
	src := newFakeSampler()
	l, st, _ := newTestLoop(src)
	st.SetOnEmpty(l.Stop)

	st.AddSignal("a", "")
	l.Start(time.Second)
	st.RemoveSignal("a")

	if l.Recording() {
		t.Fatal("loop still recording after last signal removed")
	}
}

func TestBackfillFromHistoricalSource(t *testing.T) {
	mock := source.NewMock(1)
	st := store.New(store.Config{TimeSpanMs: 600_000, MaxPoints: 10_000}, theme.Get("default"))
	l := New(mock, st, NewManualClock(time.Now()), nil)

	st.AddSignal("sine", "Sine")
	l.Backfill(context.Background(), "sine")

	snap, _ := st.Samples("sine")
	if snap.Len() != 300 {
		t.Fatalf("backfill appended %d samples, want 300", snap.Len())
	}
}

func TestBackfillNoopWithoutCapability(t *testing.T) {
	src := newFakeSampler()
	l, st, _ := newTestLoop(src)
	st.AddSignal("a", "")

	l.Backfill(context.Background(), "a") // must not panic or append

	snap, _ := st.Samples("a")
	if snap.Len() != 0 {
		t.Fatal("backfill appended without capability")
	}
}
