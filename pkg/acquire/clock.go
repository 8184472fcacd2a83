package acquire

import "time"

// Clock abstracts wall time and ticker creation so the acquisition cadence
// is testable without real waiting. The process owns one real clock; tests
// substitute a manual one.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker is the minimal ticker surface the loop needs.
type Ticker interface {
	C() <-chan time.Time
	Reset(d time.Duration)
	Stop()
}

// RealClock is the production Clock over package time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

type realTicker struct {
	t *time.Ticker
}

func (r *realTicker) C() <-chan time.Time     { return r.t.C }
func (r *realTicker) Reset(d time.Duration)   { r.t.Reset(d) }
func (r *realTicker) Stop()                   { r.t.Stop() }

// ManualClock is a deterministic Clock for tests. Advance moves time
// forward and fires one tick on every ticker created from this clock.
type ManualClock struct {
	now   time.Time
	ticks []*manualTicker
}

// NewManualClock creates a ManualClock starting at the given instant.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (m *ManualClock) Now() time.Time { return m.now }

func (m *ManualClock) NewTicker(d time.Duration) Ticker {
	t := &manualTicker{ch: make(chan time.Time, 16)}
	m.ticks = append(m.ticks, t)
	return t
}

// Advance moves the clock forward. Ticks are not delivered automatically;
// tests drive cycles explicitly via Loop.TickOnce, so cadence and clock
// remain independently controllable.
func (m *ManualClock) Advance(d time.Duration) {
	m.now = m.now.Add(d)
}

// Fire delivers one tick on every live ticker at the current instant.
func (m *ManualClock) Fire() {
	for _, t := range m.ticks {
		if t.stopped {
			continue
		}
		select {
		case t.ch <- m.now:
		default:
		}
	}
}

type manualTicker struct {
	ch      chan time.Time
	stopped bool
	// Interval holds the most recent Reset value, for assertions.
	Interval time.Duration
}

func (t *manualTicker) C() <-chan time.Time   { return t.ch }
func (t *manualTicker) Reset(d time.Duration) { t.Interval = d }
func (t *manualTicker) Stop()                 { t.stopped = true }
