// Package acquire runs the periodic sampling loop: on every tick it
// evaluates each enabled signal's expression against the sample source,
// parses the raw text, and appends the result to the store. One signal's
// failure never affects the others in the same tick.
package acquire

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"gitlab.com/tinyland/lab/pulse-scope/pkg/parse"
	"gitlab.com/tinyland/lab/pulse-scope/pkg/source"
	"gitlab.com/tinyland/lab/pulse-scope/pkg/store"
)

// Loop drives acquisition. Start/Stop are idempotent; SetInterval restarts
// the ticker in place when the refresh rate changes.
type Loop struct {
	src   source.Sampler
	store *store.Store
	clock Clock
	log   *slog.Logger

	mu       sync.Mutex
	running  bool
	interval time.Duration
	epoch    time.Time // recording start; zero until first Start
	gen      uint64    // bumped on Stop so late results are discarded
	ticker   Ticker
	cancel   context.CancelFunc
	done     chan struct{}
}

// New creates a Loop. A nil logger discards output.
func New(src source.Sampler, st *store.Store, clock Clock, log *slog.Logger) *Loop {
	if clock == nil {
		clock = RealClock{}
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Loop{src: src, store: st, clock: clock, log: log}
}

// Start begins recording at the given tick interval. Calling Start while
// already recording is a no-op, as is starting with no tracked signals.
func (l *Loop) Start(interval time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running || l.store.Count() == 0 || interval <= 0 {
		return
	}
	if l.epoch.IsZero() {
		l.epoch = l.clock.Now()
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.interval = interval
	l.ticker = l.clock.NewTicker(interval)
	l.cancel = cancel
	l.done = make(chan struct{})
	l.running = true

	go l.run(ctx, l.ticker, l.done, l.gen)
}

// Stop halts scheduling. Buffered data is retained; in-flight evaluations
// complete but their results are discarded.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	l.gen++
	l.ticker.Stop()
	l.cancel()
	done := l.done
	l.mu.Unlock()

	<-done
}

// Recording reports whether the loop is currently scheduling ticks.
func (l *Loop) Recording() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// SetInterval changes the tick cadence. While recording, the ticker is
// reset in place so the new rate takes effect immediately.
func (l *Loop) SetInterval(interval time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if interval <= 0 || interval == l.interval {
		return
	}
	l.interval = interval
	if l.running {
		l.ticker.Reset(interval)
	}
}

// ResetEpoch restarts the recording time base. Meant to follow a ClearAll,
// so new timestamps begin at zero again without going backwards relative
// to buffered data.
func (l *Loop) ResetEpoch() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.epoch = l.clock.Now()
}

func (l *Loop) run(ctx context.Context, ticker Ticker, done chan struct{}, gen uint64) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			l.TickOnce(ctx, gen)
		}
	}
}

// TickOnce performs one acquisition cycle: evaluate, parse, and append for
// every enabled signal. Exposed (with the generation stamp) so tests can
// drive ticks without a running goroutine.
func (l *Loop) TickOnce(ctx context.Context, gen uint64) {
	for _, sig := range l.store.Signals() {
		if !sig.Enabled {
			continue
		}

		raw, err := l.src.Evaluate(ctx, sig.ID)
		if err != nil {
			l.log.Warn("sample fetch failed", "signal", sig.ID, "err", err)
			continue
		}

		v, ok := parse.Sample(raw)
		if !ok {
			// Unparseable samples are dropped without logging; sources
			// emit "not available" routinely.
			continue
		}

		l.mu.Lock()
		stale := gen != l.gen || !l.running
		elapsed := l.clock.Now().Sub(l.epoch).Milliseconds()
		l.mu.Unlock()
		if stale {
			// Recording stopped while this evaluation was in flight.
			return
		}

		l.store.Append(sig.ID, elapsed, v)
	}
}

// Gen returns the current recording generation, pairing with TickOnce in
// tests.
func (l *Loop) Gen() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen
}

// Backfill seeds a signal's buffer from the source's history when that
// capability is present. It is a best-effort no-op otherwise.
func (l *Loop) Backfill(ctx context.Context, id string) {
	hist, ok := l.src.(source.HistoricalSampler)
	if !ok {
		return
	}

	pts, err := hist.HistoricalData(ctx, id)
	if err != nil || len(pts) == 0 {
		return
	}

	times := make([]int64, len(pts))
	values := make([]float64, len(pts))
	for i, p := range pts {
		times[i] = p.TimestampMs
		values[i] = p.Value
	}
	l.store.AppendBulk(id, times, values)
}
