// Package store provides the bounded sliding-window sample store for
// pulse-scope. It keeps Structure-of-Arrays buffers: per signal,
// timestamps and values live in parallel slices sharing one index.
// Readers always get copied snapshots, so the render path never iterates
// a buffer the acquisition path is mutating.
package store

import (
	"sort"
	"sync"

	"gitlab.com/tinyland/lab/pulse-scope/pkg/theme"
)

// LineStyle selects the stroke pattern for a signal's trace.
type LineStyle string

const (
	LineSolid  LineStyle = "solid"
	LineDashed LineStyle = "dashed"
	LineDotted LineStyle = "dotted"
)

// Signal holds the display metadata for one monitored expression. The ID is
// the caller-supplied expression string and is unique within the store.
type Signal struct {
	ID          string
	DisplayName string
	Color       string // hex "#rrggbb", assigned from the scheme palette
	Enabled     bool
	LineStyle   LineStyle
	Opacity     float64
	LineWidth   float64
}

// SignalPatch is a partial update applied by UpdateSignal. Nil fields are
// left unchanged.
type SignalPatch struct {
	DisplayName *string
	Color       *string
	Enabled     *bool
	LineStyle   *LineStyle
	Opacity     *float64
	LineWidth   *float64
}

// Snapshot is an immutable copy of one signal's buffer together with its
// metadata at snapshot time. Safe for concurrent reads without locking.
type Snapshot struct {
	Signal  Signal
	TimesMs []int64
	Values  []float64
}

// Len returns the number of samples in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Values)
}

// Config controls the eviction window of a Store.
type Config struct {
	// TimeSpanMs is the sliding window width in milliseconds. Samples older
	// than latest-TimeSpanMs are evicted after every append. Zero means
	// 60 seconds.
	TimeSpanMs int64

	// MaxPoints is the upper bound on samples per signal. Zero means 10000.
	MaxPoints int
}

func (c Config) defaults() Config {
	if c.TimeSpanMs <= 0 {
		c.TimeSpanMs = 60_000
	}
	if c.MaxPoints <= 0 {
		c.MaxPoints = 10_000
	}
	return c
}

type signalState struct {
	meta    Signal
	timesMs []int64
	values  []float64
}

// Store owns all signal metadata and sample buffers. It is safe for
// concurrent use by the acquisition and render goroutines.
type Store struct {
	mu      sync.RWMutex
	cfg     Config
	scheme  theme.Scheme
	order   []string // signal ids in insertion order
	signals map[string]*signalState
	created int // total signals ever created; drives palette round-robin

	onEmpty func() // invoked after the last signal is removed
}

// New creates a Store drawing signal colors from the given scheme.
func New(cfg Config, scheme theme.Scheme) *Store {
	return &Store{
		cfg:     cfg.defaults(),
		scheme:  scheme,
		signals: make(map[string]*signalState),
	}
}

// SetOnEmpty registers a hook invoked (outside the store lock) after
// RemoveSignal deletes the last tracked signal. The acquisition loop uses
// it to halt its ticker.
func (s *Store) SetOnEmpty(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEmpty = fn
}

// SetScheme replaces the palette used for future signal creation. Existing
// signal colors are untouched.
func (s *Store) SetScheme(scheme theme.Scheme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheme = scheme
}

// SetWindow updates the eviction window. Only future appends are affected;
// already-buffered samples are not re-evicted until the next append.
func (s *Store) SetWindow(timeSpanMs int64, maxPoints int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = Config{TimeSpanMs: timeSpanMs, MaxPoints: maxPoints}.defaults()
}

// AddSignal tracks a new signal. It returns false without mutating anything
// if the id is already present. The color comes from the scheme palette,
// round-robin over every signal ever created: removal does not return a
// color to the pool, so re-adding a removed id yields a fresh color.
func (s *Store) AddSignal(id, displayName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.signals[id]; exists {
		return false
	}
	if displayName == "" {
		displayName = id
	}

	s.signals[id] = &signalState{
		meta: Signal{
			ID:          id,
			DisplayName: displayName,
			Color:       s.scheme.PaletteColor(s.created),
			Enabled:     true,
			LineStyle:   LineSolid,
			Opacity:     1.0,
			LineWidth:   2.0,
		},
	}
	s.order = append(s.order, id)
	s.created++
	return true
}

// RemoveSignal deletes a signal and its buffer. Returns false if the id is
// unknown. When the last signal goes, the onEmpty hook fires so acquisition
// can stop.
func (s *Store) RemoveSignal(id string) bool {
	s.mu.Lock()

	if _, exists := s.signals[id]; !exists {
		s.mu.Unlock()
		return false
	}

	delete(s.signals, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	empty := len(s.signals) == 0
	hook := s.onEmpty
	s.mu.Unlock()

	if empty && hook != nil {
		hook()
	}
	return true
}

// UpdateSignal applies a partial metadata update. Returns false if the id
// is unknown.
func (s *Store) UpdateSignal(id string, patch SignalPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.signals[id]
	if !ok {
		return false
	}
	if patch.DisplayName != nil {
		st.meta.DisplayName = *patch.DisplayName
	}
	if patch.Color != nil {
		st.meta.Color = *patch.Color
	}
	if patch.Enabled != nil {
		st.meta.Enabled = *patch.Enabled
	}
	if patch.LineStyle != nil {
		st.meta.LineStyle = *patch.LineStyle
	}
	if patch.Opacity != nil {
		st.meta.Opacity = *patch.Opacity
	}
	if patch.LineWidth != nil {
		st.meta.LineWidth = *patch.LineWidth
	}
	return true
}

// Append adds one sample to the named signal and then evicts: first every
// sample older than the sliding window (measured from the newest timestamp),
// then any excess beyond MaxPoints, oldest first. Appends to unknown or
// disabled signals are dropped silently.
func (s *Store) Append(id string, tsMs int64, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.signals[id]
	if !ok || !st.meta.Enabled {
		return
	}

	st.timesMs = append(st.timesMs, tsMs)
	st.values = append(st.values, value)
	s.evict(st)
}

// AppendBulk adds many samples at once, used for historical backfill when a
// source exposes past data. Timestamps must already be ascending. Eviction
// runs once at the end.
func (s *Store) AppendBulk(id string, timesMs []int64, values []float64) {
	if len(timesMs) != len(values) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.signals[id]
	if !ok || !st.meta.Enabled {
		return
	}

	st.timesMs = append(st.timesMs, timesMs...)
	st.values = append(st.values, values...)
	s.evict(st)
}

// evict trims st in place. Caller must hold the write lock. Timestamps are
// append-only ascending, so the window cutoff is found by binary search.
func (s *Store) evict(st *signalState) {
	n := len(st.timesMs)
	if n == 0 {
		return
	}

	cutoff := st.timesMs[n-1] - s.cfg.TimeSpanMs
	idx := sort.Search(n, func(i int) bool {
		return st.timesMs[i] >= cutoff
	})

	if keep := len(st.timesMs) - idx; keep > s.cfg.MaxPoints {
		idx = len(st.timesMs) - s.cfg.MaxPoints
	}

	if idx > 0 {
		// Compact when dropping more than half so retained slices do not
		// pin large backing arrays.
		if idx > len(st.timesMs)/2 {
			st.timesMs = append([]int64(nil), st.timesMs[idx:]...)
			st.values = append([]float64(nil), st.values[idx:]...)
		} else {
			st.timesMs = st.timesMs[idx:]
			st.values = st.values[idx:]
		}
	}
}

// Signals returns the metadata of all signals in insertion order.
func (s *Store) Signals() []Signal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Signal, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.signals[id].meta)
	}
	return out
}

// Has reports whether a signal with the given id exists.
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.signals[id]
	return ok
}

// Count returns the number of tracked signals.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.signals)
}

// Samples returns an immutable snapshot of one signal's buffer.
func (s *Store) Samples(id string) (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.signals[id]
	if !ok {
		return nil, false
	}
	return snapshotFrom(st), true
}

// SnapshotAll returns snapshots of every signal in insertion order. This is
// the read the render loop performs once per frame.
func (s *Store) SnapshotAll() []*Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Snapshot, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, snapshotFrom(s.signals[id]))
	}
	return out
}

// ClearAll empties every sample buffer while retaining signal metadata.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range s.signals {
		st.timesMs = nil
		st.values = nil
	}
}

func snapshotFrom(st *signalState) *Snapshot {
	snap := &Snapshot{Signal: st.meta}
	if len(st.timesMs) > 0 {
		snap.TimesMs = append([]int64(nil), st.timesMs...)
		snap.Values = append([]float64(nil), st.values...)
	}
	return snap
}
