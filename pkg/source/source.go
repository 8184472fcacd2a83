// Package source defines the sample-source contract pulse-scope acquires
// from, plus the two shipped implementations: a gopsutil-backed system
// source and a deterministic mock source for development and tests.
//
// A source evaluates expression strings ("cpu.percent", "load.load1") into
// raw textual samples. The acquisition loop parses those; the source itself
// never interprets the text.
package source

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when an expression is recognized but has no
// current reading. The acquisition loop treats it as a skipped tick for
// that signal only.
var ErrUnavailable = errors.New("source: sample unavailable")

// ErrUnknownExpression is returned for expressions the source does not
// recognize at all.
var ErrUnknownExpression = errors.New("source: unknown expression")

// Sampler is the minimal capability every source must provide.
type Sampler interface {
	// Evaluate resolves an expression to a raw textual sample. The text is
	// free-form; the caller parses it. Slow sources should honor ctx.
	Evaluate(ctx context.Context, expr string) (string, error)
}

// CachedSampler is an optional capability: a cheap, possibly stale read
// used by UI paths that must not wait for a live probe.
type CachedSampler interface {
	// CachedSample returns the last evaluated raw sample for expr, if one
	// is fresh enough to serve.
	CachedSample(expr string) (string, bool)
}

// Point is one historical observation.
type Point struct {
	TimestampMs int64
	Value       float64
}

// HistoricalSampler is an optional capability: sources that record history
// can bulk-backfill a newly added signal's window.
type HistoricalSampler interface {
	// HistoricalData returns past observations for expr, ascending by
	// timestamp, with timestamps relative to the source's epoch.
	HistoricalData(ctx context.Context, expr string) ([]Point, error)
}
