package source

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"sync"
	"time"
)

// Mock is a deterministic waveform source for development and tests. It
// implements all three capabilities: live evaluation, cached reads, and
// historical backfill.
//
// Recognized expressions: "sine", "cosine", "saw", "square", "ramp",
// "noise", "step", and "flaky" (fails roughly every fifth evaluation to
// exercise tick-local error handling). Some waveforms deliberately emit
// non-plain encodings (hex, annotated text) so the parser path is covered
// end to end.
type Mock struct {
	epoch time.Time

	mu   sync.Mutex
	rng  *rand.Rand
	tick map[string]int64 // per-expression evaluation counter
	last map[string]string
}

// NewMock creates a mock source. seed fixes the noise/flaky sequences;
// zero derives a seed from the current time.
func NewMock(seed int64) *Mock {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Mock{
		epoch: time.Now(),
		rng:   rand.New(rand.NewSource(seed)),
		tick:  make(map[string]int64),
		last:  make(map[string]string),
	}
}

// Evaluate produces the next raw sample for expr.
func (m *Mock) Evaluate(_ context.Context, expr string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.tick[expr]
	m.tick[expr] = n + 1
	t := float64(n) / 10.0

	var raw string
	switch expr {
	case "sine":
		raw = strconv.FormatFloat(50+40*math.Sin(t), 'f', 3, 64)
	case "cosine":
		raw = strconv.FormatFloat(50+40*math.Cos(t), 'f', 3, 64)
	case "saw":
		raw = strconv.FormatFloat(math.Mod(t*10, 100), 'f', 2, 64)
	case "square":
		if int(t)%2 == 0 {
			raw = "75"
		} else {
			raw = "25"
		}
	case "ramp":
		// Emitted as hex to exercise the 0x parse branch.
		raw = fmt.Sprintf("0x%X", n%256)
	case "noise":
		// Annotated reading, exercising the embedded-number branch.
		raw = fmt.Sprintf("value=%.2fV", m.rng.Float64()*100)
	case "step":
		raw = strconv.Itoa(int(n/50) * 10)
	case "flaky":
		if n%5 == 4 {
			return "not available", nil
		}
		raw = strconv.FormatFloat(50+10*math.Sin(t*3), 'f', 3, 64)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownExpression, expr)
	}

	m.last[expr] = raw
	return raw, nil
}

// Expressions returns every waveform the mock can generate.
func (m *Mock) Expressions() []string {
	return []string{"sine", "cosine", "saw", "square", "ramp", "noise", "step", "flaky"}
}

// CachedSample returns the most recent evaluation for expr.
func (m *Mock) CachedSample(expr string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.last[expr]
	return raw, ok
}

// HistoricalData synthesizes 30 seconds of past observations at 100ms
// spacing, so backfill paths can be exercised without a real recorder.
func (m *Mock) HistoricalData(_ context.Context, expr string) ([]Point, error) {
	switch expr {
	case "sine", "cosine", "saw", "square", "step":
	default:
		return nil, fmt.Errorf("%w: no history for %q", ErrUnknownExpression, expr)
	}

	const stepMs = 100
	const count = 300

	pts := make([]Point, 0, count)
	for i := 0; i < count; i++ {
		t := float64(i) / 10.0
		var v float64
		switch expr {
		case "sine":
			v = 50 + 40*math.Sin(t)
		case "cosine":
			v = 50 + 40*math.Cos(t)
		case "saw":
			v = math.Mod(t*10, 100)
		case "square":
			if int(t)%2 == 0 {
				v = 75
			} else {
				v = 25
			}
		case "step":
			v = float64(int(i/50) * 10)
		}
		pts = append(pts, Point{TimestampMs: int64(i * stepMs), Value: v})
	}
	return pts, nil
}
