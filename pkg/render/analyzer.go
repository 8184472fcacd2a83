package render

import (
	"errors"

	"gitlab.com/tinyland/lab/pulse-scope/pkg/store"
)

// ErrAnalysisUnsupported is returned by analyzers that declare the
// boundary without implementing it.
var ErrAnalysisUnsupported = errors.New("render: spectral analysis not supported")

// Analyzer is the boundary for spectral analysis of a signal buffer. The
// scope declares the call site but ships no FFT; external tooling can
// provide an implementation.
type Analyzer interface {
	// Spectrum transforms a signal's buffered samples into frequency-domain
	// points.
	Spectrum(snap *store.Snapshot) ([]Point, error)
}

// NoopAnalyzer is the shipped placeholder implementation.
type NoopAnalyzer struct{}

func (NoopAnalyzer) Spectrum(*store.Snapshot) ([]Point, error) {
	return nil, ErrAnalysisUnsupported
}
