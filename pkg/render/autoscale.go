package render

import (
	"math"

	"gitlab.com/tinyland/lab/pulse-scope/pkg/store"
)

// AutoScale computes the Y range over every enabled signal's samples whose
// timestamp falls inside the viewport's X span, padding both ends by 10% of
// the value range. With no visible samples the range defaults to [0,1].
func AutoScale(snaps []*store.Snapshot, xMin, xMax float64) (yMin, yMax float64) {
	lo := math.Inf(1)
	hi := math.Inf(-1)
	count := 0

	for _, snap := range snaps {
		if !snap.Signal.Enabled {
			continue
		}
		for i, ts := range snap.TimesMs {
			x := float64(ts)
			if x < xMin || x > xMax {
				continue
			}
			v := snap.Values[i]
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
			count++
		}
	}

	if count == 0 {
		return 0, 1
	}

	if lo == hi {
		// Flat line: open a window around the value so it renders mid-chart.
		if lo == 0 {
			return 0, 1
		}
		pad := math.Abs(lo) * 0.1
		return lo - pad, hi + pad
	}

	pad := (hi - lo) * 0.1
	return lo - pad, hi + pad
}
