package render

// Point is one chart-space point: X milliseconds, Y value.
type Point struct {
	X, Y float64
}

// DefaultBudget is the downsampling vertex budget when the caller does not
// set one.
const DefaultBudget = 2000

// Downsample reduces pts to at most budget points with
// Largest-Triangle-Three-Buckets. The first and last points always survive.
// The interior is partitioned into budget-2 fractional buckets; from each,
// the point forming the largest triangle with the previously selected point
// and the next bucket's centroid is kept, ties resolved by the first
// maximum encountered. The result is deterministic for identical input.
//
// Input must be ordered by X. If len(pts) <= budget, pts is returned as-is.
func Downsample(pts []Point, budget int) []Point {
	n := len(pts)
	if budget < 3 {
		budget = 3
	}
	if n <= budget {
		return pts
	}

	out := make([]Point, 0, budget)
	out = append(out, pts[0])

	bucketSize := float64(n-2) / float64(budget-2)
	prev := pts[0]

	for i := 0; i < budget-2; i++ {
		// Current bucket candidate range.
		lo := int(float64(i)*bucketSize) + 1
		hi := int(float64(i+1)*bucketSize) + 1
		if hi > n-1 {
			hi = n - 1
		}

		// Centroid of the next bucket; the final bucket's successor is the
		// last point itself.
		nlo := hi
		nhi := int(float64(i+2)*bucketSize) + 1
		if nhi > n-1 {
			nhi = n - 1
		}
		var cx, cy float64
		if nlo < nhi {
			for j := nlo; j < nhi; j++ {
				cx += pts[j].X
				cy += pts[j].Y
			}
			cx /= float64(nhi - nlo)
			cy /= float64(nhi - nlo)
		} else {
			cx = pts[n-1].X
			cy = pts[n-1].Y
		}

		// Largest triangle over (prev, candidate, centroid).
		best := lo
		bestArea := -1.0
		for j := lo; j < hi; j++ {
			area := triangleArea(prev, pts[j], Point{cx, cy})
			if area > bestArea {
				bestArea = area
				best = j
			}
		}

		out = append(out, pts[best])
		prev = pts[best]
	}

	out = append(out, pts[n-1])
	return out
}

func triangleArea(a, b, c Point) float64 {
	area := (a.X-c.X)*(b.Y-a.Y) - (a.X-b.X)*(c.Y-a.Y)
	if area < 0 {
		area = -area
	}
	return area / 2
}

// ClipToViewport returns the subrange of a time-ordered sample buffer whose
// X lies within [xMin, xMax], as chart points. Downsampling operates only
// on visible samples, so clipping runs first.
func ClipToViewport(timesMs []int64, values []float64, xMin, xMax float64) []Point {
	pts := make([]Point, 0, len(timesMs))
	for i, ts := range timesMs {
		x := float64(ts)
		if x < xMin || x > xMax {
			continue
		}
		pts = append(pts, Point{X: x, Y: values[i]})
	}
	return pts
}
