package render

// Viewport is the visible data-space rectangle. X is milliseconds since
// recording start, Y is the sample value axis. Once the user pans or zooms
// it is independent of the configured time span.
type Viewport struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Width returns the data-space width.
func (v Viewport) Width() float64 { return v.XMax - v.XMin }

// Height returns the data-space height.
func (v Viewport) Height() float64 { return v.YMax - v.YMin }

// ToScreen maps a data point to surface coordinates. Y is inverted: larger
// values land on smaller row numbers.
func (v Viewport) ToScreen(x, y, surfaceW, surfaceH float64) (sx, sy float64) {
	w := v.Width()
	h := v.Height()
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}
	sx = (x - v.XMin) / w * surfaceW
	sy = surfaceH - (y-v.YMin)/h*surfaceH
	return sx, sy
}

// FromScreen is the exact algebraic inverse of ToScreen.
func (v Viewport) FromScreen(sx, sy, surfaceW, surfaceH float64) (x, y float64) {
	w := v.Width()
	h := v.Height()
	if surfaceW == 0 || surfaceH == 0 {
		return v.XMin, v.YMin
	}
	x = v.XMin + sx/surfaceW*w
	y = v.YMin + (surfaceH-sy)/surfaceH*h
	return x, y
}

// Contains reports whether the data point lies inside the viewport.
func (v Viewport) Contains(x, y float64) bool {
	return x >= v.XMin && x <= v.XMax && y >= v.YMin && y <= v.YMax
}
