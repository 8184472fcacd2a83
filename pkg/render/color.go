package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// RGBA is a normalized color: four components in [0,1].
type RGBA [4]float64

// NRGBA converts to an 8-bit non-premultiplied image color.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c[0])*255 + 0.5),
		G: uint8(clamp01(c[1])*255 + 0.5),
		B: uint8(clamp01(c[2])*255 + 0.5),
		A: uint8(clamp01(c[3])*255 + 0.5),
	}
}

// Hex returns the "#rrggbb" form, dropping alpha.
func (c RGBA) Hex() string {
	n := c.NRGBA()
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}

// WithOpacity scales the alpha component by the signal opacity.
func (c RGBA) WithOpacity(opacity float64) RGBA {
	c[3] = clamp01(c[3] * clamp01(opacity))
	return c
}

// ParseColor normalizes a color string to RGBA. Accepted forms:
//
//	#rrggbb
//	rgb(r, g, b)       components 0-255
//	rgba(r, g, b, a)   alpha 0-1
func ParseColor(s string) (RGBA, error) {
	s = strings.TrimSpace(s)

	switch {
	case strings.HasPrefix(s, "#"):
		return parseHexColor(s)
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseRGBFunc(s[5:len(s)-1], true)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseRGBFunc(s[4:len(s)-1], false)
	default:
		return RGBA{}, fmt.Errorf("render: unrecognized color %q", s)
	}
}

func parseHexColor(s string) (RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return RGBA{}, fmt.Errorf("render: invalid hex color %q", s)
	}
	var comps [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return RGBA{}, fmt.Errorf("render: invalid hex color %q", s)
		}
		comps[i] = float64(v) / 255
	}
	return RGBA{comps[0], comps[1], comps[2], 1}, nil
}

func parseRGBFunc(body string, hasAlpha bool) (RGBA, error) {
	parts := strings.Split(body, ",")
	want := 3
	if hasAlpha {
		want = 4
	}
	if len(parts) != want {
		return RGBA{}, fmt.Errorf("render: invalid rgb color %q", body)
	}

	var out RGBA
	out[3] = 1
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return RGBA{}, fmt.Errorf("render: invalid rgb component %q", parts[i])
		}
		out[i] = clamp01(v / 255)
	}
	if hasAlpha {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return RGBA{}, fmt.Errorf("render: invalid alpha %q", parts[3])
		}
		out[3] = clamp01(a)
	}
	return out, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
