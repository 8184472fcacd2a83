// Package parse converts raw textual samples from an instrumented source
// into float64 values. Sources emit free-form text: plain decimals, hex or
// binary register dumps, or annotated readings like "value=3.14V". A failed
// parse means the sample is dropped by the caller, never zero-filled.
package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// unavailable is the literal some sources emit when a probe has no reading.
const unavailable = "not available"

var embeddedNumber = regexp.MustCompile(`-?\d+(\.\d+)?`)

// Sample parses a raw sample string. The second return value is false when
// no numeric value could be extracted; the sample must then be discarded.
//
// Accepted forms, tried in order:
//  1. base-10 float ("3.14", "-7", "2e3")
//  2. hexadecimal integer with 0x/0X prefix ("0x1A")
//  3. binary integer with 0b/0B prefix ("0b101")
//  4. first embedded decimal substring ("value=3.14V" -> 3.14)
func Sample(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, unavailable) {
		return 0, false
	}

	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v, true
	}

	if len(raw) > 2 && (strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X")) {
		if n, err := strconv.ParseInt(raw[2:], 16, 64); err == nil {
			return float64(n), true
		}
	}

	if len(raw) > 2 && (strings.HasPrefix(raw, "0b") || strings.HasPrefix(raw, "0B")) {
		if n, err := strconv.ParseInt(raw[2:], 2, 64); err == nil {
			return float64(n), true
		}
	}

	if m := embeddedNumber.FindString(raw); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			return v, true
		}
	}

	return 0, false
}
