// Package theme defines the color schemes used by pulse-scope. A Scheme
// bundles chrome colors (background, grid, axis text) with an ordered line
// palette from which new signals draw their colors round-robin.
package theme

import (
	"sort"
	"strings"
	"sync"
)

// Scheme is a complete chart color scheme.
type Scheme struct {
	Name string

	// Chrome colors, hex "#rrggbb".
	Background string
	Foreground string
	Grid       string
	Dim        string
	Accent     string

	// Palette is the ordered set of line colors assigned to signals.
	Palette []string
}

// PaletteColor returns the palette entry for the n-th created signal.
// Assignment wraps: with a palette of size N the (N+1)-th signal gets
// Palette[0] again. Removed signals do not return their color to the pool.
func (s Scheme) PaletteColor(n int) string {
	if len(s.Palette) == 0 {
		return s.Accent
	}
	if n < 0 {
		n = 0
	}
	return s.Palette[n%len(s.Palette)]
}

var (
	mu       sync.RWMutex
	registry = map[string]Scheme{}
)

func init() {
	registerBuiltins()
}

// Get returns a named scheme, falling back to "default" if not found.
func Get(name string) Scheme {
	mu.RLock()
	defer mu.RUnlock()
	if s, ok := registry[strings.ToLower(name)]; ok {
		return s
	}
	return registry["default"]
}

// Register adds or replaces a scheme in the registry. Names are
// case-insensitive.
func Register(s Scheme) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(s.Name)] = s
}

// Names returns all registered scheme names sorted alphabetically.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
