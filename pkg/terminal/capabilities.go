package terminal

import (
	"os"
	"sync"

	"github.com/muesli/termenv"
)

// Capabilities is the cached capability summary for the current session.
// It aggregates emulator detection, graphics protocol selection, the color
// profile for cell rendering, and terminal dimensions.
type Capabilities struct {
	Emulator Emulator         // Detected terminal emulator
	Protocol GraphicsProtocol // Selected raster graphics protocol
	Profile  termenv.Profile  // Color profile for ANSI cell output
	Size     Size             // Terminal dimensions
	SSH      bool             // Running over SSH
	Mux      bool             // Inside tmux or screen
}

var (
	capsMu     sync.Mutex
	cached     *Capabilities
	detectOnce sync.Once
)

// DetectCapabilities performs full terminal detection and caches the
// result. Safe to call from multiple goroutines; detection runs exactly
// once. Subsequent calls return the cached value.
func DetectCapabilities() *Capabilities {
	detectOnce.Do(func() {
		cached = detect()
	})
	return cached
}

// ForceRefresh re-detects capabilities, replacing the cached value. Use
// after a terminal change, such as attaching or detaching from tmux.
func ForceRefresh() *Capabilities {
	capsMu.Lock()
	defer capsMu.Unlock()

	detectOnce = sync.Once{}
	cached = detect()
	return cached
}

func detect() *Capabilities {
	emu := DetectEmulator()

	// EnvColorProfile inspects COLORTERM/TERM without touching the tty,
	// so it cannot interfere with the TUI taking over the terminal.
	profile := termenv.EnvColorProfile()
	if emu.SupportsTrueColor() && profile > termenv.TrueColor {
		profile = termenv.TrueColor
	}

	return &Capabilities{
		Emulator: emu,
		Protocol: SelectProtocol(emu),
		Profile:  profile,
		Size:     GetSize(),
		SSH:      isSSH(),
		Mux:      os.Getenv("TMUX") != "" || os.Getenv("STY") != "",
	}
}
