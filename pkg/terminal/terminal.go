// Package terminal detects the terminal emulator, selects a graphics
// protocol for pixel rendering, and queries terminal dimensions. Detection
// is environment-variable only (0ms, no I/O) so it is safe to run before
// the TUI takes over the tty.
package terminal

import (
	"os"
	"strings"
)

// Emulator identifies the terminal emulator in use.
type Emulator int

const (
	EmulatorUnknown   Emulator = iota
	EmulatorGhostty            // Ghostty (kitty graphics, true color)
	EmulatorKitty              // Kitty (kitty graphics)
	EmulatorWezTerm            // WezTerm (kitty graphics, sixel)
	EmulatorITerm2             // iTerm2 (iterm2 inline images)
	EmulatorAlacritty          // Alacritty (true color, no graphics)
	EmulatorVSCode             // VS Code integrated terminal
	EmulatorTmux               // tmux multiplexer
	EmulatorScreen             // GNU Screen multiplexer
	EmulatorGeneric            // Unknown terminal with basic capabilities
)

var emulatorNames = [...]string{
	EmulatorUnknown:   "unknown",
	EmulatorGhostty:   "ghostty",
	EmulatorKitty:     "kitty",
	EmulatorWezTerm:   "wezterm",
	EmulatorITerm2:    "iterm2",
	EmulatorAlacritty: "alacritty",
	EmulatorVSCode:    "vscode",
	EmulatorTmux:      "tmux",
	EmulatorScreen:    "screen",
	EmulatorGeneric:   "generic",
}

// String returns the human-readable name of the emulator.
func (e Emulator) String() string {
	if int(e) < len(emulatorNames) {
		return emulatorNames[e]
	}
	return "unknown"
}

// SupportsKittyGraphics reports whether the emulator implements the Kitty
// graphics protocol for inline image rendering.
func (e Emulator) SupportsKittyGraphics() bool {
	switch e {
	case EmulatorGhostty, EmulatorKitty, EmulatorWezTerm:
		return true
	default:
		return false
	}
}

// SupportsSixel reports whether the emulator implements the Sixel graphics
// protocol. WezTerm has native sixel support; most other modern terminals
// do not.
func (e Emulator) SupportsSixel() bool {
	return e == EmulatorWezTerm
}

// SupportsITerm2Images reports whether the emulator implements the iTerm2
// inline images protocol.
func (e Emulator) SupportsITerm2Images() bool {
	switch e {
	case EmulatorITerm2, EmulatorWezTerm:
		return true
	default:
		return false
	}
}

// SupportsTrueColor reports whether the emulator supports 24-bit color.
func (e Emulator) SupportsTrueColor() bool {
	switch e {
	case EmulatorGhostty, EmulatorKitty, EmulatorWezTerm,
		EmulatorITerm2, EmulatorAlacritty, EmulatorVSCode:
		return true
	default:
		return false
	}
}

// SupportsSyncOutput reports whether the emulator supports synchronized
// output mode (DEC mode 2026) to eliminate flicker during redraws.
func (e Emulator) SupportsSyncOutput() bool {
	switch e {
	case EmulatorGhostty, EmulatorKitty, EmulatorWezTerm,
		EmulatorITerm2, EmulatorAlacritty:
		return true
	default:
		return false
	}
}

// DetectEmulator identifies the terminal emulator from environment
// variables. Detection proceeds through multiple signals ordered by
// reliability:
//
//  1. TERM_PROGRAM env var (most terminals set this)
//  2. TERM env var (xterm-ghostty, xterm-kitty, alacritty)
//  3. Terminal-specific vars (KITTY_WINDOW_ID, ITERM_SESSION_ID, ...)
//  4. TMUX / STY for multiplexers
//  5. LC_TERMINAL for iTerm2 over SSH
//  6. Fallback to EmulatorGeneric
func DetectEmulator() Emulator {
	if tp := os.Getenv("TERM_PROGRAM"); tp != "" {
		switch strings.ToLower(tp) {
		case "ghostty":
			return EmulatorGhostty
		case "kitty":
			return EmulatorKitty
		case "wezterm":
			return EmulatorWezTerm
		case "iterm.app":
			return EmulatorITerm2
		case "vscode":
			return EmulatorVSCode
		case "alacritty":
			return EmulatorAlacritty
		case "tmux":
			return EmulatorTmux
		}
	}

	if term := os.Getenv("TERM"); term != "" {
		switch {
		case term == "xterm-ghostty":
			return EmulatorGhostty
		case term == "xterm-kitty":
			return EmulatorKitty
		case strings.HasPrefix(term, "alacritty"):
			return EmulatorAlacritty
		case strings.HasPrefix(term, "screen"):
			// GNU Screen sets TERM=screen or screen-256color.
			// Check STY to confirm it really is screen.
			if os.Getenv("STY") != "" {
				return EmulatorScreen
			}
		}
	}

	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return EmulatorKitty
	}
	if os.Getenv("ITERM_SESSION_ID") != "" {
		return EmulatorITerm2
	}
	if os.Getenv("WEZTERM_EXECUTABLE") != "" {
		return EmulatorWezTerm
	}

	// Multiplexers are checked late so inner terminal detection from
	// TERM_PROGRAM takes priority.
	if os.Getenv("TMUX") != "" {
		return EmulatorTmux
	}
	if os.Getenv("STY") != "" {
		return EmulatorScreen
	}

	if os.Getenv("LC_TERMINAL") == "iTerm2" {
		return EmulatorITerm2
	}

	return EmulatorGeneric
}

// isSSH reports whether the current session is running over SSH.
func isSSH() bool {
	return os.Getenv("SSH_TTY") != "" ||
		os.Getenv("SSH_CONNECTION") != "" ||
		os.Getenv("SSH_CLIENT") != ""
}
