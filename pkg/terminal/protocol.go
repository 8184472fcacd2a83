package terminal

import "strings"

// GraphicsProtocol identifies which inline-image protocol to use for
// pixel-raster chart output. ProtocolNone means the terminal cannot
// display raster images at all; the scope then draws with braille cells
// instead.
type GraphicsProtocol int

const (
	ProtocolNone   GraphicsProtocol = iota // No raster graphics support
	ProtocolKitty                          // Kitty graphics protocol (Ghostty, Kitty, WezTerm)
	ProtocolITerm2                         // iTerm2 inline images protocol
	ProtocolSixel                          // Sixel graphics protocol
)

var protocolNames = [...]string{
	ProtocolNone:   "none",
	ProtocolKitty:  "kitty",
	ProtocolITerm2: "iterm2",
	ProtocolSixel:  "sixel",
}

// String returns the human-readable name of the graphics protocol.
func (p GraphicsProtocol) String() string {
	if int(p) < len(protocolNames) {
		return protocolNames[p]
	}
	return "unknown"
}

// SelectProtocol returns the best raster protocol for the detected
// emulator:
//   - Ghostty, Kitty, WezTerm -> ProtocolKitty
//   - iTerm2 -> ProtocolITerm2
//   - Sixel-capable without kitty support -> ProtocolSixel
//   - All others -> ProtocolNone
//
// SSH sessions always return ProtocolNone: raster protocols over SSH are
// unreliable enough that the braille fallback gives a better experience.
func SelectProtocol(emu Emulator) GraphicsProtocol {
	if isSSH() {
		return ProtocolNone
	}
	switch {
	case emu.SupportsKittyGraphics():
		return ProtocolKitty
	case emu.SupportsITerm2Images():
		return ProtocolITerm2
	case emu.SupportsSixel():
		return ProtocolSixel
	default:
		return ProtocolNone
	}
}

// SelectProtocolWithOverride lets user configuration force a specific
// graphics protocol. An empty or "auto" override proceeds with normal
// detection. Valid overrides: "kitty", "iterm2", "sixel", "none".
func SelectProtocolWithOverride(emu Emulator, override string) GraphicsProtocol {
	switch strings.ToLower(override) {
	case "", "auto":
		return SelectProtocol(emu)
	case "kitty":
		return ProtocolKitty
	case "iterm2":
		return ProtocolITerm2
	case "sixel":
		return ProtocolSixel
	case "none", "off", "disabled":
		return ProtocolNone
	default:
		return SelectProtocol(emu)
	}
}
