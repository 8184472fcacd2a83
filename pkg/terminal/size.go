package terminal

import (
	"os"
	"strconv"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Default cell pixel dimensions used when the terminal does not report
// pixel sizes. Common for 80-column terminals with standard fonts.
const (
	DefaultCellW = 8
	DefaultCellH = 16
)

// Size holds terminal dimensions in both character cells and pixels.
type Size struct {
	Cols   int // Character columns
	Rows   int // Character rows
	PixelW int // Total pixel width (0 if unknown)
	PixelH int // Total pixel height (0 if unknown)
	CellW  int // Pixel width per cell (0 if unknown)
	CellH  int // Pixel height per cell (0 if unknown)
}

// CellDims returns the per-cell pixel dimensions, substituting defaults
// when the terminal did not report pixel sizes. The pixel renderer sizes
// its raster from these.
func (s Size) CellDims() (w, h int) {
	w, h = s.CellW, s.CellH
	if w <= 0 {
		w = DefaultCellW
	}
	if h <= 0 {
		h = DefaultCellH
	}
	return w, h
}

// GetSize returns the current terminal dimensions. Strategies in order:
//
//  1. TIOCGWINSZ ioctl on stdout, then stderr (cell and pixel dimensions)
//  2. term.GetSize on stdout (cells only)
//  3. COLUMNS/LINES environment variables
//  4. Fallback to 80x24
func GetSize() Size {
	for _, fd := range []uintptr{os.Stdout.Fd(), os.Stderr.Fd()} {
		if s := sizeFromIoctl(fd); s.Cols > 0 && s.Rows > 0 {
			return s
		}
	}
	if cols, rows, err := term.GetSize(int(os.Stdout.Fd())); err == nil && cols > 0 && rows > 0 {
		return Size{Cols: cols, Rows: rows}
	}
	return sizeFromEnv()
}

// sizeFromIoctl queries the terminal size via TIOCGWINSZ. Returns a
// zero-value Size on failure.
func sizeFromIoctl(fd uintptr) Size {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err != nil {
		return Size{}
	}

	s := Size{
		Cols:   int(ws.Col),
		Rows:   int(ws.Row),
		PixelW: int(ws.Xpixel),
		PixelH: int(ws.Ypixel),
	}
	if s.PixelW > 0 && s.Cols > 0 {
		s.CellW = s.PixelW / s.Cols
	}
	if s.PixelH > 0 && s.Rows > 0 {
		s.CellH = s.PixelH / s.Rows
	}
	return s
}

func sizeFromEnv() Size {
	return Size{
		Cols: envInt("COLUMNS", 80),
		Rows: envInt("LINES", 24),
	}
}

func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
