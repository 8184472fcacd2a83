package pixelbe

import (
	"fmt"

	"github.com/disintegration/imaging"
)

// ExportPNG writes the most recently rendered frame to path. The format
// follows the file extension; .png is the usual choice.
func (b *Backend) ExportPNG(path string) error {
	if b.last == nil {
		return fmt.Errorf("pixel backend: no frame rendered yet")
	}
	if err := imaging.Save(b.last, path); err != nil {
		return fmt.Errorf("pixel backend: save frame: %w", err)
	}
	return nil
}
