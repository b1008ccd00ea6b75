// Package termview shows a lightbox in a terminal. Mouse drags act as a single
// finger, the wheel pinches, and images are drawn with half-block characters.
package termview

import (
	"github.com/tstromberg/lightbox/pkg/lightbox"
)

// Config holds configuration for the terminal viewer.
type Config struct {
	// CellWidth and CellHeight are the assumed pixel size of a terminal cell,
	// used to translate cells into the pixel distances gestures are measured in.
	CellWidth  float64
	CellHeight float64

	Lightbox lightbox.Config
}

// DefaultConfig returns a configuration for a typical 8x16 terminal font.
func DefaultConfig() Config {
	return Config{
		CellWidth:  8,
		CellHeight: 16,
		Lightbox:   lightbox.DefaultConfig(),
	}
}

// toPixels returns the pixel position of the center of a cell.
func (c Config) toPixels(x, y int) lightbox.Point {
	return lightbox.Point{
		X: (float64(x) + 0.5) * c.CellWidth,
		Y: (float64(y) + 0.5) * c.CellHeight,
	}
}

// viewport returns the pixel size of a cols x rows screen.
func (c Config) viewport(cols, rows int) lightbox.Size {
	return lightbox.Size{W: float64(cols) * c.CellWidth, H: float64(rows) * c.CellHeight}
}
