// Package canvas provides an immediate-mode 2D drawing surface in logical units.
// Games draw onto a Surface without knowing whether it ends up in a terminal,
// a PNG file or a test recorder.
package canvas

import (
	"fmt"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Surface is a square drawing target addressed in logical units.
type Surface interface {
	// Size returns the logical width and height.
	Size() (w, h float64)

	// Clear resets the whole surface to transparent.
	Clear()

	// FillRect fills an axis-aligned rectangle.
	FillRect(x, y, w, h float64, c color.RGBA)

	// FillCircle fills a full circle centered at (cx, cy).
	FillCircle(cx, cy, r float64, c color.RGBA)

	// StrokeLine draws a straight segment of the given width.
	StrokeLine(x1, y1, x2, y2, width float64, c color.RGBA)
}

// ParseColor parses a "#rrggbb" or "#rgb" string into an opaque RGBA color.
func ParseColor(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("canvas: invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Hex formats a color as "#rrggbb". Alpha is ignored.
func Hex(c color.RGBA) string {
	cf, _ := colorful.MakeColor(color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
	return cf.Hex()
}
