package tui

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-snake/internal/canvas"
)

const (
	upperHalf = "▀"
	lowerHalf = "▄"
)

// cellPair is the colour of the upper and lower pixel behind one terminal cell.
type cellPair struct {
	top, bottom color.RGBA
}

// BlockRenderer converts an RGBA image to terminal text, two pixel rows per
// line using half-block characters. Styles are cached per colour pair.
type BlockRenderer struct {
	renderer *lipgloss.Renderer
	styles   map[cellPair]lipgloss.Style
}

// NewBlockRenderer creates a renderer bound to r. A nil r uses the default
// lipgloss renderer.
func NewBlockRenderer(r *lipgloss.Renderer) *BlockRenderer {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &BlockRenderer{
		renderer: r,
		styles:   make(map[cellPair]lipgloss.Style),
	}
}

// Render converts img to a styled string.
// Groups adjacent cells with the same colours to minimize ANSI escape sequences.
func (br *BlockRenderer) Render(img *image.RGBA) string {
	b := img.Bounds()
	w := b.Dx()
	lines := (b.Dy() + 1) / 2

	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(w*lines*4 + lines)

	for line := range lines {
		if line > 0 {
			sb.WriteRune('\n')
		}
		y := b.Min.Y + line*2

		x := 0
		for x < w {
			start := pairAt(img, b.Min.X+x, y)
			n := 0
			for x < w && pairAt(img, b.Min.X+x, y) == start {
				n++
				x++
			}
			sb.WriteString(br.run(start, n))
		}
	}
	return sb.String()
}

func (br *BlockRenderer) run(p cellPair, n int) string {
	topOpaque := p.top.A != 0
	bottomOpaque := p.bottom.A != 0

	switch {
	case !topOpaque && !bottomOpaque:
		return strings.Repeat(" ", n)
	case !topOpaque:
		return br.style(p).Render(strings.Repeat(lowerHalf, n))
	default:
		return br.style(p).Render(strings.Repeat(upperHalf, n))
	}
}

func (br *BlockRenderer) style(p cellPair) lipgloss.Style {
	if st, ok := br.styles[p]; ok {
		return st
	}

	st := br.renderer.NewStyle()
	switch {
	case p.top.A == 0:
		st = st.Foreground(lipgloss.Color(canvas.Hex(p.bottom)))
	case p.bottom.A == 0:
		st = st.Foreground(lipgloss.Color(canvas.Hex(p.top)))
	default:
		st = st.Foreground(lipgloss.Color(canvas.Hex(p.top))).
			Background(lipgloss.Color(canvas.Hex(p.bottom)))
	}
	br.styles[p] = st
	return st
}

// pairAt reads the pixel pair at column x starting at row y. Rows past the
// bottom edge read as transparent.
func pairAt(img *image.RGBA, x, y int) cellPair {
	p := cellPair{top: img.RGBAAt(x, y)}
	if y+1 < img.Bounds().Max.Y {
		p.bottom = img.RGBAAt(x, y+1)
	}
	return p
}
