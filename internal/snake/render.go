package snake

import (
	"fmt"
	"image/color"

	"github.com/vovakirdan/tui-snake/internal/canvas"
	"github.com/vovakirdan/tui-snake/internal/config"
)

// Theme holds the resolved colors used by Render.
type Theme struct {
	Background color.RGBA
	GridLine   color.RGBA
	Head       color.RGBA
	Body       color.RGBA
	Eye        color.RGBA
	Food       color.RGBA
	Stem       color.RGBA
}

// NewTheme parses the configured hex colors.
func NewTheme(t config.Theme) (Theme, error) {
	var th Theme
	fields := []struct {
		name string
		src  string
		dst  *color.RGBA
	}{
		{"background", t.Background, &th.Background},
		{"grid_line", t.GridLine, &th.GridLine},
		{"snake_head", t.SnakeHead, &th.Head},
		{"snake_body", t.SnakeBody, &th.Body},
		{"eye", t.Eye, &th.Eye},
		{"food", t.Food, &th.Food},
		{"stem", t.Stem, &th.Stem},
	}
	for _, f := range fields {
		c, err := canvas.ParseColor(f.src)
		if err != nil {
			return Theme{}, fmt.Errorf("theme %s: %w", f.name, err)
		}
		*f.dst = c
	}
	return th, nil
}

// Render draws the full board for state s onto dst.
// The surface is cleared first; nothing in s is modified.
func Render(dst canvas.Surface, s State, th Theme) {
	if s.GridSize <= 0 {
		return
	}
	w, _ := dst.Size()
	cell := w / float64(s.GridSize)

	dst.Clear()
	renderBoard(dst, s.GridSize, cell, th)
	if s.HasFood && len(s.Snake) > 0 {
		renderFood(dst, s.Food, cell, th)
	}
	renderSnake(dst, s.Snake, s.Direction, cell, th)
}

// renderBoard fills the background and strokes every cell boundary.
func renderBoard(dst canvas.Surface, gridSize int, cell float64, th Theme) {
	w, h := dst.Size()
	dst.FillRect(0, 0, w, h, th.Background)

	for i := 0; i <= gridSize; i++ {
		x := float64(i) * cell
		dst.StrokeLine(x, 0, x, h, 1, th.GridLine)
	}
	for i := 0; i <= gridSize; i++ {
		y := float64(i) * cell
		dst.StrokeLine(0, y, w, y, 1, th.GridLine)
	}
}

// renderFood draws an apple: a round body and a small stem on top.
func renderFood(dst canvas.Surface, food Cell, cell float64, th Theme) {
	x := float64(food.X) * cell
	y := float64(food.Y) * cell

	dst.FillCircle(x+cell/2, y+cell/2, cell/2-2, th.Food)
	dst.FillRect(x+cell/2-1, y+2, 2, 4, th.Stem)
}

// renderSnake draws body squares and a darker head with two eyes
// looking in the applied direction.
func renderSnake(dst canvas.Surface, body []Cell, dir Direction, cell float64, th Theme) {
	for i, seg := range body {
		x := float64(seg.X) * cell
		y := float64(seg.Y) * cell

		if i > 0 {
			dst.FillRect(x, y, cell, cell, th.Body)
			continue
		}

		dst.FillRect(x, y, cell, cell, th.Head)

		eyeSize := cell / 6
		for _, eye := range eyePositions(x, y, cell, dir) {
			dst.FillCircle(eye[0]+eyeSize/2, eye[1]+eyeSize/2, eyeSize, th.Eye)
		}
	}
}

// eyePositions returns the top-left corners of both eyes for a head at (x, y).
func eyePositions(x, y, cell float64, dir Direction) [2][2]float64 {
	eyeSize := cell / 6
	offset := cell / 4
	near := offset
	far := cell - offset - eyeSize

	switch dir {
	case DirUp:
		return [2][2]float64{{x + near, y + near}, {x + far, y + near}}
	case DirDown:
		return [2][2]float64{{x + near, y + far}, {x + far, y + far}}
	case DirLeft:
		return [2][2]float64{{x + near, y + near}, {x + near, y + far}}
	default:
		return [2][2]float64{{x + far, y + near}, {x + far, y + far}}
	}
}
