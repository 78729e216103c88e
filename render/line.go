package render

import (
	"github.com/lixenwraith/vi-cloth/parameter"
)

// maxLineSpan bounds a line's extent in cells, longer lines are skipped
const maxLineSpan = 4096

// DrawLine walks the cells from a to b inclusive via Bresenham's algorithm
func DrawLine(a, b Cell, plot func(x, y int)) {
	x0, y0, x1, y1 := a.X, a.Y, b.X, b.Y
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}
	if dx > maxLineSpan || dy > maxLineSpan {
		return
	}
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// LineRune picks the glyph best matching the slope from a to b on screen
func LineRune(a, b Cell) rune {
	dx := float64(b.X - a.X)
	dy := float64(b.Y-a.Y) * parameter.CellAspect
	adx, ady := dx, dy
	if adx < 0 {
		adx = -adx
	}
	if ady < 0 {
		ady = -ady
	}
	switch {
	case adx == 0 && ady == 0:
		return '·'
	case adx > 2*ady:
		return '-'
	case ady > 2*adx:
		return '|'
	case (dx > 0) == (dy > 0):
		return '\\'
	default:
		return '/'
	}
}
