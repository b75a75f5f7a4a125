package main

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Terminal cells are not square: one column stands for cellWidth
// logical pixels and one row for cellHeight. cellHeight matches the
// layout line height so one wrapped text line lands on one row.
const (
	cellWidth  = 10.0
	cellHeight = lineHeight
)

// cellMeasurer measures text in logical pixels the way the terminal
// will display it, one cell per rune column.
type cellMeasurer struct{}

func (cellMeasurer) Measure(text string, bold bool) Box {
	return Box{W: float64(runewidth.StringWidth(text)) * cellWidth, H: cellHeight}
}

// cellCanvas renders diagram primitives into a rune grid. Logical
// coordinates pass through the view transform, then divide down to
// cells, so pan and zoom need no separate terminal logic.
type cellCanvas struct {
	grid   [][]rune
	width  int
	height int
	view   *ViewTransform
}

func newCellCanvas(width, height int, view *ViewTransform) *cellCanvas {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}
	return &cellCanvas{grid: grid, width: width, height: height, view: view}
}

// toCell projects a logical point onto the cell grid.
func (c *cellCanvas) toCell(x, y int) (int, int) {
	sx, sy := c.view.ToScreen(float64(x), float64(y))
	return round(sx / cellWidth), round(sy / cellHeight)
}

// cellToLogical is the inverse projection, aimed at the cell center.
// Used to resolve the cursor cell against the hit index.
func (c *cellCanvas) cellToLogical(cx, cy int) (int, int) {
	lx, ly := c.view.ToLogical((float64(cx)+0.5)*cellWidth, (float64(cy)+0.5)*cellHeight)
	return round(lx), round(ly)
}

func (c *cellCanvas) set(x, y int, r rune) {
	if y < 0 || y >= c.height || x < 0 || x >= c.width {
		return
	}
	c.grid[y][x] = r
}

func (c *cellCanvas) at(x, y int) rune {
	if y < 0 || y >= c.height || x < 0 || x >= c.width {
		return ' '
	}
	return c.grid[y][x]
}

func (c *cellCanvas) StrokeRect(r Rect) {
	x1, y1 := c.toCell(r.X, r.Y)
	x2, y2 := c.toCell(r.X+r.W, r.Y+r.H)
	if x2 <= x1 {
		x2 = x1 + 1
	}
	if y2 <= y1 {
		y2 = y1 + 1
	}
	for x := x1 + 1; x < x2; x++ {
		c.mergeEdge(x, y1, '─')
		c.mergeEdge(x, y2, '─')
	}
	for y := y1 + 1; y < y2; y++ {
		c.mergeEdge(x1, y, '│')
		c.mergeEdge(x2, y, '│')
	}
	c.corner(x1, y1, '┌')
	c.corner(x2, y1, '┐')
	c.corner(x1, y2, '└')
	c.corner(x2, y2, '┘')
}

// mergeEdge upgrades a crossing of two border runs to a junction glyph
// instead of overwriting one with the other.
func (c *cellCanvas) mergeEdge(x, y int, r rune) {
	cur := c.at(x, y)
	if cur == ' ' || cur == r {
		c.set(x, y, r)
		return
	}
	if (cur == '─' && r == '│') || (cur == '│' && r == '─') {
		c.set(x, y, '┼')
		return
	}
	if strings.ContainsRune("┌┐└┘┼├┤┬┴", cur) {
		return
	}
	c.set(x, y, r)
}

func (c *cellCanvas) corner(x, y int, r rune) {
	cur := c.at(x, y)
	switch cur {
	case ' ', '─', '│':
		c.set(x, y, r)
	case '┌', '┐', '└', '┘':
		if cur != r {
			c.set(x, y, '┼')
		}
	}
}

func (c *cellCanvas) Line(x1, y1, x2, y2 int) {
	cx1, cy1 := c.toCell(x1, y1)
	cx2, cy2 := c.toCell(x2, y2)

	if cy1 == cy2 {
		if cx2 < cx1 {
			cx1, cx2 = cx2, cx1
		}
		for x := cx1; x <= cx2; x++ {
			c.mergeEdge(x, cy1, '─')
		}
		return
	}
	if cx1 == cx2 {
		if cy2 < cy1 {
			cy1, cy2 = cy2, cy1
		}
		for y := cy1; y <= cy2; y++ {
			c.mergeEdge(cx1, y, '│')
		}
		return
	}

	// Diagonal: step row by row, interpolating the column.
	glyph := '╲'
	if (cx2-cx1 > 0) != (cy2-cy1 > 0) {
		glyph = '╱'
	}
	if cy2 < cy1 {
		cx1, cx2 = cx2, cx1
		cy1, cy2 = cy2, cy1
	}
	for y := cy1; y <= cy2; y++ {
		t := float64(y-cy1) / float64(cy2-cy1)
		x := cx1 + round(t*float64(cx2-cx1))
		if c.at(x, y) == ' ' {
			c.set(x, y, glyph)
		}
	}
}

func (c *cellCanvas) Text(r Rect, lines []string, bold bool, align Align) {
	if len(lines) == 0 {
		return
	}
	x1, y1 := c.toCell(r.X, r.Y)
	x2, y2 := c.toCell(r.X+r.W, r.Y+r.H)
	boxW := x2 - x1
	boxH := y2 - y1
	if boxW < 1 || boxH < 1 {
		return
	}

	startY := y1 + (boxH-len(lines))/2
	for i, line := range lines {
		y := startY + i
		if y <= y1-1 || y > y2 {
			continue
		}
		lineW := runewidth.StringWidth(line)
		if lineW > boxW-2 && boxW > 3 {
			line = runewidth.Truncate(line, boxW-2, "…")
			lineW = runewidth.StringWidth(line)
		}
		var x int
		switch align {
		case AlignLeft:
			x = x1 + 1
		case AlignRight:
			x = x2 - 1 - lineW
		default:
			x = x1 + (boxW-lineW)/2
		}
		col := x
		for _, ch := range line {
			c.set(col, y, ch)
			col += runewidth.RuneWidth(ch)
		}
	}
}

// Lines joins the grid into printable rows.
func (c *cellCanvas) Lines() []string {
	out := make([]string, c.height)
	for i, row := range c.grid {
		out[i] = string(row)
	}
	return out
}
