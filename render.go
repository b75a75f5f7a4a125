package main

// Align selects text placement within a rectangle.
type Align int

const (
	AlignCenter Align = iota
	AlignLeft
	AlignRight
)

// Surface is the drawing backend: a stroked rectangle, a line segment
// and multi-line text inside a box. The raster surface in png.go and
// the terminal cell canvas in canvas.go both implement it.
type Surface interface {
	StrokeRect(r Rect)
	Line(x1, y1, x2, y2 int)
	Text(r Rect, lines []string, bold bool, align Align)
}

// HitIndex maps placed rectangles back to diagram nodes. It is scoped
// to one render pass: Render resets it before drawing and inserts each
// node as it is drawn, children after parents, so the innermost match
// is always the most recently inserted.
type HitIndex struct {
	rects []Rect
	nodes []*Node
}

func (h *HitIndex) Reset() {
	h.rects = h.rects[:0]
	h.nodes = h.nodes[:0]
}

func (h *HitIndex) Insert(r Rect, n *Node) {
	h.rects = append(h.rects, r)
	h.nodes = append(h.nodes, n)
}

// Resolve returns the innermost node containing the logical point, or
// nil. Linear scan back to front; node counts are bounded by a function
// body's statement count, so no spatial index is needed.
func (h *HitIndex) Resolve(x, y int) *Node {
	for i := len(h.rects) - 1; i >= 0; i-- {
		if h.rects[i].Contains(x, y) {
			return h.nodes[i]
		}
	}
	return nil
}

// Len reports how many rectangles the last render recorded.
func (h *HitIndex) Len() int {
	return len(h.rects)
}

// RenderDiagram walks a placed layout in placement order, emitting draw
// primitives and filling the hit index. Text wrapping goes through the
// same wrapLines and the same measurer as the measure pass.
func RenderDiagram(l *Layout, s Surface, m Measurer, hit *HitIndex) {
	hit.Reset()
	s.StrokeRect(l.Rect)
	renderNode(l, s, m, hit)
}

func renderNode(l *Layout, s Surface, m Measurer, hit *HitIndex) {
	r := l.Rect
	if r.W <= 0 || r.H <= 0 {
		return
	}
	hit.Insert(r, l.Node)

	switch l.Node.Kind {
	case NodeLeaf:
		s.StrokeRect(r)
		lines := wrapLines(m, l.Node.Label, float64(r.W)-2*blockPadding, false)
		s.Text(r, lines, false, AlignCenter)

	case NodeSequence:
		for _, kid := range l.Kids {
			renderNode(kid, s, m, hit)
		}

	case NodeBranch:
		renderBranch(l, s, m, hit)

	case NodeSwitch:
		renderSwitch(l, s, m, hit)

	case NodeLoop:
		renderLoop(l, s, m, hit)

	case NodeGuarded:
		renderGuarded(l, s, m, hit)
	}
}

// renderBranch draws the header with its two converging diagonals, the
// True/False captions and the two columns.
func renderBranch(l *Layout, s Surface, m Measurer, hit *HitIndex) {
	r := l.Rect
	headerH := round(l.HeaderH)
	midX := r.X + r.W/2
	bottomY := r.Y + headerH

	s.StrokeRect(Rect{X: r.X, Y: r.Y, W: r.W, H: headerH})
	s.Line(r.X, r.Y, midX, bottomY)
	s.Line(r.X+r.W, r.Y, midX, bottomY)

	condLines := wrapLines(m, l.Node.Label, float64(r.W)/2, true)
	s.Text(Rect{X: r.X, Y: r.Y, W: r.W, H: headerH/2 + 5}, condLines, true, AlignCenter)

	captionY := bottomY - round(lineHeight)
	s.Text(Rect{X: r.X + 5, Y: captionY, W: r.W/2 - 10, H: round(lineHeight)}, []string{"True"}, false, AlignLeft)
	s.Text(Rect{X: midX + 5, Y: captionY, W: r.W/2 - 10, H: round(lineHeight)}, []string{"False"}, false, AlignRight)

	for _, kid := range l.Kids {
		s.StrokeRect(kid.Rect)
		renderNode(kid, s, m, hit)
	}
}

// renderSwitch draws the fan: outer box, V diagonals meeting at the
// bottom-center of the header, one ray per internal column separator
// and the case label at the top of each column.
func renderSwitch(l *Layout, s Surface, m Measurer, hit *HitIndex) {
	r := l.Rect
	headerH := round(l.HeaderH)
	midX := r.X + r.W/2
	bottomY := r.Y + headerH

	s.StrokeRect(r)
	s.Line(r.X, bottomY, r.X+r.W, bottomY)
	s.Line(r.X, r.Y, midX, bottomY)
	s.Line(r.X+r.W, r.Y, midX, bottomY)

	tagLines := wrapLines(m, l.Node.Label, float64(r.W)/2, true)
	s.Text(Rect{X: r.X, Y: r.Y, W: r.W, H: headerH - 10}, tagLines, true, AlignCenter)

	for i, kid := range l.Kids {
		col := kid.Rect
		if i > 0 {
			s.Line(col.X, bottomY, col.X, bottomY+col.H)
			s.Line(midX, bottomY, col.X, r.Y)
		}
		label := l.Node.Cases[i].Label
		s.Text(Rect{X: col.X + 5, Y: r.Y + 5, W: col.W - 10, H: round(lineHeight)}, []string{label}, false, AlignLeft)
		renderNode(kid, s, m, hit)
	}
}

// renderLoop draws the header row and the L-shaped side bar.
func renderLoop(l *Layout, s Surface, m Measurer, hit *HitIndex) {
	r := l.Rect
	headerH := round(l.HeaderH)
	bodyH := r.H - headerH

	s.StrokeRect(Rect{X: r.X, Y: r.Y, W: r.W, H: headerH})
	headerLines := wrapLines(m, l.Node.Label, float64(r.W)-blockPadding, true)
	s.Text(Rect{X: r.X, Y: r.Y, W: r.W, H: headerH}, headerLines, true, AlignCenter)

	s.StrokeRect(Rect{X: r.X, Y: r.Y + headerH, W: loopBarWidth, H: bodyH})

	renderNode(l.Kids[0], s, m, hit)
}

// renderGuarded draws the try/catch/finally strips. The catch strip
// re-applies the fan's proportional-column rule across the handlers.
func renderGuarded(l *Layout, s Surface, m Measurer, hit *HitIndex) {
	r := l.Rect
	row := round(stripHeaderHeight)

	s.StrokeRect(r)

	strip := func(y int, label string) {
		s.StrokeRect(Rect{X: r.X, Y: y, W: r.W, H: row})
		s.Text(Rect{X: r.X + 5, Y: y, W: r.W - 10, H: row}, []string{label}, true, AlignLeft)
	}

	try := l.Kids[0]
	strip(r.Y, "Try")
	renderNode(try, s, m, hit)

	catches := l.Kids[1 : 1+len(l.Node.Catches)]
	if len(catches) > 0 {
		headerY := try.Rect.Y + try.Rect.H
		strip(headerY, "Catch")
		for i, kid := range catches {
			col := kid.Rect
			if i > 0 {
				s.Line(col.X, headerY, col.X, col.Y+col.H)
			}
			s.Text(Rect{X: col.X + 5, Y: headerY, W: col.W - 10, H: row}, []string{l.Node.Catches[i].Label}, false, AlignRight)
			renderNode(kid, s, m, hit)
		}
	}

	if l.Node.Finally != nil {
		fin := l.Kids[len(l.Kids)-1]
		strip(fin.Rect.Y-row, "Finally")
		renderNode(fin, s, m, hit)
	}
}
