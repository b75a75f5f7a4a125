package main

import (
	"math"
	"strings"
)

// Geometry constants, in one logical pixel-equivalent unit. Theme and
// backend never change these; only draw colors differ between surfaces.
const (
	lineHeight    = 20.0
	blockPadding  = 10.0
	minBlockWidth = 250.0
	maxLeafWidth  = 500.0
	loopBarWidth  = 30
	minColWidth   = 40
	outerPadding  = 20
)

// branchHeaderHeight is the base header for two-way and multiway
// branches; it grows when the wrapped condition needs more lines.
const branchHeaderHeight = lineHeight * 2.5

// stripHeaderHeight is one labeled row of a guarded block and the base
// header of a loop.
const stripHeaderHeight = lineHeight + blockPadding

// Box is a measured minimum size. Measurement stays in float64;
// rounding to integers happens once, at placement, so nested reflows do
// not compound rounding error.
type Box struct {
	W, H float64
}

// Rect is an absolute placement in logical coordinates.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Measurer reports the width of a single line of text. The same
// measurer must back the measure pass and the render pass, or text
// placement and painting drift apart.
type Measurer interface {
	Measure(text string, bold bool) Box
}

// Layout carries one node's measured box and, after Place, its
// absolute rectangle. Kids follow node order: sequence children;
// then/else; switch case bodies; loop body; try, catches, finally.
type Layout struct {
	Node    *Node
	Box     Box
	HeaderH float64
	Kids    []*Layout
	Rect    Rect
}

// wrapLines greedily word-wraps text against maxW using the measurer.
// Used identically by measurement and rendering.
func wrapLines(m Measurer, text string, maxW float64, bold bool) []string {
	if text == "" {
		return nil
	}
	var lines []string
	var current string
	for _, word := range strings.Fields(text) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if m.Measure(candidate, bold).W <= maxW || current == "" {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// MeasureNode is the bottom-up pass: every node gets its minimum
// bounding box exactly once per layout cycle. It is total; degenerate
// content still measures to a valid minimum-sized box.
func MeasureNode(n *Node, m Measurer) *Layout {
	l := &Layout{Node: n}
	switch n.Kind {
	case NodeLeaf:
		textW := m.Measure(n.Label, false).W
		width := math.Max(minBlockWidth, math.Min(textW+2*blockPadding, maxLeafWidth))
		lines := wrapLines(m, n.Label, width-2*blockPadding, false)
		height := math.Max(lineHeight, float64(len(lines))*(lineHeight+2)+blockPadding)
		l.Box = Box{W: width, H: height}

	case NodeSequence:
		w, h := minBlockWidth, 0.0
		for _, child := range n.Children {
			kid := MeasureNode(child, m)
			l.Kids = append(l.Kids, kid)
			w = math.Max(w, kid.Box.W)
			h += kid.Box.H
		}
		l.Box = Box{W: w, H: math.Max(h, lineHeight)}

	case NodeBranch:
		t := MeasureNode(n.Then, m)
		e := MeasureNode(n.Else, m)
		l.Kids = []*Layout{t, e}
		w := math.Max(t.Box.W+e.Box.W, minBlockWidth)
		l.HeaderH = headerFor(m, n.Label, w/2)
		l.Box = Box{W: w, H: math.Max(t.Box.H, e.Box.H) + l.HeaderH}

	case NodeSwitch:
		sum, maxH := 0.0, 0.0
		for _, c := range n.Cases {
			kid := MeasureNode(c.Body, m)
			l.Kids = append(l.Kids, kid)
			sum += kid.Box.W
			maxH = math.Max(maxH, kid.Box.H)
		}
		w := math.Max(sum, minBlockWidth)
		l.HeaderH = headerFor(m, n.Label, w/2)
		l.Box = Box{W: w, H: maxH + l.HeaderH}

	case NodeLoop:
		body := MeasureNode(n.Body, m)
		l.Kids = []*Layout{body}
		w := math.Max(body.Box.W+loopBarWidth+blockPadding, minBlockWidth)
		lines := len(wrapLines(m, n.Label, w-blockPadding, true))
		l.HeaderH = math.Max(stripHeaderHeight, float64(lines)*lineHeight+blockPadding)
		l.Box = Box{W: w, H: body.Box.H + l.HeaderH}

	case NodeGuarded:
		try := MeasureNode(n.Body, m)
		l.Kids = []*Layout{try}
		w := try.Box.W
		catchSum, catchMax := 0.0, 0.0
		for _, c := range n.Catches {
			kid := MeasureNode(c.Body, m)
			l.Kids = append(l.Kids, kid)
			catchSum += kid.Box.W
			catchMax = math.Max(catchMax, kid.Box.H)
		}
		w = math.Max(math.Max(w, catchSum), minBlockWidth)
		h := try.Box.H + stripHeaderHeight
		if len(n.Catches) > 0 {
			h += catchMax + stripHeaderHeight
		}
		if n.Finally != nil {
			fin := MeasureNode(n.Finally, m)
			l.Kids = append(l.Kids, fin)
			w = math.Max(w, fin.Box.W)
			h += fin.Box.H + stripHeaderHeight
		}
		l.HeaderH = stripHeaderHeight
		l.Box = Box{W: w, H: h}
	}
	return l
}

// headerFor sizes a branch-style header: a fixed multiple of the line
// height, grown if the wrapped label needs the room.
func headerFor(m Measurer, label string, wrapW float64) float64 {
	lines := len(wrapLines(m, label, wrapW, true))
	return math.Max(branchHeaderHeight, float64(lines)*lineHeight+blockPadding)
}

// Place is the top-down pass: the node receives its allotted rectangle
// from the parent (wider parents stretch children uniformly) and
// assigns its children theirs. All rounding to integer boundaries
// happens here.
func (l *Layout) Place(r Rect) {
	l.Rect = r
	switch l.Node.Kind {
	case NodeLeaf:

	case NodeSequence:
		y := r.Y
		for _, kid := range l.Kids {
			h := round(kid.Box.H)
			kid.Place(Rect{X: r.X, Y: y, W: r.W, H: h})
			y += h
		}

	case NodeBranch:
		headerH := round(l.HeaderH)
		contentH := r.H - headerH
		leftW := r.W / 2
		l.Kids[0].Place(Rect{X: r.X, Y: r.Y + headerH, W: leftW, H: contentH})
		l.Kids[1].Place(Rect{X: r.X + leftW, Y: r.Y + headerH, W: r.W - leftW, H: contentH})

	case NodeSwitch:
		headerH := round(l.HeaderH)
		placeColumns(l.Kids, Rect{X: r.X, Y: r.Y + headerH, W: r.W, H: r.H - headerH})

	case NodeLoop:
		headerH := round(l.HeaderH)
		l.Kids[0].Place(Rect{
			X: r.X + loopBarWidth,
			Y: r.Y + headerH,
			W: r.W - loopBarWidth,
			H: r.H - headerH,
		})

	case NodeGuarded:
		row := round(stripHeaderHeight)
		y := r.Y + row
		try := l.Kids[0]
		tryH := round(try.Box.H)
		try.Place(Rect{X: r.X, Y: y, W: r.W, H: tryH})
		y += tryH
		catches := l.Kids[1 : 1+len(l.Node.Catches)]
		if len(catches) > 0 {
			y += row
			catchH := 0
			for _, kid := range catches {
				catchH = maxInt(catchH, round(kid.Box.H))
			}
			placeColumns(catches, Rect{X: r.X, Y: y, W: r.W, H: catchH})
			y += catchH
		}
		if l.Node.Finally != nil {
			fin := l.Kids[len(l.Kids)-1]
			y += row
			fin.Place(Rect{X: r.X, Y: y, W: r.W, H: round(fin.Box.H)})
		}
	}
}

// placeColumns divides r.W across columns in proportion to their
// measured widths, clamped to a minimum column width. The last column
// absorbs the rounding remainder so the columns tile r exactly.
func placeColumns(kids []*Layout, r Rect) {
	if len(kids) == 0 {
		return
	}
	sum := 0.0
	for _, kid := range kids {
		sum += kid.Box.W
	}
	x := r.X
	for i, kid := range kids {
		var w int
		if i == len(kids)-1 {
			w = r.X + r.W - x
		} else {
			w = round(kid.Box.W / sum * float64(r.W))
			if w < minColWidth {
				w = minColWidth
			}
		}
		kid.Place(Rect{X: x, Y: r.Y, W: w, H: r.H})
		x += w
	}
}

func round(f float64) int {
	return int(math.Round(f))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
