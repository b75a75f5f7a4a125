package main

import "testing"

// fakeMeasurer gives every rune a fixed 10-unit advance so geometry
// tests are deterministic and font-free.
type fakeMeasurer struct{}

func (fakeMeasurer) Measure(text string, bold bool) Box {
	return Box{W: float64(len(text)) * 10, H: lineHeight}
}

func seqOf(labels ...string) *Node {
	n := &Node{Kind: NodeSequence}
	for _, l := range labels {
		n.Children = append(n.Children, &Node{Kind: NodeLeaf, Label: l})
	}
	return n
}

func TestMeasureLeafMinimums(t *testing.T) {
	l := MeasureNode(&Node{Kind: NodeLeaf, Label: ""}, fakeMeasurer{})
	if l.Box.W != minBlockWidth {
		t.Errorf("empty leaf width = %v, want %v", l.Box.W, minBlockWidth)
	}
	if l.Box.H != lineHeight {
		t.Errorf("empty leaf height = %v, want %v", l.Box.H, lineHeight)
	}
}

func TestMeasureLeafClampsWidth(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'x'
	}
	l := MeasureNode(&Node{Kind: NodeLeaf, Label: string(long)}, fakeMeasurer{})
	if l.Box.W != maxLeafWidth {
		t.Errorf("oversized leaf width = %v, want clamp to %v", l.Box.W, maxLeafWidth)
	}
	// The overflow wraps, so the box must be taller than one line.
	if l.Box.H <= lineHeight {
		t.Errorf("wrapped leaf height = %v, want > %v", l.Box.H, lineHeight)
	}
}

// Adding a statement to a sequence never shrinks it.
func TestMeasureMonotonicHeight(t *testing.T) {
	short := MeasureNode(seqOf("a", "b"), fakeMeasurer{})
	tall := MeasureNode(seqOf("a", "b", "c"), fakeMeasurer{})
	if tall.Box.H <= short.Box.H {
		t.Errorf("height did not grow: %v then %v", short.Box.H, tall.Box.H)
	}
	if tall.Box.W < short.Box.W {
		t.Errorf("width shrank: %v then %v", short.Box.W, tall.Box.W)
	}
}

func TestPlaceSequenceStacks(t *testing.T) {
	l := MeasureNode(seqOf("a", "b", "c"), fakeMeasurer{})
	l.Place(Rect{X: 0, Y: 0, W: 300, H: round(l.Box.H)})

	y := 0
	for i, kid := range l.Kids {
		if kid.Rect.Y != y {
			t.Errorf("child %d at Y=%d, want %d", i, kid.Rect.Y, y)
		}
		if kid.Rect.W != 300 {
			t.Errorf("child %d width = %d, want full 300", i, kid.Rect.W)
		}
		y += kid.Rect.H
	}
}

func TestPlaceBranchSymmetry(t *testing.T) {
	n := &Node{
		Kind:  NodeBranch,
		Label: "x > 0?",
		Then:  seqOf("a"),
		Else:  seqOf("b"),
	}
	l := MeasureNode(n, fakeMeasurer{})
	r := Rect{X: 0, Y: 0, W: round(l.Box.W), H: round(l.Box.H)}
	l.Place(r)

	left, right := l.Kids[0].Rect, l.Kids[1].Rect
	if left.Y != right.Y {
		t.Errorf("column tops differ: %d vs %d", left.Y, right.Y)
	}
	if left.H != right.H {
		t.Errorf("column heights differ: %d vs %d", left.H, right.H)
	}
	if d := left.W - right.W; d < -1 || d > 1 {
		t.Errorf("column widths differ by %d, want at most 1", d)
	}
	if left.W != r.W/2 {
		t.Errorf("left width = %d, want floor(%d/2)", left.W, r.W)
	}
	if left.W+right.W != r.W {
		t.Errorf("columns tile %d of %d", left.W+right.W, r.W)
	}
	if left.Y != r.Y+round(l.HeaderH) {
		t.Errorf("columns start at %d, want below header %v", left.Y, l.HeaderH)
	}
}

// Case columns must tile the parent width exactly, whatever the
// proportional rounding does to the interior columns.
func TestPlaceSwitchTilesExactly(t *testing.T) {
	n := &Node{
		Kind:  NodeSwitch,
		Label: "v",
		Cases: []Case{
			{Label: "1", Body: seqOf("one statement")},
			{Label: "2", Body: seqOf("a much longer statement body here")},
			{Label: "Default", Body: seqOf("d")},
		},
	}
	l := MeasureNode(n, fakeMeasurer{})
	// Stretch beyond natural size to force proportional division.
	r := Rect{X: 7, Y: 3, W: round(l.Box.W) + 113, H: round(l.Box.H)}
	l.Place(r)

	x := r.X
	for i, kid := range l.Kids {
		if kid.Rect.X != x {
			t.Errorf("column %d at X=%d, want %d", i, kid.Rect.X, x)
		}
		if kid.Rect.W < minColWidth {
			t.Errorf("column %d width = %d, below minimum %d", i, kid.Rect.W, minColWidth)
		}
		x += kid.Rect.W
	}
	if x != r.X+r.W {
		t.Errorf("columns end at %d, want exact edge %d", x, r.X+r.W)
	}
}

func TestPlaceLoopBody(t *testing.T) {
	n := &Node{Kind: NodeLoop, Label: "While x < 10", Body: seqOf("increment x")}
	l := MeasureNode(n, fakeMeasurer{})
	r := Rect{X: 0, Y: 0, W: round(l.Box.W), H: round(l.Box.H)}
	l.Place(r)

	body := l.Kids[0].Rect
	if body.X != loopBarWidth {
		t.Errorf("body X = %d, want offset past the bar %d", body.X, loopBarWidth)
	}
	if body.Y != round(l.HeaderH) {
		t.Errorf("body Y = %d, want below header %v", body.Y, l.HeaderH)
	}
	if body.W != r.W-loopBarWidth {
		t.Errorf("body W = %d, want %d", body.W, r.W-loopBarWidth)
	}
	if body.Y+body.H != r.H {
		t.Errorf("body bottom = %d, want flush with %d", body.Y+body.H, r.H)
	}
}

func TestPlaceGuardedStrips(t *testing.T) {
	n := &Node{
		Kind: NodeGuarded,
		Body: seqOf("risky()"),
		Catches: []Case{
			{Label: "IOError", Body: seqOf("recover()")},
			{Label: "?", Body: seqOf("log it")},
		},
		Finally: seqOf("cleanup()"),
	}
	l := MeasureNode(n, fakeMeasurer{})
	r := Rect{X: 0, Y: 0, W: round(l.Box.W), H: round(l.Box.H)}
	l.Place(r)

	row := round(stripHeaderHeight)
	try := l.Kids[0].Rect
	if try.Y != row {
		t.Errorf("try body at Y=%d, want below strip %d", try.Y, row)
	}
	if try.W != r.W {
		t.Errorf("try body W=%d, want full %d", try.W, r.W)
	}

	c1, c2 := l.Kids[1].Rect, l.Kids[2].Rect
	if c1.Y != c2.Y {
		t.Errorf("catch column tops differ: %d vs %d", c1.Y, c2.Y)
	}
	if c1.Y != try.Y+try.H+row {
		t.Errorf("catches at Y=%d, want %d", c1.Y, try.Y+try.H+row)
	}
	if c1.W+c2.W != r.W {
		t.Errorf("catch columns tile %d of %d", c1.W+c2.W, r.W)
	}

	fin := l.Kids[3].Rect
	if fin.Y != c1.Y+c1.H+row {
		t.Errorf("finally at Y=%d, want %d", fin.Y, c1.Y+c1.H+row)
	}
	if fin.W != r.W {
		t.Errorf("finally W=%d, want full %d", fin.W, r.W)
	}
}

// A parent wider than a child's natural size stretches the child; the
// measured box itself is untouched by placement.
func TestPlaceStretchKeepsBox(t *testing.T) {
	l := MeasureNode(seqOf("a"), fakeMeasurer{})
	natural := l.Box
	l.Place(Rect{X: 0, Y: 0, W: round(l.Box.W) * 2, H: round(l.Box.H)})
	if l.Box != natural {
		t.Errorf("measured box changed during placement: %+v then %+v", natural, l.Box)
	}
	if l.Kids[0].Rect.W != round(natural.W)*2 {
		t.Errorf("child not stretched: W=%d", l.Kids[0].Rect.W)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 5, H: 5}
	if !r.Contains(10, 10) {
		t.Error("top-left corner must be inside")
	}
	if r.Contains(15, 10) || r.Contains(10, 15) {
		t.Error("right and bottom edges are exclusive")
	}
	if r.Contains(9, 12) {
		t.Error("left of rect must be outside")
	}
}
