package main

import "testing"

// recordingSurface captures draw primitives for assertions without a
// real backend.
type recordingSurface struct {
	rects []Rect
	lines [][4]int
	texts []struct {
		r     Rect
		lines []string
		bold  bool
		align Align
	}
}

func (s *recordingSurface) StrokeRect(r Rect) { s.rects = append(s.rects, r) }

func (s *recordingSurface) Line(x1, y1, x2, y2 int) {
	s.lines = append(s.lines, [4]int{x1, y1, x2, y2})
}

func (s *recordingSurface) Text(r Rect, lines []string, bold bool, align Align) {
	s.texts = append(s.texts, struct {
		r     Rect
		lines []string
		bold  bool
		align Align
	}{r, lines, bold, align})
}

func (s *recordingSurface) hasText(want string) bool {
	for _, t := range s.texts {
		for _, line := range t.lines {
			if line == want {
				return true
			}
		}
	}
	return false
}

func placedLayout(t *testing.T, n *Node) *Layout {
	t.Helper()
	l := MeasureNode(n, fakeMeasurer{})
	l.Place(Rect{X: 0, Y: 0, W: round(l.Box.W), H: round(l.Box.H)})
	return l
}

// Every statement's placed rectangle must resolve back to its own node
// through the hit index.
func TestHitRoundTrip(t *testing.T) {
	n := &Node{
		Kind:  NodeBranch,
		Label: "x > 0?",
		Then:  seqOf("positive"),
		Else:  seqOf("negative"),
	}
	l := placedLayout(t, n)
	var s recordingSurface
	var hit HitIndex
	RenderDiagram(l, &s, fakeMeasurer{}, &hit)

	for _, col := range l.Kids {
		leaf := col.Kids[0]
		cx := leaf.Rect.X + leaf.Rect.W/2
		cy := leaf.Rect.Y + leaf.Rect.H/2
		got := hit.Resolve(cx, cy)
		if got != leaf.Node {
			t.Errorf("center of %q resolved to %+v", leaf.Node.Label, got)
		}
	}
}

func TestHitInnermostWins(t *testing.T) {
	n := &Node{Kind: NodeLoop, Label: "While ok", Body: seqOf("step")}
	l := placedLayout(t, n)
	var s recordingSurface
	var hit HitIndex
	RenderDiagram(l, &s, fakeMeasurer{}, &hit)

	leaf := l.Kids[0].Kids[0]
	got := hit.Resolve(leaf.Rect.X+1, leaf.Rect.Y+1)
	if got != leaf.Node {
		t.Errorf("point inside body resolved to outer node %+v", got)
	}
	// The loop header belongs to the loop itself.
	got = hit.Resolve(l.Rect.X+1, l.Rect.Y+1)
	if got != n {
		t.Errorf("header point resolved to %+v, want the loop", got)
	}
}

func TestHitMiss(t *testing.T) {
	l := placedLayout(t, seqOf("a"))
	var s recordingSurface
	var hit HitIndex
	RenderDiagram(l, &s, fakeMeasurer{}, &hit)

	if got := hit.Resolve(-5, -5); got != nil {
		t.Errorf("point outside diagram resolved to %+v", got)
	}
}

func TestHitResetBetweenRenders(t *testing.T) {
	var s recordingSurface
	var hit HitIndex

	RenderDiagram(placedLayout(t, seqOf("a", "b", "c")), &s, fakeMeasurer{}, &hit)
	first := hit.Len()
	RenderDiagram(placedLayout(t, seqOf("a")), &s, fakeMeasurer{}, &hit)

	if hit.Len() >= first {
		t.Errorf("hit index kept stale entries: %d then %d", first, hit.Len())
	}
}

func TestRenderBranchCaptions(t *testing.T) {
	n := &Node{Kind: NodeBranch, Label: "ok?", Then: seqOf("y"), Else: seqOf("n")}
	var s recordingSurface
	var hit HitIndex
	RenderDiagram(placedLayout(t, n), &s, fakeMeasurer{}, &hit)

	if !s.hasText("True") || !s.hasText("False") {
		t.Error("branch must caption its columns True and False")
	}
	if !s.hasText("ok?") {
		t.Error("branch condition text missing")
	}
	// Both diagonals converge on the header bottom-center.
	converging := 0
	for _, line := range s.lines {
		if line[0] != line[2] && line[1] != line[3] {
			converging++
		}
	}
	if converging < 2 {
		t.Errorf("got %d diagonals, want the two header diagonals", converging)
	}
}

func TestRenderSwitchLabels(t *testing.T) {
	n := &Node{
		Kind:  NodeSwitch,
		Label: "v",
		Cases: []Case{
			{Label: "1, 2", Body: seqOf("a")},
			{Label: "Default", Body: seqOf("b")},
		},
	}
	var s recordingSurface
	var hit HitIndex
	RenderDiagram(placedLayout(t, n), &s, fakeMeasurer{}, &hit)

	if !s.hasText("1, 2") || !s.hasText("Default") {
		t.Error("fan must label every case column")
	}
}

func TestRenderGuardedStrips(t *testing.T) {
	n := &Node{
		Kind:    NodeGuarded,
		Body:    seqOf("risky()"),
		Catches: []Case{{Label: "IOError", Body: seqOf("recover()")}},
		Finally: seqOf("cleanup()"),
	}
	var s recordingSurface
	var hit HitIndex
	RenderDiagram(placedLayout(t, n), &s, fakeMeasurer{}, &hit)

	for _, want := range []string{"Try", "Catch", "Finally", "IOError"} {
		if !s.hasText(want) {
			t.Errorf("guarded render missing %q", want)
		}
	}
}

func TestRenderSkipsDegenerateRects(t *testing.T) {
	l := placedLayout(t, seqOf("a"))
	l.Kids[0].Rect.W = 0
	var s recordingSurface
	var hit HitIndex
	RenderDiagram(l, &s, fakeMeasurer{}, &hit)

	if got := hit.Resolve(l.Rect.X+1, l.Rect.Y+1); got == l.Kids[0].Node {
		t.Error("zero-width child must not enter the hit index")
	}
}
