package main

import (
	"math"
	"testing"
)

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// Zooming in and back out around the same point must restore the
// original scale and pan exactly (the factors cancel).
func TestZoomFixedPoint(t *testing.T) {
	v := NewViewTransform()
	v.Pan(13, -7)
	orig := v

	v.ZoomAt(100, 50, true)
	v.ZoomAt(100, 50, false)

	if !closeTo(v.Scale, orig.Scale) {
		t.Errorf("scale = %v, want %v", v.Scale, orig.Scale)
	}
	if !closeTo(v.PanX, orig.PanX) || !closeTo(v.PanY, orig.PanY) {
		t.Errorf("pan = (%v, %v), want (%v, %v)", v.PanX, v.PanY, orig.PanX, orig.PanY)
	}
}

// The logical point under the cursor must not move when zooming.
func TestZoomAnchorsCursor(t *testing.T) {
	v := NewViewTransform()
	v.Pan(30, 20)
	const sx, sy = 120.0, 80.0

	lx, ly := v.ToLogical(sx, sy)
	v.ZoomAt(sx, sy, true)
	lx2, ly2 := v.ToLogical(sx, sy)

	if !closeTo(lx, lx2) || !closeTo(ly, ly2) {
		t.Errorf("anchor drifted: (%v, %v) then (%v, %v)", lx, ly, lx2, ly2)
	}
}

func TestZoomClamps(t *testing.T) {
	v := NewViewTransform()
	for i := 0; i < 100; i++ {
		v.ZoomAt(0, 0, true)
	}
	if v.Scale != maxScale {
		t.Errorf("scale = %v, want clamp at %v", v.Scale, maxScale)
	}
	for i := 0; i < 200; i++ {
		v.ZoomAt(0, 0, false)
	}
	if v.Scale != minScale {
		t.Errorf("scale = %v, want clamp at %v", v.Scale, minScale)
	}
}

// At the clamp boundary a zoom must not shift the pan: the ratio is 1.
func TestZoomAtClampKeepsPan(t *testing.T) {
	v := NewViewTransform()
	v.Scale = maxScale
	v.Pan(40, 40)
	before := v
	v.ZoomAt(200, 200, true)
	if v.PanX != before.PanX || v.PanY != before.PanY {
		t.Errorf("pan moved at clamp: (%v, %v) from (%v, %v)", v.PanX, v.PanY, before.PanX, before.PanY)
	}
}

func TestLogicalScreenRoundTrip(t *testing.T) {
	v := NewViewTransform()
	v.ZoomAt(50, 50, true)
	v.Pan(-12, 9)

	for _, p := range [][2]float64{{0, 0}, {100, 250}, {-30, 7.5}} {
		sx, sy := v.ToScreen(p[0], p[1])
		lx, ly := v.ToLogical(sx, sy)
		if !closeTo(lx, p[0]) || !closeTo(ly, p[1]) {
			t.Errorf("round trip of (%v, %v) gave (%v, %v)", p[0], p[1], lx, ly)
		}
	}
}

func TestViewReset(t *testing.T) {
	v := NewViewTransform()
	v.ZoomAt(10, 10, true)
	v.Pan(100, -100)
	v.Reset()
	if v.Scale != 1.0 || v.PanX != 0 || v.PanY != 0 {
		t.Errorf("reset left %+v", v)
	}
}
