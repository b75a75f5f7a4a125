package main

// ViewTransform is the similarity transform between screen and logical
// coordinates: uniform scale plus translation, no rotation. It survives
// rebuilds; only the diagram tree is replaced.
type ViewTransform struct {
	Scale float64
	PanX  float64
	PanY  float64
}

const (
	minScale   = 0.2
	maxScale   = 5.0
	zoomFactor = 1.1
)

func NewViewTransform() ViewTransform {
	return ViewTransform{Scale: 1.0}
}

// ZoomAt scales in or out by the fixed factor and re-derives the pan so
// the screen point under the cursor stays fixed.
func (v *ViewTransform) ZoomAt(screenX, screenY float64, in bool) {
	scale := v.Scale * zoomFactor
	if !in {
		scale = v.Scale / zoomFactor
	}
	if scale < minScale {
		scale = minScale
	}
	if scale > maxScale {
		scale = maxScale
	}
	ratio := scale / v.Scale
	v.PanX = screenX - (screenX-v.PanX)*ratio
	v.PanY = screenY - (screenY-v.PanY)*ratio
	v.Scale = scale
}

// Pan shifts the view. The canvas is unbounded, so no clamping.
func (v *ViewTransform) Pan(dx, dy float64) {
	v.PanX += dx
	v.PanY += dy
}

// ToLogical undoes pan, zoom and the fixed outer padding.
func (v *ViewTransform) ToLogical(screenX, screenY float64) (float64, float64) {
	x := (screenX-v.PanX)/v.Scale - outerPadding
	y := (screenY-v.PanY)/v.Scale - outerPadding
	return x, y
}

// ToScreen is the inverse composition: padding, then scale, then pan.
func (v *ViewTransform) ToScreen(logicalX, logicalY float64) (float64, float64) {
	x := (logicalX+outerPadding)*v.Scale + v.PanX
	y := (logicalY+outerPadding)*v.Scale + v.PanY
	return x, y
}

// Reset restores the identity view.
func (v *ViewTransform) Reset() {
	v.Scale = 1.0
	v.PanX = 0
	v.PanY = 0
}
