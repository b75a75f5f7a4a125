package main

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

type Theme int

const (
	ThemeAuto Theme = iota
	ThemeLight
	ThemeDark
)

func ParseTheme(s string) (Theme, error) {
	switch s {
	case "", "auto":
		return ThemeAuto, nil
	case "light":
		return ThemeLight, nil
	case "dark":
		return ThemeDark, nil
	}
	return ThemeAuto, fmt.Errorf("unknown theme %q (want light, dark or auto)", s)
}

func (t Theme) String() string {
	switch t {
	case ThemeLight:
		return "light"
	case ThemeDark:
		return "dark"
	}
	return "auto"
}

// Colors resolves the draw colors. Theme only ever affects colors,
// never geometry. Auto falls back to light on a raster surface, where
// there is no terminal background to inspect.
func (t Theme) Colors() (bg, fg color.Color) {
	if t == ThemeDark {
		return color.RGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff},
			color.RGBA{R: 0xd4, G: 0xd4, B: 0xd4, A: 0xff}
	}
	return color.White, color.Black
}

type fontSet struct {
	plain font.Face
	bold  font.Face
}

func loadFaces(size float64) (*fontSet, error) {
	plain, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %v", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %v", err)
	}
	opts := truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}
	return &fontSet{
		plain: truetype.NewFace(plain, &opts),
		bold:  truetype.NewFace(bold, &opts),
	}, nil
}

// faceMeasurer measures single-line widths with the same faces the
// raster surface draws with, keeping measure and render in lockstep.
type faceMeasurer struct {
	dc    *gg.Context
	fonts *fontSet
}

func (m *faceMeasurer) Measure(text string, bold bool) Box {
	if bold {
		m.dc.SetFontFace(m.fonts.bold)
	} else {
		m.dc.SetFontFace(m.fonts.plain)
	}
	w, h := m.dc.MeasureString(text)
	return Box{W: w, H: h}
}

// rasterSurface draws diagram primitives into a gg context in logical
// coordinates; the context's matrix carries scale and padding.
type rasterSurface struct {
	dc    *gg.Context
	fonts *fontSet
	fg    color.Color
}

func (s *rasterSurface) StrokeRect(r Rect) {
	s.dc.SetColor(s.fg)
	s.dc.SetLineWidth(1.2)
	s.dc.DrawRectangle(float64(r.X), float64(r.Y), float64(r.W), float64(r.H))
	s.dc.Stroke()
}

func (s *rasterSurface) Line(x1, y1, x2, y2 int) {
	s.dc.SetColor(s.fg)
	s.dc.SetLineWidth(1.2)
	s.dc.DrawLine(float64(x1), float64(y1), float64(x2), float64(y2))
	s.dc.Stroke()
}

func (s *rasterSurface) Text(r Rect, lines []string, bold bool, align Align) {
	if len(lines) == 0 {
		return
	}
	if bold {
		s.dc.SetFontFace(s.fonts.bold)
	} else {
		s.dc.SetFontFace(s.fonts.plain)
	}
	s.dc.SetColor(s.fg)

	totalH := float64(len(lines)) * lineHeight
	y := float64(r.Y) + (float64(r.H)-totalH)/2 + lineHeight*0.7
	for _, line := range lines {
		w, _ := s.dc.MeasureString(line)
		x := float64(r.X)
		switch align {
		case AlignCenter:
			x = float64(r.X) + (float64(r.W)-w)/2
		case AlignRight:
			x = float64(r.X) + float64(r.W) - w
		}
		s.dc.DrawString(line, x, y)
		y += lineHeight
	}
}

// ExportPNG lays the diagram out at its natural size and writes a
// raster image: outer padding around the root box, a caption line on
// top, colors from the theme and the whole canvas scaled uniformly.
func ExportPNG(funcName string, root *Node, theme Theme, scale float64, fontSize float64, path string) error {
	if scale <= 0 {
		scale = 1.0
	}
	if fontSize <= 0 {
		fontSize = 12.0
	}
	fonts, err := loadFaces(fontSize)
	if err != nil {
		return err
	}

	probe := gg.NewContext(1, 1)
	measurer := &faceMeasurer{dc: probe, fonts: fonts}
	layout := MeasureNode(root, measurer)
	layout.Place(Rect{X: 0, Y: 0, W: round(layout.Box.W), H: round(layout.Box.H)})

	captionH := round(stripHeaderHeight)
	imgW := int(float64(layout.Rect.W+2*outerPadding) * scale)
	imgH := int(float64(layout.Rect.H+2*outerPadding+captionH) * scale)
	if imgW < 1 || imgH < 1 {
		return fmt.Errorf("nothing to export")
	}

	bg, fg := theme.Colors()
	dc := gg.NewContext(imgW, imgH)
	dc.SetColor(bg)
	dc.Clear()
	dc.Scale(scale, scale)

	surface := &rasterSurface{dc: dc, fonts: fonts, fg: fg}
	surface.Text(
		Rect{X: outerPadding, Y: 0, W: layout.Rect.W, H: captionH},
		[]string{"Structuregram: " + funcName},
		true, AlignLeft,
	)

	dc.Translate(outerPadding, float64(outerPadding+captionH))
	var hit HitIndex
	RenderDiagram(layout, surface, measurer, &hit)

	return dc.SavePNG(path)
}
