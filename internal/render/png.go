package render

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale    float64
	fontPath string
}

// WithScale sets the PNG scale factor (default 1).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithFontFile loads a TrueType font for labels. Without one, labels use
// gg's built-in ASCII face and bodies are drawn by abbreviation.
func WithFontFile(path string) PNGOption {
	return func(r *pngRenderer) { r.fontPath = path }
}

// RenderPNG rasterises l.
func RenderPNG(l Layout, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		return nil, fmt.Errorf("render: invalid PNG scale %v", r.scale)
	}

	px := int(l.Size * r.scale)
	dc := gg.NewContext(px, px)
	dc.Scale(r.scale, r.scale)

	glyphs := false
	if r.fontPath != "" {
		if err := dc.LoadFontFace(r.fontPath, l.Size/45); err != nil {
			return nil, fmt.Errorf("render: load font: %w", err)
		}
		glyphs = true
	}

	dc.SetHexColor(defaultBackground)
	dc.Clear()

	dc.SetHexColor(inkColor)
	dc.SetLineWidth(1.2)
	for _, rad := range []float64{l.Radii.Outer, l.Radii.Sign, l.Radii.Nakshatra, l.Radii.Inner} {
		dc.DrawCircle(l.Center.X, l.Center.Y, rad)
		dc.Stroke()
	}

	for _, s := range l.Signs {
		dc.SetHexColor(inkColor)
		dc.SetLineWidth(1)
		drawLine(dc, s.Boundary.From, s.Boundary.To)
		label := s.Label
		if glyphs {
			label = s.Glyph + " " + s.Label
		}
		dc.DrawStringAnchored(label, s.LabelAt.X, s.LabelAt.Y, 0.5, 0.5)
	}

	dc.SetHexColor(gridColor)
	dc.SetLineWidth(0.8)
	for _, n := range l.Nakshatras {
		drawLine(dc, n.From, n.To)
	}
	dc.SetDash(4, 3)
	for _, c := range l.Cusps {
		drawLine(dc, c.From, c.To)
	}
	dc.SetDash()

	for _, c := range l.Chords {
		color, ok := chordColors[c.Name]
		if c.Kind == "drishti" {
			color, ok = chordColors["drishti"], true
			dc.SetDash(2, 2)
		}
		if !ok {
			color = gridColor
		}
		dc.SetHexColor(color)
		dc.SetLineWidth(1.1)
		drawLine(dc, c.From, c.To)
		dc.SetDash()
	}

	for _, a := range l.Axes {
		dc.SetHexColor(inkColor)
		dc.SetLineWidth(1)
		if a.Name == "ASC" || a.Name == "MC" {
			dc.SetLineWidth(2.2)
		}
		drawLine(dc, a.Spoke.From, a.Spoke.To)
		p := l.Point(a.Lon, l.Radii.Outer+l.Size/60)
		dc.DrawStringAnchored(a.Name, p.X, p.Y, 0.5, 0.5)
	}

	for _, m := range l.Markers {
		dc.SetHexColor(inkColor)
		if m.Retrograde {
			dc.SetHexColor(retroColor)
		}
		dc.DrawCircle(m.Dot.X, m.Dot.Y, l.Size/240)
		dc.Fill()

		label := m.Abbrev
		if glyphs {
			label = m.Glyph
		}
		if m.Retrograde {
			label += " R"
		}
		dc.DrawStringAnchored(label, m.At.X, m.At.Y, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("render: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawLine(dc *gg.Context, a, b Point) {
	dc.DrawLine(a.X, a.Y, b.X, b.Y)
	dc.Stroke()
}
