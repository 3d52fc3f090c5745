package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

const (
	defaultBackground = "#fdfbf5"
	defaultFont       = "DejaVu Sans, Noto Sans Devanagari, sans-serif"
	inkColor          = "#2b2b2b"
	gridColor         = "#b9b3a3"
	retroColor        = "#b03a2e"
)

// chordColors maps aspect names and the drishti kind onto stroke colours.
var chordColors = map[string]string{
	"sextile":    "#2f6db5",
	"trine":      "#2f6db5",
	"square":     "#c0392b",
	"opposition": "#c0392b",
	"drishti":    "#d68910",
}

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	font       string
	title      bool
}

func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }
func WithFont(family string) SVGOption      { return func(r *svgRenderer) { r.font = family } }
func WithTitle() SVGOption                  { return func(r *svgRenderer) { r.title = true } }

// RenderSVG draws l as a standalone SVG document.
func RenderSVG(l Layout, opts ...SVGOption) []byte {
	r := svgRenderer{background: defaultBackground, font: defaultFont}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="%s">`+"\n",
		l.Size, l.Size, l.Size, l.Size, escapeXML(r.font))
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))
	buf.WriteString(`  <defs><marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse"><path d="M0,0 L10,5 L0,10 z" fill="` + chordColors["drishti"] + `"/></marker></defs>` + "\n")

	renderRings(&buf, l)
	renderSigns(&buf, l)
	renderGrid(&buf, l)
	renderChords(&buf, l)
	renderAxes(&buf, l)
	renderMarkers(&buf, l)

	if r.title {
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-size="%.1f" fill="%s">%s</text>`+"\n",
			l.Center.X, l.Size-6, l.Size/50, inkColor, escapeXML(l.Title))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderRings(buf *bytes.Buffer, l Layout) {
	for _, rad := range []float64{l.Radii.Outer, l.Radii.Sign, l.Radii.Nakshatra, l.Radii.Inner} {
		fmt.Fprintf(buf, `  <circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-width="1.2"/>`+"\n",
			l.Center.X, l.Center.Y, rad, inkColor)
	}
}

func renderSigns(buf *bytes.Buffer, l Layout) {
	fs := l.Size / 45
	for _, s := range l.Signs {
		line(buf, s.Boundary.From, s.Boundary.To, inkColor, 1, "")
		fmt.Fprintf(buf, `  <text class="sign-glyph" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-size="%.1f" fill="%s">%s</text>`+"\n",
			s.GlyphAt.X, s.GlyphAt.Y, fs*1.2, inkColor, s.Glyph)
		fmt.Fprintf(buf, `  <text class="sign" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-size="%.1f" fill="%s">%s</text>`+"\n",
			s.LabelAt.X, s.LabelAt.Y, fs*0.7, inkColor, escapeXML(s.Label))
	}
}

func renderGrid(buf *bytes.Buffer, l Layout) {
	for _, n := range l.Nakshatras {
		line(buf, n.From, n.To, gridColor, 0.8, "")
	}
	for _, c := range l.Cusps {
		line(buf, c.From, c.To, gridColor, 0.8, "4 3")
	}
}

func renderChords(buf *bytes.Buffer, l Layout) {
	for _, c := range l.Chords {
		color, ok := chordColors[c.Name]
		if c.Kind == "drishti" {
			color, ok = chordColors["drishti"], true
		}
		if !ok {
			color = gridColor
		}
		if c.Kind == "drishti" {
			fmt.Fprintf(buf, `  <line class="drishti" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1" stroke-dasharray="2 2" marker-end="url(#arrow)"/>`+"\n",
				c.From.X, c.From.Y, c.To.X, c.To.Y, color)
			continue
		}
		fmt.Fprintf(buf, `  <line class="aspect %s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1.1"/>`+"\n",
			c.Name, c.From.X, c.From.Y, c.To.X, c.To.Y, color)
	}
}

func renderAxes(buf *bytes.Buffer, l Layout) {
	fs := l.Size / 60
	for _, a := range l.Axes {
		w := 1.0
		if a.Name == "ASC" || a.Name == "MC" {
			w = 2.2
		}
		line(buf, a.Spoke.From, a.Spoke.To, inkColor, w, "")
		p := l.Point(a.Lon, l.Radii.Outer+fs)
		fmt.Fprintf(buf, `  <text class="axis" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-size="%.1f" fill="%s">%s</text>`+"\n",
			p.X, p.Y, fs, inkColor, a.Name)
	}
}

func renderMarkers(buf *bytes.Buffer, l Layout) {
	fs := l.Size / 40
	for _, m := range l.Markers {
		fill := inkColor
		if m.Retrograde {
			fill = retroColor
		}
		fmt.Fprintf(buf, `  <circle cx="%.2f" cy="%.2f" r="%.1f" fill="%s"/>`+"\n", m.Dot.X, m.Dot.Y, l.Size/240, fill)
		line(buf, m.Dot, m.At, gridColor, 0.5, "")

		label := m.Glyph
		if m.Retrograde {
			label += "℞"
		}
		fmt.Fprintf(buf, `  <text class="body" data-body="%s" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-size="%.1f" fill="%s">%s<title>%s %s</title></text>`+"\n",
			m.Body, m.At.X, m.At.Y, fs, fill, escapeXML(label), m.Body, escapeXML(m.Degree))
	}
}

func line(buf *bytes.Buffer, a, b Point, color string, width float64, dash string) {
	if dash != "" {
		fmt.Fprintf(buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.1f" stroke-dasharray="%s"/>`+"\n",
			a.X, a.Y, b.X, b.Y, color, width, dash)
		return
	}
	fmt.Fprintf(buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.1f"/>`+"\n",
		a.X, a.Y, b.X, b.Y, color, width)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
