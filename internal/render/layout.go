// Package render turns a computed chart into drawable geometry and writes it
// out as SVG, PNG or delimited text.
//
// Build produces a Layout that every sink shares: the wheel is rotated so the
// ascendant sits at 9 o'clock and longitude increases counter-clockwise.
package render

import (
	"fmt"

	"github.com/thurmanmarka/astrowheel"
	"github.com/thurmanmarka/astrowheel/internal/timeutil"
	"github.com/thurmanmarka/astrowheel/internal/zodiac"
)

// DefaultSize is the wheel's width and height when none is given.
const DefaultSize = 720.0

// Ring radii as fractions of the wheel size.
const (
	outerFrac     = 0.48
	signFrac      = 0.41
	nakshatraFrac = 0.37
	innerFrac     = 0.22
	labelFrac     = 0.26
	bumpFrac      = 0.03
)

type Point struct{ X, Y float64 }

// Radii are the ring boundaries in pixels, outermost first.
type Radii struct {
	Outer     float64
	Sign      float64
	Nakshatra float64
	Inner     float64
}

// Spoke is a radial segment at a longitude.
type Spoke struct {
	Lon      float64
	From, To Point
}

// Sector is one sign of the outer ring.
type Sector struct {
	Index    int
	Start    float64 // longitude of the sign's first degree
	Boundary Spoke
	Label    string
	Glyph    string
	LabelAt  Point
	GlyphAt  Point
}

// Axis is one of the four angles drawn across the wheel.
type Axis struct {
	Name  string // ASC, DSC, MC or IC
	Lon   float64
	Spoke Spoke
}

// Marker is one body on the wheel.
type Marker struct {
	Body       astrowheel.Body
	Glyph      string
	Abbrev     string
	Degree     string // in-sign position, e.g. 12°34′
	Lon        float64
	Level      int
	Retrograde bool
	Dot        Point // on the inner edge of the nakshatra ring
	At         Point // label anchor after bumping
}

// Chord connects two bodies across the inner circle.
type Chord struct {
	Kind     string // "aspect" or "drishti"
	Name     string
	A, B     astrowheel.Body
	From, To Point
}

// Layout is a chart reduced to positioned primitives.
type Layout struct {
	Size     float64
	Center   Point
	Radii    Radii
	Rotation float64 // longitude drawn at 9 o'clock
	Title    string

	Signs      []Sector
	Nakshatras []Spoke
	Cusps      []Spoke
	Axes       []Axis
	Markers    []Marker
	Chords     []Chord
}

// Point maps an ecliptic longitude at radius r onto the canvas.
func (l Layout) Point(lon, r float64) Point {
	theta := 180 + (lon - l.Rotation)
	return Point{
		X: l.Center.X + r*timeutil.CosD(theta),
		Y: l.Center.Y - r*timeutil.SinD(theta),
	}
}

func (l Layout) spoke(lon, r0, r1 float64) Spoke {
	return Spoke{Lon: lon, From: l.Point(lon, r0), To: l.Point(lon, r1)}
}

// Build lays out c on a square canvas of the given size. A size of zero or
// less uses DefaultSize.
func Build(c astrowheel.Chart, size float64) Layout {
	if size <= 0 {
		size = DefaultSize
	}
	l := Layout{
		Size:   size,
		Center: Point{X: size / 2, Y: size / 2},
		Radii: Radii{
			Outer:     size * outerFrac,
			Sign:      size * signFrac,
			Nakshatra: size * nakshatraFrac,
			Inner:     size * innerFrac,
		},
		Title: fmt.Sprintf("%s  %.4f, %.4f  %s",
			c.Time.UTC().Format("2006-01-02 15:04 MST"), c.Observer.Lat, c.Observer.Lon, c.Config.Zodiac),
	}
	if c.Ascendant.Defined {
		l.Rotation = c.Ascendant.Longitude
	}

	script := c.Config.LabelScript
	mid := (l.Radii.Outer + l.Radii.Sign) / 2
	for i := 0; i < 12; i++ {
		start := float64(i) * zodiac.SignWidth
		center := start + zodiac.SignWidth/2
		l.Signs = append(l.Signs, Sector{
			Index:    i,
			Start:    start,
			Boundary: l.spoke(start, l.Radii.Sign, l.Radii.Outer),
			Label:    zodiac.SignName(i, script),
			Glyph:    zodiac.SignGlyph(i),
			LabelAt:  l.Point(center+zodiac.SignWidth/4, mid),
			GlyphAt:  l.Point(center-zodiac.SignWidth/6, mid),
		})
	}

	if c.Config.ShowNakshatraGrid {
		for i := 0; i < 27; i++ {
			lon := float64(i) * zodiac.NakshatraWidth
			l.Nakshatras = append(l.Nakshatras, l.spoke(lon, l.Radii.Nakshatra, l.Radii.Sign))
		}
	}

	for _, cusp := range c.Houses {
		l.Cusps = append(l.Cusps, l.spoke(cusp, 0, l.Radii.Nakshatra))
	}

	if c.Ascendant.Defined {
		asc := c.Ascendant.Longitude
		l.Axes = append(l.Axes,
			Axis{Name: "ASC", Lon: asc, Spoke: l.spoke(asc, l.Radii.Inner, l.Radii.Outer)},
			Axis{Name: "DSC", Lon: timeutil.Normalize360(asc + 180),
				Spoke: l.spoke(asc+180, l.Radii.Inner, l.Radii.Outer)},
		)
	}
	mc := c.Midheaven
	l.Axes = append(l.Axes,
		Axis{Name: "MC", Lon: mc, Spoke: l.spoke(mc, l.Radii.Inner, l.Radii.Outer)},
		Axis{Name: "IC", Lon: timeutil.Normalize360(mc + 180), Spoke: l.spoke(mc+180, l.Radii.Inner, l.Radii.Outer)},
	)

	maxLabel := l.Radii.Nakshatra - size*bumpFrac/2
	dots := make(map[astrowheel.Body]Point, len(c.Placements))
	for _, p := range c.Placements {
		r := size * (labelFrac + bumpFrac*float64(p.LabelLevel))
		if r > maxLabel {
			r = maxLabel
		}
		m := Marker{
			Body:       p.Body,
			Glyph:      p.Body.Glyph(),
			Abbrev:     abbrev(p.Body),
			Degree:     zodiac.FormatDM(zodiac.SignOf(p.Longitude)),
			Lon:        p.Longitude,
			Level:      p.LabelLevel,
			Retrograde: p.Retrograde,
			Dot:        l.Point(p.Longitude, l.Radii.Nakshatra),
			At:         l.Point(p.Longitude, r),
		}
		l.Markers = append(l.Markers, m)
		dots[p.Body] = l.Point(p.Longitude, l.Radii.Inner)
	}

	for _, a := range c.Aspects {
		if a.Angle == 0 {
			continue // conjunctions share a point
		}
		l.Chords = append(l.Chords, Chord{
			Kind: "aspect", Name: a.Name(), A: a.A, B: a.B,
			From: dots[a.A], To: dots[a.B],
		})
	}
	for _, d := range c.Drishti {
		if d.Distance == 1 {
			continue
		}
		l.Chords = append(l.Chords, Chord{
			Kind: "drishti", Name: fmt.Sprintf("%d", d.Distance), A: d.From, B: d.To,
			From: dots[d.From], To: dots[d.To],
		})
	}
	return l
}

// abbrev is a two-letter ASCII name for raster fonts without astrological
// glyphs.
func abbrev(b astrowheel.Body) string {
	s := b.String()
	if len(s) < 2 {
		return s
	}
	return s[:2]
}
