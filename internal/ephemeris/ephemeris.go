// Package ephemeris supplies geocentric ecliptic positions, sidereal time and
// obliquity for the bodies drawn on the wheel.
//
// Positions are apparent, referred to the ecliptic and equinox of date, in
// degrees. Dates are Julian ephemeris days; the difference between UT and TT
// is ignored.
package ephemeris

import (
	"errors"
	"fmt"
	"strings"
)

// Body identifies a plotted point.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
	Rahu // ascending lunar node
	Ketu // descending lunar node
)

// ErrUnknownBody is returned for body identifiers a provider cannot place.
var ErrUnknownBody = errors.New("unknown body")

var bodyNames = [...]string{
	Sun:     "Sun",
	Moon:    "Moon",
	Mercury: "Mercury",
	Venus:   "Venus",
	Mars:    "Mars",
	Jupiter: "Jupiter",
	Saturn:  "Saturn",
	Uranus:  "Uranus",
	Neptune: "Neptune",
	Pluto:   "Pluto",
	Rahu:    "Rahu",
	Ketu:    "Ketu",
}

var bodyGlyphs = [...]string{
	Sun:     "☉",
	Moon:    "☽",
	Mercury: "☿",
	Venus:   "♀",
	Mars:    "♂",
	Jupiter: "♃",
	Saturn:  "♄",
	Uranus:  "♅",
	Neptune: "♆",
	Pluto:   "♇",
	Rahu:    "☊",
	Ketu:    "☋",
}

func (b Body) String() string {
	if b < Sun || b > Ketu {
		return "Unknown"
	}
	return bodyNames[b]
}

// Glyph returns the astronomical symbol for b.
func (b Body) Glyph() string {
	if b < Sun || b > Ketu {
		return "?"
	}
	return bodyGlyphs[b]
}

// Outer reports whether b is one of the telescopic planets.
func (b Body) Outer() bool {
	return b == Uranus || b == Neptune || b == Pluto
}

// Node reports whether b is a lunar node.
func (b Body) Node() bool {
	return b == Rahu || b == Ketu
}

// MarshalText encodes b by name.
func (b Body) MarshalText() ([]byte, error) {
	if b < Sun || b > Ketu {
		return nil, ErrUnknownBody
	}
	return []byte(bodyNames[b]), nil
}

// UnmarshalText decodes a body name.
func (b *Body) UnmarshalText(text []byte) error {
	v, err := ParseBody(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// ParseBody looks a body up by name, case-insensitively.
func ParseBody(s string) (Body, error) {
	for i, n := range bodyNames {
		if strings.EqualFold(n, s) {
			return Body(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBody, s)
}

// Classical returns the seven visible planets plus the nodes, in chart order.
func Classical() []Body {
	return []Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Rahu, Ketu}
}

// All returns every body, in chart order.
func All() []Body {
	return []Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto, Rahu, Ketu}
}

// Position is a geocentric ecliptic position of date.
type Position struct {
	Lon  float64 // degrees [0, 360)
	Lat  float64 // degrees
	Dist float64 // AU
}

// Provider is the ephemeris collaborator. Implementations must be safe for
// concurrent use.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// Position returns the apparent geocentric position of a physical body
	// (Sun through Pluto). Nodes are not handled here; see MeanNode and
	// TrueNode.
	Position(b Body, jde float64) (Position, error)

	// SiderealTime returns apparent Greenwich sidereal time in hours [0, 24).
	SiderealTime(jd float64) float64

	// Obliquity returns the true obliquity of the ecliptic in degrees.
	Obliquity(jde float64) (float64, error)
}
