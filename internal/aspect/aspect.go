// Package aspect detects geometric aspects and sign-based drishti between
// plotted points.
//
// Points are addressed by their index in the input slice, so callers can keep
// their own body identifiers alongside.
package aspect

import (
	"math"
	"slices"

	"github.com/thurmanmarka/astrowheel/internal/timeutil"
	"github.com/thurmanmarka/astrowheel/internal/zodiac"
)

// DefaultAngles are the Ptolemaic aspects.
var DefaultAngles = []float64{0, 60, 90, 120, 180}

// DefaultOrb is the tolerance applied to every target angle, in degrees.
const DefaultOrb = 6.0

// Aspect is a symmetric geometric relation between points I < J.
type Aspect struct {
	I, J       int
	Angle      float64 // matched target angle
	Separation float64 // actual smaller arc between the points, [0, 180]
	Orb        float64 // |Separation - Angle|
}

// Name returns the conventional name of a target angle.
func Name(angle float64) string {
	switch angle {
	case 0:
		return "conjunction"
	case 30:
		return "semi-sextile"
	case 45:
		return "semi-square"
	case 60:
		return "sextile"
	case 90:
		return "square"
	case 120:
		return "trine"
	case 135:
		return "sesquiquadrate"
	case 150:
		return "quincunx"
	case 180:
		return "opposition"
	default:
		return "aspect"
	}
}

// Find returns every pair of longitudes whose separation lies within orb of
// one of angles. When a pair matches several targets the tightest wins.
// Results are ordered by (I, J).
func Find(lons []float64, angles []float64, orb float64) []Aspect {
	if len(angles) == 0 || orb < 0 {
		return nil
	}

	var out []Aspect
	for i := 0; i < len(lons); i++ {
		for j := i + 1; j < len(lons); j++ {
			sep := timeutil.Separation(lons[i], lons[j])

			best := Aspect{I: i, J: j, Separation: sep, Orb: orb + 1}
			for _, a := range angles {
				if d := math.Abs(sep - a); d <= orb && d < best.Orb {
					best.Angle = a
					best.Orb = d
				}
			}
			if best.Orb <= orb {
				out = append(out, best)
			}
		}
	}
	return out
}

// Rules maps a point's index to the forward sign distances (1..12) it casts
// drishti onto.
type Rules map[int][]int

// Link is a directional drishti relation: From aspects To.
type Link struct {
	From, To int
	Distance int // SignDistance(sign(From), sign(To)), 1..12
}

// Drishti applies sign-based rules. signs holds each point's sign index
// (0..11). For every point with rules, each other point at an allowed
// forward sign distance receives a link. The relation is directional: a
// link From→To says nothing about To→From. Links are ordered by (From, To).
func Drishti(signs []int, rules Rules) []Link {
	var out []Link
	for from := range signs {
		allowed := rules[from]
		if len(allowed) == 0 {
			continue
		}
		for to := range signs {
			if to == from {
				continue
			}
			d := zodiac.SignDistance(signs[from], signs[to])
			if slices.Contains(allowed, d) {
				out = append(out, Link{From: from, To: to, Distance: d})
			}
		}
	}
	return out
}
