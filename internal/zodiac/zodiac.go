// Package zodiac maps ecliptic longitudes onto signs (rasi), nakshatras and
// padas, and converts between the tropical and sidereal frames.
package zodiac

import (
	"fmt"
	"math"

	"github.com/thurmanmarka/astrowheel/internal/timeutil"
)

const (
	// SignWidth is the arc of one sign.
	SignWidth = 30.0
	// NakshatraWidth is the arc of one nakshatra, 13°20′.
	NakshatraWidth = 360.0 / 27.0
	// PadaWidth is the arc of one pada, 3°20′.
	PadaWidth = NakshatraWidth / 4.0
)

// SignPosition locates a longitude within its sign.
type SignPosition struct {
	Index  int     // 0 = Aries .. 11 = Pisces
	Degree int     // whole degrees into the sign, 0..29
	Minute int     // whole arcminutes past Degree, 0..59
	Offset float64 // exact degrees into the sign, [0, 30)
}

// NakshatraPosition locates a longitude within its nakshatra.
type NakshatraPosition struct {
	Index  int     // 0 = Ashwini .. 26 = Revati
	Pada   int     // 1..4
	Offset float64 // degrees into the nakshatra, [0, 13.333)
}

// SignOf returns the sign and in-sign degree/minute of lon.
func SignOf(lon float64) SignPosition {
	l := timeutil.Normalize360(lon)
	idx := int(math.Floor(l / SignWidth))
	if idx > 11 {
		idx = 11
	}
	off := l - float64(idx)*SignWidth

	deg := math.Floor(off)
	min := math.Floor((off - deg) * 60)
	if min > 59 {
		min = 59
	}

	return SignPosition{
		Index:  idx,
		Degree: int(deg),
		Minute: int(min),
		Offset: off,
	}
}

// NakshatraOf returns the nakshatra and pada of lon.
func NakshatraOf(lon float64) NakshatraPosition {
	l := timeutil.Normalize360(lon)
	idx := int(math.Floor(l / NakshatraWidth))
	if idx > 26 {
		idx = 26
	}
	off := l - float64(idx)*NakshatraWidth

	pada := int(math.Floor(off/PadaWidth)) + 1
	if pada < 1 {
		pada = 1
	} else if pada > 4 {
		pada = 4
	}

	return NakshatraPosition{
		Index:  idx,
		Pada:   pada,
		Offset: off,
	}
}

// ToSidereal subtracts the ayanamsha from a tropical longitude.
func ToSidereal(tropical, ayanamsha float64) float64 {
	return timeutil.Normalize360(tropical - ayanamsha)
}

// ToTropical adds the ayanamsha back onto a sidereal longitude.
func ToTropical(sidereal, ayanamsha float64) float64 {
	return timeutil.Normalize360(sidereal + ayanamsha)
}

// SignDistance counts signs forward from one sign index to another,
// 1-indexed and wrapping: the same sign is 1, the opposite sign is 7.
func SignDistance(from, to int) int {
	d := (to - from) % 12
	if d < 0 {
		d += 12
	}
	return d + 1
}

// FormatDM renders the in-sign position as 12°34′.
func FormatDM(p SignPosition) string {
	return fmt.Sprintf("%02d°%02d′", p.Degree, p.Minute)
}

// FormatDMS renders an arbitrary angle in [0, 360) as 123°45′06″.
func FormatDMS(lon float64) string {
	l := timeutil.Normalize360(lon)
	deg := math.Floor(l)
	rem := (l - deg) * 60
	min := math.Floor(rem)
	sec := math.Floor((rem - min) * 60)
	return fmt.Sprintf("%03d°%02d′%02d″", int(deg), int(min), int(sec))
}
