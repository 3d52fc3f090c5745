package astrowheel

import (
	"math"

	"github.com/thurmanmarka/astrowheel/internal/timeutil"
)

// tithiWidth is the elongation covered by one lunar day.
const tithiWidth = 12.0

// LunarPhase describes the Moon's phase from the Sun-Moon elongation.
type LunarPhase struct {
	Elongation float64 `json:"elongation"` // Moon − Sun in ecliptic longitude [0, 360)
	Fraction   float64 `json:"fraction"`   // illuminated fraction [0..1], 0=new, 1=full
	Waxing     bool    `json:"waxing"`
	Name       string  `json:"name"`   // e.g. "New Moon", "Waxing Crescent", ...
	Tithi      int     `json:"tithi"`  // lunar day 1..30
	Paksha     string  `json:"paksha"` // "Shukla" (bright half) or "Krishna" (dark half)
}

var tithiNames = [15]string{
	"Pratipada", "Dwitiya", "Tritiya", "Chaturthi", "Panchami",
	"Shashthi", "Saptami", "Ashtami", "Navami", "Dashami",
	"Ekadashi", "Dwadashi", "Trayodashi", "Chaturdashi", "Purnima",
}

// TithiName returns the name of the lunar day within its paksha. The 30th
// tithi is Amavasya.
func (l LunarPhase) TithiName() string {
	switch {
	case l.Tithi < 1 || l.Tithi > 30:
		return ""
	case l.Tithi == 30:
		return "Amavasya"
	case l.Tithi > 15:
		return tithiNames[l.Tithi-16]
	default:
		return tithiNames[l.Tithi-1]
	}
}

// lunarPhase derives phase and tithi from tropical Sun and Moon longitudes.
// Ecliptic latitude is ignored, so Fraction is approximate by up to about
// half a percent.
func lunarPhase(sunLon, moonLon float64) LunarPhase {
	elong := timeutil.Normalize360(moonLon - sunLon)

	fraction := 0.5 * (1 - timeutil.CosD(elong))
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}

	waxing := elong < 180.0
	tithi := int(math.Floor(elong/tithiWidth)) + 1
	if tithi > 30 {
		tithi = 30
	}
	paksha := "Shukla"
	if tithi > 15 {
		paksha = "Krishna"
	}

	return LunarPhase{
		Elongation: elong,
		Fraction:   fraction,
		Waxing:     waxing,
		Name:       classifyMoonPhaseName(fraction, waxing),
		Tithi:      tithi,
		Paksha:     paksha,
	}
}

func classifyMoonPhaseName(f float64, waxing bool) string {
	const (
		eps        = 0.01 // near 0 or 1
		quarterTol = 0.05 // fraction window around 0.5
	)

	switch {
	case f < eps:
		return "New Moon"
	case f > 1-eps:
		return "Full Moon"
	case math.Abs(f-0.5) < quarterTol:
		if waxing {
			return "First Quarter"
		}
		return "Last Quarter"
	case f < 0.5:
		if waxing {
			return "Waxing Crescent"
		}
		return "Waning Crescent"
	default: // f > 0.5 but not near 1
		if waxing {
			return "Waxing Gibbous"
		}
		return "Waning Gibbous"
	}
}
