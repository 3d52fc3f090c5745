package timeutil

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
)

// -----------------------------
// Time relative to J2000
// -----------------------------

const (
	// J2000 is the Julian day of the J2000.0 epoch.
	J2000 = base.J2000
	// DaysPerJulianYear is the length of a Julian year in days.
	DaysPerJulianYear = base.JulianYear
)

// JulianDay returns the Julian day (UT) for t.
func JulianDay(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// JulianCenturies returns centuries since J2000.0.
func JulianCenturies(t time.Time) float64 {
	return base.J2000Century(JulianDay(t))
}

// JulianYearsSinceJ2000 returns Julian years elapsed since J2000.0 for t.
// Negative before the epoch.
func JulianYearsSinceJ2000(t time.Time) float64 {
	return base.JDEToJulianYear(JulianDay(t)) - 2000.0
}

// -----------------------------
// Basic degree/radian helpers and trig with degree inputs.
// -----------------------------

func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180.0
}

func Rad2Deg(r float64) float64 {
	return r * 180.0 / math.Pi
}

func SinD(deg float64) float64 {
	return math.Sin(Deg2Rad(deg))
}

func CosD(deg float64) float64 {
	return math.Cos(Deg2Rad(deg))
}

func TanD(deg float64) float64 {
	return math.Tan(Deg2Rad(deg))
}

// Normalize360 folds d into [0, 360). Non-finite input yields 0.
func Normalize360(d float64) float64 {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0
	}
	d = math.Mod(d, 360.0)
	if d < 0 {
		d += 360.0
	}
	// -1e-14 + 360 rounds to 360.
	if d >= 360.0 {
		d = 0
	}
	return d
}

// Normalize180 folds d into (-180, 180].
func Normalize180(d float64) float64 {
	d = Normalize360(d)
	if d > 180.0 {
		d -= 360.0
	}
	return d
}

func Normalize24(h float64) float64 {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0
	}
	h = math.Mod(h, 24.0)
	if h < 0 {
		h += 24.0
	}
	if h >= 24.0 {
		h = 0
	}
	return h
}

// Separation returns the smaller arc between two longitudes, in [0, 180].
func Separation(a, b float64) float64 {
	return math.Abs(Normalize180(a - b))
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
