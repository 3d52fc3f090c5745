package ephemeris

import (
	"fmt"
	"math"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/kepler"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/planetelements"
	"github.com/soniakeys/meeus/v3/pluto"
	"github.com/soniakeys/meeus/v3/precess"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"

	"github.com/thurmanmarka/astrowheel/internal/timeutil"
)

const (
	// lightTimeDays is the light travel time for one AU, in days.
	lightTimeDays = 0.0057755183
	// kmPerAU converts the lunar distance.
	kmPerAU = 149597870.7
)

// elementIndex maps bodies onto planetelements constants. Earth is absent:
// its mean node coefficients are undefined, so it is taken from the solar
// theory instead.
var elementIndex = map[Body]int{
	Mercury: planetelements.Mercury,
	Venus:   planetelements.Venus,
	Mars:    planetelements.Mars,
	Jupiter: planetelements.Jupiter,
	Saturn:  planetelements.Saturn,
	Uranus:  planetelements.Uranus,
	Neptune: planetelements.Neptune,
}

// Analytic is the default provider. It needs no data files: the Sun and
// Moon come from the Meeus solar and lunar theories, the planets from mean
// orbital elements solved with Kepler's equation, and Pluto from the
// Chapter 37 series. Planet longitudes are good to a few tenths of a degree
// over 1900-2100, which is well inside one label on the wheel.
type Analytic struct{}

// NewAnalytic returns the analytic provider.
func NewAnalytic() *Analytic { return &Analytic{} }

func (*Analytic) Name() string { return "meeus-analytic" }

func (*Analytic) Position(b Body, jde float64) (Position, error) {
	switch {
	case b == Sun:
		return sunApparent(jde), nil
	case b == Moon:
		return moonApparent(jde), nil
	case b == Pluto:
		return geocentric(plutoHeliocentric, earthHeliocentric, jde), nil
	default:
		p, ok := elementIndex[b]
		if !ok {
			return Position{}, fmt.Errorf("%w: %v", ErrUnknownBody, b)
		}
		return geocentric(meanElements(p), earthHeliocentric, jde), nil
	}
}

func (*Analytic) SiderealTime(jd float64) float64 {
	return timeutil.Normalize24(sidereal.Apparent(jd).Hour())
}

func (*Analytic) Obliquity(jde float64) (float64, error) {
	return trueObliquity(jde)
}

func trueObliquity(jde float64) (float64, error) {
	_, Δε := nutation.Nutation(jde)
	eps := (nutation.MeanObliquity(jde) + Δε).Deg()
	if !timeutil.Finite(eps) {
		return 0, fmt.Errorf("obliquity undefined at JDE %.5f", jde)
	}
	return eps, nil
}

func sunApparent(jde float64) Position {
	T := base.J2000Century(jde)
	return Position{
		Lon:  timeutil.Normalize360(solar.ApparentLongitude(T).Deg()),
		Dist: solar.Radius(T),
	}
}

func moonApparent(jde float64) Position {
	λ, β, Δ := moonposition.Position(jde)
	Δψ, _ := nutation.Nutation(jde)
	return Position{
		Lon:  timeutil.Normalize360((λ + Δψ).Deg()),
		Lat:  β.Deg(),
		Dist: Δ / kmPerAU,
	}
}

// helioFunc returns heliocentric ecliptic longitude, latitude (of date) and
// radius in AU.
type helioFunc func(jde float64) (l, b unit.Angle, r float64)

func earthHeliocentric(jde float64) (l, b unit.Angle, r float64) {
	T := base.J2000Century(jde)
	s, _ := solar.True(T)
	return (s + math.Pi).Mod1(), 0, solar.Radius(T)
}

func meanElements(p int) helioFunc {
	return func(jde float64) (unit.Angle, unit.Angle, float64) {
		var e planetelements.Elements
		planetelements.Mean(p, jde, &e)

		E := kepler.Kepler3(e.Ecc, e.Lon-e.Peri)
		ν := kepler.True(E, e.Ecc)
		r := kepler.Radius(E, e.Ecc, e.Axis)

		// argument of latitude
		u := ν + e.Peri - e.Node
		su, cu := u.Sincos()
		sΩ, cΩ := e.Node.Sincos()
		si, ci := e.Inc.Sincos()

		x := r * (cΩ*cu - sΩ*su*ci)
		y := r * (sΩ*cu + cΩ*su*ci)
		z := r * su * si
		return rect2sph(x, y, z)
	}
}

func plutoHeliocentric(jde float64) (unit.Angle, unit.Angle, float64) {
	l, b, r := pluto.Heliocentric(jde)
	from := &coord.Ecliptic{Lon: l, Lat: b}
	to := precess.NewEclipticPrecessor(2000, base.JDEToJulianYear(jde)).Precess(from, &coord.Ecliptic{})
	return to.Lon.Mod1(), to.Lat, r
}

// geocentric reduces a heliocentric theory to an apparent geocentric
// position: one light-time iteration, then nutation in longitude.
func geocentric(planet, earth helioFunc, jde float64) Position {
	L0, B0, R0 := earth(jde)
	x0, y0, z0 := sph2rect(L0, B0, R0)

	delta := func(t float64) (x, y, z float64) {
		l, b, r := planet(t)
		px, py, pz := sph2rect(l, b, r)
		return px - x0, py - y0, pz - z0
	}

	x, y, z := delta(jde)
	Δ := math.Sqrt(x*x + y*y + z*z)
	x, y, z = delta(jde - lightTimeDays*Δ)

	λ, β, dist := rect2sph(x, y, z)
	Δψ, _ := nutation.Nutation(jde)
	return Position{
		Lon:  timeutil.Normalize360((λ + Δψ).Deg()),
		Lat:  β.Deg(),
		Dist: dist,
	}
}

func sph2rect(l, b unit.Angle, r float64) (x, y, z float64) {
	sl, cl := l.Sincos()
	sb, cb := b.Sincos()
	return r * cb * cl, r * cb * sl, r * sb
}

func rect2sph(x, y, z float64) (l, b unit.Angle, r float64) {
	r = math.Sqrt(x*x + y*y + z*z)
	l = unit.Angle(math.Atan2(y, x)).Mod1()
	b = unit.Angle(math.Atan2(z, math.Hypot(x, y)))
	return l, b, r
}
