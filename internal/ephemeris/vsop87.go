package ephemeris

import (
	"fmt"

	pp "github.com/soniakeys/meeus/v3/planetposition"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"

	"github.com/thurmanmarka/astrowheel/internal/timeutil"
)

var vsopIndex = map[Body]int{
	Mercury: pp.Mercury,
	Venus:   pp.Venus,
	Mars:    pp.Mars,
	Jupiter: pp.Jupiter,
	Saturn:  pp.Saturn,
	Uranus:  pp.Uranus,
	Neptune: pp.Neptune,
}

// VSOP87 places the Sun and planets with the full VSOP87B theory read from
// a directory holding the VSOP87B.ear, VSOP87B.mer, ... files. The Moon and
// Pluto use the analytic theories.
type VSOP87 struct {
	dir     string
	earth   *pp.V87Planet
	planets map[Body]*pp.V87Planet
}

// LoadVSOP87 reads all eight VSOP87B series from dir. Missing or malformed
// files are reported with the file's body in the error.
func LoadVSOP87(dir string) (*VSOP87, error) {
	earth, err := pp.LoadPlanetPath(pp.Earth, dir)
	if err != nil {
		return nil, fmt.Errorf("load VSOP87 earth series from %s: %w", dir, err)
	}

	v := &VSOP87{
		dir:     dir,
		earth:   earth,
		planets: make(map[Body]*pp.V87Planet, len(vsopIndex)),
	}
	for b, idx := range vsopIndex {
		p, err := pp.LoadPlanetPath(idx, dir)
		if err != nil {
			return nil, fmt.Errorf("load VSOP87 %v series from %s: %w", b, dir, err)
		}
		v.planets[b] = p
	}
	return v, nil
}

func (v *VSOP87) Name() string { return "vsop87:" + v.dir }

func (v *VSOP87) Position(b Body, jde float64) (Position, error) {
	switch b {
	case Sun:
		λ, β, R := solar.ApparentVSOP87(v.earth, jde)
		return Position{Lon: timeutil.Normalize360(λ.Deg()), Lat: β.Deg(), Dist: R}, nil
	case Moon:
		return moonApparent(jde), nil
	case Pluto:
		return geocentric(plutoHeliocentric, v.earthOfDate, jde), nil
	}

	p, ok := v.planets[b]
	if !ok {
		return Position{}, fmt.Errorf("%w: %v", ErrUnknownBody, b)
	}
	return geocentric(p.Position, v.earthOfDate, jde), nil
}

func (v *VSOP87) earthOfDate(jde float64) (unit.Angle, unit.Angle, float64) {
	return v.earth.Position(jde)
}

func (*VSOP87) SiderealTime(jd float64) float64 {
	return timeutil.Normalize24(sidereal.Apparent(jd).Hour())
}

func (*VSOP87) Obliquity(jde float64) (float64, error) {
	return trueObliquity(jde)
}
