package ephemeris

import (
	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/moonposition"

	"github.com/thurmanmarka/astrowheel/internal/timeutil"
)

// MeanNode returns the longitude of the mean ascending lunar node:
//
//	Ω = 125.0445479 − 1934.1362891 T + 0.0020754 T² + T³/467441 − T⁴/60616000
//
// with T in Julian centuries since J2000.0.
func MeanNode(jde float64) float64 {
	T := base.J2000Century(jde)
	return timeutil.Normalize360(base.Horner(T,
		125.0445479, -1934.1362891, 0.0020754, 1.0/467441, -1.0/60616000))
}

// TrueNode returns the longitude of the ascending node of the osculating
// lunar orbit.
func TrueNode(jde float64) float64 {
	correction := moonposition.TrueNode(jde) - moonposition.Node(jde)
	return timeutil.Normalize360(MeanNode(jde) + correction.Deg())
}

// Nodes returns Rahu and Ketu, the ascending node and the point opposite it.
func Nodes(jde float64, mean bool) (rahu, ketu float64) {
	if mean {
		rahu = MeanNode(jde)
	} else {
		rahu = TrueNode(jde)
	}
	return rahu, timeutil.Normalize360(rahu + 180)
}
