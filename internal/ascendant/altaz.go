// Package ascendant finds the ecliptic longitude rising on the eastern
// horizon for a local sidereal angle, obliquity and geographic latitude.
//
// All angles in and out of this package are degrees.
package ascendant

import (
	"math"

	"github.com/thurmanmarka/astrowheel/internal/timeutil"
)

// MaxLatitude bounds |φ| so that tan(φ) and cos(φ) stay finite.
const MaxLatitude = 89.9999

// cosAltFloor keeps the azimuth division finite at the zenith.
const cosAltFloor = 1e-12

// ClampLatitude limits lat to (-MaxLatitude, MaxLatitude).
func ClampLatitude(lat float64) float64 {
	return timeutil.Clamp(lat, -MaxLatitude, MaxLatitude)
}

// EclipticToEquatorial converts an ecliptic longitude on the ecliptic
// (latitude 0) into right ascension [0, 360) and declination.
func EclipticToEquatorial(lon, eps float64) (ra, dec float64) {
	l := timeutil.Deg2Rad(lon)
	e := timeutil.Deg2Rad(eps)

	ra = timeutil.Rad2Deg(math.Atan2(math.Sin(l)*math.Cos(e), math.Cos(l)))
	dec = timeutil.Rad2Deg(math.Asin(timeutil.Clamp(math.Sin(l)*math.Sin(e), -1, 1)))
	return timeutil.Normalize360(ra), dec
}

// AltAz returns the horizontal altitude and azimuth (north = 0, east = 90)
// of the ecliptic point at longitude lon, for obliquity eps, latitude lat
// and local sidereal angle theta.
func AltAz(lon, eps, lat, theta float64) (alt, az float64) {
	// λ = 360 and λ = 0 must evaluate identically so a full-circle scan
	// closes without a spurious gap.
	ra, dec := EclipticToEquatorial(timeutil.Normalize360(lon), eps)

	// Hour angle H = θ - α, in (-180, 180].
	H := timeutil.Deg2Rad(timeutil.Normalize180(theta - ra))
	δ := timeutil.Deg2Rad(dec)
	φ := timeutil.Deg2Rad(ClampLatitude(lat))

	sinφ, cosφ := math.Sincos(φ)
	sinδ, cosδ := math.Sincos(δ)

	sinAlt := timeutil.Clamp(sinφ*sinδ+cosφ*cosδ*math.Cos(H), -1, 1)
	altRad := math.Asin(sinAlt)

	cosAlt := math.Cos(altRad)
	if cosAlt < cosAltFloor {
		cosAlt = cosAltFloor
	}

	sinAz := -math.Sin(H) * cosδ / cosAlt
	cosAz := (sinδ - sinAlt*sinφ) / (cosAlt * cosφ)

	return timeutil.Rad2Deg(altRad), timeutil.Normalize360(timeutil.Rad2Deg(math.Atan2(sinAz, cosAz)))
}
