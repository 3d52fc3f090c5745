package ascendant

import (
	"fmt"
	"math"

	"github.com/thurmanmarka/astrowheel/internal/solver"
	"github.com/thurmanmarka/astrowheel/internal/timeutil"
)

// MeanObliquityJ2000 is the mean obliquity of the ecliptic at J2000.0,
// used when the obliquity of date is unavailable.
const MeanObliquityJ2000 = 23.4392911

const (
	// ScanStep is the sampling interval in ecliptic longitude.
	ScanStep = 5.0
	// Iterations is the number of bisection steps per bracket.
	Iterations = solver.DefaultIterations
	// eastAzimuth is the azimuth of the due-east horizon point.
	eastAzimuth = 90.0
)

// Method selects the ascendant strategy.
type Method int

const (
	// RootFinding scans the ecliptic for horizon crossings and keeps the
	// one nearest due east.
	RootFinding Method = iota
	// ClosedForm evaluates the single atan2 expression. It gives no
	// guarantee about the branch near the polar circles.
	ClosedForm
)

func (m Method) String() string {
	switch m {
	case RootFinding:
		return "root-finding"
	case ClosedForm:
		return "closed-form"
	default:
		return "unknown"
	}
}

// ParseMethod maps a config value onto a Method.
func ParseMethod(s string) (Method, bool) {
	switch s {
	case "", "root", "root-finding", "scan":
		return RootFinding, true
	case "closed", "closed-form", "formula":
		return ClosedForm, true
	default:
		return RootFinding, false
	}
}

// MarshalText encodes the method name.
func (m Method) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText decodes a method name.
func (m *Method) UnmarshalText(b []byte) error {
	v, ok := ParseMethod(string(b))
	if !ok {
		return fmt.Errorf("unknown ascendant method %q", b)
	}
	*m = v
	return nil
}

// Result is the output of an ascendant computation.
//
// When Defined is false no horizon crossing exists for the inputs (for
// example the ecliptic is circumpolar) and Longitude is 0 by convention; it
// must not be read as an ascendant.
type Result struct {
	Longitude float64 // ecliptic longitude [0, 360)
	Azimuth   float64 // azimuth of that point on the horizon [0, 360)
	Defined   bool
	Crossings int // horizon crossings found by the scan (root finding only)
	Method    Method
}

// Compute dispatches to the requested method. Unknown methods fall back to
// root finding.
func Compute(method Method, theta, eps, lat float64) Result {
	if method == ClosedForm {
		return Closed(theta, eps, lat)
	}
	return Solve(theta, eps, lat)
}

// Solve finds the rising ecliptic longitude by scanning λ over [0, 360) for
// altitude sign changes and bisecting each bracket. Of all crossings the one
// whose azimuth is closest to 90° (east) is returned.
func Solve(theta, eps, lat float64) Result {
	res := Result{Method: RootFinding}
	if !timeutil.Finite(theta) || !timeutil.Finite(eps) || !timeutil.Finite(lat) {
		return res
	}

	lat = ClampLatitude(lat)
	altitude := func(lon float64) float64 {
		alt, _ := AltAz(lon, eps, lat, theta)
		return alt
	}

	crossings := solver.FindCrossings(altitude, 0, 360, ScanStep, solver.CrossingAny, Iterations)
	res.Crossings = len(crossings)
	if len(crossings) == 0 {
		return res
	}

	best := math.Inf(1)
	for _, lon := range crossings {
		_, az := AltAz(lon, eps, lat, theta)
		if d := timeutil.Separation(az, eastAzimuth); d < best {
			best = d
			res.Longitude = timeutil.Normalize360(lon)
			res.Azimuth = az
		}
	}
	res.Defined = true
	return res
}

// Closed evaluates λ = atan2(cos θ, −(sin θ cos ε + tan φ sin ε)), the
// eastern horizon point. atan2(sin θ cos ε + tan φ sin ε, cos θ) is the same
// point less 90°.
func Closed(theta, eps, lat float64) Result {
	res := Result{Method: ClosedForm}

	θ := timeutil.Deg2Rad(theta)
	ε := timeutil.Deg2Rad(eps)
	φ := timeutil.Deg2Rad(ClampLatitude(lat))

	lon := timeutil.Rad2Deg(math.Atan2(math.Cos(θ), -(math.Sin(θ)*math.Cos(ε) + math.Tan(φ)*math.Sin(ε))))
	if !timeutil.Finite(lon) {
		return res
	}

	res.Longitude = timeutil.Normalize360(lon)
	_, res.Azimuth = AltAz(res.Longitude, eps, lat, theta)
	res.Defined = true
	return res
}

// Midheaven returns the ecliptic longitude culminating on the upper
// meridian: atan2(sin θ, cos θ cos ε).
func Midheaven(theta, eps float64) float64 {
	θ := timeutil.Deg2Rad(theta)
	ε := timeutil.Deg2Rad(eps)
	return timeutil.Normalize360(timeutil.Rad2Deg(math.Atan2(math.Sin(θ), math.Cos(θ)*math.Cos(ε))))
}
