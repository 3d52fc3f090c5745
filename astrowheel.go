// Package astrowheel computes zodiac-wheel charts: the positions of the Sun,
// Moon, planets and lunar nodes for an instant and observer, projected onto
// signs, nakshatras and houses in the tropical or sidereal frame, together
// with the ascendant, aspects, drishti and retrograde status.
//
// The public API is small:
//   - Compute builds a Chart with the default analytic ephemeris.
//   - NewEngine builds an Engine with a different ephemeris or a logger.
//   - AscendantAt exposes the horizon-crossing solver directly.
//
// Rendering, export and the command-line tool live in internal packages.
package astrowheel

import (
	"errors"
	"fmt"
	"math"

	"github.com/thurmanmarka/astrowheel/internal/ascendant"
	"github.com/thurmanmarka/astrowheel/internal/ephemeris"
	"github.com/thurmanmarka/astrowheel/internal/houses"
	"github.com/thurmanmarka/astrowheel/internal/zodiac"
)

// Body identifies a plotted point.
type Body = ephemeris.Body

const (
	Sun     = ephemeris.Sun
	Moon    = ephemeris.Moon
	Mercury = ephemeris.Mercury
	Venus   = ephemeris.Venus
	Mars    = ephemeris.Mars
	Jupiter = ephemeris.Jupiter
	Saturn  = ephemeris.Saturn
	Uranus  = ephemeris.Uranus
	Neptune = ephemeris.Neptune
	Pluto   = ephemeris.Pluto
	Rahu    = ephemeris.Rahu // ascending lunar node
	Ketu    = ephemeris.Ketu // descending lunar node
)

// Coordinates represent an observer's location.
type Coordinates struct {
	Lat       float64 `json:"lat"`                 // degrees, north positive
	Lon       float64 `json:"lon"`                 // degrees, east positive (west negative, e.g. -105 for 105°W)
	Elevation float64 `json:"elevation,omitempty"` // meters above sea level (reserved for future use)
}

// Validate rejects non-finite or out-of-range coordinates.
func (c Coordinates) Validate() error {
	for _, v := range []float64{c.Lat, c.Lon, c.Elevation} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value in %+v", ErrInvalidCoordinates, c)
		}
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %v outside [-90, 90]", ErrInvalidCoordinates, c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("%w: longitude %v outside [-180, 180]", ErrInvalidCoordinates, c.Lon)
	}
	return nil
}

var (
	// ErrInvalidCoordinates is returned for observer coordinates that are
	// out of range or not finite.
	ErrInvalidCoordinates = errors.New("invalid observer coordinates")

	// ErrUnknownBody is returned for body names or identifiers that are not
	// part of the chart.
	ErrUnknownBody = ephemeris.ErrUnknownBody

	// ErrUnknownPreset is returned for an ayanamsha preset name that is not
	// recognized.
	ErrUnknownPreset = errors.New("unknown ayanamsha preset")

	// ErrInvalidConfig is returned when a Config fails validation.
	ErrInvalidConfig = errors.New("invalid chart configuration")
)

// ParseBody looks a body up by name, case-insensitively.
func ParseBody(s string) (Body, error) { return ephemeris.ParseBody(s) }

// Frame is the zodiac reference frame.
type Frame int

const (
	// Tropical measures longitude from the equinox of date.
	Tropical Frame = iota
	// Sidereal subtracts the ayanamsha from tropical longitude.
	Sidereal
)

func (f Frame) String() string {
	switch f {
	case Tropical:
		return "tropical"
	case Sidereal:
		return "sidereal"
	default:
		return "unknown"
	}
}

// MarshalText encodes the frame name.
func (f Frame) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// UnmarshalText decodes a frame name.
func (f *Frame) UnmarshalText(b []byte) error {
	v, err := ParseFrame(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// ParseFrame maps "tropical"/"sidereal" (and "vedic") onto a Frame.
func ParseFrame(s string) (Frame, error) {
	switch s {
	case "", "tropical", "western":
		return Tropical, nil
	case "sidereal", "vedic":
		return Sidereal, nil
	default:
		return Tropical, fmt.Errorf("%w: zodiac %q", ErrInvalidConfig, s)
	}
}

// AscendantMethod selects the ascendant strategy.
type AscendantMethod = ascendant.Method

const (
	// RootFinding scans the ecliptic for horizon crossings. It is the default.
	RootFinding = ascendant.RootFinding
	// ClosedForm evaluates a single atan2 expression; it may return the
	// setting point above the polar circles.
	ClosedForm = ascendant.ClosedForm
)

// ParseAscendantMethod maps a config/flag value onto a method.
func ParseAscendantMethod(s string) (AscendantMethod, error) {
	m, ok := ascendant.ParseMethod(s)
	if !ok {
		return m, fmt.Errorf("%w: ascendant method %q", ErrInvalidConfig, s)
	}
	return m, nil
}

// ParseScript maps a config/flag value onto a label script.
func ParseScript(s string) (Script, error) {
	v, ok := zodiac.ParseScript(s)
	if !ok {
		return v, fmt.Errorf("%w: label script %q", ErrInvalidConfig, s)
	}
	return v, nil
}

// ParseHouseSystem maps a config/flag value onto a house system.
func ParseHouseSystem(s string) (HouseSystem, error) {
	v, ok := houses.ParseSystem(s)
	if !ok {
		return v, fmt.Errorf("%w: house system %q", ErrInvalidConfig, s)
	}
	return v, nil
}

// Script selects the label alphabet.
type Script = zodiac.Script

const (
	English    = zodiac.English
	Sanskrit   = zodiac.Sanskrit
	Devanagari = zodiac.Devanagari
)

// HouseSystem selects how house cusps are derived from the ascendant.
type HouseSystem = houses.System

const (
	HousesNone      = houses.None
	HousesEqual     = houses.Equal
	HousesWholeSign = houses.WholeSign
)
