// Package houses derives the twelve house cusps from the ascendant.
package houses

import (
	"fmt"
	"math"

	"github.com/thurmanmarka/astrowheel/internal/timeutil"
)

// System selects how cusps are spaced.
type System int

const (
	// None disables houses.
	None System = iota
	// Equal places cusp k at asc + 30k.
	Equal
	// WholeSign places cusp k at the start of the ascendant's sign + 30k.
	WholeSign
)

func (s System) String() string {
	switch s {
	case None:
		return "none"
	case Equal:
		return "equal"
	case WholeSign:
		return "whole-sign"
	default:
		return "unknown"
	}
}

// ParseSystem maps a config value onto a System.
func ParseSystem(s string) (System, bool) {
	switch s {
	case "", "none", "off":
		return None, true
	case "equal":
		return Equal, true
	case "whole-sign", "whole", "wholesign":
		return WholeSign, true
	default:
		return None, false
	}
}

// MarshalText encodes the system name.
func (s System) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a system name.
func (s *System) UnmarshalText(b []byte) error {
	v, ok := ParseSystem(string(b))
	if !ok {
		return fmt.Errorf("unknown house system %q", b)
	}
	*s = v
	return nil
}

// Cusps returns the twelve cusp longitudes, cusp 1 first. It returns nil
// for None.
func Cusps(sys System, asc float64) []float64 {
	var first float64
	switch sys {
	case Equal:
		first = timeutil.Normalize360(asc)
	case WholeSign:
		first = math.Floor(timeutil.Normalize360(asc)/30) * 30
	default:
		return nil
	}

	cusps := make([]float64, 12)
	for k := range cusps {
		cusps[k] = timeutil.Normalize360(first + 30*float64(k))
	}
	return cusps
}

// HouseOf returns the 1-based house containing lon, or 0 when cusps is
// not a full set.
func HouseOf(cusps []float64, lon float64) int {
	if len(cusps) != 12 {
		return 0
	}
	l := timeutil.Normalize360(lon)
	for k := 0; k < 12; k++ {
		start := cusps[k]
		width := timeutil.Normalize360(cusps[(k+1)%12] - start)
		if width == 0 {
			width = 360
		}
		if timeutil.Normalize360(l-start) < width {
			return k + 1
		}
	}
	return 12
}
