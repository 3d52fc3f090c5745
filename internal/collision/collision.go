// Package collision assigns radial bump levels to wheel labels that would
// otherwise overlap.
package collision

import (
	"sort"

	"github.com/thurmanmarka/astrowheel/internal/timeutil"
)

// Bump returns a level for each longitude, in input order. Longitudes are
// walked once around the circle in ascending order, starting just after the
// widest empty arc so that a cluster straddling 0° stays contiguous. Each
// entry closer than minSep to its predecessor gets the predecessor's level
// plus one; any other entry resets to level 0.
func Bump(lons []float64, minSep float64) []int {
	levels := make([]int, len(lons))
	if len(lons) < 2 || minSep <= 0 {
		return levels
	}

	order := make([]int, len(lons))
	for i := range order {
		order[i] = i
	}
	norm := make([]float64, len(lons))
	for i, l := range lons {
		norm[i] = timeutil.Normalize360(l)
	}
	sort.SliceStable(order, func(a, b int) bool { return norm[order[a]] < norm[order[b]] })

	// gap k is the arc from order[k-1] forward to order[k]; gap 0 wraps
	// from the last entry through 360.
	n := len(order)
	start, widest := 0, -1.0
	for k := 0; k < n; k++ {
		prev := order[(k-1+n)%n]
		gap := norm[order[k]] - norm[prev]
		if k == 0 {
			gap += 360
		}
		if gap > widest {
			start, widest = k, gap
		}
	}

	for step := 1; step < n; step++ {
		k := (start + step) % n
		cur, prev := order[k], order[(k-1+n)%n]
		gap := norm[cur] - norm[prev]
		if gap < 0 {
			gap += 360
		}
		if gap < minSep {
			levels[cur] = levels[prev] + 1
		}
	}
	return levels
}

// MaxLevel returns the largest level in levels, or 0.
func MaxLevel(levels []int) int {
	m := 0
	for _, l := range levels {
		if l > m {
			m = l
		}
	}
	return m
}
