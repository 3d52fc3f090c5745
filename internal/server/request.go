package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/thurmanmarka/astrowheel"
	"github.com/thurmanmarka/astrowheel/internal/config"
)

// maxSize bounds rendered wheels so a query cannot ask for a huge PNG.
const maxSize = 4096

type chartRequest struct {
	time   time.Time
	coords astrowheel.Coordinates
	cfg    astrowheel.Config
	size   float64
}

// parseRequest layers the query string over the configured file. Every key
// is optional:
//
//	t          RFC 3339 or local time in the observer's zone
//	lat, lon   observer in degrees
//	zodiac     tropical | sidereal
//	ayanamsha  manual offset in degrees (clears the preset)
//	preset     ayanamsha preset name
//	houses     none | equal | whole-sign
//	method     ascendant method
//	script     english | sanskrit | devanagari
//	outer, aspects, drishti, mean_node, grid   booleans
//	orb        aspect orb in degrees
//	size       wheel width in pixels
func parseRequest(r *http.Request, f config.File, now time.Time) (chartRequest, error) {
	q := r.URL.Query()

	floats := []struct {
		key string
		dst *float64
	}{
		{"lat", &f.Observer.Lat},
		{"lon", &f.Observer.Lon},
		{"orb", &f.Chart.AspectOrb},
		{"size", &f.Chart.Size},
	}
	for _, p := range floats {
		if v := q.Get(p.key); v != "" {
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return chartRequest{}, fmt.Errorf("query %s: %w", p.key, err)
			}
			*p.dst = x
		}
	}

	if v := q.Get("ayanamsha"); v != "" {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return chartRequest{}, fmt.Errorf("query ayanamsha: %w", err)
		}
		f.Chart.Ayanamsha = x
		f.Chart.AyanamshaPreset = ""
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"t", &f.Observer.Time},
		{"zodiac", &f.Chart.Zodiac},
		{"preset", &f.Chart.AyanamshaPreset},
		{"houses", &f.Chart.Houses},
		{"method", &f.Chart.AscendantMethod},
		{"script", &f.Chart.LabelScript},
	}
	for _, p := range strs {
		if v := q.Get(p.key); v != "" {
			*p.dst = v
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"outer", &f.Chart.OuterPlanets},
		{"aspects", &f.Chart.Aspects},
		{"drishti", &f.Chart.Drishti},
		{"mean_node", &f.Chart.MeanNode},
		{"grid", &f.Chart.NakshatraGrid},
	}
	for _, p := range bools {
		if v := q.Get(p.key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return chartRequest{}, fmt.Errorf("query %s: %w", p.key, err)
			}
			*p.dst = b
		}
	}

	if !(f.Chart.Size > 0 && f.Chart.Size <= maxSize) {
		return chartRequest{}, fmt.Errorf("query size %v outside (0, %d]", f.Chart.Size, maxSize)
	}

	cfg, err := f.ChartConfig()
	if err != nil {
		return chartRequest{}, err
	}
	t, err := f.Instant(now)
	if err != nil {
		return chartRequest{}, err
	}
	return chartRequest{time: t, coords: f.Coordinates(), cfg: cfg, size: f.Chart.Size}, nil
}
