package astrowheel

import (
	"testing"
	"time"

	"github.com/thurmanmarka/astrowheel/internal/ascendant"
	"github.com/thurmanmarka/astrowheel/internal/timeutil"
	"github.com/thurmanmarka/astrowheel/internal/zodiac"
)

// TestDebugChart logs full charts for a handful of locations so positions can
// be eyeballed against a published ephemeris.
//
// It is intentionally non-failing and meant to be run manually as:
//
//	go test -run TestDebugChart -v
func TestDebugChart(t *testing.T) {
	cases := []struct {
		name   string
		coords Coordinates
		when   time.Time
		zodiac Frame
	}{
		{"Phoenix tropical 2025-11-30", Coordinates{Lat: 33.4484, Lon: -112.0740},
			time.Date(2025, time.November, 30, 19, 0, 0, 0, time.UTC), Tropical},
		{"Delhi sidereal 2024-01-22", Coordinates{Lat: 28.6139, Lon: 77.2090},
			time.Date(2024, time.January, 22, 7, 0, 0, 0, time.UTC), Sidereal},
		{"Tromsø tropical 2024-12-21", Coordinates{Lat: 69.6492, Lon: 18.9553},
			time.Date(2024, time.December, 21, 12, 0, 0, 0, time.UTC), Tropical},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Zodiac = tc.zodiac
			cfg.ShowDrishti = true

			c, err := Compute(tc.when, tc.coords, cfg)
			if err != nil {
				t.Logf("[%s] error from Compute: %v", tc.name, err)
				return
			}

			t.Logf("[%s] JD %.5f  LST %.4fh  ε %.5f°  ayanamsha %.4f°",
				tc.name, c.JD, c.LST, c.Obliquity, c.Ayanamsha)
			t.Logf("  Ascendant: %s (defined=%v, az %.2f°)",
				zodiac.FormatDMS(c.Ascendant.Longitude), c.Ascendant.Defined, c.Ascendant.Azimuth)
			t.Logf("  Midheaven: %s", zodiac.FormatDMS(c.Midheaven))
			for _, p := range c.Placements {
				t.Logf("  %-8s %s  %-11s %s %-18s pada %d  house %2d  %+.3f°/d lvl %d",
					p.Body, zodiac.FormatDMS(p.Longitude), p.SignName(English),
					zodiac.FormatDM(zodiac.SignOf(p.Longitude)), p.NakshatraName(English),
					p.Pada, p.House, p.Speed, p.LabelLevel)
			}
			for _, a := range c.Aspects {
				t.Logf("  aspect %v %s %v (orb %.2f°)", a.A, a.Name(), a.B, a.Orb)
			}
			t.Logf("  lunar: %s, tithi %d %s (%s)", c.Lunar.Name, c.Lunar.Tithi, c.Lunar.TithiName(), c.Lunar.Paksha)
		})
	}
}

// TestDebugAscendantMethods logs where the closed-form ascendant disagrees
// with the root-finding one across latitudes.
func TestDebugAscendantMethods(t *testing.T) {
	eps := ascendant.MeanObliquityJ2000
	for _, lat := range []float64{0, 30, 60, 66, 67, 70, 80} {
		worst, worstLST := 0.0, 0.0
		for lst := 0.0; lst < 360; lst += 3 {
			root := ascendant.Compute(ascendant.RootFinding, lst, eps, lat)
			closed := ascendant.Compute(ascendant.ClosedForm, lst, eps, lat)
			if !root.Defined {
				continue
			}
			if d := timeutil.Separation(root.Longitude, closed.Longitude); d > worst {
				worst, worstLST = d, lst
			}
		}
		t.Logf("lat %5.1f°: max disagreement %.6f° at LST %.0f°", lat, worst, worstLST)
	}
}
