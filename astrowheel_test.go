package astrowheel_test

import (
	"fmt"
	"time"

	"github.com/thurmanmarka/astrowheel"
)

// ExampleCompute builds a sidereal chart for Phoenix and prints each body's
// sign and nakshatra.
func ExampleCompute() {
	loc := astrowheel.Coordinates{
		Lat: 33.4484,   // Phoenix, AZ
		Lon: -112.0740, // Phoenix longitude
	}

	cfg := astrowheel.DefaultConfig()
	cfg.Zodiac = astrowheel.Sidereal
	cfg.Houses = astrowheel.HousesWholeSign

	chart, err := astrowheel.Compute(time.Date(2025, time.November, 30, 19, 0, 0, 0, time.UTC), loc, cfg)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Ascendant: %.2f°\n", chart.Ascendant.Longitude)
	for _, p := range chart.Placements {
		retro := ""
		if p.Retrograde {
			retro = " R"
		}
		fmt.Printf("%-8s %-12s %s%s\n", p.Body, p.SignName(astrowheel.English), p.NakshatraName(astrowheel.English), retro)
	}
	// No // Output: block; positions depend on the ephemeris model.
}

// ExampleAscendantAt compares the two ascendant strategies.
func ExampleAscendantAt() {
	loc := astrowheel.Coordinates{Lat: 40.7128, Lon: -74.0060} // New York City
	t := time.Date(2025, time.June, 21, 12, 0, 0, 0, time.UTC)

	root, _ := astrowheel.AscendantAt(t, loc, astrowheel.RootFinding)
	closed, _ := astrowheel.AscendantAt(t, loc, astrowheel.ClosedForm)

	fmt.Printf("root-finding: %.4f°\n", root.Longitude)
	fmt.Printf("closed-form : %.4f°\n", closed.Longitude)
}

// ExampleNewEngine attaches a logger and reports the ephemeris in use.
func ExampleNewEngine() {
	eng, err := astrowheel.NewEngine()
	if err != nil {
		panic(err)
	}
	fmt.Println(eng.EphemerisName())
	// Output: meeus-analytic
}
