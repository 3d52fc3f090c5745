package main

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/thurmanmarka/astrowheel"
	"github.com/thurmanmarka/astrowheel/internal/ascendant"
)

func TestStats(t *testing.T) {
	var s stats
	if !math.IsNaN(s.avg()) {
		t.Error("empty avg should be NaN")
	}
	for _, v := range []float64{3, math.NaN(), -1, 4} {
		s.add(v)
	}
	if s.count != 3 || s.min != -1 || s.max != 4 || s.avg() != 2 {
		t.Errorf("stats = %+v avg %v", s, s.avg())
	}

	var buf bytes.Buffer
	s.print(&buf, "Test", "avg")
	if !strings.Contains(buf.String(), "count: 3") {
		t.Errorf("print output %q", buf.String())
	}
}

func TestSweep_BelowPolarCircle(t *testing.T) {
	cfg := sweepConfig{latMax: 60, latStep: 15, lstStep: 10, eps: ascendant.MeanObliquityJ2000}
	emitted := 0
	res := sweep(cfg, func(sweepRow) { emitted++ })

	if res.samples != 9*36 || emitted != res.samples {
		t.Fatalf("samples %d, emitted %d, want %d", res.samples, emitted, 9*36)
	}
	if res.undefined != 0 {
		t.Errorf("%d samples without a crossing", res.undefined)
	}
	if res.flips != 0 {
		t.Errorf("%d branch flips below the polar circle", res.flips)
	}
	if res.abs.max > 1e-6 {
		t.Errorf("max disagreement %v°", res.abs.max)
	}
}

func TestSweep_PolarFlips(t *testing.T) {
	cfg := sweepConfig{latMax: 80, latStep: 80, lstStep: 10, eps: ascendant.MeanObliquityJ2000}
	res := sweep(cfg, nil)
	if res.samples != 3*36 {
		t.Fatalf("samples = %d", res.samples)
	}
	if res.flips == 0 {
		t.Error("closed form never disagreed at ±80°")
	}
	t.Logf("flips=%d abs avg=%.3f max=%.3f", res.flips, res.abs.avg(), res.abs.max)
}

const reference = `date,time,body,lon
2024-03-20,03:06,Sun,0.0
2024-03-20,03:06,moon,not-a-number
2024-03-20,Vulcan,12
2024-03-20,Sun,359.5
bad-date,00:00,Sun,1
2024-03-20
`

func TestReadReference(t *testing.T) {
	rows, errs := readReference(strings.NewReader(reference), time.UTC)
	if len(rows) != 2 {
		t.Fatalf("%d rows, want 2", len(rows))
	}
	if len(errs) != 4 {
		t.Errorf("%d errors, want 4: %v", len(errs), errs)
	}

	if want := time.Date(2024, 3, 20, 3, 6, 0, 0, time.UTC); !rows[0].when.Equal(want) || rows[0].body != astrowheel.Sun {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].line != 5 || !rows[1].when.Equal(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)) || rows[1].lon != 359.5 {
		t.Errorf("row 1 = %+v", rows[1])
	}
}

func TestCompare_Equinox(t *testing.T) {
	rows, _ := readReference(strings.NewReader(reference), time.UTC)

	var emitted int
	res, err := compare(rows[:1], astrowheel.Coordinates{}, astrowheel.DefaultConfig(),
		func(r refRow, p astrowheel.Placement, errArcmin float64) {
			emitted++
			t.Logf("%v ref %.4f got %.4f err %.2f′", r.body, r.lon, p.Tropical, errArcmin)
		})
	if err != nil {
		t.Fatal(err)
	}
	if emitted != 1 {
		t.Errorf("emitted %d rows", emitted)
	}
	if s := res.abs[astrowheel.Sun]; s == nil || s.max > 3 {
		t.Errorf("Sun error at the equinox: %+v", s)
	}

	cfg := astrowheel.DefaultConfig()
	cfg.ShowOuterPlanets = false
	pluto := []refRow{{line: 1, when: rows[0].when, body: astrowheel.Pluto, lon: 301}}
	if _, err := compare(pluto, astrowheel.Coordinates{}, cfg, nil); err == nil {
		t.Error("unplotted body accepted")
	}
}
