// Command astrowheel-profiler measures how far the chart engine drifts from
// a reference.
//
// Two modes are available. The default sweeps latitude and local sidereal
// time and compares the closed-form ascendant against root finding:
//
//	astrowheel-profiler -lat-max 80 -lat-step 1 -lst-step 1 -outcsv sweep.csv
//
// With -refcsv it compares tropical longitudes against a reference
// ephemeris export instead:
//
//	date,time,body,lon
//	2025-01-01,00:00,Sun,280.6532
//	2025-01-01,00:00,Moon,292.1170
//
// time is optional (midnight) and interpreted in -tz.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/thurmanmarka/astrowheel"
	"github.com/thurmanmarka/astrowheel/internal/ascendant"
	"github.com/thurmanmarka/astrowheel/internal/timeutil"
)

// branchFlip is the disagreement in degrees that counts as the closed form
// picking the other horizon crossing.
const branchFlip = 1.0

type stats struct {
	count int
	sum   float64
	min   float64
	max   float64
}

func (s *stats) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	if s.count == 0 {
		s.min, s.max = v, v
	} else {
		if v < s.min {
			s.min = v
		}
		if v > s.max {
			s.max = v
		}
	}
	s.sum += v
	s.count++
}

func (s *stats) avg() float64 {
	if s.count == 0 {
		return math.NaN()
	}
	return s.sum / float64(s.count)
}

func (s *stats) print(w io.Writer, title, avgLabel string) {
	fmt.Fprintf(w, "\n%s:\n", title)
	fmt.Fprintf(w, "  count: %d\n", s.count)
	fmt.Fprintf(w, "  min:   %.6f\n", s.min)
	fmt.Fprintf(w, "  max:   %.6f\n", s.max)
	fmt.Fprintf(w, "  %-6s %.6f\n", avgLabel+":", s.avg())
}

type sweepConfig struct {
	latMax  float64
	latStep float64
	lstStep float64
	eps     float64
}

type sweepRow struct {
	lat, lst     float64
	root, closed ascendant.Result
	diff, signed float64 // degrees, closed − root
}

type sweepResult struct {
	abs, signed stats
	flips       int
	undefined   int // root finding found no crossing
	samples     int
}

// sweep evaluates both ascendant methods on a latitude × LST grid and hands
// every sample to emit when it is non-nil.
func sweep(cfg sweepConfig, emit func(sweepRow)) sweepResult {
	var res sweepResult
	for lat := -cfg.latMax; lat <= cfg.latMax+1e-9; lat += cfg.latStep {
		for lst := 0.0; lst < 360; lst += cfg.lstStep {
			res.samples++
			row := sweepRow{
				lat:    lat,
				lst:    lst,
				root:   ascendant.Solve(lst, cfg.eps, lat),
				closed: ascendant.Closed(lst, cfg.eps, lat),
				diff:   math.NaN(),
				signed: math.NaN(),
			}
			if !row.root.Defined {
				res.undefined++
			} else if row.closed.Defined {
				row.diff = timeutil.Separation(row.closed.Longitude, row.root.Longitude)
				row.signed = timeutil.Normalize180(row.closed.Longitude - row.root.Longitude)
				res.abs.add(row.diff)
				res.signed.add(row.signed)
				if row.diff > branchFlip {
					res.flips++
				}
			}
			if emit != nil {
				emit(row)
			}
		}
	}
	return res
}

type refRow struct {
	line int
	when time.Time
	body astrowheel.Body
	lon  float64
}

// readReference parses date,time,body,lon rows. A header row is skipped and
// the time column may be omitted.
func readReference(r io.Reader, loc *time.Location) ([]refRow, []error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, []error{err}
	}

	var (
		rows []refRow
		errs []error
	)
	for i, rec := range records {
		if i == 0 && len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "date") {
			continue
		}
		for j := range rec {
			rec[j] = strings.TrimSpace(rec[j])
		}
		var dateS, timeS, bodyS, lonS string
		switch len(rec) {
		case 3:
			dateS, bodyS, lonS = rec[0], rec[1], rec[2]
		case 4:
			dateS, timeS, bodyS, lonS = rec[0], rec[1], rec[2], rec[3]
		default:
			errs = append(errs, fmt.Errorf("row %d: expected 3 or 4 columns, got %d", i+1, len(rec)))
			continue
		}

		stamp, layout := dateS, "2006-01-02"
		if timeS != "" {
			stamp, layout = dateS+" "+timeS, "2006-01-02 15:04"
			if strings.Count(timeS, ":") == 2 {
				layout = "2006-01-02 15:04:05"
			}
		}
		when, err := time.ParseInLocation(layout, stamp, loc)
		if err != nil {
			errs = append(errs, fmt.Errorf("row %d: %w", i+1, err))
			continue
		}
		body, err := astrowheel.ParseBody(bodyS)
		if err != nil {
			errs = append(errs, fmt.Errorf("row %d: %w", i+1, err))
			continue
		}
		lon, err := strconv.ParseFloat(lonS, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("row %d: longitude %q: %w", i+1, lonS, err))
			continue
		}
		rows = append(rows, refRow{line: i + 1, when: when, body: body, lon: lon})
	}
	return rows, errs
}

type refResult struct {
	abs    map[astrowheel.Body]*stats // arcminutes
	signed map[astrowheel.Body]*stats
}

// compare computes each reference instant and records the tropical
// longitude error per body. emit receives (row, error in arcminutes).
func compare(rows []refRow, coords astrowheel.Coordinates, cfg astrowheel.Config, emit func(refRow, astrowheel.Placement, float64)) (refResult, error) {
	res := refResult{abs: map[astrowheel.Body]*stats{}, signed: map[astrowheel.Body]*stats{}}
	cache := map[time.Time]astrowheel.Chart{}

	for _, r := range rows {
		c, ok := cache[r.when]
		if !ok {
			var err error
			c, err = astrowheel.Compute(r.when, coords, cfg)
			if err != nil {
				return res, fmt.Errorf("row %d: %w", r.line, err)
			}
			cache[r.when] = c
		}
		p, ok := c.Placement(r.body)
		if !ok {
			return res, fmt.Errorf("row %d: %v is not plotted", r.line, r.body)
		}

		signed := timeutil.Normalize180(p.Tropical-r.lon) * 60
		if res.abs[r.body] == nil {
			res.abs[r.body], res.signed[r.body] = &stats{}, &stats{}
		}
		res.abs[r.body].add(math.Abs(signed))
		res.signed[r.body].add(signed)
		if emit != nil {
			emit(r, p, signed)
		}
	}
	return res, nil
}

func main() {
	var (
		latMax  = flag.Float64("lat-max", 80, "sweep latitudes in [-lat-max, lat-max]")
		latStep = flag.Float64("lat-step", 1, "latitude step in degrees")
		lstStep = flag.Float64("lst-step", 1, "local sidereal time step in degrees")
		eps     = flag.Float64("eps", ascendant.MeanObliquityJ2000, "obliquity of the ecliptic in degrees")
		refCSV  = flag.String("refcsv", "", "reference ephemeris CSV (date,time,body,lon); switches to reference mode")
		tzName  = flag.String("tz", "UTC", "IANA time zone for reference dates")
		meanN   = flag.Bool("mean-node", true, "use the mean lunar node in reference mode")
		outCSV  = flag.String("outcsv", "", "optional path to write per-row CSV")
		verbose = flag.Bool("verbose", false, "log every row instead of only the summary")
	)
	flag.Parse()

	level := log.InfoLevel
	if *verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})

	var out *csv.Writer
	if *outCSV != "" {
		f, err := os.Create(*outCSV)
		if err != nil {
			logger.Fatal("create outcsv", "path", *outCSV, "err", err)
		}
		defer f.Close()
		out = csv.NewWriter(f)
		defer out.Flush()
	}

	if *refCSV != "" {
		runReference(logger, out, *refCSV, *tzName, *meanN)
		return
	}

	if *latStep <= 0 || *lstStep <= 0 || *latMax < 0 || *latMax > 90 {
		logger.Fatal("invalid sweep grid", "lat-max", *latMax, "lat-step", *latStep, "lst-step", *lstStep)
	}
	runSweep(logger, out, sweepConfig{latMax: *latMax, latStep: *latStep, lstStep: *lstStep, eps: *eps})
}

func runSweep(logger *log.Logger, out *csv.Writer, cfg sweepConfig) {
	if out != nil {
		writeRow(logger, out, []string{"lat", "lst", "root", "closed", "diff", "signed", "root_az", "closed_az", "crossings"})
	}

	res := sweep(cfg, func(r sweepRow) {
		if r.diff > branchFlip {
			logger.Debug("branch flip", "lat", r.lat, "lst", r.lst, "root", r.root.Longitude, "closed", r.closed.Longitude)
		}
		if out == nil {
			return
		}
		writeRow(logger, out, []string{
			f3(r.lat), f3(r.lst),
			f6(r.root.Longitude), f6(r.closed.Longitude),
			f6(r.diff), f6(r.signed),
			f3(r.root.Azimuth), f3(r.closed.Azimuth),
			strconv.Itoa(r.root.Crossings),
		})
	})

	w := os.Stdout
	fmt.Fprintln(w, "=== astrowheel profiler: ascendant methods ===")
	fmt.Fprintf(w, "Grid:    lat ±%.1f step %.2f, LST step %.2f\n", cfg.latMax, cfg.latStep, cfg.lstStep)
	fmt.Fprintf(w, "Eps:     %.7f\n", cfg.eps)
	fmt.Fprintf(w, "Samples: %d (%d without a horizon crossing)\n", res.samples, res.undefined)
	fmt.Fprintf(w, "Flips:   %d (closed form on the other crossing by more than %.0f°)\n", res.flips, branchFlip)
	if res.abs.count == 0 {
		fmt.Fprintln(w, "No comparable samples.")
		return
	}
	res.abs.print(w, "Closed form vs root finding (degrees)", "avg")
	res.signed.print(w, "Signed difference (degrees, closed − root)", "mean")
}

func runReference(logger *log.Logger, out *csv.Writer, path, tzName string, meanNode bool) {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		logger.Fatal("load timezone", "tz", tzName, "err", err)
	}
	f, err := os.Open(path)
	if err != nil {
		logger.Fatal("open refcsv", "path", path, "err", err)
	}
	defer f.Close()

	rows, errs := readReference(f, loc)
	for _, err := range errs {
		logger.Warn("skipping", "err", err)
	}
	if len(rows) == 0 {
		logger.Fatal("no usable reference rows", "path", path)
	}

	cfg := astrowheel.DefaultConfig()
	cfg.UseMeanNode = meanNode
	cfg.ShowAspects = false

	if out != nil {
		writeRow(logger, out, []string{"time", "body", "ref", "got", "err_arcmin"})
	}
	res, err := compare(rows, astrowheel.Coordinates{}, cfg, func(r refRow, p astrowheel.Placement, errArcmin float64) {
		logger.Debug("row", "time", r.when.Format(time.RFC3339), "body", r.body, "ref", r.lon, "got", p.Tropical, "err", errArcmin)
		if out != nil {
			writeRow(logger, out, []string{r.when.Format(time.RFC3339), r.body.String(), f6(r.lon), f6(p.Tropical), f3(errArcmin)})
		}
	})
	if err != nil {
		logger.Fatal("compare", "err", err)
	}

	w := os.Stdout
	fmt.Fprintln(w, "=== astrowheel profiler: reference longitudes ===")
	fmt.Fprintf(w, "File:  %s\n", path)
	fmt.Fprintf(w, "TZ:    %s\n", loc)
	fmt.Fprintf(w, "Rows:  %d (processed), %d skipped\n", len(rows), len(errs))
	for _, b := range astrowheel.DefaultConfig().Bodies() {
		if s := res.abs[b]; s != nil {
			s.print(w, b.String()+" error (arcminutes)", "avg")
			res.signed[b].print(w, b.String()+" signed error (arcminutes, ours − ref)", "mean")
		}
	}
}

func writeRow(logger *log.Logger, w *csv.Writer, rec []string) {
	if err := w.Write(rec); err != nil {
		logger.Error("write outcsv", "err", err)
	}
}

func f3(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }
func f6(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
