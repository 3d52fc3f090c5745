// Package cli implements the astrowheel command-line interface.
//
// # Commands
//
//   - chart: print placements, ascendant and aspects as a table (or JSON)
//   - export: write the chart as SVG, PNG, CSV, TSV or JSON
//   - ascendant: compare the root-finding and closed-form ascendant
//   - play: step through time interactively
//   - serve: serve charts over HTTP
//
// Settings come from a TOML file (--config, or ./astrowheel.toml when
// present). Chart flags override the file for a single run.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// carried on the command context.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/thurmanmarka/astrowheel"
	"github.com/thurmanmarka/astrowheel/internal/config"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version. The main
// package calls it with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the CLI with os.Args.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

type rootOpts struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOpts{}

	root := &cobra.Command{
		Use:          "astrowheel",
		Short:        "astrowheel draws tropical and sidereal chart wheels",
		Long:         `astrowheel computes planetary placements, the ascendant, houses, aspects and drishti for an instant and place, and renders them as a zodiac wheel.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if opts.verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("astrowheel %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "TOML config file (default ./"+config.DefaultFileName+" when present)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newChartCmd(opts))
	root.AddCommand(newExportCmd(opts))
	root.AddCommand(newAscendantCmd(opts))
	root.AddCommand(newPlayCmd(opts))
	root.AddCommand(newServeCmd(opts))

	return root
}

// resolvedConfigPath returns --config, or the default file name unless it is
// missing from the working directory, or "" for built-in defaults.
func (o *rootOpts) resolvedConfigPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	if _, err := os.Stat(config.DefaultFileName); errors.Is(err, fs.ErrNotExist) {
		return ""
	}
	return config.DefaultFileName
}

// chartFlags override [observer] and [chart] for one invocation.
type chartFlags struct {
	time      string
	timezone  string
	lat, lon  float64
	zodiac    string
	ayanamsha float64
	preset    string
	houses    string
	method    string
	script    string
	orb       float64
	outer     bool
	aspects   bool
	drishti   bool
	meanNode  bool
	grid      bool
}

func (cf *chartFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&cf.time, "time", "t", "", "instant, RFC 3339 or YYYY-MM-DDTHH:MM in --tz (default now)")
	fl.StringVar(&cf.timezone, "tz", "", "IANA time zone for times without an offset")
	fl.Float64Var(&cf.lat, "lat", 0, "observer latitude in degrees, north positive")
	fl.Float64Var(&cf.lon, "lon", 0, "observer longitude in degrees, east positive")
	fl.StringVar(&cf.zodiac, "zodiac", "", "tropical or sidereal")
	fl.Float64Var(&cf.ayanamsha, "ayanamsha", 0, "manual ayanamsha in degrees (replaces the preset)")
	fl.StringVar(&cf.preset, "preset", "", "ayanamsha preset: lahiri, raman, krishnamurti, fagan-bradley")
	fl.StringVar(&cf.houses, "houses", "", "house system: none, equal, whole-sign")
	fl.StringVar(&cf.method, "method", "", "ascendant method: root-finding or closed-form")
	fl.StringVar(&cf.script, "script", "", "label script: english, sanskrit, devanagari")
	fl.Float64Var(&cf.orb, "orb", 0, "aspect orb in degrees")
	fl.BoolVar(&cf.outer, "outer", false, "plot Uranus, Neptune and Pluto")
	fl.BoolVar(&cf.aspects, "aspects", false, "compute geometric aspects")
	fl.BoolVar(&cf.drishti, "drishti", false, "compute sign-based drishti")
	fl.BoolVar(&cf.meanNode, "mean-node", false, "use the mean lunar node instead of the true node")
	fl.BoolVar(&cf.grid, "grid", false, "draw the nakshatra grid")
}

// apply copies every flag the user set onto f.
func (cf *chartFlags) apply(cmd *cobra.Command, f *config.File) {
	fl := cmd.Flags()
	set := func(name string, fn func()) {
		if fl.Changed(name) {
			fn()
		}
	}
	set("time", func() { f.Observer.Time = cf.time })
	set("tz", func() { f.Observer.Timezone = cf.timezone })
	set("lat", func() { f.Observer.Lat = cf.lat })
	set("lon", func() { f.Observer.Lon = cf.lon })
	set("zodiac", func() { f.Chart.Zodiac = cf.zodiac })
	set("preset", func() { f.Chart.AyanamshaPreset = cf.preset })
	set("ayanamsha", func() {
		f.Chart.Ayanamsha = cf.ayanamsha
		f.Chart.AyanamshaPreset = ""
	})
	set("houses", func() { f.Chart.Houses = cf.houses })
	set("method", func() { f.Chart.AscendantMethod = cf.method })
	set("script", func() { f.Chart.LabelScript = cf.script })
	set("orb", func() { f.Chart.AspectOrb = cf.orb })
	set("outer", func() { f.Chart.OuterPlanets = cf.outer })
	set("aspects", func() { f.Chart.Aspects = cf.aspects })
	set("drishti", func() { f.Chart.Drishti = cf.drishti })
	set("mean-node", func() { f.Chart.MeanNode = cf.meanNode })
	set("grid", func() { f.Chart.NakshatraGrid = cf.grid })
}

// session is everything a command needs to compute charts.
type session struct {
	file   config.File
	path   string
	engine *astrowheel.Engine
	cfg    astrowheel.Config
	coords astrowheel.Coordinates
	when   time.Time
	logger *charmlog.Logger
}

func newSession(cmd *cobra.Command, opts *rootOpts, cf *chartFlags) (*session, error) {
	logger := loggerFromContext(cmd.Context())

	path := opts.resolvedConfigPath()
	f, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if path != "" {
		logger.Debug("loaded config", "path", path)
	}
	if cf != nil {
		cf.apply(cmd, &f)
	}

	cfg, err := f.ChartConfig()
	if err != nil {
		return nil, err
	}
	if err := f.Coordinates().Validate(); err != nil {
		return nil, err
	}
	when, err := f.Instant(time.Now())
	if err != nil {
		return nil, err
	}

	engineOpts, err := f.EngineOptions()
	if err != nil {
		return nil, err
	}
	engine, err := astrowheel.NewEngine(append(engineOpts, astrowheel.WithLogger(logger))...)
	if err != nil {
		return nil, err
	}
	logger.Debug("engine ready", "ephemeris", engine.EphemerisName())

	return &session{
		file:   f,
		path:   path,
		engine: engine,
		cfg:    cfg,
		coords: f.Coordinates(),
		when:   when,
		logger: logger,
	}, nil
}

func (s *session) compute(t time.Time) (astrowheel.Chart, error) {
	return s.engine.Compute(t, s.coords, s.cfg)
}
