// Package config loads astrowheel settings from a TOML file.
//
// A file is optional: Default returns the same chart the library computes with
// astrowheel.DefaultConfig, observed from Greenwich. Keys present in the file
// override the defaults; absent keys keep them.
//
//	[observer]
//	lat = 33.4484
//	lon = -112.0740
//	time = "2025-11-30T12:00"
//	timezone = "America/Phoenix"
//
//	[chart]
//	zodiac = "sidereal"
//	ayanamsha_preset = "lahiri"
//	houses = "whole-sign"
//
//	[drishti]
//	Saturn = [3, 7, 10]
//
//	[playback]
//	step = "6h"
//
//	[server]
//	addr = ":8080"
//
//	[ephemeris]
//	provider = "vsop87"
//	vsop87_dir = "/usr/share/vsop87"
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/thurmanmarka/astrowheel"
	"github.com/thurmanmarka/astrowheel/internal/aspect"
	"github.com/thurmanmarka/astrowheel/internal/playback"
)

// DefaultFileName is looked up in the working directory when no path is given.
const DefaultFileName = "astrowheel.toml"

// ErrUnknownKey is returned when a file contains keys this package does not
// recognise.
var ErrUnknownKey = errors.New("config: unknown key")

// File mirrors the TOML document. Drishti holds per-body overrides of
// astrowheel.DefaultDrishtiRules keyed by body name.
type File struct {
	Observer  Observer         `toml:"observer"`
	Chart     Chart            `toml:"chart"`
	Drishti   map[string][]int `toml:"drishti"`
	Playback  Playback         `toml:"playback"`
	Server    Server           `toml:"server"`
	Ephemeris Ephemeris        `toml:"ephemeris"`
}

type Observer struct {
	Lat       float64 `toml:"lat"`
	Lon       float64 `toml:"lon"`
	Elevation float64 `toml:"elevation"`
	Time      string  `toml:"time"`     // RFC 3339 or 2006-01-02T15:04; empty means now
	Timezone  string  `toml:"timezone"` // IANA name used for times without an offset
}

type Chart struct {
	Zodiac          string    `toml:"zodiac"`
	Ayanamsha       float64   `toml:"ayanamsha"`
	AyanamshaPreset string    `toml:"ayanamsha_preset"`
	Houses          string    `toml:"houses"`
	AscendantMethod string    `toml:"ascendant_method"`
	LabelScript     string    `toml:"label_script"`
	OuterPlanets    bool      `toml:"outer_planets"`
	NakshatraGrid   bool      `toml:"nakshatra_grid"`
	Aspects         bool      `toml:"aspects"`
	Drishti         bool      `toml:"drishti"`
	MeanNode        bool      `toml:"mean_node"`
	AspectOrb       float64   `toml:"aspect_orb"`
	AspectAngles    []float64 `toml:"aspect_angles"`
	LabelSeparation float64   `toml:"label_separation"`
	Size            float64   `toml:"size"` // wheel width in pixels
}

type Playback struct {
	Step     time.Duration `toml:"step"`
	Min      time.Duration `toml:"min"`
	Max      time.Duration `toml:"max"`
	Interval time.Duration `toml:"interval"`
}

type Server struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

type Ephemeris struct {
	Provider  string `toml:"provider"` // analytic or vsop87
	VSOP87Dir string `toml:"vsop87_dir"`
}

// Default returns the settings used when no file is present.
func Default() File {
	c := astrowheel.DefaultConfig()
	p := playback.DefaultSettings()

	return File{
		Observer: Observer{Timezone: "UTC"},
		Chart: Chart{
			Zodiac:          c.Zodiac.String(),
			Ayanamsha:       c.Ayanamsha,
			AyanamshaPreset: c.AyanamshaPreset,
			Houses:          c.Houses.String(),
			AscendantMethod: c.AscendantMethod.String(),
			LabelScript:     c.LabelScript.String(),
			OuterPlanets:    c.ShowOuterPlanets,
			NakshatraGrid:   c.ShowNakshatraGrid,
			Aspects:         c.ShowAspects,
			Drishti:         c.ShowDrishti,
			MeanNode:        c.UseMeanNode,
			AspectOrb:       c.AspectOrb,
			AspectAngles:    slices.Clone(aspect.DefaultAngles),
			LabelSeparation: c.LabelSeparation,
			Size:            720,
		},
		Drishti:  map[string][]int{},
		Playback: Playback{Step: p.Step, Min: p.Min, Max: p.Max, Interval: p.Interval},
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Ephemeris: Ephemeris{Provider: "analytic"},
	}
}

// Parse decodes a TOML document over the defaults.
func Parse(data []byte) (File, error) {
	f := Default()
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return File{}, fmt.Errorf("config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return File{}, fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(keys, ", "))
	}
	// A manual ayanamsha replaces the default preset unless the file names
	// one too.
	if md.IsDefined("chart", "ayanamsha") && !md.IsDefined("chart", "ayanamsha_preset") {
		f.Chart.AyanamshaPreset = ""
	}
	return f, nil
}

// Load reads path. An empty path returns Default.
func Load(path string) (File, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("config: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ChartConfig converts the [chart] and [drishti] sections.
func (f File) ChartConfig() (astrowheel.Config, error) {
	c := astrowheel.DefaultConfig()
	var err error

	if c.Zodiac, err = astrowheel.ParseFrame(strings.ToLower(f.Chart.Zodiac)); err != nil {
		return c, err
	}
	if c.Houses, err = astrowheel.ParseHouseSystem(strings.ToLower(f.Chart.Houses)); err != nil {
		return c, err
	}
	if c.AscendantMethod, err = astrowheel.ParseAscendantMethod(strings.ToLower(f.Chart.AscendantMethod)); err != nil {
		return c, err
	}
	if c.LabelScript, err = astrowheel.ParseScript(strings.ToLower(f.Chart.LabelScript)); err != nil {
		return c, err
	}

	c.Ayanamsha = f.Chart.Ayanamsha
	c.AyanamshaPreset = strings.ToLower(f.Chart.AyanamshaPreset)
	c.ShowOuterPlanets = f.Chart.OuterPlanets
	c.ShowNakshatraGrid = f.Chart.NakshatraGrid
	c.ShowAspects = f.Chart.Aspects
	c.ShowDrishti = f.Chart.Drishti
	c.UseMeanNode = f.Chart.MeanNode
	c.AspectOrb = f.Chart.AspectOrb
	c.AspectAngles = slices.Clone(f.Chart.AspectAngles)
	c.LabelSeparation = f.Chart.LabelSeparation

	seen := make(map[astrowheel.Body]string, len(f.Drishti))
	for name, ds := range f.Drishti {
		b, err := astrowheel.ParseBody(name)
		if err != nil {
			return c, fmt.Errorf("config: [drishti] %w", err)
		}
		if prev, dup := seen[b]; dup {
			return c, fmt.Errorf("%w: [drishti] %q and %q name the same body", astrowheel.ErrInvalidConfig, prev, name)
		}
		seen[b] = name
		c.DrishtiRules[b] = slices.Clone(ds)
	}

	return c, c.Validate()
}

// Coordinates returns the [observer] location.
func (f File) Coordinates() astrowheel.Coordinates {
	return astrowheel.Coordinates{Lat: f.Observer.Lat, Lon: f.Observer.Lon, Elevation: f.Observer.Elevation}
}

// Location loads the observer's time zone.
func (f File) Location() (*time.Location, error) {
	if f.Observer.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(f.Observer.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone: %w", err)
	}
	return loc, nil
}

// Instant resolves [observer].time, returning now when it is empty.
func (f File) Instant(now time.Time) (time.Time, error) {
	loc, err := f.Location()
	if err != nil {
		return time.Time{}, err
	}
	if f.Observer.Time == "" {
		return now.In(loc), nil
	}
	return ParseTime(f.Observer.Time, loc)
}

var timeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime accepts RFC 3339 or a local date/time interpreted in loc.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("config: invalid time %q (use RFC 3339 or YYYY-MM-DDTHH:MM)", s)
}

// PlaybackSettings converts the [playback] section.
func (f File) PlaybackSettings() playback.Settings {
	return playback.Settings{
		Step:     f.Playback.Step,
		Min:      f.Playback.Min,
		Max:      f.Playback.Max,
		Interval: f.Playback.Interval,
	}
}

// EngineOptions selects the ephemeris named in [ephemeris].
func (f File) EngineOptions() ([]astrowheel.Option, error) {
	switch strings.ToLower(f.Ephemeris.Provider) {
	case "", "analytic", "meeus":
		return nil, nil
	case "vsop87":
		if f.Ephemeris.VSOP87Dir == "" {
			return nil, errors.New("config: [ephemeris] vsop87 needs vsop87_dir")
		}
		return []astrowheel.Option{astrowheel.WithVSOP87(f.Ephemeris.VSOP87Dir)}, nil
	default:
		return nil, fmt.Errorf("config: unknown ephemeris provider %q", f.Ephemeris.Provider)
	}
}

// Validate checks every section that can be checked without I/O.
func (f File) Validate() error {
	if err := f.Coordinates().Validate(); err != nil {
		return err
	}
	if _, err := f.ChartConfig(); err != nil {
		return err
	}
	if err := f.PlaybackSettings().Validate(); err != nil {
		return err
	}
	if f.Chart.Size <= 0 {
		return fmt.Errorf("config: chart size %v must be positive", f.Chart.Size)
	}
	if _, err := f.Location(); err != nil {
		return err
	}
	return nil
}
