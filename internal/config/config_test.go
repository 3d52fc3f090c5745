package config

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/thurmanmarka/astrowheel"
)

const sample = `
[observer]
lat = 28.6139
lon = 77.2090
time = "2024-01-22T12:30"
timezone = "Asia/Kolkata"

[chart]
zodiac = "sidereal"
ayanamsha_preset = "krishnamurti"
houses = "whole-sign"
label_script = "devanagari"
outer_planets = false
drishti = true
aspect_orb = 4.5

[drishti]
Saturn = [3, 10]
rahu = []

[playback]
step = "6h"
interval = "100ms"

[server]
addr = "127.0.0.1:9090"
`

func TestDefault(t *testing.T) {
	f := Default()
	if err := f.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}

	cfg, err := f.ChartConfig()
	if err != nil {
		t.Fatal(err)
	}
	want := astrowheel.DefaultConfig()
	if cfg.Zodiac != want.Zodiac || cfg.Houses != want.Houses || cfg.ShowOuterPlanets != want.ShowOuterPlanets ||
		cfg.AspectOrb != want.AspectOrb || len(cfg.DrishtiRules) != len(want.DrishtiRules) {
		t.Errorf("default chart config %+v differs from library default %+v", cfg, want)
	}
}

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	cfg, err := f.ChartConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Zodiac != astrowheel.Sidereal || cfg.Houses != astrowheel.HousesWholeSign {
		t.Errorf("zodiac/houses = %v/%v", cfg.Zodiac, cfg.Houses)
	}
	if cfg.LabelScript != astrowheel.Devanagari {
		t.Errorf("label script = %v", cfg.LabelScript)
	}
	if cfg.ShowOuterPlanets || !cfg.ShowDrishti || !cfg.ShowAspects {
		t.Errorf("toggles outer=%v drishti=%v aspects=%v", cfg.ShowOuterPlanets, cfg.ShowDrishti, cfg.ShowAspects)
	}
	if cfg.AspectOrb != 4.5 || cfg.AyanamshaPreset != "krishnamurti" {
		t.Errorf("orb %v preset %q", cfg.AspectOrb, cfg.AyanamshaPreset)
	}

	// [drishti] overrides per body and keeps the rest.
	if got := cfg.DrishtiRules[astrowheel.Saturn]; len(got) != 2 || got[0] != 3 || got[1] != 10 {
		t.Errorf("Saturn drishti = %v", got)
	}
	if got := cfg.DrishtiRules[astrowheel.Rahu]; len(got) != 0 {
		t.Errorf("Rahu drishti = %v, want none", got)
	}
	if got := cfg.DrishtiRules[astrowheel.Mars]; len(got) != 3 {
		t.Errorf("Mars drishti = %v, want default", got)
	}

	p := f.PlaybackSettings()
	if p.Step != 6*time.Hour || p.Interval != 100*time.Millisecond || p.Max != Default().Playback.Max {
		t.Errorf("playback = %+v", p)
	}
	if f.Server.Addr != "127.0.0.1:9090" || f.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("server = %+v", f.Server)
	}

	tm, err := f.Instant(time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2024, 1, 22, 7, 0, 0, 0, time.UTC); !tm.Equal(want) {
		t.Errorf("Instant = %v, want %v", tm.UTC(), want)
	}
}

func TestParse_ManualAyanamsha(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		preset string
		want   float64
	}{
		{"manual only", "[chart]\nzodiac = \"sidereal\"\nayanamsha = 20.0\n", "", 20},
		{"preset wins when named", "[chart]\nzodiac = \"sidereal\"\nayanamsha = 20.0\nayanamsha_preset = \"lahiri\"\n", "lahiri", 0},
		{"default preset", "[chart]\nzodiac = \"sidereal\"\n", "lahiri", 0},
	}
	loc := astrowheel.Coordinates{Lat: 28.6139, Lon: 77.2090}
	at := time.Date(2024, 1, 22, 7, 0, 0, 0, time.UTC)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.doc))
			if err != nil {
				t.Fatal(err)
			}
			cfg, err := f.ChartConfig()
			if err != nil {
				t.Fatal(err)
			}
			if cfg.AyanamshaPreset != tt.preset {
				t.Errorf("preset = %q, want %q", cfg.AyanamshaPreset, tt.preset)
			}
			c, err := astrowheel.Compute(at, loc, cfg)
			if err != nil {
				t.Fatal(err)
			}
			if tt.preset == "" && c.Ayanamsha != tt.want {
				t.Errorf("ayanamsha = %v, want %v", c.Ayanamsha, tt.want)
			}
			if tt.preset != "" && (c.Ayanamsha < 24 || c.Ayanamsha > 24.3) {
				t.Errorf("lahiri ayanamsha = %v", c.Ayanamsha)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		is   error
	}{
		{"unknown key", "[chart]\ncolour = \"red\"\n", ErrUnknownKey},
		{"unknown section", "[styling]\nx = 1\n", ErrUnknownKey},
		{"syntax", "[chart\n", nil},
		{"bad duration", "[playback]\nstep = \"soon\"\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error %v is not %v", err, tt.is)
			}
		})
	}
}

func TestChartConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*File)
		is     error
	}{
		{"zodiac", func(f *File) { f.Chart.Zodiac = "galactic" }, astrowheel.ErrInvalidConfig},
		{"houses", func(f *File) { f.Chart.Houses = "placidus" }, astrowheel.ErrInvalidConfig},
		{"method", func(f *File) { f.Chart.AscendantMethod = "guess" }, astrowheel.ErrInvalidConfig},
		{"preset", func(f *File) { f.Chart.AyanamshaPreset = "nope" }, astrowheel.ErrUnknownPreset},
		{"drishti body", func(f *File) { f.Drishti["Vulcan"] = []int{7} }, astrowheel.ErrUnknownBody},
		{"drishti distance", func(f *File) { f.Drishti["Mars"] = []int{0} }, astrowheel.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Default()
			tt.mutate(&f)
			if _, err := f.ChartConfig(); !errors.Is(err, tt.is) {
				t.Errorf("ChartConfig() error = %v, want %v", err, tt.is)
			}
			if err := f.Validate(); err == nil {
				t.Error("Validate() accepted an invalid file")
			}
		})
	}
}

func TestValidate_Sections(t *testing.T) {
	f := Default()
	f.Observer.Lat = 123
	if err := f.Validate(); !errors.Is(err, astrowheel.ErrInvalidCoordinates) {
		t.Errorf("latitude 123: %v", err)
	}

	f = Default()
	f.Playback.Min, f.Playback.Max = time.Hour, -time.Hour
	if err := f.Validate(); err == nil {
		t.Error("inverted playback window accepted")
	}

	f = Default()
	f.Observer.Timezone = "Mars/Olympus_Mons"
	if err := f.Validate(); err == nil {
		t.Error("unknown timezone accepted")
	}
}

func TestParseTime(t *testing.T) {
	phx, err := time.LoadLocation("America/Phoenix")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-11-30T12:00:00Z", time.Date(2025, 11, 30, 12, 0, 0, 0, time.UTC)},
		{"2025-11-30T12:00", time.Date(2025, 11, 30, 19, 0, 0, 0, time.UTC)},
		{"2025-11-30 05:30", time.Date(2025, 11, 30, 12, 30, 0, 0, time.UTC)},
		{"2025-11-30", time.Date(2025, 11, 30, 7, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseTime(tt.in, phx)
		if err != nil {
			t.Errorf("ParseTime(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseTime(%q) = %v, want %v", tt.in, got.UTC(), tt.want)
		}
	}
	if _, err := ParseTime("yesterday", phx); err == nil {
		t.Error("expected error")
	}
}

func TestEngineOptions(t *testing.T) {
	f := Default()
	if opts, err := f.EngineOptions(); err != nil || len(opts) != 0 {
		t.Errorf("analytic: %v, %v", opts, err)
	}

	f.Ephemeris.Provider = "vsop87"
	if _, err := f.EngineOptions(); err == nil {
		t.Error("vsop87 without a directory accepted")
	}
	f.Ephemeris.VSOP87Dir = t.TempDir()
	opts, err := f.EngineOptions()
	if err != nil || len(opts) != 1 {
		t.Fatalf("vsop87: %v, %v", opts, err)
	}
	if _, err := astrowheel.NewEngine(opts...); err == nil {
		t.Error("engine loaded VSOP87 from an empty directory")
	}

	f.Ephemeris.Provider = "de440"
	if _, err := f.EngineOptions(); err == nil {
		t.Error("unknown provider accepted")
	}
}

func TestLoad(t *testing.T) {
	if f, err := Load(""); err != nil || f.Server.Addr != ":8080" {
		t.Errorf("Load(\"\") = %+v, %v", f.Server, err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file accepted")
	}

	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.Observer.Lat != 28.6139 {
		t.Errorf("lat = %v", f.Observer.Lat)
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	if err := os.WriteFile(path, []byte("[observer]\nlat = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	files, err := Watch(ctx, path, log.New(io.Discard))
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	go func() {
		time.Sleep(100 * time.Millisecond)
		os.WriteFile(filepath.Join(dir, "other.toml"), []byte("ignored"), 0o644)
		os.WriteFile(path, []byte("[observer]\nlat = 42\n"), 0o644)
	}()

	for {
		select {
		case f, ok := <-files:
			if !ok {
				t.Fatal("channel closed before the reload arrived")
			}
			// A truncating write can surface as an empty file first.
			if f.Observer.Lat == 42 {
				cancel()
				for range files {
				}
				return
			}
		case <-ctx.Done():
			t.Fatal("timeout waiting for reload")
		}
	}
}
