package zodiac

import (
	"sort"
	"strings"

	"github.com/thurmanmarka/astrowheel/internal/timeutil"
)

// PrecessionRate is the general precession in longitude, degrees per Julian
// year (50.29″/yr).
const PrecessionRate = 50.290966 / 3600.0

// Preset is a named ayanamsha, anchored at J2000.0.
type Preset struct {
	Name  string
	J2000 float64 // degrees at JD 2451545.0
}

var presets = map[string]Preset{
	"lahiri":        {Name: "Lahiri", J2000: 23.853},
	"raman":         {Name: "Raman", J2000: 22.411},
	"krishnamurti":  {Name: "Krishnamurti", J2000: 23.760},
	"fagan-bradley": {Name: "Fagan/Bradley", J2000: 24.740},
}

var presetAliases = map[string]string{
	"kp":            "krishnamurti",
	"fagan":         "fagan-bradley",
	"faganbradley":  "fagan-bradley",
	"fagan/bradley": "fagan-bradley",
	"chitrapaksha":  "lahiri",
}

// LookupPreset finds a preset by key or alias, case-insensitively.
func LookupPreset(name string) (Preset, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := presetAliases[key]; ok {
		key = alias
	}
	p, ok := presets[key]
	return p, ok
}

// PresetNames lists the canonical preset keys in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for k := range presets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// At returns the preset's ayanamsha for a date given in Julian years since
// J2000.0.
func (p Preset) At(yearsSinceJ2000 float64) float64 {
	return p.J2000 + PrecessionRate*yearsSinceJ2000
}

// PresetValue resolves a named preset for the Julian day jd.
func PresetValue(name string, jd float64) (float64, bool) {
	p, ok := LookupPreset(name)
	if !ok {
		return 0, false
	}
	return p.At((jd - timeutil.J2000) / timeutil.DaysPerJulianYear), true
}
