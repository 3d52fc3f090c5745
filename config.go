package astrowheel

import (
	"fmt"
	"math"
	"slices"

	"github.com/thurmanmarka/astrowheel/internal/aspect"
	"github.com/thurmanmarka/astrowheel/internal/ephemeris"
	"github.com/thurmanmarka/astrowheel/internal/zodiac"
)

const (
	// DefaultLabelSeparation is the minimum arc between labels before they
	// are bumped outwards, in degrees.
	DefaultLabelSeparation = 6.0

	// DefaultAyanamshaPreset is used for sidereal charts with no explicit
	// ayanamsha.
	DefaultAyanamshaPreset = "lahiri"
)

// Config enumerates every chart toggle. The zero value is not useful; start
// from DefaultConfig.
type Config struct {
	ShowOuterPlanets  bool `json:"show_outer_planets"`
	ShowNakshatraGrid bool `json:"show_nakshatra_grid"`
	ShowAspects       bool `json:"show_aspects"`
	ShowDrishti       bool `json:"show_drishti"`
	UseMeanNode       bool `json:"use_mean_node"`

	Zodiac Frame `json:"zodiac"`

	// Ayanamsha is the sidereal offset in degrees. It is used only when
	// AyanamshaPreset is empty.
	Ayanamsha float64 `json:"ayanamsha"`
	// AyanamshaPreset names a preset resolved for the chart date
	// (lahiri, raman, krishnamurti, fagan-bradley).
	AyanamshaPreset string `json:"ayanamsha_preset,omitempty"`

	LabelScript     Script          `json:"label_script"`
	Houses          HouseSystem     `json:"houses"`
	AscendantMethod AscendantMethod `json:"ascendant_method"`

	AspectOrb    float64   `json:"aspect_orb"`
	AspectAngles []float64 `json:"aspect_angles"`

	// DrishtiRules lists, per body, the forward sign distances it aspects.
	DrishtiRules map[Body][]int `json:"drishti_rules"`

	LabelSeparation float64 `json:"label_separation"`
}

// DefaultConfig returns a tropical chart with outer planets, aspects,
// equal houses and mean nodes.
func DefaultConfig() Config {
	return Config{
		ShowOuterPlanets:  true,
		ShowNakshatraGrid: true,
		ShowAspects:       true,
		ShowDrishti:       false,
		UseMeanNode:       true,
		Zodiac:            Tropical,
		AyanamshaPreset:   DefaultAyanamshaPreset,
		LabelScript:       English,
		Houses:            HousesEqual,
		AscendantMethod:   RootFinding,
		AspectOrb:         aspect.DefaultOrb,
		AspectAngles:      slices.Clone(aspect.DefaultAngles),
		DrishtiRules:      DefaultDrishtiRules(),
		LabelSeparation:   DefaultLabelSeparation,
	}
}

// DefaultDrishtiRules returns the traditional graha drishti: every body
// aspects the 7th sign from itself, Mars adds the 4th and 8th, Jupiter and
// the nodes the 5th and 9th, Saturn the 3rd and 10th. The outer planets
// cast none.
func DefaultDrishtiRules() map[Body][]int {
	return map[Body][]int{
		Sun:     {7},
		Moon:    {7},
		Mercury: {7},
		Venus:   {7},
		Mars:    {4, 7, 8},
		Jupiter: {5, 7, 9},
		Saturn:  {3, 7, 10},
		Rahu:    {5, 7, 9},
		Ketu:    {5, 7, 9},
	}
}

// Validate reports the first problem with c, wrapped in ErrInvalidConfig or
// ErrUnknownPreset.
func (c Config) Validate() error {
	if c.Zodiac != Tropical && c.Zodiac != Sidereal {
		return fmt.Errorf("%w: zodiac %d", ErrInvalidConfig, c.Zodiac)
	}
	if math.IsNaN(c.Ayanamsha) || math.IsInf(c.Ayanamsha, 0) || math.Abs(c.Ayanamsha) > 360 {
		return fmt.Errorf("%w: ayanamsha %v", ErrInvalidConfig, c.Ayanamsha)
	}
	if c.AyanamshaPreset != "" {
		if _, ok := zodiac.LookupPreset(c.AyanamshaPreset); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownPreset, c.AyanamshaPreset)
		}
	}
	if !(c.AspectOrb >= 0 && c.AspectOrb <= 30) {
		return fmt.Errorf("%w: aspect orb %v outside [0, 30]", ErrInvalidConfig, c.AspectOrb)
	}
	for _, a := range c.AspectAngles {
		if !(a >= 0 && a <= 180) {
			return fmt.Errorf("%w: aspect angle %v outside [0, 180]", ErrInvalidConfig, a)
		}
	}
	for b, ds := range c.DrishtiRules {
		if b < Sun || b > Ketu {
			return fmt.Errorf("%w: drishti rule for %v", ErrUnknownBody, b)
		}
		for _, d := range ds {
			if d < 1 || d > 12 {
				return fmt.Errorf("%w: drishti distance %d for %v outside 1..12", ErrInvalidConfig, d, b)
			}
		}
	}
	if !(c.LabelSeparation >= 0) {
		return fmt.Errorf("%w: label separation %v", ErrInvalidConfig, c.LabelSeparation)
	}
	if c.LabelScript < English || c.LabelScript > Devanagari {
		return fmt.Errorf("%w: label script %d", ErrInvalidConfig, c.LabelScript)
	}
	if c.Houses < HousesNone || c.Houses > HousesWholeSign {
		return fmt.Errorf("%w: house system %d", ErrInvalidConfig, c.Houses)
	}
	return nil
}

// Bodies returns the bodies this config plots, in chart order.
func (c Config) Bodies() []Body {
	if c.ShowOuterPlanets {
		return ephemeris.All()
	}
	return ephemeris.Classical()
}

// ayanamshaFor resolves the ayanamsha for the Julian day jd. Tropical
// charts resolve to 0.
func (c Config) ayanamshaFor(jd float64) (float64, error) {
	if c.Zodiac != Sidereal {
		return 0, nil
	}
	if c.AyanamshaPreset == "" {
		return c.Ayanamsha, nil
	}
	v, ok := zodiac.PresetValue(c.AyanamshaPreset, jd)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPreset, c.AyanamshaPreset)
	}
	return v, nil
}
