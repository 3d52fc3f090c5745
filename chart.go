package astrowheel

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/thurmanmarka/astrowheel/internal/ascendant"
	"github.com/thurmanmarka/astrowheel/internal/aspect"
	"github.com/thurmanmarka/astrowheel/internal/collision"
	"github.com/thurmanmarka/astrowheel/internal/ephemeris"
	"github.com/thurmanmarka/astrowheel/internal/houses"
	"github.com/thurmanmarka/astrowheel/internal/timeutil"
	"github.com/thurmanmarka/astrowheel/internal/zodiac"
)

// speedHalfStep is half the finite-difference interval, in days, used to
// estimate longitude speed.
const speedHalfStep = 0.5

// Ascendant is the rising ecliptic point.
//
// When Defined is false the ecliptic never crossed the horizon (circumpolar
// geometry at extreme latitude) and Longitude is 0 by convention; it must
// not be drawn as an ascendant.
type Ascendant struct {
	Longitude float64         `json:"longitude"` // chart frame [0, 360)
	Tropical  float64         `json:"tropical"`  // tropical of date [0, 360)
	Azimuth   float64         `json:"azimuth"`   // degrees east of north
	Defined   bool            `json:"defined"`
	Method    AscendantMethod `json:"method"`
}

// Placement is one body's position on the wheel.
type Placement struct {
	Body       Body    `json:"body"`
	Tropical   float64 `json:"tropical"`  // tropical of date [0, 360)
	Longitude  float64 `json:"longitude"` // chart frame [0, 360)
	Latitude   float64 `json:"latitude"`
	Distance   float64 `json:"distance"` // AU; 0 for the nodes
	Speed      float64 `json:"speed"`    // degrees/day in longitude
	Retrograde bool    `json:"retrograde"`

	Sign       int `json:"sign"` // 0 = Aries
	SignDegree int `json:"sign_degree"`
	SignMinute int `json:"sign_minute"`
	Nakshatra  int `json:"nakshatra"` // 0 = Ashwini
	Pada       int `json:"pada"`      // 1..4
	House      int `json:"house,omitempty"`

	// LabelLevel is the radial bump applied when drawing the label.
	LabelLevel int `json:"label_level"`
}

// SignName returns the sign name in script s.
func (p Placement) SignName(s Script) string { return zodiac.SignName(p.Sign, s) }

// NakshatraName returns the nakshatra name in script s.
func (p Placement) NakshatraName(s Script) string { return zodiac.NakshatraName(p.Nakshatra, s) }

// AspectLink is a geometric aspect between two bodies.
type AspectLink struct {
	A          Body    `json:"a"`
	B          Body    `json:"b"`
	Angle      float64 `json:"angle"`
	Separation float64 `json:"separation"`
	Orb        float64 `json:"orb"`
}

// Name returns the aspect's conventional name.
func (a AspectLink) Name() string { return aspect.Name(a.Angle) }

// DrishtiLink says From casts drishti onto To, Distance signs ahead.
type DrishtiLink struct {
	From     Body `json:"from"`
	To       Body `json:"to"`
	Distance int  `json:"distance"`
}

// Chart is a fully derived wheel for one instant, observer and config.
type Chart struct {
	Time     time.Time   `json:"time"`
	Observer Coordinates `json:"observer"`
	Config   Config      `json:"config"`

	Ephemeris string  `json:"ephemeris"`
	JD        float64 `json:"jd"`
	Ayanamsha float64 `json:"ayanamsha"` // 0 for tropical charts

	// LST is local apparent sidereal time in hours.
	LST float64 `json:"lst"`

	// Obliquity of the ecliptic in degrees. ObliquityFallback is set when
	// the obliquity of date could not be computed and the mean J2000 value
	// was used instead.
	Obliquity         float64 `json:"obliquity"`
	ObliquityFallback bool    `json:"obliquity_fallback"`

	Ascendant Ascendant `json:"ascendant"`
	Midheaven float64   `json:"midheaven"` // chart frame
	Houses    []float64 `json:"houses,omitempty"`

	Placements []Placement   `json:"placements"`
	Aspects    []AspectLink  `json:"aspects,omitempty"`
	Drishti    []DrishtiLink `json:"drishti,omitempty"`

	Lunar LunarPhase `json:"lunar"`
}

// Placement returns the placement of b, if plotted.
func (c *Chart) Placement(b Body) (Placement, bool) {
	for _, p := range c.Placements {
		if p.Body == b {
			return p, true
		}
	}
	return Placement{}, false
}

// Engine computes charts against one ephemeris provider.
type Engine struct {
	eph    ephemeris.Provider
	logger *log.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithEphemeris uses p instead of the analytic provider.
func WithEphemeris(p ephemeris.Provider) Option {
	return func(e *Engine) error {
		if p == nil {
			return fmt.Errorf("%w: nil ephemeris provider", ErrInvalidConfig)
		}
		e.eph = p
		return nil
	}
}

// WithVSOP87 loads the VSOP87B series from dir for the Sun and planets.
func WithVSOP87(dir string) Option {
	return func(e *Engine) error {
		v, err := ephemeris.LoadVSOP87(dir)
		if err != nil {
			return err
		}
		e.eph = v
		return nil
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) error {
		if l != nil {
			e.logger = l
		}
		return nil
	}
}

// NewEngine builds an engine. Without options it uses the analytic
// ephemeris and discards log output.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		eph:    ephemeris.NewAnalytic(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// EphemerisName reports the provider in use.
func (e *Engine) EphemerisName() string { return e.eph.Name() }

var defaultEngine = &Engine{eph: ephemeris.NewAnalytic(), logger: log.New(io.Discard)}

// Compute builds a chart with the default analytic ephemeris.
func Compute(t time.Time, loc Coordinates, cfg Config) (Chart, error) {
	return defaultEngine.Compute(t, loc, cfg)
}

// AscendantAt solves for the rising ecliptic longitude (tropical of date)
// with the default ephemeris.
func AscendantAt(t time.Time, loc Coordinates, method AscendantMethod) (Ascendant, error) {
	return defaultEngine.AscendantAt(t, loc, method)
}

// frame holds the instant-level quantities shared by every placement.
type frame struct {
	jd        float64
	lst       float64 // degrees
	eps       float64
	fallback  bool
	ayanamsha float64
}

func (e *Engine) frameAt(t time.Time, loc Coordinates) frame {
	jd := timeutil.JulianDay(t)

	eps, err := e.eph.Obliquity(jd)
	fallback := false
	if err != nil || !timeutil.Finite(eps) {
		e.logger.Warn("obliquity unavailable, using J2000 mean", "jd", jd, "err", err)
		eps = ascendant.MeanObliquityJ2000
		fallback = true
	}

	gst := e.eph.SiderealTime(jd)
	lst := timeutil.Normalize360(gst*15 + loc.Lon)

	return frame{jd: jd, lst: lst, eps: eps, fallback: fallback}
}

// AscendantAt solves for the rising ecliptic longitude (tropical of date).
func (e *Engine) AscendantAt(t time.Time, loc Coordinates, method AscendantMethod) (Ascendant, error) {
	if err := loc.Validate(); err != nil {
		return Ascendant{}, err
	}
	f := e.frameAt(t, loc)
	res := ascendant.Compute(method, f.lst, f.eps, loc.Lat)
	return Ascendant{
		Longitude: res.Longitude,
		Tropical:  res.Longitude,
		Azimuth:   res.Azimuth,
		Defined:   res.Defined,
		Method:    res.Method,
	}, nil
}

// Compute builds a chart.
func (e *Engine) Compute(t time.Time, loc Coordinates, cfg Config) (Chart, error) {
	if err := loc.Validate(); err != nil {
		return Chart{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Chart{}, err
	}

	f := e.frameAt(t, loc)
	ayan, err := cfg.ayanamshaFor(f.jd)
	if err != nil {
		return Chart{}, err
	}
	f.ayanamsha = ayan

	chart := Chart{
		Time:              t.UTC(),
		Observer:          loc,
		Config:            cfg,
		Ephemeris:         e.eph.Name(),
		JD:                f.jd,
		Ayanamsha:         ayan,
		LST:               f.lst / 15,
		Obliquity:         f.eps,
		ObliquityFallback: f.fallback,
	}

	asc := ascendant.Compute(cfg.AscendantMethod, f.lst, f.eps, loc.Lat)
	chart.Ascendant = Ascendant{
		Tropical: asc.Longitude,
		Azimuth:  asc.Azimuth,
		Defined:  asc.Defined,
		Method:   asc.Method,
	}
	if asc.Defined {
		chart.Ascendant.Longitude = f.toFrame(asc.Longitude)
		chart.Houses = houses.Cusps(cfg.Houses, chart.Ascendant.Longitude)
	} else {
		e.logger.Warn("ascendant undefined", "lat", loc.Lat, "lst", f.lst)
	}
	chart.Midheaven = f.toFrame(ascendant.Midheaven(f.lst, f.eps))

	for _, b := range cfg.Bodies() {
		p, err := e.place(b, f, cfg)
		if err != nil {
			return Chart{}, fmt.Errorf("place %v: %w", b, err)
		}
		p.House = houses.HouseOf(chart.Houses, p.Longitude)
		chart.Placements = append(chart.Placements, p)
	}

	lons := make([]float64, len(chart.Placements))
	signs := make([]int, len(chart.Placements))
	for i, p := range chart.Placements {
		lons[i] = p.Longitude
		signs[i] = p.Sign
	}

	for i, lvl := range collision.Bump(lons, cfg.LabelSeparation) {
		chart.Placements[i].LabelLevel = lvl
	}

	if cfg.ShowAspects {
		for _, a := range aspect.Find(lons, cfg.AspectAngles, cfg.AspectOrb) {
			chart.Aspects = append(chart.Aspects, AspectLink{
				A:          chart.Placements[a.I].Body,
				B:          chart.Placements[a.J].Body,
				Angle:      a.Angle,
				Separation: a.Separation,
				Orb:        a.Orb,
			})
		}
	}

	if cfg.ShowDrishti {
		rules := aspect.Rules{}
		for i, p := range chart.Placements {
			if ds := cfg.DrishtiRules[p.Body]; len(ds) > 0 {
				rules[i] = ds
			}
		}
		for _, l := range aspect.Drishti(signs, rules) {
			chart.Drishti = append(chart.Drishti, DrishtiLink{
				From:     chart.Placements[l.From].Body,
				To:       chart.Placements[l.To].Body,
				Distance: l.Distance,
			})
		}
	}

	sun, okSun := chart.Placement(Sun)
	moon, okMoon := chart.Placement(Moon)
	if okSun && okMoon {
		chart.Lunar = lunarPhase(sun.Tropical, moon.Tropical)
	}

	e.logger.Debug("chart computed",
		"jd", f.jd,
		"ephemeris", chart.Ephemeris,
		"zodiac", cfg.Zodiac,
		"ayanamsha", ayan,
		"asc", chart.Ascendant.Longitude,
		"bodies", len(chart.Placements),
		"aspects", len(chart.Aspects),
		"drishti", len(chart.Drishti))

	return chart, nil
}

func (f frame) toFrame(tropical float64) float64 {
	return zodiac.ToSidereal(tropical, f.ayanamsha)
}

// place computes one body. Speed comes from a central difference over one
// day, which is enough to catch every station of Mercury.
func (e *Engine) place(b Body, f frame, cfg Config) (Placement, error) {
	lonAt := func(jde float64) (ephemeris.Position, error) {
		if b.Node() {
			rahu, ketu := ephemeris.Nodes(jde, cfg.UseMeanNode)
			if b == Rahu {
				return ephemeris.Position{Lon: rahu}, nil
			}
			return ephemeris.Position{Lon: ketu}, nil
		}
		return e.eph.Position(b, jde)
	}

	pos, err := lonAt(f.jd)
	if err != nil {
		return Placement{}, err
	}
	before, err := lonAt(f.jd - speedHalfStep)
	if err != nil {
		return Placement{}, err
	}
	after, err := lonAt(f.jd + speedHalfStep)
	if err != nil {
		return Placement{}, err
	}
	speed := timeutil.Normalize180(after.Lon-before.Lon) / (2 * speedHalfStep)

	lon := f.toFrame(pos.Lon)
	sign := zodiac.SignOf(lon)
	nak := zodiac.NakshatraOf(lon)

	return Placement{
		Body:       b,
		Tropical:   pos.Lon,
		Longitude:  lon,
		Latitude:   pos.Lat,
		Distance:   pos.Dist,
		Speed:      speed,
		Retrograde: speed < 0,
		Sign:       sign.Index,
		SignDegree: sign.Degree,
		SignMinute: sign.Minute,
		Nakshatra:  nak.Index,
		Pada:       nak.Pada,
	}, nil
}
