package sattrack

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
)

const (
	// AU is one astronomical unit in kilometers.
	AU = 1.49597870700e8
)

// WGS-72 gravity model, the reference frame of the NORAD element sets.
const (
	xkmper    = 6378.135      // Earth equatorial radius, km
	xke       = 0.0743669161  // sqrt(GM) in (Earth radii)^1.5 per minute
	ck2       = 5.413080e-4   // 0.5 * J2
	ck4       = 0.62098875e-6 // -0.375 * J4
	j3        = -0.253881e-5
	qoms2t    = 1.88027916e-9 // (q0 - s)^4 in Earth radii^4
	s0        = 1.01222928    // s parameter, Earth radii
	earthFlat = 1 / 298.26    // WGS-72 flattening
	minPerDay = 1440.0

	// vFactor converts Earth radii per minute to kilometers per second.
	vFactor = xkmper / 60
)

// CelestialObject defines a celestial object.
type CelestialObject struct {
	Name   string
	Radius float64
	a      float64
	μ      float64
	tilt   float64 // Axial tilt
	J2     float64
}

// GM returns μ (which is unexported because it's a lowercase letter)
func (c CelestialObject) GM() float64 {
	return c.μ
}

// String implements the Stringer interface.
func (c CelestialObject) String() string {
	return c.Name + " body"
}

// Equals returns whether the provided celestial object is the same.
func (c *CelestialObject) Equals(b CelestialObject) bool {
	return c.Name == b.Name && c.Radius == b.Radius && c.a == b.a && c.μ == b.μ
}

// Sun is our closest star.
var Sun = CelestialObject{"Sun", 695700, -1, 1.32712440017987e11, 0.0, 0}

// Earth is home, in its WGS-72 rendition.
var Earth = CelestialObject{"Earth", xkmper, 149598023, 3.98600433e5, 23.4, 1082.6269e-6}

// Moon is Earth's satellite.
var Moon = CelestialObject{"Moon", 1737.4, 384400, 4.9028e3, 6.68, 0}

// PrecisionMode selects between exact spherical trigonometry and the faster
// approximations that suffice for scheduling-grade work.
type PrecisionMode uint8

const (
	// PrecisionExact computes apparent sidereal time and exact angular
	// separations.
	PrecisionExact PrecisionMode = iota
	// PrecisionFast uses mean sidereal time and chord-approximated angular
	// separations.
	PrecisionFast
)

func (m PrecisionMode) String() string {
	if m == PrecisionFast {
		return "fast"
	}
	return "exact"
}

// julianDate returns the Julian date of dt.
func julianDate(dt time.Time) float64 {
	return julian.TimeToJD(dt.UTC())
}

// timeFromJD is the inverse of julianDate.
func timeFromJD(jd float64) time.Time {
	return julian.JDToTime(jd).UTC()
}

// gmst returns the Greenwich sidereal time in radians for the given Julian
// date. PrecisionExact accounts for nutation in right ascension.
func gmst(jd float64, mode PrecisionMode) float64 {
	if mode == PrecisionFast {
		return mod2pi(sidereal.Mean(jd).Rad())
	}
	return mod2pi(sidereal.Apparent(jd).Rad())
}

// angularSep dispatches on the precision mode.
func angularSep(a, b []float64, mode PrecisionMode) float64 {
	if mode == PrecisionFast {
		return angularDistanceFast(a, b)
	}
	return AngularDistance(a, b)
}

// SunPositionECI returns the geocentric equatorial position of the Sun in
// kilometers at the given Julian date.
func SunPositionECI(jd float64) []float64 {
	α, δ := solar.ApparentEquatorial(jd)
	dist := solar.Radius(base.J2000Century(jd)) * AU
	sα, cα := math.Sincos(α.Rad())
	sδ, cδ := math.Sincos(δ.Rad())
	return []float64{dist * cδ * cα, dist * cδ * sα, dist * sδ}
}

// MoonPositionECI returns the geocentric equatorial position of the Moon in
// kilometers at the given Julian date.
func MoonPositionECI(jd float64) []float64 {
	λ, β, Δ := moonposition.Position(jd)
	ε := nutation.MeanObliquity(jd).Rad()
	sε, cε := math.Sincos(ε)
	sλ, cλ := math.Sincos(λ.Rad())
	sβ, cβ := math.Sincos(β.Rad())
	// Ecliptic to equatorial.
	x := Δ * cβ * cλ
	y := Δ * (cβ*sλ*cε - sβ*sε)
	z := Δ * (cβ*sλ*sε + sβ*cε)
	return []float64{x, y, z}
}

// IlluminatingBody identifies the light source used for glint and flare work.
type IlluminatingBody uint8

const (
	// BodySun is the default illuminating body.
	BodySun IlluminatingBody = iota
	// BodyMoon enables lunar flare searches.
	BodyMoon
)

func (b IlluminatingBody) String() string {
	if b == BodyMoon {
		return "Moon"
	}
	return "Sun"
}

// PositionECI returns the geocentric position of the illuminating body in
// kilometers.
func (b IlluminatingBody) PositionECI(jd float64) []float64 {
	if b == BodyMoon {
		return MoonPositionECI(jd)
	}
	return SunPositionECI(jd)
}

// AngularRadius returns the apparent angular radius of the body, in radians,
// as seen from the given range in kilometers.
func (b IlluminatingBody) AngularRadius(dist float64) float64 {
	if b == BodyMoon {
		return math.Asin(Moon.Radius / dist)
	}
	return math.Asin(Sun.Radius / dist)
}
