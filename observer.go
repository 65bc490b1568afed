package sattrack

import (
	"fmt"
	"math"

	"github.com/soniakeys/meeus/v3/globe"
	"github.com/soniakeys/unit"
)

// Observer defines a ground observer on the oblate Earth. Latitude and
// longitude are stored in radians, east longitude positive; HeightAMSL is
// meters above mean sea level.
type Observer struct {
	Name           string
	Latitude       float64
	Longitude      float64
	HeightAMSL     float64
	ρSinφ1, ρCosφ1 float64 // geocentric parallax constants
	MinElevation   float64 // radians; passes below this never count
	Planet         CelestialObject
}

// NewObserver returns an observer for the given geodetic coordinates in
// degrees and height in meters.
func NewObserver(name string, latDeg, lonDeg, heightM float64) Observer {
	φ := unit.AngleFromDeg(latDeg)
	sφ, cφ := globe.Earth76.ParallaxConstants(φ, heightM)
	return Observer{
		Name:       name,
		Latitude:   latDeg * deg2rad,
		Longitude:  lonDeg * deg2rad,
		HeightAMSL: heightM,
		ρSinφ1:     sφ,
		ρCosφ1:     cφ,
		Planet:     Earth,
	}
}

func (o Observer) String() string {
	// Signed degrees, not the wrapped [0, 360) convention used for angles
	// elsewhere: an observer west of Greenwich reads more naturally as a
	// negative longitude.
	return fmt.Sprintf("%s (%f,%f); alt = %f m; min el = %f deg",
		o.Name, o.Latitude/deg2rad, o.Longitude/deg2rad, o.HeightAMSL, o.MinElevation/deg2rad)
}

// PositionVelocityECI returns the observer's inertial position (km) and
// velocity (km/s) at the Greenwich sidereal time θgst, accounting for the
// flattening of the geoid. The velocity is the Earth-rotation term only.
func (o Observer) PositionVelocityECI(θgst float64) (R, V []float64) {
	θlst := mod2pi(θgst + o.Longitude)
	sθ, cθ := math.Sincos(θlst)
	R = []float64{
		xkmper * o.ρCosφ1 * cθ,
		xkmper * o.ρCosφ1 * sθ,
		xkmper * o.ρSinφ1,
	}
	V = cross([]float64{0, 0, EarthRotationRate}, R)
	return
}

// lst returns the observer's local sidereal time for the given Greenwich
// sidereal time.
func (o Observer) lst(θgst float64) float64 {
	return mod2pi(θgst + o.Longitude)
}

// RangeElAz projects a satellite inertial position onto the observer's
// topocentric frame at θgst. Range in km, elevation and azimuth in radians,
// azimuth measured clockwise from north.
func (o Observer) RangeElAz(rECI []float64, θgst float64) (ρ, el, az float64) {
	R, _ := o.PositionVelocityECI(θgst)
	ρECI := []float64{rECI[0] - R[0], rECI[1] - R[1], rECI[2] - R[2]}
	ρ = norm(ρECI)
	rSEZ := ECI2SEZ(ρECI, o.Latitude, o.lst(θgst))
	el = math.Asin(rSEZ[2] / ρ)
	az = mod2pi(math.Atan2(rSEZ[1], -rSEZ[0]))
	return
}
