package sattrack

import (
	"math"
	"time"
)

const (
	// speedOfLight in km/s, for Doppler work.
	speedOfLight = 299792.458
	// twilightSunElevation is the Sun elevation below which a sunlit
	// satellite becomes observable against a dark sky.
	twilightSunElevation = -10 * deg2rad
)

// Illumination classifies the lighting state of a satellite as seen from an
// observer.
type Illumination uint8

const (
	// Eclipsed: inside the Earth's umbra.
	Eclipsed Illumination = iota
	// PossiblyVisible: sunlit while the observer's sky is dark.
	PossiblyVisible
	// Sunlit: lit, but against a daylit sky.
	Sunlit
)

func (i Illumination) String() string {
	switch i {
	case Eclipsed:
		return "eclipsed"
	case PossiblyVisible:
		return "possibly visible"
	default:
		return "sunlit"
	}
}

// Ephemeris is the full topocentric description of a satellite at one instant
// for one observer. Angles in radians, distances in km, rates in km/s.
type Ephemeris struct {
	Time      time.Time
	Tsince    float64
	Azimuth   float64
	Elevation float64
	Range     float64
	RangeRate float64

	// Sub-satellite point on the WGS-72 geoid. Longitude east positive in
	// (-π, π], altitude in km.
	Latitude  float64
	Longitude float64
	Altitude  float64

	Illumination         Illumination
	EclipseDepth         float64
	IlluminationFraction float64

	// GlintAngle is the angle between the line of sight reflected off the
	// nominal antenna panel and the illuminating body.
	GlintAngle float64

	Revolution int
	State      StateVector
}

// AboveHorizon reports whether the satellite clears the refraction-corrected
// optical horizon.
func (e Ephemeris) AboveHorizon() bool {
	return e.Elevation >= RefractionHorizon()
}

// Doppler returns the received frequency for a transmitted frequency in Hz,
// first-order in range rate.
func (e Ephemeris) Doppler(freqHz float64) float64 {
	return freqHz * (1 - e.RangeRate/speedOfLight)
}

// EphemerisAt propagates the satellite to dt and projects the state onto the
// observer's sky, including lighting and glint geometry for the default
// illuminating body, the Sun.
func (s *Satellite) EphemerisAt(obs Observer, dt time.Time, mode PrecisionMode) (Ephemeris, error) {
	return s.ephemerisAt(obs, dt, mode, BodySun)
}

func (s *Satellite) ephemerisAt(obs Observer, dt time.Time, mode PrecisionMode, body IlluminatingBody) (Ephemeris, error) {
	tsince := s.TsinceOf(dt)
	sv, err := s.Propagate(tsince)
	if err != nil {
		return Ephemeris{}, err
	}
	jd := julianDate(dt)
	θgst := gmst(jd, mode)

	eph := Ephemeris{Time: dt, Tsince: tsince, State: sv, Revolution: s.RevolutionNumber(tsince)}

	// Topocentric projection.
	oR, oV := obs.PositionVelocityECI(θgst)
	ρvec := []float64{sv.R[0] - oR[0], sv.R[1] - oR[1], sv.R[2] - oR[2]}
	relV := []float64{sv.V[0] - oV[0], sv.V[1] - oV[1], sv.V[2] - oV[2]}
	eph.Range = norm(ρvec)
	eph.RangeRate = dot(ρvec, relV) / eph.Range
	rSEZ := ECI2SEZ(ρvec, obs.Latitude, obs.lst(θgst))
	eph.Elevation = math.Asin(rSEZ[2] / eph.Range)
	eph.Azimuth = mod2pi(math.Atan2(rSEZ[1], -rSEZ[0]))

	// Sub-satellite point from the un-rotated geocentric vector.
	eph.Latitude, eph.Longitude, eph.Altitude = subSatellitePoint(sv.R, θgst)

	// Lighting.
	bodyECI := body.PositionECI(jd)
	eclipsed, depth := umbraTest(sv.R, bodyECI, body)
	eph.EclipseDepth = depth
	switch {
	case eclipsed:
		eph.Illumination = Eclipsed
	case sunBelowTwilight(obs, θgst, jd):
		eph.Illumination = PossiblyVisible
	default:
		eph.Illumination = Sunlit
	}
	eph.IlluminationFraction = illuminationFraction(sv.R, oR, bodyECI)
	eph.GlintAngle = glintAngle(sv, oR, bodyECI, mode)
	return eph, nil
}

// subSatellitePoint converts an inertial position to geodetic latitude,
// east longitude in (-π, π] and altitude, iterating the oblateness
// correction. Reference: The 1992 Astronomical Almanac, page K12.
func subSatellitePoint(rECI []float64, θgst float64) (lat, lon, alt float64) {
	θ := math.Atan2(rECI[1], rECI[0])
	lon = mod2pi(θ - θgst)
	if lon > math.Pi {
		lon -= 2 * math.Pi
	}
	r := math.Sqrt(rECI[0]*rECI[0] + rECI[1]*rECI[1])
	e2 := earthFlat * (2 - earthFlat)
	lat = math.Atan2(rECI[2], r)
	var c float64
	for i := 0; i < 10; i++ {
		φ := lat
		sφ := math.Sin(φ)
		c = 1 / math.Sqrt(1-e2*sφ*sφ)
		lat = math.Atan2(rECI[2]+xkmper*c*e2*sφ, r)
		if math.Abs(lat-φ) < 1e-10 {
			break
		}
	}
	alt = r/math.Cos(lat) - xkmper*c
	return
}

// umbraTest compares the apparent angular radii of the Earth and of the
// illuminating body as seen from the satellite. Returns the eclipse flag and
// the eclipse depth in radians (positive inside the shadow).
func umbraTest(satR, bodyECI []float64, body IlluminatingBody) (bool, float64) {
	rNorm := norm(satR)
	sdEarth := math.Asin(xkmper / rNorm)
	ρ := []float64{bodyECI[0] - satR[0], bodyECI[1] - satR[1], bodyECI[2] - satR[2]}
	sdBody := body.AngularRadius(norm(ρ))
	earthward := []float64{-satR[0], -satR[1], -satR[2]}
	δ := AngularDistance(bodyECI, earthward)
	depth := sdEarth - sdBody - δ
	if sdEarth < sdBody {
		return false, depth
	}
	return depth >= 0, depth
}

// sunBelowTwilight reports whether the Sun sits more than 10 degrees below
// the observer's horizon.
func sunBelowTwilight(obs Observer, θgst, jd float64) bool {
	_, el, _ := obs.RangeElAz(SunPositionECI(jd), θgst)
	return el < twilightSunElevation
}

// illuminationFraction is the fraction of the satellite's observer-facing
// side that is lit, from the phase angle between the illuminating body and
// the observer as seen from the satellite.
func illuminationFraction(satR, obsR, bodyECI []float64) float64 {
	toBody := []float64{bodyECI[0] - satR[0], bodyECI[1] - satR[1], bodyECI[2] - satR[2]}
	toObs := []float64{obsR[0] - satR[0], obsR[1] - satR[1], obsR[2] - satR[2]}
	ψ := AngularDistance(toBody, toObs)
	return (1 + math.Cos(ψ)) / 2
}

// glintAngle reflects the satellite-to-observer line of sight off the nominal
// antenna panel and measures the angle to the illuminating body. The panel
// normal is tilted from the satellite zenith toward the velocity direction by
// the configured amount.
func glintAngle(sv StateVector, obsR, bodyECI []float64, mode PrecisionMode) float64 {
	zenith := unitVec(sv.R)
	// Along-track direction, orthogonalized against zenith.
	vhat := unitVec(sv.V)
	k := dot(vhat, zenith)
	along := unitVec([]float64{vhat[0] - k*zenith[0], vhat[1] - k*zenith[1], vhat[2] - k*zenith[2]})
	tilt := sattrackConfig().panelTiltDeg * deg2rad
	st, ct := math.Sincos(tilt)
	n := []float64{ct*zenith[0] + st*along[0], ct*zenith[1] + st*along[1], ct*zenith[2] + st*along[2]}

	d := unitVec([]float64{obsR[0] - sv.R[0], obsR[1] - sv.R[1], obsR[2] - sv.R[2]})
	dn := dot(d, n)
	rfl := []float64{2*dn*n[0] - d[0], 2*dn*n[1] - d[1], 2*dn*n[2] - d[2]}
	toBody := []float64{bodyECI[0] - sv.R[0], bodyECI[1] - sv.R[1], bodyECI[2] - sv.R[2]}
	return angularSep(rfl, toBody, mode)
}
