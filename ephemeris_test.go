package sattrack

import (
	"math"
	"testing"
	"time"

	"github.com/gonum/floats"
)

func TestEphemerisISS(t *testing.T) {
	sat := issSatellite(t)
	dt := sat.Elements().Epoch.Add(30 * time.Minute)
	eph, err := sat.EphemerisAt(testObserver, dt, PrecisionExact)
	if err != nil {
		t.Fatalf("ephemeris: %s", err)
	}
	if eph.Elevation < -math.Pi/2 || eph.Elevation > math.Pi/2 {
		t.Fatalf("elevation %f rad", eph.Elevation)
	}
	if eph.Azimuth < 0 || eph.Azimuth >= 2*math.Pi {
		t.Fatalf("azimuth %f rad", eph.Azimuth)
	}
	// Slant range between grazing and the sub-horizon limit for a low orbit.
	if eph.Range < 300 || eph.Range > 14000 {
		t.Fatalf("range %f km", eph.Range)
	}
	if math.Abs(eph.RangeRate) > 12 {
		t.Fatalf("range rate %f km/s", eph.RangeRate)
	}
	if eph.Latitude < -Deg2rad(51.7) || eph.Latitude > Deg2rad(51.7) {
		t.Fatalf("sub-satellite latitude %f exceeds the inclination", Rad2deg(eph.Latitude))
	}
	if eph.Longitude <= -math.Pi || eph.Longitude > math.Pi {
		t.Fatalf("longitude %f out of branch", eph.Longitude)
	}
	if eph.Altitude < 300 || eph.Altitude > 450 {
		t.Fatalf("altitude %f km", eph.Altitude)
	}
	if eph.IlluminationFraction < 0 || eph.IlluminationFraction > 1 {
		t.Fatalf("illumination fraction %f", eph.IlluminationFraction)
	}
	if eph.GlintAngle < 0 || eph.GlintAngle > math.Pi {
		t.Fatalf("glint angle %f", eph.GlintAngle)
	}
	if !eph.Time.Equal(dt) {
		t.Fatalf("time %s", eph.Time)
	}
}

func TestEphemerisPrecisionModes(t *testing.T) {
	sat := issSatellite(t)
	dt := sat.Elements().Epoch.Add(30 * time.Minute)
	exact, err := sat.EphemerisAt(testObserver, dt, PrecisionExact)
	if err != nil {
		t.Fatalf("ephemeris: %s", err)
	}
	fast, err := sat.EphemerisAt(testObserver, dt, PrecisionFast)
	if err != nil {
		t.Fatalf("ephemeris: %s", err)
	}
	// Mean vs apparent sidereal time: under an arcminute of nutation.
	if d := math.Abs(exact.Azimuth - fast.Azimuth); d > 2e-3 && d < 2*math.Pi-2e-3 {
		t.Fatalf("azimuth split %f rad between modes", d)
	}
	if math.Abs(exact.Range-fast.Range) > 10 {
		t.Fatalf("range split %f km between modes", exact.Range-fast.Range)
	}
}

func TestDoppler(t *testing.T) {
	var e Ephemeris
	e.RangeRate = -7 // approaching
	if f := e.Doppler(145.8e6); f <= 145.8e6 {
		t.Fatalf("approaching satellite shifted down: %f", f)
	}
	e.RangeRate = 7
	if f := e.Doppler(145.8e6); f >= 145.8e6 {
		t.Fatalf("receding satellite shifted up: %f", f)
	}
	e.RangeRate = 0
	if f := e.Doppler(145.8e6); f != 145.8e6 {
		t.Fatalf("zero range rate shifted: %f", f)
	}
}

func TestSubSatellitePoint(t *testing.T) {
	// A point on the +X inertial axis at zero sidereal angle sits on the
	// equator at longitude zero.
	lat, lon, alt := subSatellitePoint([]float64{xkmper + 400, 0, 0}, 0)
	if !floats.EqualWithinAbs(lat, 0, 1e-9) {
		t.Fatalf("latitude %g", lat)
	}
	if !floats.EqualWithinAbs(lon, 0, 1e-9) {
		t.Fatalf("longitude %g", lon)
	}
	if !floats.EqualWithinAbs(alt, 400, 1e-6) {
		t.Fatalf("altitude %f", alt)
	}
	// Sidereal rotation moves the point west.
	_, lon, _ = subSatellitePoint([]float64{xkmper + 400, 0, 0}, 0.5)
	if ok, err := anglesEqual(lon, -0.5); !ok {
		t.Fatalf("longitude after rotation: %s", err)
	}
	// High latitudes show the oblateness correction: geodetic above
	// geocentric.
	r := 7000.0
	geocentric := Deg2rad(45.0)
	lat, _, _ = subSatellitePoint([]float64{r * math.Cos(geocentric), 0, r * math.Sin(geocentric)}, 0)
	if lat <= geocentric {
		t.Fatalf("geodetic latitude %f not above geocentric %f", lat, geocentric)
	}
}

func TestUmbra(t *testing.T) {
	satR := []float64{7000, 0, 0}
	// Body on the far side of the Earth: eclipsed.
	ecl, depth := umbraTest(satR, []float64{-1.5e8, 0, 0}, BodySun)
	if !ecl {
		t.Fatal("anti-solar satellite not eclipsed")
	}
	if depth <= 0 {
		t.Fatalf("eclipse depth %f", depth)
	}
	// Body on the satellite's side: lit.
	ecl, depth = umbraTest(satR, []float64{1.5e8, 0, 0}, BodySun)
	if ecl {
		t.Fatal("sun-side satellite eclipsed")
	}
	if depth >= 0 {
		t.Fatalf("eclipse depth %f while lit", depth)
	}
}

func TestIlluminationFraction(t *testing.T) {
	satR := []float64{7000, 0, 0}
	// Observer and body in the same direction: full phase.
	f := illuminationFraction(satR, []float64{6378, 0, 0}, []float64{-1.5e8, 0, 0})
	if !floats.EqualWithinAbs(f, 1, 1e-6) {
		t.Fatalf("full phase fraction %f", f)
	}
	// Body at quadrature: half phase.
	f = illuminationFraction(satR, []float64{6378, 0, 0}, []float64{7000, 1.5e8, 0})
	if !floats.EqualWithinAbs(f, 0.5, 1e-3) {
		t.Fatalf("quadrature fraction %f", f)
	}
}

func TestGlintAngleGeometry(t *testing.T) {
	sv := StateVector{R: []float64{7000, 0, 0}, V: []float64{0, 7.5, 0}}
	tilt := sattrackConfig().panelTiltDeg * deg2rad
	st, ct := math.Sincos(tilt)
	n := []float64{ct, st, 0}

	// Observer along the panel normal, body along the panel normal: the
	// reflected ray points straight back at the body.
	obsR := []float64{sv.R[0] + 1000*n[0], sv.R[1] + 1000*n[1], sv.R[2] + 1000*n[2]}
	bodyECI := []float64{sv.R[0] + 1e8*n[0], sv.R[1] + 1e8*n[1], sv.R[2] + 1e8*n[2]}
	if g := glintAngle(sv, obsR, bodyECI, PrecisionExact); !floats.EqualWithinAbs(g, 0, 1e-6) {
		t.Fatalf("retroreflection glint %g", g)
	}

	// Observer along the zenith: the line of sight reflects to the far side
	// of the normal, one tilt away from it.
	obsR = []float64{sv.R[0] + 1000, sv.R[1], sv.R[2]}
	if g := glintAngle(sv, obsR, bodyECI, PrecisionExact); !floats.EqualWithinAbs(g, tilt, 1e-6) {
		t.Fatalf("zenith-observer glint %f, expected %f", g, tilt)
	}
}
