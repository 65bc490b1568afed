package sattrack

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/gonum/floats"
)

const angleε = (5e-3 / 360) * (2 * math.Pi) // 0.005 degrees

func assertPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("code did not panic")
		}
	}()
	f()
}

func vectorsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := len(a) - 1; i >= 0; i-- {
		if !floats.EqualWithinRel(a[i], b[i], 1e-3) {
			return false
		}
	}
	return true
}

// vectorsEqualAbs compares component-wise with an absolute tolerance, for
// expectations with exact-zero components.
func vectorsEqualAbs(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := len(a) - 1; i >= 0; i-- {
		if !floats.EqualWithinAbs(a[i], b[i], tol) {
			return false
		}
	}
	return true
}

// anglesEqual returns whether two angles in Radians are equal.
func anglesEqual(a, b float64) (bool, error) {
	diff := math.Mod(math.Abs(a-b), 2*math.Pi)
	if diff < angleε {
		return true, nil
	}
	return false, fmt.Errorf("difference of %3.10f degrees", math.Abs(Rad2deg(diff)))
}

// The Vallado SGP4 verification element set for the ISS.
const (
	issName  = "ISS (ZARYA)"
	issLine1 = "1 25544U 98067A   08264.51782528 -.00002182  00000-0 -11606-4 0  2927"
	issLine2 = "2 25544  51.6416 247.4627 0006703 130.5360 325.0288 15.72125391563537"
)

func issElements(t *testing.T) OrbitalElements {
	tle, err := ParseTLE(issName, issLine1, issLine2)
	if err != nil {
		t.Fatalf("parsing ISS elements: %s", err)
	}
	el, err := tle.Elements()
	if err != nil {
		t.Fatalf("converting ISS elements: %s", err)
	}
	return el
}

func issSatellite(t *testing.T) *Satellite {
	sat, err := NewSatellite(issElements(t))
	if err != nil {
		t.Fatalf("building ISS satellite: %s", err)
	}
	return sat
}

// geoElements is a synthetic geosynchronous set: one revolution per sidereal
// day, near-circular, near-equatorial. Lands the deep-space branch in the
// synchronous resonance band.
func geoElements() OrbitalElements {
	return OrbitalElements{
		Name:        "GEOTEST",
		NORADID:     99990,
		Epoch:       time.Date(2008, 9, 20, 0, 0, 0, 0, time.UTC),
		MeanMotion:  1.00273791,
		Ecc:         0.0002,
		Inclination: Deg2rad(0.05),
		Node:        Deg2rad(80),
		ArgPerigee:  Deg2rad(30),
		MeanAnomaly: Deg2rad(200),
	}
}

// molniyaElements is a synthetic 12-hour high-eccentricity set for the
// eccentric resonance band.
func molniyaElements() OrbitalElements {
	return OrbitalElements{
		Name:        "MOLNIYATEST",
		NORADID:     99991,
		Epoch:       time.Date(2008, 9, 20, 0, 0, 0, 0, time.UTC),
		MeanMotion:  2.00610000,
		Ecc:         0.7,
		Inclination: Deg2rad(63.4),
		Node:        Deg2rad(120),
		ArgPerigee:  Deg2rad(270),
		MeanAnomaly: Deg2rad(10),
	}
}

var testObserver = NewObserver("Berkeley", 37.8716, -122.2727, 80)
