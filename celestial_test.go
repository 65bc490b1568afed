package sattrack

import (
	"math"
	"testing"
	"time"

	"github.com/gonum/floats"
)

func TestJulianDate(t *testing.T) {
	j2000 := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	if !floats.EqualWithinAbs(julianDate(j2000), 2451545.0, 1e-6) {
		t.Fatalf("J2000 epoch: %f", julianDate(j2000))
	}
	back := timeFromJD(2451545.0)
	if back.Sub(j2000) > time.Millisecond || j2000.Sub(back) > time.Millisecond {
		t.Fatalf("julian round trip: %s", back)
	}
}

func TestGMSTRange(t *testing.T) {
	jd := julianDate(time.Date(2026, 3, 15, 8, 30, 0, 0, time.UTC))
	for _, mode := range []PrecisionMode{PrecisionExact, PrecisionFast} {
		θ := gmst(jd, mode)
		if θ < 0 || θ >= 2*math.Pi {
			t.Fatalf("gmst out of range in %s mode: %f", mode, θ)
		}
	}
	// Mean and apparent sidereal time differ only by the equation of the
	// equinoxes, about a second of time at most.
	diff := math.Abs(gmst(jd, PrecisionExact) - gmst(jd, PrecisionFast))
	if diff > 2*math.Pi/86400*2 && math.Abs(diff-2*math.Pi) > 2*math.Pi/86400*2 {
		t.Fatalf("mean vs apparent sidereal time differ by %f rad", diff)
	}
}

func TestSunPosition(t *testing.T) {
	jd := julianDate(time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC))
	R := SunPositionECI(jd)
	d := norm(R)
	// Perihelion season, the Sun sits just inside 1 AU.
	if d < 0.97*AU || d > 1.03*AU {
		t.Fatalf("Sun distance %f km implausible", d)
	}
}

func TestMoonPosition(t *testing.T) {
	jd := julianDate(time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC))
	R := MoonPositionECI(jd)
	d := norm(R)
	if d < 356000 || d > 407000 {
		t.Fatalf("Moon distance %f km implausible", d)
	}
}

func TestIlluminatingBody(t *testing.T) {
	if BodySun.String() != "Sun" || BodyMoon.String() != "Moon" {
		t.Fatal("body names")
	}
	if !floats.EqualWithinAbs(BodySun.AngularRadius(AU), math.Asin(Sun.Radius/AU), 1e-12) {
		t.Fatal("solar angular radius")
	}
	// Apparent lunar radius from Earth is about a quarter degree.
	ρ := BodyMoon.AngularRadius(384400)
	if ρ < Deg2rad(0.24) || ρ > Deg2rad(0.28) {
		t.Fatalf("lunar angular radius %f deg", Rad2deg(ρ))
	}
}

func TestCelestialObject(t *testing.T) {
	if Earth.String() != "Earth body" {
		t.Fatal("Stringer")
	}
	if !Earth.Equals(Earth) || Earth.Equals(Moon) {
		t.Fatal("equality")
	}
	if Earth.GM() != 3.98600433e5 {
		t.Fatal("Earth GM")
	}
}
