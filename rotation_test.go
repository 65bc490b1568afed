package sattrack

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestRotationMatrices(t *testing.T) {
	x := []float64{1, 0, 0}
	// R3 by 90 degrees maps x onto -y in the rotated frame convention.
	got := MxV33(R3(math.Pi/2), x)
	if !vectorsEqualAbs(got, []float64{0, -1, 0}, 1e-12) {
		t.Fatalf("R3(90°)x = %v", got)
	}
	got = MxV33(R1(math.Pi/2), []float64{0, 1, 0})
	if !vectorsEqualAbs(got, []float64{0, 0, -1}, 1e-12) {
		t.Fatalf("R1(90°)y = %v", got)
	}
	got = MxV33(R2(math.Pi/2), []float64{0, 0, 1})
	if !vectorsEqualAbs(got, []float64{-1, 0, 0}, 1e-12) {
		t.Fatalf("R2(90°)z = %v", got)
	}
}

func TestECIECEFRoundTrip(t *testing.T) {
	R := []float64{6524.834, 6862.875, 6448.296}
	θgst := Deg2rad(123.456)
	back := ECEF2ECI(ECI2ECEF(R, θgst), θgst)
	if !vectorsEqual(R, back) {
		t.Fatalf("round trip failed: %v != %v", back, R)
	}
}

func TestGEO2ECEF(t *testing.T) {
	// A point on the equator at zero longitude lies on the +x axis.
	R := GEO2ECEF(400, 0, 0)
	if !vectorsEqualAbs(R, []float64{Earth.Radius + 400, 0, 0}, 1e-9) {
		t.Fatalf("equatorial point: %v", R)
	}
	if !floats.EqualWithinAbs(norm(GEO2ECEF(0, math.Pi/2, 0)), Earth.Radius, 1e-6) {
		t.Fatal("polar point radius")
	}
}

func TestECI2SEZZenith(t *testing.T) {
	// A vector pointing straight up from an observer at the equator and
	// zero sidereal time is pure zenith in SEZ.
	up := []float64{100, 0, 0}
	sez := ECI2SEZ(up, 0, 0)
	if !vectorsEqualAbs(sez, []float64{0, 0, 100}, 1e-9) {
		t.Fatalf("zenith projection: %v", sez)
	}
}
