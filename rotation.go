package sattrack

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

const (
	// EarthRotationRate is the average Earth rotation rate in radians per second.
	EarthRotationRate = 7.2921158553e-5
)

// R1 rotation about the 1st axis.
func R1(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R2 rotation about the 2nd axis.
func R2(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m *mat64.Dense, v []float64) (o []float64) {
	vVec := mat64.NewVector(len(v), v)
	var rVec mat64.Vector
	rVec.MulVec(m, vVec)
	return []float64{rVec.At(0, 0), rVec.At(1, 0), rVec.At(2, 0)}
}

// GEO2ECEF converts the provided parameters (in km and radians) to the ECEF vector.
// Note that the first parameter is the altitude, not the radius from the center of the body!
func GEO2ECEF(altitude, latitude, longitude float64) []float64 {
	sLong, cLong := math.Sincos(longitude)
	sLat, cLat := math.Sincos(latitude)
	r := altitude + Earth.Radius
	return []float64{r * cLat * cLong, r * cLat * sLong, r * sLat}
}

// ECI2ECEF converts the provided ECI vector to ECEF for the θgst given in radians.
func ECI2ECEF(R []float64, θgst float64) []float64 {
	return MxV33(R3(θgst), R)
}

// ECEF2ECI converts the provided ECEF vector to ECI for the θgst given in radians.
func ECEF2ECI(R []float64, θgst float64) []float64 {
	return ECI2ECEF(R, -θgst)
}

// ECI2SEZ rotates an observer-relative ECI vector into the topocentric
// south-east-zenith frame for an observer at geodetic latitude φ with local
// sidereal time θlst, both in radians.
func ECI2SEZ(ρECI []float64, φ, θlst float64) []float64 {
	var sez mat64.Dense
	sez.Mul(R2(math.Pi/2-φ), R3(θlst))
	return MxV33(&sez, ρECI)
}
