package sattrack

import (
	"math"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

const (
	deg2rad = math.Pi / 180
)

// norm returns the norm of a given vector which is supposed to be 3x1.
func norm(v []float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// unitVec returns the unit vector of a given vector.
func unitVec(a []float64) (b []float64) {
	n := norm(a)
	if floats.EqualWithinAbs(n, 0, 1e-12) {
		return []float64{0, 0, 0}
	}
	b = make([]float64, len(a))
	for i, val := range a {
		b[i] = val / n
	}
	return
}

// sign returns the sign of a given number.
func sign(v float64) float64 {
	if floats.EqualWithinAbs(v, 0, 1e-12) {
		return 1
	}
	return v / math.Abs(v)
}

// dot performs the inner product via mat64/BLAS.
func dot(a, b []float64) float64 {
	return mat64.Dot(mat64.NewVector(len(a), a), mat64.NewVector(len(b), b))
}

// cross performs the cross product.
func cross(a, b []float64) []float64 {
	return []float64{a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0]}
}

// Deg2rad converts degrees to radians, and enforced only positive numbers.
func Deg2rad(a float64) float64 {
	if a < 0 {
		a += 360
	}
	return math.Mod(a*deg2rad, 2*math.Pi)
}

// Rad2deg converts radians to degrees, and enforced only positive numbers.
func Rad2deg(a float64) float64 {
	if a < 0 {
		a += 2 * math.Pi
	}
	return math.Mod(a/deg2rad, 360)
}

// mod2pi wraps an angle to [0, 2π).
func mod2pi(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// AngularDistance returns the exact angular separation between two
// directions, clamping the cosine against rounding excursions past ±1.
func AngularDistance(a, b []float64) float64 {
	c := dot(unitVec(a), unitVec(b))
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return math.Acos(c)
}

// angularDistanceFast is the chord approximation of AngularDistance, good to
// well under an arcsecond for separations below a few degrees. Used when the
// caller asks for PrecisionFast.
func angularDistanceFast(a, b []float64) float64 {
	ua, ub := unitVec(a), unitVec(b)
	dx := ua[0] - ub[0]
	dy := ua[1] - ub[1]
	dz := ua[2] - ub[2]
	chord := math.Sqrt(dx*dx + dy*dy + dz*dz)
	if chord > 0.2 {
		// Approximation degrades past ~11 degrees.
		return AngularDistance(a, b)
	}
	return 2 * math.Asin(chord/2)
}
