package sattrack

import (
	"fmt"
	"math"
)

// StateVector is an inertial position and velocity of date, in kilometers and
// kilometers per second, at Tsince minutes from the element epoch.
type StateVector struct {
	R      []float64
	V      []float64
	Tsince float64
}

// RNorm returns the norm of the position vector of this state, in km.
func (sv StateVector) RNorm() float64 {
	return norm(sv.R)
}

// VNorm returns the norm of the velocity vector of this state, in km/s.
func (sv StateVector) VNorm() float64 {
	return norm(sv.V)
}

// propagateNearEarth advances the near-earth model by tsince minutes from
// epoch. Secular gravity and drag first, the full drag curvature terms only
// when the drag rate warrants them, then the common periodic reconstruction.
func (ps *PropagationState) propagateNearEarth(tsince float64) (StateVector, error) {
	el := ps.el
	xmdf := el.MeanAnomaly + ps.xmdot*tsince
	omgadf := el.ArgPerigee + ps.omgdot*tsince
	xnoddf := el.Node + ps.xnodot*tsince
	omega := omgadf
	xmp := xmdf
	tsq := tsince * tsince
	xnode := xnoddf + ps.xnodcf*tsq
	tempa := 1 - ps.c1*tsince
	tempe := el.Bstar * ps.c4 * tsince
	templ := ps.t2cof * tsq

	if !ps.isSimplifiedDrag {
		delomg := ps.omgcof * tsince
		delm := ps.xmcof * (math.Pow(1+ps.eta*math.Cos(xmdf), 3) - ps.delmo)
		δ := delomg + delm
		xmp = xmdf + δ
		omega = omgadf - δ
		tcube := tsq * tsince
		tfour := tsince * tcube
		tempa = tempa - ps.d2*tsq - ps.d3*tcube - ps.d4*tfour
		tempe += el.Bstar * ps.c5 * (math.Sin(xmp) - ps.sinmo)
		templ += ps.t3cof*tcube + tfour*(ps.t4cof+tsince*ps.t5cof)
	}

	a := ps.aodp * tempa * tempa
	e := el.Ecc - tempe
	xl := xmp + omega + xnode + ps.xnodp*templ
	xn := xke / math.Pow(a, 1.5)

	sv, err := ps.reconstruct(e, a, xl, omega, xnode, el.Inclination, xn, tsince)
	if err != nil {
		return sv, err
	}
	propagationsTotal.WithLabelValues("sgp4").Inc()
	return sv, nil
}

// reconstruct applies the long-period periodics, solves the generalized
// Kepler equation, applies the short-period oblateness corrections and
// assembles the inertial state from the orientation vectors. Shared by both
// propagation branches.
func (ps *PropagationState) reconstruct(e, a, xl, omega, xnode, xinc, xn, tsince float64) (StateVector, error) {
	if e < 0 || e >= 1 {
		return StateVector{}, fmt.Errorf("propagation drove eccentricity to %f at tsince=%f min", e, tsince)
	}
	beta2 := 1 - e*e

	// Long period periodics.
	axn := e * math.Cos(omega)
	tmp := 1 / (a * beta2)
	xll := tmp * ps.xlcof * axn
	aynl := tmp * ps.aycof
	xlt := xl + xll
	ayn := e*math.Sin(omega) + aynl

	capu := mod2pi(xlt - xnode)
	pa := solvePerturbedKepler(capu, axn, ayn)

	elsq := axn*axn + ayn*ayn
	pl := a * (1 - elsq)
	r := a * (1 - pa.ecosE)
	rinv := 1 / r
	rdot := xke * math.Sqrt(a) * pa.esinE * rinv
	rfdot := xke * math.Sqrt(pl) * rinv
	betal := math.Sqrt(1 - elsq)
	t3 := 1 / (1 + betal)
	cosu := a * rinv * (pa.cosepw - axn + ayn*pa.esinE*t3)
	sinu := a * rinv * (pa.sinepw - ayn - axn*pa.esinE*t3)
	u := math.Atan2(sinu, cosu)
	sin2u := 2 * sinu * cosu
	cos2u := 2*cosu*cosu - 1
	plinv := 1 / pl
	t1 := ck2 * plinv
	t2 := t1 * plinv

	// Short period periodics.
	rk := r*(1-1.5*t2*betal*ps.x3thm1) + 0.5*t1*ps.x1mth2*cos2u
	uk := u - 0.25*t2*ps.x7thm1*sin2u
	xnodek := xnode + 1.5*t2*ps.cosio*sin2u
	xinck := xinc + 1.5*t2*ps.cosio*ps.sinio*cos2u
	rdotk := rdot - xn*t1*ps.x1mth2*sin2u
	rfdotk := rfdot + xn*t1*(ps.x1mth2*cos2u+1.5*ps.x3thm1)

	if rk < 1 {
		return StateVector{}, fmt.Errorf("satellite has decayed (radius %.1f km at tsince=%f min)", rk*xkmper, tsince)
	}

	// Orientation vectors.
	sinuk, cosuk := math.Sincos(uk)
	sinik, cosik := math.Sincos(xinck)
	sinnok, cosnok := math.Sincos(xnodek)
	xmx := -sinnok * cosik
	xmy := cosnok * cosik
	ux := xmx*sinuk + cosnok*cosuk
	uy := xmy*sinuk + sinnok*cosuk
	uz := sinik * sinuk
	vx := xmx*cosuk - cosnok*sinuk
	vy := xmy*cosuk - sinnok*sinuk
	vz := sinik * cosuk

	return StateVector{
		R:      []float64{rk * ux * xkmper, rk * uy * xkmper, rk * uz * xkmper},
		V:      []float64{(rdotk*ux + rfdotk*vx) * vFactor, (rdotk*uy + rfdotk*vy) * vFactor, (rdotk*uz + rfdotk*vz) * vFactor},
		Tsince: tsince,
	}, nil
}
