package sattrack

import (
	"fmt"
	"math"
	"time"
)

const (
	// deepSpacePeriodMin is the orbital period, in minutes, at and above
	// which the deep-space propagation branch applies.
	deepSpacePeriodMin = 225.0
	// simplifiedDragThreshold is the along-track drag rate, in rev/day²,
	// below which the higher-order drag and eccentricity-rate terms are
	// omitted from the near-earth model.
	simplifiedDragThreshold = 2.16e-3
)

// OrbitalElements is an immutable set of NORAD mean elements. Angles are in
// radians, mean motion in revolutions per day. Create one from a TLE or fill
// it directly; never mutate it once a Satellite holds it.
type OrbitalElements struct {
	Name        string
	NORADID     int
	Epoch       time.Time
	MeanMotion  float64 // rev/day
	MeanMotion1 float64 // rev/day², first derivative
	MeanMotion2 float64 // rev/day³, second derivative
	Bstar       float64 // inverse Earth radii
	Inclination float64
	Node        float64 // right ascension of the ascending node
	Ecc         float64
	ArgPerigee  float64
	MeanAnomaly float64
	RevNumber   int
}

// Validate returns an error if the elements cannot describe a bound orbit.
func (el OrbitalElements) Validate() error {
	if el.Ecc < 0 || el.Ecc >= 1 {
		return fmt.Errorf("eccentricity %f not in [0, 1)", el.Ecc)
	}
	if el.MeanMotion <= 0 {
		return fmt.Errorf("mean motion %f must be strictly positive", el.MeanMotion)
	}
	if el.Inclination < 0 || el.Inclination > math.Pi {
		return fmt.Errorf("inclination %f rad not in [0, π]", el.Inclination)
	}
	return nil
}

// xno returns the mean motion in radians per minute, the working unit of the
// propagation models.
func (el OrbitalElements) xno() float64 {
	return el.MeanMotion * 2 * math.Pi / minPerDay
}

// EpochJD returns the Julian date of the element epoch.
func (el OrbitalElements) EpochJD() float64 {
	return julianDate(el.Epoch)
}

// PropagationState holds everything the propagation models derive from a set
// of elements: recovered mean motion and semimajor axis, secular rates, and
// the drag and oblateness coefficient stack. It is computed once per element
// set and read-only afterwards.
type PropagationState struct {
	el OrbitalElements

	// Recovered (un-Kozai'd) mean motion and semimajor axis.
	xnodp float64 // rad/min
	aodp  float64 // Earth radii

	// Geometry of the orbit plane.
	cosio, sinio           float64
	x3thm1, x1mth2, x7thm1 float64
	eta                    float64

	// Secular rates, rad/min.
	xmdot, omgdot, xnodot float64

	// Drag coefficient stack.
	c1, c4, c5                    float64
	d2, d3, d4                    float64
	t2cof, t3cof, t4cof, t5cof    float64
	omgcof, xmcof, xnodcf         float64
	delmo, sinmo                  float64
	aycof, xlcof                  float64
	s4, qoms24                    float64
	isDeepSpace, isSimplifiedDrag bool

	perigeeKm float64
	periodMin float64
	epochJD   float64

	// quickSearch is the coarse pass-search stride multiplier derived from
	// the orbital period, clamped to [1, 8].
	quickSearch int
}

// IsDeepSpace reports whether the deep-space branch governs this orbit. The
// flag is fixed at construction.
func (ps *PropagationState) IsDeepSpace() bool { return ps.isDeepSpace }

// Period returns the orbital period in minutes, from the recovered mean
// motion.
func (ps *PropagationState) Period() float64 { return ps.periodMin }

// Elements returns the elements this state was derived from.
func (ps *PropagationState) Elements() OrbitalElements { return ps.el }

// NewPropagationState recovers the true mean motion and semimajor axis from
// the Kozai mean elements and precomputes the secular rates and perturbation
// coefficients both propagation branches consume.
func NewPropagationState(el OrbitalElements) (*PropagationState, error) {
	if err := el.Validate(); err != nil {
		return nil, err
	}
	ps := &PropagationState{el: el, epochJD: el.EpochJD()}

	xno := el.xno()
	eo := el.Ecc
	eosq := eo * eo
	betao2 := 1 - eosq
	betao := math.Sqrt(betao2)

	ps.cosio = math.Cos(el.Inclination)
	ps.sinio = math.Sin(el.Inclination)
	θ2 := ps.cosio * ps.cosio
	ps.x3thm1 = 3*θ2 - 1
	ps.x1mth2 = 1 - θ2
	ps.x7thm1 = 7*θ2 - 1

	// Recover original mean motion and semimajor axis from the input
	// elements.
	a1 := math.Pow(xke/xno, 2.0/3)
	δ1 := 1.5 * ck2 * ps.x3thm1 / (a1 * a1 * betao * betao2)
	ao := a1 * (1 - δ1*(0.5*(2.0/3)+δ1*(1+134.0/81*δ1)))
	δo := 1.5 * ck2 * ps.x3thm1 / (ao * ao * betao * betao2)
	ps.xnodp = xno / (1 + δo)
	ps.aodp = ao / (1 - δo)

	ps.periodMin = 2 * math.Pi / ps.xnodp
	ps.isDeepSpace = ps.periodMin >= deepSpacePeriodMin
	ps.isSimplifiedDrag = math.Abs(el.MeanMotion1) < simplifiedDragThreshold
	ps.quickSearch = quickSearchStride(ps.periodMin)

	// For perigees below 156 km the s and (q0-s)^4 parameters are altered.
	ps.perigeeKm = (ps.aodp*(1-eo) - 1) * xkmper
	ps.s4, ps.qoms24 = dragParameters(ps.perigeeKm)

	pinvsq := 1 / (ps.aodp * ps.aodp * betao2 * betao2)
	tsi := 1 / (ps.aodp - ps.s4)
	ps.eta = ps.aodp * eo * tsi
	etasq := ps.eta * ps.eta
	eeta := eo * ps.eta
	psisq := math.Abs(1 - etasq)
	coef := ps.qoms24 * math.Pow(tsi, 4)
	coef1 := coef / math.Pow(psisq, 3.5)

	c2 := coef1 * ps.xnodp * (ps.aodp*(1+1.5*etasq+eeta*(4+etasq)) +
		0.75*ck2*tsi/psisq*ps.x3thm1*(8+3*etasq*(8+etasq)))
	ps.c1 = el.Bstar * c2
	a3ovk2 := -j3 / ck2
	ps.c4 = 2 * ps.xnodp * coef1 * ps.aodp * betao2 *
		(ps.eta*(2+0.5*etasq) + eo*(0.5+2*etasq) -
			2*ck2*tsi/(ps.aodp*psisq)*
				(-3*ps.x3thm1*(1-2*eeta+etasq*(1.5-0.5*eeta))+
					0.75*ps.x1mth2*(2*etasq-eeta*(1+etasq))*math.Cos(2*el.ArgPerigee)))
	ps.c5 = 2 * coef1 * ps.aodp * betao2 * (1 + 2.75*(etasq+eeta) + eeta*etasq)

	θ4 := θ2 * θ2
	temp1 := 3 * ck2 * pinvsq * ps.xnodp
	temp2 := temp1 * ck2 * pinvsq
	temp3 := 1.25 * ck4 * pinvsq * pinvsq * ps.xnodp
	ps.xmdot = ps.xnodp + 0.5*temp1*betao*ps.x3thm1 +
		0.0625*temp2*betao*(13-78*θ2+137*θ4)
	ps.omgdot = -0.5*temp1*(1-5*θ2) +
		0.0625*temp2*(7-114*θ2+395*θ4) +
		temp3*(3-36*θ2+49*θ4)
	xhdot1 := -temp1 * ps.cosio
	ps.xnodot = xhdot1 + (0.5*temp2*(4-19*θ2)+2*temp3*(3-7*θ2))*ps.cosio

	// The c3, delta-omega and delta-m terms divide by the eccentricity and
	// blow up on near-circular orbits; they only matter in the full drag
	// model anyway.
	if !ps.isSimplifiedDrag && eo > 1e-4 {
		c3 := coef * tsi * a3ovk2 * ps.xnodp * ps.sinio / eo
		ps.omgcof = el.Bstar * c3 * math.Cos(el.ArgPerigee)
		ps.xmcof = -(2.0 / 3) * coef * el.Bstar / eeta
	}
	ps.xnodcf = 3.5 * betao2 * xhdot1 * ps.c1
	ps.t2cof = 1.5 * ps.c1
	ps.xlcof = 0.125 * a3ovk2 * ps.sinio * (3 + 5*ps.cosio) / (1 + ps.cosio)
	ps.aycof = 0.25 * a3ovk2 * ps.sinio
	ps.delmo = math.Pow(1+ps.eta*math.Cos(el.MeanAnomaly), 3)
	ps.sinmo = math.Sin(el.MeanAnomaly)

	if !ps.isSimplifiedDrag {
		c1sq := ps.c1 * ps.c1
		ps.d2 = 4 * ps.aodp * tsi * c1sq
		temp := ps.d2 * tsi * ps.c1 / 3
		ps.d3 = (17*ps.aodp + ps.s4) * temp
		ps.d4 = 0.5 * temp * ps.aodp * tsi * (221*ps.aodp + 31*ps.s4) * ps.c1
		ps.t3cof = ps.d2 + 2*c1sq
		ps.t4cof = 0.25 * (3*ps.d3 + ps.c1*(12*ps.d2+10*c1sq))
		ps.t5cof = 0.2 * (3*ps.d4 + 12*ps.c1*ps.d3 + 6*ps.d2*ps.d2 +
			15*c1sq*(2*ps.d2+c1sq))
	}
	return ps, nil
}

// dragParameters returns the s and (q0-s)^4 density parameters, adjusted for
// low-perigee orbits.
func dragParameters(perigeeKm float64) (s4, qoms24 float64) {
	s4, qoms24 = s0, qoms2t
	if perigeeKm < 156 {
		if perigeeKm <= 98 {
			s4 = 20
		} else {
			s4 = perigeeKm - 78
		}
		qoms24 = math.Pow((120-s4)/xkmper, 4)
		s4 = s4/xkmper + 1
	}
	return
}

// quickSearchStride derives the coarse pass-search stride multiplier from the
// orbital period: slower satellites allow bigger strides far below the
// horizon.
func quickSearchStride(periodMin float64) int {
	stride := int(periodMin / 120)
	if stride < 1 {
		stride = 1
	} else if stride > 8 {
		stride = 8
	}
	return stride
}
