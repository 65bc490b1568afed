package sattrack

import "math"

// Lunar-solar and resonance constants of the deep-space model.
const (
	zns    = 1.19459e-5
	c1ss   = 2.9864797e-6
	zes    = 1.675e-2
	znl    = 1.5835218e-4
	c1l    = 4.7968065e-7
	zel    = 5.490e-2
	zcosgs = 1.945905e-1
	zsings = -9.8088458e-1
	zcosis = 9.1744867e-1
	zsinis = 3.9785416e-1
	root22 = 1.7891679e-6
	root32 = 3.7393792e-7
	root44 = 7.3636953e-9
	root52 = 1.1428639e-7
	root54 = 2.1765803e-9
	thdt   = 4.3752691e-3
	q22    = 1.7891679e-6
	q31    = 2.1460748e-6
	q33    = 2.2123015e-7
	g22    = 5.7686396
	g32    = 9.5240898e-1
	g44    = 1.8014998
	g52    = 1.0508330
	g54    = 4.4108898
)

// SecularElements is the element tuple the deep-space correction operates on.
// Angles in radians, mean motion in radians per minute.
type SecularElements struct {
	MeanAnomaly float64
	ArgPerigee  float64
	Node        float64
	Inclination float64
	Ecc         float64
	MeanMotion  float64
}

// DeepSpaceModel corrects secular elements for long-period lunar-solar and
// resonance perturbations. Secular applies the secular and resonance part,
// Periodic the lunar-solar periodic part; the deep-space propagation branch
// calls them in that order around the drag adjustment. Implementations must
// be idempotent for repeated calls with the same tsince.
type DeepSpaceModel interface {
	Secular(el SecularElements, tsince float64) SecularElements
	Periodic(el SecularElements, tsince float64) SecularElements
}

// lunisolarTerms is the output of one lunar or solar perturbation pass: the
// secular contributions and the periodic coefficient set.
type lunisolarTerms struct {
	se, si, sl, sgh, sh float64
	e2, e3, i2, i3      float64
	l2, l3, l4          float64
	gh2, gh3, gh4       float64
	h2, h3              float64
}

// lunarSolarModel is the reference deep-space correction: lunar and solar
// secular/periodic terms plus the geopotential resonance integrator for
// synchronous and 12-hour orbits.
type lunarSolarModel struct {
	// Frozen epoch geometry.
	eq, xqncl              float64
	cosio, sinio           float64
	eosq, betao, betao2    float64
	xnq, aodp              float64
	omegaq, xmao           float64
	thgr, ds50             float64
	zmos, zmol             float64

	// Combined secular rates.
	sse, ssi, ssl, ssg, ssh float64

	solar, lunar lunisolarTerms

	// Resonance.
	resonance, synchronous                         bool
	xlamo, xfact                                   float64
	del1, del2, del3, fasx2, fasx4, fasx6          float64
	d2201, d2211, d3210, d3222, d4410, d4422       float64
	d5220, d5232, d5421, d5433                     float64
	xmdot, omgdot, xnodot                          float64

	// Integrator state, restarted whenever tsince crosses the epoch.
	atime, xli, xni float64
}

const (
	dsStep  = 720.0
	dsStep2 = dsStep * dsStep / 2
)

// newLunarSolarModel precomputes the lunar and solar term sets and, where the
// mean motion warrants it, the resonance coefficients.
func newLunarSolarModel(ps *PropagationState) *lunarSolarModel {
	el := ps.el
	m := &lunarSolarModel{
		eq:     el.Ecc,
		xqncl:  el.Inclination,
		cosio:  ps.cosio,
		sinio:  ps.sinio,
		eosq:   el.Ecc * el.Ecc,
		xnq:    ps.xnodp,
		aodp:   ps.aodp,
		omegaq: el.ArgPerigee,
		xmao:   el.MeanAnomaly,
		xmdot:  ps.xmdot,
		omgdot: ps.omgdot,
		xnodot: ps.xnodot,
	}
	m.betao2 = 1 - m.eosq
	m.betao = math.Sqrt(m.betao2)
	m.ds50 = ps.epochJD - 2433281.5
	m.thgr = mod2pi(6.3003880987*m.ds50 + 1.72944494)

	sinq, cosq := math.Sincos(el.Node)
	sing, cosg := math.Sincos(el.ArgPerigee)

	// Lunar orientation at epoch, from the days since 1900 Jan 0.5.
	day := m.ds50 + 18261.5
	xnodce := 4.5236020 - 9.2422029e-4*day
	stem, ctem := math.Sincos(xnodce)
	zcosil := 0.91375164 - 0.03568096*ctem
	zsinil := math.Sqrt(1 - zcosil*zcosil)
	zsinhl := 0.089683511 * stem / zsinil
	zcoshl := math.Sqrt(1 - zsinhl*zsinhl)
	c := 4.7199672 + 0.22997150*day
	gam := 5.8351514 + 0.0019443680*day
	m.zmol = mod2pi(c - gam)
	zx := 0.39785416 * stem / zsinil
	zy := zcoshl*ctem + 0.91744867*zsinhl*stem
	zx = gam + math.Atan2(zx, zy) - xnodce
	zcosgl, zsingl := math.Cos(zx), math.Sin(zx)
	m.zmos = mod2pi(6.2565837 + 0.017201977*day)

	// Solar pass, then lunar pass with the lunar orientation.
	m.solar = m.lunisolarPass(zcosgs, zsings, zcosis, zsinis, cosq, sinq, sing, cosg, c1ss, zns, zes)
	m.lunar = m.lunisolarPass(zcosgl, zsingl, zcosil, zsinil,
		zcoshl*cosq+zsinhl*sinq, sinq*zcoshl-cosq*zsinhl, sing, cosg, c1l, znl, zel)

	m.sse = m.solar.se + m.lunar.se
	m.ssi = m.solar.si + m.lunar.si
	m.ssl = m.solar.sl + m.lunar.sl
	sshSolar := m.solar.sh / m.sinio
	sshLunar := m.lunar.sh / m.sinio
	m.ssh = sshSolar + sshLunar
	m.ssg = (m.solar.sgh - m.cosio*sshSolar) + (m.lunar.sgh - m.cosio*sshLunar)

	m.initResonance(el)
	m.atime = 0
	m.xli = m.xlamo
	m.xni = m.xnq
	return m
}

// lunisolarPass evaluates one perturbing body's secular contributions and
// periodic coefficients for the given body orientation (zcosg..zsinh), force
// constant cc, mean rate zn and eccentricity ze.
func (m *lunarSolarModel) lunisolarPass(zcosg, zsing, zcosi, zsini, zcosh, zsinh, sing, cosg, cc, zn, ze float64) lunisolarTerms {
	a1 := zcosg*zcosh + zsing*zcosi*zsinh
	a3 := -zsing*zcosh + zcosg*zcosi*zsinh
	a7 := -zcosg*zsinh + zsing*zcosi*zcosh
	a8 := zsing * zsini
	a9 := zsing*zsinh + zcosg*zcosi*zcosh
	a10 := zcosg * zsini
	a2 := m.cosio*a7 + m.sinio*a8
	a4 := m.cosio*a9 + m.sinio*a10
	a5 := -m.sinio*a7 + m.cosio*a8
	a6 := -m.sinio*a9 + m.cosio*a10
	x1 := a1*cosg + a2*sing
	x2 := a3*cosg + a4*sing
	x3 := -a1*sing + a2*cosg
	x4 := -a3*sing + a4*cosg
	x5 := a5 * sing
	x6 := a6 * sing
	x7 := a5 * cosg
	x8 := a6 * cosg
	z31 := 12*x1*x1 - 3*x3*x3
	z32 := 24*x1*x2 - 6*x3*x4
	z33 := 12*x2*x2 - 3*x4*x4
	z1 := 3*(a1*a1+a2*a2) + z31*m.eosq
	z2 := 6*(a1*a3+a2*a4) + z32*m.eosq
	z3 := 3*(a3*a3+a4*a4) + z33*m.eosq
	z11 := -6*a1*a5 + m.eosq*(-24*x1*x7-6*x3*x5)
	z12 := -6*(a1*a6+a3*a5) + m.eosq*(-24*(x2*x7+x1*x8)-6*(x3*x6+x4*x5))
	z13 := -6*a3*a6 + m.eosq*(-24*x2*x8-6*x4*x6)
	z21 := 6*a2*a5 + m.eosq*(24*x1*x5-6*x3*x7)
	z22 := 6*(a4*a5+a2*a6) + m.eosq*(24*(x2*x5+x1*x6)-6*(x4*x7+x3*x8))
	z23 := 6*a4*a6 + m.eosq*(24*x2*x6-6*x4*x8)
	z1 = z1 + z1 + m.betao2*z31
	z2 = z2 + z2 + m.betao2*z32
	z3 = z3 + z3 + m.betao2*z33
	s3 := cc / m.xnq
	s2 := -0.5 * s3 / m.betao
	s4 := s3 * m.betao
	s1 := -15 * m.eq * s4
	s5 := x1*x3 + x2*x4
	s6 := x2*x3 + x1*x4
	s7 := x2*x4 - x1*x3

	var t lunisolarTerms
	t.se = s1 * zn * s5
	t.si = s2 * zn * (z11 + z13)
	t.sl = -zn * s3 * (z1 + z3 - 14 - 6*m.eosq)
	t.sgh = s4 * zn * (z31 + z33 - 6)
	t.sh = -zn * s2 * (z21 + z23)
	// Secular node/perigee terms vanish for near-equatorial orbits.
	if m.xqncl < 5.2359877e-2 {
		t.sh = 0
	}
	t.e2 = 2 * s1 * s6
	t.e3 = 2 * s1 * s7
	t.i2 = 2 * s2 * z12
	t.i3 = 2 * s2 * (z13 - z11)
	t.l2 = -2 * s3 * z2
	t.l3 = -2 * s3 * (z3 - z1)
	t.l4 = -2 * s3 * (-21 - 9*m.eosq) * ze
	t.gh2 = 2 * s4 * z32
	t.gh3 = 2 * s4 * (z33 - z31)
	t.gh4 = -18 * s4 * ze
	t.h2 = -2 * s2 * z22
	t.h3 = -2 * s2 * (z23 - z21)
	return t
}

// initResonance sets up the geopotential resonance coefficients for
// synchronous (one revolution per day) and eccentric 12-hour orbits. Orbits
// outside both bands carry no resonance correction.
func (m *lunarSolarModel) initResonance(el OrbitalElements) {
	θ2 := m.cosio * m.cosio
	aqnv := 1 / m.aodp
	if m.xnq < 0.0052359877 && m.xnq > 0.0034906585 {
		m.resonance = true
		m.synchronous = true
		g200 := 1 + m.eosq*(-2.5+0.8125*m.eosq)
		g310 := 1 + 2*m.eosq
		g300 := 1 + m.eosq*(-6+6.60937*m.eosq)
		f220 := 0.75 * (1 + m.cosio) * (1 + m.cosio)
		f311 := 0.9375*m.sinio*m.sinio*(1+3*m.cosio) - 0.75*(1+m.cosio)
		f330 := 1 + m.cosio
		f330 = 1.875 * f330 * f330 * f330
		del1 := 3 * m.xnq * m.xnq * aqnv * aqnv
		m.del2 = 2 * del1 * f220 * g200 * q22
		m.del3 = 3 * del1 * f330 * g300 * q33 * aqnv
		m.del1 = del1 * f311 * g310 * q31 * aqnv
		m.fasx2 = 0.13130908
		m.fasx4 = 2.8843198
		m.fasx6 = 0.37448087
		m.xlamo = m.xmao + el.Node + el.ArgPerigee - m.thgr
		bfact := m.xmdot + m.omgdot + m.xnodot - thdt
		m.xfact = bfact + m.ssl + m.ssg + m.ssh - m.xnq
		return
	}
	if m.xnq < 0.00826 || m.xnq > 0.00924 || m.eq < 0.5 {
		return
	}
	m.resonance = true
	eoc := m.eq * m.eosq
	g201 := -0.306 - (m.eq-0.64)*0.440
	var g211, g310, g322, g410, g422, g520 float64
	if m.eq <= 0.65 {
		g211 = 3.616 - 13.247*m.eq + 16.290*m.eosq
		g310 = -19.302 + 117.390*m.eq - 228.419*m.eosq + 156.591*eoc
		g322 = -18.9068 + 109.7927*m.eq - 214.6334*m.eosq + 146.5816*eoc
		g410 = -41.122 + 242.694*m.eq - 471.094*m.eosq + 313.953*eoc
		g422 = -146.407 + 841.880*m.eq - 1629.014*m.eosq + 1083.435*eoc
		g520 = -532.114 + 3017.977*m.eq - 5740*m.eosq + 3708.276*eoc
	} else {
		g211 = -72.099 + 331.819*m.eq - 508.738*m.eosq + 266.724*eoc
		g310 = -346.844 + 1582.851*m.eq - 2415.925*m.eosq + 1246.113*eoc
		g322 = -342.585 + 1554.908*m.eq - 2366.899*m.eosq + 1215.972*eoc
		g410 = -1052.797 + 4758.686*m.eq - 7193.992*m.eosq + 3651.957*eoc
		g422 = -3581.69 + 16178.11*m.eq - 24462.77*m.eosq + 12422.52*eoc
		if m.eq <= 0.715 {
			g520 = 1464.74 - 4664.75*m.eq + 3763.64*m.eosq
		} else {
			g520 = -5149.66 + 29936.92*m.eq - 54087.36*m.eosq + 31324.56*eoc
		}
	}
	var g533, g521, g532 float64
	if m.eq < 0.7 {
		g533 = -919.2277 + 4988.61*m.eq - 9064.77*m.eosq + 5542.21*eoc
		g521 = -822.71072 + 4568.6173*m.eq - 8491.4146*m.eosq + 5337.524*eoc
		g532 = -853.666 + 4690.25*m.eq - 8624.77*m.eosq + 5341.4*eoc
	} else {
		g533 = -37995.78 + 161616.52*m.eq - 229838.2*m.eosq + 109377.94*eoc
		g521 = -51752.104 + 218913.95*m.eq - 309468.16*m.eosq + 146349.42*eoc
		g532 = -40023.88 + 170470.89*m.eq - 242699.48*m.eosq + 115605.82*eoc
	}
	sini2 := m.sinio * m.sinio
	f220 := 0.75 * (1 + 2*m.cosio + θ2)
	f221 := 1.5 * sini2
	f321 := 1.875 * m.sinio * (1 - 2*m.cosio - 3*θ2)
	f322 := -1.875 * m.sinio * (1 + 2*m.cosio - 3*θ2)
	f441 := 35 * sini2 * f220
	f442 := 39.3750 * sini2 * sini2
	f522 := 9.84375 * m.sinio * (sini2*(1-2*m.cosio-5*θ2) + 0.33333333*(-2+4*m.cosio+6*θ2))
	f523 := m.sinio * (4.92187512*sini2*(-2-4*m.cosio+10*θ2) + 6.56250012*(1+2*m.cosio-3*θ2))
	f542 := 29.53125 * m.sinio * (2 - 8*m.cosio + θ2*(-12+8*m.cosio+10*θ2))
	f543 := 29.53125 * m.sinio * (-2 - 8*m.cosio + θ2*(12+8*m.cosio-10*θ2))
	xno2 := m.xnq * m.xnq
	ainv2 := aqnv * aqnv
	temp1 := 3 * xno2 * ainv2
	temp := temp1 * root22
	m.d2201 = temp * f220 * g201
	m.d2211 = temp * f221 * g211
	temp1 *= aqnv
	temp = temp1 * root32
	m.d3210 = temp * f321 * g310
	m.d3222 = temp * f322 * g322
	temp1 *= aqnv
	temp = 2 * temp1 * root44
	m.d4410 = temp * f441 * g410
	m.d4422 = temp * f442 * g422
	temp1 *= aqnv
	temp = temp1 * root52
	m.d5220 = temp * f522 * g520
	m.d5232 = temp * f523 * g532
	temp = 2 * temp1 * root54
	m.d5421 = temp * f542 * g521
	m.d5433 = temp * f543 * g533
	m.xlamo = m.xmao + 2*el.Node - 2*m.thgr
	bfact := m.xmdot + m.xnodot + m.xnodot - thdt - thdt
	m.xfact = bfact + m.ssl + m.ssh + m.ssh - m.xnq
}

// Secular applies the lunar-solar secular drift and, for resonant orbits, the
// numerically integrated geopotential resonance terms.
func (m *lunarSolarModel) Secular(el SecularElements, tsince float64) SecularElements {
	out := el
	out.MeanAnomaly += m.ssl * tsince
	out.ArgPerigee += m.ssg * tsince
	out.Node += m.ssh * tsince
	out.Ecc = m.eq + m.sse*tsince
	out.Inclination = m.xqncl + m.ssi*tsince
	if out.Inclination < 0 {
		out.Inclination = -out.Inclination
		out.Node += math.Pi
		out.ArgPerigee -= math.Pi
	}
	if !m.resonance {
		return out
	}

	// Restart the integrator whenever tsince crosses the epoch relative to
	// the previous call.
	if m.atime == 0 || (tsince >= 0 && m.atime < 0) || (tsince < 0 && m.atime >= 0) {
		m.atime = 0
		m.xni = m.xnq
		m.xli = m.xlamo
	}
	// Euler-Maclaurin steps of 720 minutes toward tsince.
	for math.Abs(tsince-m.atime) >= dsStep {
		delt := dsStep * sign(tsince-m.atime)
		xndot, xnddt, xldot := m.resonanceDots(m.xli, m.xni, m.atime)
		m.xli += xldot*delt + xndot*dsStep2
		m.xni += xndot*delt + xnddt*dsStep2
		m.atime += delt
	}
	ft := tsince - m.atime
	xndot, xnddt, xldot := m.resonanceDots(m.xli, m.xni, m.atime)
	out.MeanMotion = m.xni + xndot*ft + xnddt*ft*ft*0.5
	xl := m.xli + xldot*ft + xndot*ft*ft*0.5
	temp := -out.Node + m.thgr + tsince*thdt
	if m.synchronous {
		out.MeanAnomaly = xl - out.ArgPerigee + temp
	} else {
		out.MeanAnomaly = xl + temp + temp
	}
	return out
}

// resonanceDots evaluates the resonance acceleration terms at the integrator
// state (xli, xni, atime).
func (m *lunarSolarModel) resonanceDots(xli, xni, atime float64) (xndot, xnddt, xldot float64) {
	if m.synchronous {
		xndot = m.del1*math.Sin(xli-m.fasx2) + m.del2*math.Sin(2*(xli-m.fasx4)) +
			m.del3*math.Sin(3*(xli-m.fasx6))
		xnddt = m.del1*math.Cos(xli-m.fasx2) + 2*m.del2*math.Cos(2*(xli-m.fasx4)) +
			3*m.del3*math.Cos(3*(xli-m.fasx6))
	} else {
		xomi := m.omegaq + m.omgdot*atime
		x2omi := xomi + xomi
		x2li := xli + xli
		xndot = m.d2201*math.Sin(x2omi+xli-g22) + m.d2211*math.Sin(xli-g22) +
			m.d3210*math.Sin(xomi+xli-g32) + m.d3222*math.Sin(-xomi+xli-g32) +
			m.d4410*math.Sin(x2omi+x2li-g44) + m.d4422*math.Sin(x2li-g44) +
			m.d5220*math.Sin(xomi+xli-g52) + m.d5232*math.Sin(-xomi+xli-g52) +
			m.d5421*math.Sin(xomi+x2li-g54) + m.d5433*math.Sin(-xomi+x2li-g54)
		xnddt = m.d2201*math.Cos(x2omi+xli-g22) + m.d2211*math.Cos(xli-g22) +
			m.d3210*math.Cos(xomi+xli-g32) + m.d3222*math.Cos(-xomi+xli-g32) +
			m.d5220*math.Cos(xomi+xli-g52) + m.d5232*math.Cos(-xomi+xli-g52) +
			2*(m.d4410*math.Cos(x2omi+x2li-g44)+m.d4422*math.Cos(x2li-g44)+
				m.d5421*math.Cos(xomi+x2li-g54)+m.d5433*math.Cos(-xomi+x2li-g54))
	}
	xldot = xni + m.xfact
	xnddt *= xldot
	return
}

// Periodic applies the lunar-solar periodic terms, with the Lyddane
// modification below 0.2 rad inclination. The terms are recomputed on every
// call so that repeated evaluations at the same tsince are identical.
func (m *lunarSolarModel) Periodic(el SecularElements, tsince float64) SecularElements {
	sinis, cosis := math.Sincos(el.Inclination)

	// Solar periodics.
	zm := m.zmos + zns*tsince
	zf := zm + 2*zes*math.Sin(zm)
	sinzf := math.Sin(zf)
	f2 := 0.5*sinzf*sinzf - 0.25
	f3 := -0.5 * sinzf * math.Cos(zf)
	ses := m.solar.e2*f2 + m.solar.e3*f3
	sis := m.solar.i2*f2 + m.solar.i3*f3
	sls := m.solar.l2*f2 + m.solar.l3*f3 + m.solar.l4*sinzf
	sghs := m.solar.gh2*f2 + m.solar.gh3*f3 + m.solar.gh4*sinzf
	shs := m.solar.h2*f2 + m.solar.h3*f3

	// Lunar periodics.
	zm = m.zmol + znl*tsince
	zf = zm + 2*zel*math.Sin(zm)
	sinzf = math.Sin(zf)
	f2 = 0.5*sinzf*sinzf - 0.25
	f3 = -0.5 * sinzf * math.Cos(zf)
	sel := m.lunar.e2*f2 + m.lunar.e3*f3
	sil := m.lunar.i2*f2 + m.lunar.i3*f3
	sll := m.lunar.l2*f2 + m.lunar.l3*f3 + m.lunar.l4*sinzf
	sghl := m.lunar.gh2*f2 + m.lunar.gh3*f3 + m.lunar.gh4*sinzf
	sh1 := m.lunar.h2*f2 + m.lunar.h3*f3

	pe := ses + sel
	pinc := sis + sil
	pl := sls + sll
	pgh := sghs + sghl
	ph := shs + sh1

	out := el
	out.Inclination += pinc
	out.Ecc += pe

	if m.xqncl >= 0.2 {
		ph /= m.sinio
		pgh -= m.cosio * ph
		out.ArgPerigee += pgh
		out.Node += ph
		out.MeanAnomaly += pl
		return out
	}

	// Lyddane modification for low inclinations.
	sinok, cosok := math.Sincos(out.Node)
	alfdp := sinis*sinok + ph*cosok + pinc*cosis*sinok
	betdp := sinis*cosok - ph*sinok + pinc*cosis*cosok
	node := mod2pi(out.Node)
	xls := out.MeanAnomaly + out.ArgPerigee + cosis*node + pl + pgh - pinc*node*sinis
	xnoh := node
	node = math.Atan2(alfdp, betdp)
	if math.Abs(xnoh-node) > math.Pi {
		if node < xnoh {
			node += 2 * math.Pi
		} else {
			node -= 2 * math.Pi
		}
	}
	out.MeanAnomaly += pl
	out.Node = node
	out.ArgPerigee = xls - out.MeanAnomaly - math.Cos(out.Inclination)*out.Node
	return out
}
