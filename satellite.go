package sattrack

import (
	"fmt"
	"math"
	"time"
)

// Satellite binds a set of mean elements to the propagation branch that
// governs them. The branch is chosen once at construction from the orbital
// period and never changes for the lifetime of the object.
type Satellite struct {
	state *PropagationState
	deep  DeepSpaceModel
}

// NewSatellite preprocesses the elements and, for deep-space orbits, attaches
// the reference lunar-solar correction model.
func NewSatellite(el OrbitalElements) (*Satellite, error) {
	ps, err := NewPropagationState(el)
	if err != nil {
		return nil, err
	}
	s := &Satellite{state: ps}
	if ps.isDeepSpace {
		s.deep = newLunarSolarModel(ps)
	}
	return s, nil
}

// NewSatelliteFromTLE parses the element lines and builds the satellite.
func NewSatelliteFromTLE(t TLE) (*Satellite, error) {
	el, err := t.Elements()
	if err != nil {
		return nil, err
	}
	return NewSatellite(el)
}

// SetDeepSpaceModel swaps in an alternative deep-space correction. Panics on
// a near-earth satellite or a nil model: both are programmer errors.
func (s *Satellite) SetDeepSpaceModel(m DeepSpaceModel) {
	if !s.state.isDeepSpace {
		panic(fmt.Errorf("satellite %s is near-earth, it takes no deep-space model", s.Name()))
	}
	if m == nil {
		panic("nil DeepSpaceModel")
	}
	s.deep = m
}

// Name returns the element set name, or the catalog number when unnamed.
func (s *Satellite) Name() string {
	if s.state.el.Name != "" {
		return s.state.el.Name
	}
	return fmt.Sprintf("NORAD %d", s.state.el.NORADID)
}

// Elements returns the mean elements this satellite was built from.
func (s *Satellite) Elements() OrbitalElements { return s.state.el }

// State exposes the derived propagation state, read-only.
func (s *Satellite) State() *PropagationState { return s.state }

// Propagate returns the inertial state at tsince minutes after the element
// epoch, negative values propagating backward.
func (s *Satellite) Propagate(tsince float64) (StateVector, error) {
	if s.state.isDeepSpace {
		return s.propagateDeepSpace(tsince)
	}
	return s.state.propagateNearEarth(tsince)
}

// PropagateAt returns the inertial state at the given wall-clock time.
func (s *Satellite) PropagateAt(dt time.Time) (StateVector, error) {
	return s.Propagate(s.TsinceOf(dt))
}

// TsinceOf converts a wall-clock time to minutes since the element epoch.
func (s *Satellite) TsinceOf(dt time.Time) float64 {
	return (julianDate(dt) - s.state.epochJD) * minPerDay
}

// TimeOf is the inverse of TsinceOf.
func (s *Satellite) TimeOf(tsince float64) time.Time {
	return timeFromJD(s.state.epochJD + tsince/minPerDay)
}

// propagateDeepSpace runs the shared secular growth, hands the elements to
// the deep-space correction around the drag adjustment, and finishes with the
// common periodic reconstruction. Angles stay unwrapped here; the correction
// wraps internally where its trigonometry demands it.
func (s *Satellite) propagateDeepSpace(tsince float64) (StateVector, error) {
	ps := s.state
	el := ps.el
	tsq := tsince * tsince
	xmdf := el.MeanAnomaly + ps.xmdot*tsince
	templ := ps.t2cof * tsq
	omgadf := el.ArgPerigee + ps.omgdot*tsince
	xnode := el.Node + ps.xnodot*tsince + ps.xnodcf*tsq
	tempa := 1 - ps.c1*tsince
	tempe := el.Bstar * ps.c4 * tsince

	sec := SecularElements{
		MeanAnomaly: xmdf,
		ArgPerigee:  omgadf,
		Node:        xnode,
		Inclination: el.Inclination,
		Ecc:         el.Ecc,
		MeanMotion:  ps.xnodp,
	}
	sec = s.deep.Secular(sec, tsince)
	a := math.Pow(xke/sec.MeanMotion, 2.0/3) * tempa * tempa
	sec.Ecc -= tempe
	// The drag mean-anomaly growth applies after the resonance integration.
	sec.MeanAnomaly += ps.xnodp * templ
	sec = s.deep.Periodic(sec, tsince)

	xl := sec.MeanAnomaly + sec.ArgPerigee + sec.Node
	xn := xke / math.Pow(a, 1.5)
	sv, err := ps.reconstruct(sec.Ecc, a, xl, sec.ArgPerigee, sec.Node, sec.Inclination, xn, tsince)
	if err != nil {
		return sv, err
	}
	propagationsTotal.WithLabelValues("sdp4").Inc()
	return sv, nil
}

// RevolutionNumber returns the revolution count at tsince minutes from epoch,
// from the epoch revolution number plus completed mean-anomaly cycles.
func (s *Satellite) RevolutionNumber(tsince float64) int {
	cycles := (s.state.el.MeanAnomaly + s.state.xmdot*tsince) / (2 * math.Pi)
	return s.state.el.RevNumber + int(math.Floor(cycles))
}

// WillBeSeen reports whether the orbit geometry ever brings the satellite
// above the observer's horizon, regardless of timing. A cheap precheck before
// running a pass search.
func (s *Satellite) WillBeSeen(obs Observer) bool {
	el := s.state.el
	if el.MeanMotion < 1e-8 {
		return false
	}
	incl := el.Inclination
	if incl >= math.Pi/2 {
		incl = math.Pi - incl
	}
	sma := 331.25 * math.Exp(math.Log(minPerDay/el.MeanMotion)*(2.0/3))
	apogee := sma*(1+el.Ecc) - xkmper
	return math.Acos(xkmper/(apogee+xkmper))+incl > math.Abs(obs.Latitude)
}
