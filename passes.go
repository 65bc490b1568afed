package sattrack

import (
	"context"
	"fmt"
	"math"
	"time"
)

// PassEvent is the outcome of a pass search. Found false means the horizon
// was exhausted without a crossing, a normal outcome for satellites that
// never rise for the observer. Time is a sample inside the pass, Eclipsed
// whether the satellite sits in shadow at that sample.
type PassEvent struct {
	Found    bool
	Time     time.Time
	Eclipsed bool
}

// PassDetails are the refined rise/transit/set times of one pass. Valid false
// means a refinement walk hit its iteration cap; the times are then zero.
type PassDetails struct {
	Valid            bool
	Rise             time.Time
	Transit          time.Time
	Set              time.Time
	TransitElevation float64
	Eclipsed         bool
}

type searchState uint8

const (
	scanningDown searchState = iota
	coarseScan
	backtrack
)

// NextPass scans forward from start for the next time the satellite rises to
// minElevation (radians) or above, within maxDays. With includeCurrent, a
// satellite already above the threshold reports the ongoing pass; otherwise
// the scan first waits for it to set. The coarse scan strides in whole
// minutes, wider the deeper the satellite sits below the horizon, and
// backtracks minute-by-minute once it overshoots into a pass.
func (s *Satellite) NextPass(obs Observer, start time.Time, minElevation, maxDays float64, includeCurrent bool, mode PrecisionMode) (PassEvent, error) {
	if minElevation < 0 || minElevation >= math.Pi/2 {
		return PassEvent{}, fmt.Errorf("minimum elevation %f rad not in [0, π/2)", minElevation)
	}
	if maxDays <= 0 {
		return PassEvent{}, fmt.Errorf("maxDays must be strictly positive, got %f", maxDays)
	}
	if !s.WillBeSeen(obs) {
		return PassEvent{}, nil
	}

	deadline := start.Add(time.Duration(maxDays * 24 * float64(time.Hour)))
	t := start
	eph, err := s.EphemerisAt(obs, t, mode)
	if err != nil {
		return PassEvent{}, err
	}
	state := coarseScan
	if eph.Elevation >= minElevation {
		if includeCurrent {
			return PassEvent{Found: true, Time: t, Eclipsed: eph.Illumination == Eclipsed}, nil
		}
		state = scanningDown
	}

	for t.Before(deadline) {
		switch state {
		case scanningDown:
			t = t.Add(time.Minute)
			eph, err = s.EphemerisAt(obs, t, mode)
			if err != nil {
				return PassEvent{}, err
			}
			if eph.Elevation < minElevation {
				state = coarseScan
			}
		case coarseScan:
			t = t.Add(time.Duration(s.coarseStride(eph.Elevation)) * time.Minute)
			eph, err = s.EphemerisAt(obs, t, mode)
			if err != nil {
				return PassEvent{}, err
			}
			if eph.Elevation >= minElevation {
				state = backtrack
			}
		case backtrack:
			prev, err := s.EphemerisAt(obs, t.Add(-time.Minute), mode)
			if err != nil {
				return PassEvent{}, err
			}
			if prev.Elevation < minElevation {
				// t is the first in-range minute of the pass.
				return PassEvent{Found: true, Time: t, Eclipsed: eph.Illumination == Eclipsed}, nil
			}
			t = t.Add(-time.Minute)
			eph = prev
		}
	}
	searchExhaustedTotal.WithLabelValues("pass").Inc()
	return PassEvent{}, nil
}

// coarseStride returns the scan stride in minutes for the given elevation:
// the full quickSearch stride deep below the horizon, shrinking as the
// satellite approaches it so the scan cannot overshoot a short pass.
func (s *Satellite) coarseStride(elevation float64) int {
	q := s.state.quickSearch
	switch {
	case elevation < -25*deg2rad:
		// full stride
	case elevation < -15*deg2rad:
		q /= 2
	default:
		q /= 4
	}
	if q < 1 {
		q = 1
	}
	return q
}

// RiseSetTransit refines a found pass to rise, transit and set times by
// one-second walks against the refraction-adjusted horizon (pass
// math.NaN() to use the configured default). The walks are capped at one
// orbital period in each direction; hitting the cap invalidates the result.
func (s *Satellite) RiseSetTransit(obs Observer, pass PassEvent, refractionHorizon float64, mode PrecisionMode) (PassDetails, error) {
	if !pass.Found {
		return PassDetails{}, fmt.Errorf("cannot refine a pass that was not found")
	}
	horizon := refractionHorizon
	if math.IsNaN(horizon) {
		horizon = RefractionHorizon()
	}
	maxSteps := int(s.state.periodMin * 60)

	details := PassDetails{Eclipsed: pass.Eclipsed, TransitElevation: math.Inf(-1)}
	walk := func(dir time.Duration) (time.Time, bool, error) {
		t := pass.Time
		for i := 0; i < maxSteps; i++ {
			next := t.Add(dir)
			eph, err := s.EphemerisAt(obs, next, mode)
			if err != nil {
				return time.Time{}, false, err
			}
			if eph.Elevation > details.TransitElevation {
				details.TransitElevation = eph.Elevation
				details.Transit = next
			}
			if eph.Elevation < horizon {
				return t, true, nil
			}
			t = next
		}
		return time.Time{}, false, nil
	}

	first, err := s.EphemerisAt(obs, pass.Time, mode)
	if err != nil {
		return PassDetails{}, err
	}
	details.TransitElevation = first.Elevation
	details.Transit = pass.Time

	rise, ok, err := walk(-time.Second)
	if err != nil {
		return PassDetails{}, err
	}
	if !ok {
		searchExhaustedTotal.WithLabelValues("rise_set").Inc()
		return PassDetails{}, nil
	}
	set, ok, err := walk(time.Second)
	if err != nil {
		return PassDetails{}, err
	}
	if !ok {
		searchExhaustedTotal.WithLabelValues("rise_set").Inc()
		return PassDetails{}, nil
	}
	details.Valid = true
	details.Rise = rise
	details.Set = set
	return details, nil
}

// PassesBetween predicts every pass over the window [start, end], refined to
// rise/transit/set. The context bounds the total work for batch predictions
// over many satellites.
func (s *Satellite) PassesBetween(ctx context.Context, obs Observer, start, end time.Time, minElevation float64, mode PrecisionMode) ([]PassDetails, error) {
	var passes []PassDetails
	t := start
	for t.Before(end) {
		if err := ctx.Err(); err != nil {
			return passes, err
		}
		maxDays := end.Sub(t).Hours() / 24
		if maxDays <= 0 {
			break
		}
		ev, err := s.NextPass(obs, t, minElevation, maxDays, false, mode)
		if err != nil {
			return passes, err
		}
		if !ev.Found {
			break
		}
		det, err := s.RiseSetTransit(obs, ev, math.NaN(), mode)
		if err != nil {
			return passes, err
		}
		if !det.Valid {
			// Could not refine; resume past the bracketing sample.
			t = ev.Time.Add(10 * time.Minute)
			continue
		}
		if det.Set.After(end) {
			passes = append(passes, det)
			break
		}
		passes = append(passes, det)
		t = det.Set.Add(10 * time.Minute)
	}
	return passes, nil
}
