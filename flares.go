package sattrack

import (
	"fmt"
	"math"
	"time"
)

// FlareWindow is one specular-reflection window: the ephemeris samples at its
// start, its brightest point and its end, plus the minimum glint angle
// reached. Start ≤ Max ≤ End always holds.
type FlareWindow struct {
	Start         Ephemeris
	Max           Ephemeris
	End           Ephemeris
	MinGlintAngle float64
	Body          IlluminatingBody
}

// flareWalkCap bounds each one-second refinement walk. Flares last seconds to
// a couple of minutes; ten minutes of walk means the geometry is degenerate.
const flareWalkCap = 600

// NextSolarFlares finds sun-glint flares. See NextFlares.
func (s *Satellite) NextSolarFlares(obs Observer, start time.Time, minElevation, maxDays float64, precisionSeconds int, mode PrecisionMode) ([]FlareWindow, error) {
	return s.NextFlares(obs, start, minElevation, maxDays, precisionSeconds, BodySun, mode)
}

// NextLunarFlares finds moon-glint flares. See NextFlares.
func (s *Satellite) NextLunarFlares(obs Observer, start time.Time, minElevation, maxDays float64, precisionSeconds int, mode PrecisionMode) ([]FlareWindow, error) {
	return s.NextFlares(obs, start, minElevation, maxDays, precisionSeconds, BodyMoon, mode)
}

// NextFlares scans up to maxDays from start for windows where the glint angle
// off the illuminating body falls at or below the configured flare threshold
// while the satellite is above minElevation and out of eclipse. The coarse
// scan runs at precisionSeconds (1 to 10); window edges and the brightest
// sample are pinned by one-second walks. One algorithm serves both bodies,
// only the body vector and threshold differ.
func (s *Satellite) NextFlares(obs Observer, start time.Time, minElevation, maxDays float64, precisionSeconds int, body IlluminatingBody, mode PrecisionMode) ([]FlareWindow, error) {
	if precisionSeconds < 1 || precisionSeconds > 10 {
		return nil, fmt.Errorf("flare scan precision %d s not in [1, 10]", precisionSeconds)
	}
	threshold := flareThreshold(body)
	deadline := start.Add(time.Duration(maxDays * 24 * float64(time.Hour)))
	precision := time.Duration(precisionSeconds) * time.Second

	var flares []FlareWindow
	t := start
	for t.Before(deadline) {
		remaining := deadline.Sub(t).Hours() / 24
		if remaining <= 0 {
			break
		}
		ev, err := s.NextPass(obs, t, minElevation, remaining, t.Equal(start), mode)
		if err != nil {
			return flares, err
		}
		if !ev.Found {
			break
		}
		det, err := s.RiseSetTransit(obs, ev, math.NaN(), mode)
		if err != nil {
			return flares, err
		}
		if !det.Valid {
			t = ev.Time.Add(10 * time.Minute)
			continue
		}

		u := det.Rise
		if u.Before(start) {
			u = start
		}
		for !u.After(det.Set) {
			eph, err := s.ephemerisAt(obs, u, mode, body)
			if err != nil {
				return flares, err
			}
			if s.inFlare(eph, threshold, minElevation) {
				w, resume, ok, err := s.refineFlare(obs, u, threshold, minElevation, body, mode)
				if err != nil {
					return flares, err
				}
				if ok {
					flares = append(flares, w)
				}
				u = resume.Add(precision)
				continue
			}
			u = u.Add(precision)
		}
		t = det.Set.Add(10 * time.Minute)
	}
	if len(flares) == 0 {
		searchExhaustedTotal.WithLabelValues("flare").Inc()
	}
	return flares, nil
}

func flareThreshold(body IlluminatingBody) float64 {
	if body == BodyMoon {
		return sattrackConfig().lunarFlareAngleDeg * deg2rad
	}
	return sattrackConfig().solarFlareAngleDeg * deg2rad
}

// inFlare is the window condition: glint within threshold, satellite above
// the elevation minimum and out of shadow.
func (s *Satellite) inFlare(eph Ephemeris, threshold, minElevation float64) bool {
	return eph.GlintAngle <= threshold && eph.Elevation >= minElevation && eph.Illumination != Eclipsed
}

// refineFlare walks one second at a time backward then forward from a coarse
// hit inside a flare window, pinning the exact edges and the minimum glint
// angle. Returns the window, the time to resume the coarse scan at, and
// whether the window survived (a maximum sample in eclipse discards it).
func (s *Satellite) refineFlare(obs Observer, hit time.Time, threshold, minElevation float64, body IlluminatingBody, mode PrecisionMode) (FlareWindow, time.Time, bool, error) {
	at := func(dt time.Time) (Ephemeris, error) {
		return s.ephemerisAt(obs, dt, mode, body)
	}
	first, err := at(hit)
	if err != nil {
		return FlareWindow{}, hit, false, err
	}
	w := FlareWindow{Start: first, Max: first, End: first, MinGlintAngle: first.GlintAngle, Body: body}

	edge := func(dir time.Duration) (Ephemeris, error) {
		last := first
		for i := 0; i < flareWalkCap; i++ {
			eph, err := at(last.Time.Add(dir))
			if err != nil {
				return last, err
			}
			if !s.inFlare(eph, threshold, minElevation) {
				break
			}
			if eph.GlintAngle < w.MinGlintAngle {
				w.MinGlintAngle = eph.GlintAngle
				w.Max = eph
			}
			last = eph
		}
		return last, nil
	}

	w.Start, err = edge(-time.Second)
	if err != nil {
		return FlareWindow{}, hit, false, err
	}
	w.End, err = edge(time.Second)
	if err != nil {
		return FlareWindow{}, w.End.Time, false, err
	}
	if w.Max.Illumination == Eclipsed {
		return FlareWindow{}, w.End.Time, false, nil
	}
	return w, w.End.Time, true, nil
}
