package sattrack

import "math"

const (
	keplerTolerance = 1e-6
	keplerMaxIter   = 10
)

// SolveKepler returns the eccentric anomaly E satisfying E - e·sin(E) = M for
// a mean anomaly M in radians and 0 ≤ e < 1. The seed is the second-order
// Taylor expansion about M; the Newton correction is then applied until the
// update falls below 1e-6 radians or ten iterations have run. The boolean
// reports convergence: the last iterate is returned either way, the historical
// behavior of this solver family, and the counter tracks the fallbacks.
func SolveKepler(M, e float64) (float64, bool) {
	E := M + e*math.Sin(M)*(1+e*math.Cos(M))
	for i := 0; i < keplerMaxIter; i++ {
		ΔE := (M + e*math.Sin(E) - E) / (1 - e*math.Cos(E))
		E += ΔE
		if math.Abs(ΔE) <= keplerTolerance {
			return E, true
		}
	}
	keplerFallbacksTotal.Inc()
	return E, false
}

// perturbedAnomaly carries the trigonometric byproducts of the generalized
// Kepler solve that the short-period reconstruction reuses.
type perturbedAnomaly struct {
	epw          float64
	sinepw       float64
	cosepw       float64
	ecosE, esinE float64
	converged    bool
}

// solvePerturbedKepler solves the generalized Kepler equation in terms of the
// long-period element pair (axn, ayn) for the argument capu = xlt - xnode.
// Same tolerance and iteration cap as SolveKepler, same silent fallback.
func solvePerturbedKepler(capu, axn, ayn float64) perturbedAnomaly {
	var pa perturbedAnomaly
	pa.epw = capu
	for i := 0; i < keplerMaxIter; i++ {
		pa.sinepw = math.Sin(pa.epw)
		pa.cosepw = math.Cos(pa.epw)
		pa.ecosE = axn*pa.cosepw + ayn*pa.sinepw
		pa.esinE = axn*pa.sinepw - ayn*pa.cosepw
		Δ := (capu + pa.esinE - pa.epw) / (1 - pa.ecosE)
		pa.epw += Δ
		if math.Abs(Δ) <= keplerTolerance {
			pa.converged = true
			// Refresh the trigonometric terms for the final iterate.
			pa.sinepw = math.Sin(pa.epw)
			pa.cosepw = math.Cos(pa.epw)
			pa.ecosE = axn*pa.cosepw + ayn*pa.sinepw
			pa.esinE = axn*pa.sinepw - ayn*pa.cosepw
			return pa
		}
	}
	keplerFallbacksTotal.Inc()
	pa.sinepw = math.Sin(pa.epw)
	pa.cosepw = math.Cos(pa.epw)
	pa.ecosE = axn*pa.cosepw + ayn*pa.sinepw
	pa.esinE = axn*pa.sinepw - ayn*pa.cosepw
	return pa
}
