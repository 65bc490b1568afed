package sattrack

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// BatchResult is the outcome of a batch prediction for one satellite. Err set
// means the propagation failed for this satellite; the others are unaffected.
type BatchResult struct {
	Satellite *Satellite
	Passes    []PassDetails
	Err       error
}

// PredictPasses runs PassesBetween for every satellite over a worker pool and
// returns the results in input order. Each satellite carries its own
// propagation state, so the workers never share mutable data. workers <= 0
// sizes the pool to the CPU count. Cancelling the context stops the batch;
// satellites still in flight report the context error.
func PredictPasses(ctx context.Context, obs Observer, sats []*Satellite, start, end time.Time, minElevation float64, workers int, mode PrecisionMode) []BatchResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(sats) {
		workers = len(sats)
	}
	results := make([]BatchResult, len(sats))
	jobs := make(chan int, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				sat := sats[idx]
				passes, err := sat.PassesBetween(ctx, obs, start, end, minElevation, mode)
				results[idx] = BatchResult{Satellite: sat, Passes: passes, Err: err}
			}
		}()
	}

	for idx := range sats {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			results[idx] = BatchResult{Satellite: sats[idx], Err: ctx.Err()}
			for j := idx + 1; j < len(sats); j++ {
				results[j] = BatchResult{Satellite: sats[j], Err: ctx.Err()}
			}
			close(jobs)
			wg.Wait()
			return results
		}
	}
	close(jobs)
	wg.Wait()
	return results
}
