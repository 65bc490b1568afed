package sattrack

import (
	"context"
	"testing"
	"time"
)

func TestPredictPassesBatch(t *testing.T) {
	sats := []*Satellite{issSatellite(t), issSatellite(t), issSatellite(t)}
	start := sats[0].Elements().Epoch
	end := start.Add(3 * 24 * time.Hour)
	results := PredictPasses(context.Background(), testObserver, sats, start, end, Deg2rad(10), 2, PrecisionFast)
	if len(results) != len(sats) {
		t.Fatalf("%d results for %d satellites", len(results), len(sats))
	}
	for i, res := range results {
		if res.Satellite != sats[i] {
			t.Fatalf("result %d out of order", i)
		}
		if res.Err != nil {
			t.Fatalf("result %d: %s", i, res.Err)
		}
		if len(res.Passes) == 0 {
			t.Fatalf("result %d: no passes in three days", i)
		}
	}
	// Identical inputs give identical outputs regardless of scheduling.
	for i := 1; i < len(results); i++ {
		if len(results[i].Passes) != len(results[0].Passes) {
			t.Fatalf("result %d found %d passes, result 0 found %d",
				i, len(results[i].Passes), len(results[0].Passes))
		}
	}
}

func TestPredictPassesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sats := []*Satellite{issSatellite(t)}
	start := sats[0].Elements().Epoch
	results := PredictPasses(ctx, testObserver, sats, start, start.Add(24*time.Hour), Deg2rad(10), 1, PrecisionFast)
	for i, res := range results {
		if res.Err == nil {
			t.Fatalf("result %d missing the cancellation error", i)
		}
	}
}

func TestPredictPassesEmpty(t *testing.T) {
	results := PredictPasses(context.Background(), testObserver, nil, time.Now(), time.Now().Add(time.Hour), 0.1, 0, PrecisionFast)
	if len(results) != 0 {
		t.Fatalf("%d results for no satellites", len(results))
	}
}
