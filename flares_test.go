package sattrack

import "testing"

func TestNextFlaresValidation(t *testing.T) {
	sat := issSatellite(t)
	start := sat.Elements().Epoch
	if _, err := sat.NextSolarFlares(testObserver, start, 0.1, 1, 0, PrecisionFast); err == nil {
		t.Fatal("zero precision accepted")
	}
	if _, err := sat.NextSolarFlares(testObserver, start, 0.1, 1, 11, PrecisionFast); err == nil {
		t.Fatal("over-coarse precision accepted")
	}
}

func TestNextSolarFlares(t *testing.T) {
	if testing.Short() {
		t.Skip("multi-day scan")
	}
	sat := issSatellite(t)
	start := sat.Elements().Epoch
	flares, err := sat.NextSolarFlares(testObserver, start, Deg2rad(10), 3, 5, PrecisionFast)
	if err != nil {
		t.Fatalf("search: %s", err)
	}
	// An empty result is a legitimate outcome for this geometry; every
	// window that does come back must be well formed.
	for i, w := range flares {
		if w.Body != BodySun {
			t.Fatalf("flare %d body %s", i, w.Body)
		}
		if w.Start.Time.After(w.Max.Time) || w.Max.Time.After(w.End.Time) {
			t.Fatalf("flare %d ordering: %s / %s / %s", i, w.Start.Time, w.Max.Time, w.End.Time)
		}
		if w.MinGlintAngle > flareThreshold(BodySun) {
			t.Fatalf("flare %d glint %f above threshold", i, Rad2deg(w.MinGlintAngle))
		}
		if w.MinGlintAngle > w.Start.GlintAngle || w.MinGlintAngle > w.End.GlintAngle {
			t.Fatalf("flare %d minimum not at the brightest sample", i)
		}
		if w.Max.Illumination == Eclipsed {
			t.Fatalf("flare %d reported from shadow", i)
		}
		if w.Max.Elevation < Deg2rad(10) {
			t.Fatalf("flare %d below the elevation floor", i)
		}
		if i > 0 && !w.Start.Time.After(flares[i-1].End.Time) {
			t.Fatalf("flare %d overlaps its predecessor", i)
		}
	}
}

func TestFlareThresholds(t *testing.T) {
	if s, m := flareThreshold(BodySun), flareThreshold(BodyMoon); m >= s {
		t.Fatalf("lunar threshold %f not tighter than solar %f", Rad2deg(m), Rad2deg(s))
	}
}

func TestInFlare(t *testing.T) {
	sat := issSatellite(t)
	eph := Ephemeris{GlintAngle: 0.01, Elevation: 0.5, Illumination: PossiblyVisible}
	if !sat.inFlare(eph, 0.02, 0.1) {
		t.Fatal("in-window sample rejected")
	}
	eph.Illumination = Eclipsed
	if sat.inFlare(eph, 0.02, 0.1) {
		t.Fatal("eclipsed sample accepted")
	}
	eph.Illumination = Sunlit
	eph.GlintAngle = 0.03
	if sat.inFlare(eph, 0.02, 0.1) {
		t.Fatal("wide glint accepted")
	}
	eph.GlintAngle = 0.01
	eph.Elevation = 0.05
	if sat.inFlare(eph, 0.02, 0.1) {
		t.Fatal("low-elevation sample accepted")
	}
}

func TestNextLunarFlares(t *testing.T) {
	if testing.Short() {
		t.Skip("multi-day scan")
	}
	sat := issSatellite(t)
	flares, err := sat.NextLunarFlares(testObserver, sat.Elements().Epoch, Deg2rad(10), 1, 10, PrecisionFast)
	if err != nil {
		t.Fatalf("search: %s", err)
	}
	for i, w := range flares {
		if w.Body != BodyMoon {
			t.Fatalf("flare %d body %s", i, w.Body)
		}
	}
}
