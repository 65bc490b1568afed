package sattrack

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestInterpolatedStateRoundTrip(t *testing.T) {
	st := CgInterpolatedState{JD: 2454730.0, Position: []float64{6700, -1200, 300}, Velocity: []float64{1.5, 7.2, -0.3}}
	states := ParseInterpolatedStates(st.ToText())
	if len(states) != 1 {
		t.Fatalf("parsed %d states", len(states))
	}
	back := states[0]
	if back.JD != st.JD {
		t.Fatalf("JD %f", back.JD)
	}
	if !vectorsEqual(back.Position, st.Position) || !vectorsEqual(back.Velocity, st.Velocity) {
		t.Fatalf("state %+v", back)
	}
}

func TestParseInterpolatedStatesComments(t *testing.T) {
	blob := "# header line\n2454730.0 1 2 3 4 5 6\n2454730.1 7 8 9 10 11 12"
	states := ParseInterpolatedStates(blob)
	if len(states) != 2 {
		t.Fatalf("parsed %d states", len(states))
	}
}

func TestCgTrajectoryValidate(t *testing.T) {
	good := CgTrajectory{Type: "InterpolatedStates", Source: "track-iss.xyzv"}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid trajectory rejected: %s", err)
	}
	bad := CgTrajectory{Type: "Keplerian", Source: "track-iss.xyzv"}
	if err := bad.Validate(); err == nil {
		t.Fatal("unsupported trajectory type accepted")
	}
	if !strings.Contains(good.String(), "xyzv") {
		t.Fatalf("string: %q", good.String())
	}
}

func TestExportConfigIsUseless(t *testing.T) {
	if !(ExportConfig{}).IsUseless() {
		t.Fatal("empty config claims to do something")
	}
	if (ExportConfig{AsCSV: true}).IsUseless() {
		t.Fatal("CSV config claims to be useless")
	}
}

func TestStreamEphemerides(t *testing.T) {
	sattrackConfig()
	saved := config
	config.outputDir = t.TempDir()
	defer func() { config = saved }()

	sat := issSatellite(t)
	start := sat.TimeOf(0)
	// Minute-spaced samples plus one 30 seconds after the second, which the
	// one-datapoint-per-minute rule must drop.
	offsets := []time.Duration{0, 2 * time.Minute, 2*time.Minute + 30*time.Second, 4 * time.Minute}
	ephChan := make(chan Ephemeris, len(offsets))
	for _, off := range offsets {
		eph, err := sat.EphemerisAt(testObserver, start.Add(off), PrecisionExact)
		if err != nil {
			t.Fatalf("ephemeris at %s: %s", off, err)
		}
		ephChan <- eph
	}
	close(ephChan)

	conf := ExportConfig{Filename: "iss", Cosmo: true, AsCSV: true}
	StreamEphemerides(conf, sat.Name(), ephChan)

	blob, err := os.ReadFile(filepath.Join(config.outputDir, "track-iss.xyzv"))
	if err != nil {
		t.Fatalf("reading track: %s", err)
	}
	states := ParseInterpolatedStates(string(blob))
	if len(states) != 3 {
		t.Fatalf("track carries %d states, expected 3", len(states))
	}
	for i := 1; i < len(states); i++ {
		if states[i].JD <= states[i-1].JD {
			t.Fatal("track states out of order")
		}
	}

	blob, err = os.ReadFile(filepath.Join(config.outputDir, "topo-iss.csv"))
	if err != nil {
		t.Fatalf("reading CSV: %s", err)
	}
	rows := 0
	for _, line := range strings.Split(string(blob), "\n") {
		if strings.HasPrefix(line, "2") {
			rows++
		}
	}
	if rows != 3 {
		t.Fatalf("CSV carries %d rows, expected 3", rows)
	}

	blob, err = os.ReadFile(filepath.Join(config.outputDir, "catalog-iss.json"))
	if err != nil {
		t.Fatalf("reading catalog: %s", err)
	}
	var cat CgCatalog
	if err := json.Unmarshal(blob, &cat); err != nil {
		t.Fatalf("unmarshaling catalog: %s", err)
	}
	if len(cat.Items) != 1 || cat.Items[0].Class != "spacecraft" {
		t.Fatalf("unexpected catalog items: %+v", cat.Items)
	}
	if err := cat.Items[0].Trajectory.Validate(); err != nil {
		t.Fatalf("catalog trajectory: %s", err)
	}
}
