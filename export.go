package sattrack

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// CgCatalog definition.
type CgCatalog struct {
	Version string     `json:"version"`
	Name    string     `json:"name"`
	Items   []*CgItems `json:"items"`
	Require []string   `json:"require,omitempty"`
}

func (c *CgCatalog) String() string {
	return c.Name + "(" + c.Version + ")"
}

// CgItems definition.
type CgItems struct {
	Class           string            `json:"class"`
	Name            string            `json:"name"`
	StartTime       string            `json:"startTime"`
	EndTime         string            `json:"endTime"`
	Center          string            `json:"center"`
	TrajectoryFrame string            `json:"trajectoryFrame"`
	Trajectory      *CgTrajectory     `json:"trajectory,omitempty"`
	Bodyframe       *CgBodyFrame      `json:"bodyFrame,omitempty"`
	Geometry        *CgGeometry       `json:"geometry,omitempty"`
	Label           *CgLabel          `json:"label,omitempty"`
	TrajectoryPlot  *CgTrajectoryPlot `json:"trajectoryPlot,omitempty"`
}

// CgTrajectory definition.
type CgTrajectory struct {
	Type   string `json:"type,omitempty"`
	Source string `json:"source,omitempty"`
}

// Validate validates a CgTrajectory.
func (t *CgTrajectory) Validate() error {
	if t.Type != "InterpolatedStates" || !strings.HasSuffix(t.Source, "xyzv") {
		return errors.New("only InterpolatedStates are currently supported in Cosmographia trajectory types")
	}
	return nil
}

func (t *CgTrajectory) String() string {
	return t.Source + " as " + t.Type
}

// CgBodyFrame definition.
type CgBodyFrame struct {
	Type string `json:"type,omitempty"`
	Name string `json:"name,omitempty"`
}

func (c *CgBodyFrame) String() string {
	return c.Name + " (type: " + c.Type + ")"
}

// CgGeometry definition.
type CgGeometry struct {
	Type   string    `json:"type,omitempty"`
	Mesh   []float64 `json:"meshRotation,omitempty"`
	Size   float64   `json:"size,omitempty"`
	Source string    `json:"source,omitempty"`
}

// CgLabel definition.
type CgLabel struct {
	Color    []float64 `json:"color,omitempty"`
	FadeSize int       `json:"fadeSize,omitempty"`
	ShowText bool      `json:"showText,omitempty"`
}

func (l *CgLabel) String() string {
	return fmt.Sprintf("color %v, fade %d, show %v", l.Color, l.FadeSize, l.ShowText)
}

// CgTrajectoryPlot definition.
type CgTrajectoryPlot struct {
	Color       []float64 `json:"color,omitempty"`
	LineWidth   int       `json:"lineWidth,omitempty"`
	Duration    string    `json:"duration,omitempty"`
	Lead        string    `json:"lead,omitempty"`
	Fade        int       `json:"fade,omitempty"`
	SampleCount int       `json:"sampleCount,omitempty"`
}

// CgInterpolatedState definition.
type CgInterpolatedState struct {
	JD       float64
	Position []float64
	Velocity []float64
}

// FromText initializes from text.
// The `record` parameter must be an array of seven items.
func (i *CgInterpolatedState) FromText(record []string) {
	if val, err := strconv.ParseFloat(record[0], 64); err != nil {
		panic(err)
	} else {
		i.JD = val
	}

	if posX, err := strconv.ParseFloat(record[1], 64); err != nil {
		panic(err)
	} else if posY, err := strconv.ParseFloat(record[2], 64); err != nil {
		panic(err)
	} else if posZ, err := strconv.ParseFloat(record[3], 64); err != nil {
		panic(err)
	} else {
		i.Position = []float64{posX, posY, posZ}
	}

	if velX, err := strconv.ParseFloat(record[4], 64); err != nil {
		panic(err)
	} else if velY, err := strconv.ParseFloat(record[5], 64); err != nil {
		panic(err)
	} else if velZ, err := strconv.ParseFloat(record[6], 64); err != nil {
		panic(err)
	} else {
		i.Velocity = []float64{velX, velY, velZ}
	}
}

// ToText converts to text for written output.
func (i *CgInterpolatedState) ToText() string {
	return fmt.Sprintf("%f %f %f %f %f %f %f", i.JD, i.Position[0], i.Position[1], i.Position[2], i.Velocity[0], i.Velocity[1], i.Velocity[2])
}

// ParseInterpolatedStates takes a string and converts that into a CgInterpolatedState.
func ParseInterpolatedStates(s string) []*CgInterpolatedState {
	var states = []*CgInterpolatedState{}
	r := csv.NewReader(strings.NewReader(s))
	r.Comma = ' '
	r.Comment = '#'
	for {
		record, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			panic(err)
		}
		state := CgInterpolatedState{}
		state.FromText(record)
		states = append(states, &state)
	}

	return states
}

// createTrackFile returns a file which requires a defer close statement!
func createTrackFile(filename string, stamped bool, firstDT time.Time) *os.File {
	config := sattrackConfig()
	if stamped {
		t := time.Now()
		filename = fmt.Sprintf("%s/track-%s-%d-%02d-%02dT%02d.%02d.%02d.xyzv", config.outputDir, filename, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	} else {
		filename = fmt.Sprintf("%s/track-%s.xyzv", config.outputDir, filename)
	}
	f, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	// Header
	f.WriteString(fmt.Sprintf(`# Creation date (UTC): %s
# Records are <jd> <x> <y> <z> <vel x> <vel y> <vel z>
#   Time is a UTC Julian date
#   Position in km, true equator mean equinox of date
#   Velocity in km/sec
#   Track start (UTC): %s`, time.Now(), firstDT.UTC()))
	return f
}

// createTopoCSVFile returns a file which requires a defer close statement!
func createTopoCSVFile(filename string, conf ExportConfig, firstDT time.Time) *os.File {
	config := sattrackConfig()
	if conf.Timestamp {
		t := time.Now()
		filename = fmt.Sprintf("%s/topo-%s-%d-%02d-%02dT%02d.%02d.%02d.csv", config.outputDir, filename, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	} else {
		filename = fmt.Sprintf("%s/topo-%s.csv", config.outputDir, filename)
	}
	f, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	// Header
	f.WriteString(fmt.Sprintf(`# Creation date (UTC): %s
# Azimuth and elevation in degrees, range in km, range rate in km/s.
#   Track start (UTC): %s
time,azimuth,elevation,range,rangeRate,latitude,longitude,altitude,illumination,glintAngle,`, time.Now(), firstDT.UTC()))
	if conf.CSVAppendHdr != nil {
		// Append the headers for the appended columns.
		f.WriteString(conf.CSVAppendHdr())
	}
	return f
}

// StreamEphemerides consumes a channel of ephemeris samples and writes them
// out per the export configuration: an xyzv interpolated-state track for
// Cosmographia and/or a topocentric CSV. The channel closing ends the export
// and, for Cosmographia, writes the catalog file.
func StreamEphemerides(conf ExportConfig, name string, ephChan <-chan Ephemeris) {
	var prevPtr, firstPtr *Ephemeris
	var f, fAsCSV *os.File
	cgItems := []*CgItems{}
	var curCgItem *CgItems
	defer func() {
		if conf.Cosmo && curCgItem != nil {
			c := CgCatalog{Version: "1.0", Name: name, Items: cgItems, Require: nil}
			fc, err := os.Create(fmt.Sprintf("%s/catalog-%s.json", sattrackConfig().outputDir, conf.Filename))
			if err != nil {
				panic(err)
			}
			defer fc.Close()
			fmt.Printf("Saving file to %s.\n", fc.Name())
			if marsh, err := json.Marshal(c); err != nil {
				panic(err)
			} else {
				fc.Write(marsh)
			}
		}
	}()

	color := []float64{0.6, 1, 1}
	for {
		eph, more := <-ephChan
		if !more {
			if prevPtr == nil {
				break
			}
			if conf.Cosmo {
				f.WriteString(fmt.Sprintf("\n# Track end (UTC): %s\n", prevPtr.Time.UTC()))
				f.Close()
				longerEnd := prevPtr.Time.Add(24 * time.Hour)
				curCgItem.EndTime = fmt.Sprintf("%s", longerEnd.UTC())
				curCgItem.TrajectoryPlot.Duration = fmt.Sprintf("%d d", int(longerEnd.Sub(firstPtr.Time).Hours()/24+1))
				cgItems = append(cgItems, curCgItem)
			}
			if conf.AsCSV {
				fAsCSV.WriteString(fmt.Sprintf("\n# Track end (UTC): %s\n", prevPtr.Time.UTC()))
				fAsCSV.Close()
			}
			break
		}
		if prevPtr == nil {
			firstPtr = &eph
			if conf.Cosmo {
				f = createTrackFile(conf.Filename, conf.Timestamp, eph.Time)
				traj := CgTrajectory{Type: "InterpolatedStates", Source: fmt.Sprintf("track-%s.xyzv", conf.Filename)}
				label := CgLabel{Color: color, FadeSize: 1000000, ShowText: true}
				plot := CgTrajectoryPlot{Color: color, LineWidth: 1, Duration: "", Lead: "0 d", Fade: 0, SampleCount: 10}
				curCgItem = &CgItems{Class: "spacecraft", Name: name, StartTime: fmt.Sprintf("%s", eph.Time.UTC()), EndTime: "", Center: Earth.Name, TrajectoryFrame: "ICRF", Trajectory: &traj, Bodyframe: nil, Geometry: nil, Label: &label, TrajectoryPlot: &plot}
			}
			if conf.AsCSV {
				fAsCSV = createTopoCSVFile(conf.Filename, conf, eph.Time)
			}
		} else if eph.Time.Sub(prevPtr.Time) < time.Minute {
			// Only write one datapoint per track minute.
			continue
		}
		prevPtr = &eph
		if conf.Cosmo {
			asTxt := CgInterpolatedState{JD: julian.TimeToJD(eph.Time), Position: eph.State.R, Velocity: eph.State.V}
			if _, err := f.WriteString("\n" + asTxt.ToText()); err != nil {
				panic(err)
			}
		}
		if conf.AsCSV {
			asTxt := fmt.Sprintf("%s,%.3f,%.3f,%.3f,%.3f,%.3f,%.3f,%.3f,%s,%.3f", eph.Time.UTC().Format("2006-01-02 15:04:05"),
				Rad2deg(eph.Azimuth), Rad2deg(eph.Elevation), eph.Range, eph.RangeRate,
				Rad2deg(eph.Latitude), Rad2deg(eph.Longitude), eph.Altitude, eph.Illumination, Rad2deg(eph.GlintAngle))
			if conf.CSVAppend != nil {
				asTxt += "," + conf.CSVAppend(eph)
			}
			if _, err := fAsCSV.WriteString("\n" + asTxt); err != nil {
				panic(err)
			}
		}
	}
}

// ExportConfig configures the exporting of a track.
type ExportConfig struct {
	Filename     string
	Cosmo        bool
	AsCSV        bool
	Timestamp    bool
	CSVAppend    func(eph Ephemeris) string // Custom export (do not include leading comma)
	CSVAppendHdr func() string              // Header for the custom export
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.Cosmo && !c.AsCSV
}
