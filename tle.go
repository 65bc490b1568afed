package sattrack

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// TLE holds one two-line element set, optionally with its title line.
type TLE struct {
	Name    string
	NORADID int
	Line1   string
	Line2   string
}

// ParseTLE parses a two-line element set. Both lines must carry a valid
// modulo-10 checksum.
func ParseTLE(name, line1, line2 string) (TLE, error) {
	if !strings.HasPrefix(line1, "1 ") || !strings.HasPrefix(line2, "2 ") {
		return TLE{}, fmt.Errorf("lines do not start with `1 ` and `2 `")
	}
	if len(line1) < 69 || len(line2) < 69 {
		return TLE{}, fmt.Errorf("element lines must be at least 69 characters")
	}
	for lno, line := range []string{line1, line2} {
		if err := verifyChecksum(line); err != nil {
			return TLE{}, fmt.Errorf("line %d: %s", lno+1, err)
		}
	}
	id1 := strings.TrimSpace(line1[2:7])
	id2 := strings.TrimSpace(line2[2:7])
	if id1 != id2 {
		return TLE{}, fmt.Errorf("catalog number mismatch between lines (%s vs %s)", id1, id2)
	}
	noradID, err := strconv.Atoi(id1)
	if err != nil {
		return TLE{}, fmt.Errorf("invalid catalog number %q", id1)
	}
	return TLE{Name: strings.TrimSpace(name), NORADID: noradID, Line1: line1, Line2: line2}, nil
}

// ParseTLEFile reads a stream of 3-line (name, line1, line2) element sets.
// Malformed entries are skipped with a warning, matching the tolerant
// behavior expected of catalog files.
func ParseTLEFile(r io.Reader) ([]TLE, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading element sets: %s", err)
	}
	var sets []TLE
	for i := 0; i+1 < len(lines); {
		if strings.HasPrefix(lines[i], "1 ") && strings.HasPrefix(lines[i+1], "2 ") {
			// Unnamed two-line entry.
			if tle, err := ParseTLE("", lines[i], lines[i+1]); err == nil {
				sets = append(sets, tle)
				i += 2
				continue
			}
		}
		if i+2 >= len(lines) {
			break
		}
		tle, err := ParseTLE(lines[i], lines[i+1], lines[i+2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "[warning] skipping element set %q: %s\n", lines[i], err)
			i++
			continue
		}
		sets = append(sets, tle)
		i += 3
	}
	return sets, nil
}

// verifyChecksum checks the trailing modulo-10 digit of an element line.
// Digits count their value, minus signs count one.
func verifyChecksum(line string) error {
	sum := 0
	for _, c := range line[:68] {
		switch {
		case c >= '0' && c <= '9':
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	want := int(line[68] - '0')
	if sum%10 != want {
		return fmt.Errorf("checksum mismatch (computed %d, line says %d)", sum%10, want)
	}
	return nil
}

// Elements converts the parsed lines to a set of mean orbital elements.
func (t TLE) Elements() (OrbitalElements, error) {
	epoch, err := parseTLEEpoch(strings.TrimSpace(t.Line1[18:32]))
	if err != nil {
		return OrbitalElements{}, err
	}
	ndot, err := parseField(t.Line1[33:43], "mean motion derivative")
	if err != nil {
		return OrbitalElements{}, err
	}
	nddot, err := parseExpField(t.Line1[44:52], "mean motion second derivative")
	if err != nil {
		return OrbitalElements{}, err
	}
	bstar, err := parseExpField(t.Line1[53:61], "B* drag term")
	if err != nil {
		return OrbitalElements{}, err
	}
	incl, err := parseField(t.Line2[8:16], "inclination")
	if err != nil {
		return OrbitalElements{}, err
	}
	raan, err := parseField(t.Line2[17:25], "right ascension")
	if err != nil {
		return OrbitalElements{}, err
	}
	ecc, err := parseField("0."+strings.TrimSpace(t.Line2[26:33]), "eccentricity")
	if err != nil {
		return OrbitalElements{}, err
	}
	argp, err := parseField(t.Line2[34:42], "argument of perigee")
	if err != nil {
		return OrbitalElements{}, err
	}
	ma, err := parseField(t.Line2[43:51], "mean anomaly")
	if err != nil {
		return OrbitalElements{}, err
	}
	mm, err := parseField(t.Line2[52:63], "mean motion")
	if err != nil {
		return OrbitalElements{}, err
	}
	rev, err := strconv.Atoi(strings.TrimSpace(t.Line2[63:68]))
	if err != nil {
		return OrbitalElements{}, fmt.Errorf("invalid revolution number %q", strings.TrimSpace(t.Line2[63:68]))
	}
	el := OrbitalElements{
		Name:        t.Name,
		NORADID:     t.NORADID,
		Epoch:       epoch,
		MeanMotion:  mm,
		MeanMotion1: ndot * 2,
		MeanMotion2: nddot * 6,
		Bstar:       bstar,
		Inclination: Deg2rad(incl),
		Node:        Deg2rad(raan),
		Ecc:         ecc,
		ArgPerigee:  Deg2rad(argp),
		MeanAnomaly: Deg2rad(ma),
		RevNumber:   rev,
	}
	return el, el.Validate()
}

func parseField(s, what string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, strings.TrimSpace(s))
	}
	return v, nil
}

// parseExpField handles the implied-decimal exponent notation used for the
// second derivative and B* fields, e.g. ` 12345-4` meaning 0.12345e-4.
func parseExpField(s, what string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "00000-0" || s == "00000+0" {
		return 0, nil
	}
	sign := 1.0
	if strings.HasPrefix(s, "-") {
		sign = -1
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	expIdx := strings.LastIndexAny(s, "+-")
	if expIdx <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	mant, err := strconv.ParseFloat("0."+s[:expIdx], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	exp, err := strconv.Atoi(s[expIdx:])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return sign * mant * pow10(exp), nil
}

func pow10(n int) float64 {
	v := 1.0
	for i := 0; i < n; i++ {
		v *= 10
	}
	for i := 0; i > n; i-- {
		v /= 10
	}
	return v
}

// parseTLEEpoch converts the YYDDD.DDDDDDDD epoch field to UTC.
// Years 57-99 map to the 1900s, 00-56 to the 2000s.
func parseTLEEpoch(s string) (time.Time, error) {
	if len(s) < 5 {
		return time.Time{}, fmt.Errorf("epoch field too short: %q", s)
	}
	year, err := strconv.Atoi(s[:2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch year in %q", s)
	}
	if year >= 57 {
		year += 1900
	} else {
		year += 2000
	}
	dayOfYear, err := strconv.ParseFloat(s[2:], 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch day in %q", s)
	}
	t := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	return t.Add(time.Duration((dayOfYear - 1) * float64(24*time.Hour))), nil
}
