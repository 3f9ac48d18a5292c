package ephem

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/astroriga/skywatch/internal/astro"
)

// Timescale converts civil (UTC) instants to Terrestrial Time Julian Dates
// using a table of ΔT = TT − UT values loaded from a local data file.
type Timescale struct {
	entries []deltaTEntry // sorted by year
}

type deltaTEntry struct {
	year   float64
	deltaT float64 // seconds
}

// LoadTimescale reads a ΔT table from path. The format is one entry per
// line, "<decimal year> <deltaT seconds>", with '#' comments and blank
// lines ignored. At least one entry is required.
func LoadTimescale(path string) (*Timescale, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open timescale data: %w", err)
	}
	defer f.Close()

	var entries []deltaTEntry

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("timescale data line %d: expected year and deltaT", lineNo)
		}
		year, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("timescale data line %d: bad year %q", lineNo, fields[0])
		}
		dt, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("timescale data line %d: bad deltaT %q", lineNo, fields[1])
		}
		entries = append(entries, deltaTEntry{year: year, deltaT: dt})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read timescale data: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("timescale data %s: no entries", path)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].year < entries[j].year })

	return &Timescale{entries: entries}, nil
}

// DeltaT returns ΔT in seconds for a given instant, linearly interpolated
// between table entries and clamped to the table ends.
func (ts *Timescale) DeltaT(t time.Time) float64 {
	y := decimalYear(t.UTC())

	first := ts.entries[0]
	last := ts.entries[len(ts.entries)-1]
	if y <= first.year {
		return first.deltaT
	}
	if y >= last.year {
		return last.deltaT
	}

	i := sort.Search(len(ts.entries), func(i int) bool { return ts.entries[i].year >= y })
	lo, hi := ts.entries[i-1], ts.entries[i]
	frac := (y - lo.year) / (hi.year - lo.year)
	return lo.deltaT + frac*(hi.deltaT-lo.deltaT)
}

// TT returns the Terrestrial Time Julian Date for a civil instant.
func (ts *Timescale) TT(t time.Time) float64 {
	return astro.JulianDate(t) + ts.DeltaT(t)/86400.0
}

// UT returns the UT Julian Date for a civil instant. Sidereal-time
// calculations use UT, not TT.
func (ts *Timescale) UT(t time.Time) float64 {
	return astro.JulianDate(t)
}

func decimalYear(t time.Time) float64 {
	yearStart := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(t.Year()+1, 1, 1, 0, 0, 0, 0, time.UTC)
	return float64(t.Year()) + t.Sub(yearStart).Seconds()/yearEnd.Sub(yearStart).Seconds()
}
