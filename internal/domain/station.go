package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownStation is returned by ParseStation for anything other than "A" or "B".
var ErrUnknownStation = errors.New("station must be A or B")

// Station selects one of the two column pairs in the canonical dataset.
type Station int

const (
	StationA Station = iota + 1
	StationB
)

// columnPair is the (rain, temperature) column index pair in a canonical row.
type columnPair struct {
	rain int
	temp int
}

var stationColumns = map[Station]columnPair{
	StationA: {rain: ColRainA, temp: ColTempA},
	StationB: {rain: ColRainB, temp: ColTempB},
}

var stationLabels = map[Station]string{
	StationA: "Lund",
	StationB: "Uppsala",
}

// ParseStation converts a selector ("A" or "B") into a Station.
func ParseStation(s string) (Station, error) {
	switch s {
	case "A":
		return StationA, nil
	case "B":
		return StationB, nil
	default:
		return 0, fmt.Errorf("%w: got %q", ErrUnknownStation, s)
	}
}

// String returns the one-letter selector.
func (s Station) String() string {
	switch s {
	case StationA:
		return "A"
	case StationB:
		return "B"
	default:
		return fmt.Sprintf("Station(%d)", int(s))
	}
}

// Label returns the human-readable station name from the source export.
func (s Station) Label() string {
	return stationLabels[s]
}

// Columns returns the canonical column indices holding this station's
// rainfall and temperature.
func (s Station) Columns() (rain, temp int) {
	c, ok := stationColumns[s]
	if !ok {
		panic(fmt.Sprintf("domain: no columns for %v", s))
	}
	return c.rain, c.temp
}

// Selection identifies one aggregation run: a calendar year and a station.
type Selection struct {
	Year    int
	Station Station
}
