// Package units converts user-facing distance and duration units to meters
// and seconds.
package units

import (
	"sort"
	"strings"

	"github.com/dpup/shapetools/internal/lib/geo"
)

// Distance is a named length unit.
type Distance string

const (
	Kilometers    Distance = "km"
	Meters        Distance = "m"
	Centimeters   Distance = "cm"
	Miles         Distance = "mi"
	Yards         Distance = "yd"
	Feet          Distance = "ft"
	Inches        Distance = "in"
	NauticalMiles Distance = "nm"
)

var metersPer = map[Distance]float64{
	Kilometers:    1000,
	Meters:        1,
	Centimeters:   0.01,
	Miles:         1609.344,
	Yards:         0.9144,
	Feet:          0.3048,
	Inches:        0.0254,
	NauticalMiles: 1852,
}

var distanceAliases = map[string]Distance{
	"kilometers":     Kilometers,
	"kilometres":     Kilometers,
	"meters":         Meters,
	"metres":         Meters,
	"centimeters":    Centimeters,
	"miles":          Miles,
	"yards":          Yards,
	"feet":           Feet,
	"inches":         Inches,
	"nautical_miles": NauticalMiles,
	"nmi":            NauticalMiles,
}

// ParseDistance resolves a unit name or abbreviation, case-insensitively.
func ParseDistance(name string) (Distance, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if _, ok := metersPer[Distance(key)]; ok {
		return Distance(key), nil
	}
	if d, ok := distanceAliases[key]; ok {
		return d, nil
	}
	return "", geo.Invalidf("unknown distance unit %q", name)
}

// Meters returns the number of meters in one unit.
func (d Distance) Meters() (float64, error) {
	m, ok := metersPer[d]
	if !ok {
		return 0, geo.Invalidf("unknown distance unit %q", string(d))
	}
	return m, nil
}

// ToMeters converts value expressed in unit to meters.
func ToMeters(value float64, unit Distance) (float64, error) {
	m, err := unit.Meters()
	if err != nil {
		return 0, err
	}
	return value * m, nil
}

// DistanceNames lists the canonical abbreviations, for help text.
func DistanceNames() []string {
	names := make([]string, 0, len(metersPer))
	for d := range metersPer {
		names = append(names, string(d))
	}
	sort.Strings(names)
	return names
}

// Duration is a named time unit used by time-based decimation.
type Duration string

const (
	Seconds Duration = "s"
	Minutes Duration = "min"
	Hours   Duration = "h"
	Days    Duration = "day"
)

var secondsPer = map[Duration]float64{
	Seconds: 1,
	Minutes: 60,
	Hours:   3600,
	Days:    86400,
}

// ParseDuration resolves a time unit name.
func ParseDuration(name string) (Duration, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "seconds", "sec":
		key = string(Seconds)
	case "minutes":
		key = string(Minutes)
	case "hours", "hr":
		key = string(Hours)
	case "days", "d":
		key = string(Days)
	}
	if _, ok := secondsPer[Duration(key)]; !ok {
		return "", geo.Invalidf("unknown time unit %q", name)
	}
	return Duration(key), nil
}

// ToSeconds converts value expressed in unit to seconds.
func ToSeconds(value float64, unit Duration) (float64, error) {
	s, ok := secondsPer[unit]
	if !ok {
		return 0, geo.Invalidf("unknown time unit %q", string(unit))
	}
	return value * s, nil
}
