// Package shapes generates vertex sequences for geometric shapes laid out on
// the ellipsoid around an origin. Azimuths are degrees clockwise from north
// and distances are meters.
//
// Generators are pure: the same origin and parameters always produce the
// same vertices, and a single *geo.Geodesic may be shared between goroutines.
package shapes

import (
	"math"

	"github.com/dpup/shapetools/internal/lib/antimeridian"
	"github.com/dpup/shapetools/internal/lib/geo"
)

// Kind tells a geometry sink how to wrap the rings of a Shape.
type Kind int

const (
	// Polygon: Rings[0] is the outer boundary, any further rings are holes.
	Polygon Kind = iota
	// Line: Rings[0] is an open polyline.
	Line
	// MultiLine: every ring is an independent polyline.
	MultiLine
	// Points: Rings[0] is a list of unconnected points.
	Points
)

func (k Kind) String() string {
	switch k {
	case Polygon:
		return "polygon"
	case Line:
		return "line"
	case MultiLine:
		return "multiline"
	case Points:
		return "points"
	}
	return "unknown"
}

// Shape is the output of a generator.
type Shape struct {
	Kind  Kind
	Rings geo.MultiRing
}

func polygon(rings ...geo.Ring) Shape {
	return Shape{Kind: Polygon, Rings: rings}
}

// Outer returns the first ring, or nil for an empty shape.
func (s Shape) Outer() geo.Ring {
	if len(s.Rings) == 0 {
		return nil
	}
	return s.Rings[0]
}

// ringAt solves Direct from origin at every azimuth with the same distance.
func ringAt(g *geo.Geodesic, origin geo.Point, azimuths []float64, distance float64) (geo.Ring, error) {
	polar := make([]geo.Polar, len(azimuths))
	for i, a := range azimuths {
		polar[i] = geo.Polar{Bearing: a, Distance: distance}
	}
	return geo.ProjectPolar(g, origin, polar)
}

// closedRing closes r and unwraps it when it crosses the antimeridian.
func closedRing(r geo.Ring) geo.Ring {
	return antimeridian.NormalizePositive(r.Close(), false)
}

// steps returns n azimuths starting at start, spaced 360/n apart.
func steps(start float64, n int) []float64 {
	out := make([]float64, n)
	step := 360 / float64(n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

// sweep returns azimuths from start while below end in increments of step,
// followed by end itself.
func sweep(start, end, step float64) []float64 {
	var out []float64
	for a := start; a < end-1e-9; a += step {
		out = append(out, a)
	}
	return append(out, end)
}

// mod360 wraps an angle into [0, 360).
func mod360(a float64) float64 {
	m := math.Mod(a, 360)
	if m < 0 {
		m += 360
	}
	return m
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func requirePositive(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return geo.Invalidf("%s must be positive, got %v", name, v)
	}
	return nil
}

func requireNonNegative(name string, v float64) error {
	if !(v >= 0) || math.IsInf(v, 0) {
		return geo.Invalidf("%s must not be negative, got %v", name, v)
	}
	return nil
}

func requireAtLeast(name string, v, min int) error {
	if v < min {
		return geo.Invalidf("%s must be at least %d, got %d", name, min, v)
	}
	return nil
}

func requireFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return geo.Invalidf("%s must be a finite number, got %v", name, v)
	}
	return nil
}
